package logger

import (
	"sync"
	"time"
)

// Record is a single journal entry.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Category  Category  `json:"category"`
	Message   string    `json:"message"`
}

// Journal is a thread-safe ring buffer of recent records with per-category totals.
type Journal struct {
	mu           sync.Mutex
	ring         []Record
	maxSize      int
	currentIndex int
	wrapped      bool
	totals       map[Category]uint64
}

// NewJournal creates a journal keeping the last maxSize records.
func NewJournal(maxSize int) *Journal {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Journal{
		ring:    make([]Record, maxSize),
		maxSize: maxSize,
		totals:  make(map[Category]uint64),
	}
}

// Add appends a record, overwriting the oldest once full.
func (j *Journal) Add(rec Record) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.ring[j.currentIndex] = rec
	j.currentIndex = (j.currentIndex + 1) % j.maxSize
	if j.currentIndex == 0 {
		j.wrapped = true
	}
	j.totals[rec.Category]++
}

// ByCategory returns up to limit of the newest retained records of one
// category, oldest first. limit <= 0 means all of them.
func (j *Journal) ByCategory(category Category, limit int) []Record {
	j.mu.Lock()
	defer j.mu.Unlock()

	count := j.currentIndex
	start := 0
	if j.wrapped {
		count = j.maxSize
		start = j.currentIndex
	}

	var out []Record
	for i := 0; i < count; i++ {
		if rec := j.ring[(start+i)%j.maxSize]; rec.Category == category {
			out = append(out, rec)
		}
	}
	if limit > 0 && limit < len(out) {
		out = out[len(out)-limit:]
	}
	return out
}

// Count returns how many records of the category were ever added.
func (j *Journal) Count(category Category) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return int(j.totals[category])
}
