package holdings

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ErrNothingToExport is returned when the ledger is empty.
var ErrNothingToExport = errors.New("no holdings to export")

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format    ExportFormat
	OutputDir string
}

// Exporter writes ledger snapshots to disk.
type Exporter struct {
	clock  clock.Clock
	logger *zap.Logger
}

func NewExporter(clk clock.Clock, logger *zap.Logger) *Exporter {
	if clk == nil {
		clk = clock.New()
	}
	return &Exporter{
		clock:  clk,
		logger: logger,
	}
}

// Export writes holdings to a timestamped file in opts.OutputDir and returns its path.
func (e *Exporter) Export(holdings []Holding, opts ExportOptions) (string, error) {
	if len(holdings) == 0 {
		return "", ErrNothingToExport
	}
	if opts.Format == "" {
		opts.Format = FormatCSV
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("holdings_%s.%s", e.clock.Now().UTC().Format("20060102_150405"), opts.Format)
	outputPath := filepath.Join(opts.OutputDir, filename)

	var err error
	switch opts.Format {
	case FormatCSV:
		err = e.exportToCSV(holdings, outputPath)
	case FormatJSON:
		err = e.exportToJSON(holdings, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", opts.Format)
	}
	if err != nil {
		return "", err
	}

	e.logger.Info("Holdings exported",
		zap.String("file", outputPath),
		zap.Int("count", len(holdings)),
		zap.String("format", string(opts.Format)))

	return outputPath, nil
}

// CSVHeaders returns the header row used by CSV exports.
func CSVHeaders() []string {
	return []string{"mint", "amount", "initial_investment", "acquired_at"}
}

func (h Holding) toCSV() []string {
	return []string{
		h.Mint,
		strconv.FormatFloat(h.Amount, 'f', -1, 64),
		strconv.FormatFloat(h.InitialInvestment, 'f', -1, 64),
		h.AcquiredAt.UTC().Format(time.RFC3339),
	}
}

func (e *Exporter) exportToCSV(holdings []Holding, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, h := range holdings {
		if err := writer.Write(h.toCSV()); err != nil {
			return fmt.Errorf("failed to write holding: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (e *Exporter) exportToJSON(holdings []Holding, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	var total float64
	for _, h := range holdings {
		total += h.InitialInvestment
	}

	exportData := struct {
		ExportTime    time.Time `json:"export_time"`
		HoldingCount  int       `json:"holding_count"`
		TotalInvested float64   `json:"total_invested"`
		Holdings      []Holding `json:"holdings"`
	}{
		ExportTime:    e.clock.Now().UTC(),
		HoldingCount:  len(holdings),
		TotalInvested: total,
		Holdings:      holdings,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
