package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// ReadValues returns the raw key/value pairs stored in the dotenv file.
// A missing file yields an empty map.
func ReadValues(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

// envFileMode keeps the wallet key readable by the owner only.
const envFileMode os.FileMode = 0600

// SaveValues writes the key/value pairs back to the dotenv file, dropping empty values.
func SaveValues(path string, values map[string]string) error {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if v != "" {
			out[k] = v
		}
	}
	content, err := godotenv.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content+"\n"), envFileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, envFileMode); err != nil {
		return fmt.Errorf("failed to restrict %s: %w", path, err)
	}
	return nil
}
