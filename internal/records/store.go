package records

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format is a supported record file format
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatSQLite  Format = "sqlite"
)

// FormatFromPath detects the record format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".parquet":
		return FormatParquet, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (supported: .csv, .parquet, .db, .sqlite)", ext)
	}
}

// Loader reads a record file in any supported format
type Loader struct {
	path string
}

// NewLoader creates a new record loader
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Load loads all records from the file
func (l *Loader) Load(ctx context.Context) ([]Record, error) {
	format, err := FormatFromPath(l.path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(l.path); err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}

	var recs []Record
	switch format {
	case FormatCSV:
		recs, err = l.loadCSV()
	case FormatParquet:
		recs, err = readParquet(l.path)
	case FormatSQLite:
		recs, err = ReadSQLite(ctx, l.path)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded records", "path", l.path, "format", format, "count", len(recs))
	return recs, nil
}

func (l *Loader) loadCSV() ([]Record, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// Save writes records to path in the format implied by its extension
func Save(ctx context.Context, path string, recs []Record) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if format == FormatSQLite {
		return WriteSQLite(ctx, path, recs)
	}

	var write func(io.Writer, []Record) error
	switch format {
	case FormatCSV:
		write = WriteCSV
	case FormatParquet:
		write = WriteParquet
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create records file: %w", err)
	}

	if err := write(file, recs); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close records file: %w", err)
	}

	slog.Debug("Saved records", "path", path, "format", format, "count", len(recs))
	return nil
}
