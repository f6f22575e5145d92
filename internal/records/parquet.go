package records

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet writes records as a single parquet file
func WriteParquet(w io.Writer, recs []Record) error {
	writer := parquet.NewGenericWriter[Record](w)

	if _, err := writer.Write(recs); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// readParquet loads all records from a parquet file
func readParquet(path string) ([]Record, error) {
	slog.Debug("Opening Parquet file", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	var recs []Record
	rows := make([]Record, 128) // Read in batches

	for {
		n, err := reader.Read(rows)
		if n > 0 {
			recs = append(recs, rows[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(recs))

	return recs, nil
}
