package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCSV writes records with a header row
func WriteCSV(w io.Writer, recs []Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range recs {
		row := []string{
			r.Target,
			r.Date,
			r.Month,
			r.Year,
			r.Town,
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Lon, 'f', -1, 64),
			r.Party,
			r.Institution,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV reads records written by WriteCSV. Columns are located by header
// name, so extra columns such as a leading index are ignored.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range Columns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("CSV is missing column %q", c)
		}
	}

	var recs []Record
	lineNum := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		lineNum++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", lineNum, err)
		}

		field := func(name string) string {
			i := index[name]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		lat, err := strconv.ParseFloat(field("Lat"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid Lat at line %d: %w", lineNum, err)
		}
		lon, err := strconv.ParseFloat(field("Lon"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid Lon at line %d: %w", lineNum, err)
		}

		recs = append(recs, Record{
			Target:      field("Target"),
			Date:        field("Date"),
			Month:       field("Month"),
			Year:        field("Year"),
			Town:        field("Town"),
			Lat:         lat,
			Lon:         lon,
			Party:       field("Party"),
			Institution: field("Institution"),
		})
	}

	return recs, nil
}
