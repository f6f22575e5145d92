package records

import (
	"strconv"
)

// Record is one geocoded and dated photograph of a search target
type Record struct {
	Target      string  `json:"target" yaml:"target" parquet:"target"`
	Date        string  `json:"date" yaml:"date" parquet:"date"`
	Month       string  `json:"month" yaml:"month" parquet:"month"`
	Year        string  `json:"year" yaml:"year" parquet:"year"`
	Town        string  `json:"town" yaml:"town" parquet:"town"`
	Lat         float64 `json:"lat" yaml:"lat" parquet:"lat"`
	Lon         float64 `json:"lon" yaml:"lon" parquet:"lon"`
	Party       string  `json:"party" yaml:"party" parquet:"party"`
	Institution string  `json:"institution" yaml:"institution" parquet:"institution"`
}

// Columns is the header of the tabular output, in field order
var Columns = []string{"Target", "Date", "Month", "Year", "Town", "Lat", "Lon", "Party", "Institution"}

// YearInt returns the numeric year, or false if it is not a number
func (r Record) YearInt() (int, bool) {
	y, err := strconv.Atoi(r.Year)
	if err != nil {
		return 0, false
	}
	return y, true
}

// Dedupe removes records equal in every field, keeping the first occurrence
func Dedupe(recs []Record) []Record {
	seen := make(map[Record]struct{}, len(recs))
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
