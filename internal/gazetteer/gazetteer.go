package gazetteer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default column headers of the municipality table.
const (
	DefaultNameColumn = "Column1"
	DefaultLatColumn  = "Column2"
	DefaultLonColumn  = "Column3"
)

// Town represents a named place with WGS84 coordinates
type Town struct {
	Name string  `json:"name" yaml:"name"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
}

// FormatError is returned when the gazetteer file lacks a required column
type FormatError struct {
	Path   string
	Column string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("gazetteer %s: missing required column %q", e.Path, e.Column)
}

// Columns names the header fields holding the town name and coordinates
type Columns struct {
	Name string
	Lat  string
	Lon  string
}

// DefaultColumns returns the header names used by the municipality export
func DefaultColumns() Columns {
	return Columns{
		Name: DefaultNameColumn,
		Lat:  DefaultLatColumn,
		Lon:  DefaultLonColumn,
	}
}

// Gazetteer is an immutable set of towns keyed by name
type Gazetteer struct {
	towns  []Town
	byName map[string]int
	// indices into towns, longest name first, file order within equal lengths
	matchOrder []int
}

// New builds a gazetteer from towns. Later duplicates of a name are dropped.
func New(towns []Town) *Gazetteer {
	g := &Gazetteer{
		towns:  make([]Town, 0, len(towns)),
		byName: make(map[string]int, len(towns)),
	}

	for _, t := range towns {
		if _, exists := g.byName[t.Name]; exists {
			slog.Debug("Dropping duplicate town", "name", t.Name)
			continue
		}
		g.byName[t.Name] = len(g.towns)
		g.towns = append(g.towns, t)
	}

	g.matchOrder = make([]int, len(g.towns))
	for i := range g.matchOrder {
		g.matchOrder[i] = i
	}
	sort.SliceStable(g.matchOrder, func(a, b int) bool {
		return utf8.RuneCountInString(g.towns[g.matchOrder[a]].Name) > utf8.RuneCountInString(g.towns[g.matchOrder[b]].Name)
	})

	return g
}

// Load reads a semicolon-delimited gazetteer file using the default columns
func Load(path string) (*Gazetteer, error) {
	return LoadColumns(path, DefaultColumns())
}

// LoadColumns reads a semicolon-delimited gazetteer file with custom column names
func LoadColumns(path string, cols Columns) (*Gazetteer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gazetteer file: %w", err)
	}
	defer file.Close()

	g, err := Parse(file, cols)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}

	slog.Debug("Loaded gazetteer", "path", path, "towns", g.Len())
	return g, nil
}

// Parse reads gazetteer rows from r. Rows whose coordinates are not of the
// form <float>°N / <float>°E are skipped.
func Parse(r io.Reader, cols Columns) (*Gazetteer, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FormatError{Column: cols.Name}
		}
		return nil, fmt.Errorf("failed to read gazetteer header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		index[strings.TrimSpace(h)] = i
	}

	var nameIdx, latIdx, lonIdx int
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{cols.Name, &nameIdx},
		{cols.Lat, &latIdx},
		{cols.Lon, &lonIdx},
	} {
		i, ok := index[c.name]
		if !ok {
			return nil, &FormatError{Column: c.name}
		}
		*c.dst = i
	}

	var towns []Town
	skipped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read gazetteer row: %w", err)
		}

		if nameIdx >= len(row) || latIdx >= len(row) || lonIdx >= len(row) {
			skipped++
			continue
		}

		lat, okLat := ParseCoordinate(row[latIdx], "N")
		lon, okLon := ParseCoordinate(row[lonIdx], "E")
		name := strings.TrimSpace(row[nameIdx])
		if !okLat || !okLon || name == "" {
			skipped++
			continue
		}

		towns = append(towns, Town{Name: name, Lat: lat, Lon: lon})
	}

	if skipped > 0 {
		slog.Debug("Skipped malformed gazetteer rows", "count", skipped)
	}

	return New(towns), nil
}

// ParseCoordinate parses a value such as "60.17°N". The hemisphere letter
// must directly follow the degree sign.
func ParseCoordinate(value, hemisphere string) (float64, bool) {
	marker := "°" + hemisphere
	if !strings.Contains(value, marker) {
		return 0, false
	}

	prefix, _, _ := strings.Cut(value, "°")
	f, err := strconv.ParseFloat(strings.TrimSpace(prefix), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Len returns the number of towns
func (g *Gazetteer) Len() int {
	return len(g.towns)
}

// Towns returns a copy of the towns in file order
func (g *Gazetteer) Towns() []Town {
	out := make([]Town, len(g.towns))
	copy(out, g.towns)
	return out
}

// Lookup returns the town with the given name
func (g *Gazetteer) Lookup(name string) (Town, bool) {
	i, ok := g.byName[name]
	if !ok {
		return Town{}, false
	}
	return g.towns[i], true
}

// Match finds the town mentioned in text. The longest name occurring on word
// boundaries wins; equal lengths resolve to file order.
func (g *Gazetteer) Match(text string) (Town, bool) {
	for _, i := range g.matchOrder {
		t := g.towns[i]
		if containsWord(text, t.Name) {
			return t, true
		}
	}
	return Town{}, false
}

func containsWord(text, word string) bool {
	if word == "" {
		return false
	}

	offset := 0
	for {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)

		if isBoundary(text, start, end) {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
