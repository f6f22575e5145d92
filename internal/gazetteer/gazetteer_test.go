package gazetteer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleTable = `Column1;Column2;Column3
Helsinki;60.17°N;24.94°E
Espoo;60.21°N;24.66°E
Broken;60.1;24.9°E
Missing;;
Vantaa;60.29°N;25.04°E
Helsinki;61.00°N;25.00°E
Turku;60.45°N;22.27°W
`

func TestParse(t *testing.T) {
	g, err := Parse(strings.NewReader(sampleTable), DefaultColumns())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if g.Len() != 3 {
		t.Fatalf("Expected 3 towns, got %d", g.Len())
	}

	names := []string{}
	for _, town := range g.Towns() {
		names = append(names, town.Name)
	}
	if strings.Join(names, ",") != "Helsinki,Espoo,Vantaa" {
		t.Errorf("Unexpected town order: %v", names)
	}

	for _, name := range []string{"Broken", "Missing", "Turku"} {
		if _, ok := g.Lookup(name); ok {
			t.Errorf("Expected %s to be filtered out", name)
		}
	}
}

func TestParseKeepsFirstDuplicate(t *testing.T) {
	g, err := Parse(strings.NewReader(sampleTable), DefaultColumns())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	town, ok := g.Lookup("Helsinki")
	if !ok {
		t.Fatal("Expected Helsinki to be present")
	}
	if town.Lat != 60.17 || town.Lon != 24.94 {
		t.Errorf("Expected first Helsinki row (60.17, 24.94), got (%v, %v)", town.Lat, town.Lon)
	}
}

func TestParseMissingColumn(t *testing.T) {
	input := "Name;Column2;Column3\nHelsinki;60.17°N;24.94°E\n"

	_, err := Parse(strings.NewReader(input), DefaultColumns())
	if err == nil {
		t.Fatal("Expected error for missing column, got nil")
	}

	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected FormatError, got %T", err)
	}
	if fe.Column != "Column1" {
		t.Errorf("Expected missing column Column1, got %s", fe.Column)
	}
}

func TestParseCustomColumnsAndBOM(t *testing.T) {
	input := "\ufeffKunta;Lat;Lon\nOulu;65.01°N;25.47°E\n"

	g, err := Parse(strings.NewReader(input), Columns{Name: "Kunta", Lat: "Lat", Lon: "Lon"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := g.Lookup("Oulu"); !ok {
		t.Error("Expected Oulu to be loaded")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "kunnat.csv")
	if err := os.WriteFile(path, []byte(sampleTable), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if g.Len() != 3 {
		t.Errorf("Expected 3 towns, got %d", g.Len())
	}
}

func TestLoadFormatErrorCarriesPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.csv")
	if err := os.WriteFile(path, []byte("a;b;c\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := Load(path)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected FormatError, got %v", err)
	}
	if fe.Path != path {
		t.Errorf("Expected path %s, got %s", path, fe.Path)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/kunnat.csv")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		hemisphere string
		expected   float64
		ok         bool
	}{
		{"north", "60.17°N", "N", 60.17, true},
		{"east", "24.94°E", "E", 24.94, true},
		{"integer", "61°N", "N", 61, true},
		{"surrounding space", " 62.5°N ", "N", 62.5, true},
		{"wrong hemisphere", "24.94°W", "E", 0, false},
		{"no degree sign", "60.17", "N", 0, false},
		{"empty", "", "N", 0, false},
		{"non numeric prefix", "abc°N", "N", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCoordinate(tt.value, tt.hemisphere)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	g := New([]Town{
		{Name: "Kaupunki", Lat: 1, Lon: 1},
		{Name: "Uusikaupunki", Lat: 60.8, Lon: 21.4},
		{Name: "Salo", Lat: 60.38, Lon: 23.13},
		{Name: "Helsinki", Lat: 60.17, Lon: 24.94},
		{Name: "Espoo", Lat: 60.21, Lon: 24.66},
		{Name: "Kotka", Lat: 60.47, Lon: 26.95},
	})

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"simple", "Matti Meikäläinen Helsinki 12.5.1985", "Helsinki"},
		{"longest wins", "Kaupunki ja Uusikaupunki", "Uusikaupunki"},
		{"word boundary", "Kalle Salonen puhuu", ""},
		{"boundary later in text", "Salonen vierailee, Salo", "Salo"},
		{"punctuation boundary", "(Espoo)", "Espoo"},
		{"equal length uses file order", "Kotka Espoo", "Espoo"},
		{"no match", "Tampere 1970", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			town, ok := g.Match(tt.text)
			if tt.expected == "" {
				if ok {
					t.Errorf("Expected no match, got %s", town.Name)
				}
				return
			}
			if !ok || town.Name != tt.expected {
				t.Errorf("Expected %s, got %q (ok=%v)", tt.expected, town.Name, ok)
			}
		})
	}
}
