package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/photomap/internal/aggregate"
	"github.com/lehigh-university-libraries/photomap/internal/records"
)

func testSummary() *aggregate.Summary {
	recs := []records.Record{
		{Target: "Urho Kekkonen", Year: "1975", Town: "Helsinki", Lat: 60.17, Lon: 24.94, Party: "Keskusta", Institution: "Museovirasto"},
		{Target: "Kalevi Sorsa", Year: "1975", Town: "Helsinki", Lat: 60.17, Lon: 24.94, Party: "SDP", Institution: "Museovirasto"},
		{Target: "Kalevi Sorsa", Year: "1976", Town: "Tampere", Lat: 61.5, Lon: 23.76, Party: "SDP", Institution: "Työväen Arkisto"},
	}
	return aggregate.New(recs, nil).Summarize(aggregate.YearRange{Start: 1970, End: 1980})
}

func TestRenderTables(t *testing.T) {
	var buf bytes.Buffer
	RenderTables(&buf, testSummary(), Options{})
	out := buf.String()

	for _, want := range []string{
		"Records 1970-1980: 3",
		"Towns 1975",
		"Towns 1976",
		"Photos per party and year",
		"Photos per institution",
		"Party share per institution",
		"Photos per politician",
		"Helsinki",
		"50.0%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Expected no escape sequences without color")
	}
}

func TestRenderTablesTitlesOnOwnLine(t *testing.T) {
	var buf bytes.Buffer
	RenderTables(&buf, testSummary(), Options{})

	lines := strings.Split(buf.String(), "\n")
	for _, title := range []string{"Photos per party and year", "Party share per institution", "Photos per institution"} {
		found := false
		for _, line := range lines {
			if line == title {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected title %q on a line of its own", title)
		}
	}
}

func TestRenderTablesColor(t *testing.T) {
	var buf bytes.Buffer
	RenderTables(&buf, testSummary(), Options{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("Expected escape sequences with color enabled")
	}
}

func TestColorForWraps(t *testing.T) {
	tests := []struct {
		index    int
		expected int
	}{
		{0, 0},
		{3, 3},
		{len(Palette), 0},
		{len(Palette) + 2, 2},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(Palette[tt.expected], ColorFor(tt.index)); diff != "" {
			t.Errorf("ColorFor(%d) mismatch (-want +got):\n%s", tt.index, diff)
		}
	}
}

func TestSaveYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "summary.yaml")
	s := testSummary()

	if err := SaveYAML(path, s); err != nil {
		t.Fatalf("SaveYAML failed: %v", err)
	}

	got, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("YAML round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testSummary()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded["records"] != float64(3) {
		t.Errorf("Expected records 3, got %v", decoded["records"])
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	s := testSummary()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"yaml", filepath.Join(dir, "a.yaml"), false},
		{"yml", filepath.Join(dir, "b.yml"), false},
		{"json", filepath.Join(dir, "nested", "c.json"), false},
		{"unsupported", filepath.Join(dir, "d.txt"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Save(tt.path, s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Save() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if _, err := os.Stat(tt.path); err != nil {
				t.Errorf("Expected file at %s: %v", tt.path, err)
			}
		})
	}
}
