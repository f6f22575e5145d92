package searchterms

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFixMojibake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"upper O diaeresis", "Ã–", "%C3%96"},
		{"lower o diaeresis", "Ã¶", "%C3%B6"},
		{"upper A diaeresis", "Ã„", "%C3%84"},
		{"lower a diaeresis", "Ã¤", "%C3%A4"},
		{"upper E acute", "Ã‰", "%C3%89"},
		{"lower e acute", "Ã©", "%C3%A9"},
		{"upper A ring", "Ã…", "%C3%85"},
		{"lower a ring", "Ã¥", "%C3%A5"},
		{"in a name", "MeikÃ¤lÃ¤inen", "Meik%C3%A4l%C3%A4inen"},
		{"clean text untouched", "Urho Kekkonen", "Urho Kekkonen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FixMojibake(tt.input)
			if got != tt.expected {
				t.Errorf("FixMojibake(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
			if again := FixMojibake(got); again != got {
				t.Errorf("FixMojibake is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single word", "Kekkonen", "Kekkonen"},
		{"words joined", "Urho Kaleva Kekkonen", "Urho%20Kaleva%20Kekkonen"},
		{"extra whitespace", "  Urho   Kekkonen \n", "Urho%20Kekkonen"},
		{"mojibake repaired", "Matti MeikÃ¤lÃ¤inen", "Matti%20Meik%C3%A4l%C3%A4inen"},
		{"proper utf-8 encoded", "Matti Meikäläinen", "Matti%20Meik%C3%A4l%C3%A4inen"},
		{"reserved characters", "A&B", "A%26B"},
		{"hyphenated name", "Karl-August Fagerholm", "Karl-August%20Fagerholm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildQuery(tt.input)
			if got != tt.expected {
				t.Errorf("BuildQuery(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

const sampleList = `Urho Kekkonen
::Keskusta::
Johannes Virolainen
Ahti Karjalainen
::SDP::
Kalevi Sorsa

::Keskusta::
Johannes Virolainen
Paavo Väyrynen
`

func TestParse(t *testing.T) {
	set, err := Parse(strings.NewReader(sampleList))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := []SearchTerm{
		{Query: "Urho%20Kekkonen", Text: "Urho Kekkonen", Group: ""},
		{Query: "Johannes%20Virolainen", Text: "Johannes Virolainen", Group: "Keskusta"},
		{Query: "Ahti%20Karjalainen", Text: "Ahti Karjalainen", Group: "Keskusta"},
		{Query: "Kalevi%20Sorsa", Text: "Kalevi Sorsa", Group: "SDP"},
		{Query: "Paavo%20V%C3%A4yrynen", Text: "Paavo Väyrynen", Group: "Keskusta"},
	}

	if len(set.Terms) != len(expected) {
		t.Fatalf("Expected %d terms, got %d: %+v", len(expected), len(set.Terms), set.Terms)
	}
	for i, term := range set.Terms {
		if term != expected[i] {
			t.Errorf("Term %d: expected %+v, got %+v", i, expected[i], term)
		}
	}

	if strings.Join(set.Groups, ",") != "Keskusta,SDP" {
		t.Errorf("Unexpected groups: %v", set.Groups)
	}

	if i, ok := set.GroupIndex("Keskusta"); !ok || i != 0 {
		t.Errorf("Expected Keskusta at index 0, got %d (ok=%v)", i, ok)
	}
	if i, ok := set.GroupIndex("SDP"); !ok || i != 1 {
		t.Errorf("Expected SDP at index 1, got %d (ok=%v)", i, ok)
	}
	if _, ok := set.GroupIndex("RKP"); ok {
		t.Error("Expected unknown group to be absent")
	}
}

func TestParseMarkerMustWrapLine(t *testing.T) {
	set, err := Parse(strings.NewReader("::Vasemmisto::\nnot::a marker\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(set.Terms) != 1 {
		t.Fatalf("Expected 1 term, got %d", len(set.Terms))
	}
	if set.Terms[0].Group != "Vasemmisto" {
		t.Errorf("Expected group Vasemmisto, got %s", set.Terms[0].Group)
	}
	if set.Terms[0].Query != "not%3A%3Aa%20marker" {
		t.Errorf("Unexpected query %s", set.Terms[0].Query)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "kansanedustajat.txt")
	if err := os.WriteFile(path, []byte(sampleList), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(set.Terms) != 5 {
		t.Errorf("Expected 5 terms, got %d", len(set.Terms))
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/words.txt")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestParseNameInTwoGroupsKeepsFirst(t *testing.T) {
	input := "::Keskusta::\nUrho Kekkonen\n::SDP::\nUrho Kekkonen\nKalevi Sorsa\n"

	set, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(set.Terms) != 2 {
		t.Fatalf("Expected 2 terms, got %d", len(set.Terms))
	}
	if set.Terms[0].Text != "Urho Kekkonen" || set.Terms[0].Group != "Keskusta" {
		t.Errorf("Expected Urho Kekkonen in Keskusta, got %s in %s", set.Terms[0].Text, set.Terms[0].Group)
	}
	if idx, ok := set.GroupIndex("SDP"); !ok || idx != 1 {
		t.Errorf("Expected SDP at index 1, got %d (ok=%v)", idx, ok)
	}
}
