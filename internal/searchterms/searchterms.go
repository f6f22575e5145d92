// Package searchterms turns a grouped list of names into search API queries.
//
// The list file is line oriented. A line of the form "::Label::" starts a new
// group; every other non-blank line is a name belonging to the current group.
package searchterms

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

var groupMarker = regexp.MustCompile(`^::(.*)::$`)

// The reference lists were saved as UTF-8 but read back as Windows-1252, so
// each Scandinavian letter arrives as two characters.
var mojibakeReplacer = strings.NewReplacer(
	"Ã–", "%C3%96", // Ö
	"Ã¶", "%C3%B6", // ö
	"Ã„", "%C3%84", // Ä
	"Ã¤", "%C3%A4", // ä
	"Ã‰", "%C3%89", // É
	"Ã©", "%C3%A9", // é
	"Ã…", "%C3%85", // Å
	"Ã¥", "%C3%A5", // å
)

// SearchTerm is a single query for the search API
type SearchTerm struct {
	Query string `json:"query" yaml:"query"`
	Text  string `json:"text" yaml:"text"`
	Group string `json:"group" yaml:"group"`
}

// TermSet holds the built search terms and the group ordering
type TermSet struct {
	Terms  []SearchTerm
	Groups []string
	index  map[string]int
}

// GroupIndex returns the first-seen position of a group
func (s *TermSet) GroupIndex(group string) (int, bool) {
	i, ok := s.index[group]
	return i, ok
}

// GroupIndices returns a copy of the group to index mapping
func (s *TermSet) GroupIndices() map[string]int {
	out := make(map[string]int, len(s.index))
	for k, v := range s.index {
		out[k] = v
	}
	return out
}

// FixMojibake repairs the double-encoded Scandinavian letters into their
// percent-encoded UTF-8 form.
func FixMojibake(s string) string {
	return mojibakeReplacer.Replace(s)
}

// BuildQuery converts a raw name line into a URL-safe lookfor value
func BuildQuery(line string) string {
	words := strings.Fields(FixMojibake(line))
	for i, w := range words {
		words[i] = escapeWord(w)
	}
	return strings.Join(words, "%20")
}

// escapeWord percent-encodes bytes outside the unreserved set while keeping
// existing %XX escapes intact.
func escapeWord(w string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(w); i++ {
		c := w[i]
		switch {
		case c == '%' && i+2 < len(w) && isHex(w[i+1]) && isHex(w[i+2]):
			b.WriteByte(c)
		case isUnreserved(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0F])
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// Load reads a search word list from path
func Load(path string) (*TermSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open search word list: %w", err)
	}
	defer file.Close()

	set, err := Parse(file)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded search terms", "path", path, "terms", len(set.Terms), "groups", len(set.Groups))
	return set, nil
}

// Parse builds a TermSet from a grouped word list
func Parse(r io.Reader) (*TermSet, error) {
	set := &TermSet{
		index: make(map[string]int),
	}
	seen := make(map[string]bool)
	group := ""

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" {
			continue
		}

		if m := groupMarker.FindStringSubmatch(line); m != nil {
			group = strings.TrimSpace(m[1])
			if _, ok := set.index[group]; !ok {
				set.index[group] = len(set.Groups)
				set.Groups = append(set.Groups, group)
			}
			continue
		}

		query := BuildQuery(line)
		if seen[query] {
			slog.Debug("Skipping duplicate search term", "line", lineNum, "text", line)
			continue
		}
		seen[query] = true

		set.Terms = append(set.Terms, SearchTerm{
			Query: query,
			Text:  line,
			Group: group,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading search word list: %w", err)
	}

	return set, nil
}
