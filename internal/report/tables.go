// Package report renders harvest aggregates as terminal tables or writes them
// to YAML and JSON files.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/lehigh-university-libraries/photomap/internal/aggregate"
)

// Palette maps a party color index to a terminal color. Indices past the end
// wrap around.
var Palette = []text.Colors{
	{text.FgBlue},     // b
	{text.FgGreen},    // g
	{text.FgRed},      // r
	{text.FgCyan},     // c
	{text.FgMagenta},  // m
	{text.FgYellow},   // y
	{text.FgHiBlack},  // k
	{text.FgWhite},    // w
	{text.FgHiRed},    // orange
	{text.FgHiWhite},  // gray
	{text.FgHiYellow}, // brown
}

// PaletteNames names the Palette entries in order
var PaletteNames = []string{"blue", "green", "red", "cyan", "magenta", "yellow", "black", "white", "orange", "gray", "brown"}

// Options control table rendering
type Options struct {
	Color bool
}

// ColorFor returns the palette entry of a color index
func ColorFor(index int) text.Colors {
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}

func newTable(w io.Writer, title string) table.Writer {
	fmt.Fprintf(w, "\n%s\n", title)
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderTables writes one table per aggregate in the summary
func RenderTables(w io.Writer, s *aggregate.Summary, opts Options) {
	party := func(name string, index int) string {
		if !opts.Color {
			return name
		}
		return ColorFor(index).Sprint(name)
	}

	fmt.Fprintf(w, "Records %d-%d: %d\n", s.Range.Start, s.Range.End, s.Records)

	for _, m := range s.Maps {
		t := newTable(w, fmt.Sprintf("Towns %d", m.Year))
		t.AppendHeader(table.Row{"Town", "Lat", "Lon", "Photos", "Dominant", "Parties"})
		for _, b := range m.Bubbles {
			t.AppendRow(table.Row{b.Town, b.Lat, b.Lon, b.Count, party(b.DominantParty, b.ColorIndex), partyList(b.Parties)})
		}
		t.Render()
	}

	if len(s.PartyByYear) > 0 {
		t := newTable(w, "Photos per party and year")
		t.AppendHeader(table.Row{"Year", "Party", "Photos"})
		for _, p := range s.PartyByYear {
			t.AppendRow(table.Row{p.Year, p.Party, p.Count})
		}
		t.Render()
	}

	if len(s.Institutions) > 0 {
		t := newTable(w, "Photos per institution")
		t.AppendHeader(table.Row{"Institution", "Photos"})
		for _, c := range s.Institutions {
			t.AppendRow(table.Row{c.Name, c.Count})
		}
		t.Render()
	}

	if len(s.Diversity) > 0 {
		t := newTable(w, "Party share per institution")
		header := table.Row{"Institution", "Photos"}
		for i, p := range s.Parties {
			header = append(header, party(p, i))
		}
		t.AppendHeader(header)
		for _, d := range s.Diversity {
			row := table.Row{d.Institution, d.Total}
			for _, p := range s.Parties {
				row = append(row, fmt.Sprintf("%.1f%%", d.Shares[p]*100))
			}
			t.AppendRow(row)
		}
		t.Render()
	}

	if len(s.Politicians) > 0 {
		t := newTable(w, "Photos per politician")
		t.AppendHeader(table.Row{"Politician", "Photos"})
		for _, c := range s.Politicians {
			t.AppendRow(table.Row{c.Name, c.Count})
		}
		t.Render()
	}
}

func partyList(parties []aggregate.PartyCount) string {
	sorted := append([]aggregate.PartyCount{}, parties...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })

	parts := make([]string, 0, len(sorted))
	for _, pc := range sorted {
		parts = append(parts, fmt.Sprintf("%s %d", pc.Party, pc.Count))
	}
	return strings.Join(parts, ", ")
}
