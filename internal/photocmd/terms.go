package photocmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lehigh-university-libraries/photomap/internal/report"
	"github.com/lehigh-university-libraries/photomap/internal/searchterms"
)

func executeTerms(out io.Writer, path string) error {
	terms, err := searchterms.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load search words: %w", err)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Name", "Query", "Group", "Color"})
	for _, term := range terms.Terms {
		color := ""
		if idx, ok := terms.GroupIndex(term.Group); ok {
			color = report.PaletteNames[idx%len(report.PaletteNames)]
		}
		t.AppendRow(table.Row{term.Text, term.Query, term.Group, color})
	}
	t.AppendFooter(table.Row{"Total", len(terms.Terms), len(terms.Groups), ""})
	t.Render()

	return nil
}
