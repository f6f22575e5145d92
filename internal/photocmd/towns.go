package photocmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lehigh-university-libraries/photomap/internal/gazetteer"
)

func executeTowns(out io.Writer, path string, cols gazetteer.Columns, match string) error {
	towns, err := gazetteer.LoadColumns(path, cols)
	if err != nil {
		return fmt.Errorf("failed to load gazetteer: %w", err)
	}

	if match != "" {
		town, ok := towns.Match(match)
		if !ok {
			return fmt.Errorf("no town found in %q", match)
		}
		fmt.Fprintf(out, "%s (%g, %g)\n", town.Name, town.Lat, town.Lon)
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Town", "Lat", "Lon"})
	for i, town := range towns.Towns() {
		t.AppendRow(table.Row{i + 1, town.Name, town.Lat, town.Lon})
	}
	t.AppendFooter(table.Row{"", "Total", towns.Len()})
	t.Render()

	return nil
}
