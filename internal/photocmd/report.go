package photocmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/photomap/internal/aggregate"
	"github.com/lehigh-university-libraries/photomap/internal/records"
	"github.com/lehigh-university-libraries/photomap/internal/report"
	"github.com/lehigh-university-libraries/photomap/internal/searchterms"
)

type reportOptions struct {
	Input     string
	StartYear int
	EndYear   int
	WordsPath string
	Output    string
	JSON      bool
	Color     bool
}

func executeReport(ctx context.Context, out io.Writer, opts reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	recs, err := records.NewLoader(opts.Input).Load(ctx)
	if err != nil {
		return err
	}
	slog.Info("Records loaded", "path", opts.Input, "records", len(recs))

	var partyIndex map[string]int
	if opts.WordsPath != "" {
		terms, err := searchterms.Load(opts.WordsPath)
		if err != nil {
			return fmt.Errorf("failed to load search words: %w", err)
		}
		partyIndex = terms.GroupIndices()
	}

	span, _ := aggregate.Span(recs)
	r := aggregate.YearRange{Start: opts.StartYear, End: opts.EndYear}
	if r.Start == 0 {
		r.Start = span.Start
	}
	if r.End == 0 {
		r.End = span.End
	}
	if r.End < r.Start {
		return fmt.Errorf("end year %d is before start year %d", r.End, r.Start)
	}

	summary := aggregate.New(recs, partyIndex).Summarize(r)

	if opts.JSON {
		if err := report.WriteJSON(out, summary); err != nil {
			return err
		}
	} else {
		report.RenderTables(out, summary, report.Options{Color: opts.Color})
	}

	if opts.Output != "" {
		if err := report.Save(opts.Output, summary); err != nil {
			return err
		}
		slog.Info("Report saved", "path", opts.Output)
	}

	return nil
}
