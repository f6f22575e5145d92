package photocmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/photomap/internal/aggregate"
	"github.com/lehigh-university-libraries/photomap/internal/config"
	"github.com/lehigh-university-libraries/photomap/internal/finna"
	"github.com/lehigh-university-libraries/photomap/internal/gazetteer"
	"github.com/lehigh-university-libraries/photomap/internal/harvest"
	"github.com/lehigh-university-libraries/photomap/internal/records"
	"github.com/lehigh-university-libraries/photomap/internal/report"
	"github.com/lehigh-university-libraries/photomap/internal/searchterms"
)

type harvestOptions struct {
	ReportPath string
	Color      bool
}

func executeHarvest(ctx context.Context, cfg config.Config, out io.Writer, opts harvestOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.Info("Starting harvest", "gazetteer", cfg.Gazetteer.Path, "words", cfg.SearchWords, "start", cfg.StartYear, "end", cfg.EndYear)

	towns, err := gazetteer.LoadColumns(cfg.Gazetteer.Path, cfg.Gazetteer.Columns())
	if err != nil {
		return fmt.Errorf("failed to load gazetteer: %w", err)
	}
	slog.Info("Gazetteer loaded", "towns", towns.Len())

	terms, err := searchterms.Load(cfg.SearchWords)
	if err != nil {
		return fmt.Errorf("failed to load search words: %w", err)
	}
	slog.Info("Search terms built", "terms", len(terms.Terms), "groups", len(terms.Groups))

	client := finna.NewClient(cfg.ClientOptions())
	raw, stats, err := harvest.New(client, towns).Harvest(ctx, terms.Terms)
	if err != nil {
		return err
	}

	recs := records.Dedupe(raw)
	if err := records.Save(ctx, cfg.Output, recs); err != nil {
		return err
	}
	slog.Info("Records saved", "path", cfg.Output, "records", len(recs))

	printHarvestSummary(out, stats, len(raw), len(recs), cfg.Output)

	summary := aggregate.New(recs, terms.GroupIndices()).
		Summarize(aggregate.YearRange{Start: cfg.StartYear, End: cfg.EndYear})
	report.RenderTables(out, summary, report.Options{Color: opts.Color})

	if opts.ReportPath != "" {
		if err := report.Save(opts.ReportPath, summary); err != nil {
			return err
		}
		slog.Info("Report saved", "path", opts.ReportPath)
	}

	return nil
}

func printHarvestSummary(out io.Writer, stats harvest.Stats, emitted, kept int, path string) {
	fmt.Fprintln(out, "\n========================================")
	fmt.Fprintln(out, "Harvest Summary")
	fmt.Fprintln(out, "========================================")
	fmt.Fprintf(out, "Search Terms:       %d\n", stats.Terms)
	fmt.Fprintf(out, "Terms Without Hits: %d\n", stats.NoResult)
	fmt.Fprintf(out, "Pages Fetched:      %d\n", stats.Pages)
	fmt.Fprintf(out, "Records Seen:       %d\n", stats.Seen)
	fmt.Fprintf(out, "Records Dropped:    %d\n", stats.Dropped)
	fmt.Fprintf(out, "Records Emitted:    %d\n", emitted)
	fmt.Fprintf(out, "Unique Records:     %d\n", kept)
	fmt.Fprintf(out, "Output:             %s\n", path)
	fmt.Fprintln(out, "========================================")
}
