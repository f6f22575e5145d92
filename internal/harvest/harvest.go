// Package harvest pages through the search API for every search term and
// turns each geocodable, dated result into a flat record.
package harvest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/photomap/internal/finna"
	"github.com/lehigh-university-libraries/photomap/internal/gazetteer"
	"github.com/lehigh-university-libraries/photomap/internal/records"
	"github.com/lehigh-university-libraries/photomap/internal/searchterms"
)

// Searcher fetches one page of search results
type Searcher interface {
	Search(ctx context.Context, lookfor string, page int) (*finna.SearchResponse, error)
	PageSize() int
}

// Harvester collects records for search terms
type Harvester struct {
	searcher Searcher
	towns    *gazetteer.Gazetteer
}

// Stats counts what happened during a harvest
type Stats struct {
	Terms    int
	Pages    int
	Seen     int
	Emitted  int
	Dropped  int
	NoResult int
}

// New creates a harvester
func New(searcher Searcher, towns *gazetteer.Gazetteer) *Harvester {
	return &Harvester{
		searcher: searcher,
		towns:    towns,
	}
}

// Harvest runs every term in order. The first error aborts the whole run and
// no records are returned.
func (h *Harvester) Harvest(ctx context.Context, terms []searchterms.SearchTerm) ([]records.Record, Stats, error) {
	var all []records.Record
	var stats Stats

	for i, term := range terms {
		slog.Info("Harvesting term", "term", term.Text, "group", term.Group, "progress", fmt.Sprintf("%d/%d", i+1, len(terms)))

		recs, err := h.harvestTerm(ctx, term, &stats)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to harvest %q: %w", term.Text, err)
		}
		stats.Terms++

		slog.Info("Harvested term", "term", term.Text, "records", len(recs))
		all = append(all, recs...)
	}

	return all, stats, nil
}

// HarvestTerm collects records for a single term
func (h *Harvester) HarvestTerm(ctx context.Context, term searchterms.SearchTerm) ([]records.Record, error) {
	var stats Stats
	return h.harvestTerm(ctx, term, &stats)
}

func (h *Harvester) harvestTerm(ctx context.Context, term searchterms.SearchTerm, stats *Stats) ([]records.Record, error) {
	pageSize := h.searcher.PageSize()
	var out []records.Record

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := h.searcher.Search(ctx, term.Query, page)
		if err != nil {
			return nil, err
		}
		stats.Pages++

		// TODO: tell "no hits for this term" apart from "ran past the last page"
		if !resp.HasRecords() {
			if page == 1 {
				stats.NoResult++
			}
			slog.Debug("No records on page, stopping", "term", term.Text, "page", page)
			break
		}

		for _, rec := range *resp.Records {
			stats.Seen++
			r, ok, err := h.normalize(rec, term)
			if err != nil {
				return nil, err
			}
			if !ok {
				stats.Dropped++
				continue
			}
			stats.Emitted++
			out = append(out, r)
		}

		if resp.ResultCount <= page*pageSize {
			break
		}
	}

	return out, nil
}

// normalize builds a record from an API result. ok is false when either the
// town or the date could not be found.
func (h *Harvester) normalize(rec finna.Record, term searchterms.SearchTerm) (records.Record, bool, error) {
	text := rec.Text()

	town, townOK := h.towns.Match(text)
	date, dateOK := MatchDate(text)

	institution, err := rec.Institution()
	if err != nil {
		return records.Record{}, false, err
	}

	if !townOK || !dateOK {
		slog.Debug("Dropping unmatched record", "id", rec.ID(), "town", townOK, "date", dateOK)
		return records.Record{}, false, nil
	}

	return records.Record{
		Target:      term.Text,
		Date:        date.Day,
		Month:       date.Month,
		Year:        date.Year,
		Town:        town.Name,
		Lat:         town.Lat,
		Lon:         town.Lon,
		Party:       term.Group,
		Institution: institution,
	}, true, nil
}
