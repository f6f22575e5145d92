package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/photomap/internal/records"
)

// YearRange is an inclusive range of capture years
type YearRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Contains reports whether year lies within the range
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// Span returns the smallest range holding every dated record
func Span(recs []records.Record) (YearRange, bool) {
	var r YearRange
	found := false
	for _, rec := range recs {
		y, ok := rec.YearInt()
		if !ok {
			continue
		}
		if !found || y < r.Start {
			r.Start = y
		}
		if !found || y > r.End {
			r.End = y
		}
		found = true
	}
	return r, found
}

// PartyCount is the number of records of one party
type PartyCount struct {
	Party string `json:"party" yaml:"party"`
	Count int    `json:"count" yaml:"count"`
}

// Bubble is one town marker on a year's map
type Bubble struct {
	Town          string       `json:"town" yaml:"town"`
	Lat           float64      `json:"lat" yaml:"lat"`
	Lon           float64      `json:"lon" yaml:"lon"`
	Count         int          `json:"count" yaml:"count"`
	DominantParty string       `json:"dominant_party" yaml:"dominantparty"`
	ColorIndex    int          `json:"color_index" yaml:"colorindex"`
	Parties       []PartyCount `json:"parties" yaml:"parties"`
	Annotation    string       `json:"annotation" yaml:"annotation"`
}

// YearMap holds the bubbles of a single year
type YearMap struct {
	Year    int      `json:"year" yaml:"year"`
	Bubbles []Bubble `json:"bubbles" yaml:"bubbles"`
}

// YearPartyCount is one point of a party's yearly series
type YearPartyCount struct {
	Year  int    `json:"year" yaml:"year"`
	Party string `json:"party" yaml:"party"`
	Count int    `json:"count" yaml:"count"`
}

// NamedCount pairs a label with a number of records
type NamedCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// InstitutionShare is the party distribution within one institution
type InstitutionShare struct {
	Institution string             `json:"institution" yaml:"institution"`
	Total       int                `json:"total" yaml:"total"`
	Shares      map[string]float64 `json:"shares" yaml:"shares"`
}

// Summary bundles every aggregate for a year range
type Summary struct {
	Range        YearRange          `json:"range" yaml:"range"`
	Records      int                `json:"records" yaml:"records"`
	Parties      []string           `json:"parties" yaml:"parties"`
	Maps         []YearMap          `json:"maps" yaml:"maps"`
	PartyByYear  []YearPartyCount   `json:"party_by_year" yaml:"partybyyear"`
	Institutions []NamedCount       `json:"institutions" yaml:"institutions"`
	Diversity    []InstitutionShare `json:"diversity" yaml:"diversity"`
	Politicians  []NamedCount       `json:"politicians" yaml:"politicians"`
}

// Aggregator derives plot-ready views from a deduplicated record set
type Aggregator struct {
	recs       []records.Record
	partyIndex map[string]int
}

// New creates an aggregator. partyIndex assigns each party a color slot;
// parties missing from it are appended in first-seen order.
func New(recs []records.Record, partyIndex map[string]int) *Aggregator {
	index := make(map[string]int, len(partyIndex))
	next := 0
	for k, v := range partyIndex {
		index[k] = v
		if v >= next {
			next = v + 1
		}
	}
	for _, r := range recs {
		if _, ok := index[r.Party]; !ok {
			index[r.Party] = next
			next++
		}
	}

	return &Aggregator{
		recs:       recs,
		partyIndex: index,
	}
}

// PartyIndex returns the color slot of a party
func (a *Aggregator) PartyIndex(party string) int {
	return a.partyIndex[party]
}

// Parties returns the parties ordered by color slot
func (a *Aggregator) Parties() []string {
	parties := make([]string, 0, len(a.partyIndex))
	for p := range a.partyIndex {
		parties = append(parties, p)
	}
	sort.Slice(parties, func(i, j int) bool {
		return a.partyIndex[parties[i]] < a.partyIndex[parties[j]]
	})
	return parties
}

func (a *Aggregator) inRange(r YearRange) []records.Record {
	var out []records.Record
	for _, rec := range a.recs {
		y, ok := rec.YearInt()
		if ok && r.Contains(y) {
			out = append(out, rec)
		}
	}
	return out
}

type townKey struct {
	town string
	lon  float64
	lat  float64
}

// TownBubbles groups one year's records by town. Each bubble's dominant party
// is its most frequent one; ties go to the party encountered first.
func (a *Aggregator) TownBubbles(year int) []Bubble {
	var order []townKey
	groups := make(map[townKey]*Bubble)

	for _, rec := range a.inRange(YearRange{Start: year, End: year}) {
		key := townKey{town: rec.Town, lon: rec.Lon, lat: rec.Lat}
		b, ok := groups[key]
		if !ok {
			b = &Bubble{Town: rec.Town, Lat: rec.Lat, Lon: rec.Lon}
			groups[key] = b
			order = append(order, key)
		}
		b.Count++
		addParty(&b.Parties, rec.Party)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].town != order[j].town {
			return order[i].town < order[j].town
		}
		if order[i].lon != order[j].lon {
			return order[i].lon < order[j].lon
		}
		return order[i].lat < order[j].lat
	})

	out := make([]Bubble, 0, len(order))
	for _, key := range order {
		b := groups[key]
		best := 0
		for i, pc := range b.Parties {
			if pc.Count > b.Parties[best].Count {
				best = i
			}
		}
		b.DominantParty = b.Parties[best].Party
		b.ColorIndex = a.partyIndex[b.DominantParty]
		b.Annotation = annotate(b)
		out = append(out, *b)
	}
	return out
}

func addParty(list *[]PartyCount, party string) {
	for i := range *list {
		if (*list)[i].Party == party {
			(*list)[i].Count++
			return
		}
	}
	*list = append(*list, PartyCount{Party: party, Count: 1})
}

func annotate(b *Bubble) string {
	var sb strings.Builder
	sb.WriteString(b.Town)
	sb.WriteString("\n")
	for _, pc := range b.Parties {
		fmt.Fprintf(&sb, "%s: %d\n", shorten(pc.Party, 5), pc.Count)
	}
	return sb.String()
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Maps returns the bubbles of every year in range that has records
func (a *Aggregator) Maps(r YearRange) []YearMap {
	seen := make(map[int]bool)
	var years []int
	for _, rec := range a.inRange(r) {
		y, _ := rec.YearInt()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Ints(years)

	out := make([]YearMap, 0, len(years))
	for _, y := range years {
		out = append(out, YearMap{Year: y, Bubbles: a.TownBubbles(y)})
	}
	return out
}

// PartyByYear counts records per year and party, years ascending
func (a *Aggregator) PartyByYear(r YearRange) []YearPartyCount {
	counts := make(map[int]map[string]int)
	for _, rec := range a.inRange(r) {
		y, _ := rec.YearInt()
		if counts[y] == nil {
			counts[y] = make(map[string]int)
		}
		counts[y][rec.Party]++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	var out []YearPartyCount
	for _, y := range years {
		parties := make([]string, 0, len(counts[y]))
		for p := range counts[y] {
			parties = append(parties, p)
		}
		sort.Strings(parties)
		for _, p := range parties {
			out = append(out, YearPartyCount{Year: y, Party: p, Count: counts[y][p]})
		}
	}
	return out
}

// InstitutionCounts counts records per institution, ordered by name
func (a *Aggregator) InstitutionCounts(r YearRange) []NamedCount {
	return countBy(a.inRange(r), func(rec records.Record) string { return rec.Institution }, byName)
}

// PoliticianCounts counts records per target, most photographed first
func (a *Aggregator) PoliticianCounts(r YearRange) []NamedCount {
	return countBy(a.inRange(r), func(rec records.Record) string { return rec.Target }, byCountDesc)
}

func byName(a, b NamedCount) bool {
	return a.Name < b.Name
}

func byCountDesc(a, b NamedCount) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Name < b.Name
}

func countBy(recs []records.Record, key func(records.Record) string, less func(a, b NamedCount) bool) []NamedCount {
	counts := make(map[string]int)
	for _, rec := range recs {
		counts[key(rec)]++
	}

	out := make([]NamedCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, NamedCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// InstitutionPartyShares returns, per institution, each party's share of the
// institution's records. Shares of one institution sum to 1.
func (a *Aggregator) InstitutionPartyShares(r YearRange) []InstitutionShare {
	counts := make(map[string]map[string]int)
	totals := make(map[string]int)
	for _, rec := range a.inRange(r) {
		if counts[rec.Institution] == nil {
			counts[rec.Institution] = make(map[string]int)
		}
		counts[rec.Institution][rec.Party]++
		totals[rec.Institution]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]InstitutionShare, 0, len(names))
	for _, name := range names {
		share := InstitutionShare{
			Institution: name,
			Total:       totals[name],
			Shares:      make(map[string]float64, len(counts[name])),
		}
		for party, n := range counts[name] {
			share.Shares[party] = float64(n) / float64(totals[name])
		}
		out = append(out, share)
	}
	return out
}

// Summarize computes every aggregate for the range
func (a *Aggregator) Summarize(r YearRange) *Summary {
	return &Summary{
		Range:        r,
		Records:      len(a.inRange(r)),
		Parties:      a.Parties(),
		Maps:         a.Maps(r),
		PartyByYear:  a.PartyByYear(r),
		Institutions: a.InstitutionCounts(r),
		Diversity:    a.InstitutionPartyShares(r),
		Politicians:  a.PoliticianCounts(r),
	}
}
