package harvest

import "regexp"

var (
	// day.month.year, also with hyphens, e.g. 12.5.1985
	shortDatePattern = regexp.MustCompile(`(\d*\d)[.\-](\d*\d)[.\-](\d\d\d\d)`)
	// year with optional -month-day, e.g. 1985 or 1985-05-12
	isoDatePattern = regexp.MustCompile(`(\d\d\d\d)(?:-(\d*\d)-(\d*\d))?`)
)

// Date is a capture date as found in free text. Day and Month are empty when
// only a year was present.
type Date struct {
	Day   string
	Month string
	Year  string
}

// MatchDate extracts the first date from text. The day.month.year form takes
// priority over the year-first form anywhere in the text.
func MatchDate(text string) (Date, bool) {
	if m := shortDatePattern.FindStringSubmatch(text); m != nil {
		return Date{Day: m[1], Month: m[2], Year: m[3]}, true
	}
	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		return Date{Day: m[3], Month: m[2], Year: m[1]}, true
	}
	return Date{}, false
}
