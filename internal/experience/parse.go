package experience

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const minStartYear = 1980

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

const (
	dash    = `\s*(?:-|–|—|to|until|till)\s*`
	present = `present|current|now|today|date`
)

var (
	monthRangeRe = regexp.MustCompile(`(?i)\b([a-z]{3,9})\.?\s+(\d{4})` + dash + `(?:([a-z]{3,9})\.?\s+(\d{4})|(` + present + `))\b`)
	numericRe    = regexp.MustCompile(`(?i)\b(\d{1,2})[/.](\d{4})` + dash + `(?:(\d{1,2})[/.](\d{4})|(` + present + `))\b`)
	yearMonthRe  = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})` + dash + `([a-z]{3,9})\.?\s+(\d{4})\b`)
	yearRangeRe  = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})` + dash + `(?:((?:19|20)\d{2})|(` + present + `))\b`)
	yearsRe      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)\b`)
)

// looksLikeMonth reports whether word starts like a month name and is no
// longer than it, so that a failed lookup means a garbled month ("Octbr")
// rather than an ordinary word ("Junior", "Marketing").
func looksLikeMonth(word string) bool {
	word = strings.ToLower(word)
	if len(word) < 3 {
		return false
	}
	longest := 0
	for name := range monthNames {
		if strings.HasPrefix(name, word[:3]) {
			longest = max(longest, len(name))
		}
	}
	return longest > 0 && len(word) <= longest
}

// ParseMonth resolves an English month name or abbreviation. Unknown names
// are rejected.
func ParseMonth(name string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSuffix(name, "."))]
	return m, ok
}

// Parser finds employment periods in free text relative to a fixed clock.
type Parser struct {
	now Month
}

func NewParser(now time.Time) *Parser {
	return &Parser{now: NewMonth(now.Year(), now.Month())}
}

// Periods extracts valid periods in order of appearance: month-name ranges,
// numeric MM/YYYY ranges, "Year - Month Year" ranges, then bare year ranges
// from text not already consumed by a more precise match. A range with a
// garbled month name is dropped entirely.
func (p *Parser) Periods(text string) []Period {
	masked := []byte(text)
	var periods []Period

	for _, loc := range monthRangeRe.FindAllStringSubmatchIndex(text, -1) {
		g := groups(text, loc)
		from, ok := p.namedMonth(g[1], g[2])
		if !ok {
			if looksLikeMonth(g[1]) {
				mask(masked, loc[0], loc[1])
			}
			continue
		}
		to, ok := p.endOf(g[3], g[4], g[5], p.namedMonth)
		if !ok {
			if looksLikeMonth(g[3]) {
				mask(masked, loc[0], loc[1])
			}
			continue
		}
		if period, ok := p.valid(from, to); ok {
			periods = append(periods, period)
			mask(masked, loc[0], loc[1])
		}
	}

	for _, loc := range numericRe.FindAllStringSubmatchIndex(string(masked), -1) {
		g := groups(string(masked), loc)
		from, ok := p.numericMonth(g[1], g[2])
		if !ok {
			continue
		}
		to, ok := p.endOf(g[3], g[4], g[5], p.numericMonth)
		if !ok {
			continue
		}
		if period, ok := p.valid(from, to); ok {
			periods = append(periods, period)
			mask(masked, loc[0], loc[1])
		}
	}

	for _, loc := range yearMonthRe.FindAllStringSubmatchIndex(string(masked), -1) {
		g := groups(string(masked), loc)
		startYear, _ := strconv.Atoi(g[1])
		to, ok := p.namedMonth(g[2], g[3])
		if !ok {
			continue
		}
		if period, ok := p.valid(NewMonth(startYear, time.January), to); ok {
			periods = append(periods, period)
			mask(masked, loc[0], loc[1])
		}
	}

	for _, g := range yearRangeRe.FindAllStringSubmatch(string(masked), -1) {
		startYear, _ := strconv.Atoi(g[1])
		from := NewMonth(startYear, time.January)
		to := p.now
		if g[2] != "" {
			endYear, _ := strconv.Atoi(g[2])
			to = NewMonth(endYear, time.January)
		}
		if period, ok := p.valid(from, to); ok {
			periods = append(periods, period)
		}
	}

	return periods
}

func (p *Parser) endOf(monthTok, yearTok, presentTok string, parse func(string, string) (Month, bool)) (Month, bool) {
	if presentTok != "" {
		return p.now, true
	}
	return parse(monthTok, yearTok)
}

func (p *Parser) namedMonth(name, year string) (Month, bool) {
	m, ok := ParseMonth(name)
	if !ok {
		return 0, false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, false
	}
	return NewMonth(y, m), true
}

func (p *Parser) numericMonth(month, year string) (Month, bool) {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, false
	}
	return NewMonth(y, time.Month(m)), true
}

func (p *Parser) valid(from, to Month) (Period, bool) {
	limit := NewMonth(p.now.Year()+1, time.December)
	if from.Year() < minStartYear || from > to || to > limit {
		return Period{}, false
	}
	return Period{From: from, To: to}, true
}

// ExplicitYears returns the first "<n> years" or "<n>+ years" mention.
func ExplicitYears(text string) (float64, bool) {
	m := yearsRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func groups(s string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return out
}

func mask(b []byte, from, to int) {
	for i := from; i < to; i++ {
		b[i] = ' '
	}
}
