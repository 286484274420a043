package experience

import (
	"fmt"
	"sort"
	"time"
)

// Month is a calendar month counted from year zero (year*12 + month-1).
type Month int

// NewMonth builds a Month from a year and a 1-based month number.
func NewMonth(year int, month time.Month) Month {
	return Month(year*12 + int(month) - 1)
}

func (m Month) Year() int { return int(m) / 12 }

func (m Month) Month() time.Month { return time.Month(int(m)%12 + 1) }

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), int(m.Month()))
}

// Period is a half-open employment interval with From <= To.
type Period struct {
	From Month `json:"from"`
	To   Month `json:"to"`
}

// Months is the length of the period; a period that starts and ends in the
// same month counts as one month.
func (p Period) Months() int {
	return max(1, int(p.To-p.From))
}

func (p Period) String() string {
	return p.From.String() + ".." + p.To.String()
}

// Merge returns periods sorted by start with overlapping or touching
// periods collapsed. The input slice is not modified.
func Merge(periods []Period) []Period {
	if len(periods) == 0 {
		return nil
	}

	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].From == sorted[j].From {
			return sorted[i].To < sorted[j].To
		}
		return sorted[i].From < sorted[j].From
	})

	merged := []Period{sorted[0]}
	for _, p := range sorted[1:] {
		last := &merged[len(merged)-1]
		if p.From <= last.To {
			if p.To > last.To {
				last.To = p.To
			}
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

// TotalMonths sums the months of the merged periods.
func TotalMonths(periods []Period) int {
	total := 0
	for _, p := range Merge(periods) {
		total += p.Months()
	}
	return total
}
