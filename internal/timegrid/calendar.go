package timegrid

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar maps (week index, weekday) to a concrete date, or to "unavailable"
// when the day is a holiday or falls outside the horizon bounds. It is built
// once and consumed read-only by the model builder.
type Calendar struct {
	weeks []int
	days  int
	dates map[[2]int]time.Time
}

// CalendarSpec describes one planning horizon. Weeks lists ISO week numbers;
// when empty the weeks touched by the month span of Year/Month are used.
// Holidays, From and To are "2006-01-02" dates; empty bounds are open.
type CalendarSpec struct {
	Year     int
	Month    time.Month
	Weeks    []int
	Holidays []string
	From     string
	To       string
}

func NewCalendar(spec CalendarSpec, grid Grid) (*Calendar, error) {
	weeks := spec.Weeks
	if len(weeks) == 0 {
		weeks = monthWeeks(spec.Year, spec.Month)
	}

	holidays := make(map[string]bool, len(spec.Holidays))
	for _, day := range spec.Holidays {
		if _, err := time.Parse(dateLayout, day); err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", day, err)
		}
		holidays[day] = true
	}

	var from, to time.Time
	var err error
	if spec.From != "" {
		if from, err = time.Parse(dateLayout, spec.From); err != nil {
			return nil, fmt.Errorf("invalid horizon start %q: %w", spec.From, err)
		}
	}
	if spec.To != "" {
		if to, err = time.Parse(dateLayout, spec.To); err != nil {
			return nil, fmt.Errorf("invalid horizon end %q: %w", spec.To, err)
		}
	}

	calendar := &Calendar{
		weeks: weeks,
		days:  grid.Days,
		dates: make(map[[2]int]time.Time),
	}

	for weekIdx, week := range weeks {
		monday := isoWeekMonday(spec.Year, week)
		// Week numbers smaller than the horizon start's week belong to the
		// next civil year (a term rolling over new year).
		if !from.IsZero() && monday.Before(from.AddDate(0, 0, -7)) {
			monday = isoWeekMonday(spec.Year+1, week)
		}

		for day := 0; day < grid.Days; day++ {
			date := monday.AddDate(0, 0, day)
			if holidays[date.Format(dateLayout)] {
				continue
			}
			if !from.IsZero() && date.Before(from) {
				continue
			}
			if !to.IsZero() && date.After(to) {
				continue
			}
			calendar.dates[[2]int{weekIdx, day}] = date
		}
	}

	return calendar, nil
}

// Weeks returns the ISO week numbers of the horizon, in planning order.
func (c *Calendar) Weeks() []int {
	return c.weeks
}

// WeekNumber translates a week index back to its ISO week number.
func (c *Calendar) WeekNumber(weekIdx int) int {
	return c.weeks[weekIdx]
}

// DayDate resolves a (week index, weekday) coordinate to its date. The second
// return is false for holidays and out-of-horizon days.
func (c *Calendar) DayDate(weekIdx, day int) (time.Time, bool) {
	date, ok := c.dates[[2]int{weekIdx, day}]
	return date, ok
}

// isoWeekMonday returns the Monday of the given ISO week. January 4th is
// always inside ISO week 1.
func isoWeekMonday(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -((int(jan4.Weekday())+6)%7))
	return monday.AddDate(0, 0, (week-1)*7)
}

// monthWeeks lists the ISO weeks touched by any day of the month.
func monthWeeks(year int, month time.Month) []int {
	weeks := make([]int, 0, 6)
	seen := make(map[int]bool)

	day := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for day.Month() == month {
		_, week := day.ISOWeek()
		if !seen[week] {
			seen[week] = true
			weeks = append(weeks, week)
		}
		day = day.AddDate(0, 0, 1)
	}
	return weeks
}
