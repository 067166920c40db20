// Package export renders a solved assignment into calendar formats.
package export

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/samber/lo"

	"github.com/ingemedia/timetable/internal/schedule"
)

const productID = "-//ingemedia//timetable//FR"

// WriteICS writes the assignment as an iCalendar file, one VEVENT per placed
// session. Event times are local wall-clock times on the placement date.
func WriteICS(file string, assignment schedule.Assignment) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	placements := lo.Values(assignment)
	sort.Slice(placements, func(i, j int) bool {
		if !placements[i].Date.Equal(placements[j].Date) {
			return placements[i].Date.Before(placements[j].Date)
		}
		if placements[i].Start != placements[j].Start {
			return placements[i].Start < placements[j].Start
		}
		return placements[i].SessionID < placements[j].SessionID
	})

	for _, p := range placements {
		start, err := clockOn(p.Date, p.Start)
		if err != nil {
			return fmt.Errorf("placement %q: %w", p.SessionID, err)
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%d-%d@ingemedia", p.SessionID, p.Week, p.Day))
		event.SetDtStampTime(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(start.Add(time.Duration(p.Minutes) * time.Minute))
		event.SetSummary(fmt.Sprintf("%s (%s)", p.CourseName, p.Kind))
		event.SetLocation(p.RoomName)
		event.SetDescription(fmt.Sprintf("%s / %s", p.TeacherName, strings.Join(p.GroupNames, ", ")))
	}

	return os.WriteFile(file, []byte(cal.Serialize()), 0o644)
}

func clockOn(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad clock %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}
