package csvio

import (
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/ingemedia/timetable/internal/schedule"
)

type placementRow struct {
	Date    string `csv:"date"`
	Start   string `csv:"start"`
	End     string `csv:"end"`
	Course  string `csv:"course"`
	Kind    string `csv:"kind"`
	Teacher string `csv:"teacher"`
	Groups  string `csv:"groups"`
	Room    string `csv:"room"`
	Minutes int    `csv:"minutes"`
}

// WriteAssignment writes the assignment as one row per placed session,
// ordered chronologically.
func WriteAssignment(file string, assignment schedule.Assignment) error {
	rows := lo.MapToSlice(assignment, func(_ schedule.PlacementKey, p schedule.Placement) *placementRow {
		return &placementRow{
			Date:    p.Date.Format("2006-01-02"),
			Start:   p.Start,
			End:     p.End,
			Course:  p.CourseName,
			Kind:    string(p.Kind),
			Teacher: p.TeacherName,
			Groups:  strings.Join(p.GroupNames, "+"),
			Room:    p.RoomName,
			Minutes: p.Minutes,
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		if rows[i].Start != rows[j].Start {
			return rows[i].Start < rows[j].Start
		}
		return rows[i].Course < rows[j].Course
	})

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}
