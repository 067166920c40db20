package schedule

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/ingemedia/timetable/internal/entity"
)

// PlacementKey identifies one placed session occurrence.
type PlacementKey struct {
	Session string
	Week    int
	Day     int
}

// Placement is the concrete rendition of one placed session for downstream
// exporters.
type Placement struct {
	SessionID   string
	CourseID    string
	CourseName  string
	TeacherName string
	RoomID      string
	RoomName    string
	GroupNames  []string
	Week        int
	Day         int
	Slot        int
	Date        time.Time
	Start       string
	End         string
	Minutes     int
	Kind        entity.CourseKind
}

// Assignment maps every session occurrence to its placement.
type Assignment map[PlacementKey]Placement

// extract materializes the valuation chosen by the solver. Exactly one
// variable per session is true under the single-placement family; a session
// without one is an internal consistency violation.
func extract(problem *Problem, valuation []bool) (Assignment, error) {
	rooms := lo.KeyBy(problem.Roster.Rooms, func(r *entity.Room) string { return r.ID })
	assignment := make(Assignment, len(problem.Sessions))

	for _, session := range problem.Sessions {
		var chosen *VarKey
		for _, key := range problem.Space.SessionKeys(session.ID) {
			v, _ := problem.Space.Var(key)
			if int(v) < len(valuation) && valuation[v] {
				chosen = &key
				break
			}
		}
		if chosen == nil {
			return nil, fmt.Errorf("%w: session %q has no placement in a satisfied model", ErrInternal, session.ID)
		}

		date, ok := problem.Calendar.DayDate(chosen.Week, chosen.Day)
		if !ok {
			return nil, fmt.Errorf("%w: session %q placed on unavailable day (week %d, day %d)", ErrInternal, session.ID, chosen.Week, chosen.Day)
		}

		room := rooms[chosen.Room]
		assignment[PlacementKey{session.ID, chosen.Week, chosen.Day}] = Placement{
			SessionID:   session.ID,
			CourseID:    session.Course.ID,
			CourseName:  session.Course.Name,
			TeacherName: session.Course.Teacher.Name,
			RoomID:      room.ID,
			RoomName:    room.Name,
			GroupNames:  lo.Map(session.Groups, func(g *entity.Group, _ int) string { return g.Name }),
			Week:        chosen.Week,
			Day:         chosen.Day,
			Slot:        chosen.Slot,
			Date:        date,
			Start:       problem.Grid.Clock(chosen.Slot),
			End:         problem.Grid.ClockAfter(chosen.Slot, session.Minutes),
			Minutes:     session.Minutes,
			Kind:        session.Kind,
		}
	}

	return assignment, nil
}
