// Package schedule builds the timetabling constraint model over a sparse
// placement-variable space, drives the search and materializes the chosen
// assignment.
package schedule

import (
	"fmt"

	"github.com/ingemedia/timetable/internal/cp"
	"github.com/ingemedia/timetable/internal/entity"
	"github.com/ingemedia/timetable/internal/timegrid"
)

// VarKey is the composite coordinate of one placement decision. The sparse
// map keyed by it is the sole representation of legality: a missing key means
// "never legal", not "false".
type VarKey struct {
	Session string
	Week    int
	Day     int
	Slot    int
	Room    string
}

// Space is the sparse set of legal placement variables, with acceleration
// indices per session and per (week, day). Immutable once generated.
type Space struct {
	vars      map[VarKey]cp.Var
	bySession map[string][]VarKey
	byDay     map[[2]int][]VarKey
}

func (s *Space) Var(key VarKey) (cp.Var, bool) {
	v, ok := s.vars[key]
	return v, ok
}

func (s *Space) SessionKeys(id string) []VarKey {
	return s.bySession[id]
}

func (s *Space) DayKeys(week, day int) []VarKey {
	return s.byDay[[2]int{week, day}]
}

func (s *Space) Size() int {
	return len(s.vars)
}

// GenerateSpace enumerates, for every session, the (week, day, start slot,
// room) tuples that pass static feasibility and creates one boolean variable
// per tuple. Pruned here, before variable creation: holiday and out-of-bound
// days, sessions overrunning the last slot of the day, rooms below the
// session's headcount, and tutorials in lecture halls.
func GenerateSpace(
	model *cp.Model,
	sessions []*entity.Session,
	rooms []*entity.Room,
	calendar *timegrid.Calendar,
	grid timegrid.Grid,
) *Space {
	space := &Space{
		vars:      make(map[VarKey]cp.Var),
		bySession: make(map[string][]VarKey),
		byDay:     make(map[[2]int][]VarKey),
	}

	for _, session := range sessions {
		slots := session.Slots()
		headcount := session.Headcount()

		for week := range calendar.Weeks() {
			for day := 0; day < grid.Days; day++ {
				if _, ok := calendar.DayDate(week, day); !ok {
					continue
				}

				for start := 0; start+slots <= grid.SlotsPerDay; start++ {
					for _, room := range rooms {
						if room.Capacity < headcount {
							continue
						}
						if session.Kind == entity.Tutorial && room.Kind == entity.RoomLectureHall {
							continue
						}

						key := VarKey{
							Session: session.ID,
							Week:    week,
							Day:     day,
							Slot:    start,
							Room:    room.ID,
						}
						v := model.NewBool(fmt.Sprintf("s_%s_w%d_d%d_c%d_r%s", session.ID, week, day, start, room.ID))
						space.vars[key] = v
						space.bySession[session.ID] = append(space.bySession[session.ID], key)
						space.byDay[[2]int{week, day}] = append(space.byDay[[2]int{week, day}], key)
					}
				}
			}
		}
	}

	return space
}
