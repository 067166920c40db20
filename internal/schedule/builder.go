package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/ingemedia/timetable/internal/cp"
	"github.com/ingemedia/timetable/internal/entity"
	"github.com/ingemedia/timetable/internal/timegrid"
)

// BreakWindow is the slot range inside which every teacher and group must
// keep one hour (two consecutive slots) free on every worked day.
type BreakWindow struct {
	Start int
	End   int
}

// DefaultBreakWindow spans slots 8 to 12 of the default grid, 12:00-14:00.
func DefaultBreakWindow() BreakWindow {
	return BreakWindow{Start: 8, End: 12}
}

// Problem is a fully built, immutable constraint model ready to solve.
type Problem struct {
	Model    *cp.Model
	Space    *Space
	Sessions []*entity.Session
	Roster   *entity.Roster
	Calendar *timegrid.Calendar
	Grid     timegrid.Grid
}

type builder struct {
	model    *cp.Model
	space    *Space
	sessions []*entity.Session
	byID     map[string]*entity.Session
	roster   *entity.Roster
	calendar *timegrid.Calendar
	grid     timegrid.Grid
	window   BreakWindow
	obs      Observer
}

// BuildProblem generates the placement-variable space and encodes every
// constraint family over it. Construction is single-threaded and completes
// before any solving; the returned problem is immutable.
func BuildProblem(
	roster *entity.Roster,
	sessions []*entity.Session,
	calendar *timegrid.Calendar,
	grid timegrid.Grid,
	window BreakWindow,
	obs Observer,
) (*Problem, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	obs.BuildStarted(len(sessions), len(calendar.Weeks()))

	model := cp.NewModel()
	space := GenerateSpace(model, sessions, roster.Rooms, calendar, grid)
	obs.VariablesCreated(space.Size())

	b := &builder{
		model:    model,
		space:    space,
		sessions: sessions,
		byID:     lo.KeyBy(sessions, func(s *entity.Session) string { return s.ID }),
		roster:   roster,
		calendar: calendar,
		grid:     grid,
		window:   window,
		obs:      obs,
	}

	families := []struct {
		name string
		add  func() (int, error)
	}{
		{"single_placement", b.singlePlacement},
		{"teacher_exclusivity", b.teacherExclusivity},
		{"group_exclusivity", b.groupExclusivity},
		{"room_exclusivity", b.roomExclusivity},
		{"room_capacity", b.roomCapacity},
		{"break_window", b.breakWindows},
		{"room_kind", b.roomKind},
		{"availability", b.availability},
		{"course_ordering", b.courseOrdering},
	}

	for _, family := range families {
		added, err := family.add()
		if err != nil {
			return nil, fmt.Errorf("building %s constraints: %w", family.name, err)
		}
		obs.ConstraintsAdded(family.name, added)
	}

	return &Problem{
		Model:    model,
		Space:    space,
		Sessions: sessions,
		Roster:   roster,
		Calendar: calendar,
		Grid:     grid,
	}, nil
}

// singlePlacement requires every session to be placed exactly once over the
// whole horizon. A session with zero candidate variables makes the model
// trivially infeasible, so it is surfaced as a configuration error instead.
func (b *builder) singlePlacement() (int, error) {
	var orphans []string
	added := 0

	for _, session := range b.sessions {
		keys := b.space.SessionKeys(session.ID)
		if len(keys) == 0 {
			orphans = append(orphans, session.ID)
			continue
		}

		vars := make([]cp.Var, 0, len(keys))
		for _, key := range keys {
			v, _ := b.space.Var(key)
			vars = append(vars, v)
		}
		b.model.AddExactlyOne(vars)
		added++
	}

	if len(orphans) > 0 {
		return 0, fmt.Errorf("%w: sessions with no candidate placement: %s", ErrConfig, strings.Join(orphans, ", "))
	}
	return added, nil
}

// covering collects the variables of the given sessions whose occupied slot
// range [start, start+slots) contains the given slot on that week and day.
func (b *builder) covering(sessions []*entity.Session, week, day, slot int) []cp.Var {
	vars := make([]cp.Var, 0)
	for _, session := range sessions {
		slots := session.Slots()
		for start := max(0, slot-slots+1); start <= slot; start++ {
			for _, room := range b.roster.Rooms {
				if v, ok := b.space.Var(VarKey{session.ID, week, day, start, room.ID}); ok {
					vars = append(vars, v)
				}
			}
		}
	}
	return vars
}

// teacherExclusivity forbids a teacher from giving two overlapping sessions.
func (b *builder) teacherExclusivity() (int, error) {
	added := 0

	for _, teacher := range b.roster.Teachers {
		taught := lo.Filter(b.sessions, func(s *entity.Session, _ int) bool {
			return s.Course.Teacher.ID == teacher.ID
		})
		if len(taught) == 0 {
			continue
		}

		for week := range b.calendar.Weeks() {
			for day := 0; day < b.grid.Days; day++ {
				if _, ok := b.calendar.DayDate(week, day); !ok {
					continue
				}
				for slot := 0; slot < b.grid.SlotsPerDay; slot++ {
					vars := b.covering(taught, week, day, slot)
					if len(vars) > 1 {
						b.model.AddAtMostOne(vars)
						added++
					}
				}
			}
		}
	}

	return added, nil
}

// groupExclusivity forbids a group from attending two overlapping sessions,
// and propagates the hierarchy: a parent group's session implicitly occupies
// all its children, so overlapping variables of a parent and a child that
// belong to different sessions exclude each other pairwise.
func (b *builder) groupExclusivity() (int, error) {
	added := 0
	excluded := make(map[[2]cp.Var]bool)

	for week := range b.calendar.Weeks() {
		for day := 0; day < b.grid.Days; day++ {
			keys := b.space.DayKeys(week, day)
			if len(keys) == 0 {
				continue
			}

			// per-group, per-slot occupancy on this day
			type occEntry struct {
				session string
				v       cp.Var
			}
			occ := make(map[string]map[int][]occEntry)
			for _, key := range keys {
				session := b.byID[key.Session]
				v, _ := b.space.Var(key)
				for slot := key.Slot; slot < key.Slot+session.Slots(); slot++ {
					for _, group := range session.Groups {
						if occ[group.ID] == nil {
							occ[group.ID] = make(map[int][]occEntry)
						}
						occ[group.ID][slot] = append(occ[group.ID][slot], occEntry{key.Session, v})
					}
				}
			}

			for _, group := range b.roster.Groups.All() {
				slots := occ[group.ID]
				for slot := 0; slot < b.grid.SlotsPerDay; slot++ {
					entries := slots[slot]
					if len(entries) > 1 {
						b.model.AddAtMostOne(lo.Map(entries, func(e occEntry, _ int) cp.Var { return e.v }))
						added++
					}
				}
			}

			//** Parent/child mutual exclusion across distinct sessions
			for _, group := range b.roster.Groups.All() {
				parentID, ok := b.roster.Groups.ParentOf(group.ID)
				if !ok {
					continue
				}
				parentSlots, ok := occ[parentID]
				if !ok {
					continue
				}
				for slot, childEntries := range occ[group.ID] {
					for _, parent := range parentSlots[slot] {
						for _, child := range childEntries {
							if parent.session == child.session {
								continue
							}
							pair := [2]cp.Var{min(parent.v, child.v), max(parent.v, child.v)}
							if excluded[pair] {
								continue
							}
							excluded[pair] = true
							b.model.AddClause(parent.v.Not(), child.v.Not())
							added++
						}
					}
				}
			}
		}
	}

	return added, nil
}

// roomExclusivity forbids a room from hosting two overlapping sessions.
func (b *builder) roomExclusivity() (int, error) {
	added := 0

	for _, room := range b.roster.Rooms {
		for week := range b.calendar.Weeks() {
			for day := 0; day < b.grid.Days; day++ {
				if _, ok := b.calendar.DayDate(week, day); !ok {
					continue
				}
				for slot := 0; slot < b.grid.SlotsPerDay; slot++ {
					vars := make([]cp.Var, 0)
					for _, session := range b.sessions {
						slots := session.Slots()
						for start := max(0, slot-slots+1); start <= slot; start++ {
							if v, ok := b.space.Var(VarKey{session.ID, week, day, start, room.ID}); ok {
								vars = append(vars, v)
							}
						}
					}
					if len(vars) > 1 {
						b.model.AddAtMostOne(vars)
						added++
					}
				}
			}
		}
	}

	return added, nil
}

// roomCapacity is enforced at variable generation; any undersized pairing
// that slipped into the space is still forced off as a safety net.
func (b *builder) roomCapacity() (int, error) {
	added := 0
	rooms := lo.KeyBy(b.roster.Rooms, func(r *entity.Room) string { return r.ID })

	for _, session := range b.sessions {
		headcount := session.Headcount()
		for _, key := range b.space.SessionKeys(session.ID) {
			if rooms[key.Room].Capacity < headcount {
				v, _ := b.space.Var(key)
				b.model.ForceFalse(v)
				added++
			}
		}
	}

	return added, nil
}

// breakWindows guarantees, per teacher and per group, on every worked day,
// one hour free inside the configured window. Slot occupancy is a derived
// boolean (a slot nobody can use is a constant false), a break option is the
// conjunction of two consecutive free slots, and at least one option must
// hold.
func (b *builder) breakWindows() (int, error) {
	added := 0

	for _, teacher := range b.roster.Teachers {
		taught := lo.Filter(b.sessions, func(s *entity.Session, _ int) bool {
			return s.Course.Teacher.ID == teacher.ID
		})
		added += b.actorBreaks("teacher_"+teacher.ID, taught)
	}

	for _, group := range b.roster.Groups.All() {
		attended := lo.Filter(b.sessions, func(s *entity.Session, _ int) bool {
			return lo.SomeBy(s.Groups, func(g *entity.Group) bool { return g.ID == group.ID })
		})
		added += b.actorBreaks("group_"+group.ID, attended)
	}

	return added, nil
}

func (b *builder) actorBreaks(actor string, sessions []*entity.Session) int {
	added := 0

	for week := range b.calendar.Weeks() {
		for day := 0; day < b.grid.Days; day++ {
			if _, ok := b.calendar.DayDate(week, day); !ok {
				continue
			}

			occupied := make([]cp.Var, 0, b.window.End-b.window.Start+1)
			for slot := b.window.Start; slot <= b.window.End; slot++ {
				indicator := b.model.NewBool(fmt.Sprintf("%s_w%d_d%d_c%d_busy", actor, week, day, slot))
				b.model.AddBoolOrEq(indicator, b.covering(sessions, week, day, slot))
				occupied = append(occupied, indicator)
			}

			options := make([]cp.Lit, 0, b.window.End-b.window.Start)
			for start := b.window.Start; start < b.window.End; start++ {
				i := start - b.window.Start
				option := b.model.NewBool(fmt.Sprintf("%s_w%d_d%d_break_%d", actor, week, day, start))
				b.model.AddBoolAndEq(option, []cp.Lit{occupied[i].Not(), occupied[i+1].Not()})
				options = append(options, option.Lit())
			}

			// the break is mandatory
			b.model.AddClause(options...)
			added++
		}
	}

	return added
}

// roomKind restricts tutorials of a teacher who needs a non-standard room
// kind to rooms of that kind. Redundant with generation-time pruning for
// lecture halls, kept as a safety net.
func (b *builder) roomKind() (int, error) {
	added := 0
	rooms := lo.KeyBy(b.roster.Rooms, func(r *entity.Room) string { return r.ID })

	for _, session := range b.sessions {
		if session.Kind != entity.Tutorial {
			continue
		}
		needs := session.Course.Teacher.NeedsRoom
		if needs == "" || needs == entity.RoomStandard {
			continue
		}
		for _, key := range b.space.SessionKeys(session.ID) {
			if rooms[key.Room].Kind != needs {
				v, _ := b.space.Var(key)
				b.model.ForceFalse(v)
				added++
			}
		}
	}

	return added, nil
}

// availability forces off any variable whose room or teacher is unavailable
// for a half-day period the occupied window touches, or whose teacher does
// not work that week parity.
func (b *builder) availability() (int, error) {
	added := 0
	rooms := lo.KeyBy(b.roster.Rooms, func(r *entity.Room) string { return r.ID })

	for _, session := range b.sessions {
		teacher := session.Course.Teacher
		slots := session.Slots()

		for _, key := range b.space.SessionKeys(session.ID) {
			blocked := false

			week := b.calendar.WeekNumber(key.Week)
			if week%2 == 1 && !teacher.OddWeeks {
				blocked = true
			}
			if week%2 == 0 && !teacher.EvenWeeks {
				blocked = true
			}

			if !blocked {
				for _, period := range b.grid.PeriodsCovered(key.Slot, slots) {
					if !rooms[key.Room].Availability.Available(key.Day, period) ||
						!teacher.Availability.Available(key.Day, period) {
						blocked = true
						break
					}
				}
			}

			if blocked {
				v, _ := b.space.Var(key)
				b.model.ForceFalse(v)
				added++
			}
		}
	}

	return added, nil
}

// courseOrdering keeps the sessions of one course track (same course, same
// group set) in sequence order on the absolute timeline. Each session's
// position is channelled onto its placement variables; consecutive sessions
// must be strictly increasing.
func (b *builder) courseOrdering() (int, error) {
	added := 0

	tracks := lo.GroupBy(b.sessions, func(s *entity.Session) string {
		groupIDs := lo.Map(s.Groups, func(g *entity.Group, _ int) string { return g.ID })
		return s.Course.ID + "|" + strings.Join(groupIDs, "+")
	})

	trackIDs := lo.Keys(tracks)
	sort.Strings(trackIDs)

	for _, trackID := range trackIDs {
		track := tracks[trackID]
		if len(track) < 2 {
			continue
		}
		sort.Slice(track, func(i, j int) bool { return track[i].Seq < track[j].Seq })

		for i := 0; i < len(track)-1; i++ {
			b.model.AddLess(b.position(track[i]), b.position(track[i+1]))
			added++
		}
	}

	return added, nil
}

func (b *builder) position(session *entity.Session) cp.Position {
	keys := b.space.SessionKeys(session.ID)
	defs := make([]cp.PosDef, 0, len(keys))
	for _, key := range keys {
		v, _ := b.space.Var(key)
		defs = append(defs, cp.PosDef{Var: v, Value: b.grid.Position(key.Week, key.Day, key.Slot)})
	}
	return cp.Position{Name: "pos_" + session.ID, Defs: defs}
}
