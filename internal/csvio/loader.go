// Package csvio reads the entity CSV files into the typed roster and writes
// a solved assignment back out as a flat table.
package csvio

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/ingemedia/timetable/internal/entity"
)

type roomRecord struct {
	ID       string `csv:"id"`
	Name     string `csv:"name"`
	Capacity int    `csv:"capacity"`
	Kind     string `csv:"kind"`
	MonAM    int    `csv:"mon_am"`
	MonPM    int    `csv:"mon_pm"`
	TueAM    int    `csv:"tue_am"`
	TuePM    int    `csv:"tue_pm"`
	WedAM    int    `csv:"wed_am"`
	WedPM    int    `csv:"wed_pm"`
	ThuAM    int    `csv:"thu_am"`
	ThuPM    int    `csv:"thu_pm"`
	FriAM    int    `csv:"fri_am"`
	FriPM    int    `csv:"fri_pm"`
}

type teacherRecord struct {
	ID        string `csv:"id"`
	Name      string `csv:"name"`
	NeedsRoom string `csv:"needs_room"`
	OddWeeks  int    `csv:"odd_weeks"`
	EvenWeeks int    `csv:"even_weeks"`
	MonAM     int    `csv:"mon_am"`
	MonPM     int    `csv:"mon_pm"`
	TueAM     int    `csv:"tue_am"`
	TuePM     int    `csv:"tue_pm"`
	WedAM     int    `csv:"wed_am"`
	WedPM     int    `csv:"wed_pm"`
	ThuAM     int    `csv:"thu_am"`
	ThuPM     int    `csv:"thu_pm"`
	FriAM     int    `csv:"fri_am"`
	FriPM     int    `csv:"fri_pm"`
}

type groupRecord struct {
	ID        string `csv:"id"`
	Name      string `csv:"name"`
	Headcount int    `csv:"headcount"`
	ParentID  string `csv:"parent_id"`
}

type courseRecord struct {
	ID         string  `csv:"id"`
	Name       string  `csv:"name"`
	TeacherID  string  `csv:"teacher_id"`
	GroupIDs   string  `csv:"group_ids"`
	TotalHours float64 `csv:"total_hours"`
	MaxHours   float64 `csv:"max_session_hours"`
	Kind       string  `csv:"kind"`
}

func availability(cells [10]int) entity.Availability {
	matrix := make(entity.Availability, 5)
	for day := 0; day < 5; day++ {
		matrix[day] = [2]bool{cells[2*day] != 0, cells[2*day+1] != 0}
	}
	return matrix
}

func unmarshal[T any](file string) ([]*T, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records := []*T{}
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", file, err)
	}
	return records, nil
}

func LoadRooms(file string) ([]*entity.Room, error) {
	records, err := unmarshal[roomRecord](file)
	if err != nil {
		return nil, err
	}
	return lo.Map(records, func(r *roomRecord, _ int) *entity.Room {
		return &entity.Room{
			ID:       r.ID,
			Name:     r.Name,
			Capacity: r.Capacity,
			Kind:     entity.RoomKind(r.Kind),
			Availability: availability([10]int{
				r.MonAM, r.MonPM, r.TueAM, r.TuePM, r.WedAM,
				r.WedPM, r.ThuAM, r.ThuPM, r.FriAM, r.FriPM,
			}),
		}
	}), nil
}

func LoadTeachers(file string) ([]*entity.Teacher, error) {
	records, err := unmarshal[teacherRecord](file)
	if err != nil {
		return nil, err
	}
	return lo.Map(records, func(r *teacherRecord, _ int) *entity.Teacher {
		// Both parity columns at zero means no parity restriction, not a
		// teacher who never works.
		odd, even := r.OddWeeks != 0, r.EvenWeeks != 0
		if !odd && !even {
			odd, even = true, true
		}
		return &entity.Teacher{
			ID:        r.ID,
			Name:      r.Name,
			NeedsRoom: entity.RoomKind(r.NeedsRoom),
			OddWeeks:  odd,
			EvenWeeks: even,
			Availability: availability([10]int{
				r.MonAM, r.MonPM, r.TueAM, r.TuePM, r.WedAM,
				r.WedPM, r.ThuAM, r.ThuPM, r.FriAM, r.FriPM,
			}),
		}
	}), nil
}

// LoadGroups loads the group records and builds the tree: records first, then
// parent/child links and parent headcounts inside NewGroupSet.
func LoadGroups(file string) (*entity.GroupSet, error) {
	records, err := unmarshal[groupRecord](file)
	if err != nil {
		return nil, err
	}
	groups := lo.Map(records, func(r *groupRecord, _ int) *entity.Group {
		return &entity.Group{
			ID:        r.ID,
			Name:      r.Name,
			Headcount: r.Headcount,
			ParentID:  r.ParentID,
		}
	})
	return entity.NewGroupSet(groups)
}

// LoadCourses loads the course records and resolves teacher references.
// Durations are hours in the file and minutes in the entity.
func LoadCourses(file string, teachers []*entity.Teacher) ([]*entity.Course, error) {
	records, err := unmarshal[courseRecord](file)
	if err != nil {
		return nil, err
	}

	byID := lo.KeyBy(teachers, func(t *entity.Teacher) string { return t.ID })
	courses := make([]*entity.Course, 0, len(records))
	for _, r := range records {
		teacher, ok := byID[r.TeacherID]
		if !ok {
			return nil, fmt.Errorf("course %q references unknown teacher %q", r.ID, r.TeacherID)
		}

		groupIDs := lo.FilterMap(strings.Split(r.GroupIDs, ","), func(id string, _ int) (string, bool) {
			trimmed := strings.TrimSpace(id)
			return trimmed, trimmed != ""
		})

		courses = append(courses, &entity.Course{
			ID:             r.ID,
			Name:           r.Name,
			Teacher:        teacher,
			GroupIDs:       groupIDs,
			TotalMinutes:   int(r.TotalHours * 60),
			MaxSessionMins: int(r.MaxHours * 60),
			Kind:           entity.CourseKind(strings.ToUpper(strings.TrimSpace(r.Kind))),
		})
	}
	return courses, nil
}

// LoadRoster loads all four entity files and validates the result once.
func LoadRoster(rooms, teachers, groups, courses string) (*entity.Roster, error) {
	loadedRooms, err := LoadRooms(rooms)
	if err != nil {
		return nil, err
	}
	loadedTeachers, err := LoadTeachers(teachers)
	if err != nil {
		return nil, err
	}
	groupSet, err := LoadGroups(groups)
	if err != nil {
		return nil, err
	}
	loadedCourses, err := LoadCourses(courses, loadedTeachers)
	if err != nil {
		return nil, err
	}

	roster := &entity.Roster{
		Rooms:    loadedRooms,
		Teachers: loadedTeachers,
		Groups:   groupSet,
		Courses:  loadedCourses,
	}
	if err := roster.Validate(); err != nil {
		return nil, err
	}
	return roster, nil
}
