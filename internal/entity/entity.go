package entity

// RoomKind tags a room with its physical layout.
type RoomKind string

const (
	RoomStandard    RoomKind = "standard"
	RoomLectureHall RoomKind = "amphi"
	RoomLab         RoomKind = "labo"
)

// CourseKind distinguishes whole-cohort lectures from per-subgroup tutorials.
type CourseKind string

const (
	Lecture  CourseKind = "CM"
	Tutorial CourseKind = "TD"
)

// Period is one half of a teaching day.
type Period int

const (
	Morning Period = iota
	Afternoon
)

// Availability holds one morning/afternoon pair per weekday. A nil
// Availability means always available; a weekday beyond the matrix means
// unavailable.
type Availability [][2]bool

func (a Availability) Available(day int, period Period) bool {
	if a == nil {
		return true
	}
	if day < 0 || day >= len(a) {
		return false
	}
	return a[day][period]
}

// Room is immutable after load.
type Room struct {
	ID           string `validate:"required"`
	Name         string `validate:"required"`
	Capacity     int    `validate:"gt=0"`
	Kind         RoomKind
	Availability Availability
}

// Teacher is immutable after load. NeedsRoom is the room kind the teacher's
// tutorials require; OddWeeks/EvenWeeks flag the week parities the teacher
// works on.
type Teacher struct {
	ID           string `validate:"required"`
	Name         string `validate:"required"`
	NeedsRoom    RoomKind
	OddWeeks     bool
	EvenWeeks    bool
	Availability Availability
}

// Course references its teacher and participating groups by ID; sessions are
// derived from it once by SplitCourses and never re-derived.
type Course struct {
	ID             string `validate:"required"`
	Name           string `validate:"required"`
	Teacher        *Teacher
	GroupIDs       []string `validate:"min=1"`
	TotalMinutes   int      `validate:"gt=0"`
	MaxSessionMins int      `validate:"gt=0"`
	Kind           CourseKind `validate:"oneof=CM TD"`
}
