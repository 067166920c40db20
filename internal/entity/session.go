package entity

import (
	"fmt"

	"github.com/samber/lo"
)

// Session is one concrete teaching occurrence to be placed in time and space.
// Groups is always a list, even for a single group. Seq orders sessions of
// the same course track; it is also embedded in the ID.
type Session struct {
	ID      string
	Course  *Course
	Groups  []*Group
	Seq     int
	Minutes int
	Kind    CourseKind
}

// Headcount sums the headcounts of the session's groups.
func (s *Session) Headcount() int {
	return lo.SumBy(s.Groups, func(g *Group) int { return g.Headcount })
}

// Slots converts the session duration into half-hour slots, never zero.
func (s *Session) Slots() int {
	slots := s.Minutes / 30
	if slots == 0 {
		slots = 1
	}
	return slots
}

// SplitCourses derives every session from the course list. Each course's
// total duration is cut into full-length sessions plus, when the remainder is
// positive, one trailing shorter session. Lectures produce one session track
// spanning all listed groups; tutorials produce one track per child group
// when a listed group has children, otherwise per listed group. The result is
// deterministic for a given course list.
func SplitCourses(courses []*Course, groups *GroupSet) ([]*Session, error) {
	sessions := make([]*Session, 0)
	counter := 1

	for _, course := range courses {
		durations := splitDurations(course.TotalMinutes, course.MaxSessionMins)

		switch course.Kind {
		case Lecture:
			joint := make([]*Group, 0, len(course.GroupIDs))
			for _, id := range course.GroupIDs {
				group, ok := groups.ByID(id)
				if !ok {
					return nil, fmt.Errorf("course %q references unknown group %q", course.ID, id)
				}
				joint = append(joint, group)
			}
			for seq, minutes := range durations {
				sessions = append(sessions, &Session{
					ID:      fmt.Sprintf("S%d_%s_%d", counter, course.ID, seq+1),
					Course:  course,
					Groups:  joint,
					Seq:     seq + 1,
					Minutes: minutes,
					Kind:    course.Kind,
				})
				counter++
			}

		case Tutorial:
			for _, id := range course.GroupIDs {
				group, ok := groups.ByID(id)
				if !ok {
					return nil, fmt.Errorf("course %q references unknown group %q", course.ID, id)
				}

				// A parent group decomposes into one track per child.
				tracks := []*Group{group}
				if len(group.Children) > 0 {
					tracks = group.Children
				}

				for _, track := range tracks {
					for seq, minutes := range durations {
						sessions = append(sessions, &Session{
							ID:      fmt.Sprintf("S%d_%s_%s_%d", counter, course.ID, track.ID, seq+1),
							Course:  course,
							Groups:  []*Group{track},
							Seq:     seq + 1,
							Minutes: minutes,
							Kind:    course.Kind,
						})
						counter++
					}
				}
			}

		default:
			return nil, fmt.Errorf("course %q has unknown kind %q", course.ID, course.Kind)
		}
	}

	return sessions, nil
}

// splitDurations cuts total into full chunks of max plus one positive
// remainder chunk; a zero remainder never yields a zero-duration session.
func splitDurations(total, max int) []int {
	if total <= max {
		return []int{total}
	}

	full := total / max
	rem := total % max

	durations := make([]int, 0, full+1)
	for i := 0; i < full; i++ {
		durations = append(durations, max)
	}
	if rem > 0 {
		durations = append(durations, rem)
	}
	return durations
}
