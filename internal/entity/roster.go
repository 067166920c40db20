package entity

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Roster bundles every loaded entity collection. It is validated once after
// load; downstream code assumes all fields are present and typed.
type Roster struct {
	Rooms    []*Room
	Teachers []*Teacher
	Groups   *GroupSet
	Courses  []*Course
}

// Validate checks the struct tags of every record and the cross-references
// between courses, teachers and groups.
func (r *Roster) Validate() error {
	validate := validator.New()

	for _, room := range r.Rooms {
		if err := validate.Struct(room); err != nil {
			return fmt.Errorf("room %q: %w", room.ID, err)
		}
	}
	for _, teacher := range r.Teachers {
		if err := validate.Struct(teacher); err != nil {
			return fmt.Errorf("teacher %q: %w", teacher.ID, err)
		}
	}
	for _, group := range r.Groups.All() {
		if err := validate.Struct(group); err != nil {
			return fmt.Errorf("group %q: %w", group.ID, err)
		}
	}
	for _, course := range r.Courses {
		if err := validate.Struct(course); err != nil {
			return fmt.Errorf("course %q: %w", course.ID, err)
		}
		if course.Teacher == nil {
			return fmt.Errorf("course %q has no teacher", course.ID)
		}
		for _, id := range course.GroupIDs {
			if _, ok := r.Groups.ByID(id); !ok {
				return fmt.Errorf("course %q references unknown group %q", course.ID, id)
			}
		}
	}

	return nil
}
