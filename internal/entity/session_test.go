package entity

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func makeGroups(t *testing.T, groups []*Group) *GroupSet {
	t.Helper()
	set, err := NewGroupSet(groups)
	assert.NoError(t, err)
	return set
}

func TestSplitCourses(t *testing.T) {
	teacher := &Teacher{ID: "T1", Name: "Durand"}

	t.Run("lecture splits into full sessions plus remainder", func(t *testing.T) {
		// Arrange
		groups := makeGroups(t, []*Group{
			{ID: "G1", Name: "L3 Info A", Headcount: 28},
			{ID: "G2", Name: "L3 Info B", Headcount: 25},
		})
		course := &Course{
			ID:             "C1",
			Name:           "Algorithmique",
			Teacher:        teacher,
			GroupIDs:       []string{"G1", "G2"},
			TotalMinutes:   1050, // 17.5h
			MaxSessionMins: 150,  // 2.5h
			Kind:           Lecture,
		}

		// Act
		sessions, err := SplitCourses([]*Course{course}, groups)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, sessions, 7)
		for i, session := range sessions {
			assert.Equal(t, 150, session.Minutes)
			assert.Equal(t, i+1, session.Seq)
			assert.Len(t, session.Groups, 2)
			assert.Equal(t, 53, session.Headcount())
			assert.Equal(t, 5, session.Slots())
		}
	})

	t.Run("remainder yields one trailing shorter session", func(t *testing.T) {
		// Arrange
		groups := makeGroups(t, []*Group{{ID: "G1", Name: "M1", Headcount: 30}})
		course := &Course{
			ID:             "C2",
			Name:           "Compilation",
			Teacher:        teacher,
			GroupIDs:       []string{"G1"},
			TotalMinutes:   400,
			MaxSessionMins: 180,
			Kind:           Lecture,
		}

		// Act
		sessions, err := SplitCourses([]*Course{course}, groups)

		// Assert
		assert.NoError(t, err)
		durations := lo.Map(sessions, func(s *Session, _ int) int { return s.Minutes })
		assert.Equal(t, []int{180, 180, 40}, durations)
	})

	t.Run("tutorial on a parent decomposes per child group", func(t *testing.T) {
		// Arrange
		groups := makeGroups(t, []*Group{
			{ID: "P", Name: "L2 Info"},
			{ID: "A", Name: "L2 Info TD1", Headcount: 24, ParentID: "P"},
			{ID: "B", Name: "L2 Info TD2", Headcount: 22, ParentID: "P"},
		})
		course := &Course{
			ID:             "C3",
			Name:           "Réseaux TD",
			Teacher:        teacher,
			GroupIDs:       []string{"P"},
			TotalMinutes:   240,
			MaxSessionMins: 120,
			Kind:           Tutorial,
		}

		// Act
		sessions, err := SplitCourses([]*Course{course}, groups)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, sessions, 4) // 2 sessions x 2 children
		perTrack := lo.GroupBy(sessions, func(s *Session) string { return s.Groups[0].ID })
		assert.Len(t, perTrack["A"], 2)
		assert.Len(t, perTrack["B"], 2)
		for _, session := range sessions {
			assert.Len(t, session.Groups, 1)
			assert.Equal(t, Tutorial, session.Kind)
		}
	})

	t.Run("tutorial on a leaf group keeps the group itself", func(t *testing.T) {
		// Arrange
		groups := makeGroups(t, []*Group{{ID: "G1", Name: "M2", Headcount: 15}})
		course := &Course{
			ID:             "C4",
			Name:           "Projet TD",
			Teacher:        teacher,
			GroupIDs:       []string{"G1"},
			TotalMinutes:   90,
			MaxSessionMins: 120,
			Kind:           Tutorial,
		}

		// Act
		sessions, err := SplitCourses([]*Course{course}, groups)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, sessions, 1)
		assert.Equal(t, "G1", sessions[0].Groups[0].ID)
		assert.Equal(t, 90, sessions[0].Minutes)
		assert.Equal(t, 3, sessions[0].Slots())
	})

	t.Run("splitting is deterministic", func(t *testing.T) {
		// Arrange
		groups := makeGroups(t, []*Group{{ID: "G1", Name: "M1", Headcount: 30}})
		course := &Course{
			ID:             "C5",
			Name:           "Base de données",
			Teacher:        teacher,
			GroupIDs:       []string{"G1"},
			TotalMinutes:   600,
			MaxSessionMins: 150,
			Kind:           Lecture,
		}

		// Act
		first, err1 := SplitCourses([]*Course{course}, groups)
		second, err2 := SplitCourses([]*Course{course}, groups)

		// Assert
		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
			assert.Equal(t, first[i].Minutes, second[i].Minutes)
		}
	})

	t.Run("unknown group is rejected", func(t *testing.T) {
		// Arrange
		groups := makeGroups(t, []*Group{{ID: "G1", Name: "M1", Headcount: 30}})
		course := &Course{
			ID:             "C6",
			Name:           "Anglais",
			Teacher:        teacher,
			GroupIDs:       []string{"missing"},
			TotalMinutes:   60,
			MaxSessionMins: 60,
			Kind:           Lecture,
		}

		// Act
		_, err := SplitCourses([]*Course{course}, groups)

		// Assert
		assert.ErrorContains(t, err, "unknown group")
	})
}

func TestSplitDurations(t *testing.T) {
	assert.Equal(t, []int{90}, splitDurations(90, 120))
	assert.Equal(t, []int{120, 120}, splitDurations(240, 120))
	assert.Equal(t, []int{120, 120, 60}, splitDurations(300, 120))
	assert.Equal(t, []int{150}, splitDurations(150, 150))
}
