package csvio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ingemedia/timetable/internal/entity"
	"github.com/ingemedia/timetable/internal/schedule"
)

func TestWriteAssignment(t *testing.T) {
	// Arrange: two placements written out of chronological order
	assignment := schedule.Assignment{
		schedule.PlacementKey{Session: "S2", Week: 0, Day: 1}: {
			SessionID: "S2", CourseName: "Compilation", Kind: entity.Lecture,
			TeacherName: "Morel", GroupNames: []string{"M1 Info"},
			RoomName: "B102", Minutes: 120,
			Date:  time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
			Start: "10:00", End: "12:00",
		},
		schedule.PlacementKey{Session: "S1", Week: 0, Day: 0}: {
			SessionID: "S1", CourseName: "Algorithmique", Kind: entity.Lecture,
			TeacherName: "Durand", GroupNames: []string{"M1 Info", "M1 Réseaux"},
			RoomName: "Amphi Nord", Minutes: 90,
			Date:  time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Start: "08:00", End: "09:30",
		},
	}
	file := filepath.Join(t.TempDir(), "edt.csv")

	// Act
	err := WriteAssignment(file, assignment)

	// Assert
	assert.NoError(t, err)

	body, err := os.ReadFile(file)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, 3)

	assert.Equal(t, "date,start,end,course,kind,teacher,groups,room,minutes", lines[0])
	assert.Equal(t, "2026-01-05,08:00,09:30,Algorithmique,CM,Durand,M1 Info+M1 Réseaux,Amphi Nord,90", lines[1])
	assert.Equal(t, "2026-01-06,10:00,12:00,Compilation,CM,Morel,M1 Info,B102,120", lines[2])
}
