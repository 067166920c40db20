package timegrid

import (
	"fmt"

	"github.com/ingemedia/timetable/internal/entity"
)

// Grid fixes the slot geometry shared by every week of the horizon: half-hour
// slots from StartHour, NoonSlot marking the morning/afternoon boundary.
type Grid struct {
	Days        int
	SlotsPerDay int
	StartHour   int
	NoonSlot    int
}

// DefaultGrid is the 08:00-20:00 teaching day: 24 half-hour slots, five
// weekdays, afternoon starting at slot 16 minus 8 (12:00).
func DefaultGrid() Grid {
	return Grid{
		Days:        5,
		SlotsPerDay: 24,
		StartHour:   8,
		NoonSlot:    8,
	}
}

// SlotsFor converts a duration in minutes into occupied slots, never zero.
func (g Grid) SlotsFor(minutes int) int {
	slots := minutes / 30
	if slots == 0 {
		slots = 1
	}
	return slots
}

// Clock renders a slot boundary as wall-clock "HH:MM".
func (g Grid) Clock(slot int) string {
	hour := g.StartHour + slot/2
	minute := 0
	if slot%2 == 1 {
		minute = 30
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ClockAfter renders the wall clock reached a number of minutes after a slot
// boundary, for session ends that need not land on a slot boundary.
func (g Grid) ClockAfter(slot, minutes int) string {
	total := g.StartHour*60 + slot*30 + minutes
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// PeriodOf places a single slot in its half-day.
func (g Grid) PeriodOf(slot int) entity.Period {
	if slot < g.NoonSlot {
		return entity.Morning
	}
	return entity.Afternoon
}

// PeriodsCovered lists the half-days touched by the window
// [start, start+slots). A window crossing the noon boundary covers both.
func (g Grid) PeriodsCovered(start, slots int) []entity.Period {
	periods := []entity.Period{g.PeriodOf(start)}
	last := g.PeriodOf(start + slots - 1)
	if last != periods[0] {
		periods = append(periods, last)
	}
	return periods
}

// Position maps a (week, day, slot) coordinate onto the absolute timeline
// used by the ordering constraints.
func (g Grid) Position(week, day, slot int) int {
	return week*g.Days*g.SlotsPerDay + day*g.SlotsPerDay + slot
}
