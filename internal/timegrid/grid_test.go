package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ingemedia/timetable/internal/entity"
)

func TestGridClock(t *testing.T) {
	grid := DefaultGrid()

	assert.Equal(t, "08:00", grid.Clock(0))
	assert.Equal(t, "08:30", grid.Clock(1))
	assert.Equal(t, "12:00", grid.Clock(8))
	assert.Equal(t, "19:30", grid.Clock(23))

	assert.Equal(t, "10:30", grid.ClockAfter(0, 150))
	assert.Equal(t, "12:40", grid.ClockAfter(8, 40))
}

func TestGridSlots(t *testing.T) {
	grid := DefaultGrid()

	assert.Equal(t, 5, grid.SlotsFor(150))
	assert.Equal(t, 1, grid.SlotsFor(20)) // never zero
	assert.Equal(t, 4, grid.SlotsFor(120))
}

func TestGridPeriods(t *testing.T) {
	grid := DefaultGrid()

	assert.Equal(t, entity.Morning, grid.PeriodOf(0))
	assert.Equal(t, entity.Morning, grid.PeriodOf(7))
	assert.Equal(t, entity.Afternoon, grid.PeriodOf(8))

	assert.Equal(t, []entity.Period{entity.Morning}, grid.PeriodsCovered(0, 4))
	assert.Equal(t, []entity.Period{entity.Afternoon}, grid.PeriodsCovered(10, 4))
	// 06:00-window crossing noon covers both half-days
	assert.Equal(t, []entity.Period{entity.Morning, entity.Afternoon}, grid.PeriodsCovered(6, 4))
}

func TestGridPosition(t *testing.T) {
	grid := DefaultGrid()

	assert.Equal(t, 0, grid.Position(0, 0, 0))
	assert.Equal(t, 24, grid.Position(0, 1, 0))
	assert.Equal(t, 120, grid.Position(1, 0, 0))
	assert.Less(t, grid.Position(0, 4, 23), grid.Position(1, 0, 0))
}
