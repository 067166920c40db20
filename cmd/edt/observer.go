package main

import (
	"time"

	"github.com/golang/glog"

	"github.com/ingemedia/timetable/internal/cp"
	"github.com/ingemedia/timetable/internal/schedule"
)

// logObserver narrates build and solve progress through glog.
type logObserver struct{}

func (logObserver) BuildStarted(sessions, weeks int) {
	glog.Infof("building model: %d sessions over %d weeks", sessions, weeks)
}

func (logObserver) VariablesCreated(count int) {
	glog.Infof("placement space: %d variables", count)
}

func (logObserver) ConstraintsAdded(family string, count int) {
	glog.V(1).Infof("constraints %s: %d", family, count)
}

func (logObserver) SolveStarted(runID string, workers int, budget time.Duration) {
	glog.Infof("solve %s: %d workers, budget %s", runID, workers, budget)
}

func (logObserver) SolutionFound(count int, elapsed time.Duration) {
	glog.Infof("solution %d after %s", count, elapsed.Round(time.Millisecond))
}

func (logObserver) SolveFinished(runID string, status schedule.Status, stats cp.Stats) {
	glog.Infof("solve %s finished: %s (%d vars, %d clauses, %s)",
		runID, status, stats.Variables, stats.Clauses, stats.Elapsed.Round(time.Millisecond))
}
