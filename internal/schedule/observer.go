package schedule

import (
	"time"

	"github.com/ingemedia/timetable/internal/cp"
)

// Observer receives build and solve lifecycle events. It is passed explicitly
// into the builder and the driver; implementations must be side-effect free
// with respect to the model. SolutionFound is invoked from a solver-owned
// goroutine.
type Observer interface {
	BuildStarted(sessions, weeks int)
	VariablesCreated(count int)
	ConstraintsAdded(family string, count int)
	SolveStarted(runID string, workers int, budget time.Duration)
	SolutionFound(count int, elapsed time.Duration)
	SolveFinished(runID string, status Status, stats cp.Stats)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) BuildStarted(int, int)                       {}
func (NopObserver) VariablesCreated(int)                        {}
func (NopObserver) ConstraintsAdded(string, int)                {}
func (NopObserver) SolveStarted(string, int, time.Duration)     {}
func (NopObserver) SolutionFound(int, time.Duration)            {}
func (NopObserver) SolveFinished(string, Status, cp.Stats)      {}
