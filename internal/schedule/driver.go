package schedule

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/ingemedia/timetable/internal/cp"
)

// State tracks the driver through its lifecycle.
type State int

const (
	StateBuilt State = iota
	StateSolving
	StateDone
)

// Status classifies the terminal outcome of one planning run.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// SolveConfig bounds one solve attempt.
type SolveConfig struct {
	Budget     time.Duration
	Workers    int
	MaxClauses int
}

// DefaultBudget bounds a run at two hours, like a full planning campaign.
const DefaultBudget = 7200 * time.Second

const maxWorkers = 16

// DefaultWorkers leaves one core to the rest of the system and never exceeds
// the worker cap.
func DefaultWorkers() int {
	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}
	return min(workers, maxWorkers)
}

// Result is the terminal report of one run. Assignment is nil unless the
// status is OPTIMAL or FEASIBLE.
type Result struct {
	RunID      string
	Status     Status
	Assignment Assignment
	Stats      cp.Stats
}

// Driver owns one solve attempt over an immutable problem. One invocation,
// one attempt: infeasibility and timeout are terminal outcomes reported to
// the caller, never silently repaired.
type Driver struct {
	problem *Problem
	config  SolveConfig
	obs     Observer
	state   State
}

func NewDriver(problem *Problem, config SolveConfig, obs Observer) *Driver {
	if config.Budget == 0 {
		config.Budget = DefaultBudget
	}
	if config.Workers == 0 {
		config.Workers = DefaultWorkers()
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &Driver{
		problem: problem,
		config:  config,
		obs:     obs,
		state:   StateBuilt,
	}
}

func (d *Driver) State() State {
	return d.state
}

// Solve runs the search once and classifies the outcome. Cancellation is
// cooperative through ctx; a solution found before cancellation is still
// reported FEASIBLE.
func (d *Driver) Solve(ctx context.Context) (*Result, error) {
	if d.state != StateBuilt {
		return nil, fmt.Errorf("%w: driver already ran", ErrInternal)
	}

	runID := uuid.NewString()
	d.state = StateSolving
	d.obs.SolveStarted(runID, d.config.Workers, d.config.Budget)

	outcome, err := cp.Solve(ctx, d.problem.Model, cp.Options{
		Budget:     d.config.Budget,
		Workers:    d.config.Workers,
		MaxClauses: d.config.MaxClauses,
		OnSolution: d.obs.SolutionFound,
	})
	d.state = StateDone

	result := &Result{RunID: runID, Stats: outcome.Stats}

	if err != nil {
		switch {
		case errors.Is(err, cp.ErrInvalidModel):
			result.Status = StatusInvalid
			d.obs.SolveFinished(runID, result.Status, outcome.Stats)
			return result, fmt.Errorf("%w: %v", ErrConfig, err)
		case errors.Is(err, cp.ErrTooLarge):
			return nil, fmt.Errorf("%w: %v", ErrResource, err)
		default:
			return nil, err
		}
	}

	switch outcome.Status {
	case cp.StatusSatisfied:
		if outcome.Interrupted {
			result.Status = StatusFeasible
		} else {
			result.Status = StatusOptimal
		}
		assignment, err := extract(d.problem, outcome.Valuation)
		if err != nil {
			return nil, err
		}
		result.Assignment = assignment
	case cp.StatusUnsatisfiable:
		// reported with diagnostics, never relaxed here
		result.Status = StatusInfeasible
	default:
		result.Status = StatusUnknown
	}

	d.obs.SolveFinished(runID, result.Status, outcome.Stats)
	return result, nil
}
