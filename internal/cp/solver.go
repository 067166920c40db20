package cp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/crillab/gophersat/solver"
)

var (
	// ErrInvalidModel marks a malformed model, a fatal configuration error.
	ErrInvalidModel = errors.New("invalid model")
	// ErrTooLarge marks a model above the configured clause ceiling; the
	// variable space or constraint count must be reduced.
	ErrTooLarge = errors.New("model exceeds clause ceiling")
)

// Status classifies the terminal outcome of one solve attempt.
type Status int

const (
	StatusUnknown Status = iota
	StatusSatisfied
	StatusUnsatisfiable
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusSatisfied:
		return "SATISFIED"
	case StatusUnsatisfiable:
		return "UNSATISFIABLE"
	case StatusInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Stats is the diagnostic summary of one solve attempt.
type Stats struct {
	Variables int
	Clauses   int
	Workers   int
	Solutions int
	Elapsed   time.Duration
}

// Options configures one solve attempt. OnSolution, when set, runs on a
// solver-owned goroutine once per model found; it must only do side-effect
// free bookkeeping.
type Options struct {
	Budget     time.Duration
	Workers    int
	MaxClauses int
	OnSolution func(count int, elapsed time.Duration)
}

// Outcome is the result of one solve attempt. Valuation is indexed by Var
// and only meaningful under StatusSatisfied. Interrupted reports that the
// budget or the context cut the search short.
type Outcome struct {
	Status      Status
	Interrupted bool
	Valuation   []bool
	Stats       Stats
}

// Solve runs one search over the model. The model must be fully built and is
// never mutated. Workers above one partition the widest exactly-one group
// into disjoint sub-problems searched in parallel: the first satisfied part
// wins, all parts unsatisfiable proves unsatisfiability, and an elapsed
// budget or cancelled context yields an inconclusive outcome.
//
// The engine cannot be interrupted mid-search, so an expired budget or a
// cancelled context makes Solve return immediately and abandon the worker
// goroutines; they drain into a buffered channel and exit on their own. A
// model already reported by an abandoned worker still counts as satisfied.
func Solve(ctx context.Context, m *Model, opts Options) (Outcome, error) {
	if err := m.Validate(); err != nil {
		return Outcome{Status: StatusInvalid}, err
	}
	if opts.MaxClauses > 0 && m.NumClauses() > opts.MaxClauses {
		return Outcome{}, fmt.Errorf("%w: %d clauses, ceiling %d", ErrTooLarge, m.NumClauses(), opts.MaxClauses)
	}

	start := time.Now()
	parts := m.splitParts(opts.Workers)

	outcome := Outcome{Stats: Stats{
		Variables: m.NumVars(),
		Clauses:   m.NumClauses(),
		Workers:   len(parts),
	}}

	if m.NumClauses() == 0 {
		outcome.Status = StatusSatisfied
		outcome.Valuation = make([]bool, m.NumVars()+1)
		return outcome, nil
	}

	stop := make(chan struct{})
	var once sync.Once
	halt := func() { once.Do(func() { close(stop) }) }
	defer halt()

	var mu sync.Mutex
	solutions := 0
	var latest []bool
	notify := func(model []bool) {
		// abandoned workers report nothing
		select {
		case <-stop:
			return
		default:
		}
		mu.Lock()
		solutions++
		count := solutions
		latest = append([]bool(nil), model...)
		mu.Unlock()
		if opts.OnSolution != nil {
			opts.OnSolution(count, time.Since(start))
		}
	}

	// buffered so abandoned workers never block on delivery
	replies := make(chan solver.Result, len(parts))
	for _, extra := range parts {
		go func(extra []Lit) {
			replies <- runWorker(m, extra, stop, notify)
		}(extra)
	}

	var timeout <-chan time.Time
	if opts.Budget > 0 {
		timer := time.NewTimer(opts.Budget)
		defer timer.Stop()
		timeout = timer.C
	}

	unsat := 0
loop:
	for pending := len(parts); pending > 0; {
		select {
		case <-ctx.Done():
			outcome.Interrupted = true
			halt()
			break loop
		case <-timeout:
			outcome.Interrupted = true
			halt()
			break loop
		case result := <-replies:
			pending--
			switch result.Status {
			case solver.Sat:
				outcome.Valuation = valuationOf(result.Model)
				halt()
				break loop
			case solver.Unsat:
				unsat++
			}
		}
	}

	outcome.Stats.Elapsed = time.Since(start)
	mu.Lock()
	outcome.Stats.Solutions = solutions
	if outcome.Valuation == nil && latest != nil {
		outcome.Valuation = valuationOf(latest)
	}
	mu.Unlock()

	switch {
	case outcome.Valuation != nil:
		outcome.Status = StatusSatisfied
	case unsat == len(parts):
		outcome.Status = StatusUnsatisfiable
	default:
		outcome.Status = StatusUnknown
	}
	return outcome, nil
}

// runWorker solves one part of the split search space. Progress models
// reported by the engine are forwarded before the terminal result is
// returned.
func runWorker(m *Model, extra []Lit, stop chan struct{}, notify func(model []bool)) solver.Result {
	clauses := make([][]int, 0, len(m.clauses)+1)
	for _, clause := range m.clauses {
		ints := make([]int, len(clause))
		for i, lit := range clause {
			ints[i] = int(lit)
		}
		clauses = append(clauses, ints)
	}
	if len(extra) > 0 {
		ints := make([]int, len(extra))
		for i, lit := range extra {
			ints[i] = int(lit)
		}
		clauses = append(clauses, ints)
	}

	pb := solver.ParseSlice(clauses)

	found := make(chan solver.Result)
	forwarded := make(chan struct{})
	go func() {
		for result := range found {
			if result.Status == solver.Sat {
				notify(result.Model)
			}
		}
		close(forwarded)
	}()

	s := solver.New(pb)
	result := s.Optimal(found, stop)
	<-forwarded
	return result
}

// splitParts yields one extra clause per worker restricting the widest
// exactly-one group to a disjoint chunk of its candidates. Since exactly one
// candidate must hold, the chunks cover the whole search space.
func (m *Model) splitParts(workers int) [][]Lit {
	if workers < 1 {
		workers = 1
	}
	if workers == 1 || len(m.splitHint) < 2*workers {
		return [][]Lit{nil}
	}

	parts := make([][]Lit, 0, workers)
	size := (len(m.splitHint) + workers - 1) / workers
	for begin := 0; begin < len(m.splitHint); begin += size {
		end := min(begin+size, len(m.splitHint))
		chunk := make([]Lit, 0, end-begin)
		for _, v := range m.splitHint[begin:end] {
			chunk = append(chunk, v.Lit())
		}
		parts = append(parts, chunk)
	}
	return parts
}

// valuationOf shifts the engine model, indexed from zero, onto the 1-based
// Var space.
func valuationOf(model []bool) []bool {
	valuation := make([]bool, len(model)+1)
	for i, value := range model {
		valuation[i+1] = value
	}
	return valuation
}
