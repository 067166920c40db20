package cp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSolve(t *testing.T) {
	ctx := context.Background()

	t.Run("exactly one picks a single candidate", func(t *testing.T) {
		// Arrange
		model := NewModel()
		vars := []Var{model.NewBool("a"), model.NewBool("b"), model.NewBool("c")}
		model.AddExactlyOne(vars)

		// Act
		outcome, err := Solve(ctx, model, Options{})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusSatisfied, outcome.Status)
		trueCount := 0
		for _, v := range vars {
			if outcome.Valuation[v] {
				trueCount++
			}
		}
		assert.Equal(t, 1, trueCount)
	})

	t.Run("forced literals are honored", func(t *testing.T) {
		// Arrange
		model := NewModel()
		a := model.NewBool("a")
		b := model.NewBool("b")
		model.AddClause(a.Lit(), b.Lit())
		model.ForceFalse(a)

		// Act
		outcome, err := Solve(ctx, model, Options{})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusSatisfied, outcome.Status)
		assert.False(t, outcome.Valuation[a])
		assert.True(t, outcome.Valuation[b])
	})

	t.Run("contradiction is unsatisfiable", func(t *testing.T) {
		// Arrange
		model := NewModel()
		a := model.NewBool("a")
		model.ForceTrue(a)
		model.ForceFalse(a)

		// Act
		outcome, err := Solve(ctx, model, Options{})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusUnsatisfiable, outcome.Status)
		assert.Nil(t, outcome.Valuation)
	})

	t.Run("the ladder encoding solves like pairwise", func(t *testing.T) {
		// Arrange: a group wide enough to trigger the ladder
		model := NewModel()
		vars := make([]Var, 12)
		for i := range vars {
			vars[i] = model.NewBool("v")
		}
		model.AddExactlyOne(vars)
		model.ForceTrue(vars[7])

		// Act
		outcome, err := Solve(ctx, model, Options{})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusSatisfied, outcome.Status)
		for i, v := range vars {
			assert.Equal(t, i == 7, outcome.Valuation[v])
		}
	})

	t.Run("parallel workers agree with the sequential verdict", func(t *testing.T) {
		// Arrange
		model := NewModel()
		vars := make([]Var, 16)
		for i := range vars {
			vars[i] = model.NewBool("v")
		}
		model.AddExactlyOne(vars)

		// Act
		outcome, err := Solve(ctx, model, Options{Workers: 4})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusSatisfied, outcome.Status)
		assert.Equal(t, 4, outcome.Stats.Workers)
	})

	t.Run("unsatisfiable under every partition", func(t *testing.T) {
		// Arrange
		model := NewModel()
		vars := make([]Var, 16)
		for i := range vars {
			vars[i] = model.NewBool("v")
			model.ForceFalse(vars[i])
		}
		model.AddExactlyOne(vars)

		// Act
		outcome, err := Solve(ctx, model, Options{Workers: 4})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusUnsatisfiable, outcome.Status)
	})

	t.Run("empty model is trivially satisfied", func(t *testing.T) {
		// Arrange
		model := NewModel()
		model.NewBool("a")

		// Act
		outcome, err := Solve(ctx, model, Options{})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusSatisfied, outcome.Status)
	})

	t.Run("invalid model is reported, not solved", func(t *testing.T) {
		// Arrange
		model := NewModel()
		model.AddClause()

		// Act
		outcome, err := Solve(ctx, model, Options{})

		// Assert
		assert.ErrorIs(t, err, ErrInvalidModel)
		assert.Equal(t, StatusInvalid, outcome.Status)
	})

	t.Run("clause ceiling rejects oversized models", func(t *testing.T) {
		// Arrange
		model := NewModel()
		a := model.NewBool("a")
		for i := 0; i < 10; i++ {
			model.ForceTrue(a)
		}

		// Act
		_, err := Solve(ctx, model, Options{MaxClauses: 5})

		// Assert
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("cancelled context interrupts without a verdict", func(t *testing.T) {
		// Arrange: an instance hard enough that the engine cannot win the
		// race against an already-cancelled context
		model := NewModel()
		pigeonhole(model, 13, 12)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		// Act
		begin := time.Now()
		outcome, err := Solve(cancelled, model, Options{})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusUnknown, outcome.Status)
		assert.True(t, outcome.Interrupted)
		assert.Less(t, time.Since(begin), 5*time.Second)
	})

	t.Run("an elapsed budget bounds the wall clock", func(t *testing.T) {
		// Arrange: thirteen pigeons in twelve holes takes the engine far
		// longer than the budget
		model := NewModel()
		pigeonhole(model, 13, 12)

		// Act
		begin := time.Now()
		outcome, err := Solve(ctx, model, Options{Budget: 200 * time.Millisecond})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusUnknown, outcome.Status)
		assert.True(t, outcome.Interrupted)
		assert.Nil(t, outcome.Valuation)
		assert.Less(t, time.Since(begin), 5*time.Second)
	})

	t.Run("solution callback fires", func(t *testing.T) {
		// Arrange
		model := NewModel()
		model.AddExactlyOne([]Var{model.NewBool("a"), model.NewBool("b")})

		calls := 0
		opts := Options{OnSolution: func(count int, _ time.Duration) { calls = count }}

		// Act
		outcome, err := Solve(ctx, model, opts)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusSatisfied, outcome.Status)
		assert.GreaterOrEqual(t, calls, 1)
		assert.Equal(t, calls, outcome.Stats.Solutions)
	})
}

// pigeonhole encodes the unsatisfiable pigeons > holes instance, a classic
// hard case for resolution-based engines.
func pigeonhole(m *Model, pigeons, holes int) {
	place := make([][]Var, pigeons)
	for i := range place {
		place[i] = make([]Var, holes)
		lits := make([]Lit, holes)
		for j := range place[i] {
			place[i][j] = m.NewBool(fmt.Sprintf("p%d_%d", i, j))
			lits[j] = place[i][j].Lit()
		}
		m.AddClause(lits...)
	}
	for j := 0; j < holes; j++ {
		for a := 0; a < pigeons-1; a++ {
			for b := a + 1; b < pigeons; b++ {
				m.AddClause(place[a][j].Not(), place[b][j].Not())
			}
		}
	}
}

func TestSplitParts(t *testing.T) {
	t.Run("narrow hints refuse to split", func(t *testing.T) {
		model := NewModel()
		model.AddExactlyOne([]Var{model.NewBool("a"), model.NewBool("b")})

		parts := model.splitParts(4)
		assert.Len(t, parts, 1)
		assert.Nil(t, parts[0])
	})

	t.Run("chunks cover every candidate exactly once", func(t *testing.T) {
		// Arrange
		model := NewModel()
		vars := make([]Var, 10)
		for i := range vars {
			vars[i] = model.NewBool("v")
		}
		model.AddExactlyOne(vars)

		// Act
		parts := model.splitParts(3)

		// Assert
		assert.Len(t, parts, 3)
		seen := map[Lit]int{}
		for _, part := range parts {
			for _, lit := range part {
				seen[lit]++
			}
		}
		assert.Len(t, seen, 10)
		for _, count := range seen {
			assert.Equal(t, 1, count)
		}
	})
}
