package cp

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// PosDef ties one placement variable to the absolute timeline value it would
// give its owner.
type PosDef struct {
	Var   Var
	Value int
}

// Position is a virtual integer variable channelled onto a set of boolean
// placement variables: its value is the Value of whichever definition is
// true. The owner must guarantee exactly one definition holds.
type Position struct {
	Name string
	Defs []PosDef
}

// AddLess constrains a's position to be strictly below b's. The encoding
// builds a monotone "b is at or after value" ladder over b's distinct values
// and implies the right rung from each of a's definitions, so the clause
// count stays linear in the number of definitions.
func (m *Model) AddLess(a, b Position) {
	if len(a.Defs) == 0 || len(b.Defs) == 0 {
		return
	}

	values := lo.Uniq(lo.Map(b.Defs, func(def PosDef, _ int) int { return def.Value }))
	slices.Sort(values)

	atLeast := make([]Var, len(values))
	for k, value := range values {
		atLeast[k] = m.NewBool(fmt.Sprintf("%s_geq_%d", b.Name, value))
	}
	for k := 1; k < len(atLeast); k++ {
		m.AddImplication(atLeast[k], atLeast[k-1].Lit())
	}

	//** Channel b's placements into the ladder
	for _, def := range b.Defs {
		k, _ := slices.BinarySearch(values, def.Value)
		m.AddImplication(def.Var, atLeast[k].Lit())
		if k+1 < len(atLeast) {
			m.AddImplication(def.Var, atLeast[k+1].Not())
		}
	}

	//** Each placement of a forces b beyond it
	for _, def := range a.Defs {
		k, found := slices.BinarySearch(values, def.Value)
		if found {
			k++
		}
		if k == len(values) {
			// no placement of b lies beyond this one
			m.ForceFalse(def.Var)
			continue
		}
		m.AddImplication(def.Var, atLeast[k].Lit())
	}
}
