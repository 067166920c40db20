// Package cp holds the boolean constraint model the scheduler compiles to
// and the search engine that solves it. Constraints are clauses over boolean
// variables; cardinality and reified constraints are encoded down to clauses
// at add time, so the whole model is one CNF instance.
package cp

import (
	"fmt"
	"strconv"
	"strings"
)

// Var is a boolean decision variable handle, 1-based.
type Var int

// Lit is a positive or negated occurrence of a variable in a clause.
type Lit int

func (v Var) Lit() Lit { return Lit(v) }
func (v Var) Not() Lit { return -Lit(v) }

// Model is a CNF instance under construction. It is not safe for concurrent
// mutation and must be fully built before it is handed to Solve.
type Model struct {
	names   []string
	clauses [][]Lit

	// widest exactly-one group, used to split the search space over workers
	splitHint []Var
}

func NewModel() *Model {
	return &Model{}
}

// NewBool creates a fresh variable. The name only serves diagnostics.
func (m *Model) NewBool(name string) Var {
	m.names = append(m.names, name)
	return Var(len(m.names))
}

func (m *Model) NumVars() int    { return len(m.names) }
func (m *Model) NumClauses() int { return len(m.clauses) }

// Name returns the diagnostic name of a variable, or "" for an unknown one.
func (m *Model) Name(v Var) string {
	if v < 1 || int(v) > len(m.names) {
		return ""
	}
	return m.names[v-1]
}

func (m *Model) AddClause(lits ...Lit) {
	clause := make([]Lit, len(lits))
	copy(clause, lits)
	m.clauses = append(m.clauses, clause)
}

func (m *Model) ForceTrue(v Var)  { m.AddClause(v.Lit()) }
func (m *Model) ForceFalse(v Var) { m.AddClause(v.Not()) }

// AddImplication encodes antecedent => consequent.
func (m *Model) AddImplication(antecedent Var, consequent Lit) {
	m.AddClause(antecedent.Not(), consequent)
}

const pairwiseLimit = 6

// AddAtMostOne constrains the variables so at most one is true. Small groups
// use pairwise exclusion like the teacher clauses everywhere; larger groups
// use the sequential ladder encoding to stay linear in group size.
func (m *Model) AddAtMostOne(vars []Var) {
	n := len(vars)
	if n <= 1 {
		return
	}

	if n <= pairwiseLimit {
		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				m.AddClause(vars[i].Not(), vars[j].Not())
			}
		}
		return
	}

	ladder := make([]Var, n-1)
	for i := range ladder {
		ladder[i] = m.NewBool(fmt.Sprintf("amo%d_%d", len(m.names), i))
	}

	m.AddClause(vars[0].Not(), ladder[0].Lit())
	for i := 1; i < n-1; i++ {
		m.AddClause(vars[i].Not(), ladder[i].Lit())
		m.AddClause(ladder[i-1].Not(), ladder[i].Lit())
		m.AddClause(vars[i].Not(), ladder[i-1].Not())
	}
	m.AddClause(vars[n-1].Not(), ladder[n-2].Not())
}

// AddExactlyOne constrains the variables so exactly one is true.
func (m *Model) AddExactlyOne(vars []Var) {
	lits := make([]Lit, len(vars))
	for i, v := range vars {
		lits[i] = v.Lit()
	}
	m.AddClause(lits...)
	m.AddAtMostOne(vars)

	if len(vars) > len(m.splitHint) {
		m.splitHint = vars
	}
}

// AddBoolOrEq encodes target <=> OR(vars). An empty vars list pins target
// false, which is how a constant-false indicator is expressed.
func (m *Model) AddBoolOrEq(target Var, vars []Var) {
	if len(vars) == 0 {
		m.ForceFalse(target)
		return
	}

	lits := make([]Lit, 0, len(vars)+1)
	lits = append(lits, target.Not())
	for _, v := range vars {
		lits = append(lits, v.Lit())
		m.AddClause(v.Not(), target.Lit())
	}
	m.AddClause(lits...)
}

// AddBoolAndEq encodes target <=> AND(lits).
func (m *Model) AddBoolAndEq(target Var, lits []Lit) {
	reverse := make([]Lit, 0, len(lits)+1)
	reverse = append(reverse, target.Lit())
	for _, lit := range lits {
		m.AddClause(target.Not(), lit)
		reverse = append(reverse, -lit)
	}
	m.AddClause(reverse...)
}

// Validate reports a malformed model: an empty clause or a literal that
// references no created variable.
func (m *Model) Validate() error {
	for i, clause := range m.clauses {
		if len(clause) == 0 {
			return fmt.Errorf("%w: clause %d is empty", ErrInvalidModel, i)
		}
		for _, lit := range clause {
			v := lit
			if v < 0 {
				v = -v
			}
			if v == 0 || int(v) > len(m.names) {
				return fmt.Errorf("%w: clause %d references unknown variable %d", ErrInvalidModel, i, lit)
			}
		}
	}
	return nil
}

// ToDIMACS renders the model in DIMACS-CNF, for dumping an instance that a
// standalone solver can replay.
func (m *Model) ToDIMACS() string {
	var out strings.Builder
	fmt.Fprintf(&out, "p cnf %d %d\n", len(m.names), len(m.clauses))
	for _, clause := range m.clauses {
		tokens := make([]string, 0, len(clause)+1)
		for _, literal := range clause {
			tokens = append(tokens, strconv.Itoa(int(literal)))
		}
		tokens = append(tokens, "0")
		out.WriteString(strings.Join(tokens, " "))
		out.WriteByte('\n')
	}
	return out.String()
}
