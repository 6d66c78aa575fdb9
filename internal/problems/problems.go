// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package problems holds small problems with known solutions. They exercise
// every kind of constraint handled by the solver and back the coneopt command.
package problems

import (
	"slices"
	"sort"

	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/solver"
	"github.com/curioloop/coneopt/vspace"
)

// Result is the outcome of running an example.
type Result struct {
	Stop  solver.StopReason
	Phase solver.Phase
	Iter  int
	F     float64
	X     []float64
	Y     []float64 // equality multiplier, nil without equality constraints
	Z     []float64 // cone multiplier, nil without cone constraints
}

// Example is a named problem.
type Example struct {
	Name        string
	Description string
	// Run solves the problem from its initial guess with the given parameters.
	Run func(msg messaging.Messaging, p solver.Params, opts ...solver.Option) (Result, error)
}

var examples = map[string]Example{}

func register(ex Example) {
	examples[ex.Name] = ex
}

// All returns the examples sorted by name.
func All() []Example {
	all := make([]Example, 0, len(examples))
	for _, ex := range examples {
		all = append(all, ex)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all
}

// Lookup returns the example with the given name.
func Lookup(name string) (Example, bool) {
	ex, ok := examples[name]
	return ex, ok
}

// rm is the variable space of every example.
var rm = vspace.Rm{}

func solve[Y, Z any](msg messaging.Messaging, fns solver.Functions[[]float64, Y, Z], st *solver.State[[]float64, Y, Z], p solver.Params, opts []solver.Option) (Result, error) {
	st.Params = p
	err := solver.GetMin(msg, fns, st, opts...)
	return Result{
		Stop:  st.Stop,
		Phase: st.Phase,
		Iter:  st.Iter,
		F:     st.F,
		X:     slices.Clone(st.Current()),
	}, err
}

func zero(z []float64) {
	rm.Zero(z)
}
