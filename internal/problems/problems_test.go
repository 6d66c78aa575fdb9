// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problems

import (
	"math"
	"testing"

	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	var names []string
	for _, ex := range All() {
		names = append(names, ex.Name)
		assert.NotEmpty(t, ex.Description)
	}
	assert.Equal(t, []string{"diagnostic_checks", "disk", "equality", "mixed", "orthant", "quadratic", "sdp"}, names)

	_, ok := Lookup("sdp")
	assert.True(t, ok)
	_, ok = Lookup("simplex")
	assert.False(t, ok)
}

func TestExamples(t *testing.T) {
	cases := []struct {
		name string
		x    []float64
		tol  float64
	}{
		{"quadratic", []float64{0, 0, 0, 0, 0}, 1e-12},
		{"equality", []float64{0.8, 0.4}, 1e-8},
		{"sdp", []float64{0.5, 0.25}, 1e-4},
		{"orthant", []float64{2, 0}, 1e-4},
		{"disk", []float64{2 / math.Sqrt(5), 1 / math.Sqrt(5)}, 1e-4},
		{"mixed", []float64{0.3, 0.7}, 1e-4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ex, ok := Lookup(c.name)
			require.True(t, ok)
			p := solver.DefaultParams()
			p.MaxIter = 500
			r, err := ex.Run(messaging.Discard, p)
			require.NoError(t, err)
			if r.Stop != solver.Converged && r.Stop != solver.StepSmall {
				t.Fatalf("TestExamples: %s stopped with %v", c.name, r.Stop)
			}
			assert.InDeltaSlice(t, c.x, r.X, c.tol)
		})
	}
}

func TestDiagnosticExample(t *testing.T) {
	ex, ok := Lookup("diagnostic_checks")
	require.True(t, ok)
	var lines messaging.Lines
	r, err := ex.Run(&lines, solver.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, solver.DiagnosticsOnly, r.Stop)
	assert.Zero(t, r.Iter)
	assert.Empty(t, lines.Errors)
}

func TestUtilityAtSolution(t *testing.T) {
	y := make([]float64, 3)
	Utility.Eval([]float64{1, 0}, y)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, y, 1e-15)
	assert.Zero(t, Rosenbrock.Eval([]float64{1, 1}))
}
