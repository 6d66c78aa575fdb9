// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"testing"

	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/vspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line is 𝒈(𝐱) = x₀ - x₁ whose adjoint is scaled by sign. A negative sign makes 𝒈′𝒈′* = -2.
func line(sign float64) functions.VectorFunc[[]float64, []float64] {
	return functions.VectorFunc[[]float64, []float64]{
		EvalFunc: func(x, y []float64) { y[0] = x[0] - x[1] },
		PFunc:    func(_, dx, y []float64) { y[0] = dx[0] - dx[1] },
		PsFunc: func(_, dy, z []float64) {
			z[0], z[1] = sign*dy[0], -sign*dy[0]
		},
		ZeroFunc: vspace.Rm{}.Zero,
	}
}

func projectionEngine(t *testing.T, sign float64) *engine[[]float64, []float64, None] {
	rm := vspace.Rm{}
	st, err := NewEqualityConstrained[[]float64, []float64](rm, rm, []float64{1, 2}, []float64{0})
	require.NoError(t, err)
	return &engine[[]float64, []float64, None]{
		st:  st,
		fns: Functions[[]float64, []float64, None]{G: line(sign)},
		xs:  rm,
		ys:  rm,
	}
}

func TestProject(t *testing.T) {
	e := projectionEngine(t, 1)
	Pv := make([]float64, 2)
	require.True(t, e.project([]float64{3, 1}, Pv))
	assert.InDeltaSlice(t, []float64{2, 2}, Pv, 1e-14)

	e = projectionEngine(t, -1)
	if e.project([]float64{3, 1}, Pv) {
		t.Fatal("TestProject: projection succeeded with an indefinite 𝒈′𝒈′*")
	}

	// projected CG stops on the failed projection
	k := krylov[[]float64]{vs: e.xs, apply: e.xs.Copy, proj: e.project, eps: 1e-10, maxIter: 10}
	s := make([]float64, 2)
	_, stop := k.truncatedCG([]float64{3, 1}, 1, s)
	assert.True(t, k.failed)
	assert.Equal(t, KrylovNotRun, stop)
}
