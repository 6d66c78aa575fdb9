// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"
	"testing"

	"github.com/curioloop/coneopt/vspace"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func diag(d ...float64) func(p, Ap []float64) {
	return func(p, Ap []float64) {
		floats.MulTo(Ap, d, p)
	}
}

func TestKrylovSolve(t *testing.T) {
	k := krylov[[]float64]{vs: vspace.Rm{}, apply: diag(1, 2, 4), eps: 1e-12, maxIter: 10}
	s := make([]float64, 3)
	iter, ok := k.solve([]float64{1, 1, 1}, s)
	switch {
	case !ok:
		t.Fatal("TestKrylovSolve: not solved")
	case iter > 3:
		t.Fatal("TestKrylovSolve: too many iterations")
	}
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25}, s, 1e-12)

	// zero right hand side
	iter, ok = k.solve([]float64{0, 0, 0}, s)
	assert.True(t, ok)
	assert.Zero(t, iter)
	assert.Equal(t, []float64{0, 0, 0}, s)
}

func TestKrylovTrustRegion(t *testing.T) {
	k := krylov[[]float64]{vs: vspace.Rm{}, apply: diag(1, 2, 4), eps: 1e-12, maxIter: 10}
	s := make([]float64, 3)
	_, stop := k.truncatedCG([]float64{1, 1, 1}, 0.5, s)
	assert.Equal(t, TrustRegionViolated, stop)
	assert.InDelta(t, 0.5, floats.Norm(s, 2), 1e-12)

	// the truncated step still decreases the model
	As := make([]float64, 3)
	k.apply(s, As)
	assert.Less(t, -floats.Sum(s)+0.5*floats.Dot(s, As), 0.0)
}

func TestKrylovNegativeCurvature(t *testing.T) {
	k := krylov[[]float64]{vs: vspace.Rm{}, apply: diag(1, -1), eps: 1e-12, maxIter: 10}
	s := make([]float64, 2)
	iter, stop := k.truncatedCG([]float64{1, 1}, 2, s)
	switch {
	case stop != NegativeCurvature:
		t.Fatalf("TestKrylovNegativeCurvature: stop %v", stop)
	case iter != 1:
		t.Fatal("TestKrylovNegativeCurvature: curvature detected late")
	}
	assert.InDeltaSlice(t, []float64{math.Sqrt2, math.Sqrt2}, s, 1e-12)

	_, ok := k.solve([]float64{1, 1}, s)
	assert.False(t, ok)
}

func TestKrylovProjected(t *testing.T) {
	// projection onto the null space of a = (1,1,0)
	proj := func(r, Pr []float64) bool {
		c := (r[0] + r[1]) / 2
		Pr[0], Pr[1], Pr[2] = r[0]-c, r[1]-c, r[2]
		return true
	}
	k := krylov[[]float64]{vs: vspace.Rm{}, apply: diag(1, 1, 1), proj: proj, eps: 1e-12, maxIter: 10}
	s := make([]float64, 3)
	_, stop := k.truncatedCG([]float64{1, 0, 2}, math.Inf(1), s)
	assert.Equal(t, RelativeErrorSmall, stop)
	assert.InDeltaSlice(t, []float64{0.5, -0.5, 2}, s, 1e-12)
}

func TestKrylovProjectedNoise(t *testing.T) {
	// projection onto the null space of a = (1,1,0) leaving a rounding error along a
	proj := func(r, Pr []float64) bool {
		c := (r[0] + r[1]) / 2
		Pr[0], Pr[1], Pr[2] = r[0]-c+1e-17, r[1]-c+1e-17, r[2]
		return true
	}
	k := krylov[[]float64]{vs: vspace.Rm{}, apply: diag(1e-8, 1e-8, 1), proj: proj, eps: 1e-10, maxIter: 10}
	s := []float64{3, 3, 3}
	iter, stop := k.truncatedCG([]float64{1, 1, 0}, 1, s)
	switch {
	case stop != RelativeErrorSmall:
		t.Fatalf("TestKrylovProjectedNoise: stop %v", stop)
	case iter != 0:
		t.Fatal("TestKrylovProjectedNoise: iterated on a projected rounding error")
	}
	assert.Equal(t, []float64{0, 0, 0}, s)

	// the step along the null space carries no component along a
	_, stop = k.truncatedCG([]float64{1, 1, 1e-3}, 1, s)
	assert.Equal(t, RelativeErrorSmall, stop)
	assert.InDelta(t, 0, s[0]+s[1], 1e-15)
	assert.InDelta(t, 1e-3, s[2], 1e-12)
}

func TestKrylovProjectionFailure(t *testing.T) {
	calls := 0
	proj := func(r, Pr []float64) bool {
		calls++
		copy(Pr, r)
		return calls < 2
	}
	k := krylov[[]float64]{vs: vspace.Rm{}, apply: diag(1, 2), proj: proj, eps: 1e-12, maxIter: 10}
	s := make([]float64, 2)
	iter, stop := k.truncatedCG([]float64{1, 1}, math.Inf(1), s)
	switch {
	case !k.failed:
		t.Fatal("TestKrylovProjectionFailure: failure not recorded")
	case stop != KrylovNotRun || iter != 1:
		t.Fatalf("TestKrylovProjectionFailure: stop %v after %d iterations", stop, iter)
	}

	calls = 1
	_, stop = k.truncatedCG([]float64{1, 1}, math.Inf(1), s)
	assert.True(t, k.failed)
	assert.Equal(t, KrylovNotRun, stop)
}

func TestToBoundary(t *testing.T) {
	k := krylov[[]float64]{vs: vspace.Rm{}}
	sigma := k.toBoundary([]float64{0.6, 0}, []float64{0, 1}, 1)
	assert.InDelta(t, 0.8, sigma, 1e-14)
	assert.Zero(t, k.toBoundary([]float64{1, 0}, []float64{0, 0}, 1))
	// already outside along p
	assert.Zero(t, k.toBoundary([]float64{2, 0}, []float64{1, 0}, 1))
}
