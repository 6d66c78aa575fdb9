// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vspace

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Rm is the space ℝᵐ stored as flat slices.
// With the elementwise product it is also the Jordan algebra of the nonnegative orthant.
type Rm struct{}

var _ EuclideanJordan[[]float64] = Rm{}

func (Rm) Init(x []float64) []float64 {
	return make([]float64, len(x))
}

func (Rm) Copy(x, y []float64) {
	if len(x) != len(y) {
		panic("vspace: dimension mismatch")
	}
	copy(y, x)
}

func (Rm) Scal(alpha float64, x []float64) {
	floats.Scale(alpha, x)
}

func (Rm) Zero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}

func (Rm) Axpy(alpha float64, x, y []float64) {
	floats.AddScaled(y, alpha, x)
}

func (Rm) Innr(x, y []float64) float64 {
	return floats.Dot(x, y)
}

func (Rm) Rand(r *rand.Rand, x []float64) {
	for i := range x {
		x[i] = r.NormFloat64()
	}
}

// Dim returns the number of entries of x.
func (Rm) Dim(x []float64) int {
	return len(x)
}

func (Rm) Prod(x, y, z []float64) {
	floats.MulTo(z, x, y)
}

func (Rm) Id(x []float64) {
	for i := range x {
		x[i] = 1
	}
}

func (Rm) Inv(x, z []float64) {
	if len(x) != len(z) {
		panic("vspace: dimension mismatch")
	}
	for i, v := range x {
		z[i] = 1 / v
	}
}

func (Rm) Linv(x, y, z []float64) {
	floats.DivTo(z, y, x)
}

func (Rm) Barr(x []float64) float64 {
	return linearBarr(x)
}

func (Rm) Srch(x, dx []float64) float64 {
	return math.Min(1, linearSrch(x, dx))
}

func (Rm) Symm([]float64) {}

func linearBarr(x []float64) float64 {
	var b float64
	for _, v := range x {
		if !(v > 0) {
			return math.Inf(1)
		}
		b -= math.Log(v)
	}
	return b
}

// linearSrch returns sup{α ≥ 0 : x + α dx ≥ 0}, +Inf when unbounded.
func linearSrch(x, dx []float64) float64 {
	if len(x) != len(dx) {
		panic("vspace: dimension mismatch")
	}
	alpha := math.Inf(1)
	for i, d := range dx {
		if d < 0 {
			alpha = math.Min(alpha, -x[i]/d)
		}
	}
	return alpha
}
