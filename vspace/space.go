// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vspace

import (
	"math"
	"math/rand/v2"
)

// VectorSpace is the set of operations the optimizer needs on an opaque vector type V.
// Every operation writes its result into an argument, no operation keeps references
// to its arguments after it returns.
//
// The operations must be consistent with a real inner-product space:
//   - ⟨x,y⟩ = ⟨y,x⟩
//   - ⟨αx+y,z⟩ = α⟨x,z⟩ + ⟨y,z⟩
//   - ⟨x,x⟩ > 0 for x ≠ 0
type VectorSpace[V any] interface {
	// Init allocates a new vector with the same shape as x.
	// The content of the returned vector is unspecified.
	Init(x V) V
	// Copy sets y ← x.
	Copy(x, y V)
	// Scal sets x ← αx.
	Scal(alpha float64, x V)
	// Zero sets x ← 0.
	Zero(x V)
	// Axpy sets y ← αx + y.
	Axpy(alpha float64, x, y V)
	// Innr returns ⟨x,y⟩.
	Innr(x, y V) float64
	// Rand fills x with random entries.
	Rand(r *rand.Rand, x V)
}

// EuclideanJordan is a vector space equipped with the structure of a Euclidean Jordan
// algebra. The cone of squares of the algebra is the feasible set of cone constraints.
type EuclideanJordan[V any] interface {
	VectorSpace[V]
	// Prod sets z ← x ∘ y.
	Prod(x, y, z V)
	// Id sets x ← e, the identity of the algebra.
	Id(x V)
	// Inv sets z ← x⁻¹. Defined only when x is invertible.
	Inv(x, z V)
	// Linv sets z ← L(x)⁻¹y, the solution of x ∘ z = y.
	Linv(x, y, z V)
	// Barr returns the barrier -log det(x), +Inf when x is not strictly interior.
	Barr(x V) float64
	// Srch returns the largest α ∈ [0,1] such that x + α dx lies in the cone closure.
	// The point x must be strictly interior.
	Srch(x, dx V) float64
	// Symm restores the symmetric representation of x.
	Symm(x V)
}

// Clone returns a fresh copy of x.
func Clone[V any](vs VectorSpace[V], x V) V {
	y := vs.Init(x)
	vs.Copy(x, y)
	return y
}

// Zeros returns a fresh zero vector shaped like x.
func Zeros[V any](vs VectorSpace[V], x V) V {
	y := vs.Init(x)
	vs.Zero(y)
	return y
}

// Dimensioned is implemented by spaces that know the size of their vectors.
type Dimensioned[V any] interface {
	Dim(x V) int
}

// Dim returns the number of entries of x, or -1 when vs does not implement Dimensioned.
func Dim[V any](vs VectorSpace[V], x V) int {
	if d, ok := vs.(Dimensioned[V]); ok {
		return d.Dim(x)
	}
	return -1
}

// Norm returns ‖x‖ = √⟨x,x⟩.
func Norm[V any](vs VectorSpace[V], x V) float64 {
	return math.Sqrt(math.Max(vs.Innr(x, x), 0))
}

// Negate sets x ← -x.
func Negate[V any](vs VectorSpace[V], x V) {
	vs.Scal(-1, x)
}

// Interior reports whether x lies strictly inside the cone.
func Interior[V any](ej EuclideanJordan[V], x V) bool {
	b := ej.Barr(x)
	return !math.IsNaN(b) && !math.IsInf(b, 1)
}
