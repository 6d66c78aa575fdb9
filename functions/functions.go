// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package functions defines the contracts of the objective and constraint functions.
//
// Results are written into vectors allocated by the caller. Every operation must be
// pure: identical arguments give identical results and no observable side effects.
package functions

// ScalarValuedFunction is a twice differentiable 𝒇 : X → ℝ.
type ScalarValuedFunction[X any] interface {
	// Eval returns 𝒇(𝐱).
	Eval(x X) float64
	// Grad sets g ← ∇𝒇(𝐱).
	Grad(x X, g X)
	// Hessvec sets H_dx ← ∇²𝒇(𝐱)𝐝𝐱.
	Hessvec(x, dx X, H_dx X)
}

// VectorValuedFunction is a twice differentiable 𝒈 : X → Y.
type VectorValuedFunction[X, Y any] interface {
	// Eval sets y ← 𝒈(𝐱).
	Eval(x X, y Y)
	// P sets y ← 𝒈′(𝐱)𝐝𝐱.
	P(x, dx X, y Y)
	// Ps sets z ← 𝒈′(𝐱)*𝐝𝐲.
	Ps(x X, dy Y, z X)
	// Pps sets z ← (𝒈″(𝐱)𝐝𝐱)*𝐝𝐲.
	Pps(x, dx X, dy Y, z X)
}

// ScalarFunc adapts plain functions to ScalarValuedFunction.
type ScalarFunc[X any] struct {
	EvalFunc    func(x X) float64
	GradFunc    func(x X, g X)
	HessvecFunc func(x, dx X, H_dx X)
}

func (f ScalarFunc[X]) Eval(x X) float64 {
	return f.EvalFunc(x)
}

func (f ScalarFunc[X]) Grad(x X, g X) {
	f.GradFunc(x, g)
}

func (f ScalarFunc[X]) Hessvec(x, dx X, H_dx X) {
	f.HessvecFunc(x, dx, H_dx)
}

// VectorFunc adapts plain functions to VectorValuedFunction.
// PpsFunc may be nil for affine functions, in which case Pps returns zero.
type VectorFunc[X, Y any] struct {
	EvalFunc func(x X, y Y)
	PFunc    func(x, dx X, y Y)
	PsFunc   func(x X, dy Y, z X)
	PpsFunc  func(x, dx X, dy Y, z X)
	// ZeroFunc sets z ← 0, required when PpsFunc is nil.
	ZeroFunc func(z X)
}

func (g VectorFunc[X, Y]) Eval(x X, y Y) {
	g.EvalFunc(x, y)
}

func (g VectorFunc[X, Y]) P(x, dx X, y Y) {
	g.PFunc(x, dx, y)
}

func (g VectorFunc[X, Y]) Ps(x X, dy Y, z X) {
	g.PsFunc(x, dy, z)
}

func (g VectorFunc[X, Y]) Pps(x, dx X, dy Y, z X) {
	if g.PpsFunc == nil {
		g.ZeroFunc(z)
		return
	}
	g.PpsFunc(x, dx, dy, z)
}
