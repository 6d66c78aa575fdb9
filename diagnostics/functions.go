// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/numdiff"
	"github.com/curioloop/coneopt/vspace"
)

func randLike[V any](t *Tester, vs vspace.VectorSpace[V], like V) V {
	t.init()
	v := vs.Init(like)
	vs.Rand(t.Rand, v)
	return v
}

// vecErr returns ‖got - want‖ / ‖want‖, or ‖got‖ when want vanishes.
func vecErr[V any](vs vspace.VectorSpace[V], got, want V) float64 {
	d := vspace.Clone(vs, got)
	vs.Axpy(-1, want, d)
	return relNorm(vspace.Norm(vs, d), vspace.Norm(vs, want))
}

// Gradient compares ⟨∇𝒇(𝐱),𝐝𝐱⟩ with finite differences of 𝒇 along a random 𝐝𝐱.
func Gradient[X any](t *Tester, name string, xs vspace.VectorSpace[X], f functions.ScalarValuedFunction[X], x X) Check {
	dx := randLike(t, xs, x)
	g := xs.Init(x)
	f.Grad(x, g)
	want := xs.Innr(g, dx)
	return t.finite("Finite difference test on the gradient of "+name, name+" gradient", func(h float64) float64 {
		return relErr(numdiff.Directional(xs, f.Eval, x, dx, h, t.method()), want)
	})
}

// Hessian compares ∇²𝒇(𝐱)𝐝𝐱 with finite differences of ∇𝒇 along a random 𝐝𝐱.
func Hessian[X any](t *Tester, name string, xs vspace.VectorSpace[X], f functions.ScalarValuedFunction[X], x X) Check {
	dx := randLike(t, xs, x)
	want := xs.Init(x)
	f.Hessvec(x, dx, want)
	fd := xs.Init(x)
	return t.finite("Finite difference test on the Hessian-vector product of "+name, name+" Hessian", func(h float64) float64 {
		numdiff.VectorDirectional(xs, xs, f.Grad, x, dx, h, t.method(), fd)
		return vecErr(xs, fd, want)
	})
}

// HessianSymmetry checks ⟨∇²𝒇(𝐱)𝐝𝐱,𝐝𝐱̂⟩ = ⟨𝐝𝐱,∇²𝒇(𝐱)𝐝𝐱̂⟩.
func HessianSymmetry[X any](t *Tester, name string, xs vspace.VectorSpace[X], f functions.ScalarValuedFunction[X], x X) Check {
	dx, dxx := randLike(t, xs, x), randLike(t, xs, x)
	hdx, hdxx := xs.Init(x), xs.Init(x)
	f.Hessvec(x, dx, hdx)
	f.Hessvec(x, dxx, hdxx)
	a, b := xs.Innr(hdx, dxx), xs.Innr(dx, hdxx)
	return t.algebraic("Symmetry test on the Hessian of "+name, name+" Hessian symmetry", relErr(a, b))
}

// Derivative compares 𝒈′(𝐱)𝐝𝐱 with finite differences of 𝒈 along a random 𝐝𝐱.
func Derivative[X, Y any](t *Tester, name string, xs vspace.VectorSpace[X], ys vspace.VectorSpace[Y], g functions.VectorValuedFunction[X, Y], x X, y Y) Check {
	dx := randLike(t, xs, x)
	want := ys.Init(y)
	g.P(x, dx, want)
	fd := ys.Init(y)
	return t.finite("Finite difference test on the derivative of "+name, name+" derivative", func(h float64) float64 {
		numdiff.VectorDirectional(xs, ys, g.Eval, x, dx, h, t.method(), fd)
		return vecErr(ys, fd, want)
	})
}

// Adjoint checks ⟨𝒈′(𝐱)𝐝𝐱,𝐝𝐲⟩ = ⟨𝐝𝐱,𝒈′(𝐱)*𝐝𝐲⟩.
func Adjoint[X, Y any](t *Tester, name string, xs vspace.VectorSpace[X], ys vspace.VectorSpace[Y], g functions.VectorValuedFunction[X, Y], x X, y Y) Check {
	dx, dy := randLike(t, xs, x), randLike(t, ys, y)
	pdx, psdy := ys.Init(y), xs.Init(x)
	g.P(x, dx, pdx)
	g.Ps(x, dy, psdy)
	a, b := ys.Innr(pdx, dy), xs.Innr(dx, psdy)
	return t.algebraic("Adjoint test on the derivative of "+name, name+" adjoint", relErr(b, a))
}

// SecondDerivative compares (𝒈″(𝐱)𝐝𝐱)*𝐝𝐲 with finite differences of 𝒈′(·)*𝐝𝐲 along a random 𝐝𝐱.
func SecondDerivative[X, Y any](t *Tester, name string, xs vspace.VectorSpace[X], ys vspace.VectorSpace[Y], g functions.VectorValuedFunction[X, Y], x X, y Y) Check {
	dx, dy := randLike(t, xs, x), randLike(t, ys, y)
	want := xs.Init(x)
	g.Pps(x, dx, dy, want)
	ps := func(x X, z X) { g.Ps(x, dy, z) }
	fd := xs.Init(x)
	return t.finite("Finite difference test on the second derivative adjoint of "+name, name+" second derivative", func(h float64) float64 {
		numdiff.VectorDirectional(xs, xs, ps, x, dx, h, t.method(), fd)
		return vecErr(xs, fd, want)
	})
}
