// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"math"

	"github.com/curioloop/coneopt/vspace"
)

// Space checks the inner-product space axioms on random vectors shaped like x.
func Space[V any](t *Tester, name string, vs vspace.VectorSpace[V], x V) []Check {
	a, b, c := randLike(t, vs, x), randLike(t, vs, x), randLike(t, vs, x)
	alpha := t.Rand.NormFloat64()

	checks := make([]Check, 0, 5)

	// ⟨a,b⟩ = ⟨b,a⟩
	checks = append(checks, t.algebraic("Symmetry of the inner product on "+name,
		name+" inner product symmetry", relErr(vs.Innr(a, b), vs.Innr(b, a))))

	// ⟨αa+b,c⟩ = α⟨a,c⟩ + ⟨b,c⟩
	ab := vspace.Clone(vs, b)
	vs.Axpy(alpha, a, ab)
	want := alpha*vs.Innr(a, c) + vs.Innr(b, c)
	checks = append(checks, t.algebraic("Linearity of the inner product on "+name,
		name+" inner product linearity", relErr(vs.Innr(ab, c), want)))

	// ⟨a,a⟩ > 0 and ⟨0,0⟩ = 0
	zero := vs.Init(x)
	vs.Zero(zero)
	pos := 0.0
	if !(vs.Innr(a, a) > 0) || vs.Innr(zero, zero) != 0 {
		pos = 1
	}
	checks = append(checks, t.algebraic("Positivity of the inner product on "+name,
		name+" inner product positivity", pos))

	// copy then subtract gives zero
	d := vspace.Clone(vs, a)
	vs.Axpy(-1, a, d)
	checks = append(checks, t.algebraic("Copy and axpy consistency on "+name,
		name+" copy", relNorm(vspace.Norm(vs, d), vspace.Norm(vs, a))))

	// ⟨αa,a⟩ = α⟨a,a⟩
	s := vspace.Clone(vs, a)
	vs.Scal(alpha, s)
	checks = append(checks, t.algebraic("Scaling consistency on "+name,
		name+" scal", relErr(vs.Innr(s, a), alpha*vs.Innr(a, a))))

	return checks
}

// Jordan checks the Euclidean Jordan algebra identities on random vectors shaped like x.
func Jordan[V any](t *Tester, name string, ej vspace.EuclideanJordan[V], x V) []Check {
	a, b := randLike(t, ej, x), randLike(t, ej, x)
	e := ej.Init(x)
	ej.Id(e)

	prod := func(x, y V) V {
		z := ej.Init(x)
		ej.Prod(x, y, z)
		return z
	}
	diff := func(got, want V) float64 {
		return vecErr[V](ej, got, want)
	}

	checks := make([]Check, 0, 9)

	// a ∘ b = b ∘ a
	checks = append(checks, t.algebraic("Commutativity of the Jordan product on "+name,
		name+" commutativity", diff(prod(a, b), prod(b, a))))

	// e ∘ a = a
	checks = append(checks, t.algebraic("Identity of the Jordan product on "+name,
		name+" identity", diff(prod(e, a), a)))

	// Jordan identity (a² ∘ b) ∘ a = a² ∘ (b ∘ a)
	a2 := prod(a, a)
	checks = append(checks, t.algebraic("Jordan identity on "+name,
		name+" jordan identity", diff(prod(prod(a2, b), a), prod(a2, prod(b, a)))))

	// quadratic representation P(u)v = 2u∘(u∘v) - (u∘u)∘v with P(e) = I and P(a)e = a²
	quad := func(u, v V) V {
		r := prod(u, prod(u, v))
		ej.Scal(2, r)
		ej.Axpy(-1, prod(prod(u, u), v), r)
		return r
	}
	checks = append(checks, t.algebraic("Quadratic representation of the identity on "+name,
		name+" quadratic representation", math.Max(diff(quad(e, b), b), diff(quad(a, e), a2))))

	// an interior point u = a² + e
	u := vspace.Clone(ej, a2)
	ej.Axpy(1, e, u)

	// u ∘ L(u)⁻¹b = b
	z := ej.Init(x)
	ej.Linv(u, b, z)
	checks = append(checks, t.algebraic("Inverse of the Jordan product operator on "+name,
		name+" linv", diff(prod(u, z), b)))

	// u ∘ u⁻¹ = e
	ej.Inv(u, z)
	checks = append(checks, t.algebraic("Jordan inverse on "+name,
		name+" inverse", diff(prod(u, z), e)))

	// symm is a projection
	s := vspace.Clone(ej, b)
	ej.Symm(s)
	ss := vspace.Clone(ej, s)
	ej.Symm(ss)
	checks = append(checks, t.algebraic("Idempotence of the symmetrization on "+name,
		name+" symm", diff(ss, s)))

	// barrier is finite at the identity and infinite at -e
	barr := 0.0
	ne := vspace.Clone(ej, e)
	vspace.Negate(ej, ne)
	if math.IsInf(ej.Barr(e), 0) || math.IsNaN(ej.Barr(e)) || !math.IsInf(ej.Barr(ne), 1) {
		barr = 1
	}
	checks = append(checks, t.algebraic("Barrier on the interior of "+name,
		name+" barrier", barr))

	// srch returns the step to the boundary along a direction pointing outward
	dz := vspace.Clone(ej, b)
	ej.Symm(dz)
	ej.Axpy(-2*(vspace.Norm(ej, u)+vspace.Norm(ej, dz)), e, dz)
	alpha := ej.Srch(u, dz)
	srch := 0.0
	inside := vspace.Clone(ej, u)
	ej.Axpy(0.99*alpha, dz, inside)
	outside := vspace.Clone(ej, u)
	ej.Axpy(math.Min(1, 1.01*alpha), dz, outside)
	if !(alpha > 0 && alpha < 1) || !vspace.Interior(ej, inside) || vspace.Interior(ej, outside) {
		srch = 1
	}
	checks = append(checks, t.algebraic("Fraction to the boundary on "+name,
		name+" line search", srch))

	return checks
}
