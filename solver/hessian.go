// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"github.com/curioloop/coneopt/vspace"
)

// quasiNewton is a limited-memory approximation B of the Hessian of the
// Lagrangian built from the pairs
//
//	sᵢ = 𝐱ᵢ₊₁ - 𝐱ᵢ    yᵢ = ∇ₓL(𝐱ᵢ₊₁) - ∇ₓL(𝐱ᵢ)
//
// with B₀ = I. Pairs are stored oldest first. The products B applies are
// rebuilt from the stored pairs whenever the history changes.
type quasiNewton[X any] struct {
	xs    vspace.VectorSpace[X]
	kind  HessianKind
	store int

	s, y []X

	// BFGS: Bᵢ₊₁ = Bᵢ - (Bᵢsᵢ)(Bᵢsᵢ)ᵀ/⟨sᵢ,Bᵢsᵢ⟩ + yᵢyᵢᵀ/⟨yᵢ,sᵢ⟩ with u = Bᵢsᵢ
	// SR1:  Bᵢ₊₁ = Bᵢ + uuᵀ/⟨u,sᵢ⟩ with u = yᵢ - Bᵢsᵢ
	u   []X
	us  []float64 // ⟨uᵢ,sᵢ⟩
	ys  []float64 // ⟨yᵢ,sᵢ⟩
	skp int       // skipped updates
}

func newQuasiNewton[X any](xs vspace.VectorSpace[X], kind HessianKind, store int) *quasiNewton[X] {
	return &quasiNewton[X]{xs: xs, kind: kind, store: store}
}

// applyN sets Bv ← Bₙv, the approximation built from the first n pairs.
func (q *quasiNewton[X]) applyN(n int, v, Bv X) {
	xs := q.xs
	xs.Copy(v, Bv)
	for i := 0; i < n; i++ {
		if q.us[i] == 0 {
			continue
		}
		switch q.kind {
		case BFGS:
			xs.Axpy(-xs.Innr(q.u[i], v)/q.us[i], q.u[i], Bv)
			xs.Axpy(xs.Innr(q.y[i], v)/q.ys[i], q.y[i], Bv)
		case SR1:
			xs.Axpy(xs.Innr(q.u[i], v)/q.us[i], q.u[i], Bv)
		}
	}
}

func (q *quasiNewton[X]) apply(v, Bv X) {
	q.applyN(len(q.s), v, Bv)
}

// update adds the pair (s, y). The pair is skipped when it would break the
// positive definiteness of BFGS or make the SR1 update unbounded.
func (q *quasiNewton[X]) update(s, y X) bool {
	xs := q.xs
	sy := xs.Innr(s, y)
	ns, ny := vspace.Norm(xs, s), vspace.Norm(xs, y)
	eps := math.Sqrt(epsilon)

	switch q.kind {
	case BFGS:
		if !(sy > eps*ns*ny) {
			q.skp++
			return false
		}
	case SR1:
		u := xs.Init(s)
		q.apply(s, u)
		xs.Scal(-1, u)
		xs.Axpy(1, y, u)
		if !(math.Abs(xs.Innr(u, s)) > 1e-8*ns*vspace.Norm(xs, u)) {
			q.skp++
			return false
		}
	default:
		return false
	}

	if len(q.s) == q.store {
		q.s, q.y = q.s[1:], q.y[1:]
	}
	q.s = append(q.s, vspace.Clone(xs, s))
	q.y = append(q.y, vspace.Clone(xs, y))
	q.rebuild()
	return true
}

func (q *quasiNewton[X]) rebuild() {
	xs := q.xs
	n := len(q.s)
	q.u = q.u[:0]
	q.us = q.us[:0]
	q.ys = q.ys[:0]
	for i := 0; i < n; i++ {
		Bs := xs.Init(q.s[i])
		q.applyN(i, q.s[i], Bs)
		if q.kind == SR1 {
			xs.Scal(-1, Bs)
			xs.Axpy(1, q.y[i], Bs)
		}
		q.u = append(q.u, Bs)
		q.us = append(q.us, xs.Innr(Bs, q.s[i]))
		q.ys = append(q.ys, xs.Innr(q.y[i], q.s[i]))
	}
}
