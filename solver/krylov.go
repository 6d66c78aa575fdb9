// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"github.com/curioloop/coneopt/vspace"
)

// krylov solves A s = b for a self-adjoint operator A with conjugate gradients.
// When proj is set the residual is kept in the range of the orthogonal
// projection proj, which turns the method into projected CG. proj reports
// false when it cannot be applied, after which failed is set.
type krylov[V any] struct {
	vs      vspace.VectorSpace[V]
	apply   func(p, Ap V)
	proj    func(v, Pv V) bool
	eps     float64
	maxIter int
	failed  bool
}

// truncatedCG runs the Steihaug-Toint truncated CG on
//
//	min ⟨-b,s⟩ + ½⟨s,As⟩   subject to ‖s‖ ≤ δ
//
// starting from s = 0. It stops at the boundary, on non-positive curvature,
// when ‖r‖ ≤ ε‖r₀‖ or after maxIter iterations. δ may be +Inf.
// With a projection r₀ = Pb, nothing is done when ‖Pb‖ ≤ ε‖b‖ and the final
// s is projected once more.
func (k *krylov[V]) truncatedCG(b V, delta float64, s V) (iter int, stop KrylovStop) {
	vs := k.vs
	vs.Zero(s)
	k.failed = false

	r := k.projected(b) // r = P(b - As)
	if k.failed {
		return 0, KrylovNotRun
	}
	rr := vs.Innr(r, r)
	norm0 := math.Sqrt(rr)
	if norm0 <= k.eps*vspace.Norm(vs, b) {
		return 0, RelativeErrorSmall
	}
	if k.proj != nil {
		defer k.reproject(s)
	}

	p := vspace.Clone(vs, r)
	Ap := vs.Init(b)

	for iter < k.maxIter {
		iter++
		k.apply(p, Ap)
		pAp := vs.Innr(p, Ap)

		// non-positive curvature: follow p to the boundary
		if !(pAp > 0) {
			if math.IsInf(delta, 1) {
				if iter == 1 {
					vs.Copy(p, s)
				}
			} else {
				vs.Axpy(k.toBoundary(s, p, delta), p, s)
			}
			return iter, NegativeCurvature
		}

		alpha := rr / pAp
		if !math.IsInf(delta, 1) {
			ss, sp, pp := vs.Innr(s, s), vs.Innr(s, p), vs.Innr(p, p)
			if ss+2*alpha*sp+alpha*alpha*pp >= delta*delta {
				vs.Axpy(k.toBoundary(s, p, delta), p, s)
				return iter, TrustRegionViolated
			}
		}

		vs.Axpy(alpha, p, s)
		vs.Axpy(-alpha, Ap, r)
		if k.proj != nil {
			if r = k.projected(r); k.failed {
				return iter, KrylovNotRun
			}
		}
		rrNew := vs.Innr(r, r)
		if math.Sqrt(rrNew) <= k.eps*norm0 {
			return iter, RelativeErrorSmall
		}

		beta := rrNew / rr
		vs.Scal(beta, p)
		vs.Axpy(1, r, p)
		rr = rrNew
	}
	return iter, MaxKrylovIters
}

// solve runs plain CG on A s = b for a positive definite A.
// It reports false when A is found not positive definite or the residual stays large.
func (k *krylov[V]) solve(b V, s V) (iter int, ok bool) {
	iter, stop := k.truncatedCG(b, math.Inf(1), s)
	return iter, stop == RelativeErrorSmall || stop == MaxKrylovIters && k.residual(b, s) <= math.Sqrt(k.eps)*vspace.Norm(k.vs, b)
}

func (k *krylov[V]) residual(b, s V) float64 {
	r := k.vs.Init(b)
	k.apply(s, r)
	k.vs.Scal(-1, r)
	k.vs.Axpy(1, b, r)
	return vspace.Norm(k.vs, r)
}

// projected returns Pv, or a copy of v without projection.
func (k *krylov[V]) projected(v V) V {
	Pv := k.vs.Init(v)
	if k.proj == nil {
		k.vs.Copy(v, Pv)
	} else if !k.proj(v, Pv) {
		k.failed = true
	}
	return Pv
}

// reproject sets s ← Ps, which cannot leave the trust region.
func (k *krylov[V]) reproject(s V) {
	if k.failed {
		return
	}
	if Ps := k.projected(s); !k.failed {
		k.vs.Copy(Ps, s)
	}
}

// toBoundary returns σ ≥ 0 with ‖s + σp‖ = δ.
func (k *krylov[V]) toBoundary(s, p V, delta float64) float64 {
	vs := k.vs
	ss, sp, pp := vs.Innr(s, s), vs.Innr(s, p), vs.Innr(p, p)
	if pp == 0 {
		return 0
	}
	disc := math.Max(sp*sp+pp*(delta*delta-ss), 0)
	if sp > 0 {
		return math.Max((delta*delta-ss)/(sp+math.Sqrt(disc)), 0)
	}
	return (-sp + math.Sqrt(disc)) / pp
}
