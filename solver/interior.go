// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/vspace"
)

// newton is a primal-dual direction.
type newton[X, Y, Z any] struct {
	dx  X
	dy  Y
	dz  Z
	hdx Z // 𝒉′(𝐱)𝐝𝐱
}

// centered reports whether the iterate is close enough to the central path
// for the barrier parameter to be reduced:
//
//	‖𝒉(𝐱)∘𝐳 - μ𝐞‖ ≤ θμ‖𝐞‖   and   ‖∇ₓL‖ ≤ max(tol, θμ)
func (e *engine[X, Y, Z]) centered() bool {
	st, zs := e.st, e.zs
	c := zs.Init(e.hx)
	zs.Prod(e.hx, st.Z, c)
	zs.Axpy(-st.Mu, e.e, c)
	theta := st.MuCentrality * st.Mu
	if vspace.Norm(zs, c) > theta*math.Sqrt(e.ee) {
		return false
	}
	if st.GradNorm > math.Max(st.EpsGrad*math.Max(1, st.GradNormTyp), theta) {
		return false
	}
	return !st.equality() || st.ConstrNorm <= math.Max(st.EpsConstr*math.Max(1, st.ConstrNormTyp), theta)
}

// interiorPointStep reduces μ when the iterate is centered, then computes and
// globalizes the primal-dual step. A failed line search reduces μ and retries
// up to MaxRetry times.
func (e *engine[X, Y, Z]) interiorPointStep() StopReason {
	st := e.st
	if e.centered() {
		st.Mu *= st.Sigma
	}

	for retry := 0; ; retry++ {
		d, ok := e.newtonStep()
		if ok {
			switch stop := e.lineSearch(d); stop {
			case NotConverged, StepSmall, NonFiniteValue:
				return stop
			}
		}
		if retry >= st.MaxRetry {
			return LinearSolveFailure
		}
		st.Retries++
		st.Mu *= st.Sigma
		messaging.Printf(e.msg, "  interior point step failed, retrying with μ = %.3e", st.Mu)
	}
}

// schur sets out ← (H + 𝒉′* S 𝒉′)v where S is the symmetric part of L(𝒉)⁻¹L(𝐳).
func (e *engine[X, Y, Z]) schur(v, out X) {
	zs, x := e.zs, e.x()
	hv := zs.Init(e.hx)
	e.fns.H.P(x, v, hv)
	sv := e.scaling(hv)
	t := e.xs.Init(v)
	e.fns.H.Ps(x, sv, t)
	e.hessvec(v, out)
	e.xs.Axpy(1, t, out)
}

// scaling returns ½(L(𝒉)⁻¹(𝐳∘v) + 𝐳∘L(𝒉)⁻¹v).
func (e *engine[X, Y, Z]) scaling(v Z) Z {
	zs, z := e.zs, e.st.Z
	a, b, c := zs.Init(v), zs.Init(v), zs.Init(v)
	zs.Prod(z, v, a)
	zs.Linv(e.hx, a, b)
	zs.Linv(e.hx, v, a)
	zs.Prod(z, a, c)
	zs.Axpy(1, c, b)
	zs.Scal(0.5, b)
	zs.Symm(b)
	return b
}

// newtonStep solves the reduced system at fixed μ
//
//	(H + 𝒉′* S 𝒉′)𝐝𝐱 - 𝒈′*𝐝𝐲 = -(∇𝒇 - 𝒈′*𝐲 - μ𝒉′*𝒉⁻¹)
//	𝒈′𝐝𝐱 = -𝒈
//
// and recovers 𝐝𝐳 = L(𝒉)⁻¹(μ𝐞 - 𝐳∘𝒉′𝐝𝐱) - 𝐳 from the linearized complementarity.
func (e *engine[X, Y, Z]) newtonStep() (d newton[X, Y, Z], ok bool) {
	st, xs, zs := e.st, e.xs, e.zs
	x := e.x()

	// r_μ = ∇𝒇 - 𝒈′*𝐲 - μ𝒉′*𝒉⁻¹
	r := vspace.Clone(xs, e.grad)
	if st.equality() {
		t := xs.Init(x)
		e.fns.G.Ps(x, st.Y, t)
		xs.Axpy(-1, t, r)
	}
	hinv := zs.Init(e.hx)
	zs.Inv(e.hx, hinv)
	zs.Symm(hinv)
	t := xs.Init(x)
	e.fns.H.Ps(x, hinv, t)
	xs.Axpy(-st.Mu, t, r)

	n := vspace.Zeros(xs, x)
	k := krylov[X]{vs: xs, apply: e.schur, eps: st.EpsKrylov, maxIter: st.MaxCGIter}
	if st.equality() {
		if !e.normal(n) {
			return d, false
		}
		k.proj = e.project
	}

	b := xs.Init(x)
	e.schur(n, b)
	xs.Axpy(1, r, b)
	xs.Scal(-1, b)

	d.dx = xs.Init(x)
	iter, ks := k.truncatedCG(b, math.Inf(1), d.dx)
	st.CGIterLast = iter
	st.CGIterTotal += iter
	st.Krylov = ks
	if k.failed {
		return d, false
	}
	xs.Axpy(1, n, d.dx)
	if !finiteVec(xs, d.dx) {
		return d, false
	}

	d.hdx = zs.Init(e.hx)
	e.fns.H.P(x, d.dx, d.hdx)
	d.dz = zs.Init(st.Z)
	c := zs.Init(st.Z)
	zs.Prod(st.Z, d.hdx, c)
	zs.Scal(-1, c)
	zs.Axpy(st.Mu, e.e, c)
	zs.Linv(e.hx, c, d.dz)
	zs.Axpy(-1, st.Z, d.dz)
	zs.Symm(d.dz)
	if !finiteVec(zs, d.dz) {
		return d, false
	}

	if st.equality() {
		// 𝐝𝐲 = (𝒈′𝒈′*)⁻¹𝒈′(A𝐝𝐱 + r_μ)
		w := xs.Init(x)
		e.schur(d.dx, w)
		xs.Axpy(1, r, w)
		gw := e.ys.Init(st.Y)
		e.fns.G.P(x, w, gw)
		d.dy = e.ys.Init(st.Y)
		if !e.ySolve(gw, d.dy) {
			return d, false
		}
	}
	return d, true
}

// barrierMerit returns 𝒇 + μ barr(𝒉) + ν‖𝒈‖.
func (e *engine[X, Y, Z]) barrierMerit(f float64, hx Z, gnorm float64) float64 {
	st := e.st
	m := f + st.Mu*e.zs.Barr(hx)
	if st.equality() {
		m += st.Penalty * gnorm
	}
	return m
}

// lineSearch starts from α₀ = τ min(1, srch(𝒉,𝒉′𝐝𝐱), srch(𝐳,𝐝𝐳)) and halves α
// until 𝒉(𝐱 + α𝐝𝐱) is strictly interior and the barrier merit decreases enough.
func (e *engine[X, Y, Z]) lineSearch(d newton[X, Y, Z]) StopReason {
	st, xs, zs := e.st, e.xs, e.zs
	x := e.x()

	if st.equality() {
		if need := vspace.Norm(e.ys, st.Y) + vspace.Norm(e.ys, d.dy); need > st.Penalty {
			st.Penalty = need
		}
	}

	alpha := st.Tau * math.Min(1, math.Min(zs.Srch(e.hx, d.hdx), zs.Srch(st.Z, d.dz)))

	// directional derivative of the merit along 𝐝𝐱
	hinv := zs.Init(e.hx)
	zs.Inv(e.hx, hinv)
	slope := xs.Innr(e.grad, d.dx) - st.Mu*zs.Innr(hinv, d.hdx)
	if st.equality() {
		slope += st.Penalty * (e.linearizedConstr(d.dx) - st.ConstrNorm)
	}
	slope = math.Min(slope, 0)

	merit := e.barrierMerit(st.F, e.hx, st.ConstrNorm)
	xt := xs.Init(x)
	ht := zs.Init(e.hx)
	var gt Y
	if st.equality() {
		gt = e.ys.Init(e.gx)
	}

	if e.stepSmall(alpha*vspace.Norm(xs, d.dx)) &&
		alpha*vspace.Norm(zs, d.dz) <= st.EpsDx*math.Max(1, vspace.Norm(zs, st.Z)) {
		return StepSmall
	}

	for k := 0; k < st.MaxBacktrack; k++ {
		xs.Copy(x, xt)
		xs.Axpy(alpha, d.dx, xt)
		e.fns.H.Eval(xt, ht)
		if vspace.Interior(zs, ht) {
			ft := e.evalF(xt)
			gnorm := 0.0
			if st.equality() {
				e.fns.G.Eval(xt, gt)
				gnorm = vspace.Norm(e.ys, gt)
			}
			mt := e.barrierMerit(ft, ht, gnorm)
			if finite(mt) && mt <= merit+armijo*alpha*slope+10*epsilon*math.Abs(merit) {
				e.accept(d, alpha, xt)
				return NotConverged
			}
		}
		alpha *= 0.5
	}
	return LinearSolveFailure
}

// accept moves the iterate and the multipliers by α along the direction.
func (e *engine[X, Y, Z]) accept(d newton[X, Y, Z], alpha float64, xt X) {
	st, zs := e.st, e.zs
	st.push(xt)
	st.DxNorm = alpha * vspace.Norm(e.xs, d.dx)
	if st.equality() {
		e.ys.Axpy(alpha, d.dy, st.Y)
	}
	zs.Axpy(alpha, d.dz, st.Z)
	zs.Symm(st.Z)
}
