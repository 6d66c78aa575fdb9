// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"github.com/curioloop/coneopt/diagnostics"
	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/vspace"
)

const (
	epsilon = 0x1p-52 // machine epsilon
	zeta    = 0.8     // fraction of the radius allowed to the normal step
	armijo  = 1e-4    // sufficient decrease of the line search
	penalty = 0.3     // pred ≥ penalty × ν × vpred
)

// engine holds the functions, the state and the quantities at the current iterate.
type engine[X, Y, Z any] struct {
	st  *State[X, Y, Z]
	fns Functions[X, Y, Z]
	msg messaging.Messaging
	opt options

	xs vspace.VectorSpace[X]
	ys vspace.VectorSpace[Y]
	zs vspace.EuclideanJordan[Z]

	lag *functions.Lagrangian[X, Y, Z]
	qn  *quasiNewton[X]
	dt  *diagnostics.Tester

	grad  X // ∇𝒇(𝐱)
	gradL X // ∇ₓL(𝐱,𝐲,𝐳)
	gx    Y // 𝒈(𝐱)
	hx    Z // 𝒉(𝐱)
	e     Z // identity of the cone
	ee    float64

	rejected int // rejected steps since the last accepted one
	recorded int // value of State.Rejected at the last record
}

func (e *engine[X, Y, Z]) x() X {
	return e.st.X[0]
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteVec[V any](vs vspace.VectorSpace[V], v V) bool {
	return finite(vs.Innr(v, v))
}

func (e *engine[X, Y, Z]) evalF(x X) float64 {
	e.st.FEvals++
	return e.fns.F.Eval(x)
}

// refresh evaluates the functions and the optimality measures at the current iterate.
func (e *engine[X, Y, Z]) refresh() StopReason {
	st, xs := e.st, e.xs
	x := e.x()

	st.F = e.evalF(x)
	e.fns.F.Grad(x, e.grad)
	if !finite(st.F) || !finiteVec(xs, e.grad) {
		return NonFiniteValue
	}

	if st.equality() {
		e.fns.G.Eval(x, e.gx)
		if !finiteVec(e.ys, e.gx) {
			return NonFiniteValue
		}
		st.ConstrNorm = vspace.Norm(e.ys, e.gx)
		if !st.inequality() {
			// least squares multiplier 𝐲 = (𝒈′𝒈′*)⁻¹𝒈′∇𝒇
			b := e.ys.Init(st.Y)
			e.fns.G.P(x, e.grad, b)
			if !e.ySolve(b, st.Y) {
				return LinearSolveFailure
			}
		}
	}

	if st.inequality() {
		e.fns.H.Eval(x, e.hx)
		if !finiteVec(e.zs, e.hx) {
			return NonFiniteValue
		}
		st.MuEst = e.zs.Innr(e.hx, st.Z) / e.ee
	}

	e.lag.Grad(x, e.gradL)
	if !finiteVec(xs, e.gradL) {
		return NonFiniteValue
	}
	st.GradNorm = vspace.Norm(xs, e.gradL)
	return NotConverged
}

// converged tests the optimality measures against their relative tolerances.
func (e *engine[X, Y, Z]) converged() bool {
	st := e.st
	if st.GradNorm > st.EpsGrad*math.Max(1, st.GradNormTyp) {
		return false
	}
	if st.equality() && st.ConstrNorm > st.EpsConstr*math.Max(1, st.ConstrNormTyp) {
		return false
	}
	if st.inequality() && st.MuEst > st.EpsMu*math.Max(1, st.MuTyp) {
		return false
	}
	return true
}

// stepSmall reports whether a step of norm dx cannot move the current iterate.
func (e *engine[X, Y, Z]) stepSmall(dx float64) bool {
	return dx <= e.st.EpsDx*math.Max(1, vspace.Norm(e.xs, e.x()))
}

// hessvec sets H_dx to the Hessian of the Lagrangian, or its approximation, applied to dx.
func (e *engine[X, Y, Z]) hessvec(dx, H_dx X) {
	st, xs := e.st, e.xs
	switch st.HessianKind {
	case UserDefined:
		e.lag.Hessvec(e.x(), dx, H_dx)
	case Identity:
		xs.Copy(dx, H_dx)
	case ScaledIdentity:
		xs.Copy(dx, H_dx)
		xs.Scal(math.Max(st.GradNorm, math.Sqrt(epsilon)), H_dx)
	case BFGS, SR1:
		e.qn.apply(dx, H_dx)
	}
}

// gg sets out ← 𝒈′(𝐱)𝒈′(𝐱)*u.
func (e *engine[X, Y, Z]) gg(u, out Y) {
	t := e.xs.Init(e.x())
	e.fns.G.Ps(e.x(), u, t)
	e.fns.G.P(e.x(), t, out)
}

// ySolve sets u ← (𝒈′𝒈′*)⁻¹b.
func (e *engine[X, Y, Z]) ySolve(b, u Y) bool {
	k := krylov[Y]{vs: e.ys, apply: e.gg, eps: e.st.EpsKrylov, maxIter: e.st.MaxCGIter}
	iter, ok := k.solve(b, u)
	e.st.CGIterTotal += iter
	return ok && finiteVec(e.ys, u)
}

// project sets Pv ← v - 𝒈′*(𝒈′𝒈′*)⁻¹𝒈′v, the projection onto the null space of 𝒈′(𝐱).
// It reports false when the solve with 𝒈′𝒈′* fails.
func (e *engine[X, Y, Z]) project(v, Pv X) bool {
	x := e.x()
	w, u := e.ys.Init(e.st.Y), e.ys.Init(e.st.Y)
	e.fns.G.P(x, v, w)
	if !e.ySolve(w, u) {
		return false
	}
	e.fns.G.Ps(x, u, Pv)
	e.xs.Scal(-1, Pv)
	e.xs.Axpy(1, v, Pv)
	return true
}

// normal sets n ← -𝒈′*(𝒈′𝒈′*)⁻¹𝒈(𝐱), the least norm step to the linearized feasible set.
func (e *engine[X, Y, Z]) normal(n X) bool {
	u := e.ys.Init(e.st.Y)
	if !e.ySolve(e.gx, u) {
		return false
	}
	e.fns.G.Ps(e.x(), u, n)
	e.xs.Scal(-1, n)
	return true
}

// linearizedConstr returns ‖𝒈(𝐱) + 𝒈′(𝐱)s‖.
func (e *engine[X, Y, Z]) linearizedConstr(s X) float64 {
	r := e.ys.Init(e.gx)
	e.fns.G.P(e.x(), s, r)
	e.ys.Axpy(1, e.gx, r)
	return vspace.Norm(e.ys, r)
}

// updateQuasiNewton feeds the last accepted step to the Hessian approximation.
func (e *engine[X, Y, Z]) updateQuasiNewton() {
	st, xs := e.st, e.xs
	if e.qn == nil || len(st.X) < 2 {
		return
	}
	s := vspace.Clone(xs, st.X[0])
	xs.Axpy(-1, st.X[1], s)
	y := vspace.Clone(xs, e.gradL)
	prev := xs.Init(s)
	e.lag.Grad(st.X[1], prev)
	xs.Axpy(-1, prev, y)
	if !e.qn.update(s, y) {
		messaging.Printf(e.msg, "Skipping %v update: curvature condition fails", st.HessianKind)
	}
}
