// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/vspace"
)

// trialStep is a trust region step with its predicted reduction.
type trialStep[X any] struct {
	s        X
	norm     float64
	pred     float64 // m(0) - m(s) including the penalty term
	vpred    float64 // ‖𝒈‖ - ‖𝒈 + 𝒈′s‖
	boundary bool    // truncated at ‖s‖ = δ
}

// trustRegionStep computes steps until one is accepted or the algorithm must stop.
//
// Without constraints the step solves
//
//	min ⟨∇𝒇,s⟩ + ½⟨s,Hs⟩   subject to ‖s‖ ≤ δ
//
// by truncated CG. With equality constraints s = n + t is a composite step:
// the normal step n reduces ‖𝒈(𝐱) + 𝒈′(𝐱)n‖ within ζδ and the tangential
// step t minimizes the model in the null space of 𝒈′(𝐱) within √(δ² - ‖n‖²).
// Steps are accepted on ρ = ared/pred of the merit 𝒇 + ν‖𝒈‖.
func (e *engine[X, Y, Z]) trustRegionStep() StopReason {
	st, xs := e.st, e.xs
	x := e.x()
	trial := xs.Init(x)
	var gTrial Y
	if st.equality() {
		gTrial = e.ys.Init(e.gx)
	}

	for {
		step, stop := e.trustRegionSubproblem()
		if stop != NotConverged {
			return stop
		}
		if e.stepSmall(step.norm) {
			return StepSmall
		}

		xs.Copy(x, trial)
		xs.Axpy(1, step.s, trial)

		merit := st.F
		fTrial := e.evalF(trial)
		meritTrial := fTrial
		if st.equality() {
			e.fns.G.Eval(trial, gTrial)
			merit += st.Penalty * st.ConstrNorm
			meritTrial += st.Penalty * vspace.Norm(e.ys, gTrial)
		}

		ared := merit - meritTrial
		rho := math.Inf(-1)
		switch {
		case !finite(meritTrial):
			messaging.Errorf(e.msg, "Non-finite merit %v at the trial point, rejecting the step", meritTrial)
		case step.pred > 0:
			rho = ared / step.pred
		}

		if rho > st.Eta1 {
			if rho > st.Eta2 && step.boundary {
				st.Delta = math.Min(2*st.Delta, st.DeltaMax)
			}
			st.push(trial)
			st.DxNorm = step.norm
			e.rejected = 0
			return NotConverged
		}

		st.Rejected++
		e.rejected++
		st.Delta = 0.5 * step.norm
		messaging.Printf(e.msg, "  rejected step ‖s‖ = %.3e  ρ = %.3e  δ = %.3e", step.norm, rho, st.Delta)
		if e.rejected >= st.MaxRejected {
			return GlobalizationFailure
		}
	}
}

// trustRegionSubproblem solves the model problem at the current radius.
func (e *engine[X, Y, Z]) trustRegionSubproblem() (step trialStep[X], stop StopReason) {
	st, xs := e.st, e.xs
	x := e.x()
	step.s = xs.Init(x)
	k := krylov[X]{vs: xs, apply: e.hessvec, eps: st.EpsKrylov, maxIter: st.MaxCGIter}

	n := vspace.Zeros(xs, x)
	radius := st.Delta
	if st.equality() {
		if !e.normal(n) {
			return step, LinearSolveFailure
		}
		if nn := vspace.Norm(xs, n); nn > zeta*st.Delta {
			xs.Scal(zeta*st.Delta/nn, n)
		}
		nn := vspace.Norm(xs, n)
		radius = math.Sqrt(math.Max(st.Delta*st.Delta-nn*nn, 0))
		k.proj = e.project
	}

	// the tangential model gradient is ∇ₓL + Hn, the multiplier term vanishes in the null space
	b := xs.Init(x)
	e.hessvec(n, b)
	xs.Axpy(1, e.gradL, b)
	xs.Scal(-1, b)

	t := xs.Init(x)
	iter, ks := k.truncatedCG(b, radius, t)
	st.CGIterLast = iter
	st.CGIterTotal += iter
	st.Krylov = ks
	if k.failed {
		return step, LinearSolveFailure
	}

	xs.Copy(n, step.s)
	xs.Axpy(1, t, step.s)
	step.norm = vspace.Norm(xs, step.s)
	step.boundary = ks == TrustRegionViolated || ks == NegativeCurvature

	// q(s) = ⟨∇𝒇,s⟩ + ½⟨s,Hs⟩
	Hs := xs.Init(x)
	e.hessvec(step.s, Hs)
	q := xs.Innr(e.grad, step.s) + 0.5*xs.Innr(step.s, Hs)
	step.pred = -q

	if st.equality() {
		step.vpred = st.ConstrNorm - e.linearizedConstr(step.s)
		if step.vpred > 0 && st.ConstrNorm > epsilon {
			if need := q / ((1 - penalty) * step.vpred); need > st.Penalty {
				st.Penalty = need
			}
		}
		step.pred += st.Penalty * step.vpred
	}
	if !finiteVec(xs, step.s) {
		return step, NonFiniteValue
	}
	return step, NotConverged
}
