// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/curioloop/coneopt/diagnostics"
	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/vspace"
)

// GetMin minimizes 𝒇 subject to the constraints present in fns, starting from
// and updating st. The algorithm is chosen by the constraints:
//   - none: trust region with truncated CG
//   - equality only: composite step trust region
//   - cone: primal-dual interior point, with or without equality
//
// Progress lines and a final summary are written to msg. The returned error is
// non-nil only for contract violations, every other outcome is reported by
// st.Stop.
func GetMin[X, Y, Z any](msg messaging.Messaging, fns Functions[X, Y, Z], st *State[X, Y, Z], opts ...Option) (err error) {
	if msg == nil {
		msg = messaging.Discard
	}
	if st == nil {
		return fmt.Errorf("%w: state is required", ErrContractViolation)
	}

	e := &engine[X, Y, Z]{st: st, fns: fns, msg: msg}
	for _, opt := range opts {
		opt(&e.opt)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: evaluation panicked in phase %v: %v", ErrContractViolation, st.Phase, r)
			st.Phase = PhaseStopped
			messaging.Errorf(msg, "%v", err)
		}
	}()

	if err = e.initialize(); err != nil {
		st.Phase = PhaseStopped
		messaging.Errorf(msg, "%v", err)
		return
	}
	if !st.Phase.Terminal() {
		e.mainLoop()
	}
	return nil
}

// initialize checks the inputs, evaluates the functions at the initial guess
// and runs the diagnostics.
func (e *engine[X, Y, Z]) initialize() error {
	st, fns := e.st, e.fns
	st.Phase = PhaseInitializing
	st.Stop = NotConverged

	if err := st.Params.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrContractViolation, err)
	}

	sp := st.Spaces
	switch {
	case sp.X == nil || len(st.X) == 0:
		return fmt.Errorf("%w: state has no initial guess", ErrContractViolation)
	case fns.F == nil:
		return fmt.Errorf("%w: objective is required", ErrContractViolation)
	case (fns.G == nil) != (sp.Y == nil):
		return fmt.Errorf("%w: equality constraint and multiplier space must be given together", ErrContractViolation)
	case (fns.H == nil) != (sp.Z == nil):
		return fmt.Errorf("%w: cone constraint and multiplier space must be given together", ErrContractViolation)
	}

	e.xs, e.ys, e.zs = sp.X, sp.Y, sp.Z
	x := e.x()
	e.grad = e.xs.Init(x)
	e.gradL = e.xs.Init(x)
	e.lag = &functions.Lagrangian[X, Y, Z]{XS: sp.X, YS: sp.Y, ZS: sp.Z, F: fns.F, G: fns.G, H: fns.H, Y: st.Y, Z: st.Z}

	st.Iter, st.CGIterTotal, st.CGIterLast = 0, 0, 0
	st.Rejected, st.Retries, st.FEvals = 0, 0, 0
	st.DxNorm, st.Krylov = 0, KrylovNotRun
	st.Delta = st.Params.Delta
	st.Penalty = 1

	if err := e.probe(); err != nil {
		return err
	}

	if st.HessianKind == BFGS || st.HessianKind == SR1 {
		e.qn = newQuasiNewton(e.xs, st.HessianKind, st.StoredHistory)
	}

	if st.DiagScheme != DiagnoseNever {
		e.dt = &diagnostics.Tester{Msg: e.msg}
		e.diagnose(st.levels())
		if st.DiagScheme == DiagnoseOnly {
			st.Phase = PhaseDiagnosing
			e.finish(DiagnosticsOnly)
			return nil
		}
	}

	if stop := e.refresh(); stop != NotConverged {
		e.finish(stop)
		return nil
	}
	st.GradNormTyp = st.GradNorm
	st.ConstrNormTyp = st.ConstrNorm
	st.MuTyp = st.MuEst
	return nil
}

// probe evaluates every function once at the initial guess so that functions
// disagreeing with the spaces fail before the first iteration.
func (e *engine[X, Y, Z]) probe() (err error) {
	st, fns := e.st, e.fns
	x := e.x()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: evaluation at the initial guess panicked: %v", ErrContractViolation, r)
		}
	}()

	dx := vspace.Clone(e.xs, x)
	st.F = e.evalF(x)
	fns.F.Grad(x, e.grad)
	fns.F.Hessvec(x, dx, e.gradL)

	if st.equality() {
		e.gx = e.ys.Init(st.Y)
		fns.G.Eval(x, e.gx)
		fns.G.P(x, dx, e.ys.Init(st.Y))
		fns.G.Ps(x, st.Y, e.xs.Init(x))
		fns.G.Pps(x, dx, st.Y, e.xs.Init(x))
	}

	if st.inequality() {
		e.hx = e.zs.Init(st.Z)
		fns.H.Eval(x, e.hx)
		fns.H.P(x, dx, e.zs.Init(st.Z))
		fns.H.Ps(x, st.Z, e.xs.Init(x))
		fns.H.Pps(x, dx, st.Z, e.xs.Init(x))

		e.e = e.zs.Init(st.Z)
		e.zs.Id(e.e)
		e.ee = e.zs.Innr(e.e, e.e)
		st.Mu = st.Mu0
		if !vspace.Interior(e.zs, e.hx) {
			return errors.Join(ErrContractViolation, errors.New("initial guess must be strictly feasible for the cone constraint"))
		}
		if !vspace.Interior(e.zs, st.Z) {
			return errors.Join(ErrContractViolation, errors.New("cone multiplier must be strictly interior"))
		}
	}
	return nil
}

// diagnose runs the checks selected by lv at the current iterate.
func (e *engine[X, Y, Z]) diagnose(lv diagnostics.Levels) {
	st := e.st
	p := diagnostics.Problem[X, Y, Z]{XS: e.xs, F: e.fns.F, X: e.x()}
	if st.equality() {
		p.YS, p.G, p.Y = e.ys, e.fns.G, st.Y
	}
	if st.inequality() {
		p.ZS, p.H, p.Z = e.zs, e.fns.H, st.Z
	}
	report := diagnostics.Run(e.dt, p, lv)
	if failed := report.Failed(); len(failed) > 0 {
		messaging.Errorf(e.msg, "%d of %d diagnostic checks failed", len(failed), len(report.Checks))
	}
}

// mainLoop iterates until a stopping condition holds.
func (e *engine[X, Y, Z]) mainLoop() {
	st := e.st
	st.Phase = PhaseIterating
	e.printInit()
	e.record(NotConverged)

	for {
		if e.converged() {
			e.finish(Converged)
			return
		}
		if st.Iter >= st.MaxIter {
			e.finish(MaxIterationExceeded)
			return
		}
		if e.opt.abort != nil && e.opt.abort() {
			e.finish(UserAbort)
			return
		}

		var stop StopReason
		if st.inequality() {
			stop = e.interiorPointStep()
		} else {
			stop = e.trustRegionStep()
		}
		if stop != NotConverged {
			e.finish(stop)
			return
		}

		st.Iter++
		if stop = e.refresh(); stop != NotConverged {
			e.finish(stop)
			return
		}
		e.updateQuasiNewton()
		if st.DiagScheme == DiagnoseEveryIteration {
			lv := st.levels()
			e.diagnose(diagnostics.Levels{F: lv.F, G: lv.G, H: lv.H, L: lv.L})
		}

		e.printIter()
		e.record(NotConverged)
	}
}

// finish records the stop reason and moves to the matching terminal phase.
func (e *engine[X, Y, Z]) finish(stop StopReason) {
	st := e.st
	st.Stop = stop
	switch stop {
	case Converged, StepSmall:
		st.Phase = PhaseConverged
	case MaxIterationExceeded:
		st.Phase = PhaseMaxIterationExceeded
	case DiagnosticsOnly:
		st.Phase = PhaseDiagnosing
	default:
		st.Phase = PhaseStopped
	}
	e.printExit()
	e.record(stop)
}

func (e *engine[X, Y, Z]) record(stop StopReason) {
	st := e.st
	if e.opt.recorder == nil {
		return
	}
	e.opt.recorder.Record(Info{
		Iter:       st.Iter,
		Phase:      st.Phase,
		Stop:       stop,
		F:          st.F,
		GradNorm:   st.GradNorm,
		ConstrNorm: st.ConstrNorm,
		DxNorm:     st.DxNorm,
		MuEst:      st.MuEst,
		Mu:         st.Mu,
		Delta:      st.Delta,
		CGIter:     st.CGIterLast,
		Krylov:     st.Krylov,
		Rejected:   e.rejectedSinceRecord(),
	})
}

// rejectedSinceRecord returns the rejected steps since the previous record.
func (e *engine[X, Y, Z]) rejectedSinceRecord() int {
	n := e.st.Rejected - e.recorded
	e.recorded = e.st.Rejected
	return n
}

// printInit writes the header of the iteration table and the initial iterate.
func (e *engine[X, Y, Z]) printInit() {
	st := e.st
	e.printSize()
	var b strings.Builder
	fmt.Fprintf(&b, "%6s %12s %11s %11s", "iter", "f(x)", "||grad||", "||dx||")
	if st.equality() {
		fmt.Fprintf(&b, " %11s", "||g(x)||")
	}
	if st.inequality() {
		fmt.Fprintf(&b, " %11s %11s", "mu_est", "mu")
	} else {
		fmt.Fprintf(&b, " %11s", "delta")
	}
	fmt.Fprintf(&b, " %6s  %s", "kry", "kry stop")
	e.msg.Print(b.String())
	e.printIter()
}

// printSize writes the dimensions the spaces know about.
func (e *engine[X, Y, Z]) printSize() {
	st := e.st
	var parts []string
	if n := vspace.Dim[X](e.xs, e.x()); n >= 0 {
		parts = append(parts, fmt.Sprintf("variables %d", n))
	}
	if st.equality() {
		if m := vspace.Dim[Y](e.ys, st.Y); m >= 0 {
			parts = append(parts, fmt.Sprintf("equality constraints %d", m))
		}
	}
	if st.inequality() {
		if m := vspace.Dim[Z](e.zs, st.Z); m >= 0 {
			parts = append(parts, fmt.Sprintf("cone entries %d", m))
		}
	}
	if len(parts) > 0 {
		e.msg.Print("Problem size: " + strings.Join(parts, ", "))
	}
}

// printIter writes one line of the iteration table.
func (e *engine[X, Y, Z]) printIter() {
	st := e.st
	var b strings.Builder
	fmt.Fprintf(&b, "%6d %12.5e %11.4e", st.Iter, st.F, st.GradNorm)
	if st.Iter == 0 {
		fmt.Fprintf(&b, " %11s", "-")
	} else {
		fmt.Fprintf(&b, " %11.4e", st.DxNorm)
	}
	if st.equality() {
		fmt.Fprintf(&b, " %11.4e", st.ConstrNorm)
	}
	if st.inequality() {
		fmt.Fprintf(&b, " %11.4e %11.4e", st.MuEst, st.Mu)
	} else {
		fmt.Fprintf(&b, " %11.4e", st.Delta)
	}
	if st.Iter == 0 {
		fmt.Fprintf(&b, " %6s  %s", "-", "-")
	} else {
		fmt.Fprintf(&b, " %6d  %v", st.CGIterLast, st.Krylov)
	}
	e.msg.Print(b.String())
}

// printExit writes the final summary naming the stop reason.
func (e *engine[X, Y, Z]) printExit() {
	st := e.st
	line := fmt.Sprintf("Optimization stopped: %v. Iterations %d, evaluations %d, CG iterations %d, f(x) = %.9e",
		st.Stop, st.Iter, st.FEvals, st.CGIterTotal, st.F)
	if st.Stop.Early() {
		e.msg.Error(line)
	} else {
		e.msg.Print(line)
	}
}
