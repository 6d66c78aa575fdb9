// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"errors"
	"fmt"
)

// ErrContractViolation reports inconsistent inputs: spaces, initial guesses
// and functions that do not agree, or parameters out of range.
var ErrContractViolation = errors.New("contract violation")

// StopReason is the reason the algorithm stopped.
type StopReason int

const (
	// NotConverged is the reason before the algorithm stops.
	NotConverged StopReason = iota
	// Converged means stationarity, feasibility and complementarity fall under their tolerances.
	Converged
	// StepSmall means the step is too small to make progress.
	StepSmall
	// MaxIterationExceeded means the iteration cap was reached.
	MaxIterationExceeded
	// LinearSolveFailure means a solve with 𝒈′𝒈′* failed, or the interior point step kept
	// failing after every barrier reduction.
	LinearSolveFailure
	// GlobalizationFailure means the trust region rejected too many steps in a row.
	GlobalizationFailure
	// NonFiniteValue means a function produced NaN or Inf.
	NonFiniteValue
	// UserAbort means the abort hook requested a stop.
	UserAbort
	// DiagnosticsOnly means only the diagnostics were requested.
	DiagnosticsOnly
)

var stopNames = [...]string{
	"NotConverged",
	"Converged",
	"StepSmall",
	"MaxIterationExceeded",
	"LinearSolveFailure",
	"GlobalizationFailure",
	"NonFiniteValue",
	"UserAbort",
	"DiagnosticsOnly",
}

func (s StopReason) String() string {
	if s >= 0 && int(s) < len(stopNames) {
		return stopNames[s]
	}
	return fmt.Sprintf("StopReason(%d)", int(s))
}

// Early reports whether the algorithm stopped before reaching a solution.
func (s StopReason) Early() bool {
	switch s {
	case NotConverged, Converged, StepSmall, DiagnosticsOnly:
		return false
	}
	return true
}

// Phase is the stage of the outer loop.
type Phase int

const (
	// PhaseInitializing validates the inputs and evaluates the initial guess.
	PhaseInitializing Phase = iota
	// PhaseIterating runs the outer loop.
	PhaseIterating
	// PhaseConverged ends a solve stopped by Converged or StepSmall.
	PhaseConverged
	// PhaseMaxIterationExceeded ends a solve that reached MaxIter.
	PhaseMaxIterationExceeded
	// PhaseDiagnosing ends a solve run with DiagnoseOnly.
	PhaseDiagnosing
	// PhaseStopped ends a solve stopped early for any other reason.
	PhaseStopped
)

var phaseNames = [...]string{"Initializing", "Iterating", "Converged", "MaxIterationExceeded", "Diagnosing", "Stopped"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Terminal reports whether the phase ends the outer loop.
func (p Phase) Terminal() bool {
	return p != PhaseInitializing && p != PhaseIterating
}

// KrylovStop is the reason a truncated conjugate gradient solve stopped.
type KrylovStop int

const (
	KrylovNotRun KrylovStop = iota
	// RelativeErrorSmall means the residual fell under its relative tolerance.
	RelativeErrorSmall
	// MaxKrylovIters means the inner iteration cap was reached.
	MaxKrylovIters
	// TrustRegionViolated means the iterate was truncated at the trust region boundary.
	TrustRegionViolated
	// NegativeCurvature means a direction of non-positive curvature was found.
	NegativeCurvature
)

var krylovNames = [...]string{"NotRun", "RelativeErrorSmall", "MaxItersExceeded", "TrustRegionViolated", "NegativeCurvature"}

func (k KrylovStop) String() string {
	if k >= 0 && int(k) < len(krylovNames) {
		return krylovNames[k]
	}
	return fmt.Sprintf("KrylovStop(%d)", int(k))
}
