// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"
	"testing"

	"github.com/curioloop/coneopt/diagnostics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	switch {
	case p.MaxIter != 100:
		t.Fatal("TestDefaultParams: max iteration")
	case p.Delta != 100 || p.Eta1 != 0.1 || p.Eta2 != 0.9:
		t.Fatal("TestDefaultParams: trust region")
	case p.Mu0 != 1 || p.Sigma != 0.5 || p.Tau != 0.99:
		t.Fatal("TestDefaultParams: interior point")
	case p.DiagScheme != DiagnoseNever || p.HessianKind != UserDefined:
		t.Fatal("TestDefaultParams: enums")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		edit func(p *Params)
	}{
		{"max iter", func(p *Params) { p.MaxIter = 0 }},
		{"eps grad", func(p *Params) { p.EpsGrad = -1 }},
		{"eps dx", func(p *Params) { p.EpsDx = math.Inf(1) }},
		{"eps constr", func(p *Params) { p.EpsConstr = 0 }},
		{"eps mu", func(p *Params) { p.EpsMu = math.NaN() }},
		{"eps krylov", func(p *Params) { p.EpsKrylov = 1 }},
		{"max cg", func(p *Params) { p.MaxCGIter = 0 }},
		{"delta", func(p *Params) { p.Delta = 0 }},
		{"delta max", func(p *Params) { p.DeltaMax = p.Delta / 2 }},
		{"eta order", func(p *Params) { p.Eta1, p.Eta2 = 0.9, 0.1 }},
		{"eta range", func(p *Params) { p.Eta2 = 1 }},
		{"max rejected", func(p *Params) { p.MaxRejected = 0 }},
		{"mu0", func(p *Params) { p.Mu0 = 0 }},
		{"sigma", func(p *Params) { p.Sigma = 1 }},
		{"tau", func(p *Params) { p.Tau = 0 }},
		{"centrality", func(p *Params) { p.MuCentrality = 0 }},
		{"backtrack", func(p *Params) { p.MaxBacktrack = 0 }},
		{"retry", func(p *Params) { p.MaxRetry = -1 }},
		{"history", func(p *Params) { p.HistorySize = 1 }},
		{"hessian", func(p *Params) { p.HessianKind = HessianKind(9) }},
		{"stored", func(p *Params) { p.StoredHistory = -1 }},
		{"bfgs memory", func(p *Params) { p.HessianKind = BFGS }},
		{"scheme", func(p *Params) { p.DiagScheme = DiagnosticScheme(7) }},
		{"level", func(p *Params) { p.LDiag = diagnostics.Level(9) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := DefaultParams()
			c.edit(&p)
			assert.Error(t, p.Validate())
		})
	}

	p := DefaultParams()
	p.HessianKind, p.StoredHistory = SR1, 5
	p.DiagScheme, p.ZDiag = DiagnoseEveryIteration, diagnostics.EuclideanJordan
	assert.NoError(t, p.Validate())
}

func TestEnumText(t *testing.T) {
	var s DiagnosticScheme
	require.NoError(t, s.UnmarshalText([]byte("diagnosticsonly")))
	assert.Equal(t, DiagnoseOnly, s)
	assert.Error(t, s.UnmarshalText([]byte("sometimes")))
	text, err := DiagnoseEveryIteration.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "EveryIteration", string(text))

	var k HessianKind
	require.NoError(t, k.UnmarshalText([]byte("bfgs")))
	assert.Equal(t, BFGS, k)
	assert.Error(t, k.UnmarshalText([]byte("newton")))
	assert.Equal(t, "SR1", SR1.String())
	assert.Equal(t, "HessianKind(12)", HessianKind(12).String())
}

func TestStopReason(t *testing.T) {
	assert.Equal(t, "Converged", Converged.String())
	assert.Equal(t, "DiagnosticsOnly", DiagnosticsOnly.String())
	assert.Equal(t, "StopReason(42)", StopReason(42).String())
	for _, s := range []StopReason{MaxIterationExceeded, LinearSolveFailure, GlobalizationFailure, NonFiniteValue, UserAbort} {
		assert.True(t, s.Early(), s.String())
	}
	for _, s := range []StopReason{Converged, StepSmall, DiagnosticsOnly} {
		assert.False(t, s.Early(), s.String())
	}

	assert.False(t, PhaseIterating.Terminal())
	assert.True(t, PhaseConverged.Terminal())
	assert.Equal(t, "MaxIterationExceeded", PhaseMaxIterationExceeded.String())
	assert.Equal(t, "MaxItersExceeded", MaxKrylovIters.String())
}
