// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/curioloop/coneopt/diagnostics"
)

// DiagnosticScheme decides when the diagnostics run.
type DiagnosticScheme int

const (
	// DiagnoseNever skips the diagnostics.
	DiagnoseNever DiagnosticScheme = iota
	// DiagnoseEveryIteration checks the functions at the initial guess and at every new iterate.
	DiagnoseEveryIteration
	// DiagnoseOnly checks the functions and spaces at the initial guess then stops.
	DiagnoseOnly
)

var schemeNames = [...]string{"Never", "EveryIteration", "DiagnosticsOnly"}

func (s DiagnosticScheme) String() string {
	if s >= 0 && int(s) < len(schemeNames) {
		return schemeNames[s]
	}
	return fmt.Sprintf("DiagnosticScheme(%d)", int(s))
}

func (s *DiagnosticScheme) UnmarshalText(text []byte) error {
	for i, name := range schemeNames {
		if strings.EqualFold(string(text), name) {
			*s = DiagnosticScheme(i)
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic scheme %q", text)
}

func (s DiagnosticScheme) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// HessianKind selects the operator used as the Hessian of the Lagrangian.
type HessianKind int

const (
	// UserDefined uses the second derivatives of the functions.
	UserDefined HessianKind = iota
	// Identity uses I.
	Identity
	// ScaledIdentity uses ‖∇ₓL‖ I.
	ScaledIdentity
	// BFGS uses a limited-memory BFGS approximation.
	BFGS
	// SR1 uses a limited-memory symmetric rank-one approximation.
	SR1
)

var hessianNames = [...]string{"UserDefined", "Identity", "ScaledIdentity", "BFGS", "SR1"}

func (k HessianKind) String() string {
	if k >= 0 && int(k) < len(hessianNames) {
		return hessianNames[k]
	}
	return fmt.Sprintf("HessianKind(%d)", int(k))
}

func (k *HessianKind) UnmarshalText(text []byte) error {
	for i, name := range hessianNames {
		if strings.EqualFold(string(text), name) {
			*k = HessianKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown Hessian kind %q", text)
}

func (k HessianKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Params holds the tunable parameters of the algorithm.
// The yaml keys are the names recognized in parameter files.
type Params struct {
	MaxIter int `yaml:"max_iter"` // iteration cap

	// Stopping tolerances. Each one is relative to the value at the initial guess
	// with a floor of one: the test is ‖·‖ ≤ ε × max(1, typical).
	EpsGrad   float64 `yaml:"eps_grad"`   // stationarity ‖∇ₓL‖
	EpsDx     float64 `yaml:"eps_dx"`     // step size ‖𝐝𝐱‖ relative to ‖𝐱‖
	EpsConstr float64 `yaml:"eps_constr"` // feasibility ‖𝒈(𝐱)‖
	EpsMu     float64 `yaml:"eps_mu"`     // complementarity ⟨𝒉(𝐱),𝐳⟩/⟨𝐞,𝐞⟩

	EpsKrylov float64 `yaml:"eps_krylov"`  // relative residual of the Krylov solves
	MaxCGIter int     `yaml:"max_cg_iter"` // inner iteration cap of the Krylov solves

	// Trust region.
	Delta       float64 `yaml:"delta"`        // initial radius
	DeltaMax    float64 `yaml:"delta_max"`    // largest radius
	Eta1        float64 `yaml:"eta1"`         // accept when ρ > η₁
	Eta2        float64 `yaml:"eta2"`         // grow when ρ > η₂ and the step reaches the boundary
	MaxRejected int     `yaml:"max_rejected"` // consecutive rejected steps

	// Interior point.
	Mu0          float64 `yaml:"mu0"`           // initial barrier parameter
	Sigma        float64 `yaml:"sigma"`         // barrier contraction factor
	Tau          float64 `yaml:"tau"`           // fraction to the boundary
	MuCentrality float64 `yaml:"mu_centrality"` // θ in ‖𝒉(𝐱)∘𝐳 - μ𝐞‖ ≤ θμ‖𝐞‖
	MaxBacktrack int     `yaml:"max_backtrack"` // halvings of the line search
	MaxRetry     int     `yaml:"max_retry"`     // barrier reductions after a failed line search

	HistorySize   int         `yaml:"history_size"`   // retained iterates, at least 2
	HessianKind   HessianKind `yaml:"H_type"`         // Hessian operator
	StoredHistory int         `yaml:"stored_history"` // quasi-Newton pairs

	DiagScheme DiagnosticScheme  `yaml:"dscheme"`
	FDiag      diagnostics.Level `yaml:"f_diag"`
	GDiag      diagnostics.Level `yaml:"g_diag"`
	HDiag      diagnostics.Level `yaml:"h_diag"`
	XDiag      diagnostics.Level `yaml:"x_diag"`
	YDiag      diagnostics.Level `yaml:"y_diag"`
	ZDiag      diagnostics.Level `yaml:"z_diag"`
	LDiag      diagnostics.Level `yaml:"L_diag"`
}

// DefaultParams returns the default parameters.
func DefaultParams() Params {
	return Params{
		MaxIter:   100,
		EpsGrad:   1e-8,
		EpsDx:     1e-10,
		EpsConstr: 1e-8,
		EpsMu:     1e-8,

		EpsKrylov: 1e-10,
		MaxCGIter: 100,

		Delta:       100,
		DeltaMax:    1e10,
		Eta1:        0.1,
		Eta2:        0.9,
		MaxRejected: 30,

		Mu0:          1,
		Sigma:        0.5,
		Tau:          0.99,
		MuCentrality: 0.5,
		MaxBacktrack: 30,
		MaxRetry:     5,

		HistorySize: 2,
		HessianKind: UserDefined,
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func unit(v float64) bool {
	return v > 0 && v < 1
}

// Validate reports the first parameter out of its range.
func (p *Params) Validate() (err error) {
	switch {
	case p.MaxIter <= 0:
		err = errors.New("max iteration must greater than 0")
	case !positive(p.EpsGrad):
		err = errors.New("gradient tolerance must greater than 0")
	case !positive(p.EpsDx):
		err = errors.New("step tolerance must greater than 0")
	case !positive(p.EpsConstr):
		err = errors.New("feasibility tolerance must greater than 0")
	case !positive(p.EpsMu):
		err = errors.New("complementarity tolerance must greater than 0")
	case !unit(p.EpsKrylov):
		err = errors.New("krylov tolerance must within (0,1)")
	case p.MaxCGIter <= 0:
		err = errors.New("max CG iteration must greater than 0")
	case !positive(p.Delta):
		err = errors.New("trust region radius must greater than 0")
	case !(p.DeltaMax >= p.Delta):
		err = errors.New("max trust region radius must not less than radius")
	case !unit(p.Eta1) || !unit(p.Eta2) || p.Eta1 >= p.Eta2:
		err = errors.New("trust region thresholds must satisfy 0 < eta1 < eta2 < 1")
	case p.MaxRejected <= 0:
		err = errors.New("max rejected steps must greater than 0")
	case !positive(p.Mu0):
		err = errors.New("barrier parameter must greater than 0")
	case !unit(p.Sigma):
		err = errors.New("barrier contraction must within (0,1)")
	case !unit(p.Tau):
		err = errors.New("fraction to the boundary must within (0,1)")
	case !positive(p.MuCentrality):
		err = errors.New("centrality must greater than 0")
	case p.MaxBacktrack <= 0:
		err = errors.New("max backtrack must greater than 0")
	case p.MaxRetry < 0:
		err = errors.New("max retry must not less than 0")
	case p.HistorySize < 2:
		err = errors.New("history size must not less than 2")
	case p.HessianKind < UserDefined || p.HessianKind > SR1:
		err = fmt.Errorf("unknown Hessian kind %d", int(p.HessianKind))
	case p.StoredHistory < 0:
		err = errors.New("stored history must not less than 0")
	case (p.HessianKind == BFGS || p.HessianKind == SR1) && p.StoredHistory == 0:
		err = fmt.Errorf("%v requires stored history greater than 0", p.HessianKind)
	case p.DiagScheme < DiagnoseNever || p.DiagScheme > DiagnoseOnly:
		err = fmt.Errorf("unknown diagnostic scheme %d", int(p.DiagScheme))
	}
	if err != nil {
		return
	}
	levels := []struct {
		key string
		lv  diagnostics.Level
	}{
		{"f_diag", p.FDiag}, {"g_diag", p.GDiag}, {"h_diag", p.HDiag},
		{"x_diag", p.XDiag}, {"y_diag", p.YDiag}, {"z_diag", p.ZDiag}, {"L_diag", p.LDiag},
	}
	for _, l := range levels {
		if l.lv < diagnostics.None || l.lv > diagnostics.EuclideanJordan {
			return fmt.Errorf("%s has unknown diagnostic level %d", l.key, int(l.lv))
		}
	}
	return nil
}

func (p *Params) levels() diagnostics.Levels {
	return diagnostics.Levels{
		F: p.FDiag, G: p.GDiag, H: p.HDiag,
		X: p.XDiag, Y: p.YDiag, Z: p.ZDiag,
		L: p.LDiag,
	}
}
