// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diagnostics validates functions and vector spaces against their own contracts
// with finite differences and algebraic identities, without running an optimization.
package diagnostics

import (
	"math"
	"math/rand/v2"

	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/numdiff"
)

const (
	// DefaultFDTol is the largest accepted relative error of a finite difference check.
	DefaultFDTol = 1e-6
	// DefaultAlgTol is the largest accepted relative error of an algebraic identity.
	DefaultAlgTol = 1e-8
	// tiny keeps relative errors defined when the reference value vanishes.
	tiny = 1e-16
)

// Check is the outcome of one diagnostic.
type Check struct {
	Name     string
	Steps    []float64 // finite difference steps, nil for algebraic checks
	Errors   []float64 // relative error per step
	MinError float64
	Passed   bool
}

// Report collects the checks of one run.
type Report struct {
	Checks []Check
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Find returns the first check with the given name.
func (r *Report) Find(name string) (Check, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

// Tester runs checks and writes every result to Msg.
// The zero value is usable: it prints nothing and uses a fixed seed.
type Tester struct {
	Msg    messaging.Messaging
	Rand   *rand.Rand
	Steps  []float64 // finite difference steps, 10⁻¹ … 10⁻⁸ by default
	Coarse bool      // use forward instead of central differences
	FDTol  float64
	AlgTol float64
	Report Report
}

func (t *Tester) init() {
	if t.Msg == nil {
		t.Msg = messaging.Discard
	}
	if t.Rand == nil {
		t.Rand = rand.New(rand.NewPCG(1, 2))
	}
	if t.Steps == nil {
		t.Steps = numdiff.Steps(1, 8)
	}
	if t.FDTol <= 0 {
		t.FDTol = DefaultFDTol
	}
	if t.AlgTol <= 0 {
		t.AlgTol = DefaultAlgTol
	}
}

func (t *Tester) method() numdiff.Method {
	if t.Coarse {
		return numdiff.Forward
	}
	return numdiff.Central
}

func relErr(got, want float64) float64 {
	return relNorm(math.Abs(got-want), math.Abs(want))
}

func relNorm(diff, ref float64) float64 {
	if ref == 0 {
		return diff
	}
	return diff / (tiny + ref)
}

// finite runs a finite difference check given the relative error at each step.
func (t *Tester) finite(title, name string, errAt func(h float64) float64) Check {
	t.init()
	messaging.Printf(t.Msg, "%s with order %d differences.", title, t.method().Order())
	c := Check{Name: name, Steps: t.Steps, Errors: make([]float64, len(t.Steps)), MinError: math.Inf(1)}
	for i, h := range t.Steps {
		e := errAt(h)
		c.Errors[i] = e
		if e < c.MinError {
			c.MinError = e
		}
		messaging.Printf(t.Msg, "  step %.1e: relative error %.3e", h, e)
	}
	c.Passed = c.MinError <= t.FDTol
	t.verdict(&c)
	return c
}

// algebraic runs a check of an identity given its relative error.
func (t *Tester) algebraic(title, name string, err float64) Check {
	t.init()
	c := Check{Name: name, Errors: []float64{err}, MinError: err, Passed: err <= t.AlgTol}
	messaging.Printf(t.Msg, "%s: relative error %.3e", title, err)
	t.verdict(&c)
	return c
}

func (t *Tester) verdict(c *Check) {
	if c.Passed {
		messaging.Printf(t.Msg, "  %s check passed (min relative error %.3e)", c.Name, c.MinError)
	} else {
		messaging.Errorf(t.Msg, "%s check failed (min relative error %.3e)", c.Name, c.MinError)
	}
	t.Report.Checks = append(t.Report.Checks, *c)
}
