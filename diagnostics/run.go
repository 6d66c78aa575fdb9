// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"slices"

	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/vspace"
)

// Problem is the set of functions and spaces checked by Run.
// G, H and their spaces may be nil. X, Y and Z are the points the checks are
// performed at, Y and Z also give the shape of constraint values.
type Problem[X, Y, Z any] struct {
	XS vspace.VectorSpace[X]
	YS vspace.VectorSpace[Y]
	ZS vspace.VectorSpace[Z]

	F functions.ScalarValuedFunction[X]
	G functions.VectorValuedFunction[X, Y]
	H functions.VectorValuedFunction[X, Z]

	X X
	Y Y
	Z Z
}

// Levels selects the depth of each group of checks.
type Levels struct {
	F, G, H Level // objective and constraints
	X, Y, Z Level // vector spaces
	L       Level // Lagrangian at the multipliers of the problem
}

// Run performs the checks selected by lv and returns the checks it performed.
// A space checked at EuclideanJordan level must implement vspace.EuclideanJordan,
// otherwise a failed check is recorded.
func Run[X, Y, Z any](t *Tester, p Problem[X, Y, Z], lv Levels) Report {
	t.init()
	start := len(t.Report.Checks)

	if p.F != nil && lv.F > None {
		scalarChecks(t, "f", p.XS, p.F, p.X, lv.F)
	}
	if p.G != nil && p.YS != nil && lv.G > None {
		vectorChecks(t, "g", p.XS, p.YS, p.G, p.X, p.Y, lv.G)
	}
	if p.H != nil && p.ZS != nil && lv.H > None {
		vectorChecks(t, "h", p.XS, p.ZS, p.H, p.X, p.Z, lv.H)
	}

	if lv.X > None {
		spaceChecks(t, "X", p.XS, p.X, lv.X)
	}
	if p.YS != nil && lv.Y > None {
		spaceChecks(t, "Y", p.YS, p.Y, lv.Y)
	}
	if p.ZS != nil && lv.Z > None {
		spaceChecks(t, "Z", p.ZS, p.Z, lv.Z)
	}

	if p.F != nil && lv.L > None {
		l := &functions.Lagrangian[X, Y, Z]{XS: p.XS, YS: p.YS, ZS: p.ZS, F: p.F, Y: p.Y, Z: p.Z}
		if p.YS != nil {
			l.G = p.G
		}
		if p.ZS != nil {
			l.H = p.H
		}
		scalarChecks(t, "L", p.XS, l, p.X, lv.L)
	}

	return Report{Checks: slices.Clone(t.Report.Checks[start:])}
}

func scalarChecks[X any](t *Tester, name string, xs vspace.VectorSpace[X], f functions.ScalarValuedFunction[X], x X, lv Level) {
	Gradient(t, name, xs, f, x)
	if lv >= SecondOrder {
		Hessian(t, name, xs, f, x)
		HessianSymmetry(t, name, xs, f, x)
	}
}

func vectorChecks[X, Y any](t *Tester, name string, xs vspace.VectorSpace[X], ys vspace.VectorSpace[Y], g functions.VectorValuedFunction[X, Y], x X, y Y, lv Level) {
	Derivative(t, name, xs, ys, g, x, y)
	Adjoint(t, name, xs, ys, g, x, y)
	if lv >= SecondOrder {
		SecondDerivative(t, name, xs, ys, g, x, y)
	}
}

func spaceChecks[V any](t *Tester, name string, vs vspace.VectorSpace[V], x V, lv Level) {
	Space(t, name, vs, x)
	if lv < EuclideanJordan {
		return
	}
	if ej, ok := vs.(vspace.EuclideanJordan[V]); ok {
		Jordan(t, name, ej, x)
		return
	}
	messaging.Errorf(t.Msg, "Space %s does not implement the Jordan algebra", name)
	t.verdict(&Check{Name: name + " jordan algebra", MinError: 1})
}
