// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problems

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/solver"
	"github.com/curioloop/coneopt/vspace"
	"pgregory.net/rapid"
)

func rmData(v []float64) []float64 { return v }
func coneData(v *vspace.ConeVector) []float64 { return v.Data }
func noData(solver.None) []float64 { return nil }

func fill(t *rapid.T, label string, v []float64) {
	for i := range v {
		v[i] = rapid.Float64Range(-2, 2).Draw(t, fmt.Sprintf("%s[%d]", label, i))
	}
}

func sameBits(t *rapid.T, name string, a, b []float64) {
	if len(a) != len(b) {
		t.Fatalf("%s: lengths %d and %d", name, len(a), len(b))
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Fatalf("%s: entry %d is %v then %v", name, i, a[i], b[i])
		}
	}
}

// twice evaluates eval twice and requires bit-identical results.
func twice(t *rapid.T, name string, eval func() []float64) {
	sameBits(t, name, eval(), eval())
}

func vectorTwice[Y any](t *rapid.T, name string, g functions.VectorValuedFunction[[]float64, Y], ys vspace.VectorSpace[Y], data func(Y) []float64, x, dx []float64, dy Y) {
	out := func(f func(Y)) func() []float64 {
		return func() []float64 {
			v := vspace.Zeros(ys, dy)
			f(v)
			return slices.Clone(data(v))
		}
	}
	adj := func(f func([]float64)) func() []float64 {
		return func() []float64 {
			v := vspace.Zeros[[]float64](rm, x)
			f(v)
			return v
		}
	}
	twice(t, name+".Eval", out(func(v Y) { g.Eval(x, v) }))
	twice(t, name+".P", out(func(v Y) { g.P(x, dx, v) }))
	twice(t, name+".Ps", adj(func(v []float64) { g.Ps(x, dy, v) }))
	twice(t, name+".Pps", adj(func(v []float64) { g.Pps(x, dx, dy, v) }))
}

// checkPure evaluates every operation of fns twice at random arguments and
// requires identical results, unchanged arguments and an unchanged state.
func checkPure[Y, Z any](t *rapid.T, name string, fns solver.Functions[[]float64, Y, Z], st *solver.State[[]float64, Y, Z], yData func(Y) []float64, zData func(Z) []float64) {
	sp := st.Spaces
	x := st.Current()
	fill(t, name+".x", x)
	dx := vspace.Zeros[[]float64](rm, x)
	fill(t, name+".dx", dx)
	x0, dx0 := slices.Clone(x), slices.Clone(dx)
	var y0, z0 []float64
	if sp.Y != nil {
		y0 = slices.Clone(yData(st.Y))
	}
	if sp.Z != nil {
		z0 = slices.Clone(zData(st.Z))
	}

	twice(t, name+".F.Eval", func() []float64 { return []float64{fns.F.Eval(x)} })
	twice(t, name+".F.Grad", func() []float64 {
		g := vspace.Zeros[[]float64](rm, x)
		fns.F.Grad(x, g)
		return g
	})
	twice(t, name+".F.Hessvec", func() []float64 {
		Hdx := vspace.Zeros[[]float64](rm, x)
		fns.F.Hessvec(x, dx, Hdx)
		return Hdx
	})

	if sp.Y != nil {
		dy := vspace.Zeros(sp.Y, st.Y)
		fill(t, name+".dy", yData(dy))
		dy0 := slices.Clone(yData(dy))
		vectorTwice(t, name+".G", fns.G, sp.Y, yData, x, dx, dy)
		sameBits(t, name+" dy", dy0, yData(dy))
		sameBits(t, name+" state y", y0, yData(st.Y))
	}
	if sp.Z != nil {
		dz := vspace.Zeros[Z](sp.Z, st.Z)
		fill(t, name+".dz", zData(dz))
		sp.Z.Symm(dz)
		dz0 := slices.Clone(zData(dz))
		vectorTwice[Z](t, name+".H", fns.H, sp.Z, zData, x, dx, dz)
		sameBits(t, name+" dz", dz0, zData(dz))
		sameBits(t, name+" state z", z0, zData(st.Z))
	}

	sameBits(t, name+" x", x0, x)
	sameBits(t, name+" dx", dx0, dx)
}

func TestContractsArePure(t *testing.T) {
	start := []float64{0.5, 1.5}
	rapid.Check(t, func(t *rapid.T) {
		{
			fns, st, err := Quadratic(slices.Clone(start))
			if err != nil {
				t.Fatal(err)
			}
			checkPure(t, "quadratic", fns, st, noData, noData)
		}
		{
			fns, st, err := Equality(slices.Clone(start), 1)
			if err != nil {
				t.Fatal(err)
			}
			checkPure(t, "equality", fns, st, rmData, noData)
		}
		{
			fns, st, err := SDP(slices.Clone(start))
			if err != nil {
				t.Fatal(err)
			}
			checkPure(t, "sdp", fns, st, noData, coneData)
		}
		{
			fns, st, err := Orthant(slices.Clone(start))
			if err != nil {
				t.Fatal(err)
			}
			checkPure(t, "orthant", fns, st, noData, rmData)
		}
		{
			fns, st, err := Disk(slices.Clone(start))
			if err != nil {
				t.Fatal(err)
			}
			checkPure(t, "disk", fns, st, noData, coneData)
		}
		{
			fns, st, err := Mixed(slices.Clone(start))
			if err != nil {
				t.Fatal(err)
			}
			checkPure(t, "mixed", fns, st, rmData, coneData)
		}
		{
			fns, st, err := Checks()
			if err != nil {
				t.Fatal(err)
			}
			checkPure(t, "diagnostic_checks", fns, st, rmData, noData)
		}
	})
}
