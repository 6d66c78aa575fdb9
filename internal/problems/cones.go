// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problems

import (
	"slices"

	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/solver"
	"github.com/curioloop/coneopt/vspace"
)

// distance returns 𝒇(𝐱) = ½‖𝐱 - c‖².
func distance(c []float64) functions.ScalarFunc[[]float64] {
	return functions.ScalarFunc[[]float64]{
		EvalFunc: func(x []float64) float64 {
			d := slices.Clone(x)
			rm.Axpy(-1, c, d)
			return 0.5 * rm.Innr(d, d)
		},
		GradFunc: func(x []float64, g []float64) {
			rm.Copy(x, g)
			rm.Axpy(-1, c, g)
		},
		HessvecFunc: func(x, dx []float64, H_dx []float64) {
			rm.Copy(dx, H_dx)
		},
	}
}

// identity is 𝒉(𝐱) = 𝐱.
var identity = functions.VectorFunc[[]float64, []float64]{
	EvalFunc: func(x []float64, z []float64) {
		rm.Copy(x, z)
	},
	PFunc: func(x, dx []float64, z []float64) {
		rm.Copy(dx, z)
	},
	PsFunc: func(x []float64, dz []float64, g []float64) {
		rm.Copy(dz, g)
	},
	ZeroFunc: zero,
}

// Orthant is min ½‖𝐱 - (2,-1)‖² subject to 𝐱 ≥ 0 with the nonnegative orthant
// as the Jordan algebra of ℝ². The solution is 𝐱* = (2, 0) with 𝐳* = (0, 1).
func Orthant(x0 []float64) (solver.Functions[[]float64, solver.None, []float64], *solver.State[[]float64, solver.None, []float64], error) {
	z := make([]float64, len(x0))
	rm.Id(z)
	st, err := solver.NewInequalityConstrained[[]float64, []float64](rm, rm, x0, z)
	return solver.Functions[[]float64, solver.None, []float64]{F: distance([]float64{2, -1}), H: identity}, st, err
}

// disk is 𝒉(𝐱) = (1, x₀, x₁) in the second order cone, that is ‖𝐱‖ ≤ 1.
var disk = functions.VectorFunc[[]float64, *vspace.ConeVector]{
	EvalFunc: func(x []float64, z *vspace.ConeVector) {
		z.SetAt(0, 0, 0, 1)
		z.SetAt(0, 1, 0, x[0])
		z.SetAt(0, 2, 0, x[1])
	},
	PFunc: func(x, dx []float64, z *vspace.ConeVector) {
		z.SetAt(0, 0, 0, 0)
		z.SetAt(0, 1, 0, dx[0])
		z.SetAt(0, 2, 0, dx[1])
	},
	PsFunc: func(x []float64, dz *vspace.ConeVector, g []float64) {
		g[0] = dz.At(0, 1, 0)
		g[1] = dz.At(0, 2, 0)
	},
	ZeroFunc: zero,
}

// Disk is min ½‖𝐱 - (2,1)‖² subject to ‖𝐱‖ ≤ 1 written as a second order cone.
// The solution is 𝐱* = (2,1)/√5.
func Disk(x0 []float64) (solver.Functions[[]float64, solver.None, *vspace.ConeVector], *solver.State[[]float64, solver.None, *vspace.ConeVector], error) {
	zs, err := vspace.NewConeSet(vspace.Block{Kind: vspace.SecondOrderCone, Size: 3})
	if err != nil {
		return solver.Functions[[]float64, solver.None, *vspace.ConeVector]{}, nil, err
	}
	z := zs.New()
	zs.Id(z)
	st, err := solver.NewInequalityConstrained[[]float64, *vspace.ConeVector](rm, zs, x0, z)
	return solver.Functions[[]float64, solver.None, *vspace.ConeVector]{F: distance([]float64{2, 1}), H: disk}, st, err
}

// sum is 𝒈(𝐱) = x₀ + x₁ - 1.
var sum = functions.VectorFunc[[]float64, []float64]{
	EvalFunc: func(x []float64, y []float64) {
		y[0] = x[0] + x[1] - 1
	},
	PFunc: func(x, dx []float64, y []float64) {
		y[0] = dx[0] + dx[1]
	},
	PsFunc: func(x []float64, dy []float64, g []float64) {
		g[0], g[1] = dy[0], dy[0]
	},
	ZeroFunc: zero,
}

// floor is 𝒉(𝐱) = x₁ - 0.7 as a one entry linear cone.
var floor = functions.VectorFunc[[]float64, *vspace.ConeVector]{
	EvalFunc: func(x []float64, z *vspace.ConeVector) {
		z.Data[0] = x[1] - 0.7
	},
	PFunc: func(x, dx []float64, z *vspace.ConeVector) {
		z.Data[0] = dx[1]
	},
	PsFunc: func(x []float64, dz *vspace.ConeVector, g []float64) {
		g[0], g[1] = 0, dz.Data[0]
	},
	ZeroFunc: zero,
}

// Mixed is min ½‖𝐱‖² subject to x₀ + x₁ = 1 and x₁ ≥ 0.7. The solution is
// 𝐱* = (0.3, 0.7) with 𝐲* = 0.3 and 𝐳* = 0.4.
func Mixed(x0 []float64) (solver.Functions[[]float64, []float64, *vspace.ConeVector], *solver.State[[]float64, []float64, *vspace.ConeVector], error) {
	zs, err := vspace.NewConeSet(vspace.Block{Kind: vspace.Linear, Size: 1})
	if err != nil {
		return solver.Functions[[]float64, []float64, *vspace.ConeVector]{}, nil, err
	}
	z := zs.New()
	zs.Id(z)
	sp := solver.Spaces[[]float64, []float64, *vspace.ConeVector]{X: rm, Y: rm, Z: zs}
	st, err := solver.NewState(sp, x0, []float64{0}, z)
	return solver.Functions[[]float64, []float64, *vspace.ConeVector]{F: HalfNorm, G: sum, H: floor}, st, err
}

func init() {
	register(Example{
		Name:        "orthant",
		Description: "min ½‖x - (2,-1)‖² s.t. x ≥ 0, optimum (2, 0)",
		Run: func(msg messaging.Messaging, p solver.Params, opts ...solver.Option) (Result, error) {
			fns, st, err := Orthant([]float64{1, 1})
			if err != nil {
				return Result{}, err
			}
			r, err := solve(msg, fns, st, p, opts)
			r.Z = slices.Clone(st.Z)
			return r, err
		},
	})
	register(Example{
		Name:        "disk",
		Description: "min ½‖x - (2,1)‖² s.t. (1, x) in the second order cone, optimum (2,1)/√5",
		Run: func(msg messaging.Messaging, p solver.Params, opts ...solver.Option) (Result, error) {
			fns, st, err := Disk([]float64{0, 0})
			if err != nil {
				return Result{}, err
			}
			r, err := solve(msg, fns, st, p, opts)
			r.Z = slices.Clone(st.Z.Data)
			return r, err
		},
	})
	register(Example{
		Name:        "mixed",
		Description: "min ½‖x‖² s.t. x₀ + x₁ = 1, x₁ ≥ 0.7, optimum (0.3, 0.7)",
		Run: func(msg messaging.Messaging, p solver.Params, opts ...solver.Option) (Result, error) {
			fns, st, err := Mixed([]float64{0.1, 1})
			if err != nil {
				return Result{}, err
			}
			r, err := solve(msg, fns, st, p, opts)
			r.Y = slices.Clone(st.Y)
			r.Z = slices.Clone(st.Z.Data)
			return r, err
		},
	})
}
