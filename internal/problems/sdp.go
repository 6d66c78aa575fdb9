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

// Linear objective 𝒇(𝐱) = x₁ - x₀.
var slope = functions.ScalarFunc[[]float64]{
	EvalFunc: func(x []float64) float64 {
		return -x[0] + x[1]
	},
	GradFunc: func(x []float64, g []float64) {
		g[0], g[1] = -1, 1
	},
	HessvecFunc: func(x, dx []float64, H_dx []float64) {
		rm.Zero(H_dx)
	},
}

// parabola is the matrix constraint
//
//	𝒉(𝐱) = ⎡x₁ x₀⎤ ⪰ 0
//	       ⎣x₀ 1 ⎦
//
// which holds iff x₁ ≥ x₀².
var parabola = functions.VectorFunc[[]float64, *vspace.ConeVector]{
	EvalFunc: func(x []float64, z *vspace.ConeVector) {
		z.SetAt(0, 0, 0, x[1])
		z.SetAt(0, 0, 1, x[0])
		z.SetAt(0, 1, 0, x[0])
		z.SetAt(0, 1, 1, 1)
	},
	PFunc: func(x, dx []float64, z *vspace.ConeVector) {
		z.SetAt(0, 0, 0, dx[1])
		z.SetAt(0, 0, 1, dx[0])
		z.SetAt(0, 1, 0, dx[0])
		z.SetAt(0, 1, 1, 0)
	},
	PsFunc: func(x []float64, dz *vspace.ConeVector, g []float64) {
		g[0] = dz.At(0, 0, 1) + dz.At(0, 1, 0)
		g[1] = dz.At(0, 0, 0)
	},
	ZeroFunc: zero,
}

// SDP is min x₁ - x₀ subject to [[x₁, x₀], [x₀, 1]] ⪰ 0, whose solution is
// 𝐱* = (0.5, 0.25) with 𝐳* = [[1, -0.5], [-0.5, 0.25]].
func SDP(x0 []float64) (solver.Functions[[]float64, solver.None, *vspace.ConeVector], *solver.State[[]float64, solver.None, *vspace.ConeVector], error) {
	zs, err := vspace.NewConeSet(vspace.Block{Kind: vspace.Semidefinite, Size: 2})
	if err != nil {
		return solver.Functions[[]float64, solver.None, *vspace.ConeVector]{}, nil, err
	}
	z := zs.New()
	zs.Id(z)
	st, err := solver.NewInequalityConstrained[[]float64, *vspace.ConeVector](rm, zs, x0, z)
	return solver.Functions[[]float64, solver.None, *vspace.ConeVector]{F: slope, H: parabola}, st, err
}

func init() {
	register(Example{
		Name:        "sdp",
		Description: "min x₁ - x₀ s.t. [[x₁, x₀], [x₀, 1]] ⪰ 0, optimum (0.5, 0.25)",
		Run: func(msg messaging.Messaging, p solver.Params, opts ...solver.Option) (Result, error) {
			fns, st, err := SDP([]float64{1.2, 3.1})
			if err != nil {
				return Result{}, err
			}
			r, err := solve(msg, fns, st, p, opts)
			r.Z = slices.Clone(st.Z.Data)
			return r, err
		},
	})
}
