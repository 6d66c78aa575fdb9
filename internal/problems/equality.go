// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problems

import (
	"slices"

	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/solver"
)

// Line is 𝒈(𝐱) = 2x₀ + x₁ - 2.
var Line = functions.VectorFunc[[]float64, []float64]{
	EvalFunc: func(x []float64, y []float64) {
		y[0] = 2*x[0] + x[1] - 2
	},
	PFunc: func(x, dx []float64, y []float64) {
		y[0] = 2*dx[0] + dx[1]
	},
	PsFunc: func(x []float64, dy []float64, z []float64) {
		z[0] = 2 * dy[0]
		z[1] = dy[0]
	},
	ZeroFunc: zero,
}

// Equality is min ½‖𝐱‖² subject to 2x₀ + x₁ = 2, whose solution is
// 𝐱* = (0.8, 0.4) with 𝐲* = 0.4.
func Equality(x0 []float64, y0 float64) (solver.Functions[[]float64, []float64, solver.None], *solver.State[[]float64, []float64, solver.None], error) {
	st, err := solver.NewEqualityConstrained[[]float64, []float64](rm, rm, x0, []float64{y0})
	return solver.Functions[[]float64, []float64, solver.None]{F: HalfNorm, G: Line}, st, err
}

func init() {
	register(Example{
		Name:        "equality",
		Description: "min ½‖x‖² s.t. 2x₀ + x₁ = 2, optimum (0.8, 0.4)",
		Run: func(msg messaging.Messaging, p solver.Params, opts ...solver.Option) (Result, error) {
			fns, st, err := Equality([]float64{2.1, 1.1}, 1)
			if err != nil {
				return Result{}, err
			}
			r, err := solve(msg, fns, st, p, opts)
			r.Y = slices.Clone(st.Y)
			return r, err
		},
	})
}
