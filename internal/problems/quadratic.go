// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problems

import (
	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/solver"
)

// HalfNorm is 𝒇(𝐱) = ½‖𝐱‖².
var HalfNorm = functions.ScalarFunc[[]float64]{
	EvalFunc: func(x []float64) float64 {
		return 0.5 * rm.Innr(x, x)
	},
	GradFunc: func(x []float64, g []float64) {
		rm.Copy(x, g)
	},
	HessvecFunc: func(x, dx []float64, H_dx []float64) {
		rm.Copy(dx, H_dx)
	},
}

// Quadratic is min ½‖𝐱‖² from x0.
func Quadratic(x0 []float64) (solver.Functions[[]float64, solver.None, solver.None], *solver.State[[]float64, solver.None, solver.None], error) {
	st, err := solver.NewUnconstrained[[]float64](rm, x0)
	return solver.Functions[[]float64, solver.None, solver.None]{F: HalfNorm}, st, err
}

func init() {
	register(Example{
		Name:        "quadratic",
		Description: "min ½‖x‖² from (1,1,1,1,1), solved in one iteration",
		Run: func(msg messaging.Messaging, p solver.Params, opts ...solver.Option) (Result, error) {
			fns, st, err := Quadratic([]float64{1, 1, 1, 1, 1})
			if err != nil {
				return Result{}, err
			}
			return solve(msg, fns, st, p, opts)
		},
	})
}
