// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problems

import (
	"math"

	"github.com/curioloop/coneopt/diagnostics"
	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/solver"
)

// Rosenbrock is 𝒇(𝐱) = (1 - x₀)² + 100(x₁ - x₀²)².
var Rosenbrock = functions.ScalarFunc[[]float64]{
	EvalFunc: func(x []float64) float64 {
		a, b := 1-x[0], x[1]-x[0]*x[0]
		return a*a + 100*b*b
	},
	GradFunc: func(x []float64, g []float64) {
		b := x[1] - x[0]*x[0]
		g[0] = -2*(1-x[0]) - 400*x[0]*b
		g[1] = 200 * b
	},
	HessvecFunc: func(x, dx []float64, H_dx []float64) {
		h00 := 2 - 400*x[1] + 1200*x[0]*x[0]
		h01 := -400 * x[0]
		H_dx[0] = h00*dx[0] + h01*dx[1]
		H_dx[1] = h01*dx[0] + 200*dx[1]
	},
}

// Utility is 𝒈 : ℝ² → ℝ³
//
//	𝒈(𝐱) = (cos x₀ sin x₁, 3x₀²x₁ + x₁³, log x₀ + 3x₁⁵)
var Utility = functions.VectorFunc[[]float64, []float64]{
	EvalFunc: func(x []float64, y []float64) {
		y[0] = math.Cos(x[0]) * math.Sin(x[1])
		y[1] = 3*x[0]*x[0]*x[1] + math.Pow(x[1], 3)
		y[2] = math.Log(x[0]) + 3*math.Pow(x[1], 5)
	},
	PFunc: func(x, dx []float64, y []float64) {
		s0, c0, s1, c1 := math.Sin(x[0]), math.Cos(x[0]), math.Sin(x[1]), math.Cos(x[1])
		y[0] = -s0*s1*dx[0] + c0*c1*dx[1]
		y[1] = 6*x[0]*x[1]*dx[0] + (3*x[0]*x[0]+3*x[1]*x[1])*dx[1]
		y[2] = dx[0]/x[0] + 15*math.Pow(x[1], 4)*dx[1]
	},
	PsFunc: func(x []float64, dy []float64, z []float64) {
		s0, c0, s1, c1 := math.Sin(x[0]), math.Cos(x[0]), math.Sin(x[1]), math.Cos(x[1])
		z[0] = -s0*s1*dy[0] + 6*x[0]*x[1]*dy[1] + dy[2]/x[0]
		z[1] = c0*c1*dy[0] + (3*x[0]*x[0]+3*x[1]*x[1])*dy[1] + 15*math.Pow(x[1], 4)*dy[2]
	},
	PpsFunc: func(x, dx []float64, dy []float64, z []float64) {
		s0, c0, s1, c1 := math.Sin(x[0]), math.Cos(x[0]), math.Sin(x[1]), math.Cos(x[1])
		// Σᵢ dyᵢ ∇²𝒈ᵢ(𝐱) 𝐝𝐱
		h00 := -c0*s1*dy[0] + 6*x[1]*dy[1] - dy[2]/(x[0]*x[0])
		h01 := -s0*c1*dy[0] + 6*x[0]*dy[1]
		h11 := -c0*s1*dy[0] + 6*x[1]*dy[1] + 60*math.Pow(x[1], 3)*dy[2]
		z[0] = h00*dx[0] + h01*dx[1]
		z[1] = h01*dx[0] + h11*dx[1]
	},
}

// DiagnosticLevels are the levels used by the diagnostic example.
var DiagnosticLevels = diagnostics.Levels{
	F: diagnostics.SecondOrder,
	G: diagnostics.SecondOrder,
	X: diagnostics.Basic,
	Y: diagnostics.EuclideanJordan,
	L: diagnostics.SecondOrder,
}

// Checks is the Rosenbrock function under the Utility constraint at (1.2, 2.3).
// It is only meant to be diagnosed.
func Checks() (solver.Functions[[]float64, []float64, solver.None], *solver.State[[]float64, []float64, solver.None], error) {
	st, err := solver.NewEqualityConstrained[[]float64, []float64](rm, rm, []float64{1.2, 2.3}, make([]float64, 3))
	return solver.Functions[[]float64, []float64, solver.None]{F: Rosenbrock, G: Utility}, st, err
}

func init() {
	register(Example{
		Name:        "diagnostic_checks",
		Description: "Rosenbrock with a nonlinear constraint ℝ² → ℝ³, diagnostics only",
		Run: func(msg messaging.Messaging, p solver.Params, opts ...solver.Option) (Result, error) {
			fns, st, err := Checks()
			if err != nil {
				return Result{}, err
			}
			p.DiagScheme = solver.DiagnoseOnly
			p.FDiag, p.GDiag, p.LDiag = DiagnosticLevels.F, DiagnosticLevels.G, DiagnosticLevels.L
			p.XDiag, p.YDiag = DiagnosticLevels.X, DiagnosticLevels.Y
			return solve(msg, fns, st, p, opts)
		},
	})
}
