// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vspace

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Second-order cone blocks x = (x₀, x̄) use the arrow product
//   x ∘ y = (xᵀy, x₀ȳ + y₀x̄)
// with identity e = (1, 0, …, 0) and determinant det x = x₀² - ‖x̄‖².

func socDet(x []float64) float64 {
	xbar := x[1:]
	return x[0]*x[0] - floats.Dot(xbar, xbar)
}

func socProd(x, y, z []float64) {
	x0, y0 := x[0], y[0]
	z0 := floats.Dot(x, y)
	for i := 1; i < len(z); i++ {
		z[i] = x0*y[i] + y0*x[i]
	}
	z[0] = z0
}

// x⁻¹ = (x₀, -x̄) / det x
func socInv(x, z []float64) {
	det := socDet(x)
	z[0] = x[0] / det
	for i := 1; i < len(z); i++ {
		z[i] = -x[i] / det
	}
}

// Solve x ∘ z = y with the arrow matrix of x:
//
//	z₀ = (x₀y₀ - x̄ᵀȳ) / det x
//	z̄  = (ȳ - z₀x̄) / x₀
func socLinv(x, y, z []float64) {
	x0 := x[0]
	z0 := (x0*y[0] - floats.Dot(x[1:], y[1:])) / socDet(x)
	for i := 1; i < len(z); i++ {
		z[i] = (y[i] - z0*x[i]) / x0
	}
	z[0] = z0
}

func socBarr(x []float64) float64 {
	det := socDet(x)
	if !(x[0] > 0) || !(det > 0) {
		return math.Inf(1)
	}
	return -0.5 * math.Log(det)
}

// socSrch returns the smallest positive root of
//
//	q(α) = (x₀+αd₀)² - ‖x̄+αd̄‖² = aα² + bα + c
//
// which is where the ray leaves the cone, +Inf when it never does.
func socSrch(x, d []float64) float64 {
	a := socDet(d)
	b := 2 * (x[0]*d[0] - floats.Dot(x[1:], d[1:]))
	c := socDet(x)

	inf := math.Inf(1)
	if a == 0 {
		if b < 0 {
			return -c / b
		}
		return inf
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return inf
	}
	qq := -0.5 * (b + math.Copysign(math.Sqrt(disc), b))
	alpha := inf
	for _, r := range [2]float64{qq / a, c / qq} {
		if r > 0 && r < alpha {
			alpha = r
		}
	}
	return alpha
}
