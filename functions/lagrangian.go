// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package functions

import "github.com/curioloop/coneopt/vspace"

// Lagrangian is the scalar function
//
//	L(𝐱) = 𝒇(𝐱) - ⟨𝐲,𝒈(𝐱)⟩ - ⟨𝐳,𝒉(𝐱)⟩
//
// at fixed multipliers. G and H may be nil, in which case the matching term vanishes.
// The multipliers are referenced, not copied.
type Lagrangian[X, Y, Z any] struct {
	XS vspace.VectorSpace[X]
	YS vspace.VectorSpace[Y]
	ZS vspace.VectorSpace[Z]

	F ScalarValuedFunction[X]
	G VectorValuedFunction[X, Y]
	H VectorValuedFunction[X, Z]

	Y Y
	Z Z
}

func (l *Lagrangian[X, Y, Z]) Eval(x X) float64 {
	v := l.F.Eval(x)
	if l.G != nil {
		gx := l.YS.Init(l.Y)
		l.G.Eval(x, gx)
		v -= l.YS.Innr(l.Y, gx)
	}
	if l.H != nil {
		hx := l.ZS.Init(l.Z)
		l.H.Eval(x, hx)
		v -= l.ZS.Innr(l.Z, hx)
	}
	return v
}

// Grad sets g ← ∇𝒇(𝐱) - 𝒈′(𝐱)*𝐲 - 𝒉′(𝐱)*𝐳.
func (l *Lagrangian[X, Y, Z]) Grad(x X, g X) {
	l.F.Grad(x, g)
	if l.G == nil && l.H == nil {
		return
	}
	t := l.XS.Init(x)
	if l.G != nil {
		l.G.Ps(x, l.Y, t)
		l.XS.Axpy(-1, t, g)
	}
	if l.H != nil {
		l.H.Ps(x, l.Z, t)
		l.XS.Axpy(-1, t, g)
	}
}

// Hessvec sets H_dx ← ∇²𝒇(𝐱)𝐝𝐱 - (𝒈″(𝐱)𝐝𝐱)*𝐲 - (𝒉″(𝐱)𝐝𝐱)*𝐳.
func (l *Lagrangian[X, Y, Z]) Hessvec(x, dx X, H_dx X) {
	l.F.Hessvec(x, dx, H_dx)
	if l.G == nil && l.H == nil {
		return
	}
	t := l.XS.Init(x)
	if l.G != nil {
		l.G.Pps(x, dx, l.Y, t)
		l.XS.Axpy(-1, t, H_dx)
	}
	if l.H != nil {
		l.H.Pps(x, dx, l.Z, t)
		l.XS.Axpy(-1, t, H_dx)
	}
}
