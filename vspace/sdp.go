// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vspace

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Semidefinite blocks hold an m×m matrix row-major with the symmetrized product
//   X ∘ Y = (XY + YX) / 2
// identity I and barrier -log det X.

func symmetrize(m int, x []float64) {
	for i := 0; i < m; i++ {
		for j := i + 1; j < m; j++ {
			v := 0.5 * (x[i*m+j] + x[j*m+i])
			x[i*m+j], x[j*m+i] = v, v
		}
	}
}

// symView returns a symmetric view of the symmetric part of x.
func symView(m int, x []float64) *mat.SymDense {
	s := make([]float64, m*m)
	copy(s, x)
	symmetrize(m, s)
	return mat.NewSymDense(m, s)
}

func sdpProd(m int, x, y, z []float64) {
	X := mat.NewDense(m, m, x)
	Y := mat.NewDense(m, m, y)
	var xy, yx mat.Dense
	xy.Mul(X, Y)
	yx.Mul(Y, X)
	xy.Add(&xy, &yx)
	xy.Scale(0.5, &xy)
	copy(z, xy.RawMatrix().Data)
}

// spectral holds X = Q diag(λ) Qᵀ.
type spectral struct {
	m    int
	vals []float64
	vecs mat.Dense
}

func eigen(m int, x []float64) (*spectral, bool) {
	var es mat.EigenSym
	if ok := es.Factorize(symView(m, x), true); !ok {
		return nil, false
	}
	sp := &spectral{m: m, vals: es.Values(nil)}
	es.VectorsTo(&sp.vecs)
	return sp, true
}

// apply writes Q diag(f(λ)) Qᵀ into dst.
func (sp *spectral) apply(f func(float64) float64, dst []float64) {
	d := make([]float64, sp.m)
	for i, v := range sp.vals {
		d[i] = f(v)
	}
	var qd, r mat.Dense
	qd.Mul(&sp.vecs, mat.NewDiagDense(sp.m, d))
	r.Mul(&qd, sp.vecs.T())
	copy(dst, r.RawMatrix().Data)
}

func sdpInv(m int, x, z []float64) {
	sp, ok := eigen(m, x)
	if !ok {
		panic("vspace: eigen decomposition failed")
	}
	sp.apply(func(v float64) float64 { return 1 / v }, z)
}

// Solve the Lyapunov equation (XZ + ZX)/2 = Y in the eigenbasis of X:
//
//	Z̃ᵢⱼ = 2Ỹᵢⱼ / (λᵢ + λⱼ) with Ỹ = QᵀYQ
func sdpLinv(m int, x, y, z []float64) {
	sp, ok := eigen(m, x)
	if !ok {
		panic("vspace: eigen decomposition failed")
	}
	var t, yt mat.Dense
	t.Mul(sp.vecs.T(), mat.NewDense(m, m, y))
	yt.Mul(&t, &sp.vecs)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			yt.Set(i, j, 2*yt.At(i, j)/(sp.vals[i]+sp.vals[j]))
		}
	}
	t.Mul(&sp.vecs, &yt)
	var r mat.Dense
	r.Mul(&t, sp.vecs.T())
	copy(z, r.RawMatrix().Data)
}

func sdpBarr(m int, x []float64) float64 {
	var ch mat.Cholesky
	if ok := ch.Factorize(symView(m, x)); !ok {
		return math.Inf(1)
	}
	return -ch.LogDet()
}

// sdpSrch finds sup{α : X + αD ⪰ 0}. With M = X^{-½} D X^{-½} the bound is
// -1/λₘᵢₙ(M) when λₘᵢₙ(M) < 0 and +Inf otherwise.
func sdpSrch(m int, x, d []float64) float64 {
	sp, ok := eigen(m, x)
	if !ok {
		return 0
	}
	for _, v := range sp.vals {
		if !(v > 0) {
			return 0
		}
	}
	isqrt := make([]float64, m*m)
	sp.apply(func(v float64) float64 { return 1 / math.Sqrt(v) }, isqrt)

	S := mat.NewDense(m, m, isqrt)
	var t, M mat.Dense
	t.Mul(S, symView(m, d))
	M.Mul(&t, S)

	sm, ok := eigen(m, M.RawMatrix().Data)
	if !ok {
		return 0
	}
	lmin := math.Inf(1)
	for _, v := range sm.vals {
		lmin = math.Min(lmin, v)
	}
	if lmin >= 0 {
		return math.Inf(1)
	}
	return -1 / lmin
}
