package numdiff

import (
	"math"

	"github.com/curioloop/coneopt/vspace"
)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

// Order returns the order of accuracy of the method.
func (m Method) Order() int {
	switch m {
	case Forward:
		return 1
	case Central:
		return 2
	}
	panic("unknown method")
}

// Steps returns the decreasing sequence h = 10⁻ᵏ for k = lo, …, hi.
func Steps(lo, hi int) []float64 {
	if lo > hi {
		return nil
	}
	h := make([]float64, 0, hi-lo+1)
	for k := lo; k <= hi; k++ {
		h = append(h, math.Pow(10, -float64(k)))
	}
	return h
}

// Directional estimates the directional derivative ⟨∇𝒇(𝐱),𝐝𝐱⟩ of a scalar function.
//   - Forward : (𝒇(𝐱+h𝐝𝐱) - 𝒇(𝐱)) / h
//   - Central : (𝒇(𝐱+h𝐝𝐱) - 𝒇(𝐱-h𝐝𝐱)) / 2h
func Directional[X any](xs vspace.VectorSpace[X], f func(X) float64, x, dx X, h float64, m Method) float64 {
	xh := vspace.Clone(xs, x)
	xs.Axpy(h, dx, xh)
	fp := f(xh)
	switch m {
	case Forward:
		return (fp - f(x)) / h
	case Central:
		xs.Copy(x, xh)
		xs.Axpy(-h, dx, xh)
		return (fp - f(xh)) / (2 * h)
	}
	panic("unknown method")
}

// VectorDirectional estimates 𝑭′(𝐱)𝐝𝐱 for 𝑭 : X → Y evaluated as f(x, y) and stores it in out.
func VectorDirectional[X, Y any](xs vspace.VectorSpace[X], ys vspace.VectorSpace[Y], f func(X, Y), x, dx X, h float64, m Method, out Y) {
	xh := vspace.Clone(xs, x)
	fm := ys.Init(out)

	xs.Axpy(h, dx, xh)
	f(xh, out)
	switch m {
	case Forward:
		f(x, fm)
		ys.Axpy(-1, fm, out)
		ys.Scal(1/h, out)
	case Central:
		xs.Copy(x, xh)
		xs.Axpy(-h, dx, xh)
		f(xh, fm)
		ys.Axpy(-1, fm, out)
		ys.Scal(1/(2*h), out)
	default:
		panic("unknown method")
	}
}
