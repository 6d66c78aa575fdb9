package numdiff

import (
	"math"
	"testing"

	"github.com/curioloop/coneopt/vspace"
)

func objV2(x, y []float64) {
	y[0] = x[0] * math.Sin(x[1])
	y[1] = x[1] * math.Cos(x[0])
	y[2] = math.Pow(x[0], 3) * math.Pow(x[1], -0.5)
}

func jacV2(x []float64) []float64 {
	return []float64{
		math.Sin(x[1]), x[0] * math.Cos(x[1]),
		-x[1] * math.Sin(x[0]), math.Cos(x[0]),
		3 * math.Pow(x[0], 2) * math.Pow(x[1], -0.5), -0.5 * math.Pow(x[0], 3) * math.Pow(x[1], -1.5),
	}
}

func objZero(x []float64) float64 {
	return x[0] * x[1]
}

func jacMul(jac, dx []float64) []float64 {
	n := len(dx)
	y := make([]float64, len(jac)/n)
	for i := range y {
		for j := range dx {
			y[i] += jac[i*n+j] * dx[j]
		}
	}
	return y
}

func relativeEqual(a, b []float64, rtol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > rtol*math.Max(1, math.Abs(b[i])) {
			return false
		}
	}
	return true
}

func TestSteps(t *testing.T) {
	h := Steps(1, 4)
	want := []float64{1e-1, 1e-2, 1e-3, 1e-4}
	switch {
	case !relativeEqual(h, want, 1e-15):
		t.Fatal("unexpected step sequence")
	case Steps(3, 2) != nil:
		t.Fatal("empty sequence expected")
	}
}

func TestOrder(t *testing.T) {
	if Forward.Order() != 1 || Central.Order() != 2 {
		t.Fatal("unexpected order")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("unknown method should panic")
		}
	}()
	Method(3).Order()
}

func TestDirectional(t *testing.T) {
	var rm vspace.Rm
	x := []float64{1.5, 0.7}
	dx := []float64{0.3, -1.1}
	want := 0.7*0.3 + 1.5*-1.1

	for _, m := range []Method{Forward, Central} {
		got := Directional[[]float64](rm, objZero, x, dx, 1e-7, m)
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("method %d: got %v want %v", m, got, want)
		}
	}
	if x[0] != 1.5 || x[1] != 0.7 {
		t.Fatal("input point modified")
	}
}

func TestVectorDirectional(t *testing.T) {
	var rm vspace.Rm
	x := []float64{1, 2}
	dx := []float64{-0.4, 0.9}
	want := jacMul(jacV2(x), dx)

	out := make([]float64, 3)
	VectorDirectional[[]float64, []float64](rm, rm, objV2, x, dx, 1e-5, Central, out)
	if !relativeEqual(out, want, 1e-8) {
		t.Fatalf("central: got %v want %v", out, want)
	}

	VectorDirectional[[]float64, []float64](rm, rm, objV2, x, dx, 3e-8, Forward, out)
	if !relativeEqual(out, want, 1e-6) {
		t.Fatalf("forward: got %v want %v", out, want)
	}
}

// The central error must shrink about 100× per decade of h until round-off dominates.
func TestCentralOrder(t *testing.T) {
	var rm vspace.Rm
	x := []float64{1, 2}
	dx := []float64{1, 1}
	f := func(x []float64) float64 { return math.Exp(x[0]) * math.Sin(x[1]) }
	want := math.Exp(1)*math.Sin(2) + math.Exp(1)*math.Cos(2)

	var prev float64
	for i, h := range Steps(1, 3) {
		err := math.Abs(Directional[[]float64](rm, f, x, dx, h, Central) - want)
		if i > 0 {
			if ratio := prev / err; ratio < 50 || ratio > 200 {
				t.Fatalf("h=%g: error ratio %v is not second order", h, ratio)
			}
		}
		prev = err
	}
}
