// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vspace

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Cone identifies the Jordan algebra of one block.
type Cone int

const (
	// Linear is the nonnegative orthant, x ≥ 0 elementwise.
	Linear Cone = iota
	// Quadratic is the second-order cone, x₀ ≥ ‖x̄‖, in arrow representation.
	Quadratic
	// Semidefinite is the cone of positive semidefinite matrices stored row-major.
	Semidefinite
)

// SecondOrderCone is an alias of Quadratic.
const SecondOrderCone = Quadratic

func (c Cone) String() string {
	switch c {
	case Linear:
		return "Linear"
	case Quadratic:
		return "SecondOrderCone"
	case Semidefinite:
		return "Semidefinite"
	}
	return fmt.Sprintf("Cone(%d)", int(c))
}

// UnmarshalText parses a cone name.
func (c *Cone) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "linear":
		*c = Linear
	case "quadratic", "secondordercone", "soc":
		*c = Quadratic
	case "semidefinite", "sdp":
		*c = Semidefinite
	default:
		return fmt.Errorf("unknown cone %q", text)
	}
	return nil
}

// Block is one cone in a ConeSet. Size is the number of entries of a Linear block,
// the dimension of a Quadratic block or the order of a Semidefinite block.
type Block struct {
	Kind Cone
	Size int
}

func (b Block) len() int {
	if b.Kind == Semidefinite {
		return b.Size * b.Size
	}
	return b.Size
}

// ConeSet is the direct sum of Jordan algebras described by its blocks.
type ConeSet struct {
	blocks  []Block
	offsets []int
	n       int
}

var _ EuclideanJordan[*ConeVector] = (*ConeSet)(nil)

// NewConeSet creates the space for the given blocks.
func NewConeSet(blocks ...Block) (*ConeSet, error) {
	if len(blocks) == 0 {
		return nil, errors.New("cone set requires at least one block")
	}
	s := &ConeSet{
		blocks:  slices.Clone(blocks),
		offsets: make([]int, len(blocks)+1),
	}
	for k, b := range blocks {
		switch {
		case b.Kind != Linear && b.Kind != Quadratic && b.Kind != Semidefinite:
			return nil, fmt.Errorf("unknown cone kind at block %d", k)
		case b.Size <= 0:
			return nil, fmt.Errorf("block %d size must greater than 0", k)
		case b.Kind == Quadratic && b.Size < 2:
			return nil, fmt.Errorf("second order cone at block %d needs size ≥ 2", k)
		}
		s.offsets[k+1] = s.offsets[k] + b.len()
	}
	s.n = s.offsets[len(blocks)]
	return s, nil
}

// Blocks returns the block description of the set.
func (s *ConeSet) Blocks() []Block {
	return slices.Clone(s.blocks)
}

// New allocates a zero vector of the set.
func (s *ConeSet) New() *ConeVector {
	return &ConeVector{set: s, Data: make([]float64, s.n)}
}

// ConeVector is an element of a ConeSet. Data holds the blocks back to back.
type ConeVector struct {
	set  *ConeSet
	Data []float64
}

// Cones returns the set the vector belongs to.
func (v *ConeVector) Cones() *ConeSet {
	return v.set
}

// Block returns the entries of block k.
func (v *ConeVector) Block(k int) []float64 {
	o := v.set.offsets
	return v.Data[o[k]:o[k+1]]
}

// At returns entry (i,j) of block k. Linear and Quadratic blocks use j = 0.
func (v *ConeVector) At(k, i, j int) float64 {
	return v.Data[v.index(k, i, j)]
}

// SetAt sets entry (i,j) of block k.
func (v *ConeVector) SetAt(k, i, j int, val float64) {
	v.Data[v.index(k, i, j)] = val
}

func (v *ConeVector) index(k, i, j int) int {
	b := v.set.blocks[k]
	if b.Kind == Semidefinite {
		if i < 0 || j < 0 || i >= b.Size || j >= b.Size {
			panic("vspace: cone index out of range")
		}
		return v.set.offsets[k] + i*b.Size + j
	}
	if j != 0 || i < 0 || i >= b.Size {
		panic("vspace: cone index out of range")
	}
	return v.set.offsets[k] + i
}

func (s *ConeSet) same(vs ...*ConeVector) {
	for _, v := range vs {
		if v.set == s {
			continue
		}
		if v.set == nil || !slices.Equal(v.set.blocks, s.blocks) {
			panic("vspace: cone vector does not belong to the set")
		}
	}
}

func (s *ConeSet) Init(x *ConeVector) *ConeVector {
	s.same(x)
	return s.New()
}

func (s *ConeSet) Copy(x, y *ConeVector) {
	s.same(x, y)
	copy(y.Data, x.Data)
}

func (s *ConeSet) Scal(alpha float64, x *ConeVector) {
	floats.Scale(alpha, x.Data)
}

func (s *ConeSet) Zero(x *ConeVector) {
	for i := range x.Data {
		x.Data[i] = 0
	}
}

func (s *ConeSet) Axpy(alpha float64, x, y *ConeVector) {
	s.same(x, y)
	floats.AddScaled(y.Data, alpha, x.Data)
}

func (s *ConeSet) Innr(x, y *ConeVector) float64 {
	s.same(x, y)
	return floats.Dot(x.Data, y.Data)
}

func (s *ConeSet) Rand(r *rand.Rand, x *ConeVector) {
	for i := range x.Data {
		x.Data[i] = r.NormFloat64()
	}
	s.Symm(x)
}

// Dim returns the number of stored entries.
func (s *ConeSet) Dim(x *ConeVector) int {
	return len(x.Data)
}

func (s *ConeSet) Prod(x, y, z *ConeVector) {
	s.same(x, y, z)
	for k, b := range s.blocks {
		xb, yb, zb := x.Block(k), y.Block(k), z.Block(k)
		switch b.Kind {
		case Linear:
			floats.MulTo(zb, xb, yb)
		case Quadratic:
			socProd(xb, yb, zb)
		case Semidefinite:
			sdpProd(b.Size, xb, yb, zb)
		}
	}
}

func (s *ConeSet) Id(x *ConeVector) {
	s.same(x)
	for k, b := range s.blocks {
		xb := x.Block(k)
		switch b.Kind {
		case Linear:
			for i := range xb {
				xb[i] = 1
			}
		case Quadratic:
			for i := range xb {
				xb[i] = 0
			}
			xb[0] = 1
		case Semidefinite:
			for i := range xb {
				xb[i] = 0
			}
			for i := 0; i < b.Size; i++ {
				xb[i*b.Size+i] = 1
			}
		}
	}
}

func (s *ConeSet) Inv(x, z *ConeVector) {
	s.same(x, z)
	for k, b := range s.blocks {
		xb, zb := x.Block(k), z.Block(k)
		switch b.Kind {
		case Linear:
			for i, v := range xb {
				zb[i] = 1 / v
			}
		case Quadratic:
			socInv(xb, zb)
		case Semidefinite:
			sdpInv(b.Size, xb, zb)
		}
	}
}

func (s *ConeSet) Linv(x, y, z *ConeVector) {
	s.same(x, y, z)
	for k, b := range s.blocks {
		xb, yb, zb := x.Block(k), y.Block(k), z.Block(k)
		switch b.Kind {
		case Linear:
			floats.DivTo(zb, yb, xb)
		case Quadratic:
			socLinv(xb, yb, zb)
		case Semidefinite:
			sdpLinv(b.Size, xb, yb, zb)
		}
	}
}

func (s *ConeSet) Barr(x *ConeVector) float64 {
	s.same(x)
	var barr float64
	for k, b := range s.blocks {
		xb := x.Block(k)
		switch b.Kind {
		case Linear:
			barr += linearBarr(xb)
		case Quadratic:
			barr += socBarr(xb)
		case Semidefinite:
			barr += sdpBarr(b.Size, xb)
		}
	}
	return barr
}

func (s *ConeSet) Srch(x, dx *ConeVector) float64 {
	s.same(x, dx)
	alpha := math.Inf(1)
	for k, b := range s.blocks {
		xb, db := x.Block(k), dx.Block(k)
		switch b.Kind {
		case Linear:
			alpha = math.Min(alpha, linearSrch(xb, db))
		case Quadratic:
			alpha = math.Min(alpha, socSrch(xb, db))
		case Semidefinite:
			alpha = math.Min(alpha, sdpSrch(b.Size, xb, db))
		}
	}
	return math.Min(1, alpha)
}

func (s *ConeSet) Symm(x *ConeVector) {
	s.same(x)
	for k, b := range s.blocks {
		if b.Kind == Semidefinite {
			symmetrize(b.Size, x.Block(k))
		}
	}
}
