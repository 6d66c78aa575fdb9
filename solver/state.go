// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"fmt"

	"github.com/curioloop/coneopt/functions"
	"github.com/curioloop/coneopt/vspace"
)

// None is the element of the space of an absent constraint.
type None struct{}

// Spaces are the spaces of the variable 𝐱, the equality multiplier 𝐲 and the
// cone multiplier 𝐳. Y is nil without equality constraints and Z is nil without
// cone constraints.
type Spaces[X, Y, Z any] struct {
	X vspace.VectorSpace[X]
	Y vspace.VectorSpace[Y]
	Z vspace.EuclideanJordan[Z]
}

// Functions bundles the objective 𝒇, the equality constraint 𝒈(𝐱) = 0 and
// the cone constraint 𝒉(𝐱) ⪰ 0. G and H are optional but must agree with the
// spaces of the state they are solved with.
type Functions[X, Y, Z any] struct {
	F functions.ScalarValuedFunction[X]
	G functions.VectorValuedFunction[X, Y]
	H functions.VectorValuedFunction[X, Z]
}

// State is the record mutated in place by GetMin.
type State[X, Y, Z any] struct {
	Params

	Spaces Spaces[X, Y, Z]

	// X is the iterate history, most recent first. After the first iteration it
	// holds the current and the previous iterates at least.
	X []X
	Y Y // equality multiplier, meaningful only with equality constraints
	Z Z // cone multiplier, strictly interior with cone constraints

	Delta   float64 // trust region radius
	Mu      float64 // barrier parameter
	Penalty float64 // merit penalty ν
	MuTyp   float64 // complementarity at the initial guess

	Iter        int // accepted steps
	CGIterTotal int
	CGIterLast  int
	Rejected    int // rejected trust region steps
	Retries     int // barrier reductions after a failed line search
	FEvals      int // objective evaluations

	F             float64 // 𝒇(𝐱)
	GradNorm      float64 // ‖∇ₓL‖
	GradNormTyp   float64
	DxNorm        float64 // ‖𝐝𝐱‖ of the last accepted step
	ConstrNorm    float64 // ‖𝒈(𝐱)‖
	ConstrNormTyp float64
	MuEst         float64 // ⟨𝒉(𝐱),𝐳⟩/⟨𝐞,𝐞⟩
	Krylov        KrylovStop

	Stop  StopReason
	Phase Phase
}

// NewState creates a state at the initial guess x with multipliers y and z.
// The guesses are copied. y is ignored when sp.Y is nil, z when sp.Z is nil.
func NewState[X, Y, Z any](sp Spaces[X, Y, Z], x X, y Y, z Z) (st *State[X, Y, Z], err error) {
	if sp.X == nil {
		return nil, fmt.Errorf("%w: variable space is required", ErrContractViolation)
	}

	defer func() {
		if r := recover(); r != nil {
			st, err = nil, fmt.Errorf("%w: %v", ErrContractViolation, r)
		}
	}()

	st = &State[X, Y, Z]{
		Params:  DefaultParams(),
		Spaces:  sp,
		X:       []X{vspace.Clone(sp.X, x)},
		Penalty: 1,
	}
	st.Delta = st.Params.Delta
	st.Mu = st.Params.Mu0
	if sp.Y != nil {
		st.Y = vspace.Clone(sp.Y, y)
	}
	if sp.Z != nil {
		st.Z = vspace.Clone(sp.Z, z)
		sp.Z.Symm(st.Z)
		if !vspace.Interior(sp.Z, st.Z) {
			return nil, fmt.Errorf("%w: cone multiplier must be strictly interior", ErrContractViolation)
		}
	}
	return st, nil
}

// NewUnconstrained creates a state for min 𝒇(𝐱).
func NewUnconstrained[X any](xs vspace.VectorSpace[X], x X) (*State[X, None, None], error) {
	return NewState(Spaces[X, None, None]{X: xs}, x, None{}, None{})
}

// NewEqualityConstrained creates a state for min 𝒇(𝐱) subject to 𝒈(𝐱) = 0.
func NewEqualityConstrained[X, Y any](xs vspace.VectorSpace[X], ys vspace.VectorSpace[Y], x X, y Y) (*State[X, Y, None], error) {
	if ys == nil {
		return nil, fmt.Errorf("%w: equality multiplier space is required", ErrContractViolation)
	}
	return NewState(Spaces[X, Y, None]{X: xs, Y: ys}, x, y, None{})
}

// NewInequalityConstrained creates a state for min 𝒇(𝐱) subject to 𝒉(𝐱) ⪰ 0.
func NewInequalityConstrained[X, Z any](xs vspace.VectorSpace[X], zs vspace.EuclideanJordan[Z], x X, z Z) (*State[X, None, Z], error) {
	if zs == nil {
		return nil, fmt.Errorf("%w: cone multiplier space is required", ErrContractViolation)
	}
	return NewState(Spaces[X, None, Z]{X: xs, Z: zs}, x, None{}, z)
}

// Current returns the current iterate.
func (st *State[X, Y, Z]) Current() X {
	return st.X[0]
}

// push records x as the current iterate and trims the history.
func (st *State[X, Y, Z]) push(x X) {
	n := min(len(st.X)+1, st.HistorySize)
	if cap(st.X) < n {
		hist := make([]X, len(st.X), n)
		copy(hist, st.X)
		st.X = hist
	}
	var recycled X
	reuse := len(st.X) == n
	if reuse {
		recycled = st.X[n-1]
	}
	st.X = st.X[:n]
	copy(st.X[1:], st.X[:n-1])
	if !reuse {
		recycled = st.Spaces.X.Init(x)
	}
	st.Spaces.X.Copy(x, recycled)
	st.X[0] = recycled
}

func (st *State[X, Y, Z]) equality() bool {
	return st.Spaces.Y != nil
}

func (st *State[X, Y, Z]) inequality() bool {
	return st.Spaces.Z != nil
}
