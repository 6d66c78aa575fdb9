// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"testing"

	"github.com/curioloop/coneopt/vspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	rm := vspace.Rm{}

	_, err := NewState(Spaces[[]float64, None, None]{}, nil, None{}, None{})
	assert.ErrorIs(t, err, ErrContractViolation)

	_, err = NewEqualityConstrained[[]float64, []float64](rm, nil, []float64{1}, []float64{0})
	assert.ErrorIs(t, err, ErrContractViolation)

	_, err = NewInequalityConstrained[[]float64, []float64](rm, rm, []float64{1, 1}, []float64{1, -1})
	assert.ErrorIs(t, err, ErrContractViolation)

	// a multiplier of the wrong shape panics inside the space
	zs, err := vspace.NewConeSet(vspace.Block{Kind: vspace.Linear, Size: 2})
	require.NoError(t, err)
	other, err := vspace.NewConeSet(vspace.Block{Kind: vspace.Linear, Size: 3})
	require.NoError(t, err)
	_, err = NewInequalityConstrained[[]float64, *vspace.ConeVector](rm, zs, []float64{1}, other.New())
	assert.ErrorIs(t, err, ErrContractViolation)

	x := []float64{1, 2}
	st, err := NewUnconstrained[[]float64](rm, x)
	require.NoError(t, err)
	x[0] = 5
	switch {
	case st.Current()[0] != 1:
		t.Fatal("TestNewState: initial guess not copied")
	case st.Delta != st.Params.Delta || st.Penalty != 1:
		t.Fatal("TestNewState: globalization not initialized")
	case st.Phase != PhaseInitializing || st.Stop != NotConverged:
		t.Fatal("TestNewState: not initializing")
	}
}

func TestPushHistory(t *testing.T) {
	rm := vspace.Rm{}
	st, err := NewUnconstrained[[]float64](rm, []float64{0})
	require.NoError(t, err)

	x := []float64{1}
	st.push(x)
	x[0] = 2
	st.push(x)
	x[0] = 3
	st.push(x)
	assert.Len(t, st.X, 2)
	assert.Equal(t, [][]float64{{3}, {2}}, st.X)

	st.HistorySize = 4
	x[0] = 4
	st.push(x)
	x[0] = 5
	st.push(x)
	x[0] = 6
	st.push(x)
	assert.Equal(t, [][]float64{{6}, {5}, {4}, {3}}, st.X)
}
