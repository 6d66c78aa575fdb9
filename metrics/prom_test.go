// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"strings"
	"testing"

	"github.com/curioloop/coneopt/internal/problems"
	"github.com/curioloop/coneopt/solver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewProm(reg)

	p.Record(solver.Info{Iter: 0, Delta: 100, Mu: 1})
	p.Record(solver.Info{Iter: 1, CGIter: 3, Rejected: 2, Delta: 50, Mu: 1})
	p.Record(solver.Info{Iter: 2, CGIter: 1, Delta: 100, Mu: 0.5})
	p.Record(solver.Info{Iter: 2, Stop: solver.Converged, Delta: 100, Mu: 0.5})

	assert.Equal(t, 2.0, testutil.ToFloat64(p.Iterations))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.Rejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Stops.WithLabelValues("Converged")))
	assert.Equal(t, 0.5, testutil.ToFloat64(p.Mu))
	assert.Equal(t, 100.0, testutil.ToFloat64(p.Delta))

	expected := `
# HELP coneopt_stops_total Finished solves by stop reason
# TYPE coneopt_stops_total counter
coneopt_stops_total{reason="Converged"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "coneopt_stops_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(p.CGIter))
}

func TestRecordSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewProm(reg)

	ex, ok := problems.Lookup("equality")
	require.True(t, ok)
	r, err := ex.Run(nil, solver.DefaultParams(), solver.WithRecorder(p))
	require.NoError(t, err)

	assert.Equal(t, float64(r.Iter), testutil.ToFloat64(p.Iterations))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Stops.WithLabelValues(r.Stop.String())))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestUnregistered(t *testing.T) {
	p := NewProm(nil)
	p.Record(solver.Info{Iter: 1})
	assert.Equal(t, 1.0, testutil.ToFloat64(p.Iterations))
}
