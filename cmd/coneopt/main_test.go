// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestList(t *testing.T) {
	out, _, err := execute(t, "list")
	require.NoError(t, err)
	for _, name := range []string{"quadratic", "equality", "sdp", "orthant", "disk", "mixed", "diagnostic_checks"} {
		assert.Contains(t, out, name)
	}
}

func TestSolveQuadratic(t *testing.T) {
	out, _, err := execute(t, "solve", "quadratic")
	require.NoError(t, err)
	assert.Contains(t, out, "Optimization stopped: Converged")
	assert.Contains(t, out, "stop: Converged")
	assert.Contains(t, out, "iterations: 1")
}

func TestSolveMetrics(t *testing.T) {
	out, _, err := execute(t, "solve", "quadratic", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "# TYPE coneopt_iterations_total counter")
	assert.Contains(t, out, "coneopt_iterations_total 1")
	assert.Contains(t, out, `coneopt_stops_total{reason="Converged"} 1`)
}

func TestSolveJSONLog(t *testing.T) {
	out, _, err := execute(t, "solve", "quadratic", "--log", "json")
	require.NoError(t, err)

	var found bool
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		assert.Equal(t, "quadratic", rec["problem"])
		found = true
	}
	assert.True(t, found)
}

func TestSolveErrors(t *testing.T) {
	_, _, err := execute(t, "solve", "nope")
	assert.ErrorContains(t, err, `unknown problem "nope"`)

	_, _, err = execute(t, "solve", "quadratic", "--log", "xml")
	assert.ErrorContains(t, err, "unknown log format")

	_, _, err = execute(t, "solve", "quadratic", "--log", "text", "--log-level", "trace")
	assert.ErrorContains(t, err, "unknown log level")

	_, _, err = execute(t, "solve")
	assert.Error(t, err)

	_, _, err = execute(t, "solve", "quadratic", "--params", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "load parameters")
}

func TestSolveParamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_iter: 1\n"), 0o600))

	out, errOut, err := execute(t, "solve", "sdp", "--params", path)
	assert.ErrorContains(t, err, "stopped early: MaxIterationExceeded")
	assert.Contains(t, out, "iterations: 1")
	assert.Contains(t, errOut, "Optimization stopped: MaxIterationExceeded")
}

func TestDiagnose(t *testing.T) {
	out, _, err := execute(t, "diagnose", "diagnostic_checks")
	require.NoError(t, err)
	assert.Contains(t, out, "Optimization stopped: DiagnosticsOnly")
	assert.NotContains(t, out, "stop: ")
}
