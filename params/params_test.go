// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/curioloop/coneopt/diagnostics"
	"github.com/curioloop/coneopt/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadYAML(t *testing.T) {
	doc := `
max_iter: 250
eps_grad: 1.0e-10
delta: 10
H_type: sr1
stored_history: 4
dscheme: EveryIteration
f_diag: SecondOrder
z_diag: EuclideanJordan
L_diag: FirstOrder
colour: blue
`
	p := solver.DefaultParams()
	require.NoError(t, Read(strings.NewReader(doc), &p))

	switch {
	case p.MaxIter != 250 || p.EpsGrad != 1e-10 || p.Delta != 10:
		t.Fatal("TestReadYAML: numbers not decoded")
	case p.HessianKind != solver.SR1 || p.StoredHistory != 4:
		t.Fatal("TestReadYAML: Hessian not decoded")
	case p.DiagScheme != solver.DiagnoseEveryIteration:
		t.Fatal("TestReadYAML: scheme not decoded")
	}
	assert.Equal(t, diagnostics.SecondOrder, p.FDiag)
	assert.Equal(t, diagnostics.EuclideanJordan, p.ZDiag)
	assert.Equal(t, diagnostics.Basic, p.LDiag)
	// untouched keys keep their defaults
	assert.Equal(t, 0.99, p.Tau)
}

func TestReadJSON(t *testing.T) {
	p := solver.DefaultParams()
	require.NoError(t, Read(strings.NewReader(`{"max_iter": 7, "sigma": 0.2, "dscheme": "DiagnosticsOnly"}`), &p))
	assert.Equal(t, 7, p.MaxIter)
	assert.Equal(t, 0.2, p.Sigma)
	assert.Equal(t, solver.DiagnoseOnly, p.DiagScheme)
}

func TestReadErrors(t *testing.T) {
	p := solver.DefaultParams()
	assert.Error(t, Read(strings.NewReader("max_iter: [1, 2]"), &p))
	assert.Error(t, Read(strings.NewReader("H_type: newton"), &p))

	p = solver.DefaultParams()
	err := Read(strings.NewReader("sigma: 1.5"), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "barrier contraction")

	p = solver.DefaultParams()
	require.NoError(t, Read(strings.NewReader(""), &p))
	assert.Equal(t, solver.DefaultParams(), p)
}

func TestLoadRoundTrip(t *testing.T) {
	p := solver.DefaultParams()
	p.MaxIter, p.HessianKind, p.StoredHistory = 42, solver.BFGS, 3
	p.GDiag = diagnostics.SecondOrder

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))
	assert.Contains(t, buf.String(), "H_type: BFGS")

	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded := solver.DefaultParams()
	require.NoError(t, Load(path, &loaded))
	assert.Equal(t, p, loaded)

	err := Load(filepath.Join(t.TempDir(), "missing.yaml"), &loaded)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
