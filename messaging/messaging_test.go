// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package messaging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	var out, errs bytes.Buffer
	w := &Writer{Out: &out}
	Printf(w, "iter %d", 3)
	w.Print("done\n")
	w.Error("bad")
	assert.Equal(t, "iter 3\ndone\nError: bad\n", out.String())

	w.Err = &errs
	Errorf(w, "worse %s", "case")
	assert.Equal(t, "worse case\n", errs.String())

	// no writer, no panic
	assert.NotPanics(t, func() { (&Writer{}).Print("x") })
}

func TestSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewSlog(logger, slog.String("problem", "quad"))
	s.Print("iteration 1\n")
	s.Error("failed")

	dec := json.NewDecoder(&buf)
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "iteration 1", first["msg"])
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "quad", first["problem"])
	assert.Equal(t, "ERROR", second["level"])

	assert.NotPanics(t, func() { (&Slog{}).Print("x") })
}

func TestLines(t *testing.T) {
	var l Lines
	Discard.Print("ignored")
	l.Print("alpha")
	l.Error("beta")
	assert.Equal(t, []string{"alpha"}, l.Prints)
	assert.True(t, l.Contains("bet"))
	assert.False(t, l.Contains("gamma"))
}
