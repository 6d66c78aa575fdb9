// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package params reads solver parameters from YAML or JSON files.
//
// Keys are the yaml names of the solver.Params fields, for instance
//
//	max_iter: 200
//	H_type: BFGS
//	stored_history: 10
//	dscheme: EveryIteration
//	f_diag: SecondOrder
//
// Absent keys keep the value already held by the parameters and unknown keys
// are ignored.
package params

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/curioloop/coneopt/solver"
	"gopkg.in/yaml.v3"
)

// Read decodes the document in r over p then validates the result.
// An empty document leaves p unchanged.
func Read(r io.Reader, p *solver.Params) error {
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse parameters: %w", err)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

// Load reads the parameter file at path over p.
func Load(path string, p *solver.Params) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load parameters: %w", err)
	}
	defer f.Close()
	if err = Read(f, p); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Write encodes p as YAML.
func Write(w io.Writer, p solver.Params) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	return enc.Close()
}
