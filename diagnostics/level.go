// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagnostics

import (
	"fmt"
	"strings"
)

// Level selects how deep a function or a vector space is checked.
type Level int

const (
	// None skips the checks.
	None Level = iota
	// Basic checks first derivatives of functions and the inner product of spaces.
	Basic
	// SecondOrder also checks second derivatives of functions.
	SecondOrder
	// EuclideanJordan also checks the Jordan algebra of spaces.
	EuclideanJordan
)

var levelNames = [...]string{"None", "Basic", "SecondOrder", "EuclideanJordan"}

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// UnmarshalText parses a level name, "FirstOrder" and "NoDiagnostics" are accepted as aliases.
func (l *Level) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			*l = Level(i)
			return nil
		}
	}
	switch strings.ToLower(s) {
	case "nodiagnostics", "":
		*l = None
	case "firstorder":
		*l = Basic
	default:
		return fmt.Errorf("unknown diagnostic level %q", s)
	}
	return nil
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
