// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import "context"

// Info is a snapshot of the state passed to a Recorder.
type Info struct {
	Iter       int
	Phase      Phase
	Stop       StopReason // set on the last record of a solve
	F          float64
	GradNorm   float64
	ConstrNorm float64
	DxNorm     float64
	MuEst      float64
	Mu         float64
	Delta      float64
	CGIter     int // Krylov iterations of the last step
	Krylov     KrylovStop
	Rejected   int // steps rejected since the previous record
}

// Recorder receives a record after the initialization, after every iteration
// and when the algorithm stops.
type Recorder interface {
	Record(Info)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(Info)

func (f RecorderFunc) Record(info Info) {
	f(info)
}

type options struct {
	abort    func() bool
	recorder Recorder
}

// Option configures GetMin.
type Option func(*options)

// WithAbort installs a hook consulted once per iteration, returning true stops
// the algorithm with UserAbort.
func WithAbort(abort func() bool) Option {
	return func(o *options) {
		o.abort = abort
	}
}

// WithContext stops the algorithm with UserAbort once ctx is done.
func WithContext(ctx context.Context) Option {
	return WithAbort(func() bool {
		return ctx.Err() != nil
	})
}

// WithRecorder installs a recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}
