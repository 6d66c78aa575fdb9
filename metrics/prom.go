// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics exports solver progress as Prometheus metrics.
package metrics

import (
	"github.com/curioloop/coneopt/solver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coneopt"

// Prom is a solver.Recorder updating Prometheus collectors.
// Several solves may share one Prom, the collectors are safe for concurrent use.
type Prom struct {
	Iterations prometheus.Counter
	Rejected   prometheus.Counter
	CGIter     prometheus.Histogram
	Stops      *prometheus.CounterVec
	Delta      prometheus.Gauge
	Mu         prometheus.Gauge
}

var _ solver.Recorder = (*Prom)(nil)

// NewProm creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewProm(reg prometheus.Registerer) *Prom {
	factory := promauto.With(reg)
	return &Prom{
		Iterations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Accepted iterations of the outer loop",
		}),
		Rejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_steps_total",
			Help:      "Trust region steps rejected by the globalization",
		}),
		CGIter: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cg_iterations",
			Help:      "Krylov iterations per step",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		Stops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stops_total",
			Help:      "Finished solves by stop reason",
		}, []string{"reason"}),
		Delta: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trust_radius",
			Help:      "Trust region radius of the last record",
		}),
		Mu: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "barrier_mu",
			Help:      "Barrier parameter of the last record",
		}),
	}
}

// Record updates the collectors from one record of a solve.
func (p *Prom) Record(info solver.Info) {
	p.Rejected.Add(float64(info.Rejected))
	p.Delta.Set(info.Delta)
	p.Mu.Set(info.Mu)
	if info.Stop != solver.NotConverged {
		p.Stops.WithLabelValues(info.Stop.String()).Inc()
		return
	}
	if info.Iter > 0 {
		p.Iterations.Inc()
		p.CGIter.Observe(float64(info.CGIter))
	}
}
