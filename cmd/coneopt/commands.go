// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/curioloop/coneopt/diagnostics"
	"github.com/curioloop/coneopt/internal/problems"
	"github.com/curioloop/coneopt/messaging"
	"github.com/curioloop/coneopt/metrics"
	"github.com/curioloop/coneopt/params"
	"github.com/curioloop/coneopt/solver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

type runOptions struct {
	params   string
	log      string
	logLevel string
	metrics  bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &runOptions{}

	root := &cobra.Command{
		Use:          "coneopt",
		Short:        "Matrix-free nonlinear optimization with cone constraints",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&opts.params, "params", "", "YAML or JSON parameter file")
	root.PersistentFlags().StringVar(&opts.log, "log", "plain", "Output format (plain, text, json)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level of the text and json formats (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "Print the Prometheus metrics of the solve")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the example problems",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, ex := range problems.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", ex.Name, ex.Description)
			}
		},
	}

	solve := &cobra.Command{
		Use:   "solve <problem>",
		Short: "Solve an example problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], false)
		},
	}

	diagnose := &cobra.Command{
		Use:   "diagnose <problem>",
		Short: "Check the derivatives and spaces of an example problem without solving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], true)
		},
	}

	root.AddCommand(list, solve, diagnose)
	return root
}

// counting forwards lines and counts the errors.
type counting struct {
	messaging.Messaging
	errors atomic.Int64
}

func (c *counting) Error(msg string) {
	c.errors.Add(1)
	c.Messaging.Error(msg)
}

func run(cmd *cobra.Command, opts *runOptions, name string, diagnoseOnly bool) error {
	ex, ok := problems.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown problem %q, see coneopt list", name)
	}

	p := solver.DefaultParams()
	if opts.params != "" {
		if err := params.Load(opts.params, &p); err != nil {
			return err
		}
	}
	if diagnoseOnly {
		p.DiagScheme = solver.DiagnoseOnly
		p.FDiag, p.GDiag, p.HDiag = diagnostics.SecondOrder, diagnostics.SecondOrder, diagnostics.SecondOrder
		p.XDiag, p.YDiag, p.ZDiag = diagnostics.Basic, diagnostics.Basic, diagnostics.EuclideanJordan
		p.LDiag = diagnostics.SecondOrder
	}

	sink, err := newMessaging(opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), ex.Name)
	if err != nil {
		return err
	}
	msg := &counting{Messaging: sink}

	solveOpts := []solver.Option{solver.WithContext(cmd.Context())}
	var reg *prometheus.Registry
	if opts.metrics {
		reg = prometheus.NewRegistry()
		solveOpts = append(solveOpts, solver.WithRecorder(metrics.NewProm(reg)))
	}

	r, err := ex.Run(msg, p, solveOpts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if r.Stop != solver.DiagnosticsOnly {
		fmt.Fprintf(out, "stop: %v\niterations: %d\nf: %.9g\nx: %v\n", r.Stop, r.Iter, r.F, r.X)
		if r.Y != nil {
			fmt.Fprintf(out, "y: %v\n", r.Y)
		}
		if r.Z != nil {
			fmt.Fprintf(out, "z: %v\n", r.Z)
		}
	}
	if reg != nil {
		if err = writeMetrics(out, reg); err != nil {
			return err
		}
	}

	switch {
	case r.Stop.Early():
		return fmt.Errorf("%s stopped early: %v", ex.Name, r.Stop)
	case diagnoseOnly && msg.errors.Load() > 0:
		return fmt.Errorf("%s: %d diagnostic checks reported problems", ex.Name, msg.errors.Load())
	}
	return nil
}

func newMessaging(opts *runOptions, out, errOut io.Writer, problem string) (messaging.Messaging, error) {
	var level slog.Level
	switch strings.ToLower(opts.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", opts.logLevel)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(opts.log) {
	case "plain":
		return &messaging.Writer{Out: out, Err: errOut}, nil
	case "text":
		return messaging.NewSlog(slog.New(slog.NewTextHandler(out, handlerOpts)), slog.String("problem", problem)), nil
	case "json":
		return messaging.NewSlog(slog.New(slog.NewJSONHandler(out, handlerOpts)), slog.String("problem", problem)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", opts.log)
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err = enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
