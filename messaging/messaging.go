// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package messaging provides the sinks that receive progress lines from the optimizer.
package messaging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Messaging receives human-readable lines in order.
// Implementations must not panic and have no way to report failure.
type Messaging interface {
	// Print receives a progress line.
	Print(msg string)
	// Error receives a line describing a problem.
	Error(msg string)
}

// Printf formats a line and sends it to msg.
func Printf(msg Messaging, format string, a ...any) {
	if len(a) > 0 {
		msg.Print(fmt.Sprintf(format, a...))
	} else {
		msg.Print(format)
	}
}

// Errorf formats a line and sends it to msg as an error.
func Errorf(msg Messaging, format string, a ...any) {
	if len(a) > 0 {
		msg.Error(fmt.Sprintf(format, a...))
	} else {
		msg.Error(format)
	}
}

type discard struct{}

func (discard) Print(string) {}
func (discard) Error(string) {}

// Discard drops every line.
var Discard Messaging = discard{}

// Writer writes lines to Out and errors to Err.
// When Err is nil errors go to Out with an "Error: " prefix.
// Writers shared across goroutines are serialized by mu.
type Writer struct {
	Out io.Writer
	Err io.Writer
	mu  sync.Mutex
}

// NewWriter creates a sink writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{Out: w}
}

// Stdout writes lines to os.Stdout and errors to os.Stderr.
func Stdout() *Writer {
	return &Writer{Out: os.Stdout, Err: os.Stderr}
}

func (w *Writer) Print(msg string) {
	w.write(w.Out, msg)
}

func (w *Writer) Error(msg string) {
	if w.Err == nil {
		w.write(w.Out, "Error: "+msg)
		return
	}
	w.write(w.Err, msg)
}

func (w *Writer) write(out io.Writer, msg string) {
	if out == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = io.WriteString(out, msg)
}

// Slog forwards lines to a structured logger.
// Progress lines are logged at Level, errors at slog.LevelError.
type Slog struct {
	Logger *slog.Logger
	Level  slog.Level
	Attrs  []slog.Attr
}

// NewSlog creates a sink logging progress at info level.
func NewSlog(logger *slog.Logger, attrs ...slog.Attr) *Slog {
	return &Slog{Logger: logger, Level: slog.LevelInfo, Attrs: attrs}
}

func (s *Slog) Print(msg string) {
	s.log(s.Level, msg)
}

func (s *Slog) Error(msg string) {
	s.log(slog.LevelError, msg)
}

func (s *Slog) log(level slog.Level, msg string) {
	if s.Logger == nil {
		return
	}
	s.Logger.LogAttrs(context.Background(), level, strings.TrimRight(msg, "\n"), s.Attrs...)
}

// Lines collects lines in memory.
type Lines struct {
	mu     sync.Mutex
	Prints []string
	Errors []string
}

func (l *Lines) Print(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Prints = append(l.Prints, msg)
}

func (l *Lines) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

// Contains reports whether any collected line contains s.
func (l *Lines) Contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, lines := range [2][]string{l.Prints, l.Errors} {
		for _, line := range lines {
			if strings.Contains(line, s) {
				return true
			}
		}
	}
	return false
}
