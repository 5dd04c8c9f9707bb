// Copyright 2026 The cppif Authors
// SPDX-License-Identifier: MIT

// Package diag defines the diagnostic severities and sink interface the
// evaluator reports through, and a glue implementation backed by
// zombiezen.com/go/log.
package diag

import (
	"context"
	"fmt"

	"zombiezen.com/go/log"
)

// Severity is the taxonomy of diagnostics a preprocessor expression
// evaluation can produce.
type Severity int

const (
	// Warning is an advisory diagnostic, always emitted.
	Warning Severity = iota
	// Pedwarn flags a construct ISO C does not sanction, or an
	// arithmetic overflow; it does not abort evaluation. Some pedwarns
	// (such as integer overflow) are reported in every mode, others only
	// when the configuration is pedantic.
	Pedwarn
	// Error is a hard error: the parser abandons the expression and
	// evaluation returns false.
	Error
	// ICE ("internal compiler error" in spirit) marks an internal
	// consistency failure in the evaluator itself, such as an
	// unbalanced operator stack.
	ICE
)

// String returns a short label for the severity, used as a log field.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Pedwarn:
		return "pedwarn"
	case Error:
		return "error"
	case ICE:
		return "internal error"
	default:
		return "diagnostic"
	}
}

// Diagnostic is a single reported message.
type Diagnostic struct {
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return d.Severity.String() + ": " + d.Message
}

// Sink receives diagnostics as the evaluator produces them.
type Sink interface {
	Report(d Diagnostic)
}

// Emit is a convenience for constructing and reporting a formatted
// diagnostic in one call.
func Emit(s Sink, severity Severity, format string, args ...any) {
	s.Report(Diagnostic{Severity: severity, Message: fmt.Sprintf(format, args...)})
}

// LogSink reports diagnostics through zombiezen.com/go/log, the
// logging library this module's ambient stack is built on.
type LogSink struct {
	Ctx context.Context
}

// Report implements Sink.
func (s LogSink) Report(d Diagnostic) {
	ctx := s.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	switch d.Severity {
	case ICE, Error:
		log.Errorf(ctx, "%s", d.Message)
	default:
		log.Warnf(ctx, "%s", d.Message)
	}
}

// CollectingSink accumulates every reported diagnostic in order, for
// tests and for tools (such as the check subcommand) that want to
// inspect results programmatically rather than just read log output.
type CollectingSink struct {
	Diagnostics []Diagnostic
}

// Report implements Sink.
func (s *CollectingSink) Report(d Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
}

// HasSeverity reports whether any collected diagnostic has at least the
// given severity.
func (s *CollectingSink) HasSeverity(min Severity) bool {
	for _, d := range s.Diagnostics {
		if d.Severity >= min {
			return true
		}
	}
	return false
}
