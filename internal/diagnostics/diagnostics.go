// Package diagnostics defines the error and warning values produced by the
// compiler pipeline. Diagnostics are plain values carrying a human-readable
// message and a source region; they are collected on the pipeline context and
// rendered by the CLI.
package diagnostics

import (
	"fmt"

	"github.com/clear-lang/clearc/internal/token"
)

// Severity distinguishes fatal errors from non-fatal warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Code families, one per pipeline stage.
const (
	ErrL001 = "L001" // unrecognized character
	ErrP001 = "P001" // syntax error
	ErrP002 = "P002" // incomplete parse (AST build)
	ErrA001 = "A001" // name resolution failure
	ErrA002 = "A002" // type mismatch
	ErrA003 = "A003" // signature mismatch
	ErrA004 = "A004" // illegal mutation
	ErrA005 = "A005" // illegal declaration
	ErrF001 = "F001" // missing or illegal return
	ErrF002 = "F002" // unreachable code
	ErrC001 = "C001" // code generation failure
)

// Diagnostic is a single compiler error or warning.
type Diagnostic struct {
	Code     string
	Message  string
	Region   token.SourceView
	Severity Severity
	File     string
}

// NewError creates a fatal diagnostic pointing at region.
func NewError(code string, region token.SourceView, message string) *Diagnostic {
	return &Diagnostic{Code: code, Message: message, Region: region, Severity: SeverityError}
}

// NewWarning creates a non-fatal diagnostic pointing at region.
func NewWarning(code string, region token.SourceView, message string) *Diagnostic {
	return &Diagnostic{Code: code, Message: message, Region: region, Severity: SeverityWarning}
}

// Error implements the error interface so a Diagnostic can flow through
// ordinary error returns.
func (d *Diagnostic) Error() string {
	file := d.File
	if file == "" {
		file = "<source>"
	}
	if d.Region.Source == "" {
		return fmt.Sprintf("%s [%s] %s: %s", file, d.Code, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d [%s] %s: %s",
		file, d.Region.Line(), d.Region.Column(), d.Code, d.Severity, d.Message)
}

// HasFatal reports whether any diagnostic in the list is an error.
func HasFatal(list []*Diagnostic) bool {
	for _, d := range list {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
