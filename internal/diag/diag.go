// Package diag accumulates compile diagnostics with source locations.
//
// The sink is append-only: passes report problems and keep going, so a
// single run surfaces as many diagnostics as possible.
package diag

import (
	"fmt"

	"mica/internal/token"
)

type Diagnostic struct {
	File string
	Span token.Span
	Msg  string
}

func (d Diagnostic) Error() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s", d.Span.Start, d.Msg)
	}
	return fmt.Sprintf("%s:%s: %s", d.File, d.Span.Start, d.Msg)
}

// Diagnostics collects errors for one compilation unit.
type Diagnostics struct {
	file string
	list []Diagnostic
}

func New(file string) *Diagnostics {
	return &Diagnostics{file: file}
}

func (d *Diagnostics) Errorf(span token.Span, format string, args ...interface{}) {
	d.list = append(d.list, Diagnostic{
		File: d.file,
		Span: span,
		Msg:  fmt.Sprintf(format, args...),
	})
}

func (d *Diagnostics) HasErrors() bool {
	return len(d.list) > 0
}

func (d *Diagnostics) All() []Diagnostic {
	return d.list
}

// File returns the name of the source file these diagnostics refer to.
func (d *Diagnostics) File() string {
	return d.file
}
