// Package diag defines the diagnostic sink the front end and evaluator
// report through.
package diag

import (
	"fmt"
	"io"

	"github.com/depp/ultrafxr/internal/sourcepos"
	"github.com/depp/ultrafxr/internal/sourcetext"
)

// Severity is the level of a diagnostic message.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "diagnostic"
	}
}

// Handler receives diagnostics produced during parsing or evaluation.
type Handler interface {
	Handle(pos sourcepos.Span, severity Severity, message string)
}

// HasError tracks whether any Error-severity diagnostic has been seen.
// Embed it in a Handler so callers can ask, via Errored, whether any
// error was reported; the CLI's parse step discards its results then.
type HasError struct {
	seen bool
}

func (h *HasError) Note(severity Severity) {
	if severity == Error {
		h.seen = true
	}
}

func (h *HasError) Errored() bool { return h.seen }

// Console writes diagnostics to a writer, with an optional source
// snippet when source text is available.
type Console struct {
	HasError
	Out    io.Writer
	Name   string
	Source *sourcetext.SourceText
}

func (c *Console) Handle(pos sourcepos.Span, severity Severity, message string) {
	c.Note(severity)
	if c.Name != "" {
		fmt.Fprintf(c.Out, "%s: %s: %s\n", c.Name, severity, message)
	} else {
		fmt.Fprintf(c.Out, "%s: %s\n", severity, message)
	}
	if c.Source == nil {
		return
	}
	tp, ok := c.Source.Lookup(pos.Start)
	if !ok {
		return
	}
	line := c.Source.Line(tp.Line)
	fmt.Fprintf(c.Out, "%5d | %s\n", tp.Line+1, line)
	width := int(tp.Byte)
	underline := int(pos.Len())
	if underline < 1 {
		underline = 1
	}
	fmt.Fprintf(c.Out, "      | %*s%s\n", width, "", repeat('^', underline))
}

func repeat(c byte, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = c
	}
	return string(buf)
}
