package bufwriter

import (
	"fmt"
	"strings"
)

// Writer collects rendered SQL statements.
//
// A statement is built with Write/Writef and closed with End. The zero value
// is ready to use.
type Writer struct {
	current    strings.Builder
	statements []string
}

// Write appends s to the statement being built.
func (w *Writer) Write(s string) {
	w.current.WriteString(s)
}

// Writef appends a formatted string to the statement being built.
func (w *Writer) Writef(format string, args ...any) {
	fmt.Fprintf(&w.current, format, args...)
}

// End closes the statement being built. Empty statements are dropped.
func (w *Writer) End() {
	stmt := strings.TrimSpace(w.current.String())
	w.current.Reset()
	if stmt != "" {
		w.statements = append(w.statements, stmt)
	}
}

// Statement is a shorthand for Writef followed by End.
func (w *Writer) Statement(format string, args ...any) {
	w.Writef(format, args...)
	w.End()
}

// Statements returns a copy of the closed statements.
func (w *Writer) Statements() []string {
	out := make([]string, len(w.statements))
	copy(out, w.statements)
	return out
}

// Output joins the closed statements into a script.
func (w *Writer) Output() string {
	var sb strings.Builder
	for _, stmt := range w.statements {
		sb.WriteString(stmt)
		sb.WriteString(";\n")
	}
	return sb.String()
}

// Reset discards all statements.
func (w *Writer) Reset() {
	w.current.Reset()
	w.statements = nil
}

// QuoteList quotes every identifier with quote and joins them with ", ".
func QuoteList(quote func(string) string, names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quote(name)
	}
	return strings.Join(quoted, ", ")
}

// QuoteLiterals renders values as a comma separated list of SQL string literals.
func QuoteLiterals(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}
