// Package parse implements the streaming grammar engine shared by every
// SMTP/IMF production in this module. Every parser is a pure function over
// a caller-owned byte slice; it reports one of three outcomes: a successful
// match with the unconsumed remainder, an Incomplete error (the input is a
// strict prefix of something the grammar would accept) or an Invalid error
// (the input can never be extended into a match).
//
// This three-way split is the load-bearing design decision described in the
// package's specification: callers streaming bytes off a socket must be
// able to tell "give me more" apart from "this is malformed" without
// inspecting error text.
package parse

import "fmt"

// Error is returned by every parser on failure. Incomplete distinguishes
// "need more bytes" from a genuine grammar violation; Label names the
// production that failed, and Offset is the byte position within the
// parser's input slice where the mismatch (or truncation) was detected.
type Error struct {
	Incomplete bool
	Label      string
	Offset     int
}

func (e *Error) Error() string {
	if e.Incomplete {
		return fmt.Sprintf("smtpcodec: input truncated in %s at offset %d", e.Label, e.Offset)
	}
	return fmt.Sprintf("smtpcodec: invalid %s at offset %d", e.Label, e.Offset)
}

// incomplete builds an Incomplete Error for production label at offset.
func incomplete(label string, offset int) *Error {
	return &Error{Incomplete: true, Label: label, Offset: offset}
}

// invalid builds an Invalid Error for production label at offset.
func invalid(label string, offset int) *Error {
	return &Error{Incomplete: false, Label: label, Offset: offset}
}

// Incomplete reports a truncated-input error for the named production.
func Incomplete(label string, offset int) error { return incomplete(label, offset) }

// Invalid reports a grammar-violation error for the named production.
func Invalid(label string, offset int) error { return invalid(label, offset) }

// IsIncomplete reports whether err is a parse.Error signaling truncated
// input. Callers streaming bytes (e.g. off a socket) should buffer more
// and retry the same parse from the original position rather than treat
// this as a failure.
func IsIncomplete(err error) bool {
	pe, ok := err.(*Error)
	return ok && pe.Incomplete
}

// Label extracts the failing production name from err, or "" if err is
// not a parse.Error.
func Label(err error) string {
	if pe, ok := err.(*Error); ok {
		return pe.Label
	}
	return ""
}

// Offset extracts the byte offset err was detected at, or -1 if err is
// not a parse.Error.
func Offset(err error) int {
	if pe, ok := err.(*Error); ok {
		return pe.Offset
	}
	return -1
}
