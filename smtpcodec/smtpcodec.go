// Package smtpcodec is the facade over this module's grammar packages: it
// re-exports the command, response and trace parsers behind a single
// import and reports every rejected or truncated parse through the
// logging package, the same way gopistolet's protocol layer logged a
// failed GetCmd before returning the error to its caller.
package smtpcodec

import (
	"github.com/gopistolet/smtpcodec/command"
	"github.com/gopistolet/smtpcodec/logging"
	"github.com/gopistolet/smtpcodec/parse"
	"github.com/gopistolet/smtpcodec/response"
	"github.com/gopistolet/smtpcodec/trace"
)

// ParseCommand parses a single SMTP command line (CRLF included).
func ParseCommand(input []byte) (rest []byte, cmd command.Command, err error) {
	r, c, e := command.Parse(input)
	if e != nil {
		logging.ParseFailure("command", input, e)
		return nil, nil, e
	}
	return r, c, nil
}

// ParseResponse parses a single SMTP reply line or line group, dispatching
// to the Greeting, EHLO or generic-reply form by what the input looks
// like.
func ParseResponse(input []byte) (rest []byte, resp response.Response, err error) {
	r, resp_, e := response.Parse(input)
	if e != nil {
		logging.ParseFailure("response", input, e)
		return nil, nil, e
	}
	return r, resp_, nil
}

// ParseGreeting parses a 220 server greeting specifically, rather than
// trying every response form.
func ParseGreeting(input []byte) (rest []byte, g response.Greeting, err error) {
	r, g, e := response.ParseGreeting(input)
	if e != nil {
		logging.ParseFailure("greeting", input, e)
		var zero response.Greeting
		return nil, zero, e
	}
	return r, g, nil
}

// ParseEhloResponse parses an EHLO capability response specifically.
func ParseEhloResponse(input []byte) (rest []byte, e_ response.Ehlo, err error) {
	r, e_, e := response.ParseEhloResponse(input)
	if e != nil {
		logging.ParseFailure("ehlo-response", input, e)
		var zero response.Ehlo
		return nil, zero, e
	}
	return r, e_, nil
}

// ParseReplyLines parses the generic multi-line SMTP reply form (any code
// other than a 220 greeting or a 250 EHLO response).
func ParseReplyLines(input []byte) (rest []byte, o response.Other, err error) {
	r, o, e := response.ParseReplyLines(input)
	if e != nil {
		logging.ParseFailure("reply-lines", input, e)
		var zero response.Other
		return nil, zero, e
	}
	return r, o, nil
}

// ParseReturnPathLine parses a "Return-Path:" header line.
func ParseReturnPathLine(input []byte) (rest []byte, rp trace.ReturnPath, err error) {
	r, rp, e := trace.ParseReturnPathLine(input)
	if e != nil {
		logging.ParseFailure("return-path", input, e)
		var zero trace.ReturnPath
		return nil, zero, e
	}
	return r, rp, nil
}

// ParseReceivedLine parses a "Received:" trace header line.
func ParseReceivedLine(input []byte) (rest []byte, rcv trace.Received, err error) {
	r, rcv, e := trace.ParseReceivedLine(input)
	if e != nil {
		logging.ParseFailure("received", input, e)
		var zero trace.Received
		return nil, zero, e
	}
	return r, rcv, nil
}

// IsIncomplete reports whether err signals truncated input rather than a
// grammar violation, forwarding to parse.IsIncomplete so callers never
// need to import the parse package themselves just to check this.
func IsIncomplete(err error) bool {
	return parse.IsIncomplete(err)
}
