// Package trace implements the RFC 5321 4.4 trace-information grammar:
// the Return-Path and Received header lines a message accumulates as it
// passes through relays. Both line types parse and serialize, and the
// grammar is explicitly partial: the underlying CFWS/FWS productions
// (imf.CFWS) do not support RFC 5322 comments, so a Received line using a
// parenthesized comment anywhere in its Opt-info clauses reports Invalid
// with label "imf.cfws-unsupported" rather than silently losing the
// comment text.
package trace

import (
	"strconv"
	"strings"

	"github.com/gopistolet/smtpcodec/abnf"
	"github.com/gopistolet/smtpcodec/address"
	"github.com/gopistolet/smtpcodec/imf"
	"github.com/gopistolet/smtpcodec/parse"
	"github.com/gopistolet/smtpcodec/value"
)

// ReturnPath is a parsed "Return-Path:" header line (RFC 5321 4.4).
type ReturnPath struct {
	Path value.ReversePath
}

// ParseReturnPathLine parses Return-path-line = "Return-Path:" FWS
// Reverse-path CRLF.
func ParseReturnPathLine(input []byte) (rest []byte, rp ReturnPath, err error) {
	r, e := parse.LiteralCI(input, []byte("Return-Path:"), "trace.return-path.tag")
	if e != nil {
		var zero ReturnPath
		return nil, zero, e
	}
	r, _, e2 := imf.FWS(r)
	if e2 != nil {
		var zero ReturnPath
		return nil, zero, e2
	}
	r, path, e3 := value.ParseReversePath(r)
	if e3 != nil {
		var zero ReturnPath
		return nil, zero, e3
	}
	r, e4 := parse.Literal(r, []byte(abnf.CRLF), "trace.return-path.crlf")
	if e4 != nil {
		var zero ReturnPath
		return nil, zero, e4
	}
	return r, ReturnPath{Path: path}, nil
}

// Serialize renders the Return-Path line back to its wire form.
func (rp ReturnPath) Serialize() string {
	return "Return-Path: " + rp.Path.String() + abnf.CRLF
}

// ExtendedDomain is Extended-Domain = Domain / (Domain FWS "(" TCP-info
// ")") / (address-literal FWS "(" TCP-info ")"). TCPInfo is "" when no
// parenthesized clause was present.
type ExtendedDomain struct {
	Domain  string
	TCPInfo string
}

func (d ExtendedDomain) String() string {
	if d.TCPInfo == "" {
		return d.Domain
	}
	return d.Domain + " (" + d.TCPInfo + ")"
}

func extendedDomain(input []byte) (rest []byte, d ExtendedDomain, err error) {
	r, dom, e := domainOrLiteral(input)
	if e != nil {
		var zero ExtendedDomain
		return nil, zero, e
	}
	r2, _, ok, e2 := parse.Opt(r, imf.FWS)
	if e2 != nil {
		var zero ExtendedDomain
		return nil, zero, e2
	}
	if !ok {
		return r, ExtendedDomain{Domain: dom}, nil
	}
	r3, e3 := parse.Literal(r2, []byte("("), "trace.extended-domain.open")
	if e3 != nil {
		if parse.IsIncomplete(e3) {
			var zero ExtendedDomain
			return nil, zero, e3
		}
		return r, ExtendedDomain{Domain: dom}, nil
	}
	r4, info, e4 := tcpInfo(r3)
	if e4 != nil {
		var zero ExtendedDomain
		return nil, zero, e4
	}
	r5, e5 := parse.Literal(r4, []byte(")"), "trace.extended-domain.close")
	if e5 != nil {
		var zero ExtendedDomain
		return nil, zero, e5
	}
	return r5, ExtendedDomain{Domain: dom, TCPInfo: info}, nil
}

func domainOrLiteral(input []byte) (rest []byte, s string, err error) {
	if len(input) > 0 && input[0] == '[' {
		r, lit, e := address.Parse(input)
		if e != nil {
			return nil, "", e
		}
		return r, lit.String(), nil
	}
	return value.Domain(input)
}

// tcpInfo parses TCP-info = address-literal / (Domain FWS address-literal).
func tcpInfo(input []byte) (rest []byte, s string, err error) {
	if len(input) > 0 && input[0] == '[' {
		r, lit, e := address.Parse(input)
		if e != nil {
			return nil, "", e
		}
		return r, lit.String(), nil
	}
	r, dom, e := value.Domain(input)
	if e != nil {
		return nil, "", e
	}
	r2, _, e2 := imf.FWS(r)
	if e2 != nil {
		return nil, "", e2
	}
	r3, lit, e3 := address.Parse(r2)
	if e3 != nil {
		return nil, "", e3
	}
	return r3, dom + " " + lit.String(), nil
}

// Received is a parsed "Received:" header line (RFC 5321 4.4): the
// structural clauses that do not depend on folding whitespace internals
// (From/By domains, optional Via link, With protocol, ID, For path or
// mailbox) plus the mandatory trailing date-time.
type Received struct {
	From     ExtendedDomain
	By       ExtendedDomain
	Via      string
	With     string
	ID       string
	ForPath  *value.Path
	ForMbox  *value.Mailbox
	DateTime imf.DateTime
}

// ParseReceivedLine parses Time-stamp-line = "Received:" FWS Stamp CRLF,
// where Stamp = From-domain By-domain Opt-info [CFWS] ";" FWS date-time.
func ParseReceivedLine(input []byte) (rest []byte, rcv Received, err error) {
	r, e := parse.LiteralCI(input, []byte("Received:"), "trace.received.tag")
	if e != nil {
		var zero Received
		return nil, zero, e
	}
	r, _, e2 := imf.FWS(r)
	if e2 != nil {
		var zero Received
		return nil, zero, e2
	}

	r, e3 := parse.LiteralCI(r, []byte("FROM"), "trace.received.from")
	if e3 != nil {
		var zero Received
		return nil, zero, e3
	}
	r, _, e4 := imf.FWS(r)
	if e4 != nil {
		var zero Received
		return nil, zero, e4
	}
	r, from, e5 := extendedDomain(r)
	if e5 != nil {
		var zero Received
		return nil, zero, e5
	}

	r, _, e6 := imf.CFWS(r)
	if e6 != nil {
		var zero Received
		return nil, zero, e6
	}
	r, e7 := parse.LiteralCI(r, []byte("BY"), "trace.received.by")
	if e7 != nil {
		var zero Received
		return nil, zero, e7
	}
	r, _, e8 := imf.FWS(r)
	if e8 != nil {
		var zero Received
		return nil, zero, e8
	}
	r, by, e9 := extendedDomain(r)
	if e9 != nil {
		var zero Received
		return nil, zero, e9
	}

	rcv = Received{From: from, By: by}

	r, e10 := parseVia(r, &rcv)
	if e10 != nil {
		var zero Received
		return nil, zero, e10
	}
	r, e11 := parseWith(r, &rcv)
	if e11 != nil {
		var zero Received
		return nil, zero, e11
	}
	r, e12 := parseID(r, &rcv)
	if e12 != nil {
		var zero Received
		return nil, zero, e12
	}
	r, e13 := parseFor(r, &rcv)
	if e13 != nil {
		var zero Received
		return nil, zero, e13
	}

	r, _, _, e14 := parse.Opt(r, imf.CFWS)
	if e14 != nil {
		var zero Received
		return nil, zero, e14
	}
	r, e15 := parse.Literal(r, []byte(";"), "trace.received.semicolon")
	if e15 != nil {
		var zero Received
		return nil, zero, e15
	}
	r, _, e16 := imf.FWS(r)
	if e16 != nil {
		var zero Received
		return nil, zero, e16
	}
	r, dt, e17 := imf.ParseDateTime(r)
	if e17 != nil {
		var zero Received
		return nil, zero, e17
	}
	rcv.DateTime = dt

	r, e18 := parse.Literal(r, []byte(abnf.CRLF), "trace.received.crlf")
	if e18 != nil {
		var zero Received
		return nil, zero, e18
	}
	return r, rcv, nil
}

// optionalCFWS attempts CFWS ahead of an optional Opt-info clause. ok is
// false when there was simply no whitespace (the clause is absent); a
// genuine comment-unsupported error still propagates, since that signals
// input this package cannot parse rather than a clause that isn't there.
func optionalCFWS(input []byte) (rest []byte, ok bool, err error) {
	r, _, e := imf.CFWS(input)
	if e == nil {
		return r, true, nil
	}
	if parse.IsIncomplete(e) {
		return nil, false, e
	}
	if parse.Label(e) == imf.ErrCFWSUnsupported {
		return nil, false, e
	}
	return input, false, nil
}

// parseVia tries CFWS "VIA" FWS Link; absence is not an error.
func parseVia(input []byte, rcv *Received) (rest []byte, err error) {
	r, ok, e := optionalCFWS(input)
	if e != nil {
		return nil, e
	}
	if !ok {
		return input, nil
	}
	r2, e2 := parse.LiteralCI(r, []byte("VIA"), "trace.received.via")
	if e2 != nil {
		if parse.IsIncomplete(e2) {
			return nil, e2
		}
		return input, nil
	}
	r3, _, e3 := imf.FWS(r2)
	if e3 != nil {
		return nil, e3
	}
	r4, link, e4 := value.Atom(r3)
	if e4 != nil {
		return nil, e4
	}
	rcv.Via = link
	return r4, nil
}

// parseWith tries CFWS "WITH" FWS Protocol; absence is not an error.
func parseWith(input []byte, rcv *Received) (rest []byte, err error) {
	r, ok, e := optionalCFWS(input)
	if e != nil {
		return nil, e
	}
	if !ok {
		return input, nil
	}
	r2, e2 := parse.LiteralCI(r, []byte("WITH"), "trace.received.with")
	if e2 != nil {
		if parse.IsIncomplete(e2) {
			return nil, e2
		}
		return input, nil
	}
	r3, _, e3 := imf.FWS(r2)
	if e3 != nil {
		return nil, e3
	}
	r4, proto, e4 := value.Atom(r3)
	if e4 != nil {
		return nil, e4
	}
	rcv.With = proto
	return r4, nil
}

// parseID tries CFWS "ID" FWS (Atom / msg-id); absence is not an error.
func parseID(input []byte, rcv *Received) (rest []byte, err error) {
	r, ok, e := optionalCFWS(input)
	if e != nil {
		return nil, e
	}
	if !ok {
		return input, nil
	}
	r2, e2 := parse.LiteralCI(r, []byte("ID"), "trace.received.id")
	if e2 != nil {
		if parse.IsIncomplete(e2) {
			return nil, e2
		}
		return input, nil
	}
	r3, _, e3 := imf.FWS(r2)
	if e3 != nil {
		return nil, e3
	}
	if r4, atom, e4 := value.Atom(r3); e4 == nil {
		rcv.ID = atom
		return r4, nil
	} else if parse.IsIncomplete(e4) {
		return nil, e4
	}
	r5, mid, e5 := imf.ParseMsgID(r3)
	if e5 != nil {
		return nil, e5
	}
	rcv.ID = mid.String()
	return r5, nil
}

// parseFor tries CFWS "FOR" FWS (Path / Mailbox); absence is not an error.
func parseFor(input []byte, rcv *Received) (rest []byte, err error) {
	r, ok, e := optionalCFWS(input)
	if e != nil {
		return nil, e
	}
	if !ok {
		return input, nil
	}
	r2, e2 := parse.LiteralCI(r, []byte("FOR"), "trace.received.for")
	if e2 != nil {
		if parse.IsIncomplete(e2) {
			return nil, e2
		}
		return input, nil
	}
	r3, _, e3 := imf.FWS(r2)
	if e3 != nil {
		return nil, e3
	}
	if r4, path, e4 := value.ParsePath(r3); e4 == nil {
		rcv.ForPath = &path
		return r4, nil
	} else if parse.IsIncomplete(e4) {
		return nil, e4
	}
	r5, mbox, e5 := value.ParseMailbox(r3)
	if e5 != nil {
		return nil, e5
	}
	rcv.ForMbox = &mbox
	return r5, nil
}

// Serialize renders the Received line back to a canonical wire form: the
// clauses in canonical order (Via/With/ID/For, each only if present),
// separated by single spaces, the same structure ParseReceivedLine reads.
func (rcv Received) Serialize() string {
	var b strings.Builder
	b.WriteString("Received: FROM ")
	b.WriteString(rcv.From.String())
	b.WriteString(" BY ")
	b.WriteString(rcv.By.String())
	if rcv.Via != "" {
		b.WriteString(" VIA ")
		b.WriteString(rcv.Via)
	}
	if rcv.With != "" {
		b.WriteString(" WITH ")
		b.WriteString(rcv.With)
	}
	if rcv.ID != "" {
		b.WriteString(" ID ")
		b.WriteString(rcv.ID)
	}
	if rcv.ForPath != nil {
		b.WriteString(" FOR ")
		b.WriteString(rcv.ForPath.String())
	} else if rcv.ForMbox != nil {
		b.WriteString(" FOR ")
		b.WriteString(rcv.ForMbox.String())
	}
	b.WriteString("; ")
	b.WriteString(formatDateTime(rcv.DateTime))
	b.WriteString(abnf.CRLF)
	return b.String()
}

func formatDateTime(dt imf.DateTime) string {
	var b strings.Builder
	if dt.DayOfWeek != "" {
		b.WriteString(dt.DayOfWeek)
		b.WriteString(", ")
	}
	b.WriteString(strconv.Itoa(dt.Day))
	b.WriteByte(' ')
	b.WriteString(dt.Month)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(dt.Year))
	b.WriteByte(' ')
	b.WriteString(pad2(dt.Hour))
	b.WriteByte(':')
	b.WriteString(pad2(dt.Minute))
	if dt.Second >= 0 {
		b.WriteByte(':')
		b.WriteString(pad2(dt.Second))
	}
	b.WriteByte(' ')
	b.WriteString(dt.Zone)
	return b.String()
}

func pad2(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}
