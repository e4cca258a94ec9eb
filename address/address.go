// Package address implements the address-literal grammar of RFC 5321
// 4.1.3: the bracketed IPv4, IPv6 and general forms that may stand in for a
// Domain in a Mailbox.
package address

import (
	"fmt"
	"net"

	"github.com/gopistolet/smtpcodec/abnf"
	"github.com/gopistolet/smtpcodec/parse"
)

// Kind tags which address-literal alternative a Literal holds.
type Kind int

const (
	// IPv4 marks a dotted-quad literal, e.g. "[192.0.2.1]".
	IPv4 Kind = iota
	// IPv6 marks an "IPv6:"-tagged literal, e.g. "[IPv6:2001:db8::1]".
	IPv6
	// General marks a Standardized-tag literal, e.g. "[x400:c=us;a=p]".
	General
)

// Literal is a parsed address-literal: the bracketed form found in a Mailbox
// or an EHLO greeting.
type Literal struct {
	Kind Kind
	// Addr holds the net.IP for IPv4 and IPv6 literals.
	Addr net.IP
	// Tag and Value hold the Standardized-tag and dcontent for General literals.
	Tag   string
	Value string
}

// String renders the literal back to its bracketed wire form.
func (l Literal) String() string {
	switch l.Kind {
	case IPv4:
		return "[" + l.Addr.String() + "]"
	case IPv6:
		return "[IPv6:" + l.Addr.String() + "]"
	default:
		return "[" + l.Tag + ":" + l.Value + "]"
	}
}

// Parse parses an address-literal, including its enclosing brackets.
func Parse(input []byte) (rest []byte, value Literal, err error) {
	r, _, e := parse.ByteClass(input, func(b byte) bool { return b == '[' }, "address.literal.open")
	if e != nil {
		var zero Literal
		return nil, zero, e
	}
	r, lit, e := parse.Alt(r, "address.literal.body",
		parseIPv6Tagged,
		parseIPv4,
		parseGeneral,
	)
	if e != nil {
		var zero Literal
		return nil, zero, e
	}
	r, _, e = parse.ByteClass(r, func(b byte) bool { return b == ']' }, "address.literal.close")
	if e != nil {
		var zero Literal
		return nil, zero, e
	}
	return r, lit, nil
}

func isLiteralBodyByte(b byte) bool { return b != ']' }

func parseIPv4(input []byte) (rest []byte, value Literal, err error) {
	r, body, e := parse.TakeWhile(input, isLiteralBodyByte, 1, 0, "address.ipv4")
	if e != nil {
		var zero Literal
		return nil, zero, e
	}
	ip := net.ParseIP(string(body))
	if ip == nil || ip.To4() == nil {
		var zero Literal
		return nil, zero, parse.Invalid("address.ipv4", 0)
	}
	return r, Literal{Kind: IPv4, Addr: ip.To4()}, nil
}

func parseIPv6Tagged(input []byte) (rest []byte, value Literal, err error) {
	r, e := parse.Literal(input, []byte("IPv6:"), "address.ipv6.tag")
	if e != nil {
		var zero Literal
		return nil, zero, e
	}
	r, body, e := parse.TakeWhile(r, isLiteralBodyByte, 1, 0, "address.ipv6")
	if e != nil {
		var zero Literal
		return nil, zero, e
	}
	ip := net.ParseIP(string(body))
	if ip == nil || ip.To4() != nil {
		var zero Literal
		return nil, zero, parse.Invalid("address.ipv6", 0)
	}
	return r, Literal{Kind: IPv6, Addr: ip}, nil
}

// parseGeneral parses General-address-literal: Standardized-tag ":" 1*dcontent.
func parseGeneral(input []byte) (rest []byte, value Literal, err error) {
	r, tag, e := parse.TakeWhile(input, abnf.IsLetDig, 1, 0, "address.general.tag")
	if e != nil {
		var zero Literal
		return nil, zero, e
	}
	r, _, e = parse.ByteClass(r, func(b byte) bool { return b == ':' }, "address.general.colon")
	if e != nil {
		var zero Literal
		return nil, zero, e
	}
	r, dcontent, e := parse.TakeWhile(r, abnf.IsDcontent, 1, 0, "address.general.value")
	if e != nil {
		var zero Literal
		return nil, zero, e
	}
	return r, Literal{Kind: General, Tag: string(tag), Value: string(dcontent)}, nil
}

// NewIPv4 builds an IPv4 address literal. ip must be a 4-byte (or
// 4-in-16-byte) address.
func NewIPv4(ip net.IP) (Literal, error) {
	v4 := ip.To4()
	if v4 == nil {
		return Literal{}, fmt.Errorf("address: %s is not an IPv4 address", ip)
	}
	return Literal{Kind: IPv4, Addr: v4}, nil
}

// NewIPv6 builds an IPv6 address literal.
func NewIPv6(ip net.IP) (Literal, error) {
	if ip.To4() != nil || ip.To16() == nil {
		return Literal{}, fmt.Errorf("address: %s is not an IPv6 address", ip)
	}
	return Literal{Kind: IPv6, Addr: ip.To16()}, nil
}

// NewGeneral builds a Standardized-tag general address literal.
func NewGeneral(tag, value string) (Literal, error) {
	for i := 0; i < len(tag); i++ {
		if !abnf.IsLetDig(tag[i]) {
			return Literal{}, fmt.Errorf("address: tag byte %d (%q) is not Let-dig", i, tag[i])
		}
	}
	for i := 0; i < len(value); i++ {
		if !abnf.IsDcontent(value[i]) {
			return Literal{}, fmt.Errorf("address: value byte %d (%q) is not dcontent", i, value[i])
		}
	}
	if tag == "" || value == "" {
		return Literal{}, fmt.Errorf("address: tag and value must be non-empty")
	}
	return Literal{Kind: General, Tag: tag, Value: value}, nil
}
