package value

import (
	"strings"

	"github.com/gopistolet/smtpcodec/abnf"
	"github.com/gopistolet/smtpcodec/address"
	"github.com/gopistolet/smtpcodec/parse"
)

// Domain parses Domain = sub-domain *("." sub-domain), returning the dotted
// string unchanged (case is preserved; comparison is the caller's concern).
// Per RFC 6531 3.3, a label may also carry the 0x80-0xFF octets of a
// well-formed UTF-8 U-label; when one does, the whole domain is validated
// as an IDNA2008 internationalized domain name.
func Domain(input []byte) (rest []byte, value string, err error) {
	r, labels, e := parse.SeparatedList1(input, subDomain, dot, "value.domain")
	if e != nil {
		return nil, "", e
	}
	joined := strings.Join(labels, ".")
	if hasHighByte([]byte(joined)) {
		if e := ValidateUTF8Extended([]byte(joined)); e != nil {
			return nil, "", parse.Invalid("value.domain.utf8", 0)
		}
		if e := ValidateIDNDomain(joined); e != nil {
			return nil, "", parse.Invalid("value.domain.idn", 0)
		}
	}
	return r, joined, nil
}

// hasHighByte reports whether b contains any octet outside the 7-bit ASCII
// range.
func hasHighByte(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return true
		}
	}
	return false
}

func dot(input []byte) (rest []byte, value struct{}, err error) {
	r, e := parse.Literal(input, []byte("."), "value.domain.dot")
	if e != nil {
		return nil, struct{}{}, e
	}
	return r, struct{}{}, nil
}

// subDomain parses sub-domain = Let-dig [Ldh-str], widened per RFC 6531
// 3.3 to admit the UTF-8 octets of an internationalized label.
func subDomain(input []byte) (rest []byte, value string, err error) {
	if len(input) == 0 {
		return nil, "", parse.Incomplete("value.sub-domain", 0)
	}
	if !abnf.IsLetDigUTF8(input[0]) {
		return nil, "", parse.Invalid("value.sub-domain", 0)
	}
	r, tail, e := ldhStr(input[1:])
	if e != nil {
		if parse.IsIncomplete(e) {
			return nil, "", e
		}
		// Ldh-str is optional: a lone Let-dig is a valid sub-domain.
		return input[1:], string(input[:1]), nil
	}
	return r, string(input[0]) + tail, nil
}

// ldhStr parses Ldh-str = *( ALPHA / DIGIT / "-" ) Let-dig, i.e. a
// letter-digit-hyphen run that must end in a letter or digit.
func ldhStr(input []byte) (rest []byte, value string, err error) {
	isLdh := func(b byte) bool { return abnf.IsLetDigUTF8(b) || b == '-' }
	r, matched, e := parse.TakeWhile(input, isLdh, 0, 0, "value.ldh-str")
	if e != nil {
		return nil, "", e
	}
	for len(matched) > 0 && matched[len(matched)-1] == '-' {
		// Back off trailing hyphens: Ldh-str must end Let-dig, so give bytes
		// back to the caller one at a time until it does (or we run dry).
		r = append([]byte{matched[len(matched)-1]}, r...)
		matched = matched[:len(matched)-1]
	}
	if len(matched) == 0 {
		return nil, "", parse.Invalid("value.ldh-str", 0)
	}
	return r, string(matched), nil
}

// DomainOrAddressKind tags which alternative a DomainOrAddress holds.
type DomainOrAddressKind int

const (
	// DomainForm marks a Domain (dotted sub-domain labels).
	DomainForm DomainOrAddressKind = iota
	// AddressForm marks a bracketed address-literal.
	AddressForm
)

// DomainOrAddress is the right-hand side of a Mailbox: either a Domain or
// an address-literal (RFC 5321 4.1.2).
type DomainOrAddress struct {
	Kind    DomainOrAddressKind
	Domain  string
	Literal address.Literal
}

func (d DomainOrAddress) String() string {
	if d.Kind == AddressForm {
		return d.Literal.String()
	}
	return d.Domain
}

// NewDomain builds a DomainOrAddress holding a Domain.
func NewDomain(s string) DomainOrAddress { return DomainOrAddress{Kind: DomainForm, Domain: s} }

// NewAddressLiteral builds a DomainOrAddress holding an address-literal.
func NewAddressLiteral(l address.Literal) DomainOrAddress {
	return DomainOrAddress{Kind: AddressForm, Literal: l}
}

// ParseDomainOrAddress parses a Domain or, if the input starts with "[",
// an address-literal.
func ParseDomainOrAddress(input []byte) (rest []byte, value DomainOrAddress, err error) {
	if len(input) == 0 {
		var zero DomainOrAddress
		return nil, zero, parse.Incomplete("value.domain-or-address", 0)
	}
	if input[0] == '[' {
		r, lit, e := address.Parse(input)
		if e != nil {
			var zero DomainOrAddress
			return nil, zero, e
		}
		return r, NewAddressLiteral(lit), nil
	}
	r, d, e := Domain(input)
	if e != nil {
		var zero DomainOrAddress
		return nil, zero, e
	}
	return r, NewDomain(d), nil
}
