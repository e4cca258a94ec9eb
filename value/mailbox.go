package value

import (
	"strings"

	"github.com/gopistolet/smtpcodec/abnf"
	"github.com/gopistolet/smtpcodec/parse"
)

// Mailbox is Local-part "@" (Domain / address-literal), RFC 5321 4.1.2.
type Mailbox struct {
	LocalPart string
	Domain    DomainOrAddress
}

func (m Mailbox) String() string {
	return localPartWire(m.LocalPart) + "@" + m.Domain.String()
}

// localPartWire renders a local-part, quoting it only when it is not a
// valid Dot-string (i.e. it needs characters Dot-string forbids).
func localPartWire(s string) string {
	if isDotString(s) {
		return s
	}
	return `"` + EscapeQuoted(s) + `"`
}

func isDotString(s string) bool {
	if s == "" {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if label == "" {
			return false
		}
		for i := 0; i < len(label); i++ {
			if !abnf.IsAtext(label[i]) {
				return false
			}
		}
	}
	return true
}

// LocalPart parses Local-part = Dot-string / Quoted-string.
func LocalPart(input []byte) (rest []byte, value string, err error) {
	r, s, e := dotString(input)
	if e == nil {
		return r, s, nil
	}
	if parse.IsIncomplete(e) {
		if len(input) > 0 && input[0] == '"' {
			return QuotedString(input)
		}
		return nil, "", e
	}
	return QuotedString(input)
}

func dotString(input []byte) (rest []byte, value string, err error) {
	r, atoms, e := parse.SeparatedList1(input, Atom, dot, "value.dot-string")
	if e != nil {
		return nil, "", e
	}
	return r, strings.Join(atoms, "."), nil
}

// ParseMailbox parses a Mailbox: Local-part "@" (Domain / address-literal).
func ParseMailbox(input []byte) (rest []byte, value Mailbox, err error) {
	r, local, e := LocalPart(input)
	if e != nil {
		var zero Mailbox
		return nil, zero, e
	}
	r, e2 := parse.Literal(r, []byte("@"), "value.mailbox.at")
	if e2 != nil {
		var zero Mailbox
		return nil, zero, e2
	}
	r, dom, e3 := ParseDomainOrAddress(r)
	if e3 != nil {
		var zero Mailbox
		return nil, zero, e3
	}
	return r, Mailbox{LocalPart: local, Domain: dom}, nil
}

// AtDomain parses At-domain = "@" Domain, one hop of a source route.
func AtDomain(input []byte) (rest []byte, value string, err error) {
	r, e := parse.Literal(input, []byte("@"), "value.at-domain")
	if e != nil {
		return nil, "", e
	}
	return Domain(r)
}

func comma(input []byte) (rest []byte, value struct{}, err error) {
	r, e := parse.Literal(input, []byte(","), "value.a-d-l.comma")
	if e != nil {
		return nil, struct{}{}, e
	}
	return r, struct{}{}, nil
}

// ADL parses A-d-l = At-domain *("," At-domain), the deprecated source-route
// prefix a Path may carry.
func ADL(input []byte) (rest []byte, value []string, err error) {
	return parse.SeparatedList1(input, AtDomain, comma, "value.a-d-l")
}

// Path is the bracketed "<...>" form that carries a Mailbox and, for
// backward compatibility, an optional source route (RFC 5321 4.1.2).
type Path struct {
	SourceRoute []string
	Mailbox     Mailbox
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('<')
	if len(p.SourceRoute) > 0 {
		for i, hop := range p.SourceRoute {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('@')
			b.WriteString(hop)
		}
		b.WriteByte(':')
	}
	b.WriteString(p.Mailbox.String())
	b.WriteByte('>')
	return b.String()
}

// ParsePath parses Path = "<" [ A-d-l ":" ] Mailbox ">".
func ParsePath(input []byte) (rest []byte, value Path, err error) {
	r, e := parse.Literal(input, []byte("<"), "value.path.open")
	if e != nil {
		var zero Path
		return nil, zero, e
	}
	var route []string
	if r2, adl, ok, e2 := parse.Opt(r, ADL); e2 != nil {
		var zero Path
		return nil, zero, e2
	} else if ok {
		r3, e3 := parse.Literal(r2, []byte(":"), "value.path.route-colon")
		if e3 == nil {
			route = adl
			r = r3
		}
		// If the colon doesn't follow, the A-d-l we matched was actually
		// part of something else; fall through and reparse as a Mailbox
		// starting at the original position.
	}
	r, mbox, e4 := ParseMailbox(r)
	if e4 != nil {
		var zero Path
		return nil, zero, e4
	}
	r, e5 := parse.Literal(r, []byte(">"), "value.path.close")
	if e5 != nil {
		var zero Path
		return nil, zero, e5
	}
	return r, Path{SourceRoute: route, Mailbox: mbox}, nil
}

// ReversePath is the MAIL FROM argument: a Path, or the empty "<>" null
// sender used to suppress bounce loops.
type ReversePath struct {
	Null bool
	Path Path
}

func (r ReversePath) String() string {
	if r.Null {
		return "<>"
	}
	return r.Path.String()
}

// ParseReversePath parses Reverse-path = Path / "<>".
func ParseReversePath(input []byte) (rest []byte, value ReversePath, err error) {
	r, e := parse.Literal(input, []byte("<>"), "value.reverse-path.null")
	if e == nil {
		return r, ReversePath{Null: true}, nil
	}
	if parse.IsIncomplete(e) {
		var zero ReversePath
		return nil, zero, e
	}
	r, p, e2 := ParsePath(input)
	if e2 != nil {
		var zero ReversePath
		return nil, zero, e2
	}
	return r, ReversePath{Path: p}, nil
}
