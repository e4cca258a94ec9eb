package value

import (
	"strings"

	"github.com/gopistolet/smtpcodec/abnf"
	"github.com/gopistolet/smtpcodec/parse"
)

// AtomOrQuotedKind tags which alternative an AtomOrQuoted holds.
type AtomOrQuotedKind int

const (
	// AtomKind marks a bare Atom (1*atext).
	AtomKind AtomOrQuotedKind = iota
	// QuotedKind marks an SMTP Quoted-string.
	QuotedKind
)

// AtomOrQuoted is the String production of RFC 5321 4.1.2: either a bare
// Atom or a DQUOTE-delimited Quoted-string. Value always holds the decoded
// (unescaped) text, regardless of which alternative produced it.
type AtomOrQuoted struct {
	Kind  AtomOrQuotedKind
	Value string
}

// NewAtom builds an AtomOrQuoted that serializes as a bare Atom. The caller
// is responsible for s being a valid Atom (non-empty, all atext); String
// will produce grammatically invalid output otherwise.
func NewAtom(s string) AtomOrQuoted { return AtomOrQuoted{Kind: AtomKind, Value: s} }

// NewQuoted builds an AtomOrQuoted that serializes as a Quoted-string.
func NewQuoted(s string) AtomOrQuoted { return AtomOrQuoted{Kind: QuotedKind, Value: s} }

// IsQuoted reports whether a was parsed from (or will serialize as) a
// Quoted-string rather than a bare Atom.
func (a AtomOrQuoted) IsQuoted() bool { return a.Kind == QuotedKind }

func (a AtomOrQuoted) String() string {
	if a.Kind == QuotedKind {
		return `"` + EscapeQuoted(a.Value) + `"`
	}
	return a.Value
}

// EscapeQuoted inserts the backslash escapes a Quoted-string's QcontentSMTP
// requires for DQUOTE and backslash; every other qtextSMTP byte passes
// through unchanged. The grammar this module implements only ever needs to
// escape those two bytes (quoted-pairSMTP is restricted to `\\` and `\"`).
func EscapeQuoted(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// UnescapeQuoted removes the backslash escapes EscapeQuoted inserts.
func UnescapeQuoted(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			b.WriteByte(s[i])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Atom parses a bare Atom: 1*atext.
func Atom(input []byte) (rest []byte, value string, err error) {
	r, matched, e := parse.TakeWhile(input, abnf.IsAtext, 1, 0, "value.atom")
	if e != nil {
		return nil, "", e
	}
	return r, string(matched), nil
}

// QuotedString parses an SMTP Quoted-string: DQUOTE *QcontentSMTP DQUOTE,
// returning the decoded (unescaped) interior text.
func QuotedString(input []byte) (rest []byte, value string, err error) {
	r, _, e := parse.ByteClass(input, func(b byte) bool { return b == abnf.DQUOTE }, "value.quoted-string.open")
	if e != nil {
		return nil, "", e
	}
	var b strings.Builder
	cur := r
	for {
		if len(cur) == 0 {
			return nil, "", parse.Incomplete("value.quoted-string", len(input)-len(cur))
		}
		if cur[0] == abnf.DQUOTE {
			return cur[1:], b.String(), nil
		}
		if cur[0] == '\\' {
			if len(cur) < 2 {
				return nil, "", parse.Incomplete("value.quoted-string.pair", len(input)-len(cur))
			}
			next := cur[1]
			if next != '\\' && next != abnf.DQUOTE {
				return nil, "", parse.Invalid("value.quoted-string.pair", len(input)-len(cur)+1)
			}
			b.WriteByte(next)
			cur = cur[2:]
			continue
		}
		if !abnf.IsQtextSMTP(cur[0]) {
			return nil, "", parse.Invalid("value.quoted-string", len(input)-len(cur))
		}
		b.WriteByte(cur[0])
		cur = cur[1:]
	}
}

// ParseString parses the String production: an Atom or a Quoted-string.
func ParseString(input []byte) (rest []byte, value AtomOrQuoted, err error) {
	r, s, e := Atom(input)
	if e == nil {
		return r, NewAtom(s), nil
	}
	if parse.IsIncomplete(e) {
		// A bare DQUOTE is never a valid Atom start, so if we have at least
		// one byte and it's not a quote, Atom's Incomplete is authoritative.
		if len(input) > 0 && input[0] == abnf.DQUOTE {
			return quotedAsValue(input)
		}
		var zero AtomOrQuoted
		return nil, zero, e
	}
	return quotedAsValue(input)
}

func quotedAsValue(input []byte) (rest []byte, value AtomOrQuoted, err error) {
	r, s, e := QuotedString(input)
	if e != nil {
		var zero AtomOrQuoted
		return nil, zero, e
	}
	return r, NewQuoted(s), nil
}
