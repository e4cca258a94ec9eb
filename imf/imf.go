// Package imf implements the narrow slice of RFC 5322 Internet Message
// Format grammar the trace package needs: dot-atom and
// quoted-string text, msg-id, and date-time. Folding whitespace and
// comments (FWS/CFWS) are deliberately not implemented: every production
// below accepts only the non-folded subset RFC 5321 4.1.2 mail actually
// carries, matching the upstream grammar those productions were ported
// from, which leaves CFWS unimplemented as well.
package imf

import (
	"strings"

	"github.com/gopistolet/smtpcodec/abnf"
	"github.com/gopistolet/smtpcodec/parse"
)

// ErrCFWSUnsupported is the label attached to a parse.Error raised when
// input requires folding whitespace or a comment to parse correctly.
const ErrCFWSUnsupported = "imf.cfws-unsupported"

// CFWS would parse [FWS] (comment FWS)* comment? / FWS, RFC 5322 3.2.2. It
// is intentionally unimplemented: it reports Invalid with ErrCFWSUnsupported
// whenever it sees the "(" that would start a comment, at the start of input
// or right after leading whitespace, and otherwise degrades to plain FWS.
func CFWS(input []byte) (rest []byte, matched []byte, err error) {
	if len(input) > 0 && input[0] == '(' {
		return nil, nil, parse.Invalid(ErrCFWSUnsupported, 0)
	}
	r, m, e := FWS(input)
	if e != nil {
		return nil, nil, e
	}
	if len(r) > 0 && r[0] == '(' {
		return nil, nil, parse.Invalid(ErrCFWSUnsupported, len(m))
	}
	return r, m, nil
}

// FWS parses folding whitespace restricted to its non-folded form: one or
// more WSP. True line-folded FWS (CRLF WSP) is out of scope for the same
// reason CFWS is: this module parses single SMTP/IMF lines, not folded
// header blocks.
func FWS(input []byte) (rest []byte, matched []byte, err error) {
	r, m, e := parse.TakeWhile(input, abnf.IsWSP, 1, 0, "imf.fws")
	if e != nil {
		return nil, nil, e
	}
	return r, m, nil
}

// IsAtext reuses the SMTP atext class; RFC 5322's atext is identical to
// RFC 5321's.
func IsAtext(b byte) bool { return abnf.IsAtext(b) }

// DotAtomText parses dot-atom-text = 1*atext *("." 1*atext).
func DotAtomText(input []byte) (rest []byte, value string, err error) {
	atom := func(in []byte) (rest []byte, value string, err error) {
		r, m, e := parse.TakeWhile(in, IsAtext, 1, 0, "imf.atom")
		if e != nil {
			return nil, "", e
		}
		return r, string(m), nil
	}
	dot := func(in []byte) (rest []byte, value struct{}, err error) {
		r, e := parse.Literal(in, []byte("."), "imf.dot-atom-text.dot")
		if e != nil {
			return nil, struct{}{}, e
		}
		return r, struct{}{}, nil
	}
	r, parts, e := parse.SeparatedList1(input, atom, dot, "imf.dot-atom-text")
	if e != nil {
		return nil, "", e
	}
	return r, strings.Join(parts, "."), nil
}

// DotAtom parses dot-atom = [CFWS] dot-atom-text [CFWS]. Leading/trailing
// CFWS is only accepted in its FWS-only degraded form; see CFWS.
func DotAtom(input []byte) (rest []byte, value string, err error) {
	r := input
	if r2, _, _, e := parse.Opt(r, FWS); e != nil {
		return nil, "", e
	} else {
		r = r2
	}
	r, v, e := DotAtomText(r)
	if e != nil {
		return nil, "", e
	}
	if r2, _, _, e := parse.Opt(r, FWS); e != nil {
		return nil, "", e
	} else {
		r = r2
	}
	return r, v, nil
}

// IsQtext reports whether b may appear unescaped inside an IMF
// quoted-string (qtext = %d33 / %d35-91 / %d93-126, RFC 5322 3.2.4). It
// differs from SMTP's qtextSMTP only at %d32 (SP): qtextSMTP admits it,
// qtext does not, since IMF carries whitespace inside a quoted-string as
// FWS instead.
func IsQtext(b byte) bool {
	return b == 33 || (b >= 35 && b <= 91) || (b >= 93 && b <= 126)
}

// QuotedString parses the IMF quoted-string production (RFC 5322 3.2.4)
// without its surrounding [CFWS]: DQUOTE *([FWS] qcontent) [FWS] DQUOTE,
// with FWS restricted to plain WSP as throughout this package. Whitespace
// before the opening or after the closing DQUOTE is not consumed.
// qcontent is qtext / quoted-pair,
// and quoted-pair here is "\" (VCHAR / WSP) rather than SMTP's
// backslash-or-quote-only restriction.
func QuotedString(input []byte) (rest []byte, value string, err error) {
	r, _, e := parse.ByteClass(input, func(b byte) bool { return b == abnf.DQUOTE }, "imf.quoted-string.open")
	if e != nil {
		return nil, "", e
	}
	var b strings.Builder
	cur := r
	for {
		if len(cur) == 0 {
			return nil, "", parse.Incomplete("imf.quoted-string", len(input)-len(cur))
		}
		if cur[0] == abnf.DQUOTE {
			return cur[1:], b.String(), nil
		}
		if cur[0] == '\\' {
			if len(cur) < 2 {
				return nil, "", parse.Incomplete("imf.quoted-pair", len(input)-len(cur))
			}
			next := cur[1]
			if !abnf.IsVCHAR(next) && !abnf.IsWSP(next) {
				return nil, "", parse.Invalid("imf.quoted-pair", len(input)-len(cur)+1)
			}
			b.WriteByte(next)
			cur = cur[2:]
			continue
		}
		if IsQtext(cur[0]) || abnf.IsWSP(cur[0]) {
			b.WriteByte(cur[0])
			cur = cur[1:]
			continue
		}
		return nil, "", parse.Invalid("imf.quoted-string", len(input)-len(cur))
	}
}
