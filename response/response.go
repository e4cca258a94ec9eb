package response

import (
	"strings"

	"github.com/gopistolet/smtpcodec/abnf"
	"github.com/gopistolet/smtpcodec/parse"
	"github.com/gopistolet/smtpcodec/value"
)

// Response is the closed set of SMTP server replies this module
// understands: a Greeting (220), an EHLO capability response (250), or the
// generic multi-line Other reply any other code uses.
type Response interface {
	isResponse()
	// Serialize renders the response to its wire form, CRLF included.
	Serialize() string
}

// Greeting is the server's initial 220 banner (RFC 5321 4.2, 3.1). Text
// holds every continuation line's text joined by "\n"; a single-line
// greeting with no text has Text == "".
type Greeting struct {
	Domain string
	Text   string
}

func (Greeting) isResponse() {}

// Ehlo is the multi-line (or single-line) response to an EHLO command
// (RFC 5321 4.1.1.1): a domain, an optional greeting string, and zero or
// more capabilities.
type Ehlo struct {
	Domain       string
	Greet        *string
	Capabilities []Capability
}

func (Ehlo) isResponse() {}

// Other is the generic multi-line SMTP reply (RFC 5321 4.2): a three-digit
// code shared by every line, and the textual payload of each line in
// order.
type Other struct {
	Code  ReplyCode
	Lines []value.TextString
}

func (Other) isResponse() {}

// hasHighByte reports whether b contains any octet outside the 7-bit ASCII
// range, the signal that an SMTPUTF8 UTF-8 well-formedness check applies.
func hasHighByte(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return true
		}
	}
	return false
}

// textstring parses RFC 5321 4.2's textstring, widened per RFC 6531 3.3 to
// also accept the 0x80-0xFF octets of a well-formed UTF-8 sequence. Only
// the greeting forms use this widening; generic reply lines carry
// value.TextString, whose alphabet is strictly 7-bit, and parse with
// strictTextstring instead.
func textstring(input []byte) (rest []byte, s string, err error) {
	r, m, e := parse.TakeWhile(input, abnf.IsTextStringByteUTF8, 1, 0, "response.textstring")
	if e != nil {
		return nil, "", e
	}
	if hasHighByte(m) {
		if e := value.ValidateUTF8Extended(m); e != nil {
			return nil, "", parse.Invalid("response.textstring.utf8", 0)
		}
	}
	return r, string(m), nil
}

// strictTextstring parses the unwidened RFC 5321 4.2 textstring: HT or
// printable ASCII only, the exact alphabet value.TextString accepts.
func strictTextstring(input []byte) (rest []byte, s string, err error) {
	r, m, e := parse.TakeWhile(input, abnf.IsTextStringByte, 1, 0, "response.textstring")
	if e != nil {
		return nil, "", e
	}
	return r, string(m), nil
}

// ehloGreetText parses the ehlo-greet production (RFC 5321 4.1.4 errata),
// widened per RFC 6531 3.3 to also accept the 0x80-0xFF octets of a
// well-formed UTF-8 sequence.
func ehloGreetText(input []byte) (rest []byte, s string, err error) {
	r, m, e := parse.TakeWhile(input, abnf.IsEhloGreetByteUTF8, 1, 0, "response.ehlo-greet")
	if e != nil {
		return nil, "", e
	}
	if hasHighByte(m) {
		if e := value.ValidateUTF8Extended(m); e != nil {
			return nil, "", parse.Invalid("response.ehlo-greet.utf8", 0)
		}
	}
	return r, string(m), nil
}

func crlf(input []byte) (rest []byte, err error) {
	return parse.Literal(input, []byte(abnf.CRLF), "response.crlf")
}

func sp(input []byte) (rest []byte, err error) {
	return parse.Literal(input, []byte{abnf.SP}, "response.sp")
}

func domainOrAddress(input []byte) (rest []byte, s string, err error) {
	r, d, e := value.ParseDomainOrAddress(input)
	if e != nil {
		return nil, "", e
	}
	return r, d.String(), nil
}

// optionalBareText parses [text] with no leading separator, the form a
// continuation line's text takes right after its "code-" prefix.
func optionalBareText(input []byte, text parse.Parser[string]) (rest []byte, s string, err error) {
	r, v, e := text(input)
	if e == nil {
		return r, v, nil
	}
	if parse.IsIncomplete(e) {
		return nil, "", e
	}
	return input, "", nil
}

// optionalText parses [SP text]: an empty result means absent.
func optionalText(input []byte, text parse.Parser[string]) (rest []byte, s string, err error) {
	r, e := sp(input)
	if e != nil {
		if parse.IsIncomplete(e) {
			return nil, "", e
		}
		return input, "", nil
	}
	r2, v, e2 := text(r)
	if e2 != nil {
		if parse.IsIncomplete(e2) {
			return nil, "", e2
		}
		return input, "", nil
	}
	return r2, v, nil
}

// ParseGreeting parses Greeting = ("220 " (Domain/address-literal)
// [SP textstring] CRLF) / ("220-" (Domain/address-literal)
// [SP textstring] CRLF ("220-" [textstring] CRLF)* "220" [SP textstring]
// CRLF), RFC 5321 4.2/3.1.
func ParseGreeting(input []byte) (rest []byte, g Greeting, err error) {
	return parse.Alt(input, "response.greeting", parseGreetingSingle, parseGreetingMulti)
}

func parseGreetingSingle(input []byte) (rest []byte, g Greeting, err error) {
	r, e := parse.Literal(input, []byte("220 "), "response.greeting.single")
	if e != nil {
		var zero Greeting
		return nil, zero, e
	}
	r, domain, e2 := domainOrAddress(r)
	if e2 != nil {
		var zero Greeting
		return nil, zero, e2
	}
	r, text, e3 := optionalText(r, textstring)
	if e3 != nil {
		var zero Greeting
		return nil, zero, e3
	}
	r, e4 := crlf(r)
	if e4 != nil {
		var zero Greeting
		return nil, zero, e4
	}
	return r, Greeting{Domain: domain, Text: text}, nil
}

func parseGreetingMulti(input []byte) (rest []byte, g Greeting, err error) {
	r, e := parse.Literal(input, []byte("220-"), "response.greeting.multi")
	if e != nil {
		var zero Greeting
		return nil, zero, e
	}
	r, domain, e2 := domainOrAddress(r)
	if e2 != nil {
		var zero Greeting
		return nil, zero, e2
	}
	r, firstText, e3 := optionalText(r, textstring)
	if e3 != nil {
		var zero Greeting
		return nil, zero, e3
	}
	r, e4 := crlf(r)
	if e4 != nil {
		var zero Greeting
		return nil, zero, e4
	}

	lines := []string{firstText}
	cur := r
	for {
		r2, e5 := parse.Literal(cur, []byte("220-"), "response.greeting.cont")
		if e5 != nil {
			if parse.IsIncomplete(e5) {
				var zero Greeting
				return nil, zero, e5
			}
			break
		}
		r3, text, e6 := optionalBareText(r2, textstring)
		if e6 != nil {
			var zero Greeting
			return nil, zero, e6
		}
		r4, e7 := crlf(r3)
		if e7 != nil {
			var zero Greeting
			return nil, zero, e7
		}
		lines = append(lines, text)
		cur = r4
	}

	r5, e8 := parse.Literal(cur, []byte("220"), "response.greeting.final")
	if e8 != nil {
		var zero Greeting
		return nil, zero, e8
	}
	r6, lastText, e9 := optionalText(r5, textstring)
	if e9 != nil {
		var zero Greeting
		return nil, zero, e9
	}
	r7, e10 := crlf(r6)
	if e10 != nil {
		var zero Greeting
		return nil, zero, e10
	}
	lines = append(lines, lastText)
	return r7, Greeting{Domain: domain, Text: strings.Join(lines, "\n")}, nil
}

// Serialize renders the greeting back to its wire form, choosing the
// single-line or multi-line "220"/"220-" form depending on whether Text
// contains an embedded newline.
func (g Greeting) Serialize() string {
	if !strings.Contains(g.Text, "\n") {
		if g.Text == "" {
			return "220 " + g.Domain + abnf.CRLF
		}
		return "220 " + g.Domain + " " + g.Text + abnf.CRLF
	}
	lines := strings.Split(g.Text, "\n")
	var b strings.Builder
	b.WriteString("220-")
	b.WriteString(g.Domain)
	if lines[0] != "" {
		b.WriteByte(' ')
		b.WriteString(lines[0])
	}
	b.WriteString(abnf.CRLF)
	for _, l := range lines[1 : len(lines)-1] {
		b.WriteString("220-")
		b.WriteString(l)
		b.WriteString(abnf.CRLF)
	}
	last := lines[len(lines)-1]
	if last == "" {
		b.WriteString("220" + abnf.CRLF)
	} else {
		b.WriteString("220 " + last + abnf.CRLF)
	}
	return b.String()
}

// ParseEhloResponse parses ehlo-ok-rsp (RFC 5321 4.1.1.1): either a single
// "250 " line with no capabilities, or a "250-" multi-line block whose
// final line is introduced by "250 ".
func ParseEhloResponse(input []byte) (rest []byte, e_ Ehlo, err error) {
	return parse.Alt(input, "response.ehlo-response", parseEhloSingle, parseEhloMulti)
}

func parseEhloSingle(input []byte) (rest []byte, e_ Ehlo, err error) {
	r, e := parse.Literal(input, []byte("250 "), "response.ehlo-response.single")
	if e != nil {
		var zero Ehlo
		return nil, zero, e
	}
	r, domain, e2 := domainOrAddress(r)
	if e2 != nil {
		var zero Ehlo
		return nil, zero, e2
	}
	r, greet, e3 := optionalGreet(r)
	if e3 != nil {
		var zero Ehlo
		return nil, zero, e3
	}
	r, e4 := crlf(r)
	if e4 != nil {
		var zero Ehlo
		return nil, zero, e4
	}
	return r, Ehlo{Domain: domain, Greet: greet}, nil
}

func parseEhloMulti(input []byte) (rest []byte, e_ Ehlo, err error) {
	r, e := parse.Literal(input, []byte("250-"), "response.ehlo-response.multi")
	if e != nil {
		var zero Ehlo
		return nil, zero, e
	}
	r, domain, e2 := domainOrAddress(r)
	if e2 != nil {
		var zero Ehlo
		return nil, zero, e2
	}
	r, greet, e3 := optionalGreet(r)
	if e3 != nil {
		var zero Ehlo
		return nil, zero, e3
	}
	r, e4 := crlf(r)
	if e4 != nil {
		var zero Ehlo
		return nil, zero, e4
	}

	var caps []Capability
	cur := r
	for {
		r2, e5 := parse.Literal(cur, []byte("250-"), "response.ehlo-response.cont")
		if e5 != nil {
			if parse.IsIncomplete(e5) {
				var zero Ehlo
				return nil, zero, e5
			}
			break
		}
		r3, cap_, e6 := ParseEhloLineCapability(r2)
		if e6 != nil {
			var zero Ehlo
			return nil, zero, e6
		}
		r4, e7 := crlf(r3)
		if e7 != nil {
			var zero Ehlo
			return nil, zero, e7
		}
		caps = append(caps, cap_)
		cur = r4
	}

	r5, e8 := parse.Literal(cur, []byte("250 "), "response.ehlo-response.final")
	if e8 != nil {
		var zero Ehlo
		return nil, zero, e8
	}
	r6, lastCap, e9 := ParseEhloLineCapability(r5)
	if e9 != nil {
		var zero Ehlo
		return nil, zero, e9
	}
	r7, e10 := crlf(r6)
	if e10 != nil {
		var zero Ehlo
		return nil, zero, e10
	}
	caps = append(caps, lastCap)
	return r7, Ehlo{Domain: domain, Greet: greet, Capabilities: caps}, nil
}

func optionalGreet(input []byte) (rest []byte, greet *string, err error) {
	r, e := sp(input)
	if e != nil {
		if parse.IsIncomplete(e) {
			return nil, nil, e
		}
		return input, nil, nil
	}
	r2, s, e2 := ehloGreetText(r)
	if e2 != nil {
		if parse.IsIncomplete(e2) {
			return nil, nil, e2
		}
		return input, nil, nil
	}
	return r2, &s, nil
}

// Serialize renders the EHLO response, choosing the single-line form when
// there are no capabilities and the multi-line "250-"/"250 " form
// otherwise.
func (e Ehlo) Serialize() string {
	if len(e.Capabilities) == 0 {
		return "250 " + e.Domain + greetSuffix(e.Greet) + abnf.CRLF
	}
	var b strings.Builder
	b.WriteString("250-")
	b.WriteString(e.Domain)
	b.WriteString(greetSuffix(e.Greet))
	b.WriteString(abnf.CRLF)
	for _, c := range e.Capabilities[:len(e.Capabilities)-1] {
		b.WriteString("250-")
		b.WriteString(c.String())
		b.WriteString(abnf.CRLF)
	}
	b.WriteString("250 ")
	b.WriteString(e.Capabilities[len(e.Capabilities)-1].String())
	b.WriteString(abnf.CRLF)
	return b.String()
}

func greetSuffix(greet *string) string {
	if greet == nil {
		return ""
	}
	return " " + *greet
}

// replyCode parses Reply-code = %x32-35 %x30-35 %x30-39 (RFC 5321 4.2.1's
// range restriction on the otherwise generic three-digit code).
func replyCode(input []byte) (rest []byte, code ReplyCode, err error) {
	if len(input) < 3 {
		if matchesReplyCodePrefix(input) {
			return nil, 0, parse.Incomplete("response.reply-code", len(input))
		}
		return nil, 0, parse.Invalid("response.reply-code", 0)
	}
	d0, d1, d2 := input[0], input[1], input[2]
	if d0 < '2' || d0 > '5' {
		return nil, 0, parse.Invalid("response.reply-code", 0)
	}
	if d1 < '0' || d1 > '5' {
		return nil, 0, parse.Invalid("response.reply-code", 1)
	}
	if d2 < '0' || d2 > '9' {
		return nil, 0, parse.Invalid("response.reply-code", 2)
	}
	n := int(d0-'0')*100 + int(d1-'0')*10 + int(d2-'0')
	return input[3:], FromUint16(uint16(n)), nil
}

func matchesReplyCodePrefix(input []byte) bool {
	bounds := [3][2]byte{{'2', '5'}, {'0', '5'}, {'0', '9'}}
	for i, b := range input {
		if b < bounds[i][0] || b > bounds[i][1] {
			return false
		}
	}
	return true
}

// ParseReplyLines parses the generic multi-line reply form (RFC 5321 4.2):
// zero or more "code-" [textstring] CRLF lines followed by a final
// "code" [SP textstring] CRLF line, all sharing the same code.
func ParseReplyLines(input []byte) (rest []byte, o Other, err error) {
	r, code, e := replyCode(input)
	if e != nil {
		var zero Other
		return nil, zero, e
	}

	var lines []value.TextString
	cur := r
	for {
		r2, e2 := parse.Literal(cur, []byte("-"), "response.reply-line.dash")
		if e2 != nil {
			if parse.IsIncomplete(e2) {
				var zero Other
				return nil, zero, e2
			}
			break
		}
		r3, text, e3 := optionalBareText(r2, strictTextstring)
		if e3 != nil {
			var zero Other
			return nil, zero, e3
		}
		r4, e4 := crlf(r3)
		if e4 != nil {
			var zero Other
			return nil, zero, e4
		}
		ts, e5 := value.NewTextString(text)
		if e5 != nil {
			var zero Other
			return nil, zero, parse.Invalid("response.reply-line.text", len(input)-len(r3))
		}
		lines = append(lines, ts)

		r5, code2, e6 := replyCode(r4)
		if e6 != nil {
			var zero Other
			return nil, zero, e6
		}
		if code2 != code {
			var zero Other
			return nil, zero, parse.Invalid("response.reply-line.code-mismatch", len(input)-len(r4))
		}
		cur = r5
	}

	r6, text, e7 := optionalText(cur, strictTextstring)
	if e7 != nil {
		var zero Other
		return nil, zero, e7
	}
	r7, e8 := crlf(r6)
	if e8 != nil {
		var zero Other
		return nil, zero, e8
	}
	ts, e9 := value.NewTextString(text)
	if e9 != nil {
		var zero Other
		return nil, zero, parse.Invalid("response.reply-line.text", len(input)-len(r6))
	}
	lines = append(lines, ts)
	return r7, Other{Code: code, Lines: lines}, nil
}

// Serialize renders the generic reply, using "code-" for every line but
// the last and "code " (or bare "code" when the last line is empty) for
// the last, RFC 5321 4.2.
func (o Other) Serialize() string {
	var b strings.Builder
	for _, l := range o.Lines[:len(o.Lines)-1] {
		b.WriteString(o.Code.String())
		b.WriteByte('-')
		b.WriteString(l.String())
		b.WriteString(abnf.CRLF)
	}
	last := o.Lines[len(o.Lines)-1]
	b.WriteString(o.Code.String())
	if last.String() != "" {
		b.WriteByte(' ')
		b.WriteString(last.String())
	}
	b.WriteString(abnf.CRLF)
	return b.String()
}

func asGreeting(input []byte) (rest []byte, resp Response, err error) {
	r, g, e := ParseGreeting(input)
	if e != nil {
		var zero Response
		return nil, zero, e
	}
	return r, g, nil
}

func asEhlo(input []byte) (rest []byte, resp Response, err error) {
	r, eh, e := ParseEhloResponse(input)
	if e != nil {
		var zero Response
		return nil, zero, e
	}
	return r, eh, nil
}

func asOther(input []byte) (rest []byte, resp Response, err error) {
	r, o, e := ParseReplyLines(input)
	if e != nil {
		var zero Response
		return nil, zero, e
	}
	return r, o, nil
}

// Parse parses a single SMTP reply, trying the most specific forms first:
// a 220 Greeting, then a 250 EHLO response, then the generic multi-line
// reply any other code (or a 250 that isn't EHLO-shaped) uses.
func Parse(input []byte) (rest []byte, resp Response, err error) {
	return parse.Alt(input, "response", asGreeting, asEhlo, asOther)
}
