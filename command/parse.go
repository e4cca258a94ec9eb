package command

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/gopistolet/smtpcodec/abnf"
	"github.com/gopistolet/smtpcodec/parse"
	"github.com/gopistolet/smtpcodec/value"
)

// Parse parses a single SMTP command line, CRLF included, trying each verb
// in the order RFC 5321 4.1.1 lists them.
func Parse(input []byte) (rest []byte, cmd Command, err error) {
	return parse.Alt(input, "command",
		parseHelo, parseEhlo, parseMail, parseRcpt, parseData, parseRset,
		parseVrfy, parseExpn, parseHelp, parseNoop, parseQuit, parseStartTls,
		parseAuthLogin, parseAuthPlain,
	)
}

func crlf(input []byte) (rest []byte, err error) {
	return parse.Literal(input, []byte(abnf.CRLF), "command.crlf")
}

func sp(input []byte) (rest []byte, err error) {
	return parse.Literal(input, []byte{abnf.SP}, "command.sp")
}

// optionalSP tolerates the Outlook-ism of one extra space after the colon
// in "MAIL FROM:" / "RCPT TO:", where the grammar has none.
func optionalSP(input []byte) (rest []byte, err error) {
	r, e := sp(input)
	if e == nil {
		return r, nil
	}
	if parse.IsIncomplete(e) {
		return nil, e
	}
	return input, nil
}

func parseHelo(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("HELO"), "command.helo")
	if e != nil {
		return nil, nil, e
	}
	r, e = sp(r)
	if e != nil {
		return nil, nil, e
	}
	r, dom, e := value.ParseDomainOrAddress(r)
	if e != nil {
		return nil, nil, e
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Helo{Domain: dom}, nil
}

func parseEhlo(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("EHLO"), "command.ehlo")
	if e != nil {
		return nil, nil, e
	}
	r, e = sp(r)
	if e != nil {
		return nil, nil, e
	}
	r, dom, e := value.ParseDomainOrAddress(r)
	if e != nil {
		return nil, nil, e
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Ehlo{Domain: dom}, nil
}

func parseMail(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("MAIL FROM:"), "command.mail")
	if e != nil {
		return nil, nil, e
	}
	r, e = optionalSP(r)
	if e != nil {
		return nil, nil, e
	}
	r, from, e := value.ParseReversePath(r)
	if e != nil {
		return nil, nil, e
	}
	r, params, e := parseParameters(r)
	if e != nil {
		return nil, nil, e
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Mail{From: from, Params: params}, nil
}

func parseRcpt(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("RCPT TO:"), "command.rcpt")
	if e != nil {
		return nil, nil, e
	}
	r, e = optionalSP(r)
	if e != nil {
		return nil, nil, e
	}
	r, to, e := parse.Alt(r, "command.rcpt.to",
		parsePostmasterAtDomain, parsePostmaster, parseForwardPathRecipient)
	if e != nil {
		return nil, nil, e
	}
	r, params, e := parseParameters(r)
	if e != nil {
		return nil, nil, e
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Rcpt{To: to, Params: params}, nil
}

func parsePostmasterAtDomain(input []byte) (rest []byte, value_ Recipient, err error) {
	r, e := parse.LiteralCI(input, []byte("<Postmaster@"), "command.rcpt.postmaster-at")
	if e != nil {
		var zero Recipient
		return nil, zero, e
	}
	r, dom, e2 := value.Domain(r)
	if e2 != nil {
		var zero Recipient
		return nil, zero, e2
	}
	r, e3 := parse.Literal(r, []byte(">"), "command.rcpt.postmaster-at.close")
	if e3 != nil {
		var zero Recipient
		return nil, zero, e3
	}
	return r, Recipient{Kind: RecipientPostmasterAtDomain, Domain: dom}, nil
}

func parsePostmaster(input []byte) (rest []byte, value_ Recipient, err error) {
	r, e := parse.LiteralCI(input, []byte("<Postmaster>"), "command.rcpt.postmaster")
	if e != nil {
		var zero Recipient
		return nil, zero, e
	}
	return r, Recipient{Kind: RecipientPostmaster}, nil
}

func parseForwardPathRecipient(input []byte) (rest []byte, value_ Recipient, err error) {
	r, p, e := value.ParsePath(input)
	if e != nil {
		var zero Recipient
		return nil, zero, e
	}
	return r, Recipient{Kind: RecipientMailbox, Mailbox: p.Mailbox, SourceRoute: p.SourceRoute}, nil
}

// parseParameters parses Mail-parameters / Rcpt-parameters: *(SP esmtp-param).
func parseParameters(input []byte) (rest []byte, params []Parameter, err error) {
	cur := input
	var out []Parameter
	for {
		r, e := sp(cur)
		if e != nil {
			if parse.IsIncomplete(e) {
				return nil, nil, e
			}
			break
		}
		r2, p, e2 := parseOneParameter(r)
		if e2 != nil {
			if parse.IsIncomplete(e2) {
				return nil, nil, e2
			}
			break
		}
		out = append(out, p)
		cur = r2
	}
	return cur, out, nil
}

func parseOneParameter(input []byte) (rest []byte, p Parameter, err error) {
	isKeywordByte := func(b byte) bool { return abnf.IsLetDig(b) || b == '-' }
	if len(input) == 0 {
		var zero Parameter
		return nil, zero, parse.Incomplete("command.esmtp-param", 0)
	}
	if !abnf.IsLetDig(input[0]) {
		var zero Parameter
		return nil, zero, parse.Invalid("command.esmtp-keyword", 0)
	}
	r, kw, e := parse.TakeWhile(input, isKeywordByte, 1, 0, "command.esmtp-keyword")
	if e != nil {
		var zero Parameter
		return nil, zero, e
	}
	keyword := string(kw)
	var val *string
	if len(r) > 0 && r[0] == '=' {
		r2, v, e2 := parse.TakeWhile(r[1:], abnf.IsEsmtpValueByte, 1, 0, "command.esmtp-value")
		if e2 != nil {
			var zero Parameter
			return nil, zero, e2
		}
		s := string(v)
		val = &s
		r = r2
	}
	if strings.EqualFold(keyword, "SIZE") && val != nil {
		n, convErr := strconv.ParseUint(*val, 10, 32)
		if convErr == nil {
			return r, Parameter{Kind: ParamSize, Size: uint32(n)}, nil
		}
	}
	return r, Parameter{Kind: ParamOther, Keyword: keyword, Value: val}, nil
}

func parseData(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("DATA"), "command.data")
	if e != nil {
		return nil, nil, e
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Data{}, nil
}

func parseRset(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("RSET"), "command.rset")
	if e != nil {
		return nil, nil, e
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Rset{}, nil
}

func parseQuit(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("QUIT"), "command.quit")
	if e != nil {
		return nil, nil, e
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Quit{}, nil
}

func parseStartTls(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("STARTTLS"), "command.starttls")
	if e != nil {
		return nil, nil, e
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, StartTls{}, nil
}

func parseVrfy(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("VRFY"), "command.vrfy")
	if e != nil {
		return nil, nil, e
	}
	r, e = sp(r)
	if e != nil {
		return nil, nil, e
	}
	r, param, e := value.ParseString(r)
	if e != nil {
		return nil, nil, e
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Vrfy{UserOrMailbox: param}, nil
}

func parseExpn(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("EXPN"), "command.expn")
	if e != nil {
		return nil, nil, e
	}
	r, e = sp(r)
	if e != nil {
		return nil, nil, e
	}
	r, param, e := value.ParseString(r)
	if e != nil {
		return nil, nil, e
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Expn{MailingList: param}, nil
}

func parseHelp(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("HELP"), "command.help")
	if e != nil {
		return nil, nil, e
	}
	r, arg, has, e2 := parseOptionalTrailingParam(r)
	if e2 != nil {
		return nil, nil, e2
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Help{Argument: arg, HasArgument: has}, nil
}

func parseNoop(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("NOOP"), "command.noop")
	if e != nil {
		return nil, nil, e
	}
	r, arg, has, e2 := parseOptionalTrailingParam(r)
	if e2 != nil {
		return nil, nil, e2
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, Noop{Argument: arg, HasArgument: has}, nil
}

func parseOptionalTrailingParam(input []byte) (rest []byte, arg value.AtomOrQuoted, has bool, err error) {
	r, e := sp(input)
	if e != nil {
		if parse.IsIncomplete(e) {
			var zero value.AtomOrQuoted
			return nil, zero, false, e
		}
		var zero value.AtomOrQuoted
		return input, zero, false, nil
	}
	r2, s, e2 := value.ParseString(r)
	if e2 != nil {
		var zero value.AtomOrQuoted
		return nil, zero, false, e2
	}
	return r2, s, true, nil
}

func parseAuthLogin(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("AUTH LOGIN"), "command.auth-login")
	if e != nil {
		return nil, nil, e
	}
	r, resp, e2 := parseOptionalInitialResponse(r)
	if e2 != nil {
		return nil, nil, e2
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, AuthLogin{InitialResponse: resp}, nil
}

func parseAuthPlain(input []byte) (rest []byte, cmd Command, err error) {
	r, e := parse.LiteralCI(input, []byte("AUTH PLAIN"), "command.auth-plain")
	if e != nil {
		return nil, nil, e
	}
	r, resp, e2 := parseOptionalInitialResponse(r)
	if e2 != nil {
		return nil, nil, e2
	}
	r, e = crlf(r)
	if e != nil {
		return nil, nil, e
	}
	return r, AuthPlain{InitialResponse: resp}, nil
}

// parseOptionalInitialResponse tolerates both "AUTH LOGIN <b64>" (SP
// separator, per RFC 4954) and the Outlook-ism "AUTH LOGIN=<b64>".
func parseOptionalInitialResponse(input []byte) (rest []byte, resp []byte, err error) {
	r, e := sp(input)
	if e != nil {
		if parse.IsIncomplete(e) {
			return nil, nil, e
		}
		r2, e2 := parse.Literal(input, []byte("="), "command.auth.initial-response.sep")
		if e2 != nil {
			if parse.IsIncomplete(e2) {
				return nil, nil, e2
			}
			return input, nil, nil
		}
		r = r2
	}
	r, b64, e3 := parse.TakeWhile(r, abnf.IsBase64Char, 0, 0, "command.auth.initial-response")
	if e3 != nil {
		return nil, nil, e3
	}
	r, padded, e4 := takeBase64Padding(r)
	if e4 != nil {
		return nil, nil, e4
	}
	// The token cannot grow past this point: either the next byte is
	// neither base64 nor padding, or the full "==" padding has been
	// consumed. Unpadded tokens are part of the grammar, so decode them
	// with the raw alphabet.
	var decoded []byte
	var decErr error
	if padded == "" {
		decoded, decErr = base64.RawStdEncoding.DecodeString(string(b64))
	} else {
		decoded, decErr = base64.StdEncoding.DecodeString(string(b64) + padded)
	}
	if decErr != nil {
		return nil, nil, parse.Invalid("command.auth.initial-response.decode", 0)
	}
	return r, decoded, nil
}

// takeBase64Padding consumes the "=" / "==" padding tail of a base64
// token. Exhausting the input after a single "=" is Incomplete, not the
// end of the token: a second "=" may still follow.
func takeBase64Padding(input []byte) (rest []byte, padding string, err error) {
	n := 0
	for n < len(input) && n < 2 && input[n] == '=' {
		n++
	}
	if n == 1 && n == len(input) {
		return nil, "", parse.Incomplete("command.auth.initial-response.pad", n)
	}
	return input[n:], strings.Repeat("=", n), nil
}
