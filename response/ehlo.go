package response

import (
	"strconv"
	"strings"

	"github.com/gopistolet/smtpcodec/abnf"
	"github.com/gopistolet/smtpcodec/parse"
)

// ehloKeyword parses ehlo-keyword = (ALPHA / DIGIT) *(ALPHA / DIGIT / "-"),
// RFC 5321 4.1.1.1.
func ehloKeyword(input []byte) (rest []byte, kw string, err error) {
	if len(input) == 0 {
		return nil, "", parse.Incomplete("response.ehlo-keyword", 0)
	}
	if !abnf.IsLetDig(input[0]) {
		return nil, "", parse.Invalid("response.ehlo-keyword", 0)
	}
	isTail := func(b byte) bool { return abnf.IsLetDig(b) || b == '-' }
	r, tail, e := parse.TakeWhile(input[1:], isTail, 0, 0, "response.ehlo-keyword")
	if e != nil {
		return nil, "", e
	}
	return r, string(input[0]) + string(tail), nil
}

// ehloParam parses ehlo-param = 1*(%d33-126), RFC 5321 4.1.1.1.
func ehloParam(input []byte) (rest []byte, param string, err error) {
	r, m, e := parse.TakeWhile(input, abnf.IsEhloParamByte, 1, 0, "response.ehlo-param")
	if e != nil {
		return nil, "", e
	}
	return r, string(m), nil
}

// ehloLineSep recognizes the separator between an ehlo-keyword and its
// parameter list: a plain SP, or the "=" Outlook sends in its place
// ("AUTH=LOGIN PLAIN").
func ehloLineSep(input []byte) (rest []byte, err error) {
	r, e := parse.Literal(input, []byte{' '}, "response.ehlo-line.sep")
	if e == nil {
		return r, nil
	}
	if parse.IsIncomplete(e) {
		return nil, e
	}
	return parse.Literal(input, []byte{'='}, "response.ehlo-line.sep")
}

// ehloLine parses ehlo-line = ehlo-keyword *( SP ehlo-param ), tolerating
// the "=" separator and an "=" between an other-keyword and its params
// (both deviations Outlook is known to send).
func ehloLine(input []byte) (rest []byte, kw string, params []string, err error) {
	r, keyword, e := ehloKeyword(input)
	if e != nil {
		return nil, "", nil, e
	}
	r2, e2 := ehloLineSep(r)
	if e2 != nil {
		if parse.IsIncomplete(e2) {
			return nil, "", nil, e2
		}
		return r, keyword, nil, nil
	}
	r3, ps, e3 := paramList(r2)
	if e3 != nil {
		return nil, "", nil, e3
	}
	return r3, keyword, ps, nil
}

func paramSpace(input []byte) (rest []byte, value struct{}, err error) {
	r, e := parse.Literal(input, []byte{' '}, "response.ehlo-line.param-sep")
	if e != nil {
		return nil, struct{}{}, e
	}
	return r, struct{}{}, nil
}

func paramList(input []byte) (rest []byte, params []string, err error) {
	return parse.SeparatedList1(input, ehloParam, paramSpace, "response.ehlo-line.params")
}

// ParseCapability maps an ehlo-line's keyword and parameters to a typed
// Capability, matching the closed keyword set case-insensitively before
// falling through to CapOther (RFC 5321 4.1.1.1 plus the registered
// extension keywords).
func ParseCapability(keyword string, params []string) Capability {
	for kind, kw := range capabilityKeywords {
		if !strings.EqualFold(kw, keyword) {
			continue
		}
		switch kind {
		case CapSize:
			if len(params) == 1 {
				if n, err := strconv.ParseUint(params[0], 10, 32); err == nil {
					return Capability{Kind: CapSize, Size: uint32(n)}
				}
			}
			return Capability{Kind: CapSize}
		case CapAuth:
			mechs := make([]AuthMechanism, len(params))
			for i, p := range params {
				mechs[i] = ParseAuthMechanism(p)
			}
			return Capability{Kind: CapAuth, Mechanisms: mechs}
		default:
			return Capability{Kind: kind}
		}
	}
	return Capability{Kind: CapOther, Keyword: keyword, Params: params}
}

// ParseEhloLineCapability parses one ehlo-line and maps it straight to a
// Capability.
func ParseEhloLineCapability(input []byte) (rest []byte, cap_ Capability, err error) {
	r, kw, params, e := ehloLine(input)
	if e != nil {
		var zero Capability
		return nil, zero, e
	}
	return r, ParseCapability(kw, params), nil
}
