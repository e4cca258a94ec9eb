package imf

import (
	"github.com/gopistolet/smtpcodec/parse"
)

// MsgID is a parsed msg-id: "<" id-left "@" id-right ">" (RFC 5322 3.6.4),
// the Message-ID-shaped token the trace package's "id=" clause carries.
type MsgID struct {
	Left  string
	Right string
}

func (m MsgID) String() string { return "<" + m.Left + "@" + m.Right + ">" }

// ParseMsgID parses msg-id = [CFWS] "<" id-left "@" id-right ">" [CFWS],
// consuming the leading whitespace only: whitespace after ">" is left in
// rest for whatever clause follows. id-left and id-right both degrade to
// dot-atom-text: the no-fold-quote and no-fold-literal alternatives RFC 5322 defines for them depend on folding
// whitespace this package does not implement.
func ParseMsgID(input []byte) (rest []byte, value MsgID, err error) {
	r := input
	if r2, _, _, e := parse.Opt(r, FWS); e != nil {
		var zero MsgID
		return nil, zero, e
	} else {
		r = r2
	}
	r, e := parse.Literal(r, []byte("<"), "imf.msg-id.open")
	if e != nil {
		var zero MsgID
		return nil, zero, e
	}
	r, left, e2 := DotAtomText(r)
	if e2 != nil {
		var zero MsgID
		return nil, zero, e2
	}
	r, e3 := parse.Literal(r, []byte("@"), "imf.msg-id.at")
	if e3 != nil {
		var zero MsgID
		return nil, zero, e3
	}
	r, right, e4 := DotAtomText(r)
	if e4 != nil {
		var zero MsgID
		return nil, zero, e4
	}
	r, e5 := parse.Literal(r, []byte(">"), "imf.msg-id.close")
	if e5 != nil {
		var zero MsgID
		return nil, zero, e5
	}
	return r, MsgID{Left: left, Right: right}, nil
}
