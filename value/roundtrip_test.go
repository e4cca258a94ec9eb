package value

import (
	"testing"
	"testing/quick"
)

// TestEscapeQuotedInvolution checks that UnescapeQuoted inverts
// EscapeQuoted for every string drawn from the alphabet a Quoted-string
// interior may decode to: qtextSMTP, SP, backslash and DQUOTE.
func TestEscapeQuotedInvolution(t *testing.T) {
	alphabet := []byte{' ', '!', '"', '\\', '#', 'a', 'z', '~'}
	inverts := func(raw []byte) bool {
		s := make([]byte, len(raw))
		for i, b := range raw {
			s[i] = alphabet[int(b)%len(alphabet)]
		}
		return UnescapeQuoted(EscapeQuoted(string(s))) == string(s)
	}
	if err := quick.Check(inverts, nil); err != nil {
		t.Error(err)
	}
}

// TestQuotedStringReparse checks that a decoded Quoted-string re-encodes to
// a wire form that parses back to the same text.
func TestQuotedStringReparse(t *testing.T) {
	for _, decoded := range []string{"", "plain", `with "quotes"`, `back\slash`, `both \"`} {
		wire := `"` + EscapeQuoted(decoded) + `"`
		rest, got, err := QuotedString([]byte(wire))
		if err != nil {
			t.Fatalf("QuotedString(%q): %v", wire, err)
		}
		if len(rest) != 0 {
			t.Fatalf("QuotedString(%q) left %q unconsumed", wire, rest)
		}
		if got != decoded {
			t.Errorf("QuotedString(%q) = %q, want %q", wire, got, decoded)
		}
	}
}
