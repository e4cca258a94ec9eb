package response

import (
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"

	"github.com/gopistolet/smtpcodec/value"
)

func valueTextString(t *testing.T, s string) []value.TextString {
	t.Helper()
	ts, err := value.NewTextString(s)
	if err != nil {
		t.Fatalf("NewTextString(%q): %v", s, err)
	}
	return []value.TextString{ts}
}

// TestReplyCodeBijection checks that reply codes and their numeric wire
// form convert both ways without loss, named or not.
func TestReplyCodeBijection(t *testing.T) {
	roundTrips := func(v uint16) bool {
		return FromUint16(v).ToUint16() == v
	}
	if err := quick.Check(roundTrips, nil); err != nil {
		t.Error(err)
	}

	for code, name := range replyCodeNames {
		if FromUint16(code.ToUint16()).Name() != name {
			t.Errorf("code %d: named round trip lost its name", code)
		}
	}
}

// TestParseResponseNoPanic checks that Parse terminates and returns a value
// or an error, never panics, on malformed or truncated reply lines.
func TestParseResponseNoPanic(t *testing.T) {
	inputs := []string{
		"",
		"\r\n",
		"2",
		"220",
		"220 \r\n",
		"250-\r\n",
		"250-a\r\n",
		"999 nope\r\n",
		"220-x\r\n221 y\r\n",
		"250 example.org \xff\xfe\r\n",
	}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Parse(%q) panicked: %v", in, r)
				}
			}()
			Parse([]byte(in))
		}()
	}
}

// TestResponseRoundTrip serializes then reparses a representative value of
// each Response variant and expects the original back.
func TestResponseRoundTrip(t *testing.T) {
	cases := []Response{
		Greeting{Domain: "mx.example.com"},
		Greeting{Domain: "mx.example.com", Text: "ESMTP ready"},
		Greeting{Domain: "example.org", Text: "ESMTP ...\nline two\nend"},
		Ehlo{Domain: "mx.example.com"},
		Ehlo{
			Domain: "mx.example.com",
			Capabilities: []Capability{
				{Kind: CapPipelining},
				{Kind: CapSize, Size: 35882577},
			},
		},
		Other{Code: MailboxUnavailable, Lines: valueTextString(t, "Mailbox unavailable")},
	}

	for _, want := range cases {
		wire := want.Serialize()
		rest, got, err := Parse([]byte(wire))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", wire, err)
		}
		if len(rest) != 0 {
			t.Fatalf("Parse(%q) left unconsumed input %q", wire, rest)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip of %q mismatch (-want +got):\n%s", wire, diff)
		}
	}
}
