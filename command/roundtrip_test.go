package command

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gopistolet/smtpcodec/parse"
	"github.com/gopistolet/smtpcodec/value"
)

// TestCommandRoundTrip exercises the universal round-trip property (every
// Command built from public constructors survives serialize then parse
// unchanged) across one representative value per verb. cmp.Diff is used
// for its readable -want/+got report on failure; like reflect.DeepEqual it
// compares what the *string Parameter.Value points to and tells a nil
// Params slice from an empty one.
func TestCommandRoundTrip(t *testing.T) {
	cases := []Command{
		Helo{Domain: value.NewDomain("mail.example.org")},
		Ehlo{Domain: value.NewDomain("mail.example.org")},
		Mail{From: value.ReversePath{Path: mustPath(t, "<joe@example.org>")}},
		Mail{
			From:   value.ReversePath{Path: mustPath(t, "<joe@example.org>")},
			Params: []Parameter{{Kind: ParamSize, Size: 1024}},
		},
		Rcpt{To: Recipient{Kind: RecipientPostmaster}},
		Data{},
		Rset{},
		Vrfy{UserOrMailbox: value.NewAtom("smith")},
		Expn{MailingList: value.NewQuoted("a list")},
		Help{},
		Help{Argument: value.NewAtom("MAIL"), HasArgument: true},
		Noop{},
		Quit{},
		StartTls{},
		AuthLogin{},
		AuthLogin{InitialResponse: []byte("user")},
		AuthPlain{InitialResponse: []byte("\x00user\x00pass")},
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

func mustPath(t *testing.T, wire string) value.Path {
	t.Helper()
	_, p, err := value.ParsePath([]byte(wire))
	if err != nil {
		t.Fatalf("ParsePath(%q): %v", wire, err)
	}
	return p
}

// TestStreamingPrefixLaw checks the streaming contract: for a wire form
// Parse accepts in full, every strict prefix must report Incomplete (or
// parse successfully), never Invalid, so a caller buffering bytes off a
// socket can always retry with more input.
func TestStreamingPrefixLaw(t *testing.T) {
	wires := []string{
		"MAIL FROM:<joe@example.org> SIZE=1024\r\n",
		"EHLO [123.123.123.123]\r\n",
		"AUTH PLAIN dXNlcg==\r\n",
	}
	for _, wire := range wires {
		for i := 0; i < len(wire); i++ {
			_, _, err := Parse([]byte(wire[:i]))
			if err != nil && !parse.IsIncomplete(err) {
				t.Errorf("Parse(%q) = %v, want Incomplete", wire[:i], err)
			}
		}
	}
}

// TestParseCommandNoPanic checks that Parse terminates and returns a value
// or an error, never panics, on inputs shaped like real command lines but
// deliberately malformed.
func TestParseCommandNoPanic(t *testing.T) {
	inputs := []string{
		"",
		"\r\n",
		"HELO",
		"HELO\r\n",
		"MAIL FROM:\r\n",
		"MAIL FROM:<>\r\n",
		"RCPT TO:<Postmaster@\r\n",
		"AUTH LOGIN ===\r\n",
		"VRFY\r\n",
		"NOOP " + string(make([]byte, 64)) + "\r\n",
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
