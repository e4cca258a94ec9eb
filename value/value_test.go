package value

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/gopistolet/smtpcodec/parse"
)

func TestTextString(t *testing.T) {
	Convey("Given candidate textstring bytes", t, func() {
		Convey("printable ASCII and HT are accepted", func() {
			ts, err := NewTextString("2.0.0 OK\tdone")
			So(err, ShouldBeNil)
			So(ts.String(), ShouldEqual, "2.0.0 OK\tdone")
		})
		Convey("a control byte is rejected with its offset", func() {
			_, err := NewTextString("bad\x01byte")
			So(err, ShouldNotBeNil)
			ite, ok := err.(*InvalidTextStringError)
			So(ok, ShouldBeTrue)
			So(ite.Offset, ShouldEqual, 3)
		})
	})
}

func TestQuotedStringRoundTrip(t *testing.T) {
	Convey("Given a quoted-string containing an escaped quote and backslash", t, func() {
		wire := []byte(`"a\"b\\c"`)
		rest, got, err := QuotedString(wire)
		Convey("it decodes to the unescaped text", func() {
			So(err, ShouldBeNil)
			So(string(rest), ShouldBeEmpty)
			So(got, ShouldEqual, `a"b\c`)
		})
		Convey("re-escaping round-trips back to the original wire form", func() {
			So(`"`+EscapeQuoted(got)+`"`, ShouldEqual, string(wire))
		})
	})

	Convey("Given a quoted-string truncated before its closing quote", t, func() {
		_, _, err := QuotedString([]byte(`"abc`))
		Convey("it reports Incomplete", func() {
			pe, ok := err.(interface{ Error() string })
			So(ok, ShouldBeTrue)
			_ = pe
			So(err, ShouldNotBeNil)
			So(parse.IsIncomplete(err), ShouldBeTrue)
		})
	})
}

func TestAtomOrQuoted(t *testing.T) {
	Convey("Given a bare atom", t, func() {
		rest, v, err := ParseString([]byte("foo.bar rest"))
		So(err, ShouldBeNil)
		So(string(rest), ShouldEqual, ".bar rest")
		So(v, ShouldResemble, NewAtom("foo"))
	})

	Convey("Given a quoted string", t, func() {
		rest, v, err := ParseString([]byte(`"foo bar" rest`))
		So(err, ShouldBeNil)
		So(string(rest), ShouldEqual, " rest")
		So(v, ShouldResemble, NewQuoted("foo bar"))
	})
}

func TestDomain(t *testing.T) {
	Convey("Given a multi-label domain", t, func() {
		rest, d, err := Domain([]byte("mail.example.com "))
		So(err, ShouldBeNil)
		So(d, ShouldEqual, "mail.example.com")
		So(string(rest), ShouldEqual, " ")
	})

	Convey("Given a domain label with internal hyphens", t, func() {
		rest, d, err := Domain([]byte("x--y.example>"))
		So(err, ShouldBeNil)
		So(d, ShouldEqual, "x--y.example")
		So(string(rest), ShouldEqual, ">")
	})

	Convey("Given an internationalized domain label with a UTF-8 byte sequence", t, func() {
		rest, d, err := Domain([]byte("caf\xc3\xa9.example>"))
		So(err, ShouldBeNil)
		So(d, ShouldEqual, "caf\xc3\xa9.example")
		So(string(rest), ShouldEqual, ">")
	})

	Convey("Given a domain label with a malformed UTF-8 octet", t, func() {
		_, _, err := Domain([]byte("jos\xe9.example>"))
		So(err, ShouldNotBeNil)
	})
}

func TestMailboxRoundTrip(t *testing.T) {
	Convey("Given a simple mailbox", t, func() {
		rest, m, err := ParseMailbox([]byte("joe@example.org>"))
		So(err, ShouldBeNil)
		So(string(rest), ShouldEqual, ">")
		So(m.LocalPart, ShouldEqual, "joe")
		So(m.Domain.Domain, ShouldEqual, "example.org")
		So(m.String(), ShouldEqual, "joe@example.org")
	})
}

func TestReversePathNull(t *testing.T) {
	Convey("Given the null reverse-path", t, func() {
		rest, rp, err := ParseReversePath([]byte("<> rest"))
		So(err, ShouldBeNil)
		So(rp.Null, ShouldBeTrue)
		So(rp.String(), ShouldEqual, "<>")
		So(string(rest), ShouldEqual, " rest")
	})
}

func TestDebugEscape(t *testing.T) {
	Convey("Given bytes with CR, LF and a non-printable byte", t, func() {
		got := DebugEscape([]byte("a\r\n\x01b"))
		So(got, ShouldEqual, "a\\r\\n\n\\x01b")
	})
}

func TestValidateUTF8Extended(t *testing.T) {
	Convey("Given well-formed and malformed UTF-8 local-part bytes", t, func() {
		So(ValidateUTF8Extended([]byte("jos\xc3\xa9")), ShouldBeNil)
		So(ValidateUTF8Extended([]byte("jos\xe9")), ShouldNotBeNil)
	})
}

func TestValidateIDNDomain(t *testing.T) {
	Convey("Given an internationalized domain label", t, func() {
		So(ValidateIDNDomain("xn--nxasmq6b.example"), ShouldBeNil)
	})

	Convey("Given a domain label with a disallowed codepoint", t, func() {
		So(ValidateIDNDomain("exa mple.com"), ShouldNotBeNil)
	})
}
