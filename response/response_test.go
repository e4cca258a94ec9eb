package response

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseGreetingMultiLine(t *testing.T) {
	Convey("Given a greeting with three continuation lines", t, func() {
		wire := []byte("220-example.org ESMTP ...\r\n220-line two\r\n220 end\r\n")
		rest, g, err := ParseGreeting(wire)
		So(err, ShouldBeNil)
		So(string(rest), ShouldBeEmpty)
		So(g.Domain, ShouldEqual, "example.org")
		So(g.Text, ShouldEqual, "ESMTP ...\nline two\nend")
	})
}

func TestSerializeGreetingMultiLine(t *testing.T) {
	Convey("Given a three-line greeting value", t, func() {
		g := Greeting{Domain: "example.org", Text: "A\nB\nC"}
		So(g.Serialize(), ShouldEqual, "220-example.org A\r\n220-B\r\n220 C\r\n")
	})
}

func TestParseEhloCapabilities(t *testing.T) {
	Convey("Given an EHLO response with a mix of known capabilities", t, func() {
		wire := []byte("250-example.org hi\r\n" +
			"250-AUTH LOGIN CRAM-MD5 PLAIN\r\n" +
			"250-AUTH=LOGIN CRAM-MD5 PLAIN\r\n" +
			"250-STARTTLS\r\n" +
			"250-SIZE 12345\r\n" +
			"250 8BITMIME\r\n")
		rest, e, err := ParseEhloResponse(wire)
		So(err, ShouldBeNil)
		So(string(rest), ShouldBeEmpty)
		So(e.Domain, ShouldEqual, "example.org")
		So(*e.Greet, ShouldEqual, "hi")
		So(e.Capabilities, ShouldHaveLength, 5)

		auth1 := e.Capabilities[0]
		So(auth1.Kind, ShouldEqual, CapAuth)
		So(auth1.String(), ShouldEqual, "AUTH LOGIN CRAM-MD5 PLAIN")

		auth2 := e.Capabilities[1]
		So(auth2.Kind, ShouldEqual, CapAuth)
		So(auth2.String(), ShouldEqual, "AUTH LOGIN CRAM-MD5 PLAIN")

		So(e.Capabilities[2].Kind, ShouldEqual, CapStartTls)
		So(e.Capabilities[3].Kind, ShouldEqual, CapSize)
		So(e.Capabilities[3].Size, ShouldEqual, uint32(12345))
		So(e.Capabilities[4].Kind, ShouldEqual, CapEightBitMime)
	})
}

func TestParseReplyLinesRequireMatchingCode(t *testing.T) {
	Convey("Given a multi-line reply whose lines share a code", t, func() {
		wire := []byte("250-first\r\n250-second\r\n250 third\r\n")
		rest, o, err := ParseReplyLines(wire)
		So(err, ShouldBeNil)
		So(string(rest), ShouldBeEmpty)
		So(o.Code, ShouldEqual, Ok)
		So(o.Lines, ShouldHaveLength, 3)
		So(o.Serialize(), ShouldEqual, string(wire))
	})

	Convey("Given a multi-line reply whose codes disagree", t, func() {
		_, _, err := ParseReplyLines([]byte("250-first\r\n251 second\r\n"))
		So(err, ShouldNotBeNil)
	})
}

func TestReplyCodePredicates(t *testing.T) {
	Convey("Given replies from each status class", t, func() {
		So(Ok.IsCompleted(), ShouldBeTrue)
		So(StartMailInput.IsAccepted(), ShouldBeTrue)
		So(ServiceNotAvailable.IsTemporaryError(), ShouldBeTrue)
		So(CommandUnrecognized.IsPermanentError(), ShouldBeTrue)
	})
}

func TestParseGreetingSMTPUTF8Text(t *testing.T) {
	Convey("Given a greeting whose text carries a UTF-8 greeting", t, func() {
		wire := []byte("220 example.org Bienvenue \xc3\xa0 bord\r\n")
		rest, g, err := ParseGreeting(wire)
		So(err, ShouldBeNil)
		So(string(rest), ShouldBeEmpty)
		So(g.Text, ShouldEqual, "Bienvenue \xc3\xa0 bord")
	})

	Convey("Given a greeting whose text carries malformed UTF-8", t, func() {
		_, _, err := ParseGreeting([]byte("220 example.org jos\xe9\r\n"))
		So(err, ShouldNotBeNil)
	})
}

func TestParseEhloGreetSMTPUTF8(t *testing.T) {
	Convey("Given an EHLO greet carrying a UTF-8 byte sequence", t, func() {
		wire := []byte("250 example.org caf\xc3\xa9\r\n")
		_, e, err := ParseEhloResponse(wire)
		So(err, ShouldBeNil)
		So(*e.Greet, ShouldEqual, "caf\xc3\xa9")
	})
}

func TestTopLevelParseDispatch(t *testing.T) {
	Convey("Given a 220 greeting, a 250 EHLO response and a generic 550 reply", t, func() {
		_, g, err := Parse([]byte("220 mx.example.com\r\n"))
		So(err, ShouldBeNil)
		_, isGreeting := g.(Greeting)
		So(isGreeting, ShouldBeTrue)

		_, e, err := Parse([]byte("250-mx.example.com\r\n250 PIPELINING\r\n"))
		So(err, ShouldBeNil)
		_, isEhlo := e.(Ehlo)
		So(isEhlo, ShouldBeTrue)

		_, o, err := Parse([]byte("550 Mailbox unavailable\r\n"))
		So(err, ShouldBeNil)
		other, isOther := o.(Other)
		So(isOther, ShouldBeTrue)
		So(other.Code, ShouldEqual, MailboxUnavailable)
	})
}
