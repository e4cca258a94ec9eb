package imf

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/gopistolet/smtpcodec/parse"
)

func TestDotAtom(t *testing.T) {
	Convey("Given a multi-part dot-atom", t, func() {
		rest, v, err := DotAtom([]byte("foo.bar-baz@"))
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "foo.bar-baz")
		So(string(rest), ShouldEqual, "@")
	})
}

func TestIMFQuotedString(t *testing.T) {
	Convey("Given an IMF quoted-string with a WSP quoted-pair", t, func() {
		rest, v, err := QuotedString([]byte("\"a\\ b\"x"))
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "a b")
		So(string(rest), ShouldEqual, "x")
	})
}

func TestCFWSRejectsComments(t *testing.T) {
	Convey("Given input starting with a comment", t, func() {
		_, _, err := CFWS([]byte("(a comment) rest"))
		Convey("CFWS reports the dedicated unsupported label", func() {
			So(err, ShouldNotBeNil)
			So(parse.Label(err), ShouldEqual, ErrCFWSUnsupported)
		})
	})
}

func TestMsgID(t *testing.T) {
	Convey("Given a well-formed msg-id", t, func() {
		rest, id, err := ParseMsgID([]byte("<abc.123@mail.example.org> rest"))
		So(err, ShouldBeNil)
		So(id.Left, ShouldEqual, "abc.123")
		So(id.Right, ShouldEqual, "mail.example.org")
		So(id.String(), ShouldEqual, "<abc.123@mail.example.org>")
		So(string(rest), ShouldEqual, " rest")
	})
}

func TestDateTime(t *testing.T) {
	Convey("Given a full date-time with day-of-week and seconds", t, func() {
		rest, dt, err := ParseDateTime([]byte("Fri, 21 Nov 1997 09:55:06 -0600;rest"))
		So(err, ShouldBeNil)
		So(dt.DayOfWeek, ShouldEqual, "Fri")
		So(dt.Day, ShouldEqual, 21)
		So(dt.Month, ShouldEqual, "Nov")
		So(dt.Year, ShouldEqual, 1997)
		So(dt.Hour, ShouldEqual, 9)
		So(dt.Minute, ShouldEqual, 55)
		So(dt.Second, ShouldEqual, 6)
		So(dt.Zone, ShouldEqual, "-0600")
		So(string(rest), ShouldEqual, ";rest")
	})

	Convey("Given a date-time without seconds or day-of-week", t, func() {
		_, dt, err := ParseDateTime([]byte("1 May 2021 08:00 +0000"))
		So(err, ShouldBeNil)
		So(dt.DayOfWeek, ShouldBeEmpty)
		So(dt.Second, ShouldEqual, -1)
	})
}
