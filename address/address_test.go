package address

import (
	"net"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseIPv4Literal(t *testing.T) {
	Convey("Given an IPv4 address literal", t, func() {
		rest, lit, err := Parse([]byte("[123.123.123.123]\r\n"))
		So(err, ShouldBeNil)
		So(string(rest), ShouldEqual, "\r\n")
		So(lit.Kind, ShouldEqual, IPv4)
		So(lit.String(), ShouldEqual, "[123.123.123.123]")
	})
}

func TestParseIPv6Literal(t *testing.T) {
	Convey("Given an IPv6-tagged address literal", t, func() {
		rest, lit, err := Parse([]byte("[IPv6:2001:db8::1] rest"))
		So(err, ShouldBeNil)
		So(string(rest), ShouldEqual, " rest")
		So(lit.Kind, ShouldEqual, IPv6)
		So(lit.String(), ShouldEqual, "[IPv6:2001:db8::1]")
	})
}

func TestParseGeneralLiteral(t *testing.T) {
	Convey("Given a general Standardized-tag literal", t, func() {
		rest, lit, err := Parse([]byte("[x400:c=us;a=p]x"))
		So(err, ShouldBeNil)
		So(string(rest), ShouldEqual, "x")
		So(lit.Kind, ShouldEqual, General)
		So(lit.Tag, ShouldEqual, "x400")
		So(lit.Value, ShouldEqual, "c=us;a=p")
	})
}

func TestNewIPv4RejectsIPv6(t *testing.T) {
	Convey("Given an IPv6 address passed to NewIPv4", t, func() {
		_, err := NewIPv4(net.ParseIP("2001:db8::1"))
		So(err, ShouldNotBeNil)
	})
}
