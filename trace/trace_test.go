package trace

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseReturnPathLine(t *testing.T) {
	Convey("Given a Return-Path header with a mailbox", t, func() {
		rest, rp, err := ParseReturnPathLine([]byte("Return-Path: <joe@example.org>\r\nrest"))
		So(err, ShouldBeNil)
		So(string(rest), ShouldEqual, "rest")
		So(rp.Path.Null, ShouldBeFalse)
		So(rp.Serialize(), ShouldEqual, "Return-Path: <joe@example.org>\r\n")
	})

	Convey("Given a Return-Path header with the null path", t, func() {
		_, rp, err := ParseReturnPathLine([]byte("Return-Path: <>\r\n"))
		So(err, ShouldBeNil)
		So(rp.Path.Null, ShouldBeTrue)
	})
}

func TestParseReceivedLineMinimal(t *testing.T) {
	Convey("Given a Received line with only From, By and a date-time", t, func() {
		wire := []byte("Received: FROM mail.example.org BY mx.example.com; 21 Nov 1997 09:55:06 -0600\r\nrest")
		rest, rcv, err := ParseReceivedLine(wire)
		So(err, ShouldBeNil)
		So(string(rest), ShouldEqual, "rest")
		So(rcv.From.Domain, ShouldEqual, "mail.example.org")
		So(rcv.By.Domain, ShouldEqual, "mx.example.com")
		So(rcv.Via, ShouldBeEmpty)
		So(rcv.With, ShouldBeEmpty)
		So(rcv.ID, ShouldBeEmpty)
		So(rcv.DateTime.Year, ShouldEqual, 1997)
	})
}

func TestParseReceivedLineWithOptInfo(t *testing.T) {
	Convey("Given a Received line carrying With, ID and For clauses", t, func() {
		wire := []byte("Received: FROM mail.example.org BY mx.example.com WITH ESMTP ID abc123 FOR <bob@example.com>; 21 Nov 1997 09:55:06 -0600\r\n")
		_, rcv, err := ParseReceivedLine(wire)
		So(err, ShouldBeNil)
		So(rcv.With, ShouldEqual, "ESMTP")
		So(rcv.ID, ShouldEqual, "abc123")
		So(rcv.ForMbox, ShouldBeNil)
		So(rcv.ForPath, ShouldNotBeNil)
		So(rcv.ForPath.Mailbox.LocalPart, ShouldEqual, "bob")
	})
}

func TestParseReceivedLineRejectsComment(t *testing.T) {
	Convey("Given a Received line whose Opt-info uses a parenthesized comment", t, func() {
		wire := []byte("Received: FROM mail.example.org BY mx.example.com ID abc123 (a comment) FOR <bob@example.com>; 21 Nov 1997 09:55:06 -0600\r\n")
		_, _, err := ParseReceivedLine(wire)
		So(err, ShouldNotBeNil)
	})
}
