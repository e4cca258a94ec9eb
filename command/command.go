// Package command implements the SMTP command grammar of RFC 5321 4.1.1:
// parsing a single command line into a typed Command value, and
// serializing one back to its wire form.
package command

import (
	"strconv"
	"strings"

	"github.com/gopistolet/smtpcodec/value"
)

// Command is the closed set of SMTP verbs this module understands. Each
// concrete type below implements it via an unexported marker method, the
// same pattern go/ast uses for its Node hierarchy: the set of variants is
// closed to this package, and callers switch on the concrete type.
type Command interface {
	isCommand()
	// Serialize renders the command to its wire form, CRLF included.
	Serialize() string
}

// ParameterKind tags which alternative a Parameter holds.
type ParameterKind int

const (
	// ParamSize marks the SIZE= extension parameter (RFC 1870).
	ParamSize ParameterKind = iota
	// ParamOther marks any other esmtp-keyword [ "=" esmtp-value ] pair.
	ParamOther
)

// Parameter is one esmtp-param of a MAIL or RCPT command line.
type Parameter struct {
	Kind    ParameterKind
	Size    uint32
	Keyword string
	Value   *string
}

func (p Parameter) String() string {
	if p.Kind == ParamSize {
		return "SIZE=" + strconv.FormatUint(uint64(p.Size), 10)
	}
	if p.Value != nil {
		return p.Keyword + "=" + *p.Value
	}
	return p.Keyword
}

func serializeParams(params []Parameter) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return " " + strings.Join(parts, " ")
}

// RecipientKind tags which alternative a Recipient holds.
type RecipientKind int

const (
	// RecipientMailbox marks a plain Forward-path mailbox.
	RecipientMailbox RecipientKind = iota
	// RecipientPostmaster marks the bare "<Postmaster>" special case
	// RFC 5321 3.3 carves out of the Forward-path grammar.
	RecipientPostmaster
	// RecipientPostmasterAtDomain marks "<Postmaster@domain>".
	RecipientPostmasterAtDomain
)

// Recipient is the To argument of an RCPT command: a Forward-path, or one
// of the two Postmaster special cases that bypass normal mailbox syntax.
type Recipient struct {
	Kind        RecipientKind
	Mailbox     value.Mailbox
	SourceRoute []string
	Domain      string
}

func (r Recipient) String() string {
	switch r.Kind {
	case RecipientPostmaster:
		return "<Postmaster>"
	case RecipientPostmasterAtDomain:
		return "<Postmaster@" + r.Domain + ">"
	default:
		return value.Path{SourceRoute: r.SourceRoute, Mailbox: r.Mailbox}.String()
	}
}

// Helo is the HELO command (RFC 5321 4.1.1.1).
type Helo struct{ Domain value.DomainOrAddress }

func (Helo) isCommand() {}

// Ehlo is the EHLO command (RFC 5321 4.1.1.1).
type Ehlo struct{ Domain value.DomainOrAddress }

func (Ehlo) isCommand() {}

// Mail is the MAIL command (RFC 5321 4.1.1.2).
type Mail struct {
	From   value.ReversePath
	Params []Parameter
}

func (Mail) isCommand() {}

// Rcpt is the RCPT command (RFC 5321 4.1.1.3).
type Rcpt struct {
	To     Recipient
	Params []Parameter
}

func (Rcpt) isCommand() {}

// Data is the DATA command (RFC 5321 4.1.1.4). This package only parses the
// command line itself; the dot-stuffed message body that follows a 354
// reply is outside the wire-format grammar and is the caller's concern.
type Data struct{}

func (Data) isCommand() {}

// Rset is the RSET command (RFC 5321 4.1.1.5).
type Rset struct{}

func (Rset) isCommand() {}

// Vrfy is the VRFY command (RFC 5321 4.1.1.6).
type Vrfy struct{ UserOrMailbox value.AtomOrQuoted }

func (Vrfy) isCommand() {}

// Expn is the EXPN command (RFC 5321 4.1.1.7).
type Expn struct{ MailingList value.AtomOrQuoted }

func (Expn) isCommand() {}

// Help is the HELP command (RFC 5321 4.1.1.8).
type Help struct {
	Argument    value.AtomOrQuoted
	HasArgument bool
}

func (Help) isCommand() {}

// Noop is the NOOP command (RFC 5321 4.1.1.9).
type Noop struct {
	Argument    value.AtomOrQuoted
	HasArgument bool
}

func (Noop) isCommand() {}

// Quit is the QUIT command (RFC 5321 4.1.1.10).
type Quit struct{}

func (Quit) isCommand() {}

// StartTls is the STARTTLS command (RFC 3207).
type StartTls struct{}

func (StartTls) isCommand() {}

// AuthLogin is the "AUTH LOGIN" command (RFC 4954), optionally carrying a
// base64 initial response, either in the RFC 4954 form "AUTH LOGIN
// <response>" or in the Outlook form "AUTH LOGIN=<response>".
type AuthLogin struct{ InitialResponse []byte }

func (AuthLogin) isCommand() {}

// AuthPlain is the "AUTH PLAIN" command (RFC 4954), optionally carrying a
// base64 initial response.
type AuthPlain struct{ InitialResponse []byte }

func (AuthPlain) isCommand() {}
