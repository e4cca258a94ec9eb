package command

import (
	"encoding/base64"

	"github.com/gopistolet/smtpcodec/abnf"
)

func (c Helo) Serialize() string { return "HELO " + c.Domain.String() + abnf.CRLF }
func (c Ehlo) Serialize() string { return "EHLO " + c.Domain.String() + abnf.CRLF }

func (c Mail) Serialize() string {
	return "MAIL FROM:" + c.From.String() + serializeParams(c.Params) + abnf.CRLF
}

func (c Rcpt) Serialize() string {
	return "RCPT TO:" + c.To.String() + serializeParams(c.Params) + abnf.CRLF
}

func (c Data) Serialize() string     { return "DATA" + abnf.CRLF }
func (c Rset) Serialize() string     { return "RSET" + abnf.CRLF }
func (c Quit) Serialize() string     { return "QUIT" + abnf.CRLF }
func (c StartTls) Serialize() string { return "STARTTLS" + abnf.CRLF }

func (c Vrfy) Serialize() string { return "VRFY " + c.UserOrMailbox.String() + abnf.CRLF }
func (c Expn) Serialize() string { return "EXPN " + c.MailingList.String() + abnf.CRLF }

func (c Help) Serialize() string {
	if !c.HasArgument {
		return "HELP" + abnf.CRLF
	}
	return "HELP " + c.Argument.String() + abnf.CRLF
}

func (c Noop) Serialize() string {
	if !c.HasArgument {
		return "NOOP" + abnf.CRLF
	}
	return "NOOP " + c.Argument.String() + abnf.CRLF
}

func (c AuthLogin) Serialize() string {
	if c.InitialResponse == nil {
		return "AUTH LOGIN" + abnf.CRLF
	}
	return "AUTH LOGIN " + base64.StdEncoding.EncodeToString(c.InitialResponse) + abnf.CRLF
}

func (c AuthPlain) Serialize() string {
	if c.InitialResponse == nil {
		return "AUTH PLAIN" + abnf.CRLF
	}
	return "AUTH PLAIN " + base64.StdEncoding.EncodeToString(c.InitialResponse) + abnf.CRLF
}
