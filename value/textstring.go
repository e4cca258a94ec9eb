// Package value implements the SMTP value model shared by the command and
// response grammars: the small invariant-carrying string wrappers
// (TextString, AtomOrQuoted, DomainOrAddress), the quoted-string escaping
// helpers, and the Domain/Mailbox/Path productions both grammars build on.
package value

import (
	"fmt"

	"github.com/gopistolet/smtpcodec/abnf"
)

// TextString is a string validated to contain only HT (0x09) or printable
// ASCII (0x20-0x7E), the textstring production of RFC 5321 4.2.
// NewTextString is the validating constructor; a direct conversion
// TextString(s) bypasses the byte-class check.
type TextString string

// InvalidTextStringError reports that a candidate string contained a byte
// outside the textstring alphabet.
type InvalidTextStringError struct {
	Offset int
	Byte   byte
}

func (e *InvalidTextStringError) Error() string {
	return fmt.Sprintf("value: byte 0x%02x at offset %d is not a valid textstring character", e.Byte, e.Offset)
}

// NewTextString validates s and wraps it as a TextString.
func NewTextString(s string) (TextString, error) {
	for i := 0; i < len(s); i++ {
		if !abnf.IsTextStringByte(s[i]) {
			return "", &InvalidTextStringError{Offset: i, Byte: s[i]}
		}
	}
	return TextString(s), nil
}

func (t TextString) String() string { return string(t) }
