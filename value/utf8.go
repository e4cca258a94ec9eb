package value

import (
	"fmt"

	"golang.org/x/net/idna"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ValidateUTF8Extended reports whether b is well-formed UTF-8, for use on
// the non-ASCII text RFC 6531's SMTPUTF8 extension permits: greeting and
// ehlo-greet text and internationalized domain labels. The check is strict:
// a malformed sequence is an error, not a U+FFFD substitution.
func ValidateUTF8Extended(b []byte) error {
	if _, _, err := transform.Bytes(encoding.UTF8Validator, b); err != nil {
		return fmt.Errorf("value: not valid UTF-8: %w", err)
	}
	return nil
}

// ValidateIDNDomain reports whether domain is a valid internationalized
// domain name under IDNA2008, the form an SMTPUTF8 EHLO greeting or
// Mailbox domain part may carry.
func ValidateIDNDomain(domain string) error {
	_, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return fmt.Errorf("value: %q is not a valid IDN domain: %w", domain, err)
	}
	return nil
}
