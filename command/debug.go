package command

import "github.com/gopistolet/smtpcodec/value"

// Debug renders a command's wire form escaped for logging, using
// value.DebugEscape.
func Debug(c Command) string {
	return value.DebugEscape([]byte(c.Serialize()))
}
