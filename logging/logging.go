// Package logging provides the structured logger the smtpcodec facade and
// its example package use to report parse failures. The rest of this module
// is pure and side-effect free; logging only happens at the facade boundary,
// where a caller's raw bytes either become a typed value or don't.
package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/gopistolet/smtpcodec/parse"
)

// Log is the package-level logger used by smtpcodec and example. Callers
// embedding this module in a server can point it at their own output by
// replacing the formatter or swapping in a different *logrus.Logger's
// fields, the same as any other logrus consumer.
var Log logrus.FieldLogger = logrus.StandardLogger()

// ParseFailure logs a rejected parse at Warn level (a value the caller sent
// us didn't match the grammar) and an incomplete one at Debug level (the
// caller just hasn't sent enough bytes yet, which is routine on a streaming
// connection, not a warning).
func ParseFailure(production string, input []byte, err error) {
	fields := logrus.Fields{
		"production": production,
		"incomplete": parse.IsIncomplete(err),
	}
	if _, ok := err.(*parse.Error); ok {
		fields["offset"] = parse.Offset(err)
		fields["label"] = parse.Label(err)
	}
	if parse.IsIncomplete(err) {
		Log.WithFields(fields).Debug("smtpcodec: incomplete input")
		return
	}
	Log.WithFields(fields).Warn("smtpcodec: rejected input")
}
