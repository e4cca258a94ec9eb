// Package example demonstrates the smtpcodec facade: parse a line, inspect
// the typed result, then serialize it back to its wire form. The runnable
// examples live in the package's test files, where go test checks their
// printed output.
package example
