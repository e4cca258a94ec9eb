package imf

import (
	"strconv"

	"github.com/gopistolet/smtpcodec/abnf"
	"github.com/gopistolet/smtpcodec/parse"
)

var dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// DateTime is a parsed RFC 5322 3.3 date-time, kept in its grammar-level
// components rather than collapsed into a time.Time: the grammar permits a
// 2-digit year and named (non-numeric) time zones that don't round-trip
// cleanly through Go's time package.
type DateTime struct {
	DayOfWeek string // "" if absent
	Day       int
	Month     string
	Year      int
	Hour      int
	Minute    int
	Second    int // -1 if absent
	Zone      string
}

func matchesName(input []byte, names []string) (name string, n int) {
	for _, c := range names {
		if len(input) >= len(c) && string(input[:len(c)]) == c {
			return c, len(c)
		}
	}
	return "", 0
}

func digits(input []byte, min, max int, label string) (rest []byte, n int, err error) {
	r, m, e := parse.TakeWhile(input, abnf.IsDIGIT, min, max, label)
	if e != nil {
		return nil, 0, e
	}
	v, convErr := strconv.Atoi(string(m))
	if convErr != nil {
		return nil, 0, parse.Invalid(label, 0)
	}
	return r, v, nil
}

// ParseDateTime parses date-time = [ day-of-week "," ] date FWS time-of-day
// FWS zone, with FWS restricted as documented at the package level.
func ParseDateTime(input []byte) (rest []byte, value DateTime, err error) {
	var dt DateTime
	dt.Second = -1
	r := input

	if name, n := matchesName(r, dayNames); n > 0 {
		afterName := r[n:]
		if len(afterName) > 0 && afterName[0] == ',' {
			dt.DayOfWeek = name
			r = afterName[1:]
			if r2, _, _, e := parse.Opt(r, FWS); e != nil {
				var zero DateTime
				return nil, zero, e
			} else {
				r = r2
			}
		}
	}

	r, day, e := digits(r, 1, 2, "imf.date-time.day")
	if e != nil {
		var zero DateTime
		return nil, zero, e
	}
	dt.Day = day
	if r2, _, _, e := parse.Opt(r, FWS); e != nil {
		var zero DateTime
		return nil, zero, e
	} else {
		r = r2
	}
	month, n := matchesName(r, monthNames)
	if n == 0 {
		var zero DateTime
		return nil, zero, parse.Invalid("imf.date-time.month", 0)
	}
	dt.Month = month
	r = r[n:]
	if r2, _, _, e := parse.Opt(r, FWS); e != nil {
		var zero DateTime
		return nil, zero, e
	} else {
		r = r2
	}
	r, year, e := digits(r, 2, 4, "imf.date-time.year")
	if e != nil {
		var zero DateTime
		return nil, zero, e
	}
	dt.Year = year

	r, _, e = FWS(r)
	if e != nil {
		var zero DateTime
		return nil, zero, e
	}

	r, hour, e := digits(r, 2, 2, "imf.date-time.hour")
	if e != nil {
		var zero DateTime
		return nil, zero, e
	}
	dt.Hour = hour
	r, e2 := parse.Literal(r, []byte(":"), "imf.date-time.colon")
	if e2 != nil {
		var zero DateTime
		return nil, zero, e2
	}
	r, minute, e := digits(r, 2, 2, "imf.date-time.minute")
	if e != nil {
		var zero DateTime
		return nil, zero, e
	}
	dt.Minute = minute
	if r2, e3 := parse.Literal(r, []byte(":"), "imf.date-time.colon2"); e3 == nil {
		r3, second, e4 := digits(r2, 2, 2, "imf.date-time.second")
		if e4 != nil {
			var zero DateTime
			return nil, zero, e4
		}
		dt.Second = second
		r = r3
	} else if parse.IsIncomplete(e3) {
		var zero DateTime
		return nil, zero, e3
	}

	r, _, e = FWS(r)
	if e != nil {
		var zero DateTime
		return nil, zero, e
	}

	r, zone, e := parseZone(r)
	if e != nil {
		var zero DateTime
		return nil, zero, e
	}
	dt.Zone = zone

	return r, dt, nil
}

func parseZone(input []byte) (rest []byte, zone string, err error) {
	if len(input) == 0 {
		return nil, "", parse.Incomplete("imf.date-time.zone", 0)
	}
	if input[0] == '+' || input[0] == '-' {
		r, digs, e := parse.TakeWhile(input[1:], abnf.IsDIGIT, 4, 4, "imf.date-time.zone")
		if e != nil {
			return nil, "", e
		}
		return r, string(input[0]) + string(digs), nil
	}
	// Obsolete named zones (RFC 5322 4.3), e.g. "UT", "GMT", "EST".
	r, letters, e := parse.TakeWhile(input, abnf.IsALPHA, 1, 5, "imf.date-time.zone")
	if e != nil {
		return nil, "", e
	}
	return r, string(letters), nil
}
