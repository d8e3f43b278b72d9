// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimestamp is returned for a -t value that is not [[CC]YY]MMDDhhmm[.ss].
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// stampLayouts maps the length of a -t value to its time layout. Layouts
// without a year take the current one.
var stampLayouts = map[int]string{
	15: "200601021504.05",
	13: "0601021504.05",
	11: "01021504.05",
	12: "200601021504",
	10: "0601021504",
	8:  "01021504",
}

// parseTimestamp parses a touch -t value in the location of now. Two-digit
// years 69-99 are in the 1900s and 00-68 in the 2000s.
func parseTimestamp(s string, now time.Time) (time.Time, error) {
	layout, ok := stampLayouts[len(s)]
	if !ok {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidTimestamp, s)
	}
	for i := range len(s) {
		if s[i] != '.' && (s[i] < '0' || s[i] > '9') {
			return time.Time{}, fmt.Errorf("%w %q", ErrInvalidTimestamp, s)
		}
	}

	t, err := time.ParseInLocation(layout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidTimestamp, s)
	}
	if len(layout) == 8 || len(layout) == 11 {
		t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, now.Location())
	}
	return t, nil
}
