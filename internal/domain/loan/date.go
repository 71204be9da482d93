package loan

import (
	"fmt"
	"time"
)

const (
	DisplayLayout = "02-01-2006"
	ISOLayout     = "2006-01-02"
)

// ParseDisplayDate converts dd-mm-yyyy to yyyy-mm-dd. The input must be exactly
// ten characters and name a real calendar day.
func ParseDisplayDate(s string) (string, error) {
	if len(s) != len(DisplayLayout) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(DisplayLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	// time.Parse already rejects day overflow; the round trip also guards
	// against any layout leniency.
	if t.Format(DisplayLayout) != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(ISOLayout), nil
}

// DisplayDate converts yyyy-mm-dd to dd-mm-yyyy. Values that do not parse are
// returned unchanged.
func DisplayDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(ISOLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format(DisplayLayout)
}

// ValidDisplayDate reports whether s is accepted by ParseDisplayDate.
func ValidDisplayDate(s string) bool {
	_, err := ParseDisplayDate(s)
	return err == nil
}

// Today is the ISO calendar date of now in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(ISOLayout)
}
