package view

import "time"

const localeLayout = "1/2/2006, 3:04:05 PM"

// LocaleTimestamp renders t the way an en-US browser prints a date-time.
func LocaleTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(localeLayout)
}

// PaidAt renders a nullable timestamp literally, or "-" when null.
func PaidAt(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// YesNo renders a flag.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
