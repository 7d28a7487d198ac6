package utils

import (
	"time"
)

const dateLayout = "2006-01-02"

// FormatDate returns the provided time rendered as a calendar date in the
// local time zone, used for the generated document header.
func FormatDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(dateLayout)
}
