package report

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration as "Nm S.Ss", "S.Ss" or "S.SSs"
// depending on magnitude. Pure and stateless.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d >= time.Minute:
		m := int(d / time.Minute)
		s := (d - time.Duration(m)*time.Minute).Seconds()
		return fmt.Sprintf("%dm %.1fs", m, s)
	case d >= time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// FormatClock renders a timestamp as HH:mm:ss.
func FormatClock(t time.Time) string {
	return t.Format("15:04:05")
}
