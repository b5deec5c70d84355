package common

import (
	"fmt"
	"time"
)

// FormatTicketNumber pads a ticket number the way it is printed on badges
func FormatTicketNumber(ticket int) string {
	return fmt.Sprintf("#%03d", ticket)
}

// FormatRemaining describes how many units of a prize are left
func FormatRemaining(remaining int) string {
	switch remaining {
	case 0:
		return "Prize fully awarded"
	case 1:
		return "1 left"
	default:
		return fmt.Sprintf("%d left", remaining)
	}
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
