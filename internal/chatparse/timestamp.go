package chatparse

import (
	"strings"
	"time"
)

// Layouts tried in order for delimited-export timestamps. Exports vary by
// device locale: month-first or day-first, 12h or 24h clock.
var whatsappLayouts = []string{
	"1/2/2006, 3:04 PM",
	"1/2/2006, 15:04",
	"1/2/06, 3:04 PM",
	"1/2/06, 15:04",
	"2/1/2006, 3:04 PM",
	"2/1/2006, 15:04",
	"2/1/06, 3:04 PM",
	"2/1/06, 15:04",
}

func parseWhatsAppTimestamp(s string) (time.Time, bool) {
	for _, layout := range whatsappLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

const telegramLayout = "02.01.2006 15:04:05"

// parseTelegramTimestamp reads the absolute timestamp exposed in a date
// node's title attribute, e.g. "02.01.2024 09:00:00 UTC+03:00". The zone
// suffix is dropped; the result is timezone-naive like the rest of the
// record set.
func parseTelegramTimestamp(s string) (time.Time, bool) {
	if i := strings.Index(s, " UTC"); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(telegramLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
