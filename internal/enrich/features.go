package enrich

import (
	"regexp"
	"strings"
	"time"
)

// DefaultMediaMarker is the placeholder the delimited export substitutes for
// omitted attachments.
const DefaultMediaMarker = "<Media omitted>"

var (
	phoneShapeRE = regexp.MustCompile(`^[0-9+\-]+$`)
	urlTokenRE   = regexp.MustCompile(`(^|\s)http\S+`)

	cleanURLRE     = regexp.MustCompile(`http\S+`)
	cleanMentionRE = regexp.MustCompile(`@\S+`)
	cleanSymbolRE  = regexp.MustCompile(`[^\p{L}\s]`)
	cleanSpaceRE   = regexp.MustCompile(`\s+`)
)

// IsPhoneNumber reports whether s looks like a contact-book-less phone
// number: only digits, '-' and '+' (spaces ignored), with at least one of
// each class present.
func IsPhoneNumber(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return false
	}
	return phoneShapeRE.MatchString(s) &&
		strings.ContainsAny(s, "0123456789") &&
		strings.Contains(s, "-") &&
		strings.Contains(s, "+")
}

// HasURL reports whether s contains an http-prefixed token.
func HasURL(s string) bool {
	return urlTokenRE.MatchString(s)
}

// CleanText strips URLs, @-mentions, punctuation and digits, collapses
// whitespace and lowercases. The character classes are Unicode-aware so the
// cleaning behaves the same for non-Latin alphabets.
func CleanText(s string) string {
	s = cleanURLRE.ReplaceAllString(s, " ")
	s = cleanMentionRE.ReplaceAllString(s, " ")
	s = cleanSymbolRE.ReplaceAllString(s, " ")
	s = cleanSpaceRE.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// WordCount is the whitespace-split token count of s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// calendar fields derived from a timestamp

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// hourOf floors to the hour and renders as HH:MM.
func hourOf(t time.Time) string {
	return t.Truncate(time.Hour).Format("15:04")
}

// weekStartOf is the Monday starting the timestamp's week.
func weekStartOf(t time.Time) time.Time {
	d := dateOf(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func monthStartOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
