package chatparse

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

const maxLineSize = 1 * 1024 * 1024 // 1MB

// Matches one message line: datetime, " - ", sender, ": ", body.
// Datetime is 1-2 digit day/month, 2-4 digit year, minute-precision time
// with an optional AM/PM marker.
var whatsappLineRE = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}(?: [AP]M)?) - ([^:]+?): (.+)$`)

// ParseWhatsApp reads a delimited WhatsApp text export. Each line may begin
// a new message; lines that do not match the triple pattern (continuation
// lines of multi-line messages, system notices) are skipped and counted in
// Dropped. An unparseable file yields zero messages, not an error.
func ParseWhatsApp(r io.Reader) (*Export, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	export := &Export{}
	for scanner.Scan() {
		line := normalizeLine(scanner.Text())
		if line == "" {
			continue
		}

		m := whatsappLineRE.FindStringSubmatch(line)
		if m == nil {
			export.Dropped++
			continue
		}

		ts, ok := parseWhatsAppTimestamp(m[1])
		if !ok {
			export.Dropped++
			continue
		}

		export.Messages = append(export.Messages, Message{
			Timestamp: ts,
			Sender:    strings.TrimSpace(m[2]),
			Body:      m[3],
		})
	}
	return export, scanner.Err()
}

// normalizeLine strips the BOM and invisible direction/spacing marks some
// exports embed around timestamps, which would otherwise break the line match.
func normalizeLine(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '‎', '‏': // LTR / RTL marks
			continue
		case ' ', ' ': // no-break spaces before AM/PM
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
