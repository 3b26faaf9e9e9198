package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/avrtt/telegram-chat-analyzer/internal/session"
)

const (
	colorReset = "\033[0m"
	colorDim   = "\033[2m"
)

// userPalette cycles across senders in order of first appearance.
var userPalette = []string{
	"\033[1;34m", // bold blue
	"\033[1;32m", // bold green
	"\033[1;35m", // bold magenta
	"\033[1;36m", // bold cyan
	"\033[1;33m", // bold yellow
	"\033[1;31m", // bold red
}

type Options struct {
	Width int // wrap width (0 = no wrap)
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// RenderConversation renders one conversation's transcript from the store.
func RenderConversation(store *session.Store, conversationID int, opts Options) (string, error) {
	rows, err := store.ConversationMessages(conversationID)
	if err != nil {
		return "", fmt.Errorf("get conversation: %w", err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("conversation not found: %d", conversationID)
	}

	var b strings.Builder
	separator := colorDim + "--------------------------------------------------" + colorReset
	wrapW := opts.Width

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, wrapW) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	// header
	title := store.Name()
	if title == "" {
		title = "chat"
	}
	writeLine(fmt.Sprintf("%s--- %s / conversation %d (%d messages) ---%s",
		colorDim, title, conversationID, len(rows), colorReset))

	colors := make(map[string]string)
	for i, row := range rows {
		if i > 0 {
			writeLine(separator)
		}

		color, ok := colors[row.Username]
		if !ok {
			color = userPalette[len(colors)%len(userPalette)]
			colors[row.Username] = color
		}

		writeLine(fmt.Sprintf("%s%s >%s %s%s%s",
			color, row.Username, colorReset,
			colorDim, row.Timestamp.Format("2006-01-02 15:04"), colorReset))

		for _, tl := range strings.Split(indentLines(row.Message, "  "), "\n") {
			writeLine(tl)
		}
		writeLine("") // blank line after message
	}

	return b.String(), nil
}
