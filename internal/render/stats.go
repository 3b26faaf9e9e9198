package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/avrtt/telegram-chat-analyzer/internal/session"
)

var (
	colorPrimary = lipgloss.Color("12")  // bright blue
	colorMuted   = lipgloss.Color("240") // gray
	colorAccent  = lipgloss.Color("10")  // bright green

	styleHeader = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(16)

	styleValue = lipgloss.NewStyle().
			Bold(true)

	styleBar = lipgloss.NewStyle().
			Foreground(colorAccent)
)

const barWidth = 30

// RenderSummary formats the headline metrics of a loaded chat.
func RenderSummary(name string, sum *session.Summary) string {
	var b strings.Builder

	title := name
	if title == "" {
		title = "chat"
	}
	b.WriteString(styleHeader.Render(title) + "\n\n")

	row := func(label string, value string) {
		b.WriteString(styleLabel.Render(label) + styleValue.Render(value) + "\n")
	}

	row("Messages", fmt.Sprintf("%d", sum.Messages))
	row("Users", fmt.Sprintf("%d", sum.Users))
	row("Active days", fmt.Sprintf("%d", sum.ActiveDays))
	row("Conversations", fmt.Sprintf("%d", sum.Conversations))
	row("Media", fmt.Sprintf("%d", sum.MediaMessages))
	row("With links", fmt.Sprintf("%d", sum.URLMessages))
	if !sum.FirstMessage.IsZero() {
		row("First message", sum.FirstMessage.Format("2006-01-02 15:04"))
		row("Last message", sum.LastMessage.Format("2006-01-02 15:04"))
	}
	return b.String()
}

// RenderBuckets formats labeled counts as a bar chart scaled to the largest
// bucket.
func RenderBuckets(title string, buckets []session.BucketCount) string {
	if len(buckets) == 0 {
		return ""
	}

	max := 0
	labelW := 0
	for _, bc := range buckets {
		if bc.Count > max {
			max = bc.Count
		}
		if w := lipgloss.Width(bc.Key); w > labelW {
			labelW = w
		}
	}
	if max == 0 {
		max = 1
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render(title) + "\n")
	labelStyle := lipgloss.NewStyle().Foreground(colorMuted).Width(labelW + 2)
	for _, bc := range buckets {
		n := bc.Count * barWidth / max
		bar := strings.Repeat("█", n)
		b.WriteString(fmt.Sprintf("%s%s %d\n",
			labelStyle.Render(bc.Key), styleBar.Render(bar), bc.Count))
	}
	return b.String()
}
