package chatparse

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWhatsApp_SingleMessage(t *testing.T) {
	export, err := ParseWhatsApp(strings.NewReader("1/2/24, 9:00 AM - Alice: hello\n"))
	require.NoError(t, err)

	require.Len(t, export.Messages, 1)
	msg := export.Messages[0]
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), msg.Timestamp)
	assert.Equal(t, "Alice", msg.Sender)
	assert.Equal(t, "hello", msg.Body)
	assert.Equal(t, 0, export.Dropped)
}

func TestParseWhatsApp_PreservesAppearanceOrder(t *testing.T) {
	input := `1/2/24, 9:00 AM - Alice: first
1/2/24, 9:01 AM - Bob: second
1/2/24, 9:02 AM - Alice: third
`
	export, err := ParseWhatsApp(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, export.Messages, 3)
	assert.Equal(t, "first", export.Messages[0].Body)
	assert.Equal(t, "Bob", export.Messages[1].Sender)
	assert.Equal(t, "third", export.Messages[2].Body)
}

func TestParseWhatsApp_TimestampFormats(t *testing.T) {
	tests := []struct {
		name string
		line string
		want time.Time
	}{
		{"12h am/pm", "1/2/24, 9:00 AM - A: x", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)},
		{"12h pm", "1/2/24, 9:30 PM - A: x", time.Date(2024, 1, 2, 21, 30, 0, 0, time.UTC)},
		{"24h short year", "1/2/24, 21:30 - A: x", time.Date(2024, 1, 2, 21, 30, 0, 0, time.UTC)},
		{"24h full year", "1/2/2024, 21:30 - A: x", time.Date(2024, 1, 2, 21, 30, 0, 0, time.UTC)},
		{"narrow space before AM", "1/2/24, 9:00 AM - A: x", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)},
		{"day-first fallback", "25/12/24, 10:00 - A: x", time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			export, err := ParseWhatsApp(strings.NewReader(tt.line))
			require.NoError(t, err)
			require.Len(t, export.Messages, 1)
			assert.Equal(t, tt.want, export.Messages[0].Timestamp)
		})
	}
}

func TestParseWhatsApp_SkipsContinuationLines(t *testing.T) {
	input := `1/2/24, 9:00 AM - Alice: first line
this continuation line is dropped
1/2/24, 9:01 AM - Bob: next message
`
	export, err := ParseWhatsApp(strings.NewReader(input))
	require.NoError(t, err)

	assert.Len(t, export.Messages, 2)
	assert.Equal(t, 1, export.Dropped)
}

func TestParseWhatsApp_SkipsSystemLines(t *testing.T) {
	// encryption notice and group events have no "sender: message" part
	input := `1/2/24, 9:00 AM - Messages and calls are end-to-end encrypted.
1/2/24, 9:01 AM - Alice: real message
`
	export, err := ParseWhatsApp(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, export.Messages, 1)
	assert.Equal(t, "Alice", export.Messages[0].Sender)
}

func TestParseWhatsApp_DropsUnparseableTimestamp(t *testing.T) {
	input := `99/99/99, 9:00 AM - Alice: dropped
1/2/24, 9:00 AM - Bob: kept
`
	export, err := ParseWhatsApp(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, export.Messages, 1)
	assert.Equal(t, "Bob", export.Messages[0].Sender)
	assert.Equal(t, 1, export.Dropped)
}

func TestParseWhatsApp_UnparseableFileYieldsZeroRecords(t *testing.T) {
	export, err := ParseWhatsApp(strings.NewReader("not a chat export\nat all\n"))
	require.NoError(t, err)
	assert.Empty(t, export.Messages)
}

func TestParseWhatsApp_StripsDirectionMarks(t *testing.T) {
	export, err := ParseWhatsApp(strings.NewReader("‎1/2/24, 9:00 AM - Alice: hi\n"))
	require.NoError(t, err)
	require.Len(t, export.Messages, 1)
}

func TestParseWhatsApp_MessageBodyMayContainColons(t *testing.T) {
	export, err := ParseWhatsApp(strings.NewReader("1/2/24, 9:00 AM - Alice: note: remember this\n"))
	require.NoError(t, err)
	require.Len(t, export.Messages, 1)
	assert.Equal(t, "Alice", export.Messages[0].Sender)
	assert.Equal(t, "note: remember this", export.Messages[0].Body)
}
