package ingest

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrtt/telegram-chat-analyzer/internal/enrich"
	"github.com/avrtt/telegram-chat-analyzer/internal/session"
)

const whatsappSample = `1/2/24, 9:00 AM - Alice: hello
1/2/24, 9:01 AM - Bob: hi there
1/2/24, 9:02 AM - Alice: <Media omitted>
`

const telegramSample = `<html><body>
<div class="page_header"><div class="content"><div class="text bold">Test Group</div></div></div>
<div class="message default" id="message1">
  <div class="body">
    <div class="pull_right date details" title="02.01.2024 10:00:00 UTC+03:00">10:00</div>
    <div class="from_name">Carol</div>
    <div class="text">from telegram</div>
  </div>
</div>
</body></html>`

func newTestLoader(t *testing.T) (*Loader, *session.Store) {
	t.Helper()
	store, err := session.Open()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewLoader(store, enrich.DefaultOptions(), zerolog.Nop()), store
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeZip(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for entryName, content := range entries {
		w, err := zw.Create(entryName)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestLoadFiles_SingleTextFile(t *testing.T) {
	loader, store := newTestLoader(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "WhatsApp Chat with Alice.txt", whatsappSample)

	result, err := loader.LoadFiles([]string{path}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Records)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, "Alice", result.Name)
	assert.Equal(t, "Alice", store.Name())
}

func TestLoadFiles_ConcatenatesAcrossFiles(t *testing.T) {
	loader, store := newTestLoader(t)
	dir := t.TempDir()
	txt := writeFile(t, dir, "chat.txt", whatsappSample)
	html := writeFile(t, dir, "export.html", telegramSample)

	result, err := loader.LoadFiles([]string{txt, html}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Records)

	recs, err := store.Records()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	// sorted chronologically across files, conversation ids span the set
	assert.Equal(t, "Alice", recs[0].Username)
	assert.Equal(t, "Carol", recs[3].Username)
	for i := 1; i < len(recs); i++ {
		assert.False(t, recs[i].Timestamp.Before(recs[i-1].Timestamp))
	}
}

func TestLoadFiles_LastSuccessfulNameWins(t *testing.T) {
	loader, _ := newTestLoader(t)
	dir := t.TempDir()
	txt := writeFile(t, dir, "chat.txt", whatsappSample)
	html := writeFile(t, dir, "export.html", telegramSample)

	result, err := loader.LoadFiles([]string{txt, html}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Test Group", result.Name)
}

func TestLoadFiles_ZipArchive(t *testing.T) {
	loader, _ := newTestLoader(t)
	dir := t.TempDir()
	path := writeZip(t, dir, "export.zip", map[string]string{
		"WhatsApp Chat with Bob.txt": whatsappSample,
	})

	result, err := loader.LoadFiles([]string{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Records)
	assert.Equal(t, "Bob", result.Name)
}

func TestLoadFiles_ZipWithoutTextEntry(t *testing.T) {
	loader, _ := newTestLoader(t)
	dir := t.TempDir()
	bad := writeZip(t, dir, "bad.zip", map[string]string{"photo.jpg": "noise"})
	good := writeFile(t, dir, "chat.txt", whatsappSample)

	result, err := loader.LoadFiles([]string{bad, good}, nil)
	require.NoError(t, err)

	// the malformed archive fails alone; the batch continues
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Records)
	require.Len(t, result.Files, 2)
	assert.ErrorIs(t, result.Files[0].Err, ErrNoArchiveEntry)
}

func TestLoadFiles_ZipAloneYieldsEmptyResult(t *testing.T) {
	loader, store := newTestLoader(t)
	dir := t.TempDir()
	bad := writeZip(t, dir, "bad.zip", map[string]string{"photo.jpg": "noise"})

	result, err := loader.LoadFiles([]string{bad}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Records)

	recs, err := store.Records()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLoadFiles_EmptyFileReportedAndSkipped(t *testing.T) {
	loader, _ := newTestLoader(t)
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.txt", "nothing parseable here\n")
	good := writeFile(t, dir, "chat.txt", whatsappSample)

	result, err := loader.LoadFiles([]string{empty, good}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Records)
}

func TestLoadFiles_UnsupportedExtension(t *testing.T) {
	loader, _ := newTestLoader(t)
	dir := t.TempDir()
	bad := writeFile(t, dir, "notes.pdf", "binary-ish")

	result, err := loader.LoadFiles([]string{bad}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
}

func TestLoadFiles_ReplacesPriorSession(t *testing.T) {
	loader, store := newTestLoader(t)
	dir := t.TempDir()
	first := writeFile(t, dir, "first.txt", whatsappSample)
	second := writeFile(t, dir, "second.txt", "1/2/24, 9:00 AM - Zed: only one\n")

	_, err := loader.LoadFiles([]string{first}, nil)
	require.NoError(t, err)

	result, err := loader.LoadFiles([]string{second}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Records)

	recs, err := store.Records()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Zed", recs[0].Username)
}

func TestLoadFiles_ReportsProgressPerFile(t *testing.T) {
	loader, _ := newTestLoader(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", whatsappSample)
	b := writeFile(t, dir, "b.txt", whatsappSample)

	var updates []Progress
	_, err := loader.LoadFiles([]string{a, b}, func(p Progress) {
		updates = append(updates, p)
	})
	require.NoError(t, err)

	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	assert.Equal(t, 2, last.ProcessedCount)
	assert.Equal(t, 2, last.LoadedCount)
	assert.InDelta(t, 100.0, last.PercentComplete(), 1e-9)
}

func TestCleanExportName(t *testing.T) {
	assert.Equal(t, "Alice", CleanExportName("WhatsApp Chat with Alice.txt"))
	assert.Equal(t, "groupchat", CleanExportName("group_chat.txt"))
	assert.Equal(t, "plain", CleanExportName("plain.txt"))
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "x")
	writeFile(t, dir, "a.html", "x")
	writeFile(t, dir, "skip.pdf", "x")
	loose := writeFile(t, dir, "loose.txt", "x")

	paths, err := ExpandPaths([]string{dir})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "a.html"), paths[0])

	direct, err := ExpandPaths([]string{loose})
	require.NoError(t, err)
	assert.Equal(t, []string{loose}, direct)

	_, err = ExpandPaths([]string{filepath.Join(dir, "missing.txt")})
	assert.Error(t, err)
}
