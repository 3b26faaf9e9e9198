// Package ingest runs the upload-batch pipeline: per-file format dispatch,
// adapter runs, cross-file enrichment, and full replacement of the session
// record store. One bad file never aborts the batch; it is reported per
// file and the remaining files are processed.
package ingest

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/avrtt/telegram-chat-analyzer/internal/chatparse"
	"github.com/avrtt/telegram-chat-analyzer/internal/enrich"
	"github.com/avrtt/telegram-chat-analyzer/internal/session"
)

// ErrNoArchiveEntry marks an archive with no qualifying chat text entry.
var ErrNoArchiveEntry = errors.New("archive contains no .txt entry")

// FileResult records what happened to one file of a batch.
type FileResult struct {
	Path     string
	Format   string // "whatsapp", "telegram", "zip"
	Name     string // display name contributed by this file
	Messages int
	Dropped  int
	Err      error
}

// Result is the outcome of one batch run.
type Result struct {
	Name    string // display name of the loaded chat (last successful file wins)
	Files   []FileResult
	Records int // records stored after enrichment
	Dropped int // unparseable candidates across all files
	Failed  int // files that produced no usable records
}

func (r *Result) String() string {
	return fmt.Sprintf("files=%d failed=%d records=%d dropped=%d",
		len(r.Files), r.Failed, r.Records, r.Dropped)
}

// Loader runs upload batches against a session store.
type Loader struct {
	store *session.Store
	opts  enrich.Options
	log   zerolog.Logger
}

func NewLoader(store *session.Store, opts enrich.Options, log zerolog.Logger) *Loader {
	return &Loader{store: store, opts: opts, log: log}
}

// LoadFiles parses every file, concatenates the adapter outputs, enriches
// the combined set (so conversation ids span the whole cross-file record
// set) and replaces the store's table. The progress callback, when not nil,
// observes the batch file by file.
func (l *Loader) LoadFiles(paths []string, onProgress func(Progress)) (*Result, error) {
	result := &Result{}
	progress := NewProgress(len(paths), onProgress)

	var all []chatparse.Message
	for _, path := range paths {
		progress.StartFile(path)

		fr, msgs := l.loadFile(path)
		result.Files = append(result.Files, fr)
		result.Dropped += fr.Dropped

		if fr.Err != nil {
			l.log.Warn().Str("file", path).Err(fr.Err).Msg("failed to process file")
			result.Failed++
			progress.FileFailed()
			continue
		}

		l.log.Debug().
			Str("file", path).
			Str("format", fr.Format).
			Int("messages", fr.Messages).
			Int("dropped", fr.Dropped).
			Msg("file parsed")

		all = append(all, msgs...)
		if fr.Name != "" {
			result.Name = fr.Name
		}
		progress.FileLoaded()
	}

	recs := enrich.Enrich(all, l.opts)
	if err := l.store.Replace(result.Name, recs); err != nil {
		return nil, fmt.Errorf("replace store: %w", err)
	}
	result.Records = len(recs)
	return result, nil
}

// ProbeFile parses one file without touching any store, for diagnostics.
func ProbeFile(path string) FileResult {
	fr, _ := (&Loader{}).loadFile(path)
	return fr
}

// loadFile dispatches on the file extension and runs the matching adapter.
func (l *Loader) loadFile(path string) (FileResult, []chatparse.Message) {
	fr := FileResult{Path: path}

	export, format, err := parseFile(path)
	fr.Format = format
	if err != nil {
		fr.Err = err
		return fr, nil
	}
	if len(export.Messages) == 0 {
		fr.Dropped = export.Dropped
		fr.Err = errors.New("no messages parsed")
		return fr, nil
	}

	fr.Messages = len(export.Messages)
	fr.Dropped = export.Dropped
	fr.Name = export.Name
	if fr.Name == "" {
		fr.Name = CleanExportName(filepath.Base(path))
	}
	return fr, export.Messages
}

func parseFile(path string) (*chatparse.Export, string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, "whatsapp", err
		}
		defer f.Close()
		export, err := chatparse.ParseWhatsApp(f)
		return export, "whatsapp", err

	case ".html":
		f, err := os.Open(path)
		if err != nil {
			return nil, "telegram", err
		}
		defer f.Close()
		export, err := chatparse.ParseTelegram(f)
		return export, "telegram", err

	case ".zip":
		export, err := parseArchive(path)
		return export, "zip", err

	default:
		return nil, "", fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// parseArchive reads the first .txt entry of a zipped delimited export.
// Remaining entries (media files) are ignored.
func parseArchive(path string) (*chatparse.Export, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if !strings.HasSuffix(strings.ToLower(entry.Name), ".txt") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", entry.Name, err)
		}
		export, err := parseArchiveEntry(rc)
		if err != nil {
			return nil, err
		}
		if export.Name == "" {
			export.Name = CleanExportName(filepath.Base(entry.Name))
		}
		return export, nil
	}
	return nil, ErrNoArchiveEntry
}

func parseArchiveEntry(rc io.ReadCloser) (*chatparse.Export, error) {
	defer rc.Close()
	return chatparse.ParseWhatsApp(rc)
}

// CleanExportName strips export boilerplate from a delimited source file
// name to get a human-readable chat label.
func CleanExportName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.ReplaceAll(name, "WhatsApp Chat with", "")
	name = strings.ReplaceAll(name, "_", "")
	return strings.TrimSpace(name)
}
