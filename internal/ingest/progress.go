package ingest

import "time"

// Progress tracks a batch run file by file. The pipeline is synchronous, so
// the tracker is plain state with an optional callback fired on every
// update; the callback is the only externally observable intermediate
// state of a running batch.
type Progress struct {
	TotalFiles     int
	ProcessedCount int
	LoadedCount    int
	FailedCount    int
	CurrentFile    string
	StartedAt      time.Time

	onUpdate func(Progress)
}

func NewProgress(totalFiles int, onUpdate func(Progress)) *Progress {
	return &Progress{
		TotalFiles: totalFiles,
		StartedAt:  time.Now(),
		onUpdate:   onUpdate,
	}
}

func (p *Progress) StartFile(path string) {
	p.CurrentFile = path
	p.notify()
}

func (p *Progress) FileLoaded() {
	p.LoadedCount++
	p.ProcessedCount++
	p.notify()
}

func (p *Progress) FileFailed() {
	p.FailedCount++
	p.ProcessedCount++
	p.notify()
}

// PercentComplete is the share of files processed so far.
func (p *Progress) PercentComplete() float64 {
	if p.TotalFiles == 0 {
		return 0
	}
	return float64(p.ProcessedCount) / float64(p.TotalFiles) * 100
}

func (p *Progress) notify() {
	if p.onUpdate != nil {
		p.onUpdate(*p)
	}
}
