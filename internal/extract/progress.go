// Defines progress reporting interfaces and implementations.

package extract

import (
	"context"
	"log/slog"
	"time"
)

// Stats contains statistics about an export.
type Stats struct {
	Pages    int           `json:"pages"`
	Duration time.Duration `json:"duration"`
}

// ProgressReporter is the interface for reporting export progress.
type ProgressReporter interface {
	OnStart(total int)
	OnProgress(current int, title, slug string)
	OnWarning(msg string)
	OnComplete(stats Stats)
}

// SlogProgress reports progress as log records.
type SlogProgress struct {
	Ctx    context.Context
	Logger *slog.Logger
}

func (p *SlogProgress) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *SlogProgress) ctx() context.Context {
	if p.Ctx == nil {
		return context.Background()
	}
	return p.Ctx
}

// OnStart is called once pages are listed.
func (p *SlogProgress) OnStart(total int) {
	p.logger().InfoContext(p.ctx(), "Found pages", "count", total)
}

// OnProgress is called for each page written.
func (p *SlogProgress) OnProgress(current int, title, slug string) {
	p.logger().DebugContext(p.ctx(), "Wrote page", "n", current, "title", title, "slug", slug)
}

// OnWarning is called for recovered issues.
func (p *SlogProgress) OnWarning(msg string) {
	p.logger().WarnContext(p.ctx(), msg)
}

// OnComplete is called when the export finishes.
func (p *SlogProgress) OnComplete(stats Stats) {
	p.logger().InfoContext(p.ctx(), "Export complete", "pages", stats.Pages, "duration", stats.Duration.Round(time.Millisecond))
}

// NullProgress discards all progress updates.
type NullProgress struct{}

// OnStart is called once pages are listed.
func (p *NullProgress) OnStart(total int) {}

// OnProgress is called for each page written.
func (p *NullProgress) OnProgress(current int, title, slug string) {}

// OnWarning is called for recovered issues.
func (p *NullProgress) OnWarning(msg string) {}

// OnComplete is called when the export finishes.
func (p *NullProgress) OnComplete(stats Stats) {}
