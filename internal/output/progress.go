package output

import (
	"fmt"
	"io"

	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"

	"github.com/pummelhq/pummel/internal/metrics"
)

// Progress renders a live bar over the configured request total.
type Progress struct {
	container *mpb.Progress
	bar       *mpb.Bar
}

// NewProgress creates a progress bar writing to w. When snapshot is non-nil it
// is polled on every render to append approximate p50/p99 latencies next to
// the bar. Pass io.Discard to render nowhere (tests).
func NewProgress(w io.Writer, total int, snapshot func() metrics.Snapshot) *Progress {
	appenders := []decor.Decorator{decor.Percentage()}
	if snapshot != nil {
		appenders = append(appenders, decor.Any(func(decor.Statistics) string {
			s := snapshot()
			if s.Successes == 0 {
				return ""
			}
			return fmt.Sprintf("  p50 %.1fms  p99 %.1fms", s.ApproxP50Ms, s.ApproxP99Ms)
		}))
	}

	container := mpb.New(mpb.WithOutput(w), mpb.WithWidth(60))
	bar := container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("requests "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(appenders...),
	)
	return &Progress{container: container, bar: bar}
}

// Increment advances the bar by one completed request.
func (p *Progress) Increment() {
	p.bar.Increment()
}

// Finish completes rendering. For cancelled runs the bar is aborted so Wait
// does not block on an unfilled bar.
func (p *Progress) Finish(completed bool) {
	if !completed {
		p.bar.Abort(false)
	}
	p.container.Wait()
}
