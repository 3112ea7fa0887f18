package output

import (
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress reports row progress on a terminal. A nil *Progress is valid and
// ignores every call.
type Progress struct {
	bar *progressbar.ProgressBar
}

// Progress returns a progress bar writing to error output, or nil when output
// is not an interactive text terminal or total is not positive.
func (r *Renderer) Progress(total int, description string) *Progress {
	if !r.isTTY || r.EffectiveMode() != ModeText || total <= 0 {
		return nil
	}
	return &Progress{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.errOut),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetWidth(30),
	)}
}

// Add advances the bar by n rows.
func (p *Progress) Add(n int) error {
	if p == nil {
		return nil
	}
	return p.bar.Add(n)
}

// Finish completes and clears the bar.
func (p *Progress) Finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
