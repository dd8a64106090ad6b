package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressBar shows how many commands of a batch have been sent.
type ProgressBar struct {
	w       io.Writer
	title   string
	total   int
	current int
	failed  int
	width   int
	mu      sync.Mutex
}

// NewProgressBar creates a new progress bar for total steps.
func NewProgressBar(w io.Writer, title string, total int) *ProgressBar {
	return &ProgressBar{
		w:     w,
		title: title,
		total: total,
		width: 30,
	}
}

// Step records one finished command. failed marks it as an error.
func (p *ProgressBar) Step(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	if failed {
		p.failed++
	}
	p.render()
}

// Counts returns the finished and failed step counts.
func (p *ProgressBar) Counts() (done, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.failed
}

// Finish ends the progress line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) render() {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %d sent", p.title, p.current)
		return
	}

	percent := float64(p.current) / float64(p.total)
	if percent > 1 {
		percent = 1
	}
	filled := int(float64(p.width) * percent)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)
	line := fmt.Sprintf("\r%s [%s] %3.0f%% (%d/%d)", p.title, bar, percent*100, p.current, p.total)
	if p.failed > 0 {
		line += fmt.Sprintf(" %d failed", p.failed)
	}
	fmt.Fprint(p.w, line)
}
