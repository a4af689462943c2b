// Package progress reports per-file progress of an analysis on stderr.
//
// On a terminal the bar redraws in place; otherwise a plain status line is
// printed at every tenth of the work so logs stay readable.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	barFilled = "█"
	barEmpty  = "░"

	carriageReturn = "\r"
	defaultWidth   = 24
)

// Config configures a Bar.
type Config struct {
	// Total is the number of items expected.
	Total int

	// Message prefixes every status line.
	Message string

	// Width of the bar in cells. Defaults to 24.
	Width int

	// Writer defaults to os.Stderr.
	Writer io.Writer

	// IsTTY overrides terminal detection on Writer.
	IsTTY *bool
}

// Bar is a progress indicator for a known number of items. A nil *Bar is
// valid and does nothing.
type Bar struct {
	mu        sync.Mutex
	cfg       Config
	isTTY     bool
	current   int
	started   time.Time
	lastWidth int
}

// New creates a Bar. It does not draw anything until Start.
func New(cfg Config) *Bar {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	isTTY := IsTerminal(cfg.Writer)
	if cfg.IsTTY != nil {
		isTTY = *cfg.IsTTY
	}
	return &Bar{cfg: cfg, isTTY: isTTY}
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Start draws the initial state.
func (b *Bar) Start() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.started = time.Now()
	b.current = 0
	b.draw(true)
}

// Increment advances the bar by one item.
func (b *Bar) Increment() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cfg.Total <= 0 || b.current < b.cfg.Total {
		b.current++
	}
	b.draw(b.crossedTenth())
}

// Current returns the number of items processed.
func (b *Bar) Current() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Done clears the bar and prints a final line.
func (b *Bar) Done(message string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if message == "" {
		message = fmt.Sprintf("%s done", b.cfg.Message)
	}
	if b.isTTY {
		b.clear()
	}
	fmt.Fprintf(b.cfg.Writer, "%s (%d/%d) %s\n", message, b.current, b.cfg.Total, formatElapsed(time.Since(b.started)))
}

// crossedTenth reports whether the current count lands on a tenth of Total
// or completes it. Caller holds mu.
func (b *Bar) crossedTenth() bool {
	if b.cfg.Total <= 0 {
		return false
	}
	if b.current == b.cfg.Total {
		return true
	}
	step := b.cfg.Total/10 + 1
	return b.current%step == 0
}

// draw renders the bar. In non-TTY mode only forced lines are
// written. Caller holds mu.
func (b *Bar) draw(force bool) {
	line := b.line()
	if b.isTTY {
		b.clear()
		fmt.Fprint(b.cfg.Writer, line)
		b.lastWidth = len(line)
		return
	}
	if force {
		fmt.Fprintln(b.cfg.Writer, line)
	}
}

// line builds "Message [████░░░░] 40% (4/10) (1.2s)". Caller holds mu.
func (b *Bar) line() string {
	var parts []string
	if b.cfg.Message != "" {
		parts = append(parts, b.cfg.Message)
	}

	filled := 0
	pct := 0.0
	if b.cfg.Total > 0 {
		filled = min(b.current*b.cfg.Width/b.cfg.Total, b.cfg.Width)
		pct = float64(b.current) / float64(b.cfg.Total) * 100
	}
	parts = append(parts,
		"["+strings.Repeat(barFilled, filled)+strings.Repeat(barEmpty, b.cfg.Width-filled)+"]",
		fmt.Sprintf("%.0f%%", pct),
		fmt.Sprintf("(%d/%d)", b.current, b.cfg.Total),
	)
	if !b.started.IsZero() {
		parts = append(parts, formatElapsed(time.Since(b.started)))
	}
	return strings.Join(parts, " ")
}

// clear blanks the previously drawn line. Caller holds mu.
func (b *Bar) clear() {
	if b.lastWidth > 0 {
		fmt.Fprint(b.cfg.Writer, carriageReturn+strings.Repeat(" ", b.lastWidth)+carriageReturn)
		b.lastWidth = 0
	}
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("(%.1fs)", d.Seconds())
	}
	return fmt.Sprintf("(%dm %ds)", int(d.Minutes()), int(d.Seconds())%60)
}
