package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// printInterval rate-limits progress redraws to avoid flickering.
const printInterval = 100 * time.Millisecond

// lineWidth pads redrawn lines so shorter updates fully overwrite longer ones.
const lineWidth = 80

// Writer wraps an io.Writer and renders byte-level download progress
// to a separate output stream while data flows through it.
type Writer struct {
	writer    io.Writer
	output    io.Writer
	label     string
	total     int64
	written   int64
	startTime time.Time
	lastPrint time.Time
	mu        sync.Mutex
}

// NewWriter creates a progress writer labelled with the artifact name.
// If total is not positive, no percentage can be rendered and only the
// byte count and speed are shown.
func NewWriter(w io.Writer, label string, total int64, output io.Writer) *Writer {
	return &Writer{
		writer:    w,
		output:    output,
		label:     label,
		total:     total,
		startTime: time.Now(),
	}
}

// Write implements io.Writer and updates the progress display.
func (pw *Writer) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	if n > 0 {
		pw.mu.Lock()
		pw.written += int64(n)
		pw.print()
		pw.mu.Unlock()
	}

	return n, err
}

// Written returns the number of bytes passed through so far.
func (pw *Writer) Written() int64 {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	return pw.written
}

// Finish clears the progress line.
func (pw *Writer) Finish() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	_, _ = fmt.Fprintf(pw.output, "\r%s\r", strings.Repeat(" ", lineWidth))
}

// print redraws the progress line, rate-limited to printInterval.
func (pw *Writer) print() {
	now := time.Now()
	if now.Sub(pw.lastPrint) < printInterval && pw.written < pw.total {
		return
	}

	pw.lastPrint = now

	elapsed := now.Sub(pw.startTime).Seconds()

	var speed float64
	if elapsed > 0 {
		speed = float64(pw.written) / elapsed
	}

	var line string

	if pw.total > 0 {
		percent := float64(pw.written) / float64(pw.total) * 100
		if percent > 100 {
			percent = 100
		}

		line = fmt.Sprintf("\r  %s: %3.0f%% (%s/%s) %s/s",
			pw.label, percent,
			formatBytes(pw.written), formatBytes(pw.total),
			formatBytes(int64(speed)))
	} else {
		line = fmt.Sprintf("\r  %s: %s (%s/s)",
			pw.label, formatBytes(pw.written), formatBytes(int64(speed)))
	}

	if len(line) < lineWidth {
		line += strings.Repeat(" ", lineWidth-len(line))
	}

	_, _ = fmt.Fprint(pw.output, line)
}

// formatBytes renders a byte count in human-readable units.
func formatBytes(b int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case b >= gb:
		return fmt.Sprintf("%.1fGB", float64(b)/gb)
	case b >= mb:
		return fmt.Sprintf("%.1fMB", float64(b)/mb)
	case b >= kb:
		return fmt.Sprintf("%.1fKB", float64(b)/kb)
	default:
		return fmt.Sprintf("%dB", b)
	}
}
