// Package progress renders word-count history as a terminal bar chart, with
// an optional HTML chart export.
package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/quillbase/quill/internal/history"
)

// msgNoHistory is returned for empty input instead of an empty chart.
const msgNoHistory = "No writing history in this window yet. Commit or back up to start tracking."

// Renderer draws fixed-width ASCII bars scaled to the maximum observed
// word count.
type Renderer struct {
	barWidth int
}

// NewRenderer creates a Renderer with the given bar width.
func NewRenderer(barWidth int) *Renderer {
	return &Renderer{barWidth: barWidth}
}

// Render produces one line per entry: date, bar, absolute count, and signed
// delta. Entries are displayed newest-first regardless of input order of
// deltas, which were computed oldest-first.
func (r *Renderer) Render(entries []history.WordCountHistoryEntry) string {
	if len(entries) == 0 {
		return msgNoHistory
	}

	maxCount := 0
	for _, entry := range entries {
		if entry.WordCount > maxCount {
			maxCount = entry.WordCount
		}
	}

	var b strings.Builder

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]

		b.WriteString(fmt.Sprintf("%s  %-*s %8s words  %s\n",
			entry.Date.Format(time.DateOnly),
			r.barWidth,
			r.bar(entry.WordCount, maxCount),
			humanize.Comma(int64(entry.WordCount)),
			signed(entry.Change),
		))
	}

	return strings.TrimRight(b.String(), "\n")
}

// bar scales count against maxCount into the fixed bar width. An all-zero
// history yields zero-length bars rather than dividing by zero.
func (r *Renderer) bar(count, maxCount int) string {
	if maxCount <= 0 {
		return ""
	}

	width := count * r.barWidth / maxCount

	return strings.Repeat("█", width)
}

// signed formats a delta with an explicit sign.
func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("(+%s)", humanize.Comma(int64(n)))
	}

	return fmt.Sprintf("(%s)", humanize.Comma(int64(n)))
}
