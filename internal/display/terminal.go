// Package display provides terminal output formatting for playlistmix.
package display

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gauthierbraillon/playlistmix/internal/duration"
	"github.com/gauthierbraillon/playlistmix/internal/playlist"
	"github.com/gauthierbraillon/playlistmix/internal/selection"
	"github.com/gauthierbraillon/playlistmix/internal/youtube"
)

const (
	separator     = " • "
	maxTitleWidth = 80
)

// TerminalFormatter formats selections and playlists for terminal display.
type TerminalFormatter struct {
	now func() time.Time
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{now: time.Now}
}

// FormatVideo formats one ranked video.
func (f *TerminalFormatter) FormatVideo(rank int, v youtube.Video) string {
	var lines []string

	// Header: #N Title
	lines = append(lines, fmt.Sprintf("#%d %s", rank, f.TruncateText(v.Title, maxTitleWidth)))

	meta := []string{}
	if v.ChannelTitle != "" {
		meta = append(meta, "by "+v.ChannelTitle)
	}
	meta = append(meta, FormatViews(v.ViewCount)+" views", v.FormattedDuration())
	if !v.PublishedAt.IsZero() {
		meta = append(meta, f.FormatTimestamp(v.PublishedAt))
	}
	lines = append(lines, "  "+strings.Join(meta, separator))

	lines = append(lines, "  "+v.URL())

	return strings.Join(lines, "\n") + "\n"
}

// FormatSelection formats the ranked selection followed by its totals.
func (f *TerminalFormatter) FormatSelection(videos []youtube.Video) string {
	if len(videos) == 0 {
		return "No videos selected.\n"
	}

	var formatted []string
	for i, v := range videos {
		formatted = append(formatted, f.FormatVideo(i+1, v))
	}

	total := selection.TotalSeconds(videos)
	footer := fmt.Sprintf("%s%s%s total (%d min)\n",
		pluralizeCount(len(videos), "video"), separator, duration.Format(total), duration.Minutes(total))

	return strings.Join(formatted, "\n") + "\n" + footer
}

// FormatSummary formats a created playlist, warning about videos that
// could not be added.
func (f *TerminalFormatter) FormatSummary(s playlist.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Created playlist %q\n", s.Title)
	fmt.Fprintf(&b, "  %s%s%d min\n", pluralizeCount(s.VideoCount, "video"), separator, s.TotalDurationMinutes)
	fmt.Fprintf(&b, "  %s\n", s.URL)

	if s.Partial() {
		fmt.Fprintf(&b, "\nWarning: %s could not be added:\n", pluralizeCount(len(s.Failed), "video"))
		for _, title := range s.Failed {
			fmt.Fprintf(&b, "  - %s\n", title)
		}
	}

	return b.String()
}

// FormatTimestamp formats a timestamp as relative time.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	diff := f.now().Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour")
	case diff < 30*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// viewUnits are the compact view count suffixes, smallest first.
var viewUnits = []struct {
	size   int64
	suffix string
}{
	{1_000, "K"},
	{1_000_000, "M"},
	{1_000_000_000, "B"},
}

// FormatViews renders a view count compactly: 950, 12.3K, 4.1M, 2.0B.
// A value that rounds to 1000 of one unit moves up to the next.
func FormatViews(n int64) string {
	if n < viewUnits[0].size {
		return fmt.Sprintf("%d", n)
	}

	for i, u := range viewUnits {
		if i+1 < len(viewUnits) && n >= viewUnits[i+1].size {
			continue
		}
		tenths := (n + u.size/20) / (u.size / 10)
		if tenths >= 10_000 && i+1 < len(viewUnits) {
			continue
		}
		return fmt.Sprintf("%d.%d%s", tenths/10, tenths%10, u.suffix)
	}
	return fmt.Sprintf("%d", n)
}

// pluralize returns "N unit ago" or "N units ago" based on count.
func pluralize(n int, unit string) string {
	return pluralizeCount(n, unit) + " ago"
}

func pluralizeCount(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string([]rune(text)[:maxLen-3]) + "..."
}
