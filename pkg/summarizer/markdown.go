package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format converts a Summary to Markdown.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	var sb strings.Builder

	sb.WriteString("# Playback Session\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	sb.WriteString("## Stream\n\n")
	sb.WriteString(fmt.Sprintf("- URL: %s\n", summary.Stream.URL))
	sb.WriteString(fmt.Sprintf("- Codec: %s\n", summary.Stream.Codec))
	sb.WriteString(fmt.Sprintf("- Size: %dx%d\n\n", summary.Stream.Width, summary.Stream.Height))

	sb.WriteString("## Engine\n\n")
	mode := "software"
	if summary.Engine.Accelerated {
		mode = "hardware"
	}
	sb.WriteString(fmt.Sprintf("- Decoder: %s (%s)\n\n", summary.Engine.Name, mode))

	sb.WriteString("## Settings\n\n")
	sb.WriteString(fmt.Sprintf("- Acceleration: %s\n", summary.Settings.Acceleration))
	if summary.Settings.TargetFPS > 0 {
		sb.WriteString(fmt.Sprintf("- Target rate: %g fps\n", summary.Settings.TargetFPS))
	} else {
		sb.WriteString("- Target rate: free-run\n")
	}
	sb.WriteString(fmt.Sprintf("- Drop when ahead: %t\n\n", summary.Settings.DropWhenAhead))

	sb.WriteString("## Playback\n\n")
	p := summary.Playback
	sb.WriteString(fmt.Sprintf("- Duration: %s\n", formatDuration(p.DurationMs)))
	sb.WriteString(fmt.Sprintf("- Decoded: %d\n", p.Decoded))
	sb.WriteString(fmt.Sprintf("- Presented: %d\n", p.Presented))
	sb.WriteString(fmt.Sprintf("- Dropped by pacing: %d\n", p.DroppedPacing))
	sb.WriteString(fmt.Sprintf("- Dropped in transfer: %d\n", p.DroppedRealize))
	sb.WriteString(fmt.Sprintf("- Dropped in conversion: %d\n", p.DroppedConversion))
	sb.WriteString(fmt.Sprintf("- Skipped without surface: %d\n", p.SkippedSurface))
	if p.DurationMs > 0 && p.Presented > 0 {
		fps := float64(p.Presented) * 1000 / float64(p.DurationMs)
		sb.WriteString(fmt.Sprintf("- Effective rate: %.1f fps\n", fps))
	}

	return sb.String()
}

func formatDuration(ms int) string {
	if ms < 1000 {
		return fmt.Sprintf("%d ms", ms)
	}
	return fmt.Sprintf("%.1f s", float64(ms)/1000)
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)
