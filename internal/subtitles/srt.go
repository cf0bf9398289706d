package subtitles

import (
	"fmt"
	"io"
	"math"
	"strings"

	"framescribe/internal/textutil"
)

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Negative values clamp
// to zero. Milliseconds are rounded on the total so 1.9996 becomes
// 00:00:02,000 rather than 00:00:01,1000.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	msTotal := int64(math.Round(seconds * 1000))
	hours := msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes := msTotal / 60_000
	msTotal %= 60_000
	secs := msTotal / 1_000
	millis := msTotal % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// FormatSRT renders cues in order. Text is whitespace-normalized; cues
// whose text normalizes to nothing are skipped without consuming an index.
func FormatSRT[C Cue](cues []C) string {
	var sb strings.Builder
	index := 1
	for _, cue := range cues {
		text := textutil.NormalizeWhitespace(cue.CueText())
		if text == "" {
			continue
		}
		writeCue(&sb, index, cue, text)
		index++
	}
	return sb.String()
}

// WriteSRT writes FormatSRT output to w.
func WriteSRT[C Cue](w io.Writer, cues []C) error {
	if _, err := io.WriteString(w, FormatSRT(cues)); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

func writeCue(sb *strings.Builder, index int, cue Cue, lines ...string) {
	fmt.Fprintf(sb, "%d\n%s --> %s\n", index, FormatTimestamp(cue.CueStart()), FormatTimestamp(cue.CueEnd()))
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
}
