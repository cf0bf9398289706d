package subtitles

import "fmt"

// ValidateSRT checks SRT content for format issues. An empty result means
// validation passed.
func ValidateSRT(raw string) []string {
	if CountCues(raw) == 0 {
		return []string{"empty_subtitle_file"}
	}
	entries := parseEntries(raw)
	if len(entries) == 0 {
		return []string{"no_valid_timestamps"}
	}

	var issues []string
	if skipped := CountCues(raw) - len(entries); skipped > 0 {
		issues = append(issues, fmt.Sprintf("malformed_cues: %d", skipped))
	}
	for i, e := range entries {
		if e.End < e.Start {
			issues = append(issues, fmt.Sprintf("cue %d: end before start", e.Index))
		}
		if i > 0 && e.Start < entries[i-1].Start {
			issues = append(issues, fmt.Sprintf("cue %d: starts before previous cue", e.Index))
		}
		if e.Index != i+1 {
			issues = append(issues, fmt.Sprintf("cue %d: expected index %d", e.Index, i+1))
		}
	}
	return issues
}
