// Package subtitles formats segments as SRT, dual-language SRT and JSON,
// and reads SRT and JSON transcripts back.
//
// Formatters accept anything implementing Cue, so visual OCR segments and
// word-backed transcript segments share one code path. Output is
// deterministic: the same cues always yield the same bytes.
package subtitles
