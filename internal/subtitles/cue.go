package subtitles

// Cue is the read-only view of a timed text segment.
type Cue interface {
	CueStart() float64
	CueEnd() float64
	CueText() string
}

// TranslatedCue is a Cue that may carry a translation. An empty translation
// means none is available.
type TranslatedCue interface {
	Cue
	CueTranslation() string
}

// Entry is a parsed SRT cue.
type Entry struct {
	Index int
	Start float64
	End   float64
	Text  string
}

func (e Entry) CueStart() float64 { return e.Start }
func (e Entry) CueEnd() float64   { return e.End }
func (e Entry) CueText() string   { return e.Text }
