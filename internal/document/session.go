package document

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/google/uuid"
)

// Phase is the lifecycle position of a session. Phases only move
// forward; a failed session keeps the phase it failed in.
type Phase string

const (
	PhaseCreated      Phase = "created"
	PhaseExtracted    Phase = "extracted"
	PhaseAnalyzed     Phase = "analyzed"
	PhaseMaterialized Phase = "materialized"
	PhaseComposed     Phase = "composed"
	PhaseFailed       Phase = "failed"
)

// Session is the state value threaded through the pipeline. Each phase
// receives a session and returns an advanced copy; nothing in the
// pipeline mutates a session it did not produce.
type Session struct {
	ID       string
	Kind     Kind
	Source   string
	Phase    Phase
	Title    string
	Summary  string
	Slides   []Slide
	Artifact string
	Err      error
}

// NewSession starts a session for one uploaded document.
func NewSession(source string, kind Kind) Session {
	return Session{
		ID:     uuid.NewString(),
		Kind:   kind,
		Source: source,
		Phase:  PhaseCreated,
	}
}

// Advance returns a copy of the session in the given phase.
func (s Session) Advance(p Phase) Session {
	s.Phase = p
	return s
}

// Fail returns a terminal copy of the session carrying err.
func (s Session) Fail(err error) Session {
	s.Phase = PhaseFailed
	s.Err = err
	return s
}

// ComposeView is the compositor's read view of the slide list. The
// compositor never edits narration text; it only reads images and
// audio in index order.
func (s Session) ComposeView() []Slide {
	out := make([]Slide, len(s.Slides))
	copy(out, s.Slides)
	return out
}

// ExportView is the exporter's read view: title, summary and slides
// without audio, which the exporter does not need.
func (s Session) ExportView() (string, string, []Slide) {
	out := make([]Slide, len(s.Slides))
	copy(out, s.Slides)
	for i := range out {
		out[i].AudioSamples = nil
	}
	return s.Title, s.Summary, out
}

func decodeJPEG(data []byte) (image.Image, error) {
	return jpeg.Decode(bytes.NewReader(data))
}
