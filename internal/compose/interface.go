package compose

import (
	"context"
	"image"

	"github.com/minhtran4102/slidecast/internal/document"
)

// State is the compositor's lifecycle position.
type State string

const (
	StateIdle       State = "idle"
	StatePreparing  State = "preparing"
	StateRecording  State = "recording"
	StateFinalizing State = "finalizing"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Artifact is the finished audio+video container.
type Artifact struct {
	Path  string
	Bytes int64
}

// Observer receives progress events during composition. All fields are
// optional; events are strictly informational and never influence
// timing.
type Observer struct {
	StateChanged  func(State)
	SlideStarted  func(slide, total int)
	SlideFinished func(slide, total int)
}

// Compositor records the slide sequence into one encoded artifact:
// each slide's image is shown for the duration of its narration plus
// trailing padding, with the narration mixed into the output, in slide
// order, non-overlapping.
type Compositor interface {
	Compose(ctx context.Context, slides []document.Slide, name string, obs Observer) (*Artifact, error)
}

// Recorder is the capture pipeline: it samples frames pushed at the
// target frame rate and accumulates the audio track, then assembles
// the encoded container. The compositor drives it through exactly one
// Start / Finalize cycle; Release must be called on every path.
type Recorder interface {
	Start(ctx context.Context) error

	// CaptureFrame records one frame tick (1/fps of display time).
	// The same surface is pushed repeatedly while a slide is on
	// screen; stale-frame dedup is the recorder's concern.
	CaptureFrame(frame image.Image) error

	// AppendAudio adds samples to the audio track at the current
	// write position.
	AppendAudio(samples []float64) error

	Finalize(ctx context.Context, name string) (*Artifact, error)

	// Release tears down capture resources. Idempotent, required on
	// both success and failure paths.
	Release()
}
