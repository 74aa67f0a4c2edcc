package compose

import (
	"context"
	"fmt"
	"image"
	"math"
	"testing"

	"github.com/minhtran4102/slidecast/internal/config"
	"github.com/minhtran4102/slidecast/internal/document"
	"github.com/minhtran4102/slidecast/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{Paths: config.PathsConfig{Output: t.TempDir()}}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

// fakeRecorder checks the audio/video interleaving contract: all audio
// for a slide window is appended before that window's frames, and
// frame time equals audio time at every window boundary.
type fakeRecorder struct {
	t   *testing.T
	cfg *config.Config

	started      bool
	releaseCnt   int
	frameTicks   int
	audioTotal   int
	finalizeErr  error
	startErr     error
	lastWasFrame bool
}

func (f *fakeRecorder) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeRecorder) CaptureFrame(frame image.Image) error {
	if !f.started {
		f.t.Error("CaptureFrame before Start")
	}
	f.frameTicks++
	f.lastWasFrame = true
	return nil
}

func (f *fakeRecorder) AppendAudio(samples []float64) error {
	if !f.started {
		f.t.Error("AppendAudio before Start")
	}
	if f.lastWasFrame {
		// A new window begins: the previous window must be exactly
		// closed out, or windows would overlap.
		f.checkAligned()
	}
	f.audioTotal += len(samples)
	f.lastWasFrame = false
	return nil
}

func (f *fakeRecorder) checkAligned() {
	frameSec := float64(f.frameTicks) / float64(f.cfg.Video.FPS)
	audioSec := float64(f.audioTotal) / float64(document.SampleRate)
	if math.Abs(frameSec-audioSec) > 1.0/float64(f.cfg.Video.FPS) {
		f.t.Errorf("window boundary misaligned: video %.4fs, audio %.4fs", frameSec, audioSec)
	}
}

func (f *fakeRecorder) Finalize(ctx context.Context, name string) (*Artifact, error) {
	if f.finalizeErr != nil {
		return nil, f.finalizeErr
	}
	return &Artifact{Path: name + ".mp4", Bytes: 1}, nil
}

func (f *fakeRecorder) Release() { f.releaseCnt++ }

func audioSlides(durations ...float64) []document.Slide {
	slides := make([]document.Slide, len(durations))
	for i, d := range durations {
		slides[i] = document.Slide{
			PageIndex:    i,
			Title:        fmt.Sprintf("Slide %d", i+1),
			Notes:        "narration",
			AudioSamples: make([]float64, int(d*document.SampleRate)),
		}
	}
	return slides
}

func TestComposeDurations(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{t: t, cfg: cfg}
	comp := New(cfg, rec, logger.New("error"))

	slides := audioSlides(1.0, 2.5)
	art, err := comp.Compose(context.Background(), slides, "out", Observer{})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if art == nil || art.Path == "" {
		t.Fatal("no artifact returned")
	}

	fps := float64(cfg.Video.FPS)
	padding := float64(cfg.Video.TrailingPaddingMs) / 1000.0
	settle := float64(cfg.Video.SettleDelayMs) / 1000.0
	tail := float64(cfg.Video.TrailingStopMs) / 1000.0

	wantTicks := int(math.Ceil(settle*fps)) +
		int(math.Ceil((1.0+padding)*fps)) +
		int(math.Ceil((2.5+padding)*fps)) +
		int(math.Ceil(tail*fps))
	if rec.frameTicks != wantTicks {
		t.Errorf("frame ticks = %d, want %d", rec.frameTicks, wantTicks)
	}

	// Video and audio tracks must have identical length.
	videoSec := float64(rec.frameTicks) / fps
	audioSec := float64(rec.audioTotal) / float64(document.SampleRate)
	if math.Abs(videoSec-audioSec) > 1e-6 {
		t.Errorf("video %.6fs != audio %.6fs", videoSec, audioSec)
	}

	if rec.releaseCnt == 0 {
		t.Error("Release not called on success path")
	}
}

func TestComposeStateSequence(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{t: t, cfg: cfg}
	comp := New(cfg, rec, logger.New("error"))

	var states []State
	obs := Observer{StateChanged: func(s State) { states = append(states, s) }}

	if _, err := comp.Compose(context.Background(), audioSlides(0.5), "out", obs); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	want := []State{StatePreparing, StateRecording, StateFinalizing, StateDone}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("state %d = %s, want %s", i, states[i], want[i])
		}
	}
}

func TestComposeSlideEvents(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{t: t, cfg: cfg}
	comp := New(cfg, rec, logger.New("error"))

	var started, finished []int
	obs := Observer{
		SlideStarted:  func(i, total int) { started = append(started, i) },
		SlideFinished: func(i, total int) { finished = append(finished, i) },
	}

	if _, err := comp.Compose(context.Background(), audioSlides(0.5, 0.5, 0.5), "out", obs); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if started[i] != i+1 || finished[i] != i+1 {
			t.Errorf("slide events out of order: started=%v finished=%v", started, finished)
		}
	}
}

func TestComposeFinalizeFailure(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{t: t, cfg: cfg, finalizeErr: fmt.Errorf("encoder gone")}
	comp := New(cfg, rec, logger.New("error"))

	var states []State
	obs := Observer{StateChanged: func(s State) { states = append(states, s) }}

	if _, err := comp.Compose(context.Background(), audioSlides(0.5), "out", obs); err == nil {
		t.Fatal("Compose() expected error")
	}

	if states[len(states)-1] != StateFailed {
		t.Errorf("terminal state = %s, want %s", states[len(states)-1], StateFailed)
	}
	if rec.releaseCnt == 0 {
		t.Error("Release not called on failure path")
	}
}

func TestComposeStartFailure(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{t: t, cfg: cfg, startErr: fmt.Errorf("no capture device")}
	comp := New(cfg, rec, logger.New("error"))

	if _, err := comp.Compose(context.Background(), audioSlides(0.5), "out", Observer{}); err == nil {
		t.Fatal("Compose() expected error")
	}
	if rec.releaseCnt == 0 {
		t.Error("Release not called after start failure")
	}
}

func TestComposeRejectsUnmaterializedSlides(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{t: t, cfg: cfg}
	comp := New(cfg, rec, logger.New("error"))

	slides := audioSlides(0.5, 0.5)
	slides[1].AudioSamples = nil

	if _, err := comp.Compose(context.Background(), slides, "out", Observer{}); err == nil {
		t.Fatal("Compose() expected error for missing audio")
	}
	if rec.started {
		t.Error("capture must not start when validation fails")
	}
}

func TestComposeCancellation(t *testing.T) {
	cfg := testConfig(t)
	rec := &fakeRecorder{t: t, cfg: cfg}
	comp := New(cfg, rec, logger.New("error"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := comp.Compose(ctx, audioSlides(10), "out", Observer{}); err == nil {
		t.Fatal("Compose() expected error after cancellation")
	}
	if rec.releaseCnt == 0 {
		t.Error("Release not called after cancellation")
	}
}
