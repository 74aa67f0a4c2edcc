package compose

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/minhtran4102/slidecast/internal/config"
	"github.com/minhtran4102/slidecast/internal/document"
	"github.com/minhtran4102/slidecast/internal/logger"
)

type implCompositor struct {
	cfg      *config.Config
	recorder Recorder
	logger   logger.Logger
	state    State
}

// New creates a Compositor driving the given Recorder.
func New(cfg *config.Config, rec Recorder, log logger.Logger) Compositor {
	return &implCompositor{cfg: cfg, recorder: rec, logger: log, state: StateIdle}
}

// Compose runs the recording session: one pass over the slides, no
// restart. The capture pipeline is torn down on every exit path.
func (c *implCompositor) Compose(ctx context.Context, slides []document.Slide, name string, obs Observer) (*Artifact, error) {
	if len(slides) == 0 {
		return nil, c.fail(obs, fmt.Errorf("no slides to compose"))
	}
	for i := range slides {
		if !slides[i].HasAudio() {
			return nil, c.fail(obs, fmt.Errorf("slide %d has no materialized audio", i))
		}
	}

	c.setState(obs, StatePreparing)
	defer c.recorder.Release()

	surf := newSurface(c.cfg.Video.Width, c.cfg.Video.Height)

	// Capture must not begin on an empty surface: encoders latch onto
	// whatever the first polled frame holds.
	first := c.slideImage(ctx, &slides[0])
	surf.DrawSlide(first)

	if err := c.recorder.Start(ctx); err != nil {
		return nil, c.fail(obs, fmt.Errorf("start capture: %w", err))
	}
	c.setState(obs, StateRecording)

	// Capture pipelines commonly drop or misrender the first frames
	// before the encoder stabilizes. Re-draw the first frame and hold
	// it for the settle window, with matching silence on the audio
	// track, before any narration starts.
	settle := time.Duration(c.cfg.Video.SettleDelayMs) * time.Millisecond
	surf.DrawSlide(first)
	if err := c.holdFrame(ctx, surf, c.framesFor(settle), true); err != nil {
		return nil, c.fail(obs, err)
	}

	padding := time.Duration(c.cfg.Video.TrailingPaddingMs) * time.Millisecond
	for i := range slides {
		obs.slideStarted(i+1, len(slides))

		img := first
		if i > 0 {
			img = c.slideImage(ctx, &slides[i])
		}
		surf.DrawSlide(img)

		// Slide window: narration duration plus trailing padding,
		// rounded up to whole frame ticks. Audio is padded to exactly
		// the window, so no window ever overlaps the next.
		audioDur := time.Duration(document.AudioDurationSeconds(slides[i].AudioSamples) * float64(time.Second))
		frames := c.framesFor(audioDur + padding)

		if err := c.recorder.AppendAudio(slides[i].AudioSamples); err != nil {
			return nil, c.fail(obs, fmt.Errorf("append audio for slide %d: %w", i, err))
		}
		fill := c.windowSamples(frames) - len(slides[i].AudioSamples)
		if fill > 0 {
			if err := c.recorder.AppendAudio(make([]float64, fill)); err != nil {
				return nil, c.fail(obs, fmt.Errorf("pad audio for slide %d: %w", i, err))
			}
		}

		// Continuous redraw while the slide is "static": a capture
		// stream polling at a fixed rate needs the source refreshed,
		// or some encoders duplicate stale frames.
		if err := c.holdFrame(ctx, surf, frames, false); err != nil {
			return nil, c.fail(obs, fmt.Errorf("capture slide %d: %w", i, err))
		}

		obs.slideFinished(i+1, len(slides))
	}

	// Hold after the last deadline so the final slide's tail is not
	// truncated by the encoder flush.
	tail := time.Duration(c.cfg.Video.TrailingStopMs) * time.Millisecond
	if err := c.holdFrame(ctx, surf, c.framesFor(tail), true); err != nil {
		return nil, c.fail(obs, err)
	}

	c.setState(obs, StateFinalizing)
	art, err := c.recorder.Finalize(ctx, name)
	if err != nil {
		return nil, c.fail(obs, fmt.Errorf("finalize capture: %w", err))
	}

	c.setState(obs, StateDone)
	c.logger.Info(ctx, "Composition complete: %s (%d bytes)", art.Path, art.Bytes)
	return art, nil
}

// holdFrame pushes the current surface for the given number of frame
// ticks, optionally with matching silence, yielding to ctx between
// redraws.
func (c *implCompositor) holdFrame(ctx context.Context, surf *surface, frames int, silence bool) error {
	if silence && frames > 0 {
		if err := c.recorder.AppendAudio(make([]float64, c.windowSamples(frames))); err != nil {
			return err
		}
	}
	for f := 0; f < frames; f++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := c.recorder.CaptureFrame(surf.Frame()); err != nil {
			return err
		}
	}
	return nil
}

// framesFor converts a display duration to frame ticks, rounding up so
// audio never outruns video.
func (c *implCompositor) framesFor(d time.Duration) int {
	return int(math.Ceil(d.Seconds() * float64(c.cfg.Video.FPS)))
}

// windowSamples is the exact audio length covering the given frame
// count.
func (c *implCompositor) windowSamples(frames int) int {
	return int(math.Round(float64(frames) / float64(c.cfg.Video.FPS) * float64(document.SampleRate)))
}

func (c *implCompositor) slideImage(ctx context.Context, s *document.Slide) image.Image {
	if len(s.ImageJPEG) == 0 {
		return nil
	}
	img, err := s.DecodeImage()
	if err != nil {
		c.logger.Warn(ctx, "Slide %d image undecodable, using blank frame: %v", s.PageIndex, err)
		return nil
	}
	return img
}

func (c *implCompositor) setState(obs Observer, s State) {
	c.state = s
	if obs.StateChanged != nil {
		obs.StateChanged(s)
	}
}

func (c *implCompositor) fail(obs Observer, err error) error {
	c.setState(obs, StateFailed)
	return err
}

func (o Observer) slideStarted(i, total int) {
	if o.SlideStarted != nil {
		o.SlideStarted(i, total)
	}
}

func (o Observer) slideFinished(i, total int) {
	if o.SlideFinished != nil {
		o.SlideFinished(i, total)
	}
}
