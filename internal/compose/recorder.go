package compose

import (
	"context"
	"fmt"
	"hash/crc32"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/minhtran4102/slidecast/internal/config"
	"github.com/minhtran4102/slidecast/internal/document"
	"github.com/minhtran4102/slidecast/internal/logger"
	"github.com/minhtran4102/slidecast/internal/speech"
	"github.com/minhtran4102/slidecast/pkg/executor"
)

type frameEntry struct {
	file  string
	ticks int
}

// ffmpegRecorder accumulates captured frames and audio in a scratch
// directory and assembles the container with one ffmpeg run. Identical
// consecutive frames are deduplicated into a single concat entry with
// an extended duration.
type ffmpegRecorder struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger

	workDir  string
	frames   []frameEntry
	lastCRC  uint32
	frameSeq int
	audio    *os.File
	started  bool
	released bool
}

// NewRecorder creates the ffmpeg-backed Recorder.
func NewRecorder(cfg *config.Config, exec executor.Executor, log logger.Logger) Recorder {
	return &ffmpegRecorder{cfg: cfg, executor: exec, logger: log}
}

func (r *ffmpegRecorder) Start(ctx context.Context) error {
	if r.started {
		return fmt.Errorf("recorder already started")
	}
	if err := os.MkdirAll(r.cfg.Paths.Temp, 0755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	workDir, err := os.MkdirTemp(r.cfg.Paths.Temp, "compose-*")
	if err != nil {
		return fmt.Errorf("create capture dir: %w", err)
	}
	r.workDir = workDir

	audio, err := os.Create(filepath.Join(workDir, "audio.pcm"))
	if err != nil {
		os.RemoveAll(workDir)
		return fmt.Errorf("create audio track: %w", err)
	}
	r.audio = audio
	r.started = true

	r.logger.Debug(ctx, "Capture started in %s", workDir)
	return nil
}

func (r *ffmpegRecorder) CaptureFrame(frame image.Image) error {
	if !r.started {
		return fmt.Errorf("capture not started")
	}

	rgba := asRGBA(frame)
	sum := crc32.ChecksumIEEE(rgba.Pix)

	// The source is refreshed every tick; a tick whose pixels did not
	// change just extends the previous entry's display time.
	if len(r.frames) > 0 && sum == r.lastCRC {
		r.frames[len(r.frames)-1].ticks++
		return nil
	}

	r.frameSeq++
	name := fmt.Sprintf("frame_%05d.jpg", r.frameSeq)
	f, err := os.Create(filepath.Join(r.workDir, name))
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	err = jpeg.Encode(f, rgba, &jpeg.Options{Quality: 90})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	r.frames = append(r.frames, frameEntry{file: name, ticks: 1})
	r.lastCRC = sum
	return nil
}

func (r *ffmpegRecorder) AppendAudio(samples []float64) error {
	if !r.started {
		return fmt.Errorf("capture not started")
	}
	_, err := r.audio.Write(speech.EncodePCM(samples))
	return err
}

func (r *ffmpegRecorder) Finalize(ctx context.Context, name string) (*Artifact, error) {
	if !r.started {
		return nil, fmt.Errorf("capture not started")
	}
	if len(r.frames) == 0 {
		return nil, fmt.Errorf("no frames captured")
	}
	if err := r.audio.Close(); err != nil {
		return nil, fmt.Errorf("close audio track: %w", err)
	}
	r.audio = nil

	if err := r.writeConcatList(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(r.cfg.Paths.Output, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	outPath, err := filepath.Abs(filepath.Join(r.cfg.Paths.Output, name+".mp4"))
	if err != nil {
		return nil, err
	}

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", "frames.ffconcat",
		"-f", "s16le",
		"-ar", strconv.Itoa(document.SampleRate),
		"-ac", "1",
		"-i", "audio.pcm",
		"-c:v", r.cfg.Video.Encoder,
		"-preset", r.cfg.Video.Preset,
		"-b:v", r.cfg.Video.VideoBitrate,
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(r.cfg.Video.FPS),
		"-c:a", r.cfg.Video.AudioCodec,
		outPath,
	}

	r.logger.Info(ctx, "Encoding %d unique frames into %s", len(r.frames), outPath)
	if _, err := r.executor.ExecuteInDir(ctx, r.workDir, "ffmpeg", args...); err != nil {
		return nil, fmt.Errorf("ffmpeg encode: %w", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	return &Artifact{Path: outPath, Bytes: info.Size()}, nil
}

// writeConcatList emits the ffconcat schedule: one entry per unique
// frame with its accumulated display duration. The last file is listed
// again because the concat demuxer ignores the final duration
// directive otherwise.
func (r *ffmpegRecorder) writeConcatList() error {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, fe := range r.frames {
		fmt.Fprintf(&b, "file %s\n", fe.file)
		fmt.Fprintf(&b, "duration %.6f\n", float64(fe.ticks)/float64(r.cfg.Video.FPS))
	}
	fmt.Fprintf(&b, "file %s\n", r.frames[len(r.frames)-1].file)

	path := filepath.Join(r.workDir, "frames.ffconcat")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

func (r *ffmpegRecorder) Release() {
	if r.released {
		return
	}
	r.released = true

	if r.audio != nil {
		r.audio.Close()
		r.audio = nil
	}
	if r.workDir != "" {
		os.RemoveAll(r.workDir)
	}
}

func asRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	xdraw.Draw(dst, b, img, b.Min, xdraw.Src)
	return dst
}
