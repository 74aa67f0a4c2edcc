package document

import "image"

// Kind identifies the input document format, which selects the
// extraction strategy.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindPPTX Kind = "pptx"
)

// Slide is the canonical per-page unit: the extracted page image, the
// narration text produced by analysis, and (after materialization) the
// decoded narration audio.
type Slide struct {
	PageIndex int
	Title     string
	Notes     string

	// ImageJPEG holds the rasterized page content, JPEG-encoded.
	// Nil when extraction could not produce an image for this page.
	ImageJPEG []byte

	// AudioSamples is the decoded narration waveform, normalized to
	// [-1, 1], mono at SampleRate. Nil until materialization.
	AudioSamples []float64
}

// HasAudio reports whether narration audio has been materialized.
func (s *Slide) HasAudio() bool { return len(s.AudioSamples) > 0 }

// Page is one extracted page before reconciliation with the analysis
// result: a raster image plus, for container-native inputs, the raw
// slide text and speaker notes.
type Page struct {
	Index     int
	ImageJPEG []byte
	Text      string
	NoteText  string
}

// NarrationRecord is one per-page entry of the analysis response,
// before index-driven reconciliation. Its PageIndex is untrusted: it
// may be missing, duplicated, or out of range.
type NarrationRecord struct {
	PageIndex int    `json:"pageIndex"`
	Title     string `json:"title"`
	Notes     string `json:"notes"`
}

// AnalysisResult is the analysis response envelope. It is merged into
// the canonical slide list immediately after the call and not kept.
type AnalysisResult struct {
	Title   string            `json:"presentationTitle"`
	Summary string            `json:"summary"`
	Slides  []NarrationRecord `json:"slides"`
}

// SampleRate is the PCM sample rate of synthesized narration audio.
const SampleRate = 24000

// AudioDurationSeconds returns the playback duration of a decoded
// waveform at SampleRate.
func AudioDurationSeconds(samples []float64) float64 {
	return float64(len(samples)) / float64(SampleRate)
}

// DecodeImage decodes a slide's stored JPEG into an image for drawing.
func (s *Slide) DecodeImage() (image.Image, error) {
	return decodeJPEG(s.ImageJPEG)
}
