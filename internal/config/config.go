package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Gemini  GeminiConfig  `yaml:"gemini"`
	Speech  SpeechConfig  `yaml:"speech"`
	Video   VideoConfig   `yaml:"video"`
	Extract ExtractConfig `yaml:"extract"`
	Export  ExportConfig  `yaml:"export"`
	Paths   PathsConfig   `yaml:"paths"`
	Logging LoggingConfig `yaml:"logging"`
	Quota   QuotaConfig   `yaml:"quota"`
}

type GeminiConfig struct {
	Model       string  `yaml:"model"`
	MaxRetries  int     `yaml:"max_retries"`
	RetryBaseMs int     `yaml:"retry_base_ms"`
	Temperature float32 `yaml:"temperature"`
}

type SpeechConfig struct {
	Model          string `yaml:"model"`
	Voice          string `yaml:"voice"`
	RequestsPerMin int    `yaml:"requests_per_min"`
}

type VideoConfig struct {
	Width             int    `yaml:"width"`
	Height            int    `yaml:"height"`
	FPS               int    `yaml:"fps"`
	Encoder           string `yaml:"encoder"`
	Preset            string `yaml:"preset"`
	VideoBitrate      string `yaml:"video_bitrate"`
	AudioCodec        string `yaml:"audio_codec"`
	SettleDelayMs     int    `yaml:"settle_delay_ms"`
	TrailingPaddingMs int    `yaml:"trailing_padding_ms"`
	TrailingStopMs    int    `yaml:"trailing_stop_ms"`
}

type ExtractConfig struct {
	PDFScale    float64 `yaml:"pdf_scale"`
	JPEGQuality int     `yaml:"jpeg_quality"`
}

type ExportConfig struct {
	PPTX       bool `yaml:"pptx"`
	Transcript bool `yaml:"transcript"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
	State  string `yaml:"state"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type QuotaConfig struct {
	DailyLimit int `yaml:"daily_limit"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Extract.JPEGQuality < 0 || c.Extract.JPEGQuality > 100 {
		return fmt.Errorf("extract.jpeg_quality must be in [0, 100]")
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.MaxRetries == 0 {
		c.Gemini.MaxRetries = 4
	}
	if c.Gemini.RetryBaseMs == 0 {
		c.Gemini.RetryBaseMs = 1000
	}
	if c.Speech.Model == "" {
		c.Speech.Model = "gemini-2.5-flash-preview-tts"
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = "Kore"
	}
	if c.Speech.RequestsPerMin == 0 {
		c.Speech.RequestsPerMin = 10
	}
	if c.Video.Width == 0 {
		c.Video.Width = 1280
	}
	if c.Video.Height == 0 {
		c.Video.Height = 720
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = 30
	}
	if c.Video.Encoder == "" {
		c.Video.Encoder = "libx264"
	}
	if c.Video.Preset == "" {
		c.Video.Preset = "medium"
	}
	if c.Video.VideoBitrate == "" {
		c.Video.VideoBitrate = "4M"
	}
	if c.Video.AudioCodec == "" {
		c.Video.AudioCodec = "aac"
	}
	if c.Video.SettleDelayMs == 0 {
		c.Video.SettleDelayMs = 300
	}
	if c.Video.TrailingPaddingMs == 0 {
		c.Video.TrailingPaddingMs = 500
	}
	if c.Video.TrailingStopMs == 0 {
		c.Video.TrailingStopMs = 1000
	}
	if c.Extract.PDFScale == 0 {
		c.Extract.PDFScale = 1.5
	}
	if c.Extract.JPEGQuality == 0 {
		c.Extract.JPEGQuality = 85
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/inbox"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.State == "" {
		c.Paths.State = "data/state"
	}
	if c.Quota.DailyLimit == 0 {
		c.Quota.DailyLimit = 20
	}

	return nil
}
