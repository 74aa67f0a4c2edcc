package config

import (
	"os"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Paths: PathsConfig{
					Output: "data/output",
				},
			},
			wantErr: false,
		},
		{
			name:    "missing output path",
			config:  Config{},
			wantErr: true,
		},
		{
			name: "jpeg quality out of range",
			config: Config{
				Paths:   PathsConfig{Output: "data/output"},
				Extract: ExtractConfig{JPEGQuality: 150},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Paths: PathsConfig{Output: "data/output"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Video.Width != 1280 || cfg.Video.Height != 720 {
		t.Errorf("default resolution = %dx%d, want 1280x720", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Video.FPS != 30 {
		t.Errorf("default fps = %d, want 30", cfg.Video.FPS)
	}
	if cfg.Video.SettleDelayMs == 0 {
		t.Error("settle delay default missing")
	}
	if cfg.Video.TrailingPaddingMs == 0 {
		t.Error("trailing padding default missing")
	}
	if cfg.Gemini.Model == "" || cfg.Speech.Model == "" {
		t.Error("model defaults missing")
	}
	if cfg.Speech.RequestsPerMin == 0 {
		t.Error("speech pacing default missing")
	}
	if cfg.Quota.DailyLimit == 0 {
		t.Error("quota default missing")
	}
}

func TestLoad(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
paths:
  output: data/output
video:
  fps: 24
  settle_delay_ms: 150
extract:
  pdf_scale: 2.0
`
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	tmpfile.Close()

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Video.FPS != 24 {
		t.Errorf("fps = %d, want 24", cfg.Video.FPS)
	}
	if cfg.Video.SettleDelayMs != 150 {
		t.Errorf("settle delay = %d, want 150", cfg.Video.SettleDelayMs)
	}
	if cfg.Extract.PDFScale != 2.0 {
		t.Errorf("pdf scale = %v, want 2.0", cfg.Extract.PDFScale)
	}
	if cfg.Video.Width != 1280 {
		t.Errorf("width default = %d, want 1280", cfg.Video.Width)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("Load() expected error for missing file")
	}
}
