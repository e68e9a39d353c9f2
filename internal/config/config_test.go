package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SCREENSHOT_API_KEY", "")

	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Answer.Model != "sonar" || cfg.Answer.Temperature != 0.7 || cfg.Answer.TopP != 0.9 {
		t.Errorf("answer defaults = %+v", cfg.Answer)
	}
	if cfg.Vision.Model != "gemini-2.0-flash" || len(cfg.Vision.AllowedModels) != 6 {
		t.Errorf("vision defaults = %+v", cfg.Vision)
	}
	if cfg.Vision.Timeout != 120*time.Second {
		t.Errorf("vision timeout = %v", cfg.Vision.Timeout)
	}
	if cfg.Screenshot.Provider != ProviderScreenshotOne || cfg.Screenshot.ImageQuality != 80 {
		t.Errorf("screenshot defaults = %+v", cfg.Screenshot)
	}
	if cfg.Pipeline.MaxAnnotatedCitations != 1 {
		t.Errorf("max annotated = %d", cfg.Pipeline.MaxAnnotatedCitations)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("address = %s", cfg.Address())
	}
}

func TestLoadFileAndVendorEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citelens.yaml")
	content := `
server:
  port: 9090
vision:
  model: gemini-1.5-pro-latest
pipeline:
  max_annotated_citations: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test")
	t.Setenv("GEMINI_API_KEY", "gem-test")
	t.Setenv("CITELENS_SCREENSHOT_API_KEY", "shot-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Vision.Model != "gemini-1.5-pro-latest" || cfg.Pipeline.MaxAnnotatedCitations != 3 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Answer.APIKey != "pplx-test" || cfg.Vision.APIKey != "gem-test" || cfg.Screenshot.APIKey != "shot-test" {
		t.Errorf("env keys not applied: answer=%q vision=%q screenshot=%q",
			cfg.Answer.APIKey, cfg.Vision.APIKey, cfg.Screenshot.APIKey)
	}
	if err := Validate(cfg, AllComponents...); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Answer:     AnswerConfig{BaseURL: "https://api.perplexity.ai"},
		Vision:     VisionConfig{Model: "gemini-2.0-flash"},
		Screenshot: ScreenshotConfig{Provider: ProviderScreenshotOne},
	}

	err := Validate(cfg, AllComponents...)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(verr.Missing) != 3 {
		t.Errorf("missing = %v, want three keys", verr.Missing)
	}
	if !strings.Contains(err.Error(), "PERPLEXITY_API_KEY") {
		t.Errorf("message does not name the env var: %s", err)
	}

	// only the vision key matters for the locate command
	cfg.Vision.APIKey = "k"
	if err := Validate(cfg, ComponentVision); err != nil {
		t.Errorf("Validate(vision) = %v", err)
	}

	cfg.Screenshot.Provider = ProviderChromedp
	cfg.Answer.APIKey = "k"
	if err := Validate(cfg, AllComponents...); err != nil {
		t.Errorf("chromedp needs no key, got %v", err)
	}

	cfg.Screenshot.Provider = "paint"
	err = Validate(cfg, ComponentScreenshot)
	if !errors.As(err, &verr) || len(verr.Invalid) != 1 {
		t.Errorf("unknown provider not reported: %v", err)
	}
}
