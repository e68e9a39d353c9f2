package config

import (
	"fmt"
	"strings"
)

// Screenshot backends
const (
	ProviderScreenshotOne = "screenshotone"
	ProviderChromedp      = "chromedp"
)

// Component names a part of the system whose configuration can be checked.
type Component string

const (
	ComponentAnswer     Component = "answer"
	ComponentVision     Component = "vision"
	ComponentScreenshot Component = "screenshot"
)

// AllComponents is everything the chat server needs.
var AllComponents = []Component{ComponentAnswer, ComponentVision, ComponentScreenshot}

// ValidationError lists the configuration keys that are missing or invalid.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required configuration: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid configuration: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// Validate checks the settings the given components depend on. It returns a
// *ValidationError describing every problem at once, or nil.
func Validate(cfg *Config, components ...Component) error {
	verr := &ValidationError{}
	for _, c := range components {
		switch c {
		case ComponentAnswer:
			if cfg.Answer.APIKey == "" {
				verr.Missing = append(verr.Missing, "answer.api_key (PERPLEXITY_API_KEY)")
			}
			if cfg.Answer.BaseURL == "" {
				verr.Missing = append(verr.Missing, "answer.base_url")
			}
		case ComponentVision:
			if cfg.Vision.APIKey == "" {
				verr.Missing = append(verr.Missing, "vision.api_key (GEMINI_API_KEY)")
			}
			if cfg.Vision.Model == "" {
				verr.Missing = append(verr.Missing, "vision.model")
			}
		case ComponentScreenshot:
			switch cfg.Screenshot.Provider {
			case ProviderScreenshotOne:
				if cfg.Screenshot.APIKey == "" {
					verr.Missing = append(verr.Missing, "screenshot.api_key (SCREENSHOT_API_KEY)")
				}
			case ProviderChromedp:
			default:
				verr.Invalid = append(verr.Invalid, fmt.Sprintf("screenshot.provider %q", cfg.Screenshot.Provider))
			}
		}
	}
	if cfg.Pipeline.MaxAnnotatedCitations < 0 {
		verr.Invalid = append(verr.Invalid, "pipeline.max_annotated_citations must not be negative")
	}
	if len(verr.Missing) == 0 && len(verr.Invalid) == 0 {
		return nil
	}
	return verr
}
