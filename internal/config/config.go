package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for CiteLens
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Answer     AnswerConfig     `mapstructure:"answer"`
	Vision     VisionConfig     `mapstructure:"vision"`
	Screenshot ScreenshotConfig `mapstructure:"screenshot"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	BaseURL      string   `mapstructure:"base_url"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// AdminConfig holds admin authentication configuration
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Development bool `mapstructure:"development"`
}

// AnswerConfig holds the search/answer API configuration
type AnswerConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Temperature  float64       `mapstructure:"temperature"`
	TopP         float64       `mapstructure:"top_p"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// VisionConfig holds the vision-language model configuration
type VisionConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	APIKey             string        `mapstructure:"api_key"`
	Model              string        `mapstructure:"model"`
	AllowedModels      []string      `mapstructure:"allowed_models"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RejectInvalidBoxes bool          `mapstructure:"reject_invalid_boxes"`
}

// ScreenshotConfig holds the screenshot backend configuration
type ScreenshotConfig struct {
	Provider     string        `mapstructure:"provider"` // screenshotone, chromedp
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ImageQuality int           `mapstructure:"image_quality"`
}

// PipelineConfig holds chat pipeline tuning
type PipelineConfig struct {
	MaxAnnotatedCitations int `mapstructure:"max_annotated_citations"`
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("CITELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindVendorEnv(v)

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// bindVendorEnv accepts the key names the upstream services document.
func bindVendorEnv(v *viper.Viper) {
	_ = v.BindEnv("answer.api_key", "CITELENS_ANSWER_API_KEY", "PERPLEXITY_API_KEY")
	_ = v.BindEnv("vision.api_key", "CITELENS_VISION_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("screenshot.api_key", "CITELENS_SCREENSHOT_API_KEY", "SCREENSHOT_API_KEY")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("admin.api_key", "")

	v.SetDefault("database.path", "./data/citelens.db")
	v.SetDefault("log.development", false)

	v.SetDefault("answer.base_url", "https://api.perplexity.ai")
	v.SetDefault("answer.api_key", "")
	v.SetDefault("answer.model", "sonar")
	v.SetDefault("answer.system_prompt", "You are a helpful AI assistant. Be concise and clear in your responses.")
	v.SetDefault("answer.temperature", 0.7)
	v.SetDefault("answer.top_p", 0.9)
	v.SetDefault("answer.timeout", "60s")

	v.SetDefault("vision.base_url", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("vision.api_key", "")
	v.SetDefault("vision.model", "gemini-2.0-flash")
	v.SetDefault("vision.allowed_models", []string{
		"gemini-2.0-flash",
		"gemini-2.0-flash-lite-preview-02-05",
		"gemini-2.0-pro-exp-02-05",
		"gemini-1.5-pro-latest",
		"gemini-1.5-flash-latest",
		"gemini-1.5-flash-8b-latest",
	})
	v.SetDefault("vision.timeout", "120s")
	v.SetDefault("vision.reject_invalid_boxes", false)

	v.SetDefault("screenshot.provider", ProviderScreenshotOne)
	v.SetDefault("screenshot.base_url", "https://api.screenshotone.com")
	v.SetDefault("screenshot.api_key", "")
	v.SetDefault("screenshot.timeout", "90s")
	v.SetDefault("screenshot.image_quality", 80)

	v.SetDefault("pipeline.max_annotated_citations", 1)
	v.SetDefault("metrics.enabled", true)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
