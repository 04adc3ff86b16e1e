package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultAPIKey is the public sample key published for api.data.gov.in.
const DefaultAPIKey = "579b464db66ec23bdd0000010cebaf31b6854cb77de768e7e2d13018"

// Config holds the full application configuration.
type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Plot    PlotConfig    `yaml:"plot" mapstructure:"plot"`
	Predict PredictConfig `yaml:"predict" mapstructure:"predict"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// APIConfig configures access to the open government data platform.
type APIConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Key         string  `yaml:"key" mapstructure:"key"`
	Limit       int     `yaml:"limit" mapstructure:"limit"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// Timeout returns the HTTP client timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// FetchConfig configures retries and the progress display.
type FetchConfig struct {
	Retries            int     `yaml:"retries" mapstructure:"retries"`
	BackoffFactor      float64 `yaml:"backoff_factor" mapstructure:"backoff_factor"`
	MaxBackoffSecs     int     `yaml:"max_backoff_secs" mapstructure:"max_backoff_secs"`
	Progress           bool    `yaml:"progress" mapstructure:"progress"`
	ProgressIntervalMs int     `yaml:"progress_interval_ms" mapstructure:"progress_interval_ms"`
	ProgressStep       int     `yaml:"progress_step" mapstructure:"progress_step"`
}

// DataConfig configures where fetched and saved tables live.
type DataConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	APIDir   string `yaml:"api_dir" mapstructure:"api_dir"`
	SavedDir string `yaml:"saved_dir" mapstructure:"saved_dir"`
}

// APIPath returns the directory holding freshly fetched tables.
func (c DataConfig) APIPath() string {
	return filepath.Join(c.Dir, c.APIDir)
}

// SavedPath returns the directory holding the saved copies.
func (c DataConfig) SavedPath() string {
	return filepath.Join(c.Dir, c.SavedDir)
}

// PlotConfig configures chart output.
type PlotConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Width  int    `yaml:"width" mapstructure:"width"`
	Height int    `yaml:"height" mapstructure:"height"`
}

// PredictConfig holds the growth assumptions used for projections.
type PredictConfig struct {
	BaseYear          int     `yaml:"base_year" mapstructure:"base_year"`
	PlasticGrowthRate float64 `yaml:"plastic_growth_rate" mapstructure:"plastic_growth_rate"`
	BODGrowthRate     float64 `yaml:"bod_growth_rate" mapstructure:"bod_growth_rate"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the values that would otherwise fail deep inside a fetch.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return eris.New("config: api.base_url is required")
	}
	if c.API.Key == "" {
		return eris.New("config: api.key is required")
	}
	if c.API.Limit <= 0 {
		return eris.Errorf("config: api.limit must be positive, got %d", c.API.Limit)
	}
	if c.Fetch.Retries < 1 {
		return eris.Errorf("config: fetch.retries must be at least 1, got %d", c.Fetch.Retries)
	}
	if c.Fetch.BackoffFactor < 1 {
		return eris.Errorf("config: fetch.backoff_factor must be at least 1, got %g", c.Fetch.BackoffFactor)
	}
	if c.Predict.BaseYear <= 0 {
		return eris.Errorf("config: predict.base_year must be positive, got %d", c.Predict.BaseYear)
	}
	return nil
}

// Load reads configuration from config.yaml, environment variables, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DHARTI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("api.base_url", "https://api.data.gov.in")
	v.SetDefault("api.key", DefaultAPIKey)
	v.SetDefault("api.limit", 100)
	v.SetDefault("api.user_agent", "dharti-cli/1.0")
	v.SetDefault("api.timeout_secs", 30)
	v.SetDefault("api.rate_per_sec", 2.0)
	v.SetDefault("fetch.retries", 3)
	v.SetDefault("fetch.backoff_factor", 2.0)
	v.SetDefault("fetch.max_backoff_secs", 300)
	v.SetDefault("fetch.progress", true)
	v.SetDefault("fetch.progress_interval_ms", 200)
	v.SetDefault("fetch.progress_step", 10)
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.api_dir", "api_data")
	v.SetDefault("data.saved_dir", "SavedData")
	v.SetDefault("plot.dir", "plots")
	v.SetDefault("plot.width", 1024)
	v.SetDefault("plot.height", 640)
	v.SetDefault("predict.base_year", 2021)
	v.SetDefault("predict.plastic_growth_rate", 0.02)
	v.SetDefault("predict.bod_growth_rate", 0.01)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger. Logs go to stderr so they
// never mix with menu output on stdout.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.OutputPaths = []string{"stderr"}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
