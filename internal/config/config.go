package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Limits enforced by the pipeline itself rather than delegated to the
// collaborator services.
type Limits struct {
	MinChars           int   `yaml:"min_chars"`
	MaxChars           int   `yaml:"max_chars"`
	YoutubeMaxChars    int   `yaml:"youtube_max_chars"`
	MaxPDFBytes        int64 `yaml:"max_pdf_bytes"`
	MinRangeGapSeconds int   `yaml:"min_range_gap_seconds"`
}

type Config struct {
	API struct {
		BaseURL string        `yaml:"base_url"`
		Token   string        `yaml:"token"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Limits Limits `yaml:"limits"`
}

func Load(path string) (*Config, error) {
	// Missing .env is fine; it only supplies overrides.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	return &cfg, nil
}

// Default returns a config without reading a file, for callers that only
// need the built-in limits.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8000/api"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 90 * time.Second
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Limits.MinChars == 0 {
		c.Limits.MinChars = 50
	}
	if c.Limits.MaxChars == 0 {
		c.Limits.MaxChars = 25000
	}
	if c.Limits.YoutubeMaxChars == 0 {
		c.Limits.YoutubeMaxChars = 50000
	}
	if c.Limits.MaxPDFBytes == 0 {
		c.Limits.MaxPDFBytes = 20 << 20
	}
	if c.Limits.MinRangeGapSeconds == 0 {
		c.Limits.MinRangeGapSeconds = 60
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CARDFORGE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CARDFORGE_API_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("CARDFORGE_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}
