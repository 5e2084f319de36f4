package config

import (
	"fmt"
	"net/url"
	"time"
)

// Supported token store back-ends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds runtime settings for the course-notes CLI.
//
// One-tap: EnableOneTap turns on the automatic prompt after a session check
// that found nobody signed in. OneTapInitRetries and OneTapInitInterval bound
// the wait for the identity SDK to become available.
//
// S3: the download mirror is enabled when S3Bucket is set.
type Config struct {
	APIBaseURL          string        `env:"API_BASE_URL"`
	GoogleClientID      string        `env:"GOOGLE_CLIENT_ID"`
	AllowedDomain       string        `env:"ALLOWED_DOMAIN"`
	SessionCheckTimeout time.Duration `env:"SESSION_CHECK_TIMEOUT"`

	EnableOneTap             bool          `env:"ENABLE_ONE_TAP"`
	OneTapAutoSelect         bool          `env:"ONE_TAP_AUTO_SELECT"`
	OneTapCancelOnTapOutside bool          `env:"ONE_TAP_CANCEL_ON_TAP_OUTSIDE"`
	OneTapInitRetries        uint64        `env:"ONE_TAP_INIT_RETRIES"`
	OneTapInitInterval       time.Duration `env:"ONE_TAP_INIT_INTERVAL"`

	StoreBackend string `env:"STORE_BACKEND"`
	DBPath       string `env:"DB_PATH"`
	RedisURL     string `env:"REDIS_URL"`
	RedisPrefix  string `env:"REDIS_PREFIX"`

	RequestsPerSecond float64 `env:"REQUESTS_PER_SECOND"`
	RequestBurst      int     `env:"REQUEST_BURST"`

	DownloadDir string `env:"DOWNLOAD_DIR"`

	S3Bucket       string        `env:"S3_BUCKET"`
	S3Region       string        `env:"S3_REGION"`
	S3BaseEndpoint string        `env:"S3_BASE_ENDPOINT"`
	S3AccessKey    string        `env:"S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"S3_SECRET_KEY"`
	S3Prefix       string        `env:"S3_PREFIX"`
	S3LinkTTL      time.Duration `env:"S3_LINK_TTL"`

	LogLevel  int    `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.AllowedDomain = "kgpian.iitkgp.ac.in"
	c.SessionCheckTimeout = 10 * time.Second

	c.EnableOneTap = true
	c.OneTapAutoSelect = false
	c.OneTapCancelOnTapOutside = true
	c.OneTapInitRetries = 10
	c.OneTapInitInterval = 200 * time.Millisecond

	c.StoreBackend = StoreSQLite
	c.DBPath = "coursenotes.db"
	c.RedisURL = "redis://127.0.0.1:6379/0"
	c.RedisPrefix = "coursenotes:"

	c.RequestsPerSecond = 10
	c.RequestBurst = 5

	c.DownloadDir = "downloads"

	c.S3Region = "us-east-1"
	c.S3LinkTTL = 15 * time.Minute

	c.LogLevel = 0
	c.LogFormat = "text"
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.APIBaseURL)
	}
	switch c.StoreBackend {
	case StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.SessionCheckTimeout <= 0 {
		return fmt.Errorf("session check timeout must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative")
	}
	return nil
}

// S3Enabled reports whether downloads are mirrored to object storage.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
