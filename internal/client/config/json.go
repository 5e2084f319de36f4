package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/coursenotes/internal/flagx"
	"github.com/dmitrijs2005/coursenotes/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value so a partial file only
// overrides what it names.
type JsonConfig struct {
	APIBaseURL          *string         `json:"api_base_url"`
	GoogleClientID      *string         `json:"google_client_id"`
	AllowedDomain       *string         `json:"allowed_domain"`
	SessionCheckTimeout *timex.Duration `json:"session_check_timeout"`

	EnableOneTap             *bool           `json:"enable_one_tap"`
	OneTapAutoSelect         *bool           `json:"one_tap_auto_select"`
	OneTapCancelOnTapOutside *bool           `json:"one_tap_cancel_on_tap_outside"`
	OneTapInitRetries        *uint64         `json:"one_tap_init_retries"`
	OneTapInitInterval       *timex.Duration `json:"one_tap_init_interval"`

	StoreBackend *string `json:"store_backend"`
	DBPath       *string `json:"db_path"`
	RedisURL     *string `json:"redis_url"`
	RedisPrefix  *string `json:"redis_prefix"`

	RequestsPerSecond *float64 `json:"requests_per_second"`
	RequestBurst      *int     `json:"request_burst"`

	DownloadDir *string `json:"download_dir"`

	S3Bucket       *string         `json:"s3_bucket"`
	S3Region       *string         `json:"s3_region"`
	S3BaseEndpoint *string         `json:"s3_base_endpoint"`
	S3AccessKey    *string         `json:"s3_access_key"`
	S3SecretKey    *string         `json:"s3_secret_key"`
	S3Prefix       *string         `json:"s3_prefix"`
	S3LinkTTL      *timex.Duration `json:"s3_link_ttl"`

	LogLevel  *int    `json:"log_level"`
	LogFormat *string `json:"log_format"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	set(&cfg.APIBaseURL, jc.APIBaseURL)
	set(&cfg.GoogleClientID, jc.GoogleClientID)
	set(&cfg.AllowedDomain, jc.AllowedDomain)
	setDuration(&cfg.SessionCheckTimeout, jc.SessionCheckTimeout)

	set(&cfg.EnableOneTap, jc.EnableOneTap)
	set(&cfg.OneTapAutoSelect, jc.OneTapAutoSelect)
	set(&cfg.OneTapCancelOnTapOutside, jc.OneTapCancelOnTapOutside)
	set(&cfg.OneTapInitRetries, jc.OneTapInitRetries)
	setDuration(&cfg.OneTapInitInterval, jc.OneTapInitInterval)

	set(&cfg.StoreBackend, jc.StoreBackend)
	set(&cfg.DBPath, jc.DBPath)
	set(&cfg.RedisURL, jc.RedisURL)
	set(&cfg.RedisPrefix, jc.RedisPrefix)

	set(&cfg.RequestsPerSecond, jc.RequestsPerSecond)
	set(&cfg.RequestBurst, jc.RequestBurst)

	set(&cfg.DownloadDir, jc.DownloadDir)

	set(&cfg.S3Bucket, jc.S3Bucket)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	set(&cfg.S3AccessKey, jc.S3AccessKey)
	set(&cfg.S3SecretKey, jc.S3SecretKey)
	set(&cfg.S3Prefix, jc.S3Prefix)
	setDuration(&cfg.S3LinkTTL, jc.S3LinkTTL)

	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogFormat, jc.LogFormat)
}
