// Package config loads runtime configuration for the course-notes CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables with the NOTES_ prefix (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-g string   Google OAuth client id
//	-d string   allowed sign-in email domain
//	-t int      session check timeout (seconds)
//	-b string   token store backend: sqlite or redis
//	-f string   SQLite database path
//	-r string   Redis URL
//	-q float    API requests per second (0 disables the limiter)
//	-o string   download directory
//	-l int      log level (slog numbering: -4 debug, 0 info, 4 warn, 8 error)
//	-L string   log format: text, json or console
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "10s" or integer
// nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "google_client_id": "1234.apps.googleusercontent.com",
//	  "allowed_domain": "kgpian.iitkgp.ac.in",
//	  "session_check_timeout": "10s",
//	  "enable_one_tap": true,
//	  "one_tap_init_interval": "200ms",
//	  "store_backend": "sqlite",
//	  "db_path": "coursenotes.db",
//	  "s3_bucket": "notes"
//	}
//
// Environment variables are named after the JSON keys, upper-cased and
// prefixed: NOTES_API_BASE_URL, NOTES_STORE_BACKEND, NOTES_S3_BUCKET, ...
package config
