package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/coursenotes/internal/flagx"
)

var flagNames = []string{"-a", "-g", "-d", "-t", "-b", "-f", "-r", "-q", "-o", "-l", "-L"}

// parseFlags populates selected Config fields from command-line flags. See
// the package documentation for the list. os.Args is first filtered with
// flagx.FilterArgs so that flags owned by other loaders do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], flagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.GoogleClientID, "g", cfg.GoogleClientID, "Google OAuth client id")
	fs.StringVar(&cfg.AllowedDomain, "d", cfg.AllowedDomain, "allowed sign-in email domain")
	sessionCheckTimeout := fs.Int("t", int(cfg.SessionCheckTimeout.Seconds()), "session check timeout (in seconds)")
	fs.StringVar(&cfg.StoreBackend, "b", cfg.StoreBackend, "token store backend (sqlite or redis)")
	fs.StringVar(&cfg.DBPath, "f", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "Redis URL")
	fs.Float64Var(&cfg.RequestsPerSecond, "q", cfg.RequestsPerSecond, "API requests per second")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	fs.IntVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "L", cfg.LogFormat, "log format (text, json or console)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.SessionCheckTimeout = time.Duration(*sessionCheckTimeout) * time.Second
		}
	})
}
