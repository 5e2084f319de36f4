package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		start       Config
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "Test1 OK",
			args: []string{"cmd", "-a", "http://api:9090", "-t", "5", "-b", "redis", "-q", "2", "-L", "json", "-c", "ignored.json"},
			expected: &Config{
				APIBaseURL:          "http://api:9090",
				SessionCheckTimeout: 5 * time.Second,
				StoreBackend:        "redis",
				RequestsPerSecond:   2,
				LogFormat:           "json",
			},
		},
		{
			name:     "Test2 timeout untouched without -t",
			args:     []string{"cmd", "-o", "/tmp/dl"},
			start:    Config{SessionCheckTimeout: 1500 * time.Millisecond},
			expected: &Config{DownloadDir: "/tmp/dl", SessionCheckTimeout: 1500 * time.Millisecond},
		},
		{name: "Test3 incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &tt.start

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(tt.expected, config))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
