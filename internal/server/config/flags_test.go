package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-b", "sqlite", "-d", "file:x.db", "-s", "secret", "-t", "5"},
			expected: &Config{
				EndpointAddrGRPC:             "127.0.0.1:9090",
				StorageBackend:               "sqlite",
				DatabaseDSN:                  "file:x.db",
				SecretKey:                    "secret",
				SessionTokenValidityDuration: 5 * time.Minute,
			},
		},
		{
			name: "absent -t keeps sub-minute validity",
			args: []string{"-a", ":1"},
			expected: &Config{
				EndpointAddrGRPC:             ":1",
				SessionTokenValidityDuration: 90 * time.Second,
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"-c", "x.json", "-v", "-a", ":2"},
			expected: &Config{
				EndpointAddrGRPC:             ":2",
				SessionTokenValidityDuration: 90 * time.Second,
			},
		},
		{
			name:    "non-numeric validity",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)

			config := &Config{SessionTokenValidityDuration: 90 * time.Second}
			err := parseFlags(config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
