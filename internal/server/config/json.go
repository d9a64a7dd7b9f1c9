package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophid/internal/flagx"
	"github.com/dmitrijs2005/gophid/internal/timex"
)

// JsonConfig is the file form of Config. Durations accept "24h" or
// nanoseconds. Keys left out of the file keep their current value.
type JsonConfig struct {
	EndpointAddrGRPC             string          `json:"endpoint_addr_grpc"`
	StorageBackend               string          `json:"storage_backend"`
	DatabaseDSN                  string          `json:"database_dsn"`
	SecretKey                    string          `json:"secret_key"`
	SessionTokenValidityDuration *timex.Duration `json:"session_token_validity_duration"`
	LogLevel                     string          `json:"log_level"`
	GoogleClientID               string          `json:"google_client_id"`
	GoogleClientSecret           string          `json:"google_client_secret"`
	GoogleRedirectURL            string          `json:"google_redirect_url"`
	FacebookClientID             string          `json:"facebook_client_id"`
	FacebookClientSecret         string          `json:"facebook_client_secret"`
	FacebookRedirectURL          string          `json:"facebook_redirect_url"`
}

func parseJSON(config *Config) error {
	path := flagx.ConfigPath()
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.applyTo(config)
	return nil
}

func (c *JsonConfig) applyTo(config *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.StorageBackend, c.StorageBackend)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	set(&config.LogLevel, c.LogLevel)
	set(&config.GoogleClientID, c.GoogleClientID)
	set(&config.GoogleClientSecret, c.GoogleClientSecret)
	set(&config.GoogleRedirectURL, c.GoogleRedirectURL)
	set(&config.FacebookClientID, c.FacebookClientID)
	set(&config.FacebookClientSecret, c.FacebookClientSecret)
	set(&config.FacebookRedirectURL, c.FacebookRedirectURL)

	if c.SessionTokenValidityDuration != nil {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
}
