package upstream

import (
	"fmt"
	"strings"
)

// Config holds the connection settings for the upstream case registry.
type Config struct {
	// ApiURI is the base URL of the registry API, without a trailing slash.
	ApiURI string `mapstructure:"api_uri" default:""`
	// ApiUser is the account the api key belongs to.
	ApiUser string `mapstructure:"api_user" default:""`
	// ApiKey authenticates requests against the registry.
	ApiKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds bounds every single request to the registry.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PageLimit is the number of records requested per listing page.
	PageLimit int `mapstructure:"page_limit" default:"1000"`
}

// Validate reports which settings a working client is missing.
func (c Config) Validate() error {
	var missing []string
	if c.ApiURI == "" {
		missing = append(missing, "upstream.api_uri")
	}
	if c.ApiUser == "" {
		missing = append(missing, "upstream.api_user")
	}
	if c.ApiKey == "" {
		missing = append(missing, "upstream.api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
