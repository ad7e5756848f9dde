package elasticsearch

import (
	"strings"
	"time"
)

// Defaults.
const (
	DefaultURL        = "http://wp-np3-e2:9200"
	DefaultMaxRetries = 3
	DefaultTimeout    = 30 * time.Second
)

// Config holds Elasticsearch client configuration.
type Config struct {
	// URL is the Elasticsearch server URL, port included.
	URL string `mapstructure:"url"`

	// Username is the optional basic auth username.
	Username string `mapstructure:"username"`

	// Password is the optional basic auth password.
	Password string `mapstructure:"password"`

	// APIKey is the optional API key, preferred over basic auth.
	APIKey string `mapstructure:"api_key"`

	// MaxRetries is the transport-level retry count of the underlying client.
	MaxRetries int `mapstructure:"max_retries"`

	// Timeout bounds each request made by the client.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// normalizeURL adds an http:// prefix when no scheme is given.
func normalizeURL(url string) string {
	if url == "" {
		return DefaultURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}
