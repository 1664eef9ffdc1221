package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP transport.
type Config struct {
	// Name identifies the transport in logs.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL resolves descriptor URIs that are not absolute.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the per-request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to every request. Descriptor
	// headers override them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// HTTP2 enables HTTP/2 over TLS on the underlying transport.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`

	// Auth configures authentication applied to every request.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("httpclient: base_url must be an absolute URL (got: %s)", c.BaseURL)
		}
	}
	if c.Auth != nil {
		if err := c.Auth.Validate(); err != nil {
			return err
		}
	}
	return nil
}
