package cli

import (
	"errors"
	"fmt"

	"github.com/kbukum/restspec/config"
	"github.com/kbukum/restspec/httpclient"
	"github.com/kbukum/restspec/logger"
	"github.com/kbukum/restspec/observability"
)

// AppConfig is the restspec CLI configuration file.
//
//	name: widgets
//	spec:
//	  file: widgets.yaml
//	http:
//	  base_url: http://localhost:8080
//	  timeout: 10s
//	logging:
//	  level: info
type AppConfig struct {
	config.BaseConfig `yaml:",inline" mapstructure:",squash"`

	Spec          SpecConfig           `yaml:"spec" mapstructure:"spec"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	HTTP          httpclient.Config    `yaml:"http" mapstructure:"http"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// SpecConfig locates the operation-spec document.
type SpecConfig struct {
	File  string `yaml:"file" mapstructure:"file"`
	Debug bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies defaults to every section.
func (c *AppConfig) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *AppConfig) Validate() error {
	if c.Spec.File == "" {
		return errors.New("spec.file is required (set it in the config file or pass --spec)")
	}
	if err := c.BaseConfig.Validate(); err != nil {
		return fmt.Errorf("base: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}
