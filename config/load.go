package config

import "fmt"

// Validatable is a configuration that can default and check itself.
type Validatable interface {
	ApplyDefaults()
	Validate() error
}

// Load runs LoadConfig, then applies defaults and validates cfg.
func Load(name string, cfg Validatable, opts ...LoaderOption) error {
	if err := LoadConfig(name, cfg, opts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
