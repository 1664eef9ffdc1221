// Package config loads restspec configuration with Viper.
//
// Values are layered: a YAML or JSON config file, then a .env file loaded
// with godotenv, then RESTSPEC_* environment variables. Underscores in a
// variable name may address nested keys, so RESTSPEC_HTTP_BASE_URL sets
// http.base_url.
//
//	var cfg cli.Config
//	err := config.Load("restspec", &cfg, config.WithConfigFile(path))
//
// When no file is given, restspec.yml is searched for in the working
// directory, ./config and the user config directory.
package config
