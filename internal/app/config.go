package app

import (
	"errors"

	"github.com/spf13/viper"
)

// DefaultAppID scopes credential vault entries to this application.
const DefaultAppID = "com.tearleads.rapid"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home          string `mapstructure:"home"`           // state directory, e.g. $HOME/.lockbox
	Instance      string `mapstructure:"instance"`       // ambient instance id, optional
	Platform      string `mapstructure:"platform"`       // local | host | vault; empty = detect
	AgentSocket   string `mapstructure:"agent_socket"`   // host agent socket / named pipe
	AppID         string `mapstructure:"app_id"`         // vault service identifier
	KDFIterations int    `mapstructure:"kdf_iterations"` // password stretching cost
	Verbose       bool   `mapstructure:"verbose"`
}

// LoadConfig resolves configuration for home: defaults, then an optional
// config.yaml in home, then LOCKBOX_* environment variables. Flag values are
// bound by the CLI on top of the result.
func LoadConfig(home string) (Config, error) {
	v := viper.New()
	// Defaults double as key registrations so AutomaticEnv can see them.
	v.SetDefault("home", home)
	v.SetDefault("instance", "")
	v.SetDefault("platform", "")
	v.SetDefault("agent_socket", "")
	v.SetDefault("app_id", DefaultAppID)
	v.SetDefault("kdf_iterations", 600_000)
	v.SetDefault("verbose", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)

	v.SetEnvPrefix("LOCKBOX")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
