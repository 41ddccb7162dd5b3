// Package config loads the editor configuration from an optional file and
// LISTEDIT_* environment variables, and builds the logger.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Keys of the configuration.
const (
	ListMaxIndent      = "list.maxIndent"
	LoggingLevel       = "logging.level"
	LoggingDevelopment = "logging.development"
)

// Config is the configuration of an editor.
type Config struct {
	List    List    `mapstructure:"list"`
	Logging Logging `mapstructure:"logging"`
}

// List configures the list feature.
type List struct {
	// The deepest indent an item can get with the indent command.
	MaxIndent int `mapstructure:"maxIndent" validate:"min=1,max=32"`
}

// Logging configures the logger.
type Logging struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		List:    List{MaxIndent: 8},
		Logging: Logging{Level: "info"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(ListMaxIndent, d.List.MaxIndent)
	v.SetDefault(LoggingLevel, d.Logging.Level)
	v.SetDefault(LoggingDevelopment, d.Logging.Development)
}

// Load reads the configuration. The file is optional: when path is empty, a
// "listedit" file is looked up in the working directory, and its absence is
// not an error. Environment variables such as LISTEDIT_LIST_MAXINDENT
// override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("listedit")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("listedit")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return decode(v)
}

// Parse reads the configuration from a JSON document.
func Parse(jsonStr string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("json")
	if err := v.ReadConfig(strings.NewReader(jsonStr)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		List: List{MaxIndent: v.GetInt(ListMaxIndent)},
		Logging: Logging{
			Level:       v.GetString(LoggingLevel),
			Development: v.GetBool(LoggingDevelopment),
		},
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
