// Package config loads client configuration from a YAML file, a .env file,
// XMREST_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/xmrest/internal/constants"
	"github.com/fivetwenty-io/xmrest/internal/logging"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// Configuration keys.
const (
	KeyBaseURL         = "base_url"
	KeyAPIVersion      = "api_version"
	KeyAuthHeaderName  = "auth_header_name"
	KeyAuthHeaderValue = "auth_header_value"
	KeyPageParameter   = "page_parameter"
	KeyTimeout         = "timeout"
	KeyRetryMax        = "retry_max"
	KeyRetryWaitMin    = "retry_wait_min"
	KeyRetryWaitMax    = "retry_wait_max"
	KeyConcurrency     = "concurrency"
	KeyUserAgent       = "user_agent"
	KeyHeaders         = "headers"
	KeyDebug           = "debug"
	KeyOutput          = "output"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyLogNoColor      = "log.no_color"
)

var validOutputs = []string{constants.FormatTable, constants.FormatJSON, constants.FormatYAML}

// Config is the loaded configuration.
type Config struct {
	BaseURL         string            `json:"base_url" mapstructure:"base_url" yaml:"base_url"`
	APIVersion      int               `json:"api_version" mapstructure:"api_version" yaml:"api_version"`
	AuthHeaderName  string            `json:"auth_header_name" mapstructure:"auth_header_name" yaml:"auth_header_name"`
	AuthHeaderValue string            `json:"auth_header_value,omitempty" mapstructure:"auth_header_value" yaml:"auth_header_value,omitempty"`
	PageParameter   string            `json:"page_parameter" mapstructure:"page_parameter" yaml:"page_parameter"`
	Timeout         time.Duration     `json:"timeout" mapstructure:"timeout" yaml:"timeout"`
	RetryMax        int               `json:"retry_max" mapstructure:"retry_max" yaml:"retry_max"`
	RetryWaitMin    time.Duration     `json:"retry_wait_min" mapstructure:"retry_wait_min" yaml:"retry_wait_min"`
	RetryWaitMax    time.Duration     `json:"retry_wait_max" mapstructure:"retry_wait_max" yaml:"retry_wait_max"`
	Concurrency     int               `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency"`
	UserAgent       string            `json:"user_agent" mapstructure:"user_agent" yaml:"user_agent"`
	Headers         map[string]string `json:"headers,omitempty" mapstructure:"headers" yaml:"headers,omitempty"`
	Debug           bool              `json:"debug" mapstructure:"debug" yaml:"debug"`
	Output          string            `json:"output" mapstructure:"output" yaml:"output"`
	Log             logging.Options   `json:"log" mapstructure:"log" yaml:"log"`
}

// Settings returns the backend settings described by c.
func (c *Config) Settings() *xmrest.Settings {
	return &xmrest.Settings{
		BaseURL:         c.BaseURL,
		APIVersion:      c.APIVersion,
		AuthHeaderName:  c.AuthHeaderName,
		AuthHeaderValue: c.AuthHeaderValue,
		PageParameter:   c.PageParameter,
	}
}

// ClientConfig returns the xmrest.Config described by c. logger may be nil.
func (c *Config) ClientConfig(logger xmrest.Logger) *xmrest.Config {
	return &xmrest.Config{
		Settings:     c.Settings(),
		Timeout:      c.Timeout,
		RetryMax:     c.RetryMax,
		RetryWaitMin: c.RetryWaitMin,
		RetryWaitMax: c.RetryWaitMax,
		Debug:        c.Debug,
		Logger:       logger,
		UserAgent:    c.UserAgent,
		Headers:      c.Headers,
		Concurrency:  c.Concurrency,
	}
}

// Validate checks settings, limits, output format and logging options.
func (c *Config) Validate() error {
	err := c.Settings().Validate()
	if err != nil {
		return fmt.Errorf("validating settings: %w", err)
	}

	if c.Timeout < 0 {
		return constants.ErrNegativeTimeout
	}

	if c.RetryMax < 0 {
		return constants.ErrNegativeRetryMax
	}

	if c.Concurrency < 0 {
		return constants.ErrNegativeConcurrent
	}

	if !slices.Contains(validOutputs, c.Output) {
		return fmt.Errorf("%w: must be one of %v (got: %s)", constants.ErrInvalidOutput, validOutputs, c.Output)
	}

	err = c.Log.Validate()
	if err != nil {
		return fmt.Errorf("validating log options: %w", err)
	}

	return nil
}

// SetDefaults registers every key with its default so environment variables
// are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, xmrest.DefaultBaseURL)
	v.SetDefault(KeyAPIVersion, xmrest.DefaultAPIVersion)
	v.SetDefault(KeyAuthHeaderName, xmrest.DefaultAuthHeaderName)
	v.SetDefault(KeyAuthHeaderValue, "")
	v.SetDefault(KeyPageParameter, xmrest.DefaultPageParameter)
	v.SetDefault(KeyTimeout, constants.DefaultRequestTimeout)
	v.SetDefault(KeyRetryMax, constants.DefaultRetryMax)
	v.SetDefault(KeyRetryWaitMin, constants.DefaultRetryWaitMin)
	v.SetDefault(KeyRetryWaitMax, constants.DefaultRetryWaitMax)
	v.SetDefault(KeyConcurrency, 0)
	v.SetDefault(KeyUserAgent, constants.DefaultUserAgent)
	v.SetDefault(KeyHeaders, map[string]string{})
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyOutput, constants.FormatTable)
	v.SetDefault(KeyLogLevel, constants.DefaultLogLevel)
	v.SetDefault(KeyLogFormat, constants.DefaultLogFormat)
	v.SetDefault(KeyLogNoColor, false)
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	viper      *viper.Viper
	configFile string
	configDir  string
	envFile    string
}

// WithViper loads through v, typically one with command-line flags bound.
func WithViper(v *viper.Viper) Option {
	return func(l *loader) {
		l.viper = v
	}
}

// WithConfigFile reads path instead of searching for config.yml.
func WithConfigFile(path string) Option {
	return func(l *loader) {
		l.configFile = path
	}
}

// WithConfigDir searches config.yml in dir instead of $HOME/.xmrest.
func WithConfigDir(dir string) Option {
	return func(l *loader) {
		l.configDir = dir
	}
}

// WithEnvFile loads path instead of ./.env.
func WithEnvFile(path string) Option {
	return func(l *loader) {
		l.envFile = path
	}
}

// Load resolves the configuration. Precedence, highest first: bound flags,
// XMREST_* environment (including variables from the .env file), the config
// file, defaults. A missing config or .env file is not an error.
func Load(opts ...Option) (*Config, error) {
	l := &loader{envFile: constants.DotEnvFile}
	for _, opt := range opts {
		opt(l)
	}

	if l.viper == nil {
		l.viper = viper.New()
	}

	err := loadEnvFile(l.envFile)
	if err != nil {
		return nil, err
	}

	v := l.viper
	SetDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	err = l.readConfigFile()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrConfigDecode, err)
	}

	cfg.Log.ApplyDefaults()

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	err = godotenv.Load(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	return nil
}

func (l *loader) readConfigFile() error {
	v := l.viper

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		dir := l.configDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil
			}

			dir = filepath.Join(home, constants.ConfigDirName)
		}

		v.AddConfigPath(dir)
		v.SetConfigName(constants.ConfigFileName)
		v.SetConfigType(constants.ConfigFileType)
	}

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}

	if l.configFile == "" && errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("%w: %w", constants.ErrConfigFileRead, err)
}

// DefaultConfigPath returns $HOME/.xmrest/config.yml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+"."+constants.ConfigFileType), nil
}
