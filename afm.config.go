package afm

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the interpreter's operational configuration, loaded from an
// optional YAML file and overridden by AFM_-prefixed environment variables
// (AFM_LOG_LEVEL maps to log.level).
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Storage StorageConfig `koanf:"storage"`
	Webhook WebhookConfig `koanf:"webhook"`
	Runner  RunnerConfig  `koanf:"runner"`

	// Variables are config-supplied values for ${NAME} document expressions,
	// taking precedence over the process environment.
	Variables map[string]string `koanf:"variables"`
}

// LogConfig controls the zap logger built by NewLogger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, console
}

// StorageConfig selects the agent storage backend.
type StorageConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

// WebhookConfig controls inbound event handling.
type WebhookConfig struct {
	VerifySignatures bool `koanf:"verify_signatures"`
	LeaseSeconds     int  `koanf:"lease_seconds"`
}

// RunnerConfig selects the agent runner backend.
type RunnerConfig struct {
	Name string `koanf:"name"`
}

// LoadConfig loads configuration from the given YAML file (empty path skips
// the file layer) and the AFM_ environment.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(ConfigKeyDelim)

	// Defaults
	k.Set("log.level", DefaultLogLevel)
	k.Set("log.format", DefaultLogFormat)
	k.Set("storage.driver", DefaultStorageDrv)
	k.Set("webhook.verify_signatures", true)
	k.Set("webhook.lease_seconds", WebSubDefaultLease)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(ConfigEnvPrefix, ConfigKeyDelim, envKeyToConfigKey), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKeyToConfigKey maps AFM_SECTION_SOME_KEY to "section.some_key". Only the
// first underscore separates the section from the key, so multi-word keys
// like webhook.verify_signatures stay addressable from the environment.
func envKeyToConfigKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, ConfigEnvPrefix))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return key
	}
	return section + ConfigKeyDelim + rest
}

// Lookup returns the variable lookup for document loading: configured
// variables first, then the process environment.
func (c *Config) Lookup() Lookup {
	return LookupFunc(func(name string) (string, bool) {
		if v, ok := c.Variables[name]; ok && v != "" {
			return v, true
		}
		return os.LookupEnv(name)
	})
}

// NewLogger builds a zap logger from the log configuration.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Format == LogFormatConsole {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
