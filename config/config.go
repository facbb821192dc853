package config

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/health-assistant/internal/httpserver"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type KnowledgeBaseConfig struct {
	Dir            string  `mapstructure:"dir"`
	MatchThreshold float64 `mapstructure:"match_threshold"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type AIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
	Timeout     string  `mapstructure:"timeout"`
}

type TranslationConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Timeout  string `mapstructure:"timeout"`
}

type ClientConfig struct {
	Platform         string `mapstructure:"platform"`
	Timeout          string `mapstructure:"timeout"`
	HealthInterval   string `mapstructure:"health_interval"`
	BreakerThreshold int    `mapstructure:"breaker_threshold"`
	BreakerTimeout   string `mapstructure:"breaker_timeout"`
}

type MetricsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	KnowledgeBase KnowledgeBaseConfig `mapstructure:"knowledge_base"`
	CORS          CORSConfig          `mapstructure:"cors"`
	AI            AIConfig            `mapstructure:"ai"`
	Translation   TranslationConfig   `mapstructure:"translation"`
	Client        ClientConfig        `mapstructure:"client"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8000")
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("knowledge_base.dir", "")
	v.SetDefault("knowledge_base.match_threshold", 60)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 200)
	v.SetDefault("ai.temperature", 0.5)
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("translation.enabled", true)
	v.SetDefault("translation.endpoint", "")
	v.SetDefault("translation.timeout", "10s")
	v.SetDefault("client.platform", "")
	v.SetDefault("client.timeout", "30s")
	v.SetDefault("client.health_interval", "5s")
	v.SetDefault("client.breaker_threshold", 3)
	v.SetDefault("client.breaker_timeout", "10s")
	v.SetDefault("metrics.buffer_size", 1024)
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("ai.api_key", "AI_API_KEY", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(httpserver.ValidateAddr),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.KnowledgeBase,
			validation.By(func(value interface{}) error {
				kc, ok := value.(KnowledgeBaseConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a KnowledgeBaseConfig")
				}
				return validation.ValidateStruct(&kc,
					validation.Field(&kc.MatchThreshold, validation.Min(0.0), validation.Max(100.0)),
				)
			}),
		),
		validation.Field(&c.CORS,
			validation.By(func(value interface{}) error {
				cc, ok := value.(CORSConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a CORSConfig")
				}
				return validation.ValidateStruct(&cc,
					validation.Field(&cc.AllowedOrigins, validation.Each(validation.By(validateOrigin))),
				)
			}),
		),
		validation.Field(&c.AI,
			validation.By(func(value interface{}) error {
				ac, ok := value.(AIConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an AIConfig")
				}
				return validation.ValidateStruct(&ac,
					validation.Field(&ac.BaseURL, validation.By(validateServerURL)),
					validation.Field(&ac.Model, validation.Required),
					validation.Field(&ac.MaxTokens, validation.Required, validation.Min(1)),
					validation.Field(&ac.Temperature, validation.Min(float32(0)), validation.Max(float32(2))),
					validation.Field(&ac.Timeout, validation.Required, validation.By(validateDuration)),
				)
			}),
		),
		validation.Field(&c.Translation,
			validation.By(func(value interface{}) error {
				tc, ok := value.(TranslationConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a TranslationConfig")
				}
				return validation.ValidateStruct(&tc,
					validation.Field(&tc.Endpoint, validation.By(validateServerURL)),
					validation.Field(&tc.Timeout, validation.Required, validation.By(validateDuration)),
				)
			}),
		),
		validation.Field(&c.Client,
			validation.By(func(value interface{}) error {
				cc, ok := value.(ClientConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ClientConfig")
				}
				return validation.ValidateStruct(&cc,
					validation.Field(&cc.Timeout, validation.Required, validation.By(validateDuration)),
					validation.Field(&cc.HealthInterval, validation.Required, validation.By(validateDuration)),
					validation.Field(&cc.BreakerThreshold, validation.Required, validation.Min(1)),
					validation.Field(&cc.BreakerTimeout, validation.Required, validation.By(validateDuration)),
				)
			}),
		),
		validation.Field(&c.Metrics,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MetricsConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MetricsConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.BufferSize, validation.Required, validation.Min(1)),
				)
			}),
		),
	)
}

// Duration parses a duration field that Validate has already checked.
func Duration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}
	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be positive")
	}

	return nil
}

// validateServerURL accepts an empty string; the component then uses its
// built-in endpoint.
func validateServerURL(value interface{}) error {
	serverURL, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if serverURL == "" {
		return nil
	}

	parsedURL, err := url.Parse(serverURL)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}

// validateOrigin accepts "*" or scheme://host[:port]. Native shells use
// their own schemes (capacitor://localhost), so any scheme is allowed.
func validateOrigin(value interface{}) error {
	origin, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if origin == "*" {
		return nil
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return validation.NewError("validation_invalid_origin", "must be * or scheme://host[:port]")
	}

	if parsed.Path != "" && parsed.Path != "/" {
		return validation.NewError("validation_invalid_origin", "origin must not contain a path")
	}

	if parsed.Hostname() != "localhost" {
		if err := is.Host.Validate(parsed.Hostname()); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
