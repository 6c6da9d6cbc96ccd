package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Action ordering modes for the schedule normalizer.
const (
	ActionOrderDay  = "day"
	ActionOrderDate = "date"
)

// DefaultChallengeURL is the upstream challenge endpoint used when none is configured.
const DefaultChallengeURL = "https://xjvq5wtiye.execute-api.us-east-1.amazonaws.com/interview/api/v1/challenge"

type Config struct {
	Env       string `validate:"required,oneof=development production test"`
	Port      int    `validate:"min=1,max=65535"`
	APIPrefix string

	Log       LogConfig
	CORS      CORSConfig
	Challenge ChallengeConfig
	Schedule  ScheduleConfig
	Export    ExportConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ChallengeConfig describes the upstream challenge API.
type ChallengeConfig struct {
	URL string `validate:"required,url"`
	// Timeout of zero leaves the upstream request unbounded.
	Timeout time.Duration `validate:"min=0"`
}

// ScheduleConfig tunes the normalizer.
type ScheduleConfig struct {
	ActionOrder string `validate:"oneof=day date"`
}

// ExportConfig controls CSV/PDF exports of the schedule.
type ExportConfig struct {
	Title string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := fromViper(v)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Challenge = ChallengeConfig{
		URL:     v.GetString("CHALLENGE_API_URL"),
		Timeout: parseDuration(v.GetString("CHALLENGE_API_TIMEOUT"), 0),
	}

	cfg.Schedule = ScheduleConfig{
		ActionOrder: strings.ToLower(strings.TrimSpace(v.GetString("SCHEDULE_ACTION_ORDER"))),
	}

	cfg.Export = ExportConfig{
		Title: v.GetString("EXPORT_TITLE"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CHALLENGE_API_URL", DefaultChallengeURL)
	v.SetDefault("CHALLENGE_API_TIMEOUT", "0s")
	v.SetDefault("SCHEDULE_ACTION_ORDER", ActionOrderDay)
	v.SetDefault("EXPORT_TITLE", "Maintenance schedule")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
