package config

import (
	"log/slog"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type AppConfig struct {
	// SessionLimit bounds a single due-retrieval batch.
	SessionLimit int `mapstructure:"session_limit"`
	// AdaptiveTarget is the practice queue size the adaptive builder fills
	// toward with weak-concept reinforcement.
	AdaptiveTarget int `mapstructure:"adaptive_target"`
	// DailyGoal seeds the default profile's settings.
	DailyGoal int `mapstructure:"daily_goal"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	App      AppConfig      `mapstructure:"app"`
}

// Load reads config.yaml from the given path (and the working directory),
// layering POCKET_STUDY_* environment variables on top. Missing files fall
// back to defaults.
func Load(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("POCKET_STUDY")
	viper.AutomaticEnv()
	viper.BindEnv("server.port", "POCKET_STUDY_PORT")
	viper.BindEnv("database.url", "POCKET_STUDY_DATABASE_URL")
	viper.BindEnv("log.level", "POCKET_STUDY_LOG_LEVEL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = DefaultDatabaseURL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.App.SessionLimit <= 0 {
		cfg.App.SessionLimit = DefaultSessionLimit
	}
	if cfg.App.AdaptiveTarget <= 0 {
		cfg.App.AdaptiveTarget = DefaultAdaptiveTarget
	}
	if cfg.App.DailyGoal <= 0 {
		cfg.App.DailyGoal = DefaultDailyGoal
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Accept", "Content-Type"}
	}

	return &cfg, nil
}
