package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Generation   Generation
	GeminiApiKey string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Generation holds tuning knobs for the Gemini-backed question generator.
type Generation struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MinInterval    time.Duration
	RequestTimeout time.Duration
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GENERATION_MAX_RETRIES", 3)
	viper.SetDefault("GENERATION_INITIAL_BACKOFF_MS", 500)
	viper.SetDefault("GENERATION_MIN_INTERVAL_MS", 200)
	viper.SetDefault("GENERATION_REQUEST_TIMEOUT_MS", 30000)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	config.Generation.MaxRetries = viper.GetInt("GENERATION_MAX_RETRIES")
	config.Generation.InitialBackoff = time.Duration(viper.GetInt("GENERATION_INITIAL_BACKOFF_MS")) * time.Millisecond
	config.Generation.MinInterval = time.Duration(viper.GetInt("GENERATION_MIN_INTERVAL_MS")) * time.Millisecond
	config.Generation.RequestTimeout = time.Duration(viper.GetInt("GENERATION_REQUEST_TIMEOUT_MS")) * time.Millisecond

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
