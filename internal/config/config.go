// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddr string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string

	RecommenderURL     string
	RecommenderTimeout time.Duration

	JWTSecret string

	CommentMinLen int
	CommentMaxLen int

	// ReactionWindow bounds reaction/follow state changes per user per
	// target at the HTTP boundary.
	ReactionWindow time.Duration
	FeedLimit      int

	LogDir string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASS", "")
	v.SetDefault("DB_NAME", "pulsefeed")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASS", "")
	v.SetDefault("RECOMMENDER_URL", "http://localhost:9100")
	v.SetDefault("RECOMMENDER_TIMEOUT", "2s")
	v.SetDefault("COMMENT_MIN_LEN", 2)
	v.SetDefault("COMMENT_MAX_LEN", 1000)
	v.SetDefault("REACTION_WINDOW", "24h")
	v.SetDefault("FEED_LIMIT", 10)
	v.SetDefault("LOG_DIR", "./logs")

	cfg := &Config{
		ServerAddr:         v.GetString("SERVER_ADDR"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetInt("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASS"),
		DBName:             v.GetString("DB_NAME"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASS"),
		RecommenderURL:     v.GetString("RECOMMENDER_URL"),
		RecommenderTimeout: v.GetDuration("RECOMMENDER_TIMEOUT"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		CommentMinLen:      v.GetInt("COMMENT_MIN_LEN"),
		CommentMaxLen:      v.GetInt("COMMENT_MAX_LEN"),
		ReactionWindow:     v.GetDuration("REACTION_WINDOW"),
		FeedLimit:          v.GetInt("FEED_LIMIT"),
		LogDir:             v.GetString("LOG_DIR"),
	}

	if cfg.CommentMinLen < 1 || cfg.CommentMaxLen < cfg.CommentMinLen {
		return nil, fmt.Errorf("invalid comment length policy: min=%d max=%d", cfg.CommentMinLen, cfg.CommentMaxLen)
	}

	return cfg, nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}
