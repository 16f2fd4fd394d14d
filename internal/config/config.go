package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr             string
	BackendBaseURL       string
	BackendTimeout       time.Duration
	RedisAddr            string
	RedisPassword        string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	JWTPublicKey         string
	JWTIssuer            string
	LogLevel             string
	LogFormat            string
}

// Load reads the configuration from the environment. A .env file (or the file named
// by ENV_FILE) is loaded first when present; variables already set win over it.
func Load() Config {
	loadDotEnv()

	v := viper.New()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("BACKEND_BASE_URL", "http://127.0.0.1:3000/api")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.AutomaticEnv()

	return Config{
		HTTPAddr:             v.GetString("HTTP_ADDR"),
		BackendBaseURL:       v.GetString("BACKEND_BASE_URL"),
		BackendTimeout:       getDuration(v, "BACKEND_TIMEOUT", 10*time.Second),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		SessionTTL:           getDuration(v, "SESSION_TTL", 2*time.Hour),
		SessionSweepInterval: getDuration(v, "SESSION_SWEEP_INTERVAL", time.Minute),
		JWTPublicKey:         strings.ReplaceAll(v.GetString("JWT_PUBLIC_KEY"), `\n`, "\n"),
		JWTIssuer:            v.GetString("JWT_ISSUER"),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:            strings.ToLower(v.GetString("LOG_FORMAT")),
	}
}

func loadDotEnv() {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: stat %s: %v", path, err)
		}
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("config: load %s: %v", path, err)
	}
}

// getDuration accepts a Go duration string under key, or whole seconds under
// key_SECONDS.
func getDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if val := v.GetString(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := v.GetString(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
