package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`

	// CORSOrigins is a comma separated allow-list. "*" allows every origin.
	CORSOrigins   string `mapstructure:"cors_origins"`
	SecureCookies bool   `mapstructure:"secure_cookies"`
}

// AllowedOrigins splits CORSOrigins into a clean list.
func (s ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(s.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // mongo or memory
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled is false when no bucket is configured; video uploads are then rejected.
func (s S3Config) Enabled() bool {
	return s.BucketName != ""
}

type JWTConfig struct {
	Secret                string        `mapstructure:"secret"`
	Issuer                string        `mapstructure:"issuer"`
	AccessExpiration      time.Duration `mapstructure:"access_expiration"`
	RefreshExpirationDays int           `mapstructure:"refresh_expiration_days"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"` // empty disables rate limiting
	Password string `mapstructure:"password"`
}

type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	AuthPerMinute  int  `mapstructure:"auth_per_minute"`
	WritePerMinute int  `mapstructure:"write_per_minute"`
	ReadPerMinute  int  `mapstructure:"read_per_minute"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	JSON   bool   `mapstructure:"json"`
	File   string `mapstructure:"file"` // empty means no log file
	Stdout bool   `mapstructure:"stdout"`
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

type CacheConfig struct {
	ExerciseSizeMB     int `mapstructure:"exercise_size_mb"`
	ExerciseTTLSeconds int `mapstructure:"exercise_ttl_seconds"`
}

// LoadConfig reads configuration from an optional .env file, a config.yaml in path
// and environment variables, in increasing order of precedence.
func LoadConfig(path string) (config Config, err error) {
	if err := godotenv.Load(); err == nil {
		log.Debugln("loaded environment from .env")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Debugln("config file not found, using defaults and environment")
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"server.address":              ":8080",
		"server.cors_origins":         "http://localhost:3000",
		"server.secure_cookies":       true,
		"database.driver":             DriverMongo,
		"database.uri":                "mongodb://localhost:27017",
		"database.name":               "fitcoach",
		"s3.endpoint":                 "",
		"s3.region":                   "us-east-1",
		"s3.access_key_id":            "",
		"s3.secret_access_key":        "",
		"s3.bucket_name":              "",
		"s3.use_ssl":                  true,
		"jwt.secret":                  "",
		"jwt.issuer":                  "fitcoach",
		"jwt.access_expiration":       "192h",
		"jwt.refresh_expiration_days": 7,
		"redis.address":               "",
		"redis.password":              "",
		"ratelimit.enabled":           true,
		"ratelimit.auth_per_minute":   5,
		"ratelimit.write_per_minute":  10,
		"ratelimit.read_per_minute":   100,
		"log.level":                   "info",
		"log.json":                    false,
		"log.file":                    "",
		"log.stdout":                  true,
		"sentry.dsn":                  "",
		"sentry.environment":          "development",
		"cache.exercise_size_mb":      8,
		"cache.exercise_ttl_seconds":  600,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var err error
	if c.JWT.Secret == "" {
		err = multierr.Append(err, errors.New("jwt.secret must be set"))
	}
	if c.JWT.AccessExpiration <= 0 {
		err = multierr.Append(err, errors.New("jwt.access_expiration must be positive"))
	}
	if c.JWT.RefreshExpirationDays <= 0 {
		err = multierr.Append(err, errors.New("jwt.refresh_expiration_days must be positive"))
	}
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.URI == "" || c.Database.Name == "" {
			err = multierr.Append(err, errors.New("database.uri and database.name are required for the mongo driver"))
		}
	case DriverMemory:
	default:
		err = multierr.Append(err, fmt.Errorf("database.driver %q is not one of mongo, memory", c.Database.Driver))
	}
	if c.RateLimit.Enabled && (c.RateLimit.AuthPerMinute <= 0 || c.RateLimit.WritePerMinute <= 0 || c.RateLimit.ReadPerMinute <= 0) {
		err = multierr.Append(err, errors.New("ratelimit limits must be positive"))
	}
	return err
}
