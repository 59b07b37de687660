package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	AppConfig struct {
		Name        string        `mapstructure:"name"`
		Version     string        `mapstructure:"version"`
		Port        int           `mapstructure:"port"`
		Environment string        `mapstructure:"environment"`
		PathPrefix  string        `mapstructure:"path_prefix"` // Optional, can be used to set a base path for the application
		Timeout     time.Duration `mapstructure:"timeout"`
	}

	LoggerConfig struct {
		Level       string `mapstructure:"level"`
		Format      string `mapstructure:"format"`
		FilePath    string `mapstructure:"filepath"`
		MaxSize     int    `mapstructure:"max_size"`
		MaxAge      int    `mapstructure:"max_age"`
		MaxBackups  int    `mapstructure:"max_backups"`
		Compress    bool   `mapstructure:"compress"`
		LocalTime   bool   `mapstructure:"localTime"`
		Environment string
	}

	PostgresConfig struct {
		Host              string `mapstructure:"host"`
		Port              int    `mapstructure:"port"`
		Username          string `mapstructure:"username"`
		Password          string `mapstructure:"password"`
		Database          string `mapstructure:"database"`
		SSLMode           string `mapstructure:"sslmode"`
		ConnectTimeout    int    `mapstructure:"connect_timeout"`
		MaxConns          int32  `mapstructure:"max_conns"`
		MinConns          int32  `mapstructure:"min_conns"`
		ConnMaxLifetime   int    `mapstructure:"conn_max_lifetime"`
		ConnMaxIdleTime   int    `mapstructure:"conn_max_idle_time"`
		HealthCheckPeriod int    `mapstructure:"health_check_period"`
	}

	RedisConfig struct {
		Enabled    bool   `mapstructure:"enabled"`
		Type       string `mapstructure:"type"`
		Addrs      string `mapstructure:"addrs"`
		MasterName string `mapstructure:"master_name"`
		Password   string `mapstructure:"password"`
		DB         int    `mapstructure:"db"`
	}

	CORSConfig struct {
		Enabled          bool     `mapstructure:"enabled"`
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	}

	MetricsConfig struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	}

	AuthConfig struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
		// VerifyURL and ResetURL are frontend links; the token is appended as ?token=.
		VerifyURL string        `mapstructure:"verify_url"`
		ResetURL  string        `mapstructure:"reset_url"`
		ResetTTL  time.Duration `mapstructure:"reset_ttl"`
	}

	UploadConfig struct {
		Dir       string `mapstructure:"dir"`
		MaxSizeMB int64  `mapstructure:"max_size_mb"`
	}
)

type Env struct {
	AppConfig      AppConfig      `mapstructure:"app"`
	LoggerConfig   LoggerConfig   `mapstructure:"logging"`
	PostgresConfig PostgresConfig `mapstructure:"postgres"`
	RedisConfig    RedisConfig    `mapstructure:"redis"`
	CORSConfig     CORSConfig     `mapstructure:"cors"`
	MetricsConfig  MetricsConfig  `mapstructure:"metrics"`
	AuthConfig     AuthConfig     `mapstructure:"auth"`
	UploadConfig   UploadConfig   `mapstructure:"upload"`
}

// EnvPrefix is prepended to every environment override, e.g. CAMPUS_AUTH_JWT_SECRET.
const EnvPrefix = "campus"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "campus-connect-api")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.path_prefix", "/api")
	v.SetDefault("app.timeout", "30s")

	v.SetDefault("logging.level", "debug")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.filepath", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.max_backups", 3)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.username", "campus")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "campus_connect")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.connect_timeout", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.type", "NORMAL")
	v.SetDefault("redis.addrs", "localhost:6379")
	v.SetDefault("redis.master_name", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization"})
	v.SetDefault("cors.exposed_headers", []string{"Content-Length", "ETag"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 43200)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.verify_url", "http://localhost:3000/verify-email")
	v.SetDefault("auth.reset_url", "http://localhost:3000/reset-password")
	v.SetDefault("auth.reset_ttl", "1h")

	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.max_size_mb", 10)
}

// Load reads config.yaml from the given directories (./config when none are
// given) and applies CAMPUS_* environment overrides. A missing config file is
// not an error; defaults and environment still apply.
func Load(paths ...string) (*Env, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var out Env
	if err := v.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	out.LoggerConfig.Environment = out.AppConfig.Environment
	if out.AppConfig.Environment == "production" {
		out.LoggerConfig.Level = "info" // Default to info level in production
	}

	return &out, nil
}

// PrintStartupConfig writes a short banner with the non-secret settings.
func PrintStartupConfig(w io.Writer, env *Env) {
	line := strings.Repeat("=", 40)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "Campus Connect API")
	fmt.Fprintln(w, line)

	fmt.Fprintf(w, "%-15s: %s\n", "App Name", env.AppConfig.Name)
	fmt.Fprintf(w, "%-15s: %s\n", "Version", env.AppConfig.Version)
	fmt.Fprintf(w, "%-15s: %s\n", "Environment", env.AppConfig.Environment)
	fmt.Fprintf(w, "%-15s: %d\n", "Port", env.AppConfig.Port)
	fmt.Fprintf(w, "%-15s: %s\n", "Log Level", env.LoggerConfig.Level)
	fmt.Fprintf(w, "%-15s: %t\n", "Redis", env.RedisConfig.Enabled)

	fmt.Fprintln(w, line)
}
