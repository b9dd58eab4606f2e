package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Embed    EmbedConfig    `mapstructure:"embed"`
	Proxy    ProxyConfig    `mapstructure:"proxy"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port    int           `mapstructure:"port"`
	Mode    string        `mapstructure:"mode"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	// Driver selects the backing store: "sqlite" (default) or "postgres".
	Driver string `mapstructure:"driver"`
	// Path is the sqlite database file, used when Driver is "sqlite".
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	// Addr enables the redis-backed session store when non-empty.
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// PasswordHash, when set, takes precedence over Password and is
	// verified with bcrypt.
	PasswordHash  string        `mapstructure:"password_hash"`
	SessionExpiry time.Duration `mapstructure:"session_expiry"`
}

type EmbedConfig struct {
	// AllowedFrameParents feeds the frame-ancestors CSP directive.
	AllowedFrameParents string `mapstructure:"allowed_frame_parents"`
	// PublicBaseURL, when set, overrides forwarded-header base URL
	// resolution for generated scripts and snippets.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type ProxyConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type StorageConfig struct {
	UploadsDir string `mapstructure:"uploads_dir"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads the yaml config file (optional) and applies
// environment overrides. An empty configPath searches the working
// directory; a missing file is not an error since every setting has a
// default or env form.
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	if envConfigFile := os.Getenv("CONFIG_FILE"); envConfigFile != "" {
		configPath = envConfigFile
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		dir := filepath.Dir(configPath)
		file := filepath.Base(configPath)
		ext := filepath.Ext(file)
		name := strings.TrimSuffix(file, ext)

		v.AddConfigPath(dir)
		v.SetConfigName(name)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./pkg/config")
		v.SetConfigName("config")
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "production")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "/data/calhub.db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "changeme")
	v.SetDefault("admin.session_expiry", 12*time.Hour)
	v.SetDefault("embed.allowed_frame_parents", "*")
	v.SetDefault("proxy.timeout", 20*time.Second)
	v.SetDefault("proxy.user_agent", "CalendarHub")
	v.SetDefault("storage.uploads_dir", "/data/uploads")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; only a malformed file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error loading config file: %v", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envVars := map[string]string{
		"server.port":                 "PORT",
		"server.mode":                 "SERVER_MODE",
		"server.timeout":              "SERVER_TIMEOUT",
		"database.driver":             "DB_DRIVER",
		"database.path":               "CALHUB_DB_PATH",
		"database.host":               "DB_HOST",
		"database.port":               "DB_PORT",
		"database.user":               "DB_USER",
		"database.password":           "DB_PASSWORD",
		"database.name":               "DB_NAME",
		"database.sslmode":            "DB_SSLMODE",
		"redis.addr":                  "REDIS_ADDR",
		"redis.password":              "REDIS_PASSWORD",
		"redis.db":                    "REDIS_DB",
		"admin.username":              "ADMIN_USERNAME",
		"admin.password":              "ADMIN_PASSWORD",
		"admin.password_hash":         "ADMIN_PASSWORD_HASH",
		"admin.session_expiry":        "ADMIN_SESSION_EXPIRY",
		"embed.allowed_frame_parents": "ALLOWED_FRAME_PARENTS",
		"embed.public_base_url":       "PUBLIC_BASE_URL",
		"proxy.timeout":               "PROXY_TIMEOUT",
		"proxy.user_agent":            "PROXY_USER_AGENT",
		"storage.uploads_dir":         "UPLOADS_DIR",
		"logging.level":               "LOG_LEVEL",
		"logging.format":              "LOG_FORMAT",
	}

	for configKey, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			switch envVar {
			case "PORT", "DB_PORT", "REDIS_DB":
				if intVal, err := strconv.Atoi(value); err == nil {
					v.Set(configKey, intVal)
				}
			case "SERVER_TIMEOUT", "PROXY_TIMEOUT", "ADMIN_SESSION_EXPIRY":
				if d, err := time.ParseDuration(value); err == nil {
					v.Set(configKey, d)
				}
			default:
				v.Set(configKey, value)
			}
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	return &config, nil
}
