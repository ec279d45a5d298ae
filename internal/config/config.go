package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path       string
	Migrations string
}

// ImportConfig holds settings for the import pipeline.
type ImportConfig struct {
	// UploadDir receives spool copies of files being imported.
	UploadDir string `mapstructure:"upload_dir"`
	// Timezone is used to interpret dates that carry no offset.
	Timezone string
	// HeaderAliases maps extra normalized headers to canonical field names.
	HeaderAliases map[string]string `mapstructure:"header_aliases"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from file and env. Env var overrides use prefix PAYRECON_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "payrecon")

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir, "payrecon.db"))
	v.SetDefault("database.migrations", "internal/database/migrations")
	v.SetDefault("import.upload_dir", filepath.Join(dataDir, "uploads"))
	v.SetDefault("import.timezone", "UTC")
	v.SetDefault("import.header_aliases", map[string]string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PAYRECON_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "payrecon"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PAYRECON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// an explicit file must exist; the default location is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
