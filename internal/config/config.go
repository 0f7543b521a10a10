package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/sbuxpartner/sbuxpartners/internal/parser"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	OCR      OCRConfig      `toml:"ocr"`
	Parser   parser.Options `toml:"parser"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Port       int    `toml:"port"`
	StaticPath string `toml:"static_path"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type OCRConfig struct {
	Enabled       bool     `toml:"enabled"`
	Languages     []string `toml:"languages"`
	MaxImageBytes int64    `toml:"max_image_bytes"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:       8080,
			StaticPath: "./static",
		},
		Database: DatabaseConfig{
			Path: "./data/tips.db",
		},
		OCR: OCRConfig{
			Enabled:       true,
			Languages:     []string{"eng"},
			MaxImageBytes: 10 << 20,
		},
		Parser: parser.DefaultOptions(),
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (or
// $SBUX_CONFIG when path is empty), a .env file in the working directory,
// and finally environment variables. A missing config or .env file is not an
// error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("SBUX_CONFIG")
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if len(data) > 0 {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SBUX_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SBUX_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("SBUX_STATIC_PATH"); v != "" {
		cfg.Server.StaticPath = v
	}
	if v := os.Getenv("SBUX_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SBUX_OCR_LANGUAGES"); v != "" {
		cfg.OCR.Languages = strings.Split(v, "+")
	}
	if v := os.Getenv("SBUX_OCR_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SBUX_OCR_ENABLED %q: %w", v, err)
		}
		cfg.OCR.Enabled = enabled
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}
