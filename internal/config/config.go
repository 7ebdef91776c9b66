package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"

	InterfaceAuto = "auto"
	InterfaceTUI  = "tui"
	InterfaceMenu = "menu"
)

// Config is the on-disk configuration in config.yaml.
type Config struct {
	Backend   string `yaml:"backend"`
	DBPath    string `yaml:"db_path,omitempty"`
	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file,omitempty"`
	Interface string `yaml:"interface"`

	dir string // directory holding config.yaml
}

func Default() Config {
	return Config{
		Backend:   BackendSQLite,
		LogLevel:  "info",
		Interface: InterfaceAuto,
	}
}

// Dir returns ~/.config/habitr
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "habitr"), nil
}

// DefaultPath returns ~/.config/habitr/config.yaml
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path, creating it with defaults on first run.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return Config{}, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendBadger:
	default:
		return fmt.Errorf("backend: unknown value %q (want sqlite or badger)", c.Backend)
	}
	switch c.Interface {
	case InterfaceAuto, InterfaceTUI, InterfaceMenu:
	default:
		return fmt.Errorf("interface: unknown value %q (want auto, tui or menu)", c.Interface)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ResolvedDBPath returns the database location, defaulting next to the config file.
func (c Config) ResolvedDBPath() string {
	if c.DBPath != "" {
		return expandHome(c.DBPath)
	}
	if c.Backend == BackendBadger {
		return filepath.Join(c.dir, "badger")
	}
	return filepath.Join(c.dir, "habitr.db")
}

func (c Config) ResolvedLogFile() string {
	if c.LogFile != "" {
		return expandHome(c.LogFile)
	}
	return filepath.Join(c.dir, "habitr.log")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("log_level: unknown value %q", s)
	}
	return l, nil
}

// OpenLogger returns a text logger writing to the configured log file.
// The terminal is left to the menu and TUI.
func (c Config) OpenLogger() (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	path := c.ResolvedLogFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, f, nil
}
