package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultListenAddr      = "127.0.0.1:5000"
	DefaultLogLevel        = "info"
	DefaultClickUpAPIURL   = "https://api.clickup.com/api/v2"
	DefaultClickUpTimeout  = 30 * time.Second
	DefaultFetchConcurrent = 4
	DefaultTableLimit      = 15
	DefaultAllTasksLimit   = 50

	DefaultLogMaxSizeMB  = 50
	DefaultLogMaxBackups = 5
	DefaultLogMaxAgeDays = 14

	configFileName           = ".taskchat.toml"
	configDirEnvKey          = "TASKCHAT_CONFIG_DIR"
	trustProjectConfigEnvKey = "TASKCHAT_TRUST_PROJECT_CONFIG"
)

// ClickUpConfig holds provider credentials and fetch tuning.
type ClickUpConfig struct {
	APIURL            string   `toml:"api_url"`
	AccessToken       string   `toml:"access_token"`
	SpaceID           string   `toml:"space_id"`
	Timeout           Duration `toml:"timeout"`
	FetchConcurrency  int      `toml:"fetch_concurrency"`
	IncludeClosed     bool     `toml:"include_closed"`
	IncludeFolderless bool     `toml:"include_folderless"`
}

// DisplayConfig bounds how many rows a chat table shows.
type DisplayConfig struct {
	TableLimit    int `toml:"table_limit"`
	AllTasksLimit int `toml:"all_tasks_limit"`
}

// LogFileConfig controls rotation of the optional log file.
type LogFileConfig struct {
	MaxSizeMB  int  `toml:"max_size_mb"`
	MaxBackups int  `toml:"max_backups"`
	MaxAgeDays int  `toml:"max_age_days"`
	Compress   bool `toml:"compress"`
}

// Config defines runtime configuration for taskchat.
type Config struct {
	ListenAddr               string        `toml:"listen_addr"`
	LogLevel                 string        `toml:"log_level"`
	LogFile                  string        `toml:"log_file"`
	LogRotation              LogFileConfig `toml:"log_rotation"`
	SnapshotDB               string        `toml:"snapshot_db"`
	VocabularyPath           string        `toml:"vocabulary_path"`
	ClickUp                  ClickUpConfig `toml:"clickup"`
	Display                  DisplayConfig `toml:"display"`
	TrustedProjectConfigPath string        `toml:"-"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		ListenAddr: DefaultListenAddr,
		LogLevel:   DefaultLogLevel,
		LogRotation: LogFileConfig{
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
			Compress:   true,
		},
		ClickUp: ClickUpConfig{
			APIURL:            DefaultClickUpAPIURL,
			Timeout:           Duration{DefaultClickUpTimeout},
			FetchConcurrency:  DefaultFetchConcurrent,
			IncludeFolderless: true,
		},
		Display: DisplayConfig{
			TableLimit:    DefaultTableLimit,
			AllTasksLimit: DefaultAllTasksLimit,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"listen_addr",
	"log_level",
	"log_file",
	"snapshot_db",
	"vocabulary_path",
	"clickup.api_url",
	"clickup.access_token",
	"clickup.space_id",
	"clickup.timeout",
	"clickup.fetch_concurrency",
	"clickup.include_closed",
	"clickup.include_folderless",
	"display.table_limit",
	"display.all_tasks_limit",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "listen_addr":
		return c.ListenAddr, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_file":
		return c.LogFile, nil
	case "snapshot_db":
		return c.SnapshotDB, nil
	case "vocabulary_path":
		return c.VocabularyPath, nil
	case "clickup.api_url":
		return c.ClickUp.APIURL, nil
	case "clickup.access_token":
		return maskSecret(c.ClickUp.AccessToken), nil
	case "clickup.space_id":
		return c.ClickUp.SpaceID, nil
	case "clickup.timeout":
		return c.ClickUp.Timeout.String(), nil
	case "clickup.fetch_concurrency":
		return strconv.Itoa(c.ClickUp.FetchConcurrency), nil
	case "clickup.include_closed":
		return strconv.FormatBool(c.ClickUp.IncludeClosed), nil
	case "clickup.include_folderless":
		return strconv.FormatBool(c.ClickUp.IncludeFolderless), nil
	case "display.table_limit":
		return strconv.Itoa(c.Display.TableLimit), nil
	case "display.all_tasks_limit":
		return strconv.Itoa(c.Display.AllTasksLimit), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, configFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if token := strings.TrimSpace(os.Getenv("CLICKUP_ACCESS_TOKEN")); token != "" {
		c.ClickUp.AccessToken = token
	}
	if spaceID := strings.TrimSpace(os.Getenv("CLICKUP_SPACE_ID")); spaceID != "" {
		c.ClickUp.SpaceID = spaceID
	}
	if apiURL := strings.TrimSpace(os.Getenv("CLICKUP_API_URL")); apiURL != "" {
		c.ClickUp.APIURL = apiURL
	}
	if addr := strings.TrimSpace(os.Getenv("TASKCHAT_LISTEN_ADDR")); addr != "" {
		c.ListenAddr = addr
	}
	if level := strings.TrimSpace(os.Getenv("TASKCHAT_LOG_LEVEL")); level != "" {
		c.LogLevel = level
	}
	if logFile := strings.TrimSpace(os.Getenv("TASKCHAT_LOG_FILE")); logFile != "" {
		c.LogFile = logFile
	}
	if dbPath := strings.TrimSpace(os.Getenv("TASKCHAT_SNAPSHOT_DB")); dbPath != "" {
		c.SnapshotDB = dbPath
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		addr, err := withPort(c.ListenAddr, port)
		if err != nil {
			return err
		}
		c.ListenAddr = addr
	}
	return nil
}

// withPort replaces the port of addr, keeping its host.
func withPort(addr, port string) (string, error) {
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return "", fmt.Errorf("invalid PORT %q", port)
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, port), nil
}

// Validate reports missing provider settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ClickUp.AccessToken) == "" {
		return fmt.Errorf("clickup access token is required (set CLICKUP_ACCESS_TOKEN)")
	}
	if strings.TrimSpace(c.ClickUp.SpaceID) == "" {
		return fmt.Errorf("clickup space id is required (set CLICKUP_SPACE_ID)")
	}
	return nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "clickup.fetch_concurrency", "display.table_limit", "display.all_tasks_limit":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return int64(parsed), nil
	case "clickup.include_closed", "clickup.include_folderless":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false", key)
		}
		return parsed, nil
	case "clickup.timeout":
		if _, err := parseDuration(value); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return value, nil
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "warning", "error":
			return strings.ToLower(value), nil
		default:
			return nil, fmt.Errorf("invalid log_level %q", value)
		}
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration %q", value)
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "****" + value[len(value)-4:]
}

func (c *Config) normalize() {
	c.ClickUp.APIURL = strings.TrimRight(strings.TrimSpace(c.ClickUp.APIURL), "/")
	if c.ClickUp.APIURL == "" {
		c.ClickUp.APIURL = DefaultClickUpAPIURL
	}
	if c.ClickUp.Timeout.Duration <= 0 {
		c.ClickUp.Timeout = Duration{DefaultClickUpTimeout}
	}
	if c.ClickUp.FetchConcurrency <= 0 {
		c.ClickUp.FetchConcurrency = DefaultFetchConcurrent
	}
	if c.Display.TableLimit <= 0 {
		c.Display.TableLimit = DefaultTableLimit
	}
	if c.Display.AllTasksLimit <= 0 {
		c.Display.AllTasksLimit = DefaultAllTasksLimit
	}
	if c.LogRotation.MaxSizeMB <= 0 {
		c.LogRotation.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
}
