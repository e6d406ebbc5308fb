package config

import (
	"errors"
	"fmt"
	"gitlab.com/open-soft/altcoin-autosell/src/model"
	"gopkg.in/ini.v1"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const GeneralSection = "General"
const DefaultConfigPath = "~/.altcoin-autosell.config"
const ConfigPathEnv = "AUTOSELL_CONFIG"

type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func IsConfigError(err error) bool {
	var configError *ConfigError
	return errors.As(err, &configError)
}

type Config struct {
	Path     string
	AutoSell model.AutoSellConfig

	file *ini.File
}

func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func Load(path string) (*Config, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("Failed to resolve config path %q", path), Err: err}
	}

	file, err := ini.Load(expanded)
	if err != nil {
		return nil, &ConfigError{Message: "Failed to read config", Err: err}
	}

	return Parse(expanded, file)
}

func Parse(path string, file *ini.File) (*Config, error) {
	general := file.Section(GeneralSection)

	autoSell := model.AutoSellConfig{
		TargetCurrencies: model.DefaultTargetCurrencies,
		SourceCurrencies: make([]string, 0),
		Verbose:          true,
	}

	if general.HasKey("target_currencies") {
		autoSell.TargetCurrencies = splitList(general.Key("target_currencies").String())
		if len(autoSell.TargetCurrencies) == 0 {
			return nil, &ConfigError{Message: "General.target_currencies is empty"}
		}
	}

	if general.HasKey("source_currencies") {
		autoSell.SourceCurrencies = splitList(general.Key("source_currencies").String())
	}

	var err error
	if autoSell.PollDelay, err = getSeconds(general, "poll_delay", model.DefaultPollDelay); err != nil {
		return nil, err
	}
	if autoSell.RequestDelay, err = getSeconds(general, "request_delay", model.DefaultRequestDelay); err != nil {
		return nil, err
	}
	if autoSell.RefreshInterval, err = getSeconds(general, "refresh_interval", model.DefaultRefreshInterval); err != nil {
		return nil, err
	}
	if autoSell.RefreshInterval == 0 {
		return nil, &ConfigError{Message: "General.refresh_interval must be positive"}
	}

	if general.HasKey("verbose") {
		if autoSell.Verbose, err = general.Key("verbose").Bool(); err != nil {
			return nil, &ConfigError{Message: "General.verbose is not a boolean", Err: err}
		}
	}

	return &Config{
		Path:     path,
		AutoSell: autoSell,
		file:     file,
	}, nil
}

func (c *Config) HasSection(name string) bool {
	return c.file.HasSection(name)
}

// GetCredential reads section.key and falls back to the SECTION_KEY
// environment variable.
func (c *Config) GetCredential(section string, key string) (string, bool) {
	if c.file.HasSection(section) && c.file.Section(section).HasKey(key) {
		return c.file.Section(section).Key(key).String(), true
	}

	return os.LookupEnv(strings.ToUpper(fmt.Sprintf("%s_%s", section, key)))
}

func (c *Config) GetString(section string, key string, fallback string) string {
	if !c.file.HasSection(section) || !c.file.Section(section).HasKey(key) {
		return fallback
	}

	return c.file.Section(section).Key(key).String()
}

func (c *Config) GetBool(section string, key string, fallback bool) bool {
	if !c.file.HasSection(section) || !c.file.Section(section).HasKey(key) {
		return fallback
	}

	return c.file.Section(section).Key(key).MustBool(fallback)
}

func getSeconds(section *ini.Section, key string, fallback time.Duration) (time.Duration, error) {
	if !section.HasKey(key) {
		return fallback, nil
	}

	seconds, err := section.Key(key).Int()
	if err != nil || seconds < 0 {
		return 0, &ConfigError{Message: fmt.Sprintf("%s.%s must be a non-negative number of seconds", GeneralSection, key), Err: err}
	}

	return time.Duration(seconds) * time.Second, nil
}

func splitList(value string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}
