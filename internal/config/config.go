// Package config reads simple-bible settings from the environment.
//
// Every key can be set with a SIMPLE_BIBLE_ prefixed variable, e.g.
// SIMPLE_BIBLE_DEFAULT_TRANSLATION=WEB.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"simple-bible/internal/api"
	"simple-bible/internal/state"
)

const envPrefix = "SIMPLE_BIBLE"

type Config struct {
	DataDir            string
	DefaultTranslation string
	Translations       []string // cycled with "t" in the reader
	APIURL             string
	Theme              string
	Verbose            bool
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".simple-bible"
	}
	return filepath.Join(home, ".simple-bible")
}

// New reads the configuration from the environment.
func New() *Config {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("default_translation", state.DefaultTranslation)
	v.SetDefault("translations", "KJV,WEB,YLT,ASV")
	v.SetDefault("api_url", api.DefaultBaseURL)
	v.SetDefault("theme", "catppuccin-mocha")
	v.SetDefault("verbose", false)

	cfg := &Config{
		DataDir:            v.GetString("data_dir"),
		DefaultTranslation: strings.ToUpper(v.GetString("default_translation")),
		Translations:       splitList(v.GetString("translations")),
		APIURL:             v.GetString("api_url"),
		Theme:              v.GetString("theme"),
		Verbose:            v.GetBool("verbose"),
	}
	if !contains(cfg.Translations, cfg.DefaultTranslation) {
		cfg.Translations = append([]string{cfg.DefaultTranslation}, cfg.Translations...)
	}
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" && !contains(out, part) {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// SettingsDir holds settings.toml.
func (c *Config) SettingsDir() string {
	return c.DataDir
}

// HistoryDir holds history.db.
func (c *Config) HistoryDir() string {
	return c.DataDir
}

// CacheDir holds downloaded translations.
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "translations")
}

// LogPath is where log lines go while the reader owns the terminal.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "simple-bible.log")
}
