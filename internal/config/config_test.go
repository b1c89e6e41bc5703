package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"simple-bible/internal/api"
)

func TestNew_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cfg := New()

	assert.Equal(t, filepath.Join(home, ".simple-bible"), cfg.DataDir)
	assert.Equal(t, "KJV", cfg.DefaultTranslation)
	assert.Equal(t, []string{"KJV", "WEB", "YLT", "ASV"}, cfg.Translations)
	assert.Equal(t, api.DefaultBaseURL, cfg.APIURL)
	assert.Equal(t, "catppuccin-mocha", cfg.Theme)
	assert.False(t, cfg.Verbose)
}

func TestNew_FromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIMPLE_BIBLE_DATA_DIR", dir)
	t.Setenv("SIMPLE_BIBLE_DEFAULT_TRANSLATION", "nlt")
	t.Setenv("SIMPLE_BIBLE_TRANSLATIONS", "web, kjv,,WEB")
	t.Setenv("SIMPLE_BIBLE_VERBOSE", "true")

	cfg := New()

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "NLT", cfg.DefaultTranslation)
	assert.Equal(t, []string{"NLT", "WEB", "KJV"}, cfg.Translations)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, filepath.Join(dir, "translations"), cfg.CacheDir())
	assert.Equal(t, dir, cfg.HistoryDir())
	assert.Equal(t, dir, cfg.SettingsDir())
}
