package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"simple-bible/internal/state"
)

var _ state.Preferences = (*Store)(nil)

// Settings mirrors settings.toml. Nil fields were never saved.
type Settings struct {
	Translation *string  `toml:"translation,omitempty"`
	BookIndex   *int     `toml:"book_index,omitempty"`
	Chapter     *int     `toml:"chapter,omitempty"`
	Zoom        *float64 `toml:"zoom,omitempty"`
	Theme       *string  `toml:"theme,omitempty"` // theme key, see theme.Get
}

// Store keeps Settings in a TOML file. Every save rewrites the file.
type Store struct {
	mu   sync.Mutex
	path string
	data Settings
}

func defaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "simple-bible"), nil
}

// Open loads settings.toml from dir, creating dir if needed. An empty dir
// means the user config directory. A missing file is an empty store.
func Open(dir string) (*Store, error) {
	if dir == "" {
		d, err := defaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating settings dir: %w", err)
	}

	s := &Store{path: filepath.Join(dir, "settings.toml")}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load re-reads the settings file.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = Settings{}
			return nil
		}
		return err
	}

	var loaded Settings
	if err := toml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	s.data = loaded
	return nil
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

func (s *Store) update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.data)
	raw, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

func (s *Store) SaveTranslation(_ context.Context, translation string) error {
	return s.update(func(d *Settings) { d.Translation = &translation })
}

func (s *Store) Translation(_ context.Context) (string, error) {
	return value(s.Snapshot().Translation)
}

func (s *Store) SaveBookIndex(_ context.Context, index int) error {
	return s.update(func(d *Settings) { d.BookIndex = &index })
}

func (s *Store) BookIndex(_ context.Context) (int, error) {
	return value(s.Snapshot().BookIndex)
}

func (s *Store) SaveChapter(_ context.Context, chapter int) error {
	return s.update(func(d *Settings) { d.Chapter = &chapter })
}

func (s *Store) Chapter(_ context.Context) (int, error) {
	return value(s.Snapshot().Chapter)
}

func (s *Store) SaveZoom(_ context.Context, zoom float64) error {
	return s.update(func(d *Settings) { d.Zoom = &zoom })
}

func (s *Store) Zoom(_ context.Context) (float64, error) {
	return value(s.Snapshot().Zoom)
}

// SaveTheme remembers the theme key chosen in the reader.
func (s *Store) SaveTheme(name string) error {
	return s.update(func(d *Settings) { d.Theme = &name })
}

// Theme returns the saved theme key, or "" when none was saved.
func (s *Store) Theme() string {
	if t := s.Snapshot().Theme; t != nil {
		return *t
	}
	return ""
}

func value[T any](p *T) (T, error) {
	if p == nil {
		var zero T
		return zero, state.ErrNotSet
	}
	return *p, nil
}
