package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

var (
	ErrMissingAPIKey = errors.New("tmdb api key is required")
	ErrInvalidLocale = errors.New("invalid locale")
)

// Manager loads and saves the settings file.
type Manager struct {
	mu   sync.Mutex
	path string
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the settings file, writing the defaults first if it does not exist.
// Zero values in the file are filled from the defaults.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.saveLocked(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("decode settings: %w", err)
		}
	}
	fillDefaults(&s)
	return s, nil
}

// Save writes the settings atomically.
func (m *Manager) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(s)
}

func (m *Manager) saveLocked(s Settings) error {
	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	tmp := m.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create settings temp file: %w", err)
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close settings temp file: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

func fillDefaults(s *Settings) {
	d := DefaultSettings()
	if s.Server.Host == "" {
		s.Server.Host = d.Server.Host
	}
	if s.Server.Port == 0 {
		s.Server.Port = d.Server.Port
	}
	if s.Server.RateBurst == 0 {
		s.Server.RateBurst = d.Server.RateBurst
	}
	if s.TMDB.BaseURL == "" {
		s.TMDB.BaseURL = d.TMDB.BaseURL
	}
	if s.TMDB.ImageBaseURL == "" {
		s.TMDB.ImageBaseURL = d.TMDB.ImageBaseURL
	}
	if s.TMDB.PrimaryLocale == "" {
		s.TMDB.PrimaryLocale = d.TMDB.PrimaryLocale
	}
	if s.TMDB.FallbackLocale == "" {
		s.TMDB.FallbackLocale = d.TMDB.FallbackLocale
	}
	if s.Storage.Backend == "" {
		s.Storage.Backend = d.Storage.Backend
	}
	if s.Storage.DataDir == "" {
		s.Storage.DataDir = d.Storage.DataDir
	}
	if s.UI.SearchDebounceMs <= 0 {
		s.UI.SearchDebounceMs = d.UI.SearchDebounceMs
	}
	if s.UI.ScrollSettleMs <= 0 {
		s.UI.ScrollSettleMs = d.UI.ScrollSettleMs
	}
	if s.Log.MaxSizeMB == 0 {
		s.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
}

// LoadDotEnv reads .env files into the process environment. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overrides settings from environment variables. Overrides are never persisted.
func ApplyEnv(s *Settings, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}

	str("CINEBOX_HOST", &s.Server.Host)
	num("CINEBOX_PORT", &s.Server.Port)
	num("CINEBOX_RATE_PER_MINUTE", &s.Server.RatePerMinute)
	str("TMDB_API_KEY", &s.TMDB.APIKey)
	str("TMDB_BASE_URL", &s.TMDB.BaseURL)
	str("TMDB_IMAGE_BASE_URL", &s.TMDB.ImageBaseURL)
	str("TMDB_PRIMARY_LOCALE", &s.TMDB.PrimaryLocale)
	str("TMDB_FALLBACK_LOCALE", &s.TMDB.FallbackLocale)
	str("CINEBOX_DATA_DIR", &s.Storage.DataDir)
	str("REDIS_URL", &s.Storage.RedisURL)
	str("CINEBOX_LOG_FILE", &s.Log.File)

	var backend string
	str("CINEBOX_STORAGE", &backend)
	if backend != "" {
		s.Storage.Backend = StorageBackend(strings.ToLower(backend))
	}
}

// Validate checks the settings needed to serve, normalizing locale tags in place.
func Validate(s *Settings) error {
	if strings.TrimSpace(s.TMDB.APIKey) == "" {
		return ErrMissingAPIKey
	}
	primary, err := NormalizeLocale(s.TMDB.PrimaryLocale)
	if err != nil {
		return err
	}
	fallback, err := NormalizeLocale(s.TMDB.FallbackLocale)
	if err != nil {
		return err
	}
	s.TMDB.PrimaryLocale, s.TMDB.FallbackLocale = primary, fallback

	switch s.Storage.Backend {
	case StorageFile, StorageSQLite:
	case StorageRedis:
		if strings.TrimSpace(s.Storage.RedisURL) == "" {
			return errors.New("redis storage requires a redis url")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", s.Storage.Backend)
	}
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Server.Port)
	}
	return nil
}

// NormalizeLocale parses a BCP 47 tag such as "es_es" and returns its canonical
// "language-REGION" form. Tags without a region are rejected because the
// upstream API expects one.
func NormalizeLocale(value string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(value), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidLocale, value, err)
	}
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf != language.Exact {
		return "", fmt.Errorf("%w %q: region required", ErrInvalidLocale, value)
	}
	return base.String() + "-" + region.String(), nil
}
