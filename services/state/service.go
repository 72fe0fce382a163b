package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"cinebox/models"
)

// Keys inside a client's namespace.
const (
	StateKey = "cinebox_state"
	ThemeKey = "cinebox_theme"
)

// Service persists UI state and theme for each browser client.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

// SaveState replaces the client's UI state as a whole.
func (s *Service) SaveState(ctx context.Context, clientID string, st models.UIState) error {
	ns, err := namespace(clientID)
	if err != nil {
		return err
	}
	if st.ScrollY < 0 {
		st.ScrollY = 0
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode ui state: %w", err)
	}
	return s.store.Set(ctx, ns, StateKey, string(payload))
}

// LoadState returns nil when nothing is stored. Malformed data is logged and
// treated as absent.
func (s *Service) LoadState(ctx context.Context, clientID string) (*models.UIState, error) {
	ns, err := namespace(clientID)
	if err != nil {
		return nil, err
	}
	raw, ok, err := s.store.Get(ctx, ns, StateKey)
	if err != nil || !ok {
		return nil, err
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var st models.UIState
	if err := json.Unmarshal([]byte(trimmed), &st); err != nil {
		log.Printf("[state] ignoring malformed ui state for client %s: %v", clientID, err)
		return nil, nil
	}
	return &st, nil
}

// ClearState removes the client's UI state; the theme is kept.
func (s *Service) ClearState(ctx context.Context, clientID string) error {
	ns, err := namespace(clientID)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, ns, StateKey)
}

func (s *Service) SaveTheme(ctx context.Context, clientID string, theme models.Theme) error {
	ns, err := namespace(clientID)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, ns, ThemeKey, string(models.ParseTheme(string(theme))))
}

// LoadTheme defaults to dark when nothing or an unknown value is stored.
func (s *Service) LoadTheme(ctx context.Context, clientID string) (models.Theme, error) {
	ns, err := namespace(clientID)
	if err != nil {
		return models.ThemeDark, err
	}
	raw, ok, err := s.store.Get(ctx, ns, ThemeKey)
	if err != nil || !ok {
		return models.ThemeDark, err
	}
	theme := models.ParseTheme(raw)
	if string(theme) != raw {
		log.Printf("[state] unknown theme %q for client %s, using %s", raw, clientID, theme)
	}
	return theme, nil
}

// ForClient binds the service to one client.
func (s *Service) ForClient(clientID string) *ClientState {
	return &ClientState{svc: s, clientID: clientID}
}

// ClientState is the persistence area of a single browser client.
type ClientState struct {
	svc      *Service
	clientID string
}

func (c *ClientState) LoadState(ctx context.Context) (*models.UIState, error) {
	return c.svc.LoadState(ctx, c.clientID)
}

func (c *ClientState) SaveState(ctx context.Context, st models.UIState) error {
	return c.svc.SaveState(ctx, c.clientID, st)
}

func (c *ClientState) ClearState(ctx context.Context) error {
	return c.svc.ClearState(ctx, c.clientID)
}

func (c *ClientState) LoadTheme(ctx context.Context) (models.Theme, error) {
	return c.svc.LoadTheme(ctx, c.clientID)
}

func (c *ClientState) SaveTheme(ctx context.Context, theme models.Theme) error {
	return c.svc.SaveTheme(ctx, c.clientID, theme)
}

func namespace(clientID string) (string, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return "", ErrClientRequired
	}
	return clientID, nil
}
