package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"cinebox/api"
	"cinebox/models"
	"cinebox/services/state"
)

// StateStore is the per-client persistence the JSON API exposes.
type StateStore interface {
	LoadState(ctx context.Context, clientID string) (*models.UIState, error)
	SaveState(ctx context.Context, clientID string, st models.UIState) error
	ClearState(ctx context.Context, clientID string) error
	LoadTheme(ctx context.Context, clientID string) (models.Theme, error)
	SaveTheme(ctx context.Context, clientID string, theme models.Theme) error
}

// ClientStateHandler serves /api/state and /api/theme for the calling client.
type ClientStateHandler struct {
	store StateStore
}

func NewClientStateHandler(store StateStore) *ClientStateHandler {
	return &ClientStateHandler{store: store}
}

type themeResponse struct {
	Theme models.Theme `json:"theme"`
	Icon  string       `json:"icon"`
}

// GetState returns the saved UI state, or 204 when there is none.
func (h *ClientStateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.LoadState(r.Context(), api.ClientID(r))
	if err != nil {
		h.storeError(w, "load state", err)
		return
	}
	if st == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// PutState replaces the saved UI state. Unknown enum values fall back to
// their defaults.
func (h *ClientStateHandler) PutState(w http.ResponseWriter, r *http.Request) {
	st := models.DefaultUIState()
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&st); err != nil {
		api.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if st.View == "" {
		st.View = models.ViewHome
	}
	if err := h.store.SaveState(r.Context(), api.ClientID(r), st); err != nil {
		h.storeError(w, "save state", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *ClientStateHandler) DeleteState(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearState(r.Context(), api.ClientID(r)); err != nil {
		h.storeError(w, "clear state", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientStateHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.LoadTheme(r.Context(), api.ClientID(r))
	if err != nil {
		h.storeError(w, "load theme", err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: theme, Icon: theme.Icon()})
}

// PutTheme accepts {"theme": "light"|"dark"}; anything else is dark.
func (h *ClientStateHandler) PutTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&req); err != nil {
		api.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.saveTheme(w, r, models.ParseTheme(req.Theme))
}

// ToggleTheme flips the saved theme and returns the new one.
func (h *ClientStateHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	current, err := h.store.LoadTheme(r.Context(), api.ClientID(r))
	if err != nil {
		h.storeError(w, "load theme", err)
		return
	}
	h.saveTheme(w, r, current.Toggle())
}

func (h *ClientStateHandler) saveTheme(w http.ResponseWriter, r *http.Request, theme models.Theme) {
	if err := h.store.SaveTheme(r.Context(), api.ClientID(r), theme); err != nil {
		h.storeError(w, "save theme", err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: theme, Icon: theme.Icon()})
}

func (h *ClientStateHandler) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, state.ErrClientRequired) {
		api.WriteJSONError(w, http.StatusBadRequest, "client id required")
		return
	}
	log.Printf("[state] %s: %v", op, err)
	api.WriteJSONError(w, http.StatusInternalServerError, "state storage unavailable")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}
