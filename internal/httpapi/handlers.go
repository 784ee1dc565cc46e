package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ngoclaithe/scoliv2-sub000/internal/accesscode"
	"github.com/ngoclaithe/scoliv2-sub000/internal/engine"
	"github.com/ngoclaithe/scoliv2-sub000/internal/hub"
	"github.com/ngoclaithe/scoliv2-sub000/internal/lobby"
)

const stateTimeout = 2 * time.Second

type createCodeRequest struct {
	MatchTitle string `json:"matchTitle"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// CreateAccessCode issues a code and opens its room.
func CreateAccessCode(h *hub.Hub, reg accesscode.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}

		code, err := reg.Create(r.Context(), req.MatchTitle, time.Duration(req.TTLSeconds)*time.Second)
		if err != nil {
			log.Error("create access code", zap.Error(err))
			http.Error(w, "failed to create access code", http.StatusInternalServerError)
			return
		}
		if h.EnsureRoom(r.Context(), code.Code) == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, code)
	}
}

func VerifyAccessCode(reg accesscode.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := reg.Verify(r.Context(), chi.URLParam(r, "code"))
		switch {
		case errors.Is(err, accesscode.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, accesscode.ErrInactive):
			http.Error(w, err.Error(), http.StatusGone)
		case err != nil:
			log.Error("verify access code", zap.Error(err))
			http.Error(w, "verification failed", http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, code)
		}
	}
}

// RoomState returns the room's current snapshot in room_joined form.
func RoomState(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), stateTimeout)
		defer cancel()

		lb := h.Room(ctx, chi.URLParam(r, "code"))
		if lb == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		reply := make(chan lobby.View, 1)
		select {
		case lb.Inbox() <- lobby.GetState{Reply: reply}:
		case <-ctx.Done():
			http.Error(w, "room busy", http.StatusServiceUnavailable)
			return
		}
		select {
		case v := <-reply:
			writeJSON(w, http.StatusOK, engine.Snapshot(v.State))
		case <-ctx.Done():
			http.Error(w, "room busy", http.StatusServiceUnavailable)
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
