package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ngoclaithe/scoliv2-sub000/internal/accesscode"
	"github.com/ngoclaithe/scoliv2-sub000/internal/hub"
	"github.com/ngoclaithe/scoliv2-sub000/internal/logging"
	"github.com/ngoclaithe/scoliv2-sub000/internal/ws"
)

func SetupRoutes(h *hub.Hub, reg accesscode.Registry, log *zap.Logger, wsOpts ws.Options) http.Handler {
	log = logging.OrNop(log).Named("http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Post("/access-codes", CreateAccessCode(h, reg, log))
	r.Get("/access-codes/{code}/verify", VerifyAccessCode(reg, log))
	r.Get("/rooms/{code}/state", RoomState(h))
	r.Get("/ws", ws.Handler(h, reg, log, wsOpts))
	return r
}
