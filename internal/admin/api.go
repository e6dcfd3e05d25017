// Package admin handles the front-desk admin login. Credentials are a
// single configured username/password pair; a successful login issues a
// session JWT for the admin routes.
package admin

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/auth"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/config"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/middleware"
)

// Handler provides the admin login handler
type Handler struct {
	cfg config.AuthConfig
	log zerolog.Logger
}

// NewHandler creates a new admin handler
func NewHandler(cfg config.AuthConfig, log zerolog.Logger) *Handler {
	return &Handler{
		cfg: cfg,
		log: log.With().Str("handler", "admin").Logger(),
	}
}

// Routes registers the login route behind a per-IP rate limit
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	limiter := middleware.NewIPRateLimiter(5, 10)
	r.With(limiter.Middleware).Post("/", h.Login)

	return r
}

// LoginRequest carries the submitted credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the credentials and issues a session token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		h.log.Warn().Str("username", req.Username).Msg("failed admin login")
		writeError(w, errors.Unauthorized("invalid username or password"))
		return
	}

	token, err := auth.IssueToken(h.cfg, req.Username, "admin")
	if err != nil {
		writeError(w, errors.Internal(err))
		return
	}

	h.log.Info().Str("username", req.Username).Msg("admin logged in")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   appErr.Message,
			"code":    appErr.Code,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
