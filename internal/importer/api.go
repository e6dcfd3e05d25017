package importer

import (
	"bufio"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
)

// Handler provides HTTP handlers for batch imports
type Handler struct {
	svc *Service
}

// NewHandler creates a new import handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the import routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Upload)
	r.Get("/", h.History)

	return r
}

// Upload accepts a multipart CSV or JSON file and imports its entries
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.BadRequest("missing file upload"))
		return
	}
	defer file.Close()

	buffered := bufio.NewReader(file)
	head, _ := buffered.Peek(64)

	format, err := DetectFormat(header.Filename, head)
	if err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}

	summary, err := h.svc.Import(r.Context(), header.Filename, format, buffered)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// History lists past imports
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    records,
		"count":   len(records),
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
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
