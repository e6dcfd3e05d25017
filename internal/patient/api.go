package patient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
)

// Handler provides HTTP handlers for the patient module
type Handler struct {
	svc *Service
}

// NewHandler creates a new patient handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// PublicRoutes registers the unauthenticated patient routes
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/search", h.Search)
	r.Route("/patients", func(r chi.Router) {
		r.Get("/", h.ListPatients)
		r.Get("/{patientID}", h.GetPatient)
	})

	return r
}

// AdminRoutes registers the routes that mutate patient records
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Route("/patients", func(r chi.Router) {
		r.Post("/", h.RegisterPatient)
		r.Get("/all", h.ListAllStatuses)

		r.Route("/{patientID}", func(r chi.Router) {
			r.Patch("/", h.CorrectPatient)
			r.Delete("/", h.DeactivatePatient)
		})
	})

	return r
}

// Search handles patient search form submissions. Criteria may arrive as
// a JSON body or classic form fields; at least one field is required.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	criteria, err := decodeCriteria(r)
	if err != nil {
		writeError(w, err)
		return
	}

	results, err := h.svc.Search(r.Context(), criteria)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Found %d patient(s)", len(results)),
		"data": map[string]any{
			"patients":        results,
			"search_criteria": criteria,
			"search_time":     time.Now().Format("2006-01-02 15:04:05"),
		},
	})
}

// ListPatients lists all active patients
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.svc.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    patients,
		"count":   len(patients),
	})
}

// ListAllStatuses lists every record including deactivated ones
func (h *Handler) ListAllStatuses(w http.ResponseWriter, r *http.Request) {
	patients, err := h.svc.ListAllStatuses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    patients,
		"count":   len(patients),
	})
}

// GetPatient gets an active patient by ID
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// RegisterPatient registers a new patient
func (h *Handler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	p, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"patient": p,
	})
}

// CorrectPatient applies field corrections to a record
func (h *Handler) CorrectPatient(w http.ResponseWriter, r *http.Request) {
	var req CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	p, err := h.svc.Correct(r.Context(), chi.URLParam(r, "patientID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// DeactivatePatient soft-deletes a patient record
func (h *Handler) DeactivatePatient(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Deactivate(r.Context(), chi.URLParam(r, "patientID")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func decodeCriteria(r *http.Request) (Criteria, error) {
	var criteria Criteria

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
			return criteria, errors.BadRequest("invalid request body")
		}
		return criteria, nil
	}

	if err := r.ParseForm(); err != nil {
		return criteria, errors.BadRequest("invalid form data")
	}
	criteria = Criteria{
		Lastname:   r.FormValue("lastname"),
		Firstname:  r.FormValue("firstname"),
		Middlename: r.FormValue("middlename"),
		Suffix:     r.FormValue("suffix"),
		Birthday:   r.FormValue("birthday"),
		Address:    r.FormValue("address"),
	}
	return criteria, nil
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
