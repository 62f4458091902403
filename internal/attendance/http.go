package attendance

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mikelabs-llc/schoolgate-pass/internal/auth"
	"github.com/mikelabs-llc/schoolgate-pass/internal/httputil"
	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"
	"github.com/mikelabs-llc/schoolgate-pass/internal/student"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
		metrics:  m,
	}
}

func (h *Handler) RegisterStaffRoutes(router chi.Router) {
	router.Post("/attendance", h.Mark)
	router.Get("/attendance", h.ListByDate)
	router.Get("/students/{id}/attendance", h.StudentHistory)
}

func (h *Handler) RegisterParentRoutes(router chi.Router) {
	router.Get("/attendance", h.ParentHistory)
	router.Get("/attendance/summary", h.ParentSummary)
}

func (h *Handler) Mark(w http.ResponseWriter, r *http.Request) {
	var req MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.Mark(r.Context(), req.StudentID, req.Date, req.Status)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.Portal.RecordAttendanceMarked(r.Context(), req.Status)

	httputil.RespondWithJSON(w, http.StatusOK, record)
}

func (h *Handler) ListByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		httputil.RespondWithError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	records, err := h.service.ListByDate(r.Context(), date)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, records)
}

func (h *Handler) StudentHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}
	h.respondHistory(w, r, id)
}

func (h *Handler) ParentHistory(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.StudentIDFromContext(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.respondHistory(w, r, studentID)
}

func (h *Handler) ParentSummary(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.StudentIDFromContext(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := h.service.SummaryForStudent(r.Context(), studentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, summary)
}

func (h *Handler) respondHistory(w http.ResponseWriter, r *http.Request, studentID int) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httputil.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.service.History(r.Context(), studentID, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, records)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, student.ErrStudentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
