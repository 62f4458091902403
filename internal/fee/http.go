package fee

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
	router.Post("/fees", h.RecordPayment)
	router.Get("/students/{id}/fees", h.StudentStatement)
}

func (h *Handler) RegisterParentRoutes(router chi.Router) {
	router.Get("/fees", h.ParentStatement)
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var payment Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&payment); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.RecordPayment(r.Context(), &payment)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.Portal.RecordPaymentRecorded(r.Context())
	h.logger.InfoContext(r.Context(), "fee payment recorded",
		"student_id", payment.StudentID, "amount", payment.Amount)

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) StudentStatement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}
	h.respondStatement(w, r, id)
}

func (h *Handler) ParentStatement(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.StudentIDFromContext(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.respondStatement(w, r, studentID)
}

func (h *Handler) respondStatement(w http.ResponseWriter, r *http.Request, studentID int) {
	statement, err := h.service.StatementForStudent(r.Context(), studentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, statement)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, student.ErrStudentNotFound) {
		httputil.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
}
