package changerequest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mikelabs-llc/schoolgate-pass/internal/auth"
	"github.com/mikelabs-llc/schoolgate-pass/internal/httputil"
	"github.com/mikelabs-llc/schoolgate-pass/internal/student"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterParentRoutes mounts the parent-facing submission flow. The routes
// rely on the parent session middleware having bound a student id to the
// request context.
func (h *Handler) RegisterParentRoutes(router chi.Router) {
	router.Post("/profile/requests", h.Submit)
	router.Get("/profile/requests", h.History)
}

// RegisterStaffRoutes mounts the teacher review queue and actions.
func (h *Handler) RegisterStaffRoutes(router chi.Router) {
	router.Get("/approvals", h.ReviewQueue)
	router.Post("/approvals/{id}/approve", h.Approve)
	router.Post("/approvals/{id}/reject", h.Reject)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.StudentIDFromContext(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var form SubmissionForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.service.Submit(r.Context(), studentID, form)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, history)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.StudentIDFromContext(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	history, err := h.service.History(r.Context(), studentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, history)
}

func (h *Handler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.service.ReviewQueue(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, queue)
}

type reviewActionRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Reject)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, requestID int, approvedBy, notes string) error) {
	id, err := pathID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	approvedBy, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Empty body is fine: notes are optional.
	var body reviewActionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	if err := action(r.Context(), id, approvedBy, body.Notes); err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	var cooldownErr *CooldownError
	switch {
	case errors.As(err, &cooldownErr):
		httputil.RespondWithError(w, http.StatusTooManyRequests, cooldownErr.Error())
	case errors.Is(err, ErrNoChanges):
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPendingExists):
		httputil.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrAlreadyProcessed):
		httputil.RespondWithError(w, http.StatusConflict, "request already processed")
	case errors.Is(err, ErrRequestNotFound), errors.Is(err, student.ErrStudentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("internal error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
