package term

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mikelabs-llc/schoolgate-pass/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	repo     Repository
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterStaffRoutes(router chi.Router) {
	router.Post("/terms", h.Create)
	router.Get("/terms", h.List)
	router.Put("/terms/{id}", h.Update)
	router.Post("/terms/{id}/activate", h.Activate)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var term Term
	if err := json.NewDecoder(r.Body).Decode(&term); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&term); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.repo.Create(r.Context(), &term)
	if err != nil {
		h.handleError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	terms, err := h.repo.List(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, terms)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid term ID")
		return
	}

	var term Term
	if err := json.NewDecoder(r.Body).Decode(&term); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&term); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	term.ID = id

	if err := h.repo.Update(r.Context(), &term); err != nil {
		h.handleError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, term)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid term ID")
		return
	}

	if err := h.repo.SetActive(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrTermNotFound) {
		httputil.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
}
