package notify

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mikelabs-llc/schoolgate-pass/internal/httputil"
	"github.com/mikelabs-llc/schoolgate-pass/internal/student"

	"github.com/go-chi/chi/v5"
)

// Handler serves prebuilt credential share links for staff.
type Handler struct {
	students student.Service
	logger   *slog.Logger
}

func NewHandler(students student.Service, logger *slog.Logger) *Handler {
	return &Handler{students: students, logger: logger}
}

func (h *Handler) RegisterStaffRoutes(router chi.Router) {
	router.Get("/students/{id}/share-links", h.ShareLinks)
}

func (h *Handler) ShareLinks(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}

	stud, err := h.students.GetStudentByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			httputil.RespondWithError(w, http.StatusNotFound, "student not found")
			return
		}
		h.logger.Error("failed to load student for share links", "error", err, "student_id", id)
		httputil.RespondWithError(w, http.StatusInternalServerError, "failed to fetch student")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, BuildShareLinks(stud))
}
