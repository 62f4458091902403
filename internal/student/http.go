package student

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/mikelabs-llc/schoolgate-pass/internal/httputil"
	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxPhotoSize = 2 << 20 // 2MB, same limit the portal UI enforces

// PhotoStore stores passport photos and resolves their public URLs.
type PhotoStore interface {
	UploadPassportPhoto(ctx context.Context, childUID, ext string, r io.Reader) (string, error)
	PublicURL(key string) string
}

type Handler struct {
	service  Service
	photos   PhotoStore
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewHandler(service Service, photos PhotoStore, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		photos:   photos,
		validate: validator.New(),
		logger:   logger,
		metrics:  m,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/students", h.CreateStudent)
	router.Get("/students", h.GetAllStudents)
	router.Get("/students/{id}", h.GetStudent)
	router.Put("/students/{id}", h.UpdateStudent)
	router.Delete("/students/{id}", h.DeleteStudent)
	router.Post("/students/{id}/photo", h.UploadPhoto)
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var student Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&student); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "creating student", "name", student.Name, "class", student.Class)
	created, err := h.service.CreateStudent(r.Context(), &student)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.Portal.RecordStudentRegistered(r.Context())

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.GetAllStudents(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, students)
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}

	student, err := h.service.GetStudentByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, student)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}

	var student Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&student); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	student.ID = id

	h.logger.InfoContext(r.Context(), "updating student", "id", id)
	if err := h.service.UpdateStudent(r.Context(), &student); err != nil {
		h.handleServiceError(w, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, student)
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting student", "id", id)
	if err := h.service.DeleteStudent(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto stores a passport photo for the student and records its object
// key on the student row. Re-uploading overwrites the previous photo.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.photos == nil {
		httputil.RespondWithError(w, http.StatusServiceUnavailable, "photo storage not configured")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}

	student, err := h.service.GetStudentByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if student.ChildUID == nil || *student.ChildUID == "" {
		httputil.RespondWithError(w, http.StatusConflict, "student has no credentials issued yet")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "missing photo file")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoSize {
		httputil.RespondWithError(w, http.StatusBadRequest, "photo must be smaller than 2MB")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httputil.RespondWithError(w, http.StatusBadRequest, "photo must be an image")
		return
	}

	ext := strings.TrimPrefix(path.Ext(header.Filename), ".")
	if ext == "" {
		ext = "jpg"
	}

	key, err := h.photos.UploadPassportPhoto(r.Context(), *student.ChildUID, ext, file)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to upload photo", "id", id, "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "failed to upload photo")
		return
	}

	if err := h.service.SetProfilePhoto(r.Context(), id, key); err != nil {
		h.handleServiceError(w, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{
		"profile_photo_url": key,
		"public_url":        h.photos.PublicURL(key),
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrStudentNotFound) {
		httputil.RespondWithError(w, http.StatusNotFound, "student not found")
		return
	}
	if errors.Is(err, ErrInvalidInput) {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, err.Error())
}
