package photo

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/wirabuild/construction-management/internal/auth"
	"github.com/wirabuild/construction-management/internal/transport"
	"github.com/wirabuild/construction-management/pkg/logger"
)

const maxUploadBytes = 20 << 20

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(service *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	input := UploadInput{
		Reader:      file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Caption:     r.FormValue("caption"),
	}
	if raw := r.FormValue("taken_at"); raw != "" {
		if takenAt, parseErr := time.Parse(time.RFC3339, raw); parseErr == nil {
			input.TakenAt = &takenAt
		}
	}

	uploaded, err := h.Service.Upload(r.Context(), sessionUser, chi.URLParam(r, "id"), input)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, uploaded)
}

func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projectID := chi.URLParam(r, "id")

	if r.URL.Query().Get("group") == "month" {
		groups, err := h.Service.ListGroupedByMonth(r.Context(), sessionUser, projectID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
		return
	}

	photos, err := h.Service.ListByProject(r.Context(), sessionUser, projectID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"photos": photos})
}

func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.Delete(r.Context(), sessionUser, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
