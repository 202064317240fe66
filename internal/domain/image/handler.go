package image

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PaulOlteanu/36T/internal/pkg/response"
	"github.com/PaulOlteanu/36T/internal/pkg/storage"
)

// maxUploadBytes bounds how much of a multipart body is read into memory.
const maxUploadBytes = 10 << 20

// Handler translates HTTP requests into service calls. It owns no logic
// beyond parameter parsing and error-to-status mapping.
type Handler struct {
	service *Service
}

// NewHandler creates an image handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /images
// @Summary Upload an image
// @Tags Image
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image file (png, jpg, jpeg, bmp)"
// @Param title formData string true "Image title"
// @Success 201 {object} response.Response{data=ImageResponse}
// @Failure 400,409,500 {object} response.Response
// @Router /images [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "File missing")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.BadRequest(w, "Could not read upload")
		return
	}

	img, err := h.service.Ingest(r.Context(), data, header.Filename, r.FormValue("title"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			response.Error(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "Invalid file extension")
		case errors.Is(err, ErrMissingTitle):
			response.Error(w, http.StatusBadRequest, "MISSING_TITLE", "Title missing")
		case errors.Is(err, ErrCorruptImage):
			response.Error(w, http.StatusBadRequest, "CORRUPT_IMAGE", "File is not a decodable image")
		case errors.Is(err, ErrDuplicateKey):
			response.Conflict(w, "Could not allocate a unique name, try again")
		case errors.Is(err, storage.ErrWrite):
			response.Error(w, http.StatusInternalServerError, "STORAGE_WRITE_FAILED", "Could not persist the image")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ResponseFromEntity(img, h.service.store.URL(img.Key)))
}

// ListOld handles GET /images
// @Summary Feed, oldest first
// @Tags Image
// @Produce json
// @Param page query int false "Page, 1-based"
// @Success 200 {object} response.Response{data=[]ImageResponse}
// @Failure 400,500 {object} response.Response
// @Router /images [get]
func (h *Handler) ListOld(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, string(SortOld))
}

// ListNew handles GET /images/new
// @Summary Feed, newest first
// @Tags Image
// @Produce json
// @Param page query int false "Page, 1-based"
// @Success 200 {object} response.Response{data=[]ImageResponse}
// @Router /images/new [get]
func (h *Handler) ListNew(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, string(SortNew))
}

// ListHot handles GET /images/hot
// @Summary Feed by hot score
// @Tags Image
// @Produce json
// @Param page query int false "Page, 1-based"
// @Success 200 {object} response.Response{data=[]ImageResponse}
// @Router /images/hot [get]
func (h *Handler) ListHot(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, string(SortHot))
}

// ListSorted handles GET /images/sort/{mode} for explicit sort selection.
func (h *Handler) ListSorted(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, chi.URLParam(r, "mode"))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, sortMode string) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_PAGE_NUMBER", ErrInvalidPage.Error())
			return
		}
		page = parsed
	}

	entries, err := h.service.Feed(r.Context(), sortMode, page)
	if err != nil {
		if errors.Is(err, ErrInvalidSort) {
			response.Error(w, http.StatusBadRequest, "INVALID_SORT_MODE", "Sort must be old, new, or hot")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, entries)
}

// Get handles GET /images/{id}
// @Summary Fetch one image by id
// @Tags Image
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} response.Response{data=ImageResponse}
// @Failure 400,404 {object} response.Response
// @Router /images/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid image ID")
		return
	}

	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			response.NotFound(w, "Photo id does not exist")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, entry)
}

// Upvote handles POST /images/upvote/{id}
// @Summary Upvote an image
// @Tags Image
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} response.Response{data=UpvoteResponse}
// @Failure 400,404 {object} response.Response
// @Router /images/upvote/{id} [post]
func (h *Handler) Upvote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid image ID")
		return
	}

	votes, err := h.service.Upvote(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			response.NotFound(w, "Photo id does not exist")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, UpvoteResponse{ID: id, Votes: votes})
}

// File handles GET /files/{key}, streaming stored bytes with the recorded
// content type.
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	rc, contentType, err := h.service.Open(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, ErrImageNotFound), errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrBadKey):
			response.NotFound(w, "File not found")
		default:
			response.InternalError(w)
		}
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, rc)
}
