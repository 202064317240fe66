package image

import "github.com/go-chi/chi/v5"

// Routes returns the image feed router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListOld)
	r.Post("/", h.Upload)
	r.Get("/new", h.ListNew)
	r.Get("/hot", h.ListHot)
	r.Get("/sort/{mode}", h.ListSorted)
	r.Get("/{id}", h.Get)
	r.Post("/upvote/{id}", h.Upvote)

	return r
}

// FileRoutes returns the raw file retrieval router.
func (h *Handler) FileRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{key}", h.File)

	return r
}
