package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campus-lostfound/internal/storage"
)

type ImageHandler struct {
	store *storage.ImageStore
}

func NewImageHandler(store *storage.ImageStore) *ImageHandler {
	return &ImageHandler{store: store}
}

func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	f, err := h.store.Open(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = io.Copy(w, f)
}
