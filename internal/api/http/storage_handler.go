package http

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/storage"
)

// StorageHandler streams stored vehicle images back for the URLs the local
// object store hands out.
type StorageHandler struct {
	store storage.ObjectStore
}

func NewStorageHandler(store storage.ObjectStore) *StorageHandler {
	return &StorageHandler{store: store}
}

func (h *StorageHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	file, err := h.store.Open(r.Context(), key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.WarnContext(r.Context(), "Failed to open stored object", "key", key, "error", err)
		}
		fail(w, http.StatusNotFound, "File not found")
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	case ".webp":
		contentType = "image/webp"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := io.Copy(w, file); err != nil {
		logger.WarnContext(r.Context(), "Failed to stream stored object", "key", key, "error", err)
	}
}
