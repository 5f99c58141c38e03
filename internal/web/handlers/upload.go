package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shubhamdhabu/trace-rescue/internal/blob"
	"github.com/shubhamdhabu/trace-rescue/internal/config"
)

const (
	// maxPhotoSize bounds reference photo uploads.
	maxPhotoSize = 10 << 20 // 10 MB
	// maxFootageSize bounds CCTV footage uploads.
	maxFootageSize = 500 << 20 // 500 MB
)

// footageTypes maps accepted footage container extensions to their MIME type.
var footageTypes = map[string]string{
	".mp4": "video/mp4",
	".avi": "video/x-msvideo",
	".mov": "video/quicktime",
	".mkv": "video/x-matroska",
}

// UploadHandler stores case media in blob storage.
type UploadHandler struct {
	store blob.Store
	cfg   *config.BlobConfig
	now   func() time.Time
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store blob.Store, cfg *config.BlobConfig) *UploadHandler {
	return &UploadHandler{store: store, cfg: cfg, now: time.Now}
}

// objectKey builds the storage key: the uploader's id plus a timestamp keeps
// keys collision-free and cheap to audit.
func (h *UploadHandler) objectKey(userID, ext string) string {
	return fmt.Sprintf("%s/%d%s", userID, h.now().UnixNano(), ext)
}

// UploadPhoto stores a reference photo and returns its URL.
func (h *UploadHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	p, ok := mustGetPrincipal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "photo exceeds the 10MB limit")
			return
		}
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	// Sniff the real content type instead of trusting the extension.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && n == 0 {
		respondError(w, http.StatusBadRequest, "could not read file")
		return
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		respondError(w, http.StatusBadRequest, "file must be an image")
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		respondError(w, http.StatusInternalServerError, "could not rewind file")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := h.objectKey(p.ID, ext)
	url, err := h.store.Put(r.Context(), h.cfg.PhotoBucket, key, contentType, file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not store photo")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"url": url, "key": key})
}

// UploadFootage stores CCTV footage for the recognition backend.
func (h *UploadHandler) UploadFootage(w http.ResponseWriter, r *http.Request) {
	p, ok := mustGetPrincipal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFootageSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "footage exceeds the 500MB limit")
			return
		}
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := footageTypes[ext]
	if !ok {
		respondError(w, http.StatusBadRequest, "footage must be mp4, avi, mov or mkv")
		return
	}

	key := h.objectKey(p.ID, ext)
	url, err := h.store.Put(r.Context(), h.cfg.FootageBucket, key, contentType, file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not store footage")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"url": url, "key": key})
}
