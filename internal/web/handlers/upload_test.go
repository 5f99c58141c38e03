package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shubhamdhabu/trace-rescue/internal/config"
)

// pngHeader is a minimal valid PNG signature for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func testBlobConfig() *config.BlobConfig {
	return &config.BlobConfig{
		PhotoBucket:   "case-photos",
		FootageBucket: "cctv-footage",
	}
}

func TestUploadPhoto(t *testing.T) {
	store := &fakeBlobStore{}
	h := NewUploadHandler(store, testBlobConfig())

	body, contentType := multipartBody(t, "jane.png", pngHeader)
	req := requestWithPrincipal("POST", "/api/v1/upload/photo", body, testPrincipal)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.UploadPhoto(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	if store.bucket != "case-photos" {
		t.Errorf("expected case-photos bucket, got %s", store.bucket)
	}
	if !strings.HasPrefix(store.key, testPrincipal.ID+"/") {
		t.Errorf("expected key under the uploader's id, got %s", store.key)
	}
	if !strings.HasSuffix(store.key, ".png") {
		t.Errorf("expected .png key, got %s", store.key)
	}
	if len(store.content) != len(pngHeader) {
		t.Errorf("stored %d bytes, expected %d", len(store.content), len(pngHeader))
	}

	var resp map[string]string
	decodeJSON(t, w, &resp)
	if resp["url"] == "" {
		t.Error("expected a URL in the response")
	}
}

func TestUploadPhoto_RejectsOversizeBody(t *testing.T) {
	store := &fakeBlobStore{}
	h := NewUploadHandler(store, testBlobConfig())

	payload := make([]byte, maxPhotoSize+1)
	copy(payload, pngHeader)
	body, contentType := multipartBody(t, "jane.png", payload)
	req := requestWithPrincipal("POST", "/api/v1/upload/photo", body, testPrincipal)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.UploadPhoto(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for an oversize photo, got %d", w.Code)
	}
	if store.bucket != "" {
		t.Error("oversize photo must not reach blob storage")
	}
}

func TestUploadPhoto_RejectsNonImage(t *testing.T) {
	h := NewUploadHandler(&fakeBlobStore{}, testBlobConfig())

	body, contentType := multipartBody(t, "notes.txt", []byte("just some text, not an image"))
	req := requestWithPrincipal("POST", "/api/v1/upload/photo", body, testPrincipal)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.UploadPhoto(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-image content, got %d", w.Code)
	}
}

func TestUploadFootage(t *testing.T) {
	store := &fakeBlobStore{}
	h := NewUploadHandler(store, testBlobConfig())

	body, contentType := multipartBody(t, "camera1.mp4", []byte("fake video bytes"))
	req := requestWithPrincipal("POST", "/api/v1/upload/footage", body, testPrincipal)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.UploadFootage(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if store.bucket != "cctv-footage" {
		t.Errorf("expected cctv-footage bucket, got %s", store.bucket)
	}
	if !strings.HasSuffix(store.key, ".mp4") {
		t.Errorf("expected .mp4 key, got %s", store.key)
	}
}

func TestUploadFootage_RejectsUnknownContainer(t *testing.T) {
	h := NewUploadHandler(&fakeBlobStore{}, testBlobConfig())

	body, contentType := multipartBody(t, "camera1.webm", []byte("fake video bytes"))
	req := requestWithPrincipal("POST", "/api/v1/upload/footage", body, testPrincipal)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.UploadFootage(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unsupported container, got %d", w.Code)
	}
}
