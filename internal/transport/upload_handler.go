package transport

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ostro-bazar/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UploadHandler handles product image uploads
type UploadHandler struct {
	dir       string
	maxSizeMB int64
	logger    *zap.Logger
}

// NewUploadHandler creates a new UploadHandler storing files under dir
func NewUploadHandler(dir string, maxSizeMB int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		dir:       dir,
		maxSizeMB: maxSizeMB,
		logger:    logger,
	}
}

// RegisterRoutes registers the upload route behind the given auth middleware
func (h *UploadHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin(h.logger))
		r.Post("/api/upload", h.Upload)
	})
}

// Upload accepts a multipart "image" file, rejects anything that is not an
// image or exceeds the size cap, and stores it under a unique name.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.maxSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "file too large or malformed form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	// Sniff the actual content; the part's Content-Type header is
	// client-supplied and worthless as a guarantee.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		middleware.RespondWithError(w, http.StatusBadRequest, "unreadable file")
		return
	}
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		middleware.RespondWithError(w, http.StatusBadRequest, "only image files are allowed")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.logger.Error("Failed to rewind upload", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		h.logger.Error("Failed to create upload directory", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	ext := filepath.Ext(header.Filename)
	name := fmt.Sprintf("img-%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
	path := filepath.Join(h.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		h.logger.Error("Failed to create upload file", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.logger.Error("Failed to write upload file", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	h.logger.Info("Image uploaded",
		zap.String("file", name),
		zap.Int64("size", header.Size),
	)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message":   "File uploaded successfully",
		"file_path": "/public/uploads/" + name,
	})
}
