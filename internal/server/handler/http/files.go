package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/middleware"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/models"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/sandbox"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/storage"
	"go.uber.org/zap"
)

// FileStore defines the repository operations required by the file handlers.
type FileStore interface {
	List(relDir string) (storage.Listing, error)
	Upload(relDir, filename string, r io.Reader) (int64, error)
	Mkdir(rel string) error
	Delete(rel string) error
	Open(rel string) (*os.File, os.FileInfo, error)
}

// FilesHandler handles the /files endpoints of the data-source service.
type FilesHandler struct {
	Store         FileStore
	Logger        *zap.Logger
	MaxUploadSize int64
}

// writeStorageError maps storage-layer errors onto HTTP responses.
// Path escapes share a response with malformed paths, so a probing
// client cannot tell the sandbox boundary apart from a typo.
func writeStorageError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, sandbox.ErrPathEscape), errors.Is(err, storage.ErrBadName):
		http.Error(w, "invalid path", http.StatusBadRequest)
	case errors.Is(err, storage.ErrExists):
		http.Error(w, "path already exists", http.StatusBadRequest)
	case errors.Is(err, storage.ErrNotEmpty):
		http.Error(w, "directory is not empty", http.StatusBadRequest)
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "file or directory not found", http.StatusNotFound)
	default:
		logger.Error("storage operation failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// List handles GET /files/?dir=. An absent dir lists the sandbox root.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("dir")

	listing, err := h.Store.List(dir)
	if err != nil {
		writeStorageError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Upload handles POST /files/ with a multipart body carrying an
// optional dir field and the file itself. The target directory is
// created as needed and existing files are overwritten.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "file too large or bad request", http.StatusBadRequest)
		return
	}
	dir := r.FormValue("dir")

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	size, err := h.Store.Upload(dir, filename, file)
	if err != nil {
		writeStorageError(w, h.Logger, err)
		return
	}

	h.Logger.Info("file uploaded",
		zap.String("username", middleware.GetUsernameFromContext(r.Context())),
		zap.String("dir", dir),
		zap.String("filename", filename),
		zap.Int64("size", size),
	)
	writeJSON(w, http.StatusOK, models.Message{Msg: fmt.Sprintf("uploaded %s to %s", filename, displayDir(dir))})
}

// Mkdir handles POST /files/mkdir with a JSON body naming the new
// directory. An occupied path answers 400.
func (h *FilesHandler) Mkdir(w http.ResponseWriter, r *http.Request) {
	var req models.MkdirRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Store.Mkdir(req.Path); err != nil {
		writeStorageError(w, h.Logger, err)
		return
	}

	h.Logger.Info("directory created",
		zap.String("username", middleware.GetUsernameFromContext(r.Context())),
		zap.String("path", req.Path),
	)
	writeJSON(w, http.StatusCreated, models.Message{Msg: fmt.Sprintf("directory '%s' created", req.Path)})
}

// Delete handles DELETE /files/?path=. Directories must be empty.
func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	if err := h.Store.Delete(path); err != nil {
		writeStorageError(w, h.Logger, err)
		return
	}

	h.Logger.Info("entry deleted",
		zap.String("username", middleware.GetUsernameFromContext(r.Context())),
		zap.String("path", path),
	)
	writeJSON(w, http.StatusOK, models.Message{Msg: fmt.Sprintf("'%s' deleted", path)})
}

// Download handles GET /files/download?path= and streams the file back
// as an attachment.
func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	f, info, err := h.Store.Open(path)
	if err != nil {
		writeStorageError(w, h.Logger, err)
		return
	}
	defer f.Close()

	serveAttachment(w, f, info)
	h.Logger.Info("file downloaded",
		zap.String("username", middleware.GetUsernameFromContext(r.Context())),
		zap.String("path", path),
		zap.Int64("size", info.Size()),
	)
}

// serveAttachment streams an open file with attachment headers.
func serveAttachment(w http.ResponseWriter, f *os.File, info os.FileInfo) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name()))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	_, _ = io.Copy(w, f)
}

func displayDir(dir string) string {
	if dir == "" {
		return "/"
	}
	return dir
}
