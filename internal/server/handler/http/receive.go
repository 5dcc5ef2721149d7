package http

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/middleware"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/models"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/storage"
	"go.uber.org/zap"
)

// SecretHeader is the request header the external connector uses to
// carry the shared secret.
const SecretHeader = "X-Api-Token"

// FileReceiver defines the receiver operations required by the
// data-sink handlers.
type FileReceiver interface {
	Save(filename string, r io.Reader) (overwrote bool, size int64, err error)
	List() (storage.Listing, error)
	Open(name string) (*os.File, os.FileInfo, error)
}

// ReceiveHandler handles the data-sink endpoints: the inbound transfer
// from the connector and the listing/download of received files.
type ReceiveHandler struct {
	Receiver      FileReceiver
	Secret        string
	Logger        *zap.Logger
	MaxUploadSize int64
}

// secretMatches compares the presented secret against the configured
// one in constant time. Both values are hashed first so the comparison
// leaks neither content nor length.
func (h *ReceiveHandler) secretMatches(presented string) bool {
	a := sha256.Sum256([]byte(presented))
	b := sha256.Sum256([]byte(h.Secret))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// ReceiveFile handles POST /receive-file from the external connector.
// It is gated by the shared secret, not by user tokens. The file lands
// in the fixed received sub-root; the sender cannot pick a directory.
func (h *ReceiveHandler) ReceiveFile(w http.ResponseWriter, r *http.Request) {
	if !h.secretMatches(r.Header.Get(SecretHeader)) {
		h.Logger.Warn("receive-file rejected: bad shared secret", zap.String("remote", r.RemoteAddr))
		http.Error(w, "unauthorized sender", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "file too large or bad request", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	overwrote, size, err := h.Receiver.Save(filename, file)
	if err != nil {
		writeStorageError(w, h.Logger, err)
		return
	}

	if overwrote {
		h.Logger.Warn("received file overwrote existing file", zap.String("filename", filename))
	}
	h.Logger.Info("file received", zap.String("filename", filename), zap.Int64("size", size))
	writeJSON(w, http.StatusOK, models.Message{Msg: fmt.Sprintf("file '%s' received successfully", filename)})
}

// ListReceived handles GET /received/ and returns the flat listing of
// files deposited by the connector.
func (h *ReceiveHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	listing, err := h.Receiver.List()
	if err != nil {
		writeStorageError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// DownloadReceived handles GET /received/download?name= and streams a
// received file back as an attachment.
func (h *ReceiveHandler) DownloadReceived(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	f, info, err := h.Receiver.Open(name)
	if err != nil {
		writeStorageError(w, h.Logger, err)
		return
	}
	defer f.Close()

	serveAttachment(w, f, info)
	h.Logger.Info("received file downloaded",
		zap.String("username", middleware.GetUsernameFromContext(r.Context())),
		zap.String("name", name),
	)
}
