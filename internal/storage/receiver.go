package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/sandbox"
)

// ReceivedDirName is the sub-root the inbound receiver writes into,
// relative to the sandbox root. The file repository exposes it like
// any other directory.
const ReceivedDirName = "received"

// Receiver accepts inbound files from the external connector and
// writes them into a fixed sub-root. Callers never choose the
// destination directory, so no client path ever reaches the resolver's
// traversal surface on this entry point.
type Receiver struct {
	store *Store
}

// NewReceiver creates the received sub-root under parent and returns
// a Receiver bound to it.
func NewReceiver(parent *sandbox.Resolver) (*Receiver, error) {
	sub, err := parent.Sub(ReceivedDirName)
	if err != nil {
		return nil, err
	}
	return &Receiver{store: NewStore(sub)}, nil
}

// Save writes the content of r under filename in the receive sub-root.
// Only bare names are accepted. An existing file of the same name is
// overwritten unconditionally; overwrote tells the caller to log it.
func (rc *Receiver) Save(filename string, r io.Reader) (overwrote bool, size int64, err error) {
	if !bareName(filename) {
		return false, 0, ErrBadName
	}
	_, statErr := os.Stat(filepath.Join(rc.store.resolver.Root(), filename))
	overwrote = statErr == nil

	size, err = rc.store.Upload("", filename, r)
	if err != nil {
		return false, size, err
	}
	return overwrote, size, nil
}

// List returns the flat listing of received files.
func (rc *Receiver) List() (Listing, error) {
	listing, err := rc.store.List("")
	if err != nil {
		return Listing{}, err
	}
	listing.Path = ReceivedDirName
	return listing, nil
}

// Open opens a received file by bare name for download.
func (rc *Receiver) Open(name string) (*os.File, os.FileInfo, error) {
	if !bareName(name) {
		return nil, nil, ErrBadName
	}
	return rc.store.Open(name)
}
