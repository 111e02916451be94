// Package repo reads demo samples from a JSON file
package repo

import (
	"context"
	"encoding/json"
	"io"
	"os"

	perr "rephraser/internal/platform/errors"
)

const maxFileBytes = 4 << 20

// Repo defines the repository contract for samples
type Repo interface {
	All(ctx context.Context) ([]json.RawMessage, error)
}

// File reads a JSON array from Path on every call so edits show up without a restart
type File struct {
	Path string
}

// NewFile returns a file backed Repo
func NewFile(path string) *File { return &File{Path: path} }

// All returns each array element as raw JSON
func (f *File) All(_ context.Context) ([]json.RawMessage, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "samples file %s not found", f.Path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "open samples file %s", f.Path)
	}
	defer func() { _ = fh.Close() }()

	raw, err := io.ReadAll(io.LimitReader(fh, maxFileBytes+1))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read samples file %s", f.Path)
	}
	if len(raw) > maxFileBytes {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "samples file %s exceeds %d bytes", f.Path, maxFileBytes)
	}
	var out []json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "samples file %s is not a JSON array", f.Path)
	}
	return out, nil
}
