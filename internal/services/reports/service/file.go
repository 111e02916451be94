package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	perr "rephraser/internal/platform/errors"
	pstrings "rephraser/internal/platform/strings"
	dom "rephraser/internal/services/reports/domain"

	"github.com/google/uuid"
)

const collisionAttempts = 3

var stampReplacer = strings.NewReplacer(":", "-", ".", "-")

// FileName is the artifact name for a report timestamp
// "2024-05-01T10:00:00.123Z" becomes "report_2024-05-01T10-00-00-123Z.json"
func FileName(timestamp string) string {
	return "report_" + stampReplacer.Replace(timestamp) + ".json"
}

// FileSink writes one pretty printed JSON file per report
// the directory is created on first write and files are never overwritten
type FileSink struct {
	dir    string
	suffix func() string
}

// NewFileSink writes into dir
func NewFileSink(dir string) *FileSink {
	return &FileSink{
		dir:    pstrings.Or(dir, "reports"),
		suffix: func() string { return uuid.NewString()[:8] },
	}
}

// Name implements domain.Sink
func (f *FileSink) Name() string { return "file" }

// Dir returns the target directory
func (f *FileSink) Dir() string { return f.dir }

// Write implements domain.Sink and returns after the file is closed
func (f *FileSink) Write(_ context.Context, rep dom.Report) error {
	_, err := f.WriteFile(rep)
	return err
}

// WriteFile writes rep and returns the path it landed at
// a name already taken by another report of the same millisecond gets a short random suffix
func (f *FileSink) WriteFile(rep dom.Report) (string, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "create reports dir %s", f.dir)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "encode report")
	}

	name := FileName(rep.Timestamp)
	for attempt := 0; ; attempt++ {
		path := filepath.Join(f.dir, name)
		fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) && attempt < collisionAttempts {
				name = strings.TrimSuffix(FileName(rep.Timestamp), ".json") + "_" + f.suffix() + ".json"
				continue
			}
			return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "create report file %s", path)
		}
		if _, err := fh.Write(append(data, '\n')); err != nil {
			_ = fh.Close()
			return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "write report file %s", path)
		}
		if err := fh.Close(); err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "close report file %s", path)
		}
		return path, nil
	}
}
