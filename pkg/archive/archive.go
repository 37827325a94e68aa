package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// MaxEntrySize limits a single extracted file.
const MaxEntrySize = 256 * 1024 * 1024

var (
	ErrUnsupportedInput = errors.New("archive: unsupported input file type")
	ErrCorruptArchive   = errors.New("archive: corrupt archive")
	ErrUnsafeEntry      = errors.New("archive: entry escapes the destination directory")
	ErrEntryTooLarge    = errors.New("archive: entry exceeds maximum size limit")
	ErrExtractFailed    = errors.New("archive: extraction tool reported a failure")
)

// Extractor unpacks archive into dir. dir is created when missing.
type Extractor interface {
	Extract(ctx context.Context, archive, dir string) error
}

// ForFile picks the extractor for path by its extension: .zip archives are
// read natively, .cab archives go to cab, a single .inf file is copied.
func ForFile(path string, cab Extractor) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return &Zip{}, nil
	case ".cab":
		if cab == nil {
			return nil, errors.Wrapf(ErrUnsupportedInput, "%s: no cabinet extractor configured", path)
		}
		return cab, nil
	case ".inf":
		return &Single{}, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedInput, "%s", path)
}

// Single copies one file into dir.
type Single struct{}

func (s *Single) Extract(ctx context.Context, archive, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "while creating %s", dir)
	}

	dst := filepath.Join(dir, filepath.Base(archive))
	log.Debugf("[ARCHIVE] copying %s to %s", archive, dst)
	return copyFile(archive, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "while opening %s", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "while creating %s", dst)
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "while copying %s", src)
	}
	return out.Close()
}
