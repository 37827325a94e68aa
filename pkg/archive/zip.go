package archive

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Zip extracts zip archives without an external tool.
type Zip struct {
	// MaxEntrySize overrides the package default when set
	MaxEntrySize int64
}

func (z *Zip) Extract(ctx context.Context, archive, dir string) error {
	reader, err := zip.OpenReader(archive)
	if errors.Is(err, zip.ErrInsecurePath) {
		reader.Close()
		return errors.Wrapf(ErrUnsafeEntry, "%s", archive)
	}
	if err != nil {
		return errors.Wrapf(ErrCorruptArchive, "%s: %s", archive, err.Error())
	}
	defer reader.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrapf(err, "while resolving %s", dir)
	}
	if err = os.MkdirAll(root, 0755); err != nil {
		return errors.Wrapf(err, "while creating %s", root)
	}

	limit := z.MaxEntrySize
	if limit <= 0 {
		limit = MaxEntrySize
	}

	for _, f := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := entryPath(root, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, "while creating %s", target)
			}
			continue
		}

		if err := extractEntry(f, target, limit); err != nil {
			return err
		}
	}

	log.Debugf("[ARCHIVE] extracted %d entries from %s", len(reader.File), archive)
	return nil
}

// entryPath resolves an archive entry name below root and rejects names that leave it.
func entryPath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", errors.Wrapf(ErrUnsafeEntry, "%s", name)
	}
	return target, nil
}

func extractEntry(f *zip.File, target string, limit int64) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, "while creating %s", filepath.Dir(target))
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(ErrCorruptArchive, "%s: %s", f.Name, err.Error())
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return errors.Wrapf(err, "while creating %s", target)
	}

	n, err := io.Copy(out, io.LimitReader(rc, limit+1))
	if err != nil {
		out.Close()
		return errors.Wrapf(ErrCorruptArchive, "%s: %s", f.Name, err.Error())
	}
	if n > limit {
		out.Close()
		os.Remove(target)
		return errors.Wrapf(ErrEntryTooLarge, "%s", f.Name)
	}

	return out.Close()
}
