package runlock

import (
	"path/filepath"

	"github.com/nightlyone/lockfile"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const FileName = "drvbackup.lock"

var ErrLocked = errors.New("runlock: another run is writing to this output directory")

// Lock guards an output root against concurrent runs.
type Lock struct {
	path string
	lock lockfile.Lockfile
}

// Acquire takes the lock file in dir, which must exist.
func Acquire(dir string) (*Lock, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "while resolving %s", dir)
	}

	path := filepath.Join(abs, FileName)
	lf, err := lockfile.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create lock %s", path)
	}

	err = lf.TryLock()
	if err == lockfile.ErrBusy {
		owner, _ := lf.GetOwner()
		if owner != nil {
			return nil, errors.Wrapf(ErrLocked, "%s is held by pid %d", path, owner.Pid)
		}
		return nil, errors.Wrapf(ErrLocked, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not get lock %s", path)
	}

	log.Debugf("[LOCK] acquired %s", path)
	return &Lock{path: path, lock: lf}, nil
}

func (l *Lock) Path() string {
	return l.path
}

func (l *Lock) Release() {
	if err := l.lock.Unlock(); err != nil {
		log.WithError(err).Warnf("[LOCK] could not release %s", l.path)
	}
}
