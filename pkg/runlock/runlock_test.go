package runlock

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	dir, err := ioutil.TempDir("", "runlock")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	l, err := Acquire(dir)
	require.NoError(t, err)
	assert.Equal(t, FileName, filepath.Base(l.Path()))

	_, err = os.Stat(l.Path())
	assert.NoError(t, err)

	l.Release()
	_, err = os.Stat(l.Path())
	assert.True(t, os.IsNotExist(err))

	l, err = Acquire(dir)
	require.NoError(t, err)
	l.Release()
}

func TestAcquireHeldByOtherProcess(t *testing.T) {
	dir, err := ioutil.TempDir("", "runlock")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	// the test runner's parent is alive for the duration of the test
	owner := fmt.Sprintf("%d\n", os.Getppid())
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, FileName), []byte(owner), 0644))

	_, err = Acquire(dir)
	assert.True(t, errors.Is(err, ErrLocked))
}
