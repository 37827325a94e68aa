// +build !windows

package archive

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandExtract(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "driver.cab")
	require.NoError(t, ioutil.WriteFile(src, []byte("cabinet"), 0644))
	out := filepath.Join(dir, "out")

	t.Run("success", func(t *testing.T) {
		c := &Command{Name: "sh", Args: []string{"-c", "cp {archive} {dir}/extracted.inf"}}
		require.NoError(t, c.Extract(context.Background(), src, out))

		data, err := ioutil.ReadFile(filepath.Join(out, "extracted.inf"))
		require.NoError(t, err)
		assert.Equal(t, "cabinet", string(data))
	})

	t.Run("failure", func(t *testing.T) {
		c := &Command{Name: "sh", Args: []string{"-c", "echo bad cabinet; exit 3"}}
		err := c.Extract(context.Background(), src, out)
		assert.True(t, errors.Is(err, ErrExtractFailed))
		assert.Contains(t, err.Error(), "bad cabinet")
	})

	t.Run("tool-missing", func(t *testing.T) {
		c := &Command{Name: "drvbackup-no-such-extractor"}
		err := c.Extract(context.Background(), src, out)
		assert.True(t, errors.Is(err, ErrExtractFailed))
	})
}
