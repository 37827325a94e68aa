package archive

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	PlaceholderArchive = "{archive}"
	PlaceholderDir     = "{dir}"

	DefaultTimeout = 5 * time.Minute

	maxOutputInError = 512
)

var ErrEmptyCommand = errors.New("archive: empty command line")

// Command extracts archives with an external tool such as expand or cabextract.
type Command struct {
	Name    string
	Args    []string
	Timeout time.Duration
}

// ParseCommand splits a command line on whitespace. Arguments may use the
// {archive} and {dir} placeholders.
func ParseCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}
	return &Command{Name: fields[0], Args: fields[1:], Timeout: DefaultTimeout}, nil
}

func (c *Command) args(archive, dir string) []string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		a = strings.Replace(a, PlaceholderArchive, archive, -1)
		args[i] = strings.Replace(a, PlaceholderDir, dir, -1)
	}
	return args
}

func (c *Command) Extract(ctx context.Context, archive, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "while creating %s", dir)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.args(archive, dir)...)
	log.Debugf("[ARCHIVE] running %s %s", c.Name, strings.Join(cmd.Args[1:], " "))

	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), "extracting %s", archive)
	}

	output := strings.TrimSpace(string(out))
	if len(output) > maxOutputInError {
		output = output[:maxOutputInError]
	}
	if _, ok := err.(*exec.ExitError); ok {
		return errors.Wrapf(ErrExtractFailed, "%s: %s: %s", archive, err.Error(), output)
	}
	return errors.Wrapf(ErrExtractFailed, "%s: %s", c.Name, err.Error())
}
