package export

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

const (
	PlaceholderINF = "{inf}"
	PlaceholderDir = "{dir}"

	DefaultCommandLine = "pnputil /export-driver {inf} {dir}"
	DefaultTimeout     = 5 * time.Minute

	maxStdStreamBufferSize = 4 * 1024
)

var ErrEmptyCommand = errors.New("export: empty command line")

// Command runs an external export tool once per package.
type Command struct {
	Name    string
	Args    []string
	Timeout time.Duration
	// Output receives a copy of the tool's stdout and stderr, nil discards it
	Output io.Writer
}

// ParseCommand splits a command line on whitespace. Arguments may use the
// {inf} and {dir} placeholders; both are appended when neither is present.
func ParseCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}

	c := &Command{Name: fields[0], Args: fields[1:], Timeout: DefaultTimeout}
	if !strings.Contains(line, PlaceholderINF) && !strings.Contains(line, PlaceholderDir) {
		c.Args = append(c.Args, PlaceholderINF, PlaceholderDir)
	}
	return c, nil
}

func (c *Command) args(identity, dir string) []string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		a = strings.Replace(a, PlaceholderINF, identity, -1)
		args[i] = strings.Replace(a, PlaceholderDir, dir, -1)
	}
	return args
}

func (c *Command) Export(ctx context.Context, identity, dir string) (Result, error) {
	res := Result{ExitCode: -1}

	if !driver.IsExportableIdentity(identity) {
		return res, errors.Wrapf(ErrInvalidIdentity, "'%s'", identity)
	}
	if err := CheckDestination(dir); err != nil {
		return res, err
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.args(identity, dir)...)
	osSpecificCommandConfig(cmd)

	output := newLockedWriter(c.Output)
	stdOutBuffer := newCaptureWriter(output, maxStdStreamBufferSize)
	cmd.Stdout = stdOutBuffer
	stdErrBuffer := newCaptureWriter(output, maxStdStreamBufferSize)
	cmd.Stderr = stdErrBuffer

	log.Debugf("[EXPORT] running %s %s", c.Name, strings.Join(cmd.Args[1:], " "))
	startedAt := time.Now()

	err := cmd.Start()
	if err != nil {
		return res, errors.Wrapf(ErrToolUnavailable, "%s: %s", c.Name, err.Error())
	}
	err = cmd.Wait()

	res.Duration = time.Since(startedAt)
	res.Stdout = stdOutBuffer.String()
	res.Stderr = stdErrBuffer.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && ctx.Err() == nil {
			res.ExitCode = exitErr.ExitCode()
			return res, errors.Wrapf(ErrExportFailed, "%s exited with code %d", identity, res.ExitCode)
		}
		if ctx.Err() != nil {
			return res, errors.Wrapf(ctx.Err(), "export of %s", identity)
		}
		return res, errors.Wrapf(err, "export of %s", identity)
	}

	res.ExitCode = cmd.ProcessState.ExitCode()
	return res, nil
}
