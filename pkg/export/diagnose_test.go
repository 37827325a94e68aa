package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestDiagnose(t *testing.T) {
	failed := errors.Wrap(ErrExportFailed, "oem1.inf")

	cases := []struct {
		name string
		res  Result
		err  error
		want Advice
	}{
		{"success", Result{ExitCode: 0}, nil, AdviceUnknown},
		{"tool-missing", Result{ExitCode: -1}, errors.Wrap(ErrToolUnavailable, "pnputil"), AdviceToolUnavailable},
		{"unsafe-path", Result{ExitCode: -1}, CheckDestination(`C:\out\..\x`), AdviceUnsafePath},
		{"access-denied", Result{ExitCode: 5, Stderr: "Access is denied."}, failed, AdvicePermission},
		{"not-found", Result{ExitCode: 2, Stderr: "The system cannot find the file specified."}, failed, AdviceMissingPackage},
		{"target-dir", Result{ExitCode: 1, Stdout: "Missing or invalid target directory."}, failed, AdvicePathLength},
		{"exit-87", Result{ExitCode: 87}, failed, AdvicePathLength},
		{"data-invalid", Result{ExitCode: 1, Stdout: "Failed to export driver package: The data is invalid."}, failed, AdviceCorrupted},
		{"exit-13", Result{ExitCode: 13}, failed, AdviceCorrupted},
		{"stderr-first", Result{ExitCode: 87, Stderr: "access denied"}, failed, AdvicePermission},
		{"unclassified", Result{ExitCode: 1, Stdout: "something else"}, failed, AdviceUnknown},
		{"timeout", Result{ExitCode: -1}, errors.Wrap(context.DeadlineExceeded, "export"), AdviceUnknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Diagnose(c.res, c.err))
		})
	}
}

func TestCheckDestination(t *testing.T) {
	assert.NoError(t, CheckDestination(`C:\backup\drivers_20230115_103000\Net\NIC_1.0 Package`))
	assert.True(t, errors.Is(CheckDestination(`C:\backup\..\Windows`), ErrUnsafePath))
	assert.True(t, errors.Is(CheckDestination(`%TEMP%\x`), ErrUnsafePath))
}

func TestCheckContained(t *testing.T) {
	root := filepath.Join("out", "drivers_20230115_103000")

	assert.NoError(t, CheckContained(root, filepath.Join(root, "Net", "NIC_1.0 Package")))
	assert.True(t, errors.Is(CheckContained(root, filepath.Join(root, "..", "Evil_1.0 Package")), ErrUnsafePath))
	assert.True(t, errors.Is(CheckContained(root, root), ErrUnsafePath))
	assert.True(t, errors.Is(CheckContained(root, filepath.Join("out", "drivers_20230115_103000x")), ErrUnsafePath))
}

func TestDryRun(t *testing.T) {
	d := &DryRun{}
	res, err := d.Export(context.Background(), "oem1.inf", "/out/Net/x")
	assert.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, []Call{{Identity: "oem1.inf", Dir: "/out/Net/x"}}, d.Calls)
}

func TestParseCommand(t *testing.T) {
	c, err := ParseCommand(DefaultCommandLine)
	assert.NoError(t, err)
	assert.Equal(t, "pnputil", c.Name)
	assert.Equal(t, []string{"/export-driver", "{inf}", "{dir}"}, c.Args)
	assert.Equal(t, []string{"/export-driver", "oem3.inf", `C:\out`}, c.args("oem3.inf", `C:\out`))

	c, err = ParseCommand("  dism /online /export-driver  ")
	assert.NoError(t, err)
	assert.Equal(t, []string{"/online", "/export-driver", "{inf}", "{dir}"}, c.Args)

	c, err = ParseCommand("tool --dest={dir}")
	assert.NoError(t, err)
	assert.Equal(t, []string{"--dest=/tmp/x"}, c.args("oem1.inf", "/tmp/x"))

	_, err = ParseCommand("   ")
	assert.Equal(t, ErrEmptyCommand, err)
}
