package export

import (
	"strings"

	"github.com/pkg/errors"
)

// Advice is the guidance printed for a failed export.
type Advice string

const (
	AdvicePermission      Advice = "This might be a permissions issue. Try running as Administrator."
	AdviceMissingPackage  Advice = "Driver package might be corrupted or already removed."
	AdvicePathLength      Advice = "Path too long or invalid. Try a shorter output directory."
	AdviceCorrupted       Advice = "This driver may be protected or corrupted. Skipping."
	AdviceToolUnavailable Advice = "Make sure the export tool is in your PATH and you have administrative privileges."
	AdviceUnsafePath      Advice = "The destination path contains '..' or '%' and was skipped."
	AdviceUnknown         Advice = ""
)

const (
	exitCodeInvalidParameter = 87
	exitCodeInvalidData      = 13
)

// Diagnose classifies a failed export by the tool's output and exit code.
// The rules are checked in order, the first match wins.
func Diagnose(res Result, err error) Advice {
	switch {
	case err == nil:
		return AdviceUnknown
	case errors.Is(err, ErrToolUnavailable):
		return AdviceToolUnavailable
	case errors.Is(err, ErrUnsafePath):
		return AdviceUnsafePath
	}

	stderr := strings.ToLower(res.Stderr)
	stdout := strings.ToLower(res.Stdout)

	switch {
	case strings.Contains(stderr, "access") || strings.Contains(stderr, "denied"):
		return AdvicePermission
	case strings.Contains(stderr, "not found") || strings.Contains(stderr, "cannot find"):
		return AdviceMissingPackage
	case strings.Contains(stdout, "missing or invalid target directory") || res.ExitCode == exitCodeInvalidParameter:
		return AdvicePathLength
	case strings.Contains(stdout, "the data is invalid") || res.ExitCode == exitCodeInvalidData:
		return AdviceCorrupted
	}
	return AdviceUnknown
}
