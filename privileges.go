package drvbackup

import "github.com/pkg/errors"

var ErrNotElevated = errors.New("administrator privileges are required to export driver packages")
