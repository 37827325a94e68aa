package common

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ErrorCollector accumulates non-fatal errors so a run can continue past them.
type ErrorCollector struct {
	errs []error
}

func (c *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	c.errs = append(c.errs, err)
}

func (c *ErrorCollector) AddNew(text string) {
	c.Add(errors.New(text))
}

func (c *ErrorCollector) AddNewf(format string, args ...interface{}) {
	c.Add(fmt.Errorf(format, args...))
}

func (c *ErrorCollector) HasErrors() bool {
	return len(c.errs) > 0
}

func (c *ErrorCollector) Len() int {
	return len(c.errs)
}

// Errors returns the collected errors in the order they were added.
func (c *ErrorCollector) Errors() []error {
	return c.errs
}

// Combine returns nil or a multierror holding every collected error.
// Its message lists the errors separated by "; ".
func (c *ErrorCollector) Combine() error {
	if !c.HasErrors() {
		return nil
	}

	merr := multierror.Append(nil, c.errs...)
	merr.ErrorFormat = func(errs []error) string {
		return joinErrors(errs)
	}
	return merr
}

func (c *ErrorCollector) String() string {
	return joinErrors(c.errs)
}

func joinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
