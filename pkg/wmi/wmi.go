// +build windows

package wmiutil

import (
	"context"
	"time"

	"github.com/StackExchange/wmi"
	"github.com/pkg/errors"
)

var ErrTimeout = errors.New("wmiutil: query timed out")

// QueryWithTimeout runs a WMI query and stops waiting for it once ctx is done or timeout elapsed.
// The query itself cannot be aborted, its goroutine finishes in the background.
func QueryWithTimeout(ctx context.Context, timeout time.Duration, query string, dst interface{}, connectServerArgs ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- wmi.Query(query, dst, connectServerArgs...)
	}()

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return errors.Wrapf(ErrTimeout, "after %s: %s", timeout, query)
		}
		return ctx.Err()
	case err := <-errChan:
		return errors.Wrapf(err, "wmiutil: %s", query)
	}
}

// CreateQuery builds a SELECT for the fields of dst's element type.
func CreateQuery(dst interface{}, where string) string {
	return wmi.CreateQuery(dst, where)
}
