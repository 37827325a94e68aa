package export

import (
	"io"
	"sync"
)

// lockedWriter serializes writes to w, exec copies stdout and stderr from separate goroutines
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newLockedWriter(w io.Writer) io.Writer {
	if w == nil {
		return nil
	}
	return &lockedWriter{w: w}
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// captureWriter copies all data to the destination writer and keeps the last n bytes
type captureWriter struct {
	buf []byte
	n   int
	dst io.Writer
}

func newCaptureWriter(dst io.Writer, n int) *captureWriter {
	if dst == nil {
		dst = io.Discard
	}
	return &captureWriter{buf: make([]byte, 0, n), n: n, dst: dst}
}

func (w *captureWriter) String() string {
	return string(w.buf)
}

func (w *captureWriter) Write(p []byte) (n int, err error) {
	gotLen := len(p)
	switch {
	case gotLen >= w.n:
		w.buf = append(w.buf[:0], p[gotLen-w.n:]...)
	case len(w.buf)+gotLen <= w.n:
		w.buf = append(w.buf, p...)
	default:
		drop := len(w.buf) + gotLen - w.n
		w.buf = append(w.buf[:0], w.buf[drop:]...)
		w.buf = append(w.buf, p...)
	}

	return w.dst.Write(p)
}
