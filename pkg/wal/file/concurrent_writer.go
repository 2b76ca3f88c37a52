package file

import (
	"bufio"
	"errors"
	"os"
	"sync"
)

const defaultBufferSize = 64 * 1024

var ErrClosed = errors.New("file writer closed")

// ConcurrentWriter appends to a file on behalf of any number of producers.
// Every Append or AppendPair lands in the file as one contiguous run of bytes,
// never interleaved with another producer's call.
type ConcurrentWriter struct {
	mu     sync.Mutex
	f      *os.File
	buf    *bufio.Writer
	size   int64
	closed bool
}

func NewConcurrentWriter(f *os.File) *ConcurrentWriter {
	w := &ConcurrentWriter{}
	w.reset(f)
	return w
}

func (w *ConcurrentWriter) reset(f *os.File) {
	w.f = f
	w.size = 0
	w.closed = f == nil
	if w.buf == nil {
		w.buf = bufio.NewWriterSize(f, defaultBufferSize)
	} else {
		w.buf.Reset(f)
	}
}

func (w *ConcurrentWriter) Append(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.write(data)
}

// AppendPair writes header immediately followed by payload. If either write
// fails, the buffered writer keeps that error and refuses every later write,
// so nothing can land after a partial pair.
func (w *ConcurrentWriter) AppendPair(header, payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.write(header); err != nil {
		return err
	}
	return w.write(payload)
}

// should hold w.mu
func (w *ConcurrentWriter) write(p []byte) error {
	if w.closed {
		return ErrClosed
	}
	n, err := w.buf.Write(p)
	w.size += int64(n)
	return err
}

// Size returns the number of bytes appended so far, buffered or not.
func (w *ConcurrentWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *ConcurrentWriter) Name() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return ""
	}
	return w.f.Name()
}

func (w *ConcurrentWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.buf.Flush()
}

// Sync flushes buffered bytes and waits until the file data is durable.
func (w *ConcurrentWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return fdatasync(w.f)
}

// Close flushes and closes the file. Closing twice is a no-op.
func (w *ConcurrentWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	ferr := w.buf.Flush()
	cerr := w.f.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}
