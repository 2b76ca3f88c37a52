package file

import (
	"bufio"
)

// WritableFileWriter is a buffered single-producer writer over a
// WritableFile. It is not safe for concurrent use.
type WritableFileWriter struct {
	dest WritableFile
	buf  *bufio.Writer
	size int64
}

func NewWritableFileWriter(dest WritableFile) *WritableFileWriter {
	return &WritableFileWriter{
		dest: dest,
		buf:  bufio.NewWriterSize(dest, defaultBufferSize),
	}
}

func (w *WritableFileWriter) Append(data []byte) error {
	n, err := w.buf.Write(data)
	w.size += int64(n)
	return err
}

func (w *WritableFileWriter) AppendPair(header, payload []byte) error {
	if err := w.Append(header); err != nil {
		return err
	}
	return w.Append(payload)
}

func (w *WritableFileWriter) Size() int64 {
	return w.size
}

func (w *WritableFileWriter) Flush() error {
	return w.buf.Flush()
}

func (w *WritableFileWriter) Sync() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.dest.Sync()
}

func (w *WritableFileWriter) Close() error {
	ferr := w.buf.Flush()
	cerr := w.dest.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}
