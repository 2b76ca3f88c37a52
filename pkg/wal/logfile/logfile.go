// Package logfile opens log files in a directory and frames records into them
// with a log.Writer.
package logfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"logwriter/pkg/wal/file"
	"logwriter/pkg/wal/log"

	"github.com/juju/fslock"
	"k8s.io/klog/v2"
)

var ErrInvalidOptions = errors.New("invalid log options")

type Options struct {
	// Recycle selects the recyclable record format.
	Recycle bool
	// RecycleFrom names an older log whose file is renamed and overwritten
	// instead of creating a new one. Zero means a fresh file. Requires Recycle.
	RecycleFrom uint64
	// SyncWrites syncs the file after every record.
	SyncWrites bool
}

func (o Options) Validate() error {
	if o.RecycleFrom != 0 && !o.Recycle {
		return fmt.Errorf("%w: reusing log %d needs the recyclable format", ErrInvalidOptions, o.RecycleFrom)
	}
	return nil
}

// writers is the arena every Log takes its file writer from.
var writers = file.NewPool()

// Log is one open log file. It holds the directory lock until Close.
type Log struct {
	number uint64
	name   string
	opts   Options
	lock   *fslock.Lock
	dest   *file.ConcurrentWriter
	writer *log.Writer
}

// Create opens log number in dir for writing.
func Create(dir string, number uint64, opts Options) (*Log, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.RecycleFrom != 0 && opts.RecycleFrom == number {
		return nil, fmt.Errorf("%w: log %d cannot reuse itself", ErrInvalidOptions, number)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	lock := fslock.New(filepath.Join(dir, lockName))
	if err := lock.TryLock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}

	name := FileName(dir, number)
	var f *os.File
	var err error
	if opts.RecycleFrom != 0 {
		f, err = file.ReuseWritableFile(FileName(dir, opts.RecycleFrom), name)
	} else {
		f, err = file.NewWritableFile(name)
	}
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	dest := writers.Get(f)
	l := &Log{
		number: number,
		name:   name,
		opts:   opts,
		lock:   lock,
		dest:   dest,
		writer: log.NewOwnedWriter(dest, number, opts.Recycle, writers),
	}
	if opts.RecycleFrom != 0 {
		klog.V(2).Infof("New log: number=%d, recycled from %d", number, opts.RecycleFrom)
	} else {
		klog.V(2).Infof("New log: number=%d, recycle=%v", number, opts.Recycle)
	}
	return l, nil
}

func (l *Log) Number() uint64 {
	return l.number
}

func (l *Log) Name() string {
	return l.name
}

// Size returns the bytes appended to the file by this log.
func (l *Log) Size() int64 {
	if l.dest == nil {
		return 0
	}
	return l.dest.Size()
}

// AddRecord appends data as one record.
func (l *Log) AddRecord(data []byte) error {
	if err := l.writer.AddRecord(data); err != nil {
		return err
	}
	if l.opts.SyncWrites {
		return l.Sync()
	}
	return nil
}

// Sync makes every appended record durable.
func (l *Log) Sync() error {
	if err := l.dest.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", log.ErrIO, l.name, err)
	}
	return nil
}

// Close syncs the file, releases it and unlocks the directory.
func (l *Log) Close() error {
	if l.dest == nil {
		return nil
	}
	serr := l.Sync()
	cerr := l.writer.Close()
	l.dest = nil
	uerr := l.lock.Unlock()
	if err := errors.Join(serr, cerr, uerr); err != nil {
		klog.Errorf("Close log %d: %v", l.number, err)
		return err
	}
	klog.V(2).Infof("Closed log: number=%d", l.number)
	return nil
}

// Open returns a reader over log number in dir. The closer releases the file.
func Open(dir string, number uint64) (*log.Reader, io.Closer, error) {
	f, err := os.Open(FileName(dir, number))
	if err != nil {
		return nil, nil, err
	}
	return log.NewReader(f, number), f, nil
}
