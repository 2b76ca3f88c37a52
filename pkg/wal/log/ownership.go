package log

import (
	"io"

	"logwriter/pkg/wal/file"
)

// Arena takes back direct file writers it handed out.
type Arena interface {
	Free(w *file.ConcurrentWriter) error
}

type ownership int

const (
	// the caller keeps the sink's lifecycle
	borrowed ownership = iota
	// the writer closes the sink
	ownedDefault
	// the writer frees the sink into arena
	ownedArena
)

type sinkHandle struct {
	Sink
	ownership ownership
	arena     Arena
}

func (h *sinkHandle) release() error {
	switch h.ownership {
	case ownedDefault:
		return releaseDefault(h.Sink)
	case ownedArena:
		return h.arena.Free(h.Sink.(*file.ConcurrentWriter))
	}
	return nil
}

func releaseDefault(s Sink) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
