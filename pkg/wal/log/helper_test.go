package log

import (
	"bytes"
	"errors"

	"logwriter/pkg/util"
)

var errSink = errors.New("disk full")

type fragment struct {
	header  []byte
	payload []byte
}

func (f fragment) checksum() uint32       { return util.DecodeFixed32(f.header[0:4]) }
func (f fragment) length() int            { return int(util.DecodeFixed16(f.header[4:6])) }
func (f fragment) recordType() RecordType { return RecordType(f.header[6]) }

// recordingSink keeps the file image and every call made to it.
type recordingSink struct {
	file      bytes.Buffer
	pads      [][]byte
	fragments []fragment
	// failPair makes the n-th AppendPair call (1-based) fail.
	failPair int
	failPad  bool
	pairs    int
	closed   int
}

func (s *recordingSink) Append(data []byte) error {
	if s.failPad {
		return errSink
	}
	s.pads = append(s.pads, append([]byte(nil), data...))
	s.file.Write(data)
	return nil
}

func (s *recordingSink) AppendPair(header, payload []byte) error {
	s.pairs++
	if s.pairs == s.failPair {
		return errSink
	}
	s.fragments = append(s.fragments, fragment{
		header:  append([]byte(nil), header...),
		payload: append([]byte(nil), payload...),
	})
	s.file.Write(header)
	s.file.Write(payload)
	return nil
}

func (s *recordingSink) Close() error {
	s.closed++
	return nil
}

func repeatedBytes(input []byte, n int) []byte {
	r := make([]byte, 0, len(input)*n)
	for i := 0; i < n; i++ {
		r = append(r, input...)
	}
	return r
}
