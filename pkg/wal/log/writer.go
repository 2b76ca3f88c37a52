package log

import (
	"fmt"

	"logwriter/pkg/util"
	"logwriter/pkg/util/crc32c"
	"logwriter/pkg/wal/file"
)

// Sink receives the bytes of a log file in order. AppendPair must hand off
// header and payload as one unit, with nothing from other producers between
// them.
type Sink interface {
	Append(data []byte) error
	AppendPair(header, payload []byte) error
}

// Writer frames records into the blocks of one log file.
// It is not safe for concurrent use.
type Writer struct {
	dest        sinkHandle
	blockOffset int // Current offset in block
	logNumber   uint64
	recycle     bool

	// crc32c of each type byte, pre-computed
	typeCRC [MaxRecordType + 1]uint32
}

// NewWriter returns a writer appending to dest. The caller keeps ownership of
// dest; Close leaves it open.
func NewWriter(dest Sink, logNumber uint64, recycle bool) *Writer {
	return newWriter(sinkHandle{Sink: dest, ownership: borrowed}, logNumber, recycle)
}

// NewOwnedWriter returns a writer that owns dest. On Close dest is freed into
// arena, or closed when arena is nil.
func NewOwnedWriter(dest *file.ConcurrentWriter, logNumber uint64, recycle bool, arena Arena) *Writer {
	h := sinkHandle{Sink: dest, ownership: ownedDefault}
	if arena != nil {
		h.ownership = ownedArena
		h.arena = arena
	}
	return newWriter(h, logNumber, recycle)
}

// NewLegacyWriter returns a writer that owns and eventually closes dest.
func NewLegacyWriter(dest *file.WritableFileWriter, logNumber uint64, recycle bool) *Writer {
	return newWriter(sinkHandle{Sink: dest, ownership: ownedDefault}, logNumber, recycle)
}

func newWriter(dest sinkHandle, logNumber uint64, recycle bool) *Writer {
	w := &Writer{
		dest:      dest,
		logNumber: logNumber,
		recycle:   recycle,
	}
	for i := 0; i <= int(MaxRecordType); i++ {
		w.typeCRC[i] = crc32c.Value([]byte{byte(i)})
	}
	return w
}

var zeroTrailer [RecyclableHeaderSize - 1]byte

// AddRecord appends data as one logical record, checksummed with the crc32c
// of data.
func (w *Writer) AddRecord(data []byte) error {
	return w.AddRecordWithChecksum(data, crc32c.Value(data))
}

// AddRecordWithChecksum appends data as one logical record and stores crc in
// the header of every fragment. On error the fragments already handed to the
// sink stay there and the block offset accounts for them.
func (w *Writer) AddRecordWithChecksum(data []byte, crc uint32) error {
	util.AssertWithMsg(w.dest.Sink != nil, "log %d: writer used after release", w.logNumber)

	headerSize := HeaderSize
	if w.recycle {
		headerSize = RecyclableHeaderSize
	}

	// An empty record still gets one zero-length fragment.
	left := len(data)
	off := 0
	begin := true
	for {
		leftover := BlockSize - w.blockOffset
		util.Assert(leftover >= 0)

		// fill zeroes and switch to a new block
		if leftover < headerSize {
			if leftover > 0 {
				if err := w.dest.Append(zeroTrailer[:leftover]); err != nil {
					return fmt.Errorf("%w: fill block trailer: %w", ErrIO, err)
				}
			}
			w.blockOffset = 0
		}

		avail := BlockSize - w.blockOffset - headerSize
		fragmentLength := left
		if left > avail {
			fragmentLength = avail
		}

		end := left == fragmentLength
		err := w.emitPhysicalRecord(w.recordType(begin, end), data[off:off+fragmentLength], crc)
		if err != nil {
			return err
		}

		off += fragmentLength
		left -= fragmentLength
		begin = false
		if left == 0 {
			return nil
		}
	}
}

func (w *Writer) recordType(begin, end bool) RecordType {
	var t RecordType
	switch {
	case begin && end:
		t = FullType
	case begin:
		t = FirstType
	case end:
		t = LastType
	default:
		t = MiddleType
	}
	if w.recycle {
		t += RecyclableFullType - FullType
	}
	return t
}

func (w *Writer) emitPhysicalRecord(t RecordType, data []byte, crc uint32) error {
	n := len(data)
	util.AssertWithMsg(n <= MaxFragmentLength, "fragment of %d bytes does not fit in two bytes", n)

	var buf [RecyclableHeaderSize]byte
	util.EncodeFixed16(buf[4:6], uint16(n))
	buf[6] = byte(t)

	headerSize := t.HeaderSize()
	if t.IsRecyclable() {
		// Only the low 32 bits of the log number are kept. A record left
		// over from the log recycled ~4 billion logs ago reads as current.
		util.EncodeFixed32(buf[7:], uint32(w.logNumber))
	}
	util.AssertWithMsg(w.blockOffset+headerSize+n <= BlockSize,
		"fragment of %d bytes at block offset %d overflows the block", n, w.blockOffset)

	util.EncodeFixed32(buf[0:], crc)

	if err := w.dest.AppendPair(buf[:headerSize], data); err != nil {
		return fmt.Errorf("%w: append %v record: %w", ErrIO, t, err)
	}
	w.blockOffset += headerSize + n
	return nil
}

// TypeChecksum returns the crc32c of the single type byte t.
func (w *Writer) TypeChecksum(t RecordType) uint32 {
	return w.typeCRC[t]
}

// BlockOffset returns the bytes used in the current block.
func (w *Writer) BlockOffset() int {
	return w.blockOffset
}

func (w *Writer) LogNumber() uint64 {
	return w.logNumber
}

func (w *Writer) IsRecycled() bool {
	return w.recycle
}

// File returns the sink, or nil once it was released.
func (w *Writer) File() Sink {
	return w.dest.Sink
}

// Close releases the sink the way it was handed to the writer: borrowed sinks
// are left alone, owned ones are closed or freed into their arena. Nothing is
// padded or flushed first.
func (w *Writer) Close() error {
	if w.dest.Sink == nil {
		return nil
	}
	h := w.dest
	w.dest = sinkHandle{}
	return h.release()
}

// ReleaseFile hands the sink over for release regardless of who owned it. A
// direct file writer goes back to arena; anything else, or a nil arena, is
// closed.
func (w *Writer) ReleaseFile(arena Arena) error {
	if w.dest.Sink == nil {
		return nil
	}
	s := w.dest.Sink
	w.dest = sinkHandle{}
	if arena != nil {
		if cw, ok := s.(*file.ConcurrentWriter); ok {
			return arena.Free(cw)
		}
	}
	return releaseDefault(s)
}
