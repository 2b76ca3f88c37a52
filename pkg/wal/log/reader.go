package log

import (
	"errors"
	"fmt"
	"io"

	"logwriter/pkg/util"
	"logwriter/pkg/util/crc32c"
)

var (
	errZeroed    = errors.New("zeroed header")
	errTruncated = errors.New("truncated record at end of file")
)

// PhysicalRecord is one framed fragment as found in the file.
type PhysicalRecord struct {
	Offset    int64 // file offset of the header
	Type      RecordType
	Checksum  uint32
	LogNumber uint32 // recyclable records only
	// Payload aliases the reader's block buffer and is only valid until the
	// next read.
	Payload []byte
}

// Reader parses records written by Writer. Legacy and recyclable fragments are
// told apart by their type code, so one Reader handles both.
type Reader struct {
	src       io.Reader
	logNumber uint32
	buf       [BlockSize]byte
	n         int   // valid bytes in buf
	pos       int   // next unread byte in buf
	blockNum  int64 // index of the block held in buf
	eof       bool
	// recycled is set once a recyclable record was seen. Past that point,
	// garbage at a record boundary is taken as the end of the log.
	recycled bool
}

// NewReader returns a reader over src. Recyclable records must carry the low
// 32 bits of logNumber to be accepted.
func NewReader(src io.Reader, logNumber uint64) *Reader {
	return &Reader{
		src:       src,
		logNumber: uint32(logNumber),
		blockNum:  -1,
	}
}

// ReadRecord reassembles the next logical record. It returns io.EOF at the end
// of the log, which includes a record cut short by a crash and stale records
// of an older log in a recycled file.
func (r *Reader) ReadRecord() ([]byte, error) {
	var record []byte
	var crc uint32
	inFragmentedRecord := false
	for {
		rec, err := r.readPhysicalRecord()
		if err != nil {
			switch {
			case errors.Is(err, errTruncated):
				return nil, io.EOF
			case !inFragmentedRecord && (errors.Is(err, errZeroed) || errors.Is(err, ErrStaleRecord)):
				return nil, io.EOF
			case !inFragmentedRecord && r.recycled && errors.Is(err, ErrCorruption):
				return nil, io.EOF
			case errors.Is(err, errZeroed), errors.Is(err, ErrStaleRecord):
				return nil, fmt.Errorf("%w: %v in middle of record", ErrCorruption, err)
			}
			return nil, err
		}

		switch rec.Type.position() {
		case FullType:
			if inFragmentedRecord {
				return nil, fmt.Errorf("%w: partial record without end", ErrCorruption)
			}
			record = make([]byte, len(rec.Payload))
			copy(record, rec.Payload)
			return checked(record, rec.Checksum)
		case FirstType:
			if inFragmentedRecord {
				return nil, fmt.Errorf("%w: partial record without end", ErrCorruption)
			}
			inFragmentedRecord = true
			crc = rec.Checksum
			record = make([]byte, 0, 2*len(rec.Payload))
			record = append(record, rec.Payload...)
		case MiddleType, LastType:
			if !inFragmentedRecord {
				return nil, fmt.Errorf("%w: missing start of fragmented record", ErrCorruption)
			}
			if rec.Checksum != crc {
				return nil, fmt.Errorf("%w: checksum changed inside record at offset %d", ErrCorruption, rec.Offset)
			}
			record = append(record, rec.Payload...)
			if rec.Type.position() == LastType {
				return checked(record, crc)
			}
		}
	}
}

func checked(record []byte, crc uint32) ([]byte, error) {
	if actual := crc32c.Value(record); actual != crc {
		return nil, fmt.Errorf("%w: checksum mismatch, expected %#x got %#x", ErrCorruption, crc, actual)
	}
	return record, nil
}

// ReadPhysicalRecord returns the next fragment without reassembly. It returns
// io.EOF at the end of the log, io.ErrUnexpectedEOF for a fragment cut short
// by the end of the file and ErrStaleRecord for a recyclable fragment of
// another log.
func (r *Reader) ReadPhysicalRecord() (PhysicalRecord, error) {
	rec, err := r.readPhysicalRecord()
	switch {
	case errors.Is(err, errZeroed):
		return rec, io.EOF
	case errors.Is(err, errTruncated):
		return rec, io.ErrUnexpectedEOF
	}
	return rec, err
}

func (r *Reader) readPhysicalRecord() (PhysicalRecord, error) {
	for {
		remaining := r.n - r.pos
		if remaining < HeaderSize {
			if r.eof {
				if remaining > 0 && !isZero(r.buf[r.pos:r.n]) {
					return PhysicalRecord{}, errTruncated
				}
				return PhysicalRecord{}, io.EOF
			}
			// the tail of a full block is a trailer
			if err := r.readBlock(); err != nil {
				return PhysicalRecord{}, err
			}
			continue
		}

		header := r.buf[r.pos:r.n]
		crc := util.DecodeFixed32(header[0:4])
		length := int(util.DecodeFixed16(header[4:6]))
		t := RecordType(header[6])
		offset := r.blockNum*BlockSize + int64(r.pos)

		if t == ZeroType && length == 0 && crc == 0 {
			// Recyclable writers pad tails of up to RecyclableHeaderSize-1 bytes.
			if remaining < RecyclableHeaderSize && isZero(header) {
				r.pos = r.n
				continue
			}
			return PhysicalRecord{Offset: offset}, errZeroed
		}
		if t == ZeroType || t > MaxRecordType {
			return PhysicalRecord{}, fmt.Errorf("%w: unknown record type %d at offset %d", ErrCorruption, t, offset)
		}

		headerSize := t.HeaderSize()
		if headerSize+length > remaining {
			if r.eof {
				return PhysicalRecord{}, errTruncated
			}
			return PhysicalRecord{}, fmt.Errorf("%w: record at offset %d overflows its block", ErrCorruption, offset)
		}

		rec := PhysicalRecord{
			Offset:   offset,
			Type:     t,
			Checksum: crc,
			Payload:  header[headerSize : headerSize+length],
		}
		r.pos += headerSize + length

		if t.IsRecyclable() {
			rec.LogNumber = util.DecodeFixed32(header[7:11])
			if rec.LogNumber != r.logNumber {
				return rec, fmt.Errorf("%w: log number %d, expected %d", ErrStaleRecord, rec.LogNumber, r.logNumber)
			}
			r.recycled = true
		} else if r.recycled {
			// a recycled log never mixes in legacy records, so this one
			// was left behind by the file's previous log
			return rec, fmt.Errorf("%w: %v record in recycled log", ErrStaleRecord, t)
		}
		return rec, nil
	}
}

func (r *Reader) readBlock() error {
	n, err := io.ReadFull(r.src, r.buf[:])
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		r.eof = true
	default:
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	r.blockNum++
	r.n = n
	r.pos = 0
	return nil
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
