package log

import (
	"errors"
	"fmt"
)

type RecordType uint8

// Log format:
//  --- Block ----  <- 32K aligned
//  --- Block ----
//  ---  ...  ----
//  --- Block ----

// Block format:
//  ---- Block ----
//    -- record --
//    -- record --
//    --  ...   --
//    -- record --
//    -- trailer --  zero bytes, shorter than a header
//  ---- Block ----   <- 32K aligned

// Record format:
//   legacy:     (crc:4|length:2|type:1) 7 bytes
//   recyclable: (crc:4|length:2|type:1|log_number:4) 11 bytes
//   --- data-slice ---
//
// crc is the crc32c of the whole logical record, repeated in every fragment.

const (
	// ZeroType is reserved for preallocated files.
	ZeroType = RecordType(0)

	FullType   = RecordType(1)
	FirstType  = RecordType(2)
	MiddleType = RecordType(3)
	LastType   = RecordType(4)

	// For recycled log files
	RecyclableFullType   = RecordType(5)
	RecyclableFirstType  = RecordType(6)
	RecyclableMiddleType = RecordType(7)
	RecyclableLastType   = RecordType(8)

	MaxRecordType = RecyclableLastType

	BlockSize = 32768

	// Header is checksum (4 bytes), length (2 bytes), type (1 byte).
	HeaderSize = 4 + 2 + 1

	// Recyclable header is checksum (4 bytes), length (2 bytes), type (1 byte),
	// log number (4 bytes).
	RecyclableHeaderSize = HeaderSize + 4

	// MaxFragmentLength is the largest payload the 2-byte length field holds.
	MaxFragmentLength = 0xffff
)

var (
	ErrIO          = errors.New("IO error")
	ErrCorruption  = errors.New("Corruption Error")
	ErrStaleRecord = errors.New("record from an older log")
)

// IsRecyclable reports whether t uses the recyclable header layout.
func (t RecordType) IsRecyclable() bool {
	return t >= RecyclableFullType
}

func (t RecordType) HeaderSize() int {
	if t.IsRecyclable() {
		return RecyclableHeaderSize
	}
	return HeaderSize
}

// position folds recyclable codes onto their legacy counterpart.
func (t RecordType) position() RecordType {
	if t.IsRecyclable() {
		return t - RecyclableFullType + FullType
	}
	return t
}

func (t RecordType) String() string {
	prefix := ""
	if t.IsRecyclable() && t <= MaxRecordType {
		prefix = "RECYCLABLE_"
	}
	switch t.position() {
	case ZeroType:
		return "ZERO"
	case FullType:
		return prefix + "FULL"
	case FirstType:
		return prefix + "FIRST"
	case MiddleType:
		return prefix + "MIDDLE"
	case LastType:
		return prefix + "LAST"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}
