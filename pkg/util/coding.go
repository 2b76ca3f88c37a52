package util

import "encoding/binary"

// Fixed-width little-endian encoding used by on-disk headers.

func EncodeFixed16(dst []byte, v uint16) {
	binary.LittleEndian.PutUint16(dst, v)
}

func DecodeFixed16(src []byte) uint16 {
	return binary.LittleEndian.Uint16(src)
}

func EncodeFixed32(dst []byte, v uint32) {
	binary.LittleEndian.PutUint32(dst, v)
}

func DecodeFixed32(src []byte) uint32 {
	return binary.LittleEndian.Uint32(src)
}
