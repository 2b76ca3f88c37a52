// Package crc32c implements the CRC-32C (Castagnoli) checksum used by the log
// format.
package crc32c

import (
	"github.com/klauspost/crc32"
)

var table = crc32.MakeTable(crc32.Castagnoli)

// Value returns the crc32c of data.
func Value(data []byte) uint32 {
	return crc32.Checksum(data, table)
}

// Extend returns the crc32c of concat(A, data) where crc is the crc32c of
// some string A.
func Extend(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, table, data)
}
