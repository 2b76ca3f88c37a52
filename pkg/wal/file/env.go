// Package file provides the sequential byte sinks log writers append to.
package file

import (
	"io"
	"os"
)

// WritableFile is a sequential file opened for writing.
type WritableFile interface {
	io.Writer
	io.Closer
	Sync() error
}

// NewWritableFile creates name, truncating any previous content.
func NewWritableFile(name string) (*os.File, error) {
	return os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
}

// ReuseWritableFile renames oldName to newName and opens it for writing from
// offset 0 without truncating. Stale bytes past the new tail are left in
// place; readers tell them apart by the log number in recyclable headers.
func ReuseWritableFile(oldName, newName string) (*os.File, error) {
	if err := os.Rename(oldName, newName); err != nil {
		return nil, err
	}
	return os.OpenFile(newName, os.O_WRONLY, 0644)
}
