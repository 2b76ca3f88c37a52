package log

import (
	"bytes"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"logwriter/pkg/util"
	"logwriter/pkg/wal/file"

	"gotest.tools/v3/assert"
)

func TestLogWriterAndReader(t *testing.T) {
	recordOne := []byte("record one")
	recordTwo := []byte("record two")
	recordLarge := make([]byte, 64*1024)
	recordFour := []byte("record four")

	name := filepath.Join(t.TempDir(), "000001.log")
	f, err := file.NewWritableFile(name)
	assert.NilError(t, err)

	w := NewOwnedWriter(file.NewConcurrentWriter(f), 1, false, nil)
	for _, r := range [][]byte{recordOne, recordTwo, recordLarge, recordFour} {
		assert.NilError(t, w.AddRecord(r))
	}
	assert.NilError(t, w.Close())

	rf, err := os.Open(name)
	assert.NilError(t, err)
	defer rf.Close()
	r := NewReader(rf, 1)

	for _, want := range [][]byte{recordOne, recordTwo, recordLarge, recordFour} {
		record, err := r.ReadRecord()
		assert.NilError(t, err)
		assert.DeepEqual(t, record, want)
	}
	_, err = r.ReadRecord()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRoundTrip(t *testing.T) {
	sizes := []int{
		0, 1, 100,
		BlockSize - HeaderSize, BlockSize - RecyclableHeaderSize,
		BlockSize - 2*HeaderSize, BlockSize - 2*RecyclableHeaderSize,
		BlockSize, 3*BlockSize + 17, 0,
	}
	rnd := rand.New(rand.NewSource(301))
	for i := 0; i < 200; i++ {
		sizes = append(sizes, rnd.Intn(2*BlockSize))
	}

	for _, recycle := range []bool{false, true} {
		var buf bytes.Buffer
		w := NewWriter(file.NewWritableFileWriter(nopSyncCloser{&buf}), 12, recycle)
		records := make([][]byte, len(sizes))
		for i, n := range sizes {
			records[i] = make([]byte, n)
			rnd.Read(records[i])
			assert.NilError(t, w.AddRecord(records[i]))
		}
		assert.NilError(t, w.File().(*file.WritableFileWriter).Flush())

		r := NewReader(bytes.NewReader(buf.Bytes()), 12)
		for i, want := range records {
			record, err := r.ReadRecord()
			assert.NilError(t, err, "record %d", i)
			assert.Equal(t, len(record), len(want), "record %d", i)
			assert.Assert(t, bytes.Equal(record, want), "record %d", i)
		}
		_, err := r.ReadRecord()
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestReadPhysicalRecord(t *testing.T) {
	sink := &recordingSink{}
	w := NewWriter(sink, 2, true)
	assert.NilError(t, w.AddRecord([]byte("abc")))
	assert.NilError(t, w.AddRecord(make([]byte, 40000)))

	r := NewReader(bytes.NewReader(sink.file.Bytes()), 2)
	var got []PhysicalRecord
	for {
		rec, err := r.ReadPhysicalRecord()
		if err == io.EOF {
			break
		}
		assert.NilError(t, err)
		rec.Payload = nil
		got = append(got, rec)
	}
	assert.Equal(t, len(got), 3)
	assert.Equal(t, got[0].Offset, int64(0))
	assert.Equal(t, got[0].Type, RecyclableFullType)
	assert.Equal(t, got[0].LogNumber, uint32(2))
	assert.Equal(t, got[1].Offset, int64(RecyclableHeaderSize+3))
	assert.Equal(t, got[1].Type, RecyclableFirstType)
	assert.Equal(t, got[2].Offset, int64(BlockSize))
	assert.Equal(t, got[2].Type, RecyclableLastType)
	assert.Equal(t, got[1].Checksum, got[2].Checksum)
}

func TestReaderChecksumMismatch(t *testing.T) {
	sink := &recordingSink{}
	w := NewWriter(sink, 1, false)
	assert.NilError(t, w.AddRecord([]byte("test-log-record")))

	raw := sink.file.Bytes()
	raw[HeaderSize] ^= 0x01 // corrupt payload to trigger CRC mismatch

	r := NewReader(bytes.NewReader(raw), 1)
	_, err := r.ReadRecord()
	assert.ErrorIs(t, err, ErrCorruption)
}

func TestReaderUnknownType(t *testing.T) {
	sink := &recordingSink{}
	w := NewWriter(sink, 1, false)
	assert.NilError(t, w.AddRecord([]byte("abc")))

	raw := sink.file.Bytes()
	raw[6] = 42

	r := NewReader(bytes.NewReader(raw), 1)
	_, err := r.ReadRecord()
	assert.ErrorIs(t, err, ErrCorruption)
}

func TestReaderStaleRecycledTail(t *testing.T) {
	old := &recordingSink{}
	w := NewWriter(old, 3, true)
	for i := 0; i < 4; i++ {
		assert.NilError(t, w.AddRecord(bytes.Repeat([]byte{'o'}, 100)))
	}

	cur := &recordingSink{}
	w = NewWriter(cur, 7, true)
	for i := 0; i < 2; i++ {
		assert.NilError(t, w.AddRecord(bytes.Repeat([]byte{'n'}, 100)))
	}

	image := old.file.Bytes()
	copy(image, cur.file.Bytes())

	r := NewReader(bytes.NewReader(image), 7)
	for i := 0; i < 2; i++ {
		record, err := r.ReadRecord()
		assert.NilError(t, err)
		assert.DeepEqual(t, record, bytes.Repeat([]byte{'n'}, 100))
	}
	_, err := r.ReadRecord()
	assert.ErrorIs(t, err, io.EOF)

	r = NewReader(bytes.NewReader(image), 7)
	for i := 0; i < 2; i++ {
		_, err := r.ReadPhysicalRecord()
		assert.NilError(t, err)
	}
	rec, err := r.ReadPhysicalRecord()
	assert.ErrorIs(t, err, ErrStaleRecord)
	assert.Equal(t, rec.LogNumber, uint32(3))
}

func TestReaderLogNumberMismatchInsideRecord(t *testing.T) {
	sink := &recordingSink{}
	w := NewWriter(sink, 7, true)
	assert.NilError(t, w.AddRecord(make([]byte, 40000)))

	raw := sink.file.Bytes()
	util.EncodeFixed32(raw[BlockSize+7:], 3)

	r := NewReader(bytes.NewReader(raw), 7)
	_, err := r.ReadRecord()
	assert.ErrorIs(t, err, ErrCorruption)
}

func TestReaderTruncatedTail(t *testing.T) {
	sink := &recordingSink{}
	w := NewWriter(sink, 1, false)
	assert.NilError(t, w.AddRecord([]byte("abc")))
	assert.NilError(t, w.AddRecord(make([]byte, 40000)))
	raw := sink.file.Bytes()

	for _, cut := range []int{len(raw) - 100, BlockSize + 3, HeaderSize + 3 + 2} {
		r := NewReader(bytes.NewReader(raw[:cut]), 1)
		record, err := r.ReadRecord()
		assert.NilError(t, err)
		assert.DeepEqual(t, record, []byte("abc"))
		_, err = r.ReadRecord()
		assert.ErrorIs(t, err, io.EOF, "cut at %d", cut)
	}

	r := NewReader(bytes.NewReader(raw[:len(raw)-100]), 1)
	for i := 0; i < 2; i++ {
		_, err := r.ReadPhysicalRecord()
		assert.NilError(t, err)
	}
	_, err := r.ReadPhysicalRecord()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReaderZeroedTail(t *testing.T) {
	sink := &recordingSink{}
	w := NewWriter(sink, 1, false)
	assert.NilError(t, w.AddRecord([]byte("abc")))

	image := append(sink.file.Bytes(), make([]byte, 1000)...)
	r := NewReader(bytes.NewReader(image), 1)
	record, err := r.ReadRecord()
	assert.NilError(t, err)
	assert.DeepEqual(t, record, []byte("abc"))
	_, err = r.ReadRecord()
	assert.ErrorIs(t, err, io.EOF)
}

type nopSyncCloser struct {
	io.Writer
}

func (nopSyncCloser) Sync() error  { return nil }
func (nopSyncCloser) Close() error { return nil }

func TestReaderLegacyTailAfterRecycled(t *testing.T) {
	old := &recordingSink{}
	w := NewWriter(old, 3, false)
	for _, r := range []string{"aaaa", "bbbb", "cccc"} {
		assert.NilError(t, w.AddRecord([]byte(r)))
	}

	// an empty recyclable record ends exactly on the header of "bbbb"
	cur := &recordingSink{}
	w = NewWriter(cur, 7, true)
	assert.NilError(t, w.AddRecord(nil))

	image := old.file.Bytes()
	copy(image, cur.file.Bytes())

	r := NewReader(bytes.NewReader(image), 7)
	record, err := r.ReadRecord()
	assert.NilError(t, err)
	assert.Equal(t, len(record), 0)
	_, err = r.ReadRecord()
	assert.ErrorIs(t, err, io.EOF)

	r = NewReader(bytes.NewReader(image), 7)
	_, err = r.ReadPhysicalRecord()
	assert.NilError(t, err)
	rec, err := r.ReadPhysicalRecord()
	assert.ErrorIs(t, err, ErrStaleRecord)
	assert.Equal(t, rec.Type, FullType)
	assert.Equal(t, rec.Offset, int64(RecyclableHeaderSize))
}

func TestReaderLegacyFragmentInsideRecycledRecord(t *testing.T) {
	sink := &recordingSink{}
	w := NewWriter(sink, 7, true)
	assert.NilError(t, w.AddRecord(repeatedBytes([]byte("x"), 40000)))

	// rewrite the recyclable Last fragment of block 1 as a legacy one
	image := sink.file.Bytes()
	last := image[BlockSize:]
	length := util.DecodeFixed16(last[4:6])
	util.EncodeFixed16(last[4:6], length+RecyclableHeaderSize-HeaderSize)
	last[6] = byte(LastType)

	r := NewReader(bytes.NewReader(image), 7)
	_, err := r.ReadRecord()
	assert.ErrorIs(t, err, ErrCorruption)
}
