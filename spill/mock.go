package spill

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
)

// MemWriter provides an in-memory implementation of the Writer interface.
// It stores all runs in a bytes.Buffer instead of a file on disk, which is
// useful for testing and benchmarking without filesystem I/O, and for
// bounded inputs that are known to fit in memory.
type MemWriter struct {
	data    *bytes.Buffer
	runs    []int
	scratch [binary.MaxVarintLen64]byte
}

// Mock creates a new in-memory Writer. The parameter n sets the initial
// capacity of the underlying buffer to reduce reallocations during writing.
func Mock(n int) *MemWriter {
	var m MemWriter
	m.data = bytes.NewBuffer(make([]byte, 0, n))
	return &m
}

// Append adds one frame to the current run.
func (w *MemWriter) Append(frame []byte) error {
	n := binary.PutUvarint(w.scratch[:], uint64(len(frame)))
	if _, err := w.data.Write(w.scratch[:n]); err != nil {
		return err
	}
	_, err := w.data.Write(frame)
	return err
}

// Next finalizes the current run and starts the next one.
func (w *MemWriter) Next() error {
	pos := w.data.Len()
	if pos == w.lastRun() {
		// nothing appended since the last boundary
		return nil
	}
	w.runs = append(w.runs, pos)
	return nil
}

// Runs returns the number of finalized runs.
func (w *MemWriter) Runs() int {
	return len(w.runs)
}

// Save finalizes the last run and returns a Reader over the buffered data.
func (w *MemWriter) Save() (Reader, error) {
	if err := w.Next(); err != nil {
		return nil, err
	}
	return newMemReader(w.runs, w.data.Bytes()), nil
}

// Close releases the buffered data. Works like an abort, unrecoverable.
func (w *MemWriter) Close() error {
	w.data.Reset()
	w.runs = nil
	w.data = nil
	return nil
}

func (w *MemWriter) lastRun() int {
	if len(w.runs) == 0 {
		return 0
	}
	return w.runs[len(w.runs)-1]
}

type memReader struct {
	data    *bytes.Reader
	readers []*RunReader
}

func newMemReader(runs []int, data []byte) *memReader {
	var r memReader
	r.data = bytes.NewReader(data)
	r.readers = make([]*RunReader, len(runs))

	offset := 0
	for i, end := range runs {
		section := io.NewSectionReader(r.data, int64(offset), int64(end-offset))
		offset = end
		r.readers[i] = &RunReader{br: bufio.NewReaderSize(section, fileBufferSize)}
	}
	return &r
}

func (r *memReader) Runs() int {
	return len(r.readers)
}

func (r *memReader) Run(i int) *RunReader {
	if i < 0 || i >= len(r.readers) {
		panic("spill: run request out of range")
	}
	return r.readers[i]
}

// Close releases the buffer. There is nothing to remove from disk.
func (r *memReader) Close() error {
	r.readers = nil
	r.data = nil
	return nil
}
