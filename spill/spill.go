// Package spill stores the sorted runs a streaming sort writes out while the
// input is larger than memory. All runs written through one Writer share a
// single real file on the filesystem; each run is a virtual section of that
// file which can be read back independently (and concurrently) during the
// merge phase, and the file is removed when the reader is closed.
//
// Frames are length-prefixed with a uvarint, so a run is read back as the
// exact sequence of byte slices that was appended to it.
package spill

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

var (
	// file IO buffer size for each run
	fileBufferSize = 1 << 16 // 64k
	// filename prefix for files put in temp directory
	filenamePrefix = fmt.Sprintf("recsort_%d_", os.Getpid())
)

// Writer defines the interface for sequential writing of record frames into
// consecutive runs. Implementations store the data on disk (New) or in
// memory (Mock).
type Writer interface {
	// Append adds one frame to the current run.
	Append(frame []byte) error

	// Next finalizes the current run and starts the next one.
	// Finalizing a run nothing was appended to is a no-op.
	Next() error

	// Runs returns the number of finalized runs.
	Runs() int

	// Save finalizes the last run and returns a Reader over everything
	// written. The Writer cannot be used after Save.
	Save() (Reader, error)

	// Close aborts the writer and discards any data written so far.
	// This is irreversible; use Save to transition to reading instead.
	Close() error
}

// Reader defines the interface for reading saved runs back. Distinct runs
// can be read concurrently. Closing the reader releases the backing storage.
type Reader interface {
	// Runs returns the number of runs available.
	Runs() int

	// Run returns a reader over the frames of run i.
	// The index must be in the range [0, Runs()-1].
	Run(i int) *RunReader

	// Close releases the storage backing the runs.
	Close() error
}

// RunReader iterates over the frames of a single run.
type RunReader struct {
	br *bufio.Reader
}

// Next returns the next frame of the run, or io.EOF after the last one.
func (r *RunReader) Next() ([]byte, error) {
	size, err := binary.ReadUvarint(r.br)
	if err != nil {
		// a clean io.EOF here is the end of the run
		return nil, err
	}
	frame := make([]byte, int(size))
	if _, err := io.ReadFull(r.br, frame); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return frame, nil
}

// FileWriter writes runs into a single temporary file on disk.
type FileWriter struct {
	file    *os.File
	buf     *bufio.Writer
	runs    []int64
	scratch [binary.MaxVarintLen64]byte
}

// New creates a Writer backed by a temporary file in dir.
// An empty dir selects the OS default temp directory.
func New(dir string) (*FileWriter, error) {
	var w FileWriter
	var err error
	w.file, err = os.CreateTemp(dir, filenamePrefix)
	if err != nil {
		return nil, err
	}
	w.buf = bufio.NewWriterSize(w.file, fileBufferSize)
	w.runs = make([]int64, 0, 10)
	return &w, nil
}

// Name returns the path of the backing file.
func (w *FileWriter) Name() string {
	return w.file.Name()
}

// Append adds one frame to the current run.
func (w *FileWriter) Append(frame []byte) error {
	n := binary.PutUvarint(w.scratch[:], uint64(len(frame)))
	if _, err := w.buf.Write(w.scratch[:n]); err != nil {
		return err
	}
	_, err := w.buf.Write(frame)
	return err
}

// Next finalizes the current run and starts the next one.
func (w *FileWriter) Next() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	pos, err := w.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if pos == w.lastRun() {
		// nothing appended since the last boundary
		return nil
	}
	w.runs = append(w.runs, pos)
	return nil
}

// Runs returns the number of finalized runs.
func (w *FileWriter) Runs() int {
	return len(w.runs)
}

// Save finalizes the last run, closes the file for writing, and reopens it
// for reading.
func (w *FileWriter) Save() (Reader, error) {
	if err := w.Next(); err != nil {
		return nil, err
	}
	if err := w.file.Sync(); err != nil {
		return nil, err
	}
	if err := w.file.Close(); err != nil {
		return nil, err
	}
	return newFileReader(w.file.Name(), w.runs)
}

// Close stops the writer from accepting new data, closes the file, and
// removes it from disk. Works like an abort, unrecoverable.
func (w *FileWriter) Close() error {
	err := w.file.Close()
	if err != nil {
		return err
	}
	w.runs = nil
	w.buf = nil
	return os.Remove(w.file.Name())
}

func (w *FileWriter) lastRun() int64 {
	if len(w.runs) == 0 {
		return 0
	}
	return w.runs[len(w.runs)-1]
}

type fileReader struct {
	file    *os.File
	readers []*RunReader
}

func newFileReader(filename string, runs []int64) (*fileReader, error) {
	var r fileReader
	var err error
	r.file, err = os.Open(filename)
	if err != nil {
		return nil, err
	}
	r.readers = make([]*RunReader, len(runs))

	offset := int64(0)
	for i, end := range runs {
		section := io.NewSectionReader(r.file, offset, end-offset)
		offset = end
		r.readers[i] = &RunReader{br: bufio.NewReaderSize(section, fileBufferSize)}
	}
	return &r, nil
}

func (r *fileReader) Runs() int {
	return len(r.readers)
}

func (r *fileReader) Run(i int) *RunReader {
	if i < 0 || i >= len(r.readers) {
		panic("spill: run request out of range")
	}
	return r.readers[i]
}

// Close closes the backing file and removes it from disk.
func (r *fileReader) Close() error {
	r.readers = nil
	if err := r.file.Close(); err != nil {
		return err
	}
	return os.Remove(r.file.Name())
}
