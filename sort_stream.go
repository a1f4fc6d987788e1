package recsort

import (
	"container/heap"
	"context"
	"errors"
	"slices"

	"github.com/lanrat/recsort/spill"

	"golang.org/x/sync/errgroup"
)

// chunk is a collection of records held in memory before being sorted.
type chunk struct {
	data []Record
}

func newChunk(size int) *chunk {
	return &chunk{data: make([]Record, 0, size)}
}

// KeyedSorter sorts a stream of records by the value under a single key
// using a divide-and-conquer approach. It reads input from a channel, splits
// the records into chunks that fit in memory, sorts each chunk in parallel,
// spills the sorted chunks as runs, then merges the runs back into one
// sorted output stream. When everything fits in a single chunk the spill is
// skipped entirely.
//
// The merge interleaves runs without regard to input order, so KeyedSorter
// is NOT a stable sort. Use SortByKey for a stable in-memory sort.
type KeyedSorter struct {
	config         Config
	key            string
	compare        func(a, b Record) int
	buildSortCtx   context.Context
	saveCtx        context.Context
	input          <-chan Record
	chunkChan      chan *chunk
	saveChunkChan  chan *chunk
	mergeChunkChan chan Record
	mergeErrChan   chan error
	spill          spill.Writer
	runs           spill.Reader
	singleChunk    *chunk
	failed         bool
}

// newKeyedSorter creates a KeyedSorter with the configuration defaults
// applied and all channels initialized.
func newKeyedSorter(input <-chan Record, key string, config *Config) *KeyedSorter {
	config = mergeConfig(config)
	return &KeyedSorter{
		input:          input,
		key:            key,
		config:         *config,
		chunkChan:      make(chan *chunk, config.ChanBuffSize),
		saveChunkChan:  make(chan *chunk, config.NumWorkers*2), // buffer for workers to avoid deadlock
		mergeChunkChan: make(chan Record, config.SortedChanBuffSize),
		mergeErrChan:   make(chan error, 1),
	}
}

// New creates a streaming sorter ordering records by the value under key and
// returns the sorter instance, the output channel with sorted records, and
// the error channel.
//
// The sorting process:
//  1. Reads records from the input channel into memory chunks
//  2. Sorts each chunk in parallel, ordering by Compare on key
//  3. Spills sorted chunks as runs of a shared temporary file
//  4. Merges all runs back into sorted order on the output channel
//
// Call Sort on the returned sorter to begin. Results are delivered on the
// output channel, errors on the error channel; both are closed when the
// sorter is done. An unusable key or a failure to create the temporary file
// is reported the same way, before Sort is ever called.
func New(input <-chan Record, key string, config *Config) (Sorter, <-chan Record, <-chan error) {
	s := newKeyedSorter(input, key, config)
	compare, err := CompareByKey(key)
	if err != nil {
		s.abort(err)
		return s, s.mergeChunkChan, s.mergeErrChan
	}
	s.compare = compare
	s.spill, err = spill.New(s.config.TempFilesDir)
	if err != nil {
		s.abort(err)
		return s, s.mergeChunkChan, s.mergeErrChan
	}
	return s, s.mergeChunkChan, s.mergeErrChan
}

// NewMock creates a streaming sorter that spills to memory instead of disk.
// This is primarily useful for testing and benchmarking without filesystem
// I/O overhead. The parameter n sets the initial capacity of the in-memory
// buffer. All other behavior is identical to New.
func NewMock(input <-chan Record, key string, config *Config, n int) (Sorter, <-chan Record, <-chan error) {
	s := newKeyedSorter(input, key, config)
	compare, err := CompareByKey(key)
	if err != nil {
		s.abort(err)
		return s, s.mergeChunkChan, s.mergeErrChan
	}
	s.compare = compare
	s.spill = spill.Mock(n)
	return s, s.mergeChunkChan, s.mergeErrChan
}

// Sort runs the chunking phases with multiple workers and blocks until all
// input has been consumed, then unblocks while the merge feeds the output
// channel in the background.
// NOTE: the context passed to Sort must outlive Sort returning, as the
// merge keeps using it. For example, when calling Sort inside an errgroup,
// pass the group's parent context.
func (s *KeyedSorter) Sort(ctx context.Context) {
	if s.failed {
		// New already reported an error and closed the channels
		return
	}

	var buildSortErrGroup, saveErrGroup *errgroup.Group
	saveErrGroup, s.saveCtx = errgroup.WithContext(ctx)
	// the build and sort workers derive from the save context, so a dead
	// save worker releases workers blocked handing chunks to saveChunkChan
	buildSortErrGroup, s.buildSortCtx = errgroup.WithContext(s.saveCtx)

	// start creating chunks
	buildSortErrGroup.Go(s.buildChunks)

	// sort chunks
	for i := 0; i < s.config.NumWorkers; i++ {
		buildSortErrGroup.Go(s.sortChunks)
	}

	// save chunks, holding a lone chunk in memory instead
	saveErrGroup.Go(s.saveChunks)

	err := buildSortErrGroup.Wait()

	// always close saveChunkChan so the save worker terminates even when a
	// build or sort worker failed first
	close(s.saveChunkChan)
	saveErr := saveErrGroup.Wait()

	// a save failure reaches the build side as a bare cancellation, so the
	// save error is the root cause
	if saveErr != nil && (err == nil || errors.Is(err, context.Canceled)) {
		err = saveErr
	}
	if err != nil {
		s.abort(err)
		return
	}

	if s.singleChunk != nil {
		// single chunk: output directly, nothing was spilled
		go s.outputSingleChunk(ctx)
		return
	}

	// multiple runs: merge in the background
	// if this errors, it is returned on the error chan
	go s.mergeRuns(ctx)
}

// abort reports err, closes the output channels, and discards the spill.
// The save worker may have finalized the spill for reading before the abort,
// so whichever side owns the backing storage is the one closed.
func (s *KeyedSorter) abort(err error) {
	s.failed = true
	s.mergeErrChan <- err
	close(s.mergeErrChan)
	close(s.mergeChunkChan)
	if s.runs != nil {
		_ = s.runs.Close()
		return
	}
	if s.spill != nil {
		_ = s.spill.Close()
	}
}

// buildChunks reads records from the input chan into chunks and pushes them
// to chunkChan
func (s *KeyedSorter) buildChunks() error {
	defer close(s.chunkChan) // if this is not called on error, causes a deadlock

	open := true
	for open {
		c := newChunk(s.config.ChunkSize)
		for open && len(c.data) < s.config.ChunkSize {
			select {
			case rec, ok := <-s.input:
				if !ok {
					open = false
				} else {
					c.data = append(c.data, rec)
				}
			case <-s.buildSortCtx.Done():
				return s.buildSortCtx.Err()
			}
		}
		if len(c.data) == 0 {
			break
		}

		select {
		case s.chunkChan <- c:
		case <-s.buildSortCtx.Done():
			return s.buildSortCtx.Err()
		}
	}

	return nil
}

// sortChunks is a worker for sorting the records stored in a chunk prior to
// save
func (s *KeyedSorter) sortChunks() error {
	for {
		select {
		case b, more := <-s.chunkChan:
			if !more {
				return nil
			}
			if err := sortChunk(b, s.compare); err != nil {
				return err
			}
			select {
			case s.saveChunkChan <- b:
			case <-s.buildSortCtx.Done():
				return s.buildSortCtx.Err()
			}
		case <-s.buildSortCtx.Done():
			return s.buildSortCtx.Err()
		}
	}
}

// sortChunk sorts one chunk, recovering the comparator's type mismatch
// panic into an error. Any other panic is re-raised.
func sortChunk(b *chunk, compare func(a, b Record) int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if mismatch, ok := r.(*TypeMismatchError); ok {
				err = mismatch
				return
			}
			panic(r)
		}
	}()
	slices.SortFunc(b.data, compare)
	return nil
}

// saveChunks spills sorted chunks as runs. When the whole input arrives as
// one chunk it is kept in memory instead and the spill is never touched.
func (s *KeyedSorter) saveChunks() error {
	var first *chunk
	var ok bool
	select {
	case first, ok = <-s.saveChunkChan:
		if !ok {
			// channel closed, no chunks at all
			return nil
		}
	case <-s.saveCtx.Done():
		return s.saveCtx.Err()
	}

	var second *chunk
	select {
	case second, ok = <-s.saveChunkChan:
		if !ok {
			// channel closed after one chunk
			s.singleChunk = first
			return nil
		}
	case <-s.saveCtx.Done():
		return s.saveCtx.Err()
	}

	if err := s.saveChunk(first); err != nil {
		return err
	}
	if err := s.saveChunk(second); err != nil {
		return err
	}

	for {
		select {
		case c, ok := <-s.saveChunkChan:
			if !ok {
				// channel closed, finalize the spill for reading
				var err error
				s.runs, err = s.spill.Save()
				if err != nil {
					return NewDiskError(err, "save runs")
				}
				return nil
			}
			if err := s.saveChunk(c); err != nil {
				return err
			}
		case <-s.saveCtx.Done():
			return s.saveCtx.Err()
		}
	}
}

// saveChunk writes one sorted chunk as a single spill run
func (s *KeyedSorter) saveChunk(b *chunk) error {
	for _, rec := range b.data {
		frame, err := encodeRecord(rec)
		if err != nil {
			return err
		}
		if err := s.spill.Append(frame); err != nil {
			return NewDiskError(err, "append record")
		}
	}
	if err := s.spill.Next(); err != nil {
		return NewDiskError(err, "next run")
	}
	return nil
}

// outputSingleChunk feeds the output channel straight from the one sorted
// chunk, skipping spill and merge entirely.
func (s *KeyedSorter) outputSingleChunk(ctx context.Context) {
	defer close(s.mergeErrChan)
	defer close(s.mergeChunkChan)

	// nothing was spilled, discard the empty spill file
	if s.spill != nil {
		_ = s.spill.Close()
	}

	for _, rec := range s.singleChunk.data {
		select {
		case s.mergeChunkChan <- rec:
		case <-ctx.Done():
			s.mergeErrChan <- ctx.Err()
			return
		}
	}
	s.singleChunk = nil
}

// mergeRuns runs asynchronously in the background feeding merged records to
// the output channel, sending any error to mergeErrChan
func (s *KeyedSorter) mergeRuns(ctx context.Context) {
	defer close(s.mergeErrChan)
	defer func() {
		if s.runs != nil {
			if err := s.runs.Close(); err != nil {
				select {
				case s.mergeErrChan <- err:
				default:
				}
			}
		}
	}()
	defer close(s.mergeChunkChan)
	defer func() {
		// records of incomparable kinds can meet here for the first time
		// when they were sorted into different chunks, so the comparator
		// panic escapes the heap operations and is recovered like in
		// sortChunk
		if r := recover(); r != nil {
			mismatch, ok := r.(*TypeMismatchError)
			if !ok {
				panic(r)
			}
			select {
			case s.mergeErrChan <- mismatch:
			default:
			}
		}
	}()

	if s.runs == nil {
		// no input at all, so nothing was ever spilled or saved
		if s.spill != nil {
			_ = s.spill.Close()
		}
		return
	}
	if s.runs.Runs() == 0 {
		return
	}

	h := &mergeHeap{compare: s.compare}
	for i := 0; i < s.runs.Runs(); i++ {
		src := &runSource{run: s.runs.Run(i)}
		_, ok, err := src.advance() // preload the first record
		if err != nil {
			s.mergeErrChan <- err
			return
		}
		if !ok {
			continue
		}
		heap.Push(h, src)
	}

	for h.Len() > 0 {
		src := h.peek()
		rec, more, err := src.advance()
		if err != nil {
			s.mergeErrChan <- err
			return
		}
		if more {
			heap.Fix(h, 0)
		} else {
			heap.Pop(h)
		}
		select {
		case s.mergeChunkChan <- rec:
		case <-ctx.Done():
			s.mergeErrChan <- ctx.Err()
			return
		}
	}
}
