package recsort

import (
	"io"

	"github.com/lanrat/recsort/spill"
)

// runSource streams the records of one spill run during the merge phase,
// holding the next record in memory so the heap can order sources by it.
type runSource struct {
	next Record
	run  *spill.RunReader
}

// advance returns the previously loaded record and pulls the next one from
// the run. When the run is exhausted the final record is returned with
// more == false.
func (r *runSource) advance() (rec Record, more bool, err error) {
	old := r.next
	frame, err := r.run.Next()
	if err != nil {
		if err == io.EOF {
			return old, false, nil
		}
		return old, false, NewDiskError(err, "read run")
	}
	r.next, err = decodeRecord(frame)
	if err != nil {
		return old, true, err
	}
	return old, true, nil
}

// mergeHeap is the k-way merge frontier: a min-heap of run sources ordered
// by their preloaded next record, so the root is always the source whose
// next record sorts first.
type mergeHeap struct {
	src     []*runSource
	compare func(a, b Record) int
}

func (h *mergeHeap) Len() int { return len(h.src) }

func (h *mergeHeap) Less(i, j int) bool {
	return h.compare(h.src[i].next, h.src[j].next) < 0
}

func (h *mergeHeap) Swap(i, j int) {
	h.src[i], h.src[j] = h.src[j], h.src[i]
}

func (h *mergeHeap) Push(x any) {
	h.src = append(h.src, x.(*runSource))
}

func (h *mergeHeap) Pop() any {
	old := h.src
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	h.src = old[:n-1]
	return x
}

// peek returns the root source without removing it. Callers re-establish
// heap order with heap.Fix after advancing it.
func (h *mergeHeap) peek() *runSource {
	return h.src[0]
}
