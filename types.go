package recsort

import "context"

// Sorter is the interface the streaming sorters in this package satisfy.
// It provides a single Sort method that performs the complete sorting
// operation within the provided context, allowing for cancellation and
// timeout control.
type Sorter interface {
	// Sort reads from the input channel, sorts the records using temporary
	// storage when they exceed one chunk, and delivers results to the
	// output channel returned at construction.
	Sort(context.Context)
}
