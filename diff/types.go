// Package diff compares two record streams that are sorted by the same key
// and reports the records that appear in only one of them.
package diff

import (
	"fmt"

	"github.com/lanrat/recsort"
)

// Delta represents the type of difference found when comparing two sorted
// streams. It indicates whether a record is unique to the first stream (OLD)
// or the second stream (NEW).
type Delta int

const (
	// NEW indicates a record that exists only in the second stream (B).
	NEW Delta = iota // >

	// OLD indicates a record that exists only in the first stream (A).
	OLD // <
)

func (d Delta) String() string {
	switch d {
	case NEW:
		return ">"
	case OLD:
		return "<"
	default:
		return "?"
	}
}

// ResultFunc is a callback for processing diff results. It is called once
// for each record that appears in only one of the two streams, with the
// Delta saying which stream the record belongs to. Returning an error
// terminates the diff.
type ResultFunc func(Delta, recsort.Record) error

// Result contains statistical information about the differences between two
// sorted streams.
type Result struct {
	// ExtraA is the count of records that exist only in stream A (OLD records)
	ExtraA uint64

	// ExtraB is the count of records that exist only in stream B (NEW records)
	ExtraB uint64

	// TotalA is the total count of records processed from stream A
	TotalA uint64

	// TotalB is the total count of records processed from stream B
	TotalB uint64

	// Common is the count of records that exist in both streams
	Common uint64
}

func (r *Result) String() string {
	return fmt.Sprintf("A: %d/%d\tB: %d/%d\tC: %d", r.ExtraA, r.TotalA, r.ExtraB, r.TotalB, r.Common)
}
