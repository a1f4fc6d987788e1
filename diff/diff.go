package diff

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lanrat/recsort"
)

// differ holds the state for one diff walk over two sorted record streams.
type differ struct {
	ctx                context.Context
	aChan, bChan       <-chan recsort.Record
	aErrChan, bErrChan <-chan error
	key                string
	resultFunc         ResultFunc
}

// ByKey compares two record streams that are both sorted by the value under
// key, in the order recsort.Compare defines, and calls resultFunc for each
// record that exists in only one stream. Records count as the same when
// their key values compare equal, regardless of their other fields.
//
// Parameters:
//   - ctx: context for cancellation and timeout control
//   - aChan, bChan: sorted record streams to compare (MUST be pre-sorted)
//   - aErrChan, bErrChan: error channels corresponding to each stream
//   - key: the field name both streams are sorted by
//   - resultFunc: callback called for each difference found
//
// Returns statistical information about the comparison and the first error
// encountered, whether from a stream, a comparison, or resultFunc. The
// sorted-input assumption is not validated.
func ByKey(ctx context.Context, aChan, bChan <-chan recsort.Record, aErrChan, bErrChan <-chan error, key string, resultFunc ResultFunc) (Result, error) {
	if ctx == nil || aChan == nil || bChan == nil || aErrChan == nil || bErrChan == nil || resultFunc == nil {
		return Result{}, fmt.Errorf("arguments must not be nil")
	}
	// surface a KeyError before consuming either stream
	if _, err := recsort.Compare(recsort.Record{}, recsort.Record{}, key); err != nil {
		return Result{}, err
	}

	d := differ{
		ctx:        ctx,
		aChan:      aChan,
		aErrChan:   aErrChan,
		bChan:      bChan,
		bErrChan:   bErrChan,
		key:        key,
		resultFunc: resultFunc,
	}
	return d.diff()
}

func (d *differ) diff() (r Result, err error) {
	// get first pair of values
	var dataA, dataB recsort.Record
	var okA, okB bool

	// read from channel A
	select {
	case dataA, okA = <-d.aChan:
	case <-d.ctx.Done():
		return r, d.ctx.Err()
	}
	// read from channel B
	select {
	case dataB, okB = <-d.bChan:
	case <-d.ctx.Done():
		return r, d.ctx.Err()
	}
	for okA && okB {
		c, cmpErr := recsort.Compare(dataA, dataB, d.key)
		if cmpErr != nil {
			return r, cmpErr
		}
		if c > 0 {
			r.TotalB++
			r.ExtraB++
			err = d.resultFunc(NEW, dataB)
			if err != nil {
				return
			}
			select {
			case dataB, okB = <-d.bChan:
			case <-d.ctx.Done():
				return r, d.ctx.Err()
			}
		} else if c < 0 {
			r.TotalA++
			r.ExtraA++
			err = d.resultFunc(OLD, dataA)
			if err != nil {
				return
			}
			select {
			case dataA, okA = <-d.aChan:
			case <-d.ctx.Done():
				return r, d.ctx.Err()
			}
		} else {
			// common
			r.Common++
			r.TotalA++
			r.TotalB++
			select {
			case dataA, okA = <-d.aChan:
			case <-d.ctx.Done():
				return r, d.ctx.Err()
			}
			select {
			case dataB, okB = <-d.bChan:
			case <-d.ctx.Done():
				return r, d.ctx.Err()
			}
		}
	}
	// check for errors before draining the remainder
	if !okA {
		if err = <-d.aErrChan; err != nil {
			return
		}
	}
	if !okB {
		if err = <-d.bErrChan; err != nil {
			return
		}
	}
	// if only A has data left
	for okA {
		r.TotalA++
		r.ExtraA++
		err = d.resultFunc(OLD, dataA)
		if err != nil {
			return
		}
		select {
		case dataA, okA = <-d.aChan:
		case <-d.ctx.Done():
			return r, d.ctx.Err()
		}
	}
	// check for A errors once again
	if err = <-d.aErrChan; err != nil {
		return
	}
	// if only B has data left
	for okB {
		r.TotalB++
		r.ExtraB++
		err = d.resultFunc(NEW, dataB)
		if err != nil {
			return
		}
		select {
		case dataB, okB = <-d.bChan:
		case <-d.ctx.Done():
			return r, d.ctx.Err()
		}
	}
	// check for B errors once again
	if err = <-d.bErrChan; err != nil {
		return
	}
	return
}

// PrintDiff is a utility function that can be used as a ResultFunc to print
// differences to stdout. It formats each difference with the Delta symbol
// (< for OLD, > for NEW) followed by the record as one JSON object.
func PrintDiff(d Delta, rec recsort.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = fmt.Printf("%s %s\n", d, raw)
	return err
}
