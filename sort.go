// Package recsort sorts dynamic records (maps of field name to value) by the
// value stored under a chosen field name, in memory or as a streaming
// external sort for inputs larger than memory.
package recsort

import (
	"slices"
)

// SortByKey returns a new slice with the records ordered by the value under
// key, using the standard library's stable sort. Records missing the field
// sort before all others and records with equal key values keep their input
// order. The input slice is never modified. On error the result is nil:
// *KeyError for an unusable key, *TypeMismatchError when two values with no
// defined order meet.
func SortByKey(records []Record, key string) ([]Record, error) {
	compare, err := CompareByKey(key)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(records)
	if err := stableSort(out, compare); err != nil {
		return nil, err
	}
	return out, nil
}

// BubbleSortByKey returns a new slice with the records ordered by the value
// under key using bubble sort: adjacent records are swapped until a full pass
// makes no swap. It is a stable sort and compares O(n^2) pairs, so it is only
// reasonable for small inputs. Ordering and errors follow Compare, and the
// input slice is never modified.
func BubbleSortByKey(records []Record, key string) ([]Record, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	out := slices.Clone(records)
	for n := len(out); n > 1; n-- {
		swapped := false
		for j := 1; j < n; j++ {
			c, err := compareField(out[j-1], out[j], key)
			if err != nil {
				return nil, err
			}
			if c > 0 {
				out[j-1], out[j] = out[j], out[j-1]
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
	return out, nil
}

// SelectionSortByKey returns a new slice with the records ordered by the
// value under key using selection sort: each pass scans the unsorted tail for
// the minimum-keyed record and swaps it into place. It is NOT a stable sort;
// records with equal key values may trade places. Ordering and errors follow
// Compare, and the input slice is never modified.
func SelectionSortByKey(records []Record, key string) ([]Record, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	out := slices.Clone(records)
	for i := 0; i < len(out)-1; i++ {
		min := i
		for j := i + 1; j < len(out); j++ {
			c, err := compareField(out[j], out[min], key)
			if err != nil {
				return nil, err
			}
			if c < 0 {
				min = j
			}
		}
		if min != i {
			out[i], out[min] = out[min], out[i]
		}
	}
	return out, nil
}

// IsSortedByKey reports whether records are already ordered by the value
// under key.
func IsSortedByKey(records []Record, key string) (bool, error) {
	if err := validKey(key); err != nil {
		return false, err
	}
	for i := 1; i < len(records); i++ {
		c, err := compareField(records[i-1], records[i], key)
		if err != nil {
			return false, err
		}
		if c > 0 {
			return false, nil
		}
	}
	return true, nil
}

// stableSort runs the standard library sort over records, recovering the
// comparator's *TypeMismatchError panic into an error return. Any other
// panic is re-raised.
func stableSort(records []Record, compare func(a, b Record) int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if mismatch, ok := r.(*TypeMismatchError); ok {
				err = mismatch
				return
			}
			panic(r)
		}
	}()
	slices.SortStableFunc(records, compare)
	return nil
}
