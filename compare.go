package recsort

import (
	"cmp"
	"fmt"
)

// kind names used in TypeMismatchError
const (
	kindNumber = "number"
	kindString = "string"
)

// Compare orders two records by the values stored under key and returns
// -1, 0, or 1 following the convention of the cmp package.
//
// A record without the field (or with an explicit nil value) orders before
// every record that has one, and two such records compare equal. Numbers of
// any width compare numerically with each other and strings compare
// lexically with each other; a pair of integers compares exactly even past
// the range where float64 keeps integer precision. Comparing a number with
// a string, or any value of another kind, returns a *TypeMismatchError.
func Compare(a, b Record, key string) (int, error) {
	if err := validKey(key); err != nil {
		return 0, err
	}
	return compareField(a, b, key)
}

// CompareByKey builds a comparator ordering records by the value under key,
// suitable for use with slices.SortFunc and similar. Ordering follows
// Compare. Because those callbacks cannot return errors, the comparator
// panics with a *TypeMismatchError when it meets values with no defined
// order; the sorting functions in this package recover that panic and
// return it as an error.
func CompareByKey(key string) (func(a, b Record) int, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	return func(a, b Record) int {
		c, err := compareField(a, b, key)
		if err != nil {
			panic(err)
		}
		return c
	}, nil
}

// validKey reports whether key can name a record field.
func validKey(key string) error {
	if key == "" {
		return NewKeyError(key, "key is empty")
	}
	return nil
}

// compareField is Compare without the key check, for callers that already
// validated the key once.
func compareField(a, b Record, key string) (int, error) {
	av, aok := a.Get(key)
	bv, bok := b.Get(key)
	// an explicit nil counts as absent
	if av == nil {
		aok = false
	}
	if bv == nil {
		bok = false
	}
	switch {
	case !aok && !bok:
		return 0, nil
	case !aok:
		return -1, nil
	case !bok:
		return 1, nil
	}
	if an, ok := numberOf(av); ok {
		if bn, ok := numberOf(bv); ok {
			if c, ok := compareInts(av, bv); ok {
				return c, nil
			}
			return cmp.Compare(an, bn), nil
		}
		return 0, NewTypeMismatchError(key, kindNumber, kindName(bv))
	}
	if as, ok := av.(string); ok {
		if bs, ok := bv.(string); ok {
			return cmp.Compare(as, bs), nil
		}
		return 0, NewTypeMismatchError(key, kindString, kindName(bv))
	}
	return 0, NewTypeMismatchError(key, kindName(av), kindName(bv))
}

// numberOf returns v as a float64 when v is one of the numeric kinds.
// JSON decoding produces float64, CSV inference produces float64, and
// hand-built records may hold any Go integer type; all of them order
// together on the same axis.
func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// compareInts orders two integer values exactly. Widening to float64 loses
// precision above 2^53 and collapses neighboring integers, so a pair of
// integers never takes that path. Pairs involving a float still compare as
// float64.
func compareInts(a, b any) (int, bool) {
	au, aneg, ok := intOf(a)
	if !ok {
		return 0, false
	}
	bu, bneg, ok := intOf(b)
	if !ok {
		return 0, false
	}
	switch {
	case aneg && !bneg:
		return -1, true
	case !aneg && bneg:
		return 1, true
	case aneg:
		return cmp.Compare(bu, au), true
	}
	return cmp.Compare(au, bu), true
}

// intOf reports v as a sign and magnitude pair when v holds one of the
// integer kinds.
func intOf(v any) (mag uint64, neg bool, ok bool) {
	switch n := v.(type) {
	case int:
		return intMag(int64(n))
	case int8:
		return intMag(int64(n))
	case int16:
		return intMag(int64(n))
	case int32:
		return intMag(int64(n))
	case int64:
		return intMag(n)
	case uint:
		return uint64(n), false, true
	case uint8:
		return uint64(n), false, true
	case uint16:
		return uint64(n), false, true
	case uint32:
		return uint64(n), false, true
	case uint64:
		return n, false, true
	}
	return 0, false, false
}

// intMag splits n into magnitude and sign. The unsigned negation also
// yields the right magnitude for math.MinInt64.
func intMag(n int64) (uint64, bool, bool) {
	if n < 0 {
		return -uint64(n), true, true
	}
	return uint64(n), false, true
}

// kindName describes v's kind for error reporting.
func kindName(v any) string {
	if v == nil {
		return "null"
	}
	if _, ok := numberOf(v); ok {
		return kindNumber
	}
	if _, ok := v.(string); ok {
		return kindString
	}
	return fmt.Sprintf("%T", v)
}
