package recsort

import "maps"

// Record is a single schemaless row: field names mapped to values.
// Values are the kinds produced by decoding JSON or CSV: float64 and the
// integer types for numbers, string for text, nil for an explicit null.
// Records in the same sequence do not need to share a field set.
type Record map[string]any

// Get returns the value stored under field and whether the field is present.
// A nil record has no fields.
func (r Record) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// Clone returns a copy of the record that shares no map storage with the
// original. Values are copied by assignment, so nested values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	maps.Copy(out, r)
	return out
}
