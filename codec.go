package recsort

import "encoding/json"

// encodeRecord marshals a record into a spill frame. JSON is the one codec
// that keeps a schemaless field set without outside type information.
func encodeRecord(r Record) ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, NewEncodeError(err, "encodeRecord")
	}
	return raw, nil
}

// decodeRecord unmarshals a spill frame written by encodeRecord. All numeric
// values come back as float64, which compareField orders together with the
// integer kinds, so a record survives the round trip with its ordering
// unchanged.
func decodeRecord(frame []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(frame, &r); err != nil {
		return nil, NewDecodeError(err, len(frame), "decodeRecord")
	}
	return r, nil
}
