// Package recio reads and writes record streams as JSON Lines or CSV.
// Readers produce the same (records, errors) channel pair the sorters in
// the parent package consume, so a file can be streamed straight through a
// sort without ever holding all of it in memory.
package recio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// buffer size for reader output channels
const readBuffSize = 100

// Format identifies a record file format.
type Format int

const (
	// JSONL is one JSON object per line.
	JSONL Format = iota
	// CSV is delimiter-separated values, by default with a header row.
	CSV
)

func (f Format) String() string {
	switch f {
	case JSONL:
		return "jsonl"
	case CSV:
		return "csv"
	default:
		return "unknown"
	}
}

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "jsonl", "ndjson", "json":
		return JSONL, nil
	case "csv":
		return CSV, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

// DetectFormat guesses the format from a file path's extension, defaulting
// to JSONL.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV
	default:
		return JSONL
	}
}
