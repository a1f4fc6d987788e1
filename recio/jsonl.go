package recio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/lanrat/recsort"
)

// maximum length of a single JSONL line
const maxLineBytes = 1 << 24 // 16MB

// ReadJSONL streams records from r, one JSON object per line. Blank lines
// are skipped. Records are delivered on the first returned channel and at
// most one error on the second; both are closed when reading ends.
func ReadJSONL(ctx context.Context, r io.Reader) (<-chan recsort.Record, <-chan error) {
	out := make(chan recsort.Record, readBuffSize)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		line := 0
		for scanner.Scan() {
			line++
			raw := bytes.TrimSpace(scanner.Bytes())
			if len(raw) == 0 {
				continue
			}
			var rec recsort.Record
			if err := json.Unmarshal(raw, &rec); err != nil {
				errCh <- fmt.Errorf("parse line %d: %w", line, err)
				return
			}
			select {
			case out <- rec:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errCh <- fmt.Errorf("read input: %w", err)
		}
	}()

	return out, errCh
}

// WriteJSONL drains in and writes each record to w as one JSON object per
// line, reporting the number of records written.
func WriteJSONL(w io.Writer, in <-chan recsort.Record) (int, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	count := 0
	for rec := range in {
		if err := enc.Encode(rec); err != nil {
			return count, fmt.Errorf("write record: %w", err)
		}
		count++
	}
	if err := bw.Flush(); err != nil {
		return count, fmt.Errorf("flush output: %w", err)
	}
	return count, nil
}
