package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lanrat/recsort"
	"github.com/lanrat/recsort/recio"
)

// openInput returns the source for path, using stdin for "-" or empty.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// openOutput returns the sink for path, using stdout for "-" or empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// resolveFormat picks the record format: an explicit flag value wins,
// otherwise the file extension decides, with stdin defaulting to JSONL.
func resolveFormat(flag, path string) (recio.Format, error) {
	if flag != "" {
		return recio.ParseFormat(flag)
	}
	return recio.DetectFormat(path), nil
}

// readRecords streams records from r in the given format.
func readRecords(ctx context.Context, r io.Reader, f recio.Format) (<-chan recsort.Record, <-chan error) {
	if f == recio.CSV {
		return recio.ReadCSV(ctx, r, nil)
	}
	return recio.ReadJSONL(ctx, r)
}

// writeRecords drains in to w in the given format and reports the count.
func writeRecords(w io.Writer, f recio.Format, in <-chan recsort.Record) (int, error) {
	if f == recio.CSV {
		return recio.WriteCSV(w, in, nil)
	}
	return recio.WriteJSONL(w, in)
}

// sliceChan feeds an in-memory slice to the channel-based writers.
func sliceChan(records []recsort.Record) <-chan recsort.Record {
	out := make(chan recsort.Record, len(records))
	for _, rec := range records {
		out <- rec
	}
	close(out)
	return out
}
