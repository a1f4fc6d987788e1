package recsort

import (
	"context"
	"testing"
)

// feedRecords returns a closed channel pre-loaded with size records in
// reverse key order.
func feedRecords(size int) chan Record {
	inputChan := make(chan Record, size)
	for i := 0; i < size; i++ {
		inputChan <- Record{"key": float64(size - i), "order": float64(i)}
	}
	close(inputChan)
	return inputChan
}

func TestSingleChunkStaysInMemory(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"single record", 1},
		{"few records", 5},
		{"chunk size exactly", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{ChunkSize: 100}
			sorter, outChan, errChan := NewMock(feedRecords(tt.size), "key", config, 1024)
			sorter.Sort(context.Background())

			count := 0
			last := -1.0
			for rec := range outChan {
				v, _ := rec.Get("key")
				k := v.(float64)
				if k < last {
					t.Errorf("output out of order: %v after %v", k, last)
				}
				last = k
				count++
			}
			if err := <-errChan; err != nil {
				t.Fatalf("sort: %v", err)
			}
			if count != tt.size {
				t.Fatalf("got %d records, expected %d", count, tt.size)
			}

			// a lone chunk is served from memory and nothing is spilled
			ks := sorter.(*KeyedSorter)
			if ks.runs != nil {
				t.Error("single chunk sort saved spill runs")
			}
			if ks.singleChunk != nil {
				t.Error("single chunk not released after output")
			}
		})
	}
}

func TestMultipleChunksSpill(t *testing.T) {
	config := &Config{ChunkSize: 2}
	sorter, outChan, errChan := NewMock(feedRecords(10), "key", config, 1024)
	sorter.Sort(context.Background())

	count := 0
	for range outChan {
		count++
	}
	if err := <-errChan; err != nil {
		t.Fatalf("sort: %v", err)
	}
	if count != 10 {
		t.Fatalf("got %d records, expected 10", count)
	}
	ks := sorter.(*KeyedSorter)
	if ks.runs == nil {
		t.Error("multi chunk sort did not save spill runs")
	}
	if ks.singleChunk != nil {
		t.Error("multi chunk sort kept a chunk in memory")
	}
}

func TestSingleChunkKeepsValueTypes(t *testing.T) {
	// records that never hit the spill are passed through as-is, without a
	// codec round trip turning ints into float64
	inputChan := make(chan Record, 2)
	inputChan <- Record{"key": 2, "tag": "b"}
	inputChan <- Record{"key": 1, "tag": "a"}
	close(inputChan)

	sorter, outChan, errChan := NewMock(inputChan, "key", nil, 1024)
	sorter.Sort(context.Background())

	var results []Record
	for rec := range outChan {
		results = append(results, rec)
	}
	if err := <-errChan; err != nil {
		t.Fatalf("sort: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d records, expected 2", len(results))
	}
	if _, ok := results[0]["key"].(int); !ok {
		t.Errorf("value type changed: %T", results[0]["key"])
	}
}
