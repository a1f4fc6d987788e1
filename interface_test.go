package recsort_test

import (
	"testing"

	"github.com/lanrat/recsort"
)

func TestStreamSorterInterface(t *testing.T) {
	config := recsort.DefaultConfig()
	config.TempFilesDir = t.TempDir()
	s, _, _ := recsort.New(nil, "key", config)
	onlySortersAllowed(s)
}

func TestMockSorterInterface(t *testing.T) {
	s, _, _ := recsort.NewMock(nil, "key", nil, 0)
	onlySortersAllowed(s)
}

func onlySortersAllowed(_ recsort.Sorter) bool {
	return true
}
