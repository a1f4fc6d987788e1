package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lanrat/recsort"
)

// fileConfig mirrors the sorter configuration in YAML form.
type fileConfig struct {
	ChunkSize          int    `yaml:"chunk_size"`
	NumWorkers         int    `yaml:"num_workers"`
	ChanBuffSize       int    `yaml:"chan_buff_size"`
	SortedChanBuffSize int    `yaml:"sorted_chan_buff_size"`
	TempFilesDir       string `yaml:"temp_files_dir"`
}

// loadConfig reads the YAML config at path. A missing file selects the
// defaults, and fields left unset are filled in by the sorter itself.
func loadConfig(path string) (*recsort.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return recsort.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &recsort.Config{
		ChunkSize:          fc.ChunkSize,
		NumWorkers:         fc.NumWorkers,
		ChanBuffSize:       fc.ChanBuffSize,
		SortedChanBuffSize: fc.SortedChanBuffSize,
		TempFilesDir:       fc.TempFilesDir,
	}, nil
}
