package recsort

// Config holds configuration settings for the streaming sorter
type Config struct {
	ChunkSize          int    // amount of records to hold in memory per chunk before spilling
	NumWorkers         int    // maximum number of workers used to sort chunks
	ChanBuffSize       int    // buffer size for passing chunks between phases
	SortedChanBuffSize int    // buffer size for passing sorted records to output
	TempFilesDir       string // empty for use OS default ex: /tmp
}

// DefaultConfig returns the default configuration options used if none provided
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:          100000,
		NumWorkers:         4,
		ChanBuffSize:       1,
		SortedChanBuffSize: 10,
		TempFilesDir:       "",
	}
}

// mergeConfig takes a provided config and replaces any values not set with the defaults
func mergeConfig(c *Config) *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	if c.ChunkSize <= 1 {
		c.ChunkSize = d.ChunkSize
	}
	if c.NumWorkers < 1 {
		c.NumWorkers = d.NumWorkers
	}
	if c.ChanBuffSize < 0 {
		c.ChanBuffSize = d.ChanBuffSize
	}
	if c.SortedChanBuffSize < 0 {
		c.SortedChanBuffSize = d.SortedChanBuffSize
	}
	// skipping TempFilesDir as the empty string selects the OS default
	return c
}
