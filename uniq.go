package recsort

// UniqByKey returns a channel that filters out consecutive records whose key
// values compare equal from the input. This function assumes the input
// channel provides records already sorted by that key, such as the output of
// a KeyedSorter, and keeps the first record of every group of equal values.
// Records whose key value cannot be compared with the prior kept record, and
// every record when key itself is unusable, pass through unfiltered so no
// data is silently dropped.
//
// The returned channel will be closed when the input channel is closed.
// This function spawns a goroutine that will terminate when the input
// channel is closed.
func UniqByKey(in <-chan Record, key string) <-chan Record {
	out := make(chan Record)
	keyOK := validKey(key) == nil
	go func() {
		var prior Record
		priorSet := false
		for rec := range in {
			if priorSet && keyOK {
				if c, err := compareField(prior, rec, key); err == nil && c == 0 {
					continue
				}
			} else {
				priorSet = true
			}
			out <- rec
			prior = rec
		}
		close(out)
	}()
	return out
}
