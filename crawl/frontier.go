package crawl

import (
	"sync"

	"github.com/fwojciec/docpipe/bloom"
)

// seenSet tracks visited URLs with Bloom filter deduplication. The filter
// trades a small false positive rate for constant memory on large crawls.
// It is safe for concurrent use by multiple goroutines.
type seenSet struct {
	mu   sync.Mutex
	seen *bloom.Filter
}

// newSeenSet creates a seenSet sized for n expected URLs with the given
// false positive rate.
func newSeenSet(n uint, fpRate float64) *seenSet {
	return &seenSet{seen: bloom.NewFilter(n, fpRate)}
}

// add marks a URL as visited. Returns false if the URL was already seen.
func (s *seenSet) add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen.Test(url) {
		return false
	}
	s.seen.Add(url)
	return true
}

// has reports whether the URL has already been visited or queued.
func (s *seenSet) has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen.Test(url)
}
