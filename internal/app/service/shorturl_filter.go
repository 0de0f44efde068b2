package service

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cliplink/cliplink/internal/app/repository"
)

const (
	filterCapacity = 1_000_000
	filterFPRate   = 0.01
)

// ShortURLFilter keeps a bloom filter over every short code in the store so
// most uniqueness checks never hit the database. A negative answer is
// definitive; a positive answer still requires a lookup, and the unique
// index remains the store-level contract either way.
type ShortURLFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewShortURLFilter seeds the filter from every existing short code.
func NewShortURLFilter(ctx context.Context, urls repository.URLRepository) (*ShortURLFilter, error) {
	codes, err := urls.ListShortURLs(ctx)
	if err != nil {
		return nil, err
	}

	f := &ShortURLFilter{
		filter: bloom.NewWithEstimates(filterCapacity, filterFPRate),
	}
	for _, code := range codes {
		f.filter.AddString(code)
	}
	return f, nil
}

// MayExist reports whether the code could already be taken. False means the
// code is definitely free.
func (f *ShortURLFilter) MayExist(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(code)
}

// Add records a newly persisted short code.
func (f *ShortURLFilter) Add(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.AddString(code)
}
