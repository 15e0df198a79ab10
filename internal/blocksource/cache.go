package blocksource

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheKey struct {
	offset uint64
	length int
}

// CachingSource wraps a Source with an LRU cache of previously read
// byte ranges. ReFS decoders can reread the same metadata block (an
// object's root node each time it is resolved again, an objects-tree branch
// child on every lookup that descends through it), so caching at this layer
// benefits every caller above it without
// any of them needing to know caching exists.
type CachingSource struct {
	inner Source
	cache *lru.Cache[cacheKey, []byte]
}

// NewCachingSource wraps inner with a cache of up to capacity byte ranges.
func NewCachingSource(inner Source, capacity int) (*CachingSource, error) {
	cache, err := lru.New[cacheKey, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &CachingSource{inner: inner, cache: cache}, nil
}

func (c *CachingSource) ReadAt(offset uint64, buf []byte) error {
	key := cacheKey{offset: offset, length: len(buf)}

	if cached, ok := c.cache.Get(key); ok {
		copy(buf, cached)
		return nil
	}

	if err := c.inner.ReadAt(offset, buf); err != nil {
		return err
	}
	stored := make([]byte, len(buf))
	copy(stored, buf)
	c.cache.Add(key, stored)
	return nil
}

func (c *CachingSource) Size() uint64 {
	return c.inner.Size()
}

func (c *CachingSource) Close() error {
	return c.inner.Close()
}
