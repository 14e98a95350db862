package rules

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheLoadsOnce(t *testing.T) {
	cache := NewCache()
	calls := 0
	load := func() (Ruleset, bool) {
		calls++
		return Parse("*.go"), true
	}

	rs, ok := cache.Load("/proj/src/", load)
	assert.True(t, ok)
	assert.Equal(t, 1, rs.Len())

	rs, ok = cache.Load("/proj/src", load)
	assert.True(t, ok)
	assert.Equal(t, 1, rs.Len())

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
	hits, misses := cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestCacheRemembersAbsence(t *testing.T) {
	cache := NewCache()
	calls := 0
	load := func() (Ruleset, bool) {
		calls++
		return Ruleset{}, false
	}

	for i := 0; i < 3; i++ {
		_, ok := cache.Load("/proj", load)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, calls)
}

func TestCacheConcurrentLoads(t *testing.T) {
	cache := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs, ok := cache.Load("/proj", func() (Ruleset, bool) { return Parse("!*.log"), true })
			assert.True(t, ok)
			assert.Equal(t, 1, rs.Len())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cache.Len())
}
