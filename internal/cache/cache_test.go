package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestSetGet(t *testing.T) {
	c := New[string]()

	c.Set("k", "v")
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestSetOverwrites(t *testing.T) {
	c := New[int]()

	c.Set("k", 1)
	c.Set("k", 2)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, c.Stats().Count)
}

func TestExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithClock(clock.Now))

	c.SetWithTTL("k", "v", 100*time.Millisecond)

	clock.Advance(100 * time.Millisecond)
	assert.True(t, c.Has("k"), "entry is live until the TTL is exceeded")

	clock.Advance(50 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Count, "expired entry should be evicted on read")
}

func TestExpiryWallClock(t *testing.T) {
	c := New[string]()

	c.SetWithTTL("k", "v", 100*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDefaultTTL(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithClock(clock.Now))

	c.Set("k", "v")

	clock.Advance(DefaultTTL)
	assert.True(t, c.Has("k"))

	clock.Advance(time.Millisecond)
	assert.False(t, c.Has("k"))
}

func TestWithTTL(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithClock(clock.Now), WithTTL(time.Second))

	c.Set("k", "v")
	clock.Advance(2 * time.Second)
	assert.False(t, c.Has("k"))
}

func TestStatsIsLazy(t *testing.T) {
	clock := newFakeClock()
	c := New[string](WithClock(clock.Now))

	c.SetWithTTL("a", "1", time.Second)
	c.SetWithTTL("b", "2", time.Hour)
	clock.Advance(time.Minute)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Count, "stats must not run expiry checks")
	assert.Equal(t, []string{"a", "b"}, stats.Keys)

	assert.False(t, c.Has("a"))
	assert.Equal(t, Stats{Count: 1, Keys: []string{"b"}}, c.Stats())
}

func TestDelete(t *testing.T) {
	c := New[string]()
	c.Set("k", "v")

	assert.True(t, c.Delete("k"))
	assert.False(t, c.Delete("k"))
	assert.False(t, c.Has("k"))
}

func TestClear(t *testing.T) {
	c := New[string]()
	c.Set("a", "1")
	c.Set("b", "2")

	c.Clear()

	stats := c.Stats()
	assert.Equal(t, 0, stats.Count)
	assert.Empty(t, stats.Keys)
}

func TestGenerateKey(t *testing.T) {
	testCases := []struct {
		name     string
		owner    string
		repo     string
		suffix   []string
		expected string
	}{
		{name: "No suffix", owner: "o", repo: "r", expected: "o/r"},
		{name: "Single suffix", owner: "o", repo: "r", suffix: []string{"x"}, expected: "o/r:x"},
		{name: "Empty suffix", owner: "o", repo: "r", suffix: []string{""}, expected: "o/r"},
		{name: "Multiple parts", owner: "cli", repo: "cli", suffix: []string{"open", "created", "desc"}, expected: "cli/cli:open:created:desc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GenerateKey(tc.owner, tc.repo, tc.suffix...))
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Set("shared", n)
			c.Get("shared")
			c.Stats()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, c.Stats().Count)
}
