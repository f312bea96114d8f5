package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_GetPut(t *testing.T) {
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	c := newMemoryCache(time.Minute, func() time.Time { return now })

	_, ok := c.Get("2024-06-03")
	assert.False(t, ok)

	c.Put("2024-06-03", []string{"11:00", "12:00"})
	slots, ok := c.Get("2024-06-03")
	assert.True(t, ok)
	assert.Equal(t, []string{"11:00", "12:00"}, slots)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	c := newMemoryCache(time.Minute, func() time.Time { return now })

	c.Put("2024-06-03", []string{"11:00"})

	now = now.Add(59 * time.Second)
	_, ok := c.Get("2024-06-03")
	assert.True(t, ok, "entry should be fresh just under the TTL")

	now = now.Add(time.Second)
	_, ok = c.Get("2024-06-03")
	assert.False(t, ok, "entry should be bypassed at the TTL boundary")

	// Stale entry is overwritten, not resurrected.
	c.Put("2024-06-03", []string{"12:00"})
	slots, ok := c.Get("2024-06-03")
	assert.True(t, ok)
	assert.Equal(t, []string{"12:00"}, slots)
}

func TestMemoryCache_Clear(t *testing.T) {
	c := newMemoryCache(time.Minute, time.Now)
	c.Put("2024-06-03", []string{"11:00"})
	c.Put("2024-06-04", []string{"09:00"})

	c.Clear()
	_, ok := c.Get("2024-06-03")
	assert.False(t, ok)
	_, ok = c.Get("2024-06-04")
	assert.False(t, ok)

	// Clearing an empty cache is a no-op.
	c.Clear()
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := newMemoryCache(time.Minute, time.Now)
	in := []string{"09:00", "10:00"}
	c.Put("2024-06-03", in)
	in[0] = "mutated"

	slots, ok := c.Get("2024-06-03")
	assert.True(t, ok)
	assert.Equal(t, []string{"09:00", "10:00"}, slots)

	slots[1] = "mutated"
	again, _ := c.Get("2024-06-03")
	assert.Equal(t, []string{"09:00", "10:00"}, again)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := newMemoryCache(time.Minute, time.Now)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			date := fmt.Sprintf("2024-06-%02d", i%4+1)
			for j := 0; j < 100; j++ {
				c.Put(date, []string{"09:00"})
				c.Get(date)
				if j%10 == 0 {
					c.Clear()
				}
			}
		}(i)
	}
	wg.Wait()
}
