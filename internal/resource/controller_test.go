package resource

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Threads(t *testing.T) {
	c := NewController(Config{FirstThread: 1, Threads: 2})
	assert.Equal(t, 2, c.Capacity())

	a, err := c.AcquireThread(t.Context())
	require.NoError(t, err)
	b, ok := c.TryAcquireThread()
	require.True(t, ok)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 2, c.InUse())

	// Try 3rd
	_, ok = c.TryAcquireThread()
	assert.False(t, ok)

	c.ReleaseThread(a)
	assert.Equal(t, 1, c.InUse())

	again, ok := c.TryAcquireThread()
	require.True(t, ok)
	assert.Equal(t, a, again)
}

func TestController_AcquireBlocksUntilRelease(t *testing.T) {
	c := NewController(Config{Threads: 1})
	id, err := c.AcquireThread(t.Context())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	_, err = c.AcquireThread(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	done := make(chan int)
	go func() {
		got, err := c.AcquireThread(t.Context())
		if err == nil {
			done <- got
		}
	}()
	c.ReleaseThread(id)
	assert.Equal(t, id, <-done)
}

func TestController_ReleaseUnheldPanics(t *testing.T) {
	c := NewController(Config{Threads: 1})
	assert.Panics(t, func() { c.ReleaseThread(0) })
}

func TestController_NoSlots(t *testing.T) {
	var nilC *Controller
	_, err := nilC.AcquireThread(t.Context())
	assert.ErrorIs(t, err, ErrNoThreads)
	_, ok := nilC.TryAcquireThread()
	assert.False(t, ok)
	assert.Equal(t, 0, nilC.InUse())

	c := NewController(Config{Threads: 0})
	_, err = c.AcquireThread(t.Context())
	assert.ErrorIs(t, err, ErrNoThreads)
}

func TestController_ConcurrentIDsAreExclusive(t *testing.T) {
	c := NewController(Config{FirstThread: 1, Threads: 4})

	var (
		mu     sync.Mutex
		active = make(map[int]bool)
		wg     sync.WaitGroup
	)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := c.AcquireThread(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			assert.False(t, active[id], "thread %d handed out twice", id)
			active[id] = true
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			delete(active, id)
			mu.Unlock()
			c.ReleaseThread(id)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, c.InUse())
}
