package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrNoThreads is returned when the controller manages no thread ids.
var ErrNoThreads = errors.New("resource: no thread slots")

// Config holds the thread id range managed by a controller.
type Config struct {
	// FirstThread is the lowest id handed out.
	FirstThread int

	// Threads is the number of ids handed out.
	// If 0, the controller has no slots.
	Threads int
}

// Controller hands out thread ids.
type Controller struct {
	cfg Config

	sem *semaphore.Weighted

	mu   sync.Mutex
	free []int // stack; lowest id on top
	held map[int]bool
}

// NewController creates a new thread slot controller.
func NewController(cfg Config) *Controller {
	if cfg.Threads < 0 {
		cfg.Threads = 0
	}

	c := &Controller{
		cfg:  cfg,
		sem:  semaphore.NewWeighted(int64(cfg.Threads)),
		free: make([]int, 0, cfg.Threads),
		held: make(map[int]bool, cfg.Threads),
	}
	for id := cfg.FirstThread + cfg.Threads - 1; id >= cfg.FirstThread; id-- {
		c.free = append(c.free, id)
	}
	return c
}

// AcquireThread reserves a thread id, blocking until one is free or ctx is done.
func (c *Controller) AcquireThread(ctx context.Context) (int, error) {
	if c == nil || c.cfg.Threads == 0 {
		return 0, ErrNoThreads
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	return c.pop(), nil
}

// TryAcquireThread reserves a thread id without blocking.
func (c *Controller) TryAcquireThread() (int, bool) {
	if c == nil || c.cfg.Threads == 0 {
		return 0, false
	}
	if !c.sem.TryAcquire(1) {
		return 0, false
	}
	return c.pop(), true
}

// ReleaseThread returns id to the controller.
// Releasing an id that is not held panics.
func (c *Controller) ReleaseThread(id int) {
	c.mu.Lock()
	if !c.held[id] {
		c.mu.Unlock()
		panic(fmt.Sprintf("resource: release of thread %d which is not held", id))
	}
	delete(c.held, id)
	c.free = append(c.free, id)
	c.mu.Unlock()

	c.sem.Release(1)
}

// InUse returns the number of held thread ids.
func (c *Controller) InUse() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.held)
}

// Capacity returns the number of managed thread ids.
func (c *Controller) Capacity() int {
	if c == nil {
		return 0
	}
	return c.cfg.Threads
}

func (c *Controller) pop() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.free[len(c.free)-1]
	c.free = c.free[:len(c.free)-1]
	c.held[id] = true
	return id
}
