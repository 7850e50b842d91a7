// Package resource implements the thread slot controller.
//
// Every concurrent reader of a map needs its own thread id: the id selects
// the reader's row of per-thread marker tables. The controller hands out
// free ids and bounds the number of concurrent readers to the number of rows.
//
//	c := resource.NewController(resource.Config{FirstThread: 1, Threads: 3})
//
//	t, err := c.AcquireThread(ctx) // blocks until an id is free
//	if err != nil {
//	    return err
//	}
//	defer c.ReleaseThread(t)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// A nil Controller has no slots: AcquireThread fails and TryAcquireThread
// reports false.
package resource
