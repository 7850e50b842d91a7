package cellmap

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/cellmap/model"
)

// ParallelForEachCell calls fn once for every cell of orbit from several
// goroutines. Each goroutine runs with its own thread id, which fn may use
// for traversals and markers of its own.
//
// The calling goroutine's thread 0 is used by the first worker; extra workers
// take whatever ids AcquireThread can hand out without blocking. The first
// error returned by fn cancels the remaining work and is returned.
//
// fn must not mutate the map.
func (m *Map) ParallelForEachCell(ctx context.Context, orbit model.Orbit, fn func(thread int, d model.Dart) error) error {
	var cells []model.Dart
	for d := range m.Cells(orbit, 0) {
		cells = append(cells, d)
	}
	if len(cells) == 0 {
		return nil
	}

	threads := []int{0}
	for len(threads) < len(cells) {
		t, ok := m.TryAcquireThread()
		if !ok {
			break
		}
		threads = append(threads, t)
	}
	defer func() {
		for _, t := range threads[1:] {
			m.ReleaseThread(t)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	var next atomic.Int64
	for _, thread := range threads {
		g.Go(func() error {
			for {
				i := next.Add(1) - 1
				if i >= int64(len(cells)) {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(thread, cells[i]); err != nil {
					return err
				}
			}
		})
	}

	err := g.Wait()
	m.logger.Debug("parallel sweep done",
		"orbit", orbit.String(),
		"cells", len(cells),
		"workers", len(threads),
		"error", err,
	)
	return err
}
