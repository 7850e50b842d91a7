package cellmap

import (
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hashicorp/go-multierror"

	"github.com/hupe1980/cellmap/model"
)

// Check verifies the bookkeeping of every embedded orbit:
//
//   - every embedding points at a live record,
//   - every live record's reference count equals the number of darts
//     embedded on it,
//   - every live record is referenced by at least one dart,
//   - no mark word carries a bit that is not allocated on its thread.
//
// All violations are returned together; each wraps ErrInconsistent.
func (m *Map) Check() error {
	start := time.Now()
	var result *multierror.Error
	violation := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrInconsistent}, args...)...))
	}

	for _, orbit := range model.Orbits {
		if !m.IsOrbitEmbedded(orbit) {
			continue
		}
		store := m.attribs[orbit]

		if orbit != model.OrbitDart {
			counts := make(map[uint32]uint32)
			referenced := roaring.New()
			for d := range m.Darts() {
				rec := m.embeddings[orbit].Get(d.Index())
				if rec == model.NullRecord {
					continue
				}
				if !store.IsLive(rec) {
					violation("%s %s points at dead %s record %d", model.OrbitDart, d, orbit, rec)
					continue
				}
				counts[rec]++
				referenced.Add(rec)
			}

			for line := range store.Lines() {
				if refs := store.Refs(line); refs != counts[line] {
					violation("%s record %d has %d refs, %d darts", orbit, line, refs, counts[line])
				}
			}
			unreferenced := roaring.AndNot(m.attribs[orbit].LiveSet(), referenced)
			for it := unreferenced.Iterator(); it.HasNext(); {
				violation("%s record %d is live but unreferenced", orbit, it.Next())
			}
		}

		for t, tm := range m.marks[orbit] {
			used := tm.set.Used()
			for line := range store.Lines() {
				if stale := tm.table.Get(line) &^ used; stale != 0 {
					violation("%s record %d carries unallocated mark %#x on thread %d", orbit, line, uint32(stale), t)
				}
			}
		}
	}

	err := result.ErrorOrNil()
	violations := 0
	if result != nil {
		violations = len(result.Errors)
	}
	m.logger.LogCheck(violations, err)
	m.metrics.RecordCheck(violations, time.Since(start))
	return err
}
