// Package marker provides mark-word bit allocation and reset tracking.
//
// A mark word is a model.Mark stored per line of a record store, one word
// per (orbit, thread). Each traversal allocates one bit of its thread's word
// through a Set, marks lines through a Tracker and releases the bit when
// done, leaving every word it touched clean.
//
// Architecture:
//   - Set: 32-bit allocator of free mark bits
//   - Tracker: marks lines and remembers them in a dirty list so Reset is
//     proportional to the number of marked lines, not the store size
package marker
