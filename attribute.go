package cellmap

import (
	"strings"

	"github.com/hupe1980/cellmap/internal/container"
	"github.com/hupe1980/cellmap/model"
)

// internalPrefix is reserved for columns owned by the map itself.
const internalPrefix = "cellmap."

type invalidator interface {
	invalidate()
}

// binding is shared by every copy of an Attribute issued for one column, so
// removing the column invalidates all of them at once.
type binding[T any] struct {
	col *container.TypedColumn[T]
}

func (b *binding[T]) invalidate() { b.col = nil }

// Attribute is a typed handle on a per-record column of one orbit.
//
// The zero value is an invalid handle. Handles are cheap to copy; every copy
// observes RemoveAttribute.
type Attribute[T any] struct {
	m     *Map
	orbit model.Orbit
	b     *binding[T]
}

// Valid reports whether the handle refers to a live column.
func (a Attribute[T]) Valid() bool {
	return a.b != nil && a.b.col != nil
}

// Orbit returns the orbit the attribute is attached to.
func (a Attribute[T]) Orbit() model.Orbit {
	return a.orbit
}

// Name returns the attribute name, or "" for an invalid handle.
func (a Attribute[T]) Name() string {
	if !a.Valid() {
		return ""
	}
	return a.b.col.Name()
}

// Get returns the value of the cell containing d. Cells without a record
// read as the zero value.
func (a Attribute[T]) Get(d model.Dart) T {
	col := a.column("Get")
	rec := a.m.Embedding(a.orbit, d)
	if rec == model.NullRecord {
		var zero T
		return zero
	}
	return col.Get(rec)
}

// Set stores v on the cell containing d. The cell must have a record.
func (a Attribute[T]) Set(d model.Dart, v T) {
	col := a.column("Set")
	rec := a.m.Embedding(a.orbit, d)
	precondition(rec != model.NullRecord, "Set", d.String()+" has no "+a.orbit.String()+" record")
	col.Set(rec, v)
}

// Ptr returns a pointer to the value of the cell containing d.
func (a Attribute[T]) Ptr(d model.Dart) *T {
	col := a.column("Ptr")
	rec := a.m.Embedding(a.orbit, d)
	precondition(rec != model.NullRecord, "Ptr", d.String()+" has no "+a.orbit.String()+" record")
	return col.Ptr(rec)
}

// At returns the value stored on record rec.
func (a Attribute[T]) At(rec uint32) T {
	return a.column("At").Get(rec)
}

// SetAt stores v on record rec.
func (a Attribute[T]) SetAt(rec uint32, v T) {
	a.column("SetAt").Set(rec, v)
}

// SetAllValues stores v on every live record.
func (a Attribute[T]) SetAllValues(v T) {
	col := a.column("SetAllValues")
	for line := range a.m.attribs[a.orbit].Lines() {
		col.Set(line, v)
	}
}

func (a Attribute[T]) column(op string) *container.TypedColumn[T] {
	precondition(a.Valid(), op, "invalid attribute handle")
	return a.b.col
}

// AddAttribute creates a column named name on orbit and enables embedding of
// orbit if needed.
//
// It fails with a *TypeMismatchError when name is bound to another type and
// with ErrAttributeExists when it is already bound to T. On error nothing
// changes.
func AddAttribute[T any](m *Map, orbit model.Orbit, name string) (Attribute[T], error) {
	precondition(orbit.Valid(), "AddAttribute", "unknown orbit")
	precondition(!strings.HasPrefix(name, internalPrefix), "AddAttribute", "reserved name "+name)

	if _, ok := m.attribs[orbit].Column(name); ok {
		// Reports the conflict without enabling the embedding.
		_, err := container.AddColumn[T](m.attribs[orbit], name, *new(T), false)
		err = translateError(err)
		m.logger.LogAttribute("add", orbit, name, err)
		return Attribute[T]{}, err
	}

	m.AddEmbedding(orbit)

	var zero T
	col, err := container.AddColumn(m.attribs[orbit], name, zero, false)
	if err != nil {
		err = translateError(err)
		m.logger.LogAttribute("add", orbit, name, err)
		return Attribute[T]{}, err
	}

	m.logger.LogAttribute("add", orbit, name, nil)
	return Attribute[T]{m: m, orbit: orbit, b: bindingFor(m, col)}, nil
}

// GetAttribute returns a handle on the column named name of orbit. The handle
// is invalid when no such column exists or it holds another type.
func GetAttribute[T any](m *Map, orbit model.Orbit, name string) Attribute[T] {
	if !orbit.Valid() {
		return Attribute[T]{}
	}
	col, ok := container.GetColumn[T](m.attribs[orbit], name)
	if !ok || col.Internal() {
		return Attribute[T]{}
	}
	return Attribute[T]{m: m, orbit: orbit, b: bindingFor(m, col)}
}

// CheckAttribute returns the attribute named name of orbit, creating it when
// it does not exist yet.
func CheckAttribute[T any](m *Map, orbit model.Orbit, name string) (Attribute[T], error) {
	if a := GetAttribute[T](m, orbit, name); a.Valid() {
		return a, nil
	}
	return AddAttribute[T](m, orbit, name)
}

// RemoveAttribute deletes the column behind a and invalidates every handle
// issued for it. It reports false for an invalid handle.
func RemoveAttribute[T any](m *Map, a Attribute[T]) bool {
	if !a.Valid() || a.m != m {
		return false
	}
	col := a.b.col
	name := col.Name()
	if !m.attribs[a.orbit].RemoveColumn(col) {
		return false
	}
	for _, h := range m.handles[col] {
		h.invalidate()
	}
	delete(m.handles, col)
	m.logger.LogAttribute("remove", a.orbit, name, nil)
	return true
}

// SwapAttributes exchanges the values of two attributes of the same orbit.
// It reports false when both handles refer to the same column.
func SwapAttributes[T any](m *Map, a, b Attribute[T]) bool {
	precondition(a.Valid() && b.Valid(), "SwapAttributes", "invalid attribute handle")
	precondition(a.orbit == b.orbit, "SwapAttributes", "attributes of different orbits")
	return m.attribs[a.orbit].SwapColumns(a.b.col, b.b.col)
}

// CopyAttribute copies the values of src into dst on every live record.
// It reports false when both handles refer to the same column.
func CopyAttribute[T any](m *Map, dst, src Attribute[T]) bool {
	precondition(dst.Valid() && src.Valid(), "CopyAttribute", "invalid attribute handle")
	precondition(dst.orbit == src.orbit, "CopyAttribute", "attributes of different orbits")
	return m.attribs[dst.orbit].CopyColumn(dst.b.col, src.b.col)
}

// AttributeNames lists the user attributes of orbit in creation order.
func (m *Map) AttributeNames(orbit model.Orbit) []string {
	var names []string
	for _, c := range m.store(orbit).Columns() {
		if !c.Internal() {
			names = append(names, c.Name())
		}
	}
	return names
}

func bindingFor[T any](m *Map, col *container.TypedColumn[T]) *binding[T] {
	for _, h := range m.handles[col] {
		if b, ok := h.(*binding[T]); ok {
			return b
		}
	}
	b := &binding[T]{col: col}
	m.handles[col] = append(m.handles[col], b)
	return b
}
