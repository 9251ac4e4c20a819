package core

import (
	"reflect"

	"github.com/volatiletech/null/v8"
)

// UpdatePolicy decides whether a field of a partial update is written.
type UpdatePolicy uint8

const (
	// SkipIfEmpty leaves the stored value untouched when the new value is empty (zero string, nil pointer).
	SkipIfEmpty UpdatePolicy = iota
	// AlwaysSet writes the new value even when empty; empty strings are stored as NULL.
	AlwaysSet
)

func (p UpdatePolicy) String() string {
	switch p {
	case SkipIfEmpty:
		return "skip-if-empty"
	case AlwaysSet:
		return "always-set"
	default:
		return "unknown"
	}
}

// Changeset collects the columns of a partial update, in order.
type Changeset struct {
	columns []string
	values  []interface{}
}

// Set records `col = val` according to `policy`.
// Pointers are dereferenced; a nil pointer is empty.
func (cs *Changeset) Set(col string, val interface{}, policy UpdatePolicy) {
	val, empty := normalize(val)
	if empty && policy == SkipIfEmpty {
		return
	}
	if s, ok := val.(string); ok && policy == AlwaysSet {
		val = null.NewString(s, s != "")
	}
	for i, c := range cs.columns {
		if c == col {
			cs.values[i] = val
			return
		}
	}
	cs.columns = append(cs.columns, col)
	cs.values = append(cs.values, val)
}

func (cs Changeset) Columns() []string { return cs.columns }

func (cs Changeset) Values() []interface{} { return cs.values }

func (cs Changeset) IsEmpty() bool { return len(cs.columns) == 0 }

// Has reports whether `col` is part of the update.
func (cs Changeset) Has(col string) bool {
	_, ok := cs.Get(col)
	return ok
}

func (cs Changeset) Get(col string) (interface{}, bool) {
	for i, c := range cs.columns {
		if c == col {
			return cs.values[i], true
		}
	}
	return nil, false
}

func normalize(val interface{}) (interface{}, bool) {
	if val == nil {
		return nil, true
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, true
		}
		rv = rv.Elem()
		val = rv.Interface()
	}
	if rv.Kind() == reflect.String {
		return val, rv.Len() == 0
	}
	return val, false
}
