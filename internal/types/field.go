// Package types provides the format-agnostic tag model shared by every codec.
//
// This package defines TagField, TagSet, ReleaseDate and CoverImage together
// with the merge rules that reconcile an update against a file's existing tags.
package types

import "fmt"

// FieldState is the state of a TagField.
type FieldState uint8

const (
	// StateUnspecified means the field was not provided and should be left alone.
	StateUnspecified FieldState = iota
	// StateAbsent means the field is explicitly empty.
	StateAbsent
	// StatePresent means the field carries a value.
	StatePresent
)

func (s FieldState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StatePresent:
		return "present"
	default:
		return "unspecified"
	}
}

// TagField is a tri-state tag attribute.
//
// The zero value is Unspecified, so a TagSet literal only touches the fields
// it names:
//
//	update := audiotag.TagSet{Title: audiotag.Present("New Title")}
//
// Absent and Unspecified fields never carry a value.
type TagField[T any] struct {
	value T
	state FieldState
}

// Present returns a field holding v.
func Present[T any](v T) TagField[T] {
	return TagField[T]{state: StatePresent, value: v}
}

// Absent returns an explicitly empty field. Writing it removes the tag.
func Absent[T any]() TagField[T] {
	return TagField[T]{state: StateAbsent}
}

// Unspecified returns a field that leaves the existing value untouched.
func Unspecified[T any]() TagField[T] {
	return TagField[T]{}
}

// State reports which of the three states the field is in.
func (f TagField[T]) State() FieldState {
	return f.state
}

// Get returns the value and whether the field is Present.
func (f TagField[T]) Get() (T, bool) {
	return f.value, f.state == StatePresent
}

// IsPresent reports whether the field carries a value.
func (f TagField[T]) IsPresent() bool { return f.state == StatePresent }

// IsAbsent reports whether the field is explicitly empty.
func (f TagField[T]) IsAbsent() bool { return f.state == StateAbsent }

// IsUnspecified reports whether the field was left out.
func (f TagField[T]) IsUnspecified() bool { return f.state == StateUnspecified }

// OrElse returns the value if Present, def otherwise.
func (f TagField[T]) OrElse(def T) T {
	if f.state == StatePresent {
		return f.value
	}
	return def
}

// String formats a Present value with %v and renders other states by name.
func (f TagField[T]) String() string {
	if f.state != StatePresent {
		return "<" + f.state.String() + ">"
	}
	return fmt.Sprint(f.value)
}

// mergeField applies the delta rules to a single field.
func mergeField[T any](old, next TagField[T]) TagField[T] {
	switch next.state {
	case StatePresent:
		return next
	case StateAbsent:
		return Absent[T]()
	default:
		if old.state == StatePresent {
			return old
		}
		return Absent[T]()
	}
}

// equalField compares two fields with eq applied to Present values.
func equalField[T any](a, b TagField[T], eq func(x, y T) bool) bool {
	if a.state != b.state {
		return false
	}
	if a.state != StatePresent {
		return true
	}
	return eq(a.value, b.value)
}

func equalComparable[T comparable](x, y T) bool {
	return x == y
}
