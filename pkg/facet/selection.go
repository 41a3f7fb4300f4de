// Package facet implements result filtering by facet dimensions (source,
// content type): a selection set per dimension, a synchronizer that mirrors
// each selection into a URL query parameter, and a collector that derives
// the available facet values with occurrence counts from a result list.
package facet

import "sort"

// Selection is a set of chosen facet values. Order is irrelevant; the
// canonical form (sorted) is produced by Values.
type Selection map[string]struct{}

// NewSelection builds a selection from the given values.
func NewSelection(values ...string) Selection {
	s := make(Selection, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Selection) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Toggle adds value if absent and removes it if present.
func (s Selection) Toggle(value string) {
	if _, ok := s[value]; ok {
		delete(s, value)
		return
	}
	s[value] = struct{}{}
}

// Values returns the selection in sorted order.
func (s Selection) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s) == 0
}

// Equal reports whether two selections contain exactly the same values.
func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if _, ok := other[v]; !ok {
			return false
		}
	}
	return true
}

// Intersect returns a new selection containing only the values also present
// in available.
func (s Selection) Intersect(available []string) Selection {
	keep := NewSelection(available...)
	out := make(Selection, len(s))
	for v := range s {
		if keep.Has(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}
