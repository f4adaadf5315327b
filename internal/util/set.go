package util

import "strings"

// StringSet is a set of strings with deterministic, sorted iteration.
type StringSet map[string]struct{}

// NewStringSet creates a StringSet, optionally pre-populated from the given
// slices of elements.
func NewStringSet(of ...[]string) StringSet {
	s := StringSet{}
	for _, elems := range of {
		for _, e := range elems {
			s.Add(e)
		}
	}
	return s
}

// StringSetOf creates a StringSet from a single slice of elements.
func StringSetOf(elems []string) StringSet {
	return NewStringSet(elems)
}

// Add adds element to the set. No-op if already present.
func (s StringSet) Add(element string) {
	s[element] = struct{}{}
}

// AddAll adds every element of o to s.
func (s StringSet) AddAll(o StringSet) {
	for e := range o {
		s.Add(e)
	}
}

// Remove removes element from the set. No-op if not present.
func (s StringSet) Remove(element string) {
	delete(s, element)
}

// Has returns whether element is in the set.
func (s StringSet) Has(element string) bool {
	_, ok := s[element]
	return ok
}

// Len returns the number of elements in the set.
func (s StringSet) Len() int {
	return len(s)
}

// Empty returns whether the set has no elements.
func (s StringSet) Empty() bool {
	return len(s) == 0
}

// Copy returns a shallow duplicate of the set.
func (s StringSet) Copy() StringSet {
	return NewStringSet(s.Elements())
}

// Elements returns the set's members sorted ascending.
func (s StringSet) Elements() []string {
	return OrderedKeys(toValMap(s))
}

// Any returns whether predicate holds for at least one element.
func (s StringSet) Any(predicate func(v string) bool) bool {
	for e := range s {
		if predicate(e) {
			return true
		}
	}
	return false
}

// Union returns a new set containing all elements of both s and o.
func (s StringSet) Union(o StringSet) StringSet {
	u := s.Copy()
	u.AddAll(o)
	return u
}

// Intersection returns a new set of elements present in both s and o.
func (s StringSet) Intersection(o StringSet) StringSet {
	i := NewStringSet()
	for e := range s {
		if o.Has(e) {
			i.Add(e)
		}
	}
	return i
}

// Difference returns a new set of elements in s but not in o.
func (s StringSet) Difference(o StringSet) StringSet {
	d := NewStringSet()
	for e := range s {
		if !o.Has(e) {
			d.Add(e)
		}
	}
	return d
}

// StringOrdered returns the set's contents joined in sorted order, suitable
// for use as a canonical key for an item set (e.g. a DFA state name).
func (s StringSet) StringOrdered() string {
	return strings.Join(s.Elements(), ",")
}

func toValMap(s StringSet) map[string]struct{} {
	return s
}

// SVSet is a set of strings each carrying an associated value of type V.
type SVSet[V any] map[string]V

// NewSVSet creates an SVSet, optionally seeded from the given maps.
func NewSVSet[V any](of ...map[string]V) SVSet[V] {
	s := SVSet[V]{}
	for _, m := range of {
		for k, v := range m {
			s.Set(k, v)
		}
	}
	return s
}

// Set assigns element's value, adding it to the set if not already present.
func (s SVSet[V]) Set(element string, v V) {
	s[element] = v
}

// Get returns the value associated with element, or the zero value of V.
func (s SVSet[V]) Get(element string) V {
	return s[element]
}

// Has returns whether element is in the set.
func (s SVSet[V]) Has(element string) bool {
	_, ok := s[element]
	return ok
}

// Elements returns the set's members sorted ascending.
func (s SVSet[V]) Elements() []string {
	return OrderedKeys(s)
}

// StringOrdered returns the set's keys joined in sorted order, the canonical
// identity of the item set regardless of the values attached to each key.
func (s SVSet[V]) StringOrdered() string {
	return strings.Join(s.Elements(), ",")
}
