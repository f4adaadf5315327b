// Package util provides small generic collection helpers shared by the
// qlang parser-generator packages: ordered-string sets, string-keyed value
// sets, and a slice-backed stack. These mirror the handful of container
// shapes the automaton and grammar fixpoints need (deterministic iteration
// order, set algebra, LIFO token/state stacks) without pulling in a
// general-purpose collections library.
package util

import (
	"sort"
	"strings"
)

// OrderedKeys returns the keys of m sorted ascending. Used whenever map
// iteration needs to be deterministic, such as when printing tables or
// renumbering automaton states.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stack is a simple LIFO stack. The zero value is an empty, usable stack.
type Stack[T any] struct {
	Of []T
}

// Push adds v to the top of the stack.
func (s *Stack[T]) Push(v T) {
	s.Of = append(s.Of, v)
}

// Pop removes and returns the top of the stack. Panics if the stack is empty.
func (s *Stack[T]) Pop() T {
	if len(s.Of) == 0 {
		panic("pop of empty stack")
	}
	v := s.Of[len(s.Of)-1]
	s.Of = s.Of[:len(s.Of)-1]
	return v
}

// Peek returns the top of the stack without removing it. Panics if empty.
func (s Stack[T]) Peek() T {
	if len(s.Of) == 0 {
		panic("peek of empty stack")
	}
	return s.Of[len(s.Of)-1]
}

// Len returns the number of elements on the stack.
func (s Stack[T]) Len() int {
	return len(s.Of)
}

// Empty returns whether the stack has no elements.
func (s Stack[T]) Empty() bool {
	return len(s.Of) == 0
}

// ArticleFor returns the indefinite article ("a" or "an") appropriate to
// precede noun, based on whether it starts with a vowel letter. If
// capitalize is true, the returned article is capitalized.
func ArticleFor(noun string, capitalize bool) string {
	article := "a"
	if len(noun) > 0 {
		switch noun[0] {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			article = "an"
		}
	}
	if capitalize {
		return strings.ToUpper(article[:1]) + article[1:]
	}
	return article
}
