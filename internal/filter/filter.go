// Package filter derives filtered views over page collections such as videos
// and reviews. Filtering never mutates or reorders the source slice.
package filter

import (
	"cmp"
	"fmt"
	"slices"
)

// All is the sentinel category that selects every item.
const All = "all"

type Kind int

const (
	// Equals matches items whose field equals the predicate value.
	Equals Kind = iota + 1
	// AtLeast matches items whose field is greater than or equal to the value.
	AtLeast
)

func (k Kind) String() string {
	switch k {
	case Equals:
		return "equals"
	case AtLeast:
		return "atLeast"
	default:
		return "unknown"
	}
}

// Predicate is a tagged match rule over a categorical field.
type Predicate[K cmp.Ordered] struct {
	Kind  Kind
	Value K
}

func Eq[K cmp.Ordered](v K) Predicate[K] {
	return Predicate[K]{Kind: Equals, Value: v}
}

func Min[K cmp.Ordered](v K) Predicate[K] {
	return Predicate[K]{Kind: AtLeast, Value: v}
}

func (p Predicate[K]) Match(v K) bool {
	switch p.Kind {
	case Equals:
		return v == p.Value
	case AtLeast:
		return v >= p.Value
	default:
		return false
	}
}

func (p Predicate[K]) String() string {
	return fmt.Sprintf("%s:%v", p.Kind, p.Value)
}

// State is the active filter of one list. The zero value selects all items.
type State[K cmp.Ordered] struct {
	pred    Predicate[K]
	applied bool
}

func By[K cmp.Ordered](p Predicate[K]) State[K] {
	return State[K]{pred: p, applied: true}
}

func (s State[K]) IsAll() bool {
	return !s.applied
}

// Active returns the selected value rendered for a filter control, or All.
func (s State[K]) Active() string {
	if !s.applied {
		return All
	}
	return fmt.Sprint(s.pred.Value)
}

// Selects reports whether the control for value v is the active one.
func (s State[K]) Selects(v K) bool {
	return s.applied && s.pred.Value == v
}

// View is the result of applying a State to a collection.
type View[T any] struct {
	Items   []T
	Applied bool
}

// NoResults is true only when a filter was applied and matched nothing.
func (v View[T]) NoResults() bool {
	return v.Applied && len(v.Items) == 0
}

// Apply returns the stable-ordered subsequence of items whose field satisfies
// the state's predicate. The returned slice never aliases items.
func Apply[T any, K cmp.Ordered](items []T, field func(T) K, state State[K]) View[T] {
	if state.IsAll() {
		out := slices.Clone(items)
		if out == nil {
			out = []T{}
		}
		return View[T]{Items: out}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if state.pred.Match(field(item)) {
			out = append(out, item)
		}
	}
	return View[T]{Items: out, Applied: true}
}

// Counts holds badge counts computed from a full, unfiltered collection.
type Counts[K comparable] struct {
	All        int
	ByCategory map[K]int
}

func (c Counts[K]) Of(k K) int {
	return c.ByCategory[k]
}

func CountByCategory[T any, K comparable](items []T, field func(T) K) Counts[K] {
	counts := Counts[K]{All: len(items), ByCategory: make(map[K]int)}
	for _, item := range items {
		counts.ByCategory[field(item)]++
	}
	return counts
}
