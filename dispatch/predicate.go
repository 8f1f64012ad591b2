// Copyright 2026 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dispatch

import (
	"cmp"
	"fmt"
	"slices"
)

// Predicate computes one dimension of a view selection from an observed
// value, usually the request.
type Predicate struct {
	// Name identifies the predicate in registrations.
	Name string
	// Default is used when a registration does not mention the predicate.
	Default any
	// Order sorts predicates; lower values are evaluated first.
	Order int
	// Compute extracts the predicate value from the observed value.
	Compute func(observed any) any
	// Fallback is returned by Match when this predicate is the first one
	// no registration satisfies. Nil means ErrNoMatch.
	Fallback error
}

// Matcher selects a value by the combined values of its predicates.
// It is built single-threaded and read concurrently afterwards.
type Matcher struct {
	predicates []Predicate
	entries    []matcherEntry
}

type matcherEntry struct {
	key   []string
	value any
}

// NewMatcher returns a matcher over the given predicates, sorted by Order.
func NewMatcher(predicates ...Predicate) *Matcher {
	sorted := slices.Clone(predicates)
	slices.SortStableFunc(sorted, func(a, b Predicate) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return &Matcher{predicates: sorted}
}

// Predicates returns the predicates in evaluation order.
func (m *Matcher) Predicates() []Predicate {
	return slices.Clone(m.predicates)
}

// Add registers value for the given predicate values. Predicates missing from
// values take their default; unknown names are an error.
func (m *Matcher) Add(values map[string]any, value any) error {
	for name := range values {
		if !slices.ContainsFunc(m.predicates, func(p Predicate) bool { return p.Name == name }) {
			return fmt.Errorf("unknown predicate %q", name)
		}
	}

	key := make([]string, len(m.predicates))
	for i, p := range m.predicates {
		v, ok := values[p.Name]
		if !ok {
			v = p.Default
		}
		key[i] = fmt.Sprint(v)
	}
	for _, e := range m.entries {
		if slices.Equal(e.key, key) {
			return &DuplicateError{Key: fmt.Sprint(key)}
		}
	}
	m.entries = append(m.entries, matcherEntry{key: key, value: value})
	return nil
}

// Match computes every predicate from observed and returns the registered
// value. Predicates are applied in order; when one leaves no candidate its
// Fallback error is returned.
func (m *Matcher) Match(observed any) (any, error) {
	candidates := m.entries
	for i, p := range m.predicates {
		var v any = p.Default
		if p.Compute != nil {
			v = p.Compute(observed)
		}
		want := fmt.Sprint(v)

		var next []matcherEntry
		for _, e := range candidates {
			if e.key[i] == want {
				next = append(next, e)
			}
		}
		if len(next) == 0 {
			if p.Fallback != nil {
				return nil, p.Fallback
			}
			return nil, ErrNoMatch
		}
		candidates = next
	}
	if len(candidates) == 0 {
		return nil, ErrNoMatch
	}
	return candidates[0].value, nil
}

// Len returns the number of registered values.
func (m *Matcher) Len() int {
	return len(m.entries)
}
