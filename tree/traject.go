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

package tree

import (
	"cmp"
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"rivaas.dev/traject/pattern"
)

// Traject is a trie of path steps resolving request segments to models.
//
// Each node has ordered literal edges and at most one variable slot, and at
// most one registration terminates at any node. Literal edges always take
// precedence over the variable slot. A Traject is built single-threaded and is
// safe for concurrent resolution after [Traject.Freeze].
type Traject struct {
	root   *node
	byType map[reflect.Type]*Registration
	routes []*Registration
	frozen bool
}

type node struct {
	edges    []edge
	variable *node
	reg      *Registration
}

type edge struct {
	label string
	node  *node
}

func (n *node) literal(label string) *node {
	for i := range n.edges {
		if n.edges[i].label == label {
			return n.edges[i].node
		}
	}
	return nil
}

// New returns an empty Traject.
func New() *Traject {
	return &Traject{
		root:   &node{},
		byType: make(map[reflect.Type]*Registration),
	}
}

// Register adds reg to the trie.
// It returns a *ConflictError when another registration terminates at the same
// step sequence, and ErrFrozen after Freeze.
func (t *Traject) Register(reg *Registration) error {
	if t.frozen {
		return ErrFrozen
	}

	n := t.root
	for _, seg := range reg.Path.Segments() {
		if seg.Kind == pattern.Variable {
			if n.variable == nil {
				n.variable = &node{}
			}
			n = n.variable
			continue
		}
		child := n.literal(seg.Text)
		if child == nil {
			child = &node{}
			n.edges = append(n.edges, edge{label: seg.Text, node: child})
		}
		n = child
	}

	if n.reg != nil {
		if n.reg == reg {
			return nil
		}
		return &ConflictError{Path: reg.Path.String(), Existing: n.reg.Path.String()}
	}
	n.reg = reg
	t.routes = append(t.routes, reg)

	if !reg.Mount && reg.Model != nil {
		if _, exists := t.byType[reg.Model]; !exists {
			t.byType[reg.Model] = reg
		}
	}
	return nil
}

// Freeze makes the Traject read-only.
func (t *Traject) Freeze() {
	t.frozen = true
}

// Frozen reports whether Freeze has been called.
func (t *Traject) Frozen() bool {
	return t.frozen
}

// RegistrationFor returns the first registration for the model type.
// Mount registrations are not indexed.
func (t *Traject) RegistrationFor(model reflect.Type) (*Registration, bool) {
	reg, ok := t.byType[model]
	return reg, ok
}

// Routes returns the registrations in registration order.
func (t *Traject) Routes() []*Registration {
	return slices.Clone(t.routes)
}

// Match is the outcome of a successful resolution.
type Match struct {
	Model        any
	Registration *Registration
	// Consumed is the number of segments the registration's path consumed.
	Consumed int
	// Variables holds the decoded factory arguments, extras included.
	Variables map[string]any
	// Attempts counts the candidates tried, the successful one included.
	Attempts int
}

type candidate struct {
	reg      *Registration
	depth    int
	captured []string
}

// Resolve finds the model for the longest resolvable prefix of segments.
//
// Every registration terminating along segments is a candidate. Candidates
// are tried longest first, ties in literal-first order. A candidate fails
// when a path variable or a required URL parameter does not decode, or when
// its factory reports no model; the next candidate is then tried. Optional
// URL parameters that are absent or do not decode take their default.
//
// extra holds structural values (request, parent, mount context) passed to
// every factory.
func (t *Traject) Resolve(segments []string, query url.Values, extra map[string]any) (Match, bool) {
	candidates := t.candidates(segments)
	for i, c := range candidates {
		values, ok := decode(c, query, extra)
		if !ok {
			continue
		}
		model, found := c.reg.Factory(Args{values: values})
		if !found || model == nil {
			continue
		}
		return Match{
			Model:        model,
			Registration: c.reg,
			Consumed:     c.depth,
			Variables:    values,
			Attempts:     i + 1,
		}, true
	}
	return Match{Attempts: len(candidates)}, false
}

func (t *Traject) candidates(segments []string) []candidate {
	var out []candidate
	var walk func(n *node, depth int, captured []string)
	walk = func(n *node, depth int, captured []string) {
		if n.reg != nil {
			out = append(out, candidate{reg: n.reg, depth: depth, captured: slices.Clone(captured)})
		}
		if depth == len(segments) {
			return
		}
		seg := segments[depth]
		if child := n.literal(seg); child != nil {
			walk(child, depth+1, captured)
		}
		if n.variable != nil {
			walk(n.variable, depth+1, append(slices.Clip(captured), seg))
		}
	}
	walk(t.root, 0, nil)

	slices.SortStableFunc(out, func(a, b candidate) int {
		return cmp.Compare(b.depth, a.depth)
	})
	return out
}

func decode(c candidate, query url.Values, extra map[string]any) (map[string]any, bool) {
	values := make(map[string]any, len(extra)+len(c.reg.Converters))
	maps.Copy(values, extra)

	for i, name := range c.reg.Path.Names() {
		v, err := c.reg.Converters[name].Decode([]string{c.captured[i]})
		if err != nil {
			return nil, false
		}
		values[name] = v
	}

	for name := range c.reg.Parameters {
		conv := c.reg.Converters[name]
		required := c.reg.IsRequired(name)
		raw := query[name]
		if len(raw) == 0 {
			if required {
				return nil, false
			}
			values[name] = conv.Default()
			continue
		}
		v, err := conv.Decode(raw)
		if err != nil {
			if required {
				return nil, false
			}
			v = conv.Default()
		}
		values[name] = v
	}
	return values, true
}

// Reverse returns the path and URL parameters addressing model through reg.
// Optional URL parameters equal to their default are omitted; required ones
// are always present, and a required parameter without a value is a
// *pattern.MissingVariableError.
func (t *Traject) Reverse(model any, reg *Registration) (string, url.Values, error) {
	vars := reg.Variables(model)

	segments := make(map[string]string, len(reg.Path.Names()))
	for _, name := range reg.Path.Names() {
		v, ok := vars[name]
		if !ok {
			return "", nil, &pattern.MissingVariableError{Template: reg.Path.String(), Name: name}
		}
		encoded, err := reg.Converters[name].Encode(v)
		if err != nil {
			return "", nil, fmt.Errorf("encoding path variable %s: %w", name, err)
		}
		if len(encoded) == 0 {
			return "", nil, &pattern.MissingVariableError{Template: reg.Path.String(), Name: name}
		}
		segments[name] = encoded[0]
	}

	path, err := reg.Path.Interpolate(segments)
	if err != nil {
		return "", nil, err
	}

	query := url.Values{}
	for _, name := range slices.Sorted(maps.Keys(reg.Parameters)) {
		required := reg.IsRequired(name)
		v, ok := vars[name]
		if !ok {
			if required {
				return "", nil, &pattern.MissingVariableError{Template: reg.Path.String(), Name: name}
			}
			continue
		}
		conv := reg.Converters[name]
		if !required && conv.IsDefault(v) {
			continue
		}
		encoded, err := conv.Encode(v)
		if err != nil {
			return "", nil, fmt.Errorf("encoding parameter %s: %w", name, err)
		}
		if len(encoded) == 0 {
			if required {
				return "", nil, &pattern.MissingVariableError{Template: reg.Path.String(), Name: name}
			}
			continue
		}
		query[name] = encoded
	}
	return path, query, nil
}

// Link returns the URL of model through reg, with the query string appended
// when any URL parameter differs from its default.
func (t *Traject) Link(model any, reg *Registration) (string, error) {
	path, query, err := t.Reverse(model, reg)
	if err != nil {
		return "", err
	}
	return JoinQuery(path, query), nil
}

// JoinQuery appends the encoded query to path. Keys are sorted.
func JoinQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('?')
	b.WriteString(query.Encode())
	return b.String()
}
