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

package pattern

import (
	"net/url"
	"strings"
)

// Kind identifies the type of a path segment.
type Kind uint8

const (
	// Literal segments must match the request segment exactly.
	Literal Kind = iota
	// Variable segments capture exactly one request segment.
	Variable
)

// String returns a human readable name for the kind.
func (k Kind) String() string {
	if k == Variable {
		return "variable"
	}
	return "literal"
}

// Segment is a single step of a parsed path template.
// For literal segments Text holds the literal text, for variables it holds
// the variable name.
type Segment struct {
	Kind Kind
	Text string
}

// Path is a parsed route template such as "/users/{id}/edit".
// A Path is immutable once parsed and safe for concurrent use.
type Path struct {
	raw      string
	segments []Segment
	names    []string
}

// Parse parses a route template.
//
// Leading and trailing slashes are ignored, so "users/{id}" and "/users/{id}/"
// describe the same path. The empty template (or "/") is the root path and
// has no segments.
//
// Parse returns a *MalformedPathError when a variable name repeats, braces
// are unbalanced, a variable name is empty or not an identifier, or the
// template contains an empty inner segment ("a//b").
func Parse(template string) (*Path, error) {
	trimmed := strings.Trim(template, "/")
	p := &Path{raw: "/" + trimmed}
	if trimmed == "" {
		return p, nil
	}

	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(trimmed, "/") {
		seg, err := parseSegment(template, part)
		if err != nil {
			return nil, err
		}
		if seg.Kind == Variable {
			if _, dup := seen[seg.Text]; dup {
				return nil, &MalformedPathError{Template: template, Reason: "duplicate variable " + seg.Text}
			}
			seen[seg.Text] = struct{}{}
			p.names = append(p.names, seg.Text)
		}
		p.segments = append(p.segments, seg)
	}

	return p, nil
}

// MustParse is like Parse but panics if the template is malformed.
// It simplifies initialization of package-level paths and tests.
func MustParse(template string) *Path {
	p, err := Parse(template)
	if err != nil {
		panic(err)
	}
	return p
}

func parseSegment(template, part string) (Segment, error) {
	if part == "" {
		return Segment{}, &MalformedPathError{Template: template, Reason: "empty segment"}
	}

	open := strings.IndexByte(part, '{')
	closing := strings.LastIndexByte(part, '}')
	if open == -1 && closing == -1 {
		return Segment{Kind: Literal, Text: part}, nil
	}
	if open != 0 || closing != len(part)-1 || strings.Count(part, "{") != 1 || strings.Count(part, "}") != 1 {
		return Segment{}, &MalformedPathError{Template: template, Reason: "unbalanced braces in " + part}
	}

	name := part[1 : len(part)-1]
	if !isIdentifier(name) {
		return Segment{}, &MalformedPathError{Template: template, Reason: "invalid variable name " + part}
	}

	return Segment{Kind: Variable, Text: name}, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// String returns the normalized template, always rooted at "/".
func (p *Path) String() string {
	return p.raw
}

// Segments returns the parsed segments. The returned slice must not be modified.
func (p *Path) Segments() []Segment {
	return p.segments
}

// Len returns the number of segments.
func (p *Path) Len() int {
	return len(p.segments)
}

// Names returns the variable names in template order.
func (p *Path) Names() []string {
	return p.names
}

// Variables returns the set of variable names.
func (p *Path) Variables() map[string]struct{} {
	vars := make(map[string]struct{}, len(p.names))
	for _, name := range p.names {
		vars[name] = struct{}{}
	}
	return vars
}

// HasVariable reports whether name is a variable of the path.
func (p *Path) HasVariable(name string) bool {
	for _, n := range p.names {
		if n == name {
			return true
		}
	}
	return false
}

// Interpolate substitutes each variable with its value and returns the
// resulting URL path with a leading slash. Values are escaped as single path
// segments. It returns a *MissingVariableError when a variable has no value.
func (p *Path) Interpolate(values map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	var b strings.Builder
	b.Grow(len(p.raw) + 16)
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.Kind == Literal {
			b.WriteString(seg.Text)
			continue
		}
		v, ok := values[seg.Text]
		if !ok {
			return "", &MissingVariableError{Template: p.raw, Name: seg.Text}
		}
		b.WriteString(url.PathEscape(v))
	}

	return b.String(), nil
}

// Join returns the path formed by appending sub to p.
// A variable present in both paths makes the result malformed.
func (p *Path) Join(sub *Path) (*Path, error) {
	out := &Path{}
	out.segments = append(append(out.segments, p.segments...), sub.segments...)
	out.names = append(append(out.names, p.names...), sub.names...)
	out.raw = render(out.segments)

	for _, name := range sub.names {
		if p.HasVariable(name) {
			return nil, &MalformedPathError{Template: out.raw, Reason: "duplicate variable " + name}
		}
	}

	return out, nil
}

func render(segments []Segment) string {
	if len(segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		if seg.Kind == Variable {
			b.WriteString("{" + seg.Text + "}")
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// Split splits an escaped request path into unescaped segments.
// Empty segments are dropped, so "/a//b/" yields ["a", "b"].
func Split(escapedPath string) ([]string, error) {
	var segments []string
	for part := range strings.SplitSeq(escapedPath, "/") {
		if part == "" {
			continue
		}
		seg, err := url.PathUnescape(part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}
