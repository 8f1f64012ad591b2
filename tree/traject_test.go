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
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/traject/converter"
	"rivaas.dev/traject/pattern"
)

type user struct {
	Name string
}

type me struct{}

type document struct {
	ID   int `path:"id"`
	Page int
}

type search struct {
	A string
	B string
}

type container struct {
	ID string `path:"container_id"`
}

type item struct {
	Parent *container
	ID     string `path:"item_id"`
}

func (i *item) PathVariables() map[string]any {
	return map[string]any{"item_id": i.ID}
}

func mustRegister(t *testing.T, tr *Traject, model any, path string, args []converter.Argument, factory Factory, opts ...Option) *Registration {
	t.Helper()
	reg, err := NewRegistration(reflect.TypeOf(model), path, args, converter.NewRegistry(), factory, opts...)
	require.NoError(t, err)
	require.NoError(t, tr.Register(reg))
	return reg
}

func userFactory(args Args) (any, bool) {
	return &user{Name: args.String("name")}, true
}

func TestResolve_RoundTrip(t *testing.T) {
	t.Parallel()

	tr := New()
	reg := mustRegister(t, tr, &user{}, "/users/{name}", nil, userFactory)
	tr.Freeze()

	for _, name := range []string{"alice", "a b", "x/y", "ünï"} {
		link, err := tr.Link(&user{Name: name}, reg)
		require.NoError(t, err)

		u, err := url.Parse(link)
		require.NoError(t, err)
		segments, err := pattern.Split(u.EscapedPath())
		require.NoError(t, err)

		m, ok := tr.Resolve(segments, u.Query(), nil)
		require.True(t, ok, "link %s", link)
		assert.Equal(t, name, m.Model.(*user).Name)
		assert.Equal(t, 2, m.Consumed)
	}
}

func TestResolve_LiteralPrecedence(t *testing.T) {
	t.Parallel()

	tr := New()
	mustRegister(t, tr, &user{}, "/users/{name}", nil, userFactory)
	mustRegister(t, tr, &me{}, "/users/me", nil, func(Args) (any, bool) { return &me{}, true })

	m, ok := tr.Resolve([]string{"users", "me"}, nil, nil)
	require.True(t, ok)
	assert.IsType(t, &me{}, m.Model)

	m, ok = tr.Resolve([]string{"users", "bob"}, nil, nil)
	require.True(t, ok)
	assert.Equal(t, "bob", m.Model.(*user).Name)
}

func TestResolve_LiteralAbsentFallsBackToVariable(t *testing.T) {
	t.Parallel()

	tr := New()
	mustRegister(t, tr, &user{}, "/users/{name}", nil, userFactory)
	mustRegister(t, tr, &me{}, "/users/me", nil, func(Args) (any, bool) { return nil, false })

	m, ok := tr.Resolve([]string{"users", "me"}, nil, nil)
	require.True(t, ok)
	assert.Equal(t, "me", m.Model.(*user).Name)
	assert.Equal(t, 2, m.Attempts)
}

func TestResolve_LongestMatchWithBacktrack(t *testing.T) {
	t.Parallel()

	tr := New()
	mustRegister(t, tr, "", "/docs", nil, func(Args) (any, bool) { return "index", true })
	mustRegister(t, tr, &document{}, "/docs/{id}", []converter.Argument{converter.Arg("id", 0)},
		func(args Args) (any, bool) {
			if args.Int("id") > 100 {
				return nil, false
			}
			return &document{ID: args.Int("id")}, true
		})

	tests := []struct {
		name     string
		segments []string
		want     any
		consumed int
	}{
		{name: "full match", segments: []string{"docs", "7"}, want: &document{ID: 7}, consumed: 2},
		{name: "decode failure", segments: []string{"docs", "seven"}, want: "index", consumed: 1},
		{name: "factory absence", segments: []string{"docs", "101"}, want: "index", consumed: 1},
		{name: "remaining segments", segments: []string{"docs", "7", "edit"}, want: &document{ID: 7}, consumed: 2},
		{name: "prefix only", segments: []string{"docs"}, want: "index", consumed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, ok := tr.Resolve(tt.segments, nil, nil)
			require.True(t, ok)
			assert.Equal(t, tt.want, m.Model)
			assert.Equal(t, tt.consumed, m.Consumed)
		})
	}

	_, ok := tr.Resolve([]string{"other"}, nil, nil)
	assert.False(t, ok)
}

func TestResolve_Parameters(t *testing.T) {
	t.Parallel()

	tr := New()
	reg := mustRegister(t, tr, &search{}, "/path",
		[]converter.Argument{converter.Arg("a", nil), converter.Arg("b", nil)},
		func(args Args) (any, bool) {
			return &search{A: args.String("a"), B: args.String("b")}, true
		})

	link, err := tr.Link(&search{A: "foo", B: "bar"}, reg)
	require.NoError(t, err)
	assert.Equal(t, "/path?a=foo&b=bar", link)

	link, err = tr.Link(&search{}, reg)
	require.NoError(t, err)
	assert.Equal(t, "/path", link)

	m, ok := tr.Resolve([]string{"path"}, url.Values{"a": {"foo"}, "b": {"bar"}}, nil)
	require.True(t, ok)
	assert.Equal(t, &search{A: "foo", B: "bar"}, m.Model)
}

func TestResolve_OptionalParameterDefaults(t *testing.T) {
	t.Parallel()

	tr := New()
	reg := mustRegister(t, tr, &document{}, "/docs/{id}",
		[]converter.Argument{converter.Arg("id", 0), converter.Arg("page", 1)},
		func(args Args) (any, bool) {
			return &document{ID: args.Int("id"), Page: args.Int("page")}, true
		})

	m, ok := tr.Resolve([]string{"docs", "3"}, url.Values{"page": {"two"}}, nil)
	require.True(t, ok)
	assert.Equal(t, 1, m.Model.(*document).Page)

	m, ok = tr.Resolve([]string{"docs", "3"}, nil, nil)
	require.True(t, ok)
	assert.Equal(t, 1, m.Model.(*document).Page)

	link, err := tr.Link(&document{ID: 3, Page: 1}, reg)
	require.NoError(t, err)
	assert.Equal(t, "/docs/3", link)

	link, err = tr.Link(&document{ID: 3, Page: 4}, reg)
	require.NoError(t, err)
	assert.Equal(t, "/docs/3?page=4", link)
}

func TestResolve_RequiredParameter(t *testing.T) {
	t.Parallel()

	tr := New()
	mustRegister(t, tr, &document{}, "/docs",
		[]converter.Argument{converter.Arg("id", 0).AsRequired()},
		func(args Args) (any, bool) { return &document{ID: args.Int("id")}, true })

	_, ok := tr.Resolve([]string{"docs"}, nil, nil)
	assert.False(t, ok)

	_, ok = tr.Resolve([]string{"docs"}, url.Values{"id": {"x"}}, nil)
	assert.False(t, ok)

	m, ok := tr.Resolve([]string{"docs"}, url.Values{"id": {"9"}}, nil)
	require.True(t, ok)
	assert.Equal(t, 9, m.Model.(*document).ID)
}

func TestResolve_ListParameter(t *testing.T) {
	t.Parallel()

	type tagged struct{ Tags []int }

	tr := New()
	reg := mustRegister(t, tr, &tagged{}, "/tagged",
		[]converter.Argument{converter.Arg("tags", []int{})},
		func(args Args) (any, bool) {
			tags, _ := args.Get("tags").([]int)
			return &tagged{Tags: tags}, true
		})

	m, ok := tr.Resolve([]string{"tagged"}, url.Values{"tags": {"1", "2"}}, nil)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, m.Model.(*tagged).Tags)

	link, err := tr.Link(&tagged{Tags: []int{3, 4}}, reg)
	require.NoError(t, err)
	assert.Equal(t, "/tagged?tags=3&tags=4", link)
}

func TestResolve_ExtrasReachFactory(t *testing.T) {
	t.Parallel()

	tr := New()
	mustRegister(t, tr, &user{}, "/users/{name}",
		[]converter.Argument{converter.Arg("request", nil), converter.Arg("tenant", nil)},
		func(args Args) (any, bool) {
			return &user{Name: args.String("tenant") + ":" + args.String("name") + ":" + args.Request().(string)}, true
		},
		WithExcluded("tenant"))

	m, ok := tr.Resolve([]string{"users", "bob"}, url.Values{"tenant": {"ignored"}}, map[string]any{
		RequestArgument: "req",
		"tenant":        "acme",
	})
	require.True(t, ok)
	assert.Equal(t, "acme:bob:req", m.Model.(*user).Name)
	assert.NotContains(t, m.Registration.Parameters, "tenant")
	assert.NotContains(t, m.Registration.Parameters, "request")
}

func TestRegister_Conflict(t *testing.T) {
	t.Parallel()

	tr := New()
	mustRegister(t, tr, &user{}, "/users/{name}", nil, userFactory)

	reg, err := NewRegistration(reflect.TypeOf(&me{}), "/users/{id}", nil, converter.NewRegistry(), userFactory)
	require.NoError(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, tr.Register(reg), &conflict)
	assert.Equal(t, "/users/{id}", conflict.Path)
	assert.Equal(t, "/users/{name}", conflict.Existing)
}

func TestRegister_Frozen(t *testing.T) {
	t.Parallel()

	tr := New()
	tr.Freeze()
	assert.True(t, tr.Frozen())

	reg, err := NewRegistration(reflect.TypeOf(&user{}), "/users", nil, converter.NewRegistry(), userFactory)
	require.NoError(t, err)
	assert.ErrorIs(t, tr.Register(reg), ErrFrozen)
}

func TestLink_RequiredParameterRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []converter.Argument
		model any
		want  string
	}{
		{
			name:  "zero value without default",
			args:  []converter.Argument{converter.Typed[int]("page").AsRequired()},
			model: &document{Page: 0},
			want:  "/docs?page=0",
		},
		{
			name:  "value equal to default",
			args:  []converter.Argument{converter.Arg("page", 1).AsRequired()},
			model: &document{Page: 1},
			want:  "/docs?page=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := New()
			reg := mustRegister(t, tr, &document{}, "/docs", tt.args,
				func(args Args) (any, bool) { return &document{Page: args.Int("page")}, true })

			link, err := tr.Link(tt.model, reg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, link)

			u, err := url.Parse(link)
			require.NoError(t, err)
			m, ok := tr.Resolve([]string{"docs"}, u.Query(), nil)
			require.True(t, ok)
			assert.Equal(t, tt.model, m.Model)
		})
	}
}

func TestLink_RequiredParameterMissing(t *testing.T) {
	t.Parallel()

	tr := New()
	reg := mustRegister(t, tr, &search{}, "/s",
		[]converter.Argument{converter.Arg("a", "x").AsRequired(), converter.Arg("c", "").AsRequired()},
		func(args Args) (any, bool) { return &search{A: args.String("a")}, true })

	_, err := tr.Link(&search{A: "x"}, reg)
	var missing *pattern.MissingVariableError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "c", missing.Name)
}

func TestNewRegistration_StructuralPathVariable(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/{parent}", "/x/{base}", "/{request}", "/wikis/{wiki_id}"} {
		_, err := NewRegistration(reflect.TypeOf(&user{}), path, nil, converter.NewRegistry(), userFactory,
			WithExcluded("wiki_id"))
		var malformed *pattern.MalformedPathError
		require.ErrorAs(t, err, &malformed, path)
	}
}

func TestNewRegistration_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewRegistration(reflect.TypeOf(&user{}), "/users/{name", nil, converter.NewRegistry(), userFactory)
	var malformed *pattern.MalformedPathError
	require.ErrorAs(t, err, &malformed)

	_, err = NewRegistration(reflect.TypeOf(&user{}), "/users",
		[]converter.Argument{converter.Arg("when", struct{}{})}, converter.NewRegistry(), userFactory)
	var missing *converter.NoConverterFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "when", missing.Argument)
}

func TestRegistrationFor(t *testing.T) {
	t.Parallel()

	tr := New()
	first := mustRegister(t, tr, &user{}, "/users/{name}", nil, userFactory)
	mustRegister(t, tr, &user{}, "/people/{name}", nil, userFactory)
	mustRegister(t, tr, &me{}, "/mounted", nil, userFactory, AsMount())

	reg, ok := tr.RegistrationFor(reflect.TypeOf(&user{}))
	require.True(t, ok)
	assert.Same(t, first, reg)

	_, ok = tr.RegistrationFor(reflect.TypeOf(&me{}))
	assert.False(t, ok)
	assert.Len(t, tr.Routes(), 3)
}

func subpathFixture(t *testing.T) (*Traject, *Registration) {
	t.Helper()

	registry := converter.NewRegistry()
	base, err := NewRegistration(reflect.TypeOf(&container{}), "/{container_id}", nil, registry,
		func(args Args) (any, bool) {
			return &container{ID: args.String("container_id")}, true
		})
	require.NoError(t, err)

	sub, err := NewRegistration(reflect.TypeOf(&item{}), "{item_id}", nil, registry,
		func(args Args) (any, bool) {
			parent, ok := args.Base().(*container)
			if !ok {
				return nil, false
			}
			return &item{Parent: parent, ID: args.String("item_id")}, true
		})
	require.NoError(t, err)

	combined, err := base.Combine(sub, func(model any) any { return model.(*item).Parent })
	require.NoError(t, err)

	tr := New()
	require.NoError(t, tr.Register(combined))
	return tr, combined
}

func TestCombine_Resolve(t *testing.T) {
	t.Parallel()

	tr, reg := subpathFixture(t)
	assert.Equal(t, "/{container_id}/{item_id}", reg.Path.String())

	m, ok := tr.Resolve([]string{"A", "a"}, nil, nil)
	require.True(t, ok)
	it := m.Model.(*item)
	assert.Equal(t, "a", it.ID)
	assert.Equal(t, "A", it.Parent.ID)
}

func TestCombine_Link(t *testing.T) {
	t.Parallel()

	tr, reg := subpathFixture(t)

	link, err := tr.Link(&item{Parent: &container{ID: "A"}, ID: "a"}, reg)
	require.NoError(t, err)
	assert.Equal(t, "/A/a", link)
}

func TestCombine_BaseAbsent(t *testing.T) {
	t.Parallel()

	registry := converter.NewRegistry()
	base, err := NewRegistration(reflect.TypeOf(&container{}), "/{container_id}", nil, registry,
		func(Args) (any, bool) { return nil, false })
	require.NoError(t, err)

	called := false
	sub, err := NewRegistration(reflect.TypeOf(&item{}), "{item_id}", nil, registry,
		func(Args) (any, bool) {
			called = true
			return &item{}, true
		})
	require.NoError(t, err)

	combined, err := base.Combine(sub, func(model any) any { return model.(*item).Parent })
	require.NoError(t, err)

	_, ok := combined.Factory(NewArgs(map[string]any{"container_id": "A", "item_id": "a"}))
	assert.False(t, ok)
	assert.False(t, called)
}

func TestCombine_Errors(t *testing.T) {
	t.Parallel()

	registry := converter.NewRegistry()
	base, err := NewRegistration(reflect.TypeOf(&container{}), "/{id}", nil, registry, userFactory)
	require.NoError(t, err)
	sub, err := NewRegistration(reflect.TypeOf(&item{}), "{id}", nil, registry, userFactory)
	require.NoError(t, err)

	_, err = base.Combine(sub, func(m any) any { return m })
	var dup *DuplicateVariableError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "id", dup.Name)

	_, err = base.Combine(sub, nil)
	assert.True(t, errors.Is(err, ErrNoGetBase))
}

func TestArgs(t *testing.T) {
	t.Parallel()

	args := NewArgs(map[string]any{"n": 3, "s": "x", "b": true, "f": 1.5, "l": []string{"a"}})
	assert.Equal(t, 3, args.Int("n"))
	assert.Equal(t, "x", args.String("s"))
	assert.True(t, args.Bool("b"))
	assert.InDelta(t, 1.5, args.Float64("f"), 0)
	assert.Equal(t, []string{"a"}, args.Strings("l"))
	assert.Zero(t, args.Int("s"))
	assert.Nil(t, args.Base())

	with := args.With(BaseArgument, "base")
	assert.Equal(t, "base", with.Base())
	assert.Nil(t, args.Base())

	_, ok := args.Lookup("missing")
	assert.False(t, ok)
}
