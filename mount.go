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

package traject

import (
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"rivaas.dev/traject/converter"
	"rivaas.dev/traject/dispatch"
	"rivaas.dev/traject/tree"
)

var mountType = reflect.TypeFor[*Mount]()

// ContextFactory builds the context of a mounted app from the mount
// arguments. The entries of the context are passed to the factories of the
// mounted app. Returning false makes the mount unreachable.
type ContextFactory func(args tree.Args) (map[string]any, bool)

type mountFactory struct {
	app     *App
	context ContextFactory
	reg     *tree.Registration
}

// AddMount attaches child under path. The path variables and parameters
// described by args are passed to context, whose result becomes the
// context of the mounted app. A nil context passes the arguments through.
//
// Example:
//
//	wiki := traject.New("wiki", traject.WithMountVariables("wiki_id"))
//	app.AddMount(wiki, "/wikis/{wiki_id}", nil, nil)
func (a *App) AddMount(child *App, path string, args []converter.Argument, context ContextFactory) error {
	if a.committed {
		return ErrCommitted
	}
	if child == nil || child == a {
		return a.fail(fmt.Errorf("traject: invalid mount of %q at %s", a.name, path))
	}
	if _, dup := a.mounted[child]; dup {
		return a.fail(fmt.Errorf("traject: app %q is already mounted in %q", child.name, a.name))
	}
	if context == nil {
		context = func(args tree.Args) (map[string]any, bool) {
			return args.Map(), true
		}
	}

	mf := &mountFactory{app: child, context: context}
	reg, err := tree.NewRegistration(mountType, path, args, a.converters,
		func(args tree.Args) (any, bool) {
			parent, _ := args.Parent().(*Mount)
			m := newMount(child, context, mountVariables(args), parent)
			if _, ok := m.Context(); !ok {
				return nil, false
			}
			return m, true
		},
		tree.AsMount(),
		tree.WithExcluded(a.mountVariables...),
		tree.WithVariables(func(model any) map[string]any {
			if m, ok := model.(*Mount); ok {
				return m.variables
			}
			return nil
		}),
	)
	if err != nil {
		return a.fail(err)
	}
	if err := a.traject.Register(reg); err != nil {
		return a.fail(err)
	}

	mf.reg = reg
	a.mounted[child] = mf
	a.children = append(a.children, child)
	return nil
}

func mountVariables(args tree.Args) map[string]any {
	vars := args.Map()
	delete(vars, tree.RequestArgument)
	delete(vars, tree.ParentArgument)
	return vars
}

// Mount is an app attached at a point of a request's path.
//
// A Mount lives for one request. Its context and lookup are computed on
// first use and kept for the rest of the request. The parent is the mount
// the app was reached through; a root mount has none.
type Mount struct {
	app       *App
	variables map[string]any
	parent    *Mount
	context   func() (map[string]any, bool)
	lookup    func() *dispatch.Lookup
}

func newMount(app *App, factory ContextFactory, variables map[string]any, parent *Mount) *Mount {
	m := &Mount{
		app:       app,
		variables: variables,
		parent:    parent,
	}
	m.context = sync.OnceValues(func() (map[string]any, bool) {
		args := make(map[string]any, len(variables)+1)
		maps.Copy(args, variables)
		if parent != nil {
			args[tree.ParentArgument] = parent
		}
		return factory(tree.NewArgs(args))
	})
	m.lookup = sync.OnceValue(app.Lookup)
	return m
}

// App returns the mounted app.
func (m *Mount) App() *App {
	return m.app
}

// Parent returns the enclosing mount, or nil for a root mount.
func (m *Mount) Parent() *Mount {
	return m.parent
}

// Variables returns a copy of the mount arguments.
func (m *Mount) Variables() map[string]any {
	return maps.Clone(m.variables)
}

// Context returns the context of the mounted app, or false when the
// context factory reports none.
func (m *Mount) Context() (map[string]any, bool) {
	return m.context()
}

// Lookup returns the view lookup of the mounted app.
func (m *Mount) Lookup() *dispatch.Lookup {
	return m.lookup()
}

// Child returns the mount of app inside m, with context as the mount
// arguments. The receiver becomes the parent unless context names one.
// Child returns nil when app is not mounted in m's app or its context
// factory reports no context.
func (m *Mount) Child(app *App, context map[string]any) *Mount {
	mf, ok := m.app.mounted[app]
	if !ok {
		return nil
	}
	parent := m
	if p, ok := context[tree.ParentArgument].(*Mount); ok {
		parent = p
	}
	vars := make(map[string]any, len(context))
	maps.Copy(vars, context)
	delete(vars, tree.ParentArgument)

	child := newMount(app, mf.context, vars, parent)
	if _, ok := child.Context(); !ok {
		return nil
	}
	return child
}

// Link returns the URL of model in the mounted app, prefixed by the path of
// every enclosing mount. A view name, when given, is appended as the last
// segment.
func (m *Mount) Link(model any, view ...string) (string, error) {
	reg, ok := m.app.traject.RegistrationFor(reflect.TypeOf(model))
	if !ok {
		return "", fmt.Errorf("%w: %T in %s", ErrNoRegistration, model, m.app.name)
	}
	path, query, err := m.app.traject.Reverse(model, reg)
	if err != nil {
		return "", fmt.Errorf("link to %T: %w", model, err)
	}
	prefix, prefixQuery, err := m.prefix()
	if err != nil {
		return "", err
	}

	path = joinPath(prefix, path)
	if len(view) > 0 && view[0] != "" {
		path = joinPath(path, "/"+url.PathEscape(view[0]))
	}
	maps.Copy(prefixQuery, query)
	return tree.JoinQuery(path, prefixQuery), nil
}

func (m *Mount) prefix() (string, url.Values, error) {
	if m.parent == nil {
		return "", url.Values{}, nil
	}
	mf, ok := m.parent.app.mounted[m.app]
	if !ok {
		return "", nil, fmt.Errorf("traject: app %q is not mounted in %q", m.app.name, m.parent.app.name)
	}
	prefix, query, err := m.parent.prefix()
	if err != nil {
		return "", nil, err
	}
	path, own, err := m.parent.app.traject.Reverse(m, mf.reg)
	if err != nil {
		return "", nil, fmt.Errorf("link to mount %s: %w", m.app.name, err)
	}
	maps.Copy(query, own)
	return joinPath(prefix, path), query, nil
}

// String returns a description such as "Mount(wiki)".
func (m *Mount) String() string {
	return "Mount(" + m.app.name + ")"
}

func joinPath(prefix, path string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if path == "/" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return prefix + path
}
