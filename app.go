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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync/atomic"

	"rivaas.dev/traject/converter"
	"rivaas.dev/traject/dispatch"
	riverrors "rivaas.dev/traject/errors"
	"rivaas.dev/traject/metrics"
	"rivaas.dev/traject/tracing"
	"rivaas.dev/traject/tree"
)

var appSeq atomic.Uint64

// App is an application publishing models under URL paths.
//
// An App is configured single-threaded through its Add methods and frozen by
// [App.Commit]. Configuration errors are returned by each Add method and
// joined again by Commit, so a setup that ignores them still fails before
// serving. A committed App is safe for concurrent use.
type App struct {
	name string
	id   string

	traject        *tree.Traject
	converters     *converter.Registry
	views          *dispatch.Registry
	viewCount      int
	predicates     []dispatch.Predicate
	mounted        map[*App]*mountFactory
	children       []*App
	mountVariables []string

	errs      []error
	committed bool
	commitErr error

	cache     *dispatch.Cache
	logger    *slog.Logger
	metrics   *metrics.Recorder
	tracing   *tracing.Config
	formatter riverrors.Formatter
	permits   PermissionChecker
}

// New returns an empty App. The name identifies the app in logs, metrics
// and route listings.
//
// Example:
//
//	app := traject.New("blog", traject.WithLogger(logger))
func New(name string, opts ...Option) *App {
	a := &App{
		name:       name,
		id:         fmt.Sprintf("%s#%d", name, appSeq.Add(1)),
		traject:    tree.New(),
		converters: converter.NewRegistry(),
		views:      dispatch.NewRegistry(),
		predicates: DefaultPredicates(),
		mounted:    make(map[*App]*mountFactory),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the app name.
func (a *App) Name() string {
	return a.name
}

// Cache returns the lookup cache, which is nil before commit unless set with
// [WithLookupCache].
func (a *App) Cache() *dispatch.Cache {
	return a.cache
}

// Route describes how models of one type are published.
type Route struct {
	// Model is the type of the models the factory returns.
	Model reflect.Type
	// Path is the template, such as "/documents/{id}".
	Path string
	// Arguments declares the factory inputs. Undeclared path variables
	// are strings; declared arguments not in the path are URL parameters.
	Arguments []converter.Argument
	// Factory builds a model from decoded arguments.
	Factory tree.Factory
	// Variables reads the arguments back from a model to generate links.
	// The default reads a [tree.Variabler] or matching struct fields.
	Variables tree.VariablesFunc
}

func (a *App) fail(err error) error {
	if err != nil {
		a.errs = append(a.errs, err)
	}
	return err
}

func (a *App) registration(r Route, opts ...tree.Option) (*tree.Registration, error) {
	if r.Model == nil {
		return nil, fmt.Errorf("traject: path %q has no model type", r.Path)
	}
	if r.Factory == nil {
		return nil, fmt.Errorf("traject: path %q has no factory", r.Path)
	}
	opts = append(opts, tree.WithExcluded(a.mountVariables...))
	if r.Variables != nil {
		opts = append(opts, tree.WithVariables(r.Variables))
	}
	return tree.NewRegistration(r.Model, r.Path, r.Arguments, a.converters, r.Factory, opts...)
}

// AddPath publishes models of r.Model at r.Path.
//
// Example:
//
//	app.AddPath(traject.Route{
//		Model: reflect.TypeFor[*Document](),
//		Path:  "/documents/{id}",
//		Arguments: []converter.Argument{converter.Arg("id", 0)},
//		Factory: func(args tree.Args) (any, bool) {
//			return store.Document(args.Int("id"))
//		},
//	})
func (a *App) AddPath(r Route) error {
	if a.committed {
		return ErrCommitted
	}
	reg, err := a.registration(r)
	if err != nil {
		return a.fail(err)
	}
	return a.fail(a.traject.Register(reg))
}

// AddRoot publishes the root model of the app at "/".
func (a *App) AddRoot(r Route) error {
	r.Path = "/"
	return a.AddPath(r)
}

// AddSubpath publishes r.Model at r.Path relative to the path of base.
//
// The base factory runs first; r.Factory receives its model as
// [tree.Args.Base]. getBase maps a model back to its base model so links
// can be generated.
func (a *App) AddSubpath(base reflect.Type, r Route, getBase func(model any) any) error {
	if a.committed {
		return ErrCommitted
	}
	baseReg, ok := a.traject.RegistrationFor(base)
	if !ok {
		return a.fail(fmt.Errorf("%w: %v", ErrUnknownBase, base))
	}
	sub, err := a.registration(r)
	if err != nil {
		return a.fail(err)
	}
	combined, err := baseReg.Combine(sub, getBase)
	if err != nil {
		return a.fail(fmt.Errorf("subpath %s of %s: %w", r.Path, baseReg.Path, err))
	}
	return a.fail(a.traject.Register(combined))
}

// AddConverter sets the converter for arguments of type t.
// It affects routes added afterwards.
func (a *App) AddConverter(t reflect.Type, c converter.Converter) error {
	if a.committed {
		return ErrCommitted
	}
	a.converters.Register(t, c)
	return nil
}

// AddPredicate adds a view predicate. Predicates must be added before the
// first view.
func (a *App) AddPredicate(p dispatch.Predicate) error {
	if a.committed {
		return ErrCommitted
	}
	if a.viewCount > 0 {
		return a.fail(ErrPredicateAfterView)
	}
	if slices.ContainsFunc(a.predicates, func(q dispatch.Predicate) bool { return q.Name == p.Name }) {
		return a.fail(fmt.Errorf("traject: predicate %q already registered", p.Name))
	}
	a.predicates = append(a.predicates, p)
	return nil
}

// Commit freezes the app and every mounted app. It returns the joined
// configuration errors; calling it again returns the same result.
func (a *App) Commit() error {
	if a.committed {
		return a.commitErr
	}
	a.committed = true
	a.traject.Freeze()
	if a.cache == nil {
		a.cache = dispatch.NewCache()
	}

	errs := slices.Clone(a.errs)
	if cycle := a.emptyMountCycle(nil); cycle != nil {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMountCycle, strings.Join(cycle, " -> ")))
	}
	for _, child := range a.children {
		child.inherit(a)
		if err := child.Commit(); err != nil {
			errs = append(errs, fmt.Errorf("mounted app %s: %w", child.name, err))
		}
	}

	a.commitErr = errors.Join(errs...)
	if a.commitErr != nil {
		a.log().Error("app commit failed", "app", a.name, "error", a.commitErr)
		return a.commitErr
	}
	a.log().Info("app committed",
		"app", a.name,
		"routes", len(a.traject.Routes()),
		"views", a.viewCount,
		"mounts", len(a.children),
	)
	return nil
}

// emptyMountCycle follows mounts at the root path of their parent and
// returns the app names forming a cycle back to a, if any.
func (a *App) emptyMountCycle(path []*App) []string {
	if i := slices.Index(path, a); i >= 0 {
		names := make([]string, 0, len(path)-i+1)
		for _, app := range path[i:] {
			names = append(names, app.name)
		}
		return append(names, a.name)
	}
	path = append(path, a)
	for _, child := range a.children {
		if mf := a.mounted[child]; mf.reg.Path.Len() > 0 {
			continue
		}
		if cycle := child.emptyMountCycle(path); cycle != nil {
			return cycle
		}
	}
	return nil
}

// MustCommit is like Commit but panics on error.
func (a *App) MustCommit() *App {
	if err := a.Commit(); err != nil {
		panic(err)
	}
	return a
}

func (a *App) inherit(parent *App) {
	if a.cache == nil {
		a.cache = parent.cache
	}
	if a.logger == nil {
		a.logger = parent.logger
	}
	if a.metrics == nil {
		a.metrics = parent.metrics
	}
	if a.tracing == nil {
		a.tracing = parent.tracing
	}
	if a.permits == nil {
		a.permits = parent.permits
	}
}

func (a *App) log() *slog.Logger {
	if a.logger == nil {
		return slog.Default()
	}
	return a.logger
}

// Lookup returns the view lookup of the app. After commit every call returns
// the same Lookup from the app's cache.
func (a *App) Lookup() *dispatch.Lookup {
	if a.cache == nil {
		return dispatch.NewLookup(a.views)
	}
	return a.cache.Get(a.id, func() *dispatch.Lookup {
		a.metrics.RecordLookupBuild(context.Background(), a.name)
		return dispatch.NewLookup(a.views)
	})
}

// Mounted returns a root mount of the app whose context is ctx.
// Factories of the app receive the context entries as arguments.
func (a *App) Mounted(ctx map[string]any) *Mount {
	return newMount(a, func(tree.Args) (map[string]any, bool) {
		return ctx, true
	}, ctx, nil)
}

// RouteInfo describes one registered path.
type RouteInfo struct {
	// App is the name of the app owning the route.
	App string
	// Path is the template including the prefixes of enclosing mounts.
	Path string
	// Model is the model type, or the mounted app name for mounts.
	Model string
	// Parameters lists the URL parameter names, sorted.
	Parameters []string
	// Mount marks the attachment point of a mounted app.
	Mount bool
}

// Routes lists the routes of the app and of mounted apps in registration
// order.
func (a *App) Routes() []RouteInfo {
	return a.routes("", map[*App]bool{})
}

func (a *App) routes(prefix string, visiting map[*App]bool) []RouteInfo {
	visiting[a] = true
	defer delete(visiting, a)

	var out []RouteInfo
	for _, reg := range a.traject.Routes() {
		info := RouteInfo{
			App:        a.name,
			Path:       joinPath(prefix, reg.Path.String()),
			Parameters: slices.Sorted(maps.Keys(reg.Parameters)),
		}
		if !reg.Mount {
			info.Model = reg.Model.String()
			out = append(out, info)
			continue
		}
		child := a.mountedBy(reg)
		if child == nil {
			continue
		}
		info.Model = child.name
		info.Mount = true
		out = append(out, info)
		if !visiting[child] {
			out = append(out, child.routes(info.Path, visiting)...)
		}
	}
	return out
}

func (a *App) mountedBy(reg *tree.Registration) *App {
	for child, mf := range a.mounted {
		if mf.reg == reg {
			return child
		}
	}
	return nil
}
