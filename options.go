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
	"log/slog"

	"rivaas.dev/traject/dispatch"
	riverrors "rivaas.dev/traject/errors"
	"rivaas.dev/traject/metrics"
	"rivaas.dev/traject/tracing"
)

// Option configures an [App].
type Option func(*App)

// PermissionChecker decides whether req may see a view guarded by
// permission on model.
type PermissionChecker func(req *Request, model, permission any) bool

// WithLogger sets the logger. Mounted apps without a logger inherit their
// parent's on commit.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithMetrics records publish outcomes, resolve durations and lookup builds.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(a *App) {
		a.metrics = recorder
	}
}

// WithTracing wraps publishing and resolution in spans.
func WithTracing(config *tracing.Config) Option {
	return func(a *App) {
		a.tracing = config
	}
}

// WithLookupCache sets the cache holding the app's dispatch lookups.
// Mounted apps without a cache share their parent's on commit.
//
// Example:
//
//	cache := dispatch.NewCache()
//	root := traject.New("root", traject.WithLookupCache(cache))
func WithLookupCache(cache *dispatch.Cache) Option {
	return func(a *App) {
		a.cache = cache
	}
}

// WithFormatter sets the formatter rendering errors in [App.ServeHTTP].
// The default is [riverrors.Simple].
func WithFormatter(f riverrors.Formatter) Option {
	return func(a *App) {
		a.formatter = f
	}
}

// WithProblemDetails renders errors as RFC 9457 problem details whose type
// URIs are prefixed with baseURL.
func WithProblemDetails(baseURL string) Option {
	return func(a *App) {
		a.formatter = riverrors.NewRFC9457(baseURL)
	}
}

// WithPermissionChecker sets the checker for views carrying a permission.
// Without one every view is allowed.
func WithPermissionChecker(check PermissionChecker) Option {
	return func(a *App) {
		a.permits = check
	}
}

// WithMountVariables names the values a mount context supplies to the app's
// factories. They are neither URL parameters nor part of generated links.
func WithMountVariables(names ...string) Option {
	return func(a *App) {
		a.mountVariables = append(a.mountVariables, names...)
	}
}
