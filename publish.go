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
	"maps"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"rivaas.dev/traject/dispatch"
	"rivaas.dev/traject/logging"
	"rivaas.dev/traject/metrics"
	"rivaas.dev/traject/tracing"
	"rivaas.dev/traject/tree"
)

// Publish resolves req starting at root and renders the selected view.
//
// Resolution consumes path segments app by app. A resolved mount becomes the
// current mount and resolution continues in its app; any other model ends
// resolution. At most one segment may remain, naming the view. The view is
// selected by the request and model types, then by the app's predicates.
//
// Publish returns an error matching [ErrNotFound] when no model or view
// matches, [ErrForbidden] when the permission checker denies the view, or
// the error of the view itself.
func Publish(req *Request, root *Mount) (*Response, error) {
	app := root.app
	if !app.committed {
		return nil, ErrNotCommitted
	}
	if app.commitErr != nil {
		return nil, app.commitErr
	}

	ctx, span := app.tracing.StartSpan(req.ctx, "traject.publish",
		attribute.String("traject.app", app.name),
		attribute.String("url.path", req.path),
	)
	req.ctx = ctx

	resp, err := publish(ctx, req, root)

	app.tracing.FinishSpan(span, err)
	app.metrics.RecordPublish(ctx, app.name, outcome(err))
	return resp, err
}

func publish(ctx context.Context, req *Request, root *Mount) (*Response, error) {
	log := logging.NewContextLogger(ctx, root.app.log())

	mount := root
	req.mounts = append(req.mounts, root)
	for {
		mctx, ok := mount.Context()
		if !ok {
			return nil, req.notFound()
		}
		extra := make(map[string]any, len(mctx)+2)
		maps.Copy(extra, mctx)
		extra[tree.RequestArgument] = req
		extra[tree.ParentArgument] = mount

		match, found := resolve(ctx, root.app, mount.app, req.unconsumed, req.query, extra)
		if !found {
			log.Debug("path not resolved",
				"app", mount.app.name,
				"unconsumed", req.unconsumed,
				"candidates", match.Attempts,
			)
			return nil, req.notFound()
		}
		if match.Attempts > 1 {
			log.Debug("path resolved after backtracking",
				"app", mount.app.name,
				"route", match.Registration.Path.String(),
				"attempts", match.Attempts,
			)
		}
		req.unconsumed = req.unconsumed[match.Consumed:]

		if next, isMount := match.Model.(*Mount); isMount {
			req.mounts = append(req.mounts, next)
			mount = next
			continue
		}

		switch len(req.unconsumed) {
		case 0:
		case 1:
			req.viewName = req.unconsumed[0]
			req.unconsumed = nil
		default:
			return nil, req.notFound()
		}

		if root.app.tracing.IsEnabled() {
			tracing.SetSpanAttributeFromContext(ctx, "traject.view", req.viewName)
			tracing.SetSpanAttributeFromContext(ctx, "traject.mount_depth", len(req.mounts))
		}
		return mount.app.view(req, mount, match.Model)
	}
}

func resolve(ctx context.Context, obs, app *App, segments []string, query url.Values, extra map[string]any) (tree.Match, bool) {
	ctx, span := obs.tracing.StartSpan(ctx, "traject.resolve",
		attribute.String("traject.app", app.name),
		attribute.Int("traject.segments", len(segments)),
	)
	start := time.Now()
	match, found := app.traject.Resolve(segments, query, extra)
	obs.metrics.RecordResolve(ctx, app.name, time.Since(start), match.Consumed)

	var err error
	if found && obs.tracing.IsEnabled() {
		span.SetAttributes(
			attribute.String("traject.route", match.Registration.Path.String()),
			attribute.Int("traject.consumed", match.Consumed),
			attribute.Int("traject.attempts", match.Attempts),
		)
	}
	if !found {
		err = ErrNotFound
	}
	obs.tracing.FinishSpan(span, err)
	return match, found
}

func (a *App) view(req *Request, mount *Mount, model any) (*Response, error) {
	found, ok := mount.Lookup().Call(viewKey, req, model)
	if !ok {
		return nil, req.notFound()
	}
	selected, err := found.(*dispatch.Matcher).Match(req)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, dispatch.ErrNoMatch) {
			return nil, req.notFound()
		}
		return nil, err
	}

	v := selected.(*View)
	if v.Permission != nil && a.permits != nil && !a.permits(req, model, v.Permission) {
		return nil, ErrForbidden
	}
	content, err := v.Func(req, model)
	if err != nil {
		return nil, err
	}
	return v.Render(req, content)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrForbidden):
		return metrics.OutcomeForbidden
	default:
		return metrics.OutcomeError
	}
}
