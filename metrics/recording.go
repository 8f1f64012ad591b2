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

package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Publish outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeNotFound  = "not_found"
	OutcomeForbidden = "forbidden"
	OutcomeError     = "error"
)

func (r *Recorder) initializeMetrics() error {
	var err error

	r.publishCount, err = r.meter.Int64Counter(
		"traject.publish.count",
		metric.WithDescription("Published requests by outcome"),
	)
	if err != nil {
		return err
	}

	r.resolveDuration, err = r.meter.Float64Histogram(
		"traject.resolve.duration",
		metric.WithDescription("Time spent resolving a request path to a model"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	r.lookupBuilds, err = r.meter.Int64Counter(
		"traject.lookup.builds",
		metric.WithDescription("Lookups built by the lookup cache"),
	)
	return err
}

// RecordPublish counts one publish of app with the given outcome.
func (r *Recorder) RecordPublish(ctx context.Context, app, outcome string) {
	if r == nil {
		return
	}
	r.publishCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", r.serviceName),
		attribute.String("app", app),
		attribute.String("outcome", outcome),
	))
}

// RecordResolve records how long resolving one path took and how many
// segments were consumed across the mount chain.
func (r *Recorder) RecordResolve(ctx context.Context, app string, d time.Duration, consumed int) {
	if r == nil {
		return
	}
	r.resolveDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("service", r.serviceName),
		attribute.String("app", app),
		attribute.Int("consumed", consumed),
	))
}

// RecordLookupBuild counts one lookup built for app.
func (r *Recorder) RecordLookupBuild(ctx context.Context, app string) {
	if r == nil {
		return
	}
	r.lookupBuilds.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", r.serviceName),
		attribute.String("app", app),
	))
}
