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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rivaas.dev/traject/dispatch"
	"rivaas.dev/traject/metrics"
	"rivaas.dev/traject/tracing"
)

func newHTTPRequest(method, target string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func serve(app http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.ServeHTTP(w, newHTTPRequest(method, target, nil))
	return w
}

func TestApp_ServeHTTP(t *testing.T) {
	t.Parallel()

	app, _ := newSiteApp(t, WithPermissionChecker(func(*Request, any, any) bool { return false }))

	tests := []struct {
		name        string
		method      string
		target      string
		status      int
		contentType string
		body        string
		code        string
	}{
		{name: "text view", method: http.MethodGet, target: "/A/a", status: http.StatusOK, contentType: "text/plain; charset=utf-8", body: "/A/a"},
		{name: "named view", method: http.MethodPost, target: "/A/a/edit", status: http.StatusOK, contentType: "text/plain; charset=utf-8", body: "edited"},
		{name: "not found", method: http.MethodGet, target: "/Z/z/z", status: http.StatusNotFound, contentType: "application/json; charset=utf-8", code: "not_found"},
		{name: "method not allowed", method: http.MethodGet, target: "/A/a/edit", status: http.StatusMethodNotAllowed, contentType: "application/json; charset=utf-8", code: "method_not_allowed"},
		{name: "forbidden", method: http.MethodGet, target: "/A/secret", status: http.StatusForbidden, contentType: "application/json; charset=utf-8", code: "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(app, tt.method, tt.target)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
			if tt.code != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestApp_ServeHTTPProblemDetails(t *testing.T) {
	t.Parallel()

	app, _ := newSiteApp(t, WithProblemDetails("https://errors.example.com"))

	w := serve(app, http.MethodGet, "/A/a/b/c")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json; charset=utf-8", w.Header().Get("Content-Type"))

	var problem map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "https://errors.example.com/not_found", problem["type"])
	assert.Equal(t, "/A/a/b/c", problem["instance"])
	assert.Equal(t, map[string]any{"unconsumed": []any{"b", "c"}}, problem["errors"])
	assert.NotEmpty(t, problem["error_id"])
}

func TestApp_SharedLookupCache(t *testing.T) {
	t.Parallel()

	cache := dispatch.NewCache()
	app, w := newSiteApp(t, WithLookupCache(cache))
	assert.Same(t, cache, app.Cache())
	assert.Same(t, cache, w.Cache(), "mounted apps share the cache")

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			target := "/A/a"
			if i%2 == 0 {
				target = "/wikis/main/pages/home"
			}
			assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, target).Code)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(2), cache.Builds())
	assert.Equal(t, 2, cache.Len())
	assert.Same(t, app.Lookup(), app.Lookup())
}

func TestApp_Observability(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	recorder := metrics.MustNew(metrics.WithMeterProvider(mp), metrics.WithServiceName("test"))

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := tracing.MustNew(tracing.WithTracerProvider(tp))

	app, _ := newSiteApp(t, WithMetrics(recorder), WithTracing(tracer))

	assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/wikis/main/pages/home").Code)
	assert.Equal(t, http.StatusNotFound, serve(app, http.MethodGet, "/nowhere").Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	outcomes := map[string]int64{}
	var builds int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "traject.publish.count":
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
					outcomes[outcome.AsString()] += dp.Value
				}
			case "traject.lookup.builds":
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					builds += dp.Value
				}
			}
		}
	}
	assert.Equal(t, map[string]int64{metrics.OutcomeOK: 1, metrics.OutcomeNotFound: 1}, outcomes)
	assert.Equal(t, int64(1), builds, "only the wiki lookup was needed")

	var names []string
	for _, span := range sr.Ended() {
		names = append(names, span.Name())
	}
	assert.Equal(t, []string{
		"traject.resolve", "traject.resolve", "traject.publish",
		"traject.resolve", "traject.publish",
	}, names)

	last := sr.Ended()[len(sr.Ended())-1]
	assert.Equal(t, "Error", last.Status().Code.String())
}
