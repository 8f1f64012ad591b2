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

// Package metrics records OpenTelemetry metrics for path resolution:
//
//   - traject.publish.count: published requests by app and outcome
//   - traject.resolve.duration: time spent resolving paths, in seconds
//   - traject.lookup.builds: view lookups built by the lookup cache
//
// By default measurements are exported through a private Prometheus registry:
//
//	recorder := metrics.MustNew(metrics.WithServiceName("trajectd"))
//	handler, _ := recorder.Handler()
//	mux.Handle("/metrics", handler)
//
// [WithOTLP] and [WithStdout] push measurements periodically instead, and
// [WithMeterProvider] records through an existing provider.
package metrics
