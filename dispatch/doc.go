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

// Package dispatch provides type-based dispatch tables used to select views
// for models.
//
// A [Registry] stores values under a key and a tuple of argument types and
// returns the best match for the dynamic types of a call. A [Lookup] memoises
// registry results and a [Cache] shares one Lookup per application across all
// requests. A [Matcher] refines the selection by predicate values such as the
// view name and request method.
package dispatch
