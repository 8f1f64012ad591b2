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

// Package source provides the configuration sources read by config.Load.
//
//   - [File]: a file, or in-memory content, decoded by a codec
//   - [OSEnvVar]: prefixed environment variables
//
// Example:
//
//	decoder, _ := codec.GetDecoder(codec.TypeYAML)
//	conf, err := source.NewFile("trajectd.yaml", decoder).Load(ctx)
package source
