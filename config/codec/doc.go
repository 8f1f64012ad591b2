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

// Package codec decodes configuration data in JSON, YAML, TOML and
// environment variable form.
//
// Decoders are looked up by [Type]:
//
//	decoder, err := codec.GetDecoder(codec.TypeYAML)
//
// Additional formats can be added with [RegisterEncoder] and
// [RegisterDecoder].
package codec
