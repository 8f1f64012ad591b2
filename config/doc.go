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

// Package config loads the settings of the trajectd server.
//
// Settings start from [Default] and are overlaid by sources in order: files in
// YAML, TOML or JSON (detected from the extension) and TRAJECT_-prefixed
// environment variables, where TRAJECT_SERVER_ADDR sets server.addr. Keys are
// case-insensitive. The result is validated before it is returned:
//
//	settings, err := config.Load(ctx,
//		config.WithFile("/etc/trajectd.yaml"),
//		config.WithEnv(config.DefaultEnvPrefix),
//	)
//	if err != nil {
//		var cfgErr *config.Error
//		if errors.As(err, &cfgErr) {
//			log.Fatalf("invalid %s", cfgErr.Field)
//		}
//	}
package config
