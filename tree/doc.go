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

// Package tree implements the path trie that resolves request segments to
// application models and generates paths back from models.
//
// A [Registration] binds a model type to a path template, the converters of
// its variables and URL parameters, and a [Factory] constructing the model.
// Registrations are added to a [Traject]:
//
//	tr := tree.New()
//	reg, err := tree.NewRegistration(reflect.TypeFor[*Document](), "/docs/{id}",
//		[]converter.Argument{converter.Arg("id", 0)}, converter.NewRegistry(),
//		func(args tree.Args) (any, bool) {
//			return store.Get(args.Int("id"))
//		})
//	if err != nil {
//		return err
//	}
//	if err := tr.Register(reg); err != nil {
//		return err
//	}
//
// # Resolution
//
// Literal steps take precedence over variable steps. [Traject.Resolve]
// prefers the registration consuming the most segments and falls back to
// shorter ones when a variable does not decode or a factory reports no model.
//
// # Subpaths
//
// [Registration.Combine] hangs one registration off another: the base model
// is resolved first and handed to the subpath factory through [Args.Base].
package tree
