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

// Package traject publishes application models under URL paths.
//
// An [App] registers model types at path templates. A request path is
// resolved step by step against those templates: literal segments win over
// variables, the longest resolvable prefix wins, and a factory that finds no
// model makes resolution fall back to the next shorter candidate. The
// resolved model is then passed to a view selected by the model type, the
// view name and the request method.
//
// Apps can be mounted into other apps under a path prefix. The arguments of
// the mount path become the context of the mounted app, and links generated
// inside it carry the prefixes of every enclosing mount.
//
// # Quick Start
//
//	app := traject.New("blog")
//	app.AddPath(traject.Route{
//		Model:     reflect.TypeFor[*Post](),
//		Path:      "/posts/{id}",
//		Arguments: []converter.Argument{converter.Arg("id", 0)},
//		Factory: func(args tree.Args) (any, bool) {
//			return posts.Find(args.Int("id"))
//		},
//	})
//	app.AddView(reflect.TypeFor[*Post](), traject.View{
//		Func: func(req *traject.Request, model any) (any, error) {
//			return model, nil
//		},
//	})
//	app.MustCommit()
//	http.ListenAndServe(":8080", app)
//
// # Links
//
// [Request.Link] inverts resolution: the model's variables are encoded with
// the same converters, and URL parameters equal to their default are left
// out of the query string.
//
//	href, err := req.Link(post, "edit") // "/posts/7/edit"
package traject
