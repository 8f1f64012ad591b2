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

package traject_test

import (
	"fmt"
	"net/http/httptest"
	"reflect"
	"strings"

	"rivaas.dev/traject"
	"rivaas.dev/traject/converter"
	"rivaas.dev/traject/tree"
)

type Post struct {
	ID    int
	Title string
}

func Example() {
	posts := map[int]*Post{7: {ID: 7, Title: "Hello"}}

	app := traject.New("blog")
	_ = app.AddPath(traject.Route{
		Model:     reflect.TypeFor[*Post](),
		Path:      "/posts/{id}",
		Arguments: []converter.Argument{converter.Arg("id", 0)},
		Factory: func(args tree.Args) (any, bool) {
			p, ok := posts[args.Int("id")]
			return p, ok
		},
	})
	_ = app.AddView(reflect.TypeFor[*Post](), traject.View{
		Func: func(req *traject.Request, model any) (any, error) {
			edit, err := req.Link(model, "edit")
			if err != nil {
				return nil, err
			}
			return model.(*Post).Title + " " + edit, nil
		},
	})
	app.MustCommit()

	for _, target := range []string{"/posts/7", "/posts/8", "/posts/seven"} {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
		fmt.Println(w.Code, strings.TrimSpace(w.Body.String()))
	}
	// Output:
	// 200 Hello /posts/7/edit
	// 404 {"code":"not_found","details":{"unconsumed":["posts","8"]},"error":"not found: /posts/8 (unresolved \"posts/8\")"}
	// 404 {"code":"not_found","details":{"unconsumed":["posts","seven"]},"error":"not found: /posts/seven (unresolved \"posts/seven\")"}
}
