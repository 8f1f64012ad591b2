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

// Package demo wires a small site onto traject: containers with items
// published as a subpath, and a wiki app mounted under /wikis/{wiki_id}.
package demo

import (
	"errors"
	"net/http"
	"reflect"

	"rivaas.dev/traject"
	"rivaas.dev/traject/tree"
)

// Index is the root model of the site.
type Index struct{}

var (
	indexType     = reflect.TypeFor[*Index]()
	containerType = reflect.TypeFor[*Container]()
	itemType      = reflect.TypeFor[*Item]()
	wikiType      = reflect.TypeFor[*Wiki]()
	pageType      = reflect.TypeFor[*Page]()
)

// RoleHeader carries the role checked against view permissions.
const RoleHeader = "X-Role"

// RoleChecker allows a view when the request role equals its permission.
func RoleChecker(req *traject.Request, _, permission any) bool {
	return req.HTTP().Header.Get(RoleHeader) == permission
}

// New builds and commits the site app and its mounted wiki app.
func New(store *Store, opts ...traject.Option) (*traject.App, error) {
	opts = append([]traject.Option{traject.WithPermissionChecker(RoleChecker)}, opts...)
	site := traject.New("site", opts...)
	wiki := newWiki(store)

	err := errors.Join(
		site.AddRoot(traject.Route{
			Model:   indexType,
			Factory: func(tree.Args) (any, bool) { return &Index{}, true },
		}),
		site.AddPath(traject.Route{
			Model: containerType,
			Path:  "/{container_id}",
			Factory: func(args tree.Args) (any, bool) {
				return store.Container(args.String("container_id"))
			},
		}),
		site.AddSubpath(containerType, traject.Route{
			Model: itemType,
			Path:  "/{item_id}",
			Factory: func(args tree.Args) (any, bool) {
				return store.Item(args.Base().(*Container), args.String("item_id"))
			},
		}, func(model any) any { return model.(*Item).Container }),
		site.AddMount(wiki, "/wikis/{wiki_id}", nil, func(args tree.Args) (map[string]any, bool) {
			id := args.String("wiki_id")
			if !store.HasWiki(id) {
				return nil, false
			}
			return map[string]any{"wiki_id": id}, true
		}),

		site.AddView(indexType, traject.View{Func: func(req *traject.Request, _ any) (any, error) {
			return indexDocument(req, store, wiki)
		}}),
		site.AddView(containerType, traject.View{Func: func(req *traject.Request, model any) (any, error) {
			return containerDocument(req, store, model.(*Container))
		}}),
		site.AddView(itemType, traject.View{Func: itemView}),
		site.AddView(itemType, traject.View{Func: func(req *traject.Request, model any) (any, error) {
			return renameItem(req, store, model.(*Item))
		}}, traject.Named("edit"), traject.Method(http.MethodPost)),
	)
	if err != nil {
		return nil, err
	}
	if err := site.Commit(); err != nil {
		return nil, err
	}
	return site, nil
}

func newWiki(store *Store) *traject.App {
	wiki := traject.New("wiki", traject.WithMountVariables("wiki_id"))
	// Registration errors surface through the site's Commit.
	_ = wiki.AddRoot(traject.Route{
		Model: wikiType,
		Factory: func(args tree.Args) (any, bool) {
			return &Wiki{ID: args.String("wiki_id")}, true
		},
	})
	_ = wiki.AddPath(traject.Route{
		Model: pageType,
		Path:  "/pages/{name}",
		Factory: func(args tree.Args) (any, bool) {
			return store.Page(args.String("wiki_id"), args.String("name"))
		},
	})
	_ = wiki.AddView(wikiType, traject.View{Func: func(req *traject.Request, model any) (any, error) {
		return wikiDocument(req, store, model.(*Wiki))
	}})
	_ = wiki.AddView(pageType, traject.View{Func: pageView})
	_ = wiki.AddView(pageType, traject.View{
		Func:       func(_ *traject.Request, model any) (any, error) { return model.(*Page).Body, nil },
		Permission: "editor",
	}, traject.Named("source"))
	return wiki
}

var errMissingTitle = errors.New("title is required")
