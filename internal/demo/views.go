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

package demo

import (
	"net/http"

	"rivaas.dev/traject"
	riverrors "rivaas.dev/traject/errors"
)

type link struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

func indexDocument(req *traject.Request, store *Store, wiki *traject.App) (any, error) {
	doc := struct {
		Containers []link `json:"containers"`
		Wikis      []link `json:"wikis"`
	}{}
	for _, c := range store.Containers() {
		href, err := req.Link(c)
		if err != nil {
			return nil, err
		}
		doc.Containers = append(doc.Containers, link{Title: c.Title, Href: href})
	}
	for _, id := range store.Wikis() {
		mount := req.Child(wiki, map[string]any{"wiki_id": id})
		if mount == nil {
			continue
		}
		href, err := mount.Link(&Wiki{ID: id})
		if err != nil {
			return nil, err
		}
		doc.Wikis = append(doc.Wikis, link{Title: id, Href: href})
	}
	return doc, nil
}

func containerDocument(req *traject.Request, store *Store, c *Container) (any, error) {
	self, err := req.Link(c)
	if err != nil {
		return nil, err
	}
	doc := struct {
		*Container
		Self  string `json:"self"`
		Items []link `json:"items"`
	}{Container: c, Self: self}
	for _, it := range store.Items(c) {
		href, err := req.Link(it)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, link{Title: it.Title, Href: href})
	}
	return doc, nil
}

func itemView(req *traject.Request, model any) (any, error) {
	it := model.(*Item)
	self, err := req.Link(it)
	if err != nil {
		return nil, err
	}
	container, err := req.Link(it.Container)
	if err != nil {
		return nil, err
	}
	edit, err := req.Link(it, "edit")
	if err != nil {
		return nil, err
	}
	return struct {
		*Item
		Self      string `json:"self"`
		Container string `json:"container"`
		Edit      string `json:"edit"`
	}{Item: it, Self: self, Container: container, Edit: edit}, nil
}

func renameItem(req *traject.Request, store *Store, it *Item) (any, error) {
	title := req.HTTP().PostFormValue("title")
	if title == "" {
		return nil, riverrors.WithStatus(errMissingTitle, http.StatusUnprocessableEntity)
	}
	if !store.Rename(it.Container.ID, it.ID, title) {
		return nil, traject.ErrNotFound
	}
	self, err := req.Link(it)
	if err != nil {
		return nil, err
	}
	return &traject.Response{
		Status: http.StatusSeeOther,
		Header: http.Header{"Location": []string{self}},
	}, nil
}

func wikiDocument(req *traject.Request, store *Store, w *Wiki) (any, error) {
	doc := struct {
		*Wiki
		Pages []link `json:"pages"`
	}{Wiki: w}
	for _, name := range store.Pages(w.ID) {
		href, err := req.Link(&Page{Wiki: w.ID, Name: name})
		if err != nil {
			return nil, err
		}
		doc.Pages = append(doc.Pages, link{Title: name, Href: href})
	}
	return doc, nil
}

func pageView(req *traject.Request, model any) (any, error) {
	p := model.(*Page)
	wiki, err := req.Link(&Wiki{ID: p.Wiki})
	if err != nil {
		return nil, err
	}
	source, err := req.Link(p, "source")
	if err != nil {
		return nil, err
	}
	return struct {
		*Page
		WikiHref string `json:"wiki_href"`
		Source   string `json:"source"`
	}{Page: p, WikiHref: wiki, Source: source}, nil
}
