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
	"cmp"
	"maps"
	"slices"
	"sync"
)

// Container groups items.
type Container struct {
	ID    string `json:"id" path:"container_id"`
	Title string `json:"title"`
}

// Item lives in a container and is published below it.
type Item struct {
	Container *Container `json:"-"`
	ID        string     `json:"id" path:"item_id"`
	Title     string     `json:"title"`
}

// Wiki is the root model of the mounted wiki app.
type Wiki struct {
	ID string `json:"id"`
}

// Page is a wiki page.
type Page struct {
	Wiki string `json:"wiki"`
	Name string `json:"name"`
	Body string `json:"body"`
}

// Store keeps the demo data in memory. Models returned by Store are copies.
type Store struct {
	mu         sync.RWMutex
	containers map[string]Container
	items      map[string]map[string]string
	pages      map[string]map[string]string
}

// NewStore returns a store with sample data.
func NewStore() *Store {
	return &Store{
		containers: map[string]Container{
			"A": {ID: "A", Title: "Inbox"},
			"B": {ID: "B", Title: "Archive"},
		},
		items: map[string]map[string]string{
			"A": {"a": "First", "b": "Second"},
			"B": {"z": "Old"},
		},
		pages: map[string]map[string]string{
			"main": {"home": "Welcome", "help": "Ask around"},
			"dev":  {"home": "Build notes"},
		},
	}
}

// Container returns the container with the given id.
func (s *Store) Container(id string) (*Container, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.containers[id]
	if !ok {
		return nil, false
	}
	return &c, true
}

// Containers returns all containers ordered by id.
func (s *Store) Containers() []*Container {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Container, 0, len(s.containers))
	for _, id := range slices.Sorted(maps.Keys(s.containers)) {
		c := s.containers[id]
		out = append(out, &c)
	}
	return out
}

// Item returns an item of c.
func (s *Store) Item(c *Container, id string) (*Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	title, ok := s.items[c.ID][id]
	if !ok {
		return nil, false
	}
	return &Item{Container: c, ID: id, Title: title}, true
}

// Items returns the items of c ordered by id.
func (s *Store) Items(c *Container) []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Item
	for id, title := range s.items[c.ID] {
		out = append(out, &Item{Container: c, ID: id, Title: title})
	}
	slices.SortFunc(out, func(a, b *Item) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Rename sets the title of an item. It reports whether the item exists.
func (s *Store) Rename(containerID, itemID, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.items[containerID]
	if !ok {
		return false
	}
	if _, ok := items[itemID]; !ok {
		return false
	}
	items[itemID] = title
	return true
}

// Wikis returns the wiki ids, sorted.
func (s *Store) Wikis() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.pages))
}

// HasWiki reports whether the wiki exists.
func (s *Store) HasWiki(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pages[id]
	return ok
}

// Page returns a page of a wiki.
func (s *Store) Page(wiki, name string) (*Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.pages[wiki][name]
	if !ok {
		return nil, false
	}
	return &Page{Wiki: wiki, Name: name, Body: body}, true
}

// Pages returns the page names of a wiki, sorted.
func (s *Store) Pages(wiki string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.pages[wiki]))
}
