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

package dispatch

import (
	"reflect"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

const maxCachedArgs = 4

type lookupKey struct {
	key   string
	n     int
	types [maxCachedArgs]reflect.Type
}

// Lookup is a caching decorator over a [Registry]. Results are memoised per
// key and argument types, so repeated dispatch on the same types skips the
// registry scan. A Lookup is safe for concurrent use.
type Lookup struct {
	registry *Registry
	memo     sync.Map
}

type lookupResult struct {
	value any
	ok    bool
}

// NewLookup returns a Lookup over r. r must not change afterwards.
func NewLookup(r *Registry) *Lookup {
	return &Lookup{registry: r}
}

// Registry returns the underlying registry.
func (l *Lookup) Registry() *Registry {
	return l.registry
}

// Call returns the best value for the dynamic types of args.
func (l *Lookup) Call(key string, args ...any) (any, bool) {
	return l.CallTypes(key, TypesOf(args...))
}

// CallTypes returns the best value for types.
func (l *Lookup) CallTypes(key string, types []reflect.Type) (any, bool) {
	if len(types) > maxCachedArgs {
		return l.registry.LookupTypes(key, types)
	}

	k := lookupKey{key: key, n: len(types)}
	copy(k.types[:], types)
	if r, ok := l.memo.Load(k); ok {
		res := r.(lookupResult)
		return res.value, res.ok
	}

	value, ok := l.registry.LookupTypes(key, types)
	l.memo.Store(k, lookupResult{value: value, ok: ok})
	return value, ok
}

// Cache maps application identities to their Lookup.
//
// The first Get for a key builds the Lookup; concurrent first calls share one
// build and all observe the same *Lookup. Entries are never invalidated.
type Cache struct {
	lookups sync.Map
	group   singleflight.Group
	builds  atomic.Int64
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the Lookup for key, calling build if none exists yet.
func (c *Cache) Get(key string, build func() *Lookup) *Lookup {
	if l, ok := c.lookups.Load(key); ok {
		return l.(*Lookup)
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		if l, ok := c.lookups.Load(key); ok {
			return l, nil
		}
		l := build()
		c.lookups.Store(key, l)
		c.builds.Add(1)
		return l, nil
	})
	return v.(*Lookup)
}

// Builds returns how many Lookups the cache has built.
func (c *Cache) Builds() int64 {
	return c.builds.Load()
}

// Len returns the number of cached Lookups.
func (c *Cache) Len() int {
	n := 0
	c.lookups.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
