// Copyright 2014 The Cayley Authors. All rights reserved.
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

package window

import (
	"container/list"
	"sync"
)

// Cache implements a sliding window over the most recently inserted keys.
//
// It is not an LRU: Get never refreshes an entry, and entries are evicted
// strictly in insertion order. Overwriting an existing key keeps its
// original position in the window.
type Cache struct {
	mu      sync.Mutex
	cache   map[string]*list.Element
	order   *list.List
	maxSize int
}

type kv struct {
	key   string
	value interface{}
}

func New(size int) *Cache {
	return &Cache{
		maxSize: size,
		order:   list.New(),
		cache:   make(map[string]*list.Element),
	}
}

// Put inserts or overwrites a key. Insertion evicts the oldest entries
// until the window is below capacity; an overwritten key that survives
// eviction keeps its position.
func (w *Cache) Put(key string, value interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.cache) >= w.maxSize {
		back := w.order.Back()
		if back == nil {
			break
		}
		last := w.order.Remove(back)
		delete(w.cache, last.(kv).key)
	}
	if e, ok := w.cache[key]; ok {
		e.Value = kv{key: key, value: value}
		return
	}
	w.order.PushFront(kv{key: key, value: value})
	w.cache[key] = w.order.Front()
}

// Get returns the value stored for key. It has no effect on eviction order.
func (w *Cache) Get(key string) (interface{}, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.cache[key]; ok {
		return e.Value.(kv).value, true
	}
	return nil, false
}

func (w *Cache) Del(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e := w.cache[key]
	if e == nil {
		return
	}
	delete(w.cache, key)
	w.order.Remove(e)
}

// Len returns the number of entries currently held.
func (w *Cache) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.cache)
}
