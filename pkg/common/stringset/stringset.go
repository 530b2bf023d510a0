// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stringset

import (
	"sort"
	"sync"
)

// StringSet defines the interface for a set of strings
type StringSet interface {
	// Add adds 'key' to the set
	Add(key string)
	// Remove removes 'key' from the set
	Remove(key string)
	// Contains checks if the set contains 'key'
	Contains(key string) bool
	// Len returns the number of elements in the set
	Len() int
	// Clear clears the contents of set
	Clear()
	// ToSlice returns a sorted slice containing all elements in the set
	ToSlice() []string
}

// stringSet implements StringSet interface. It is thread safe
type stringSet struct {
	sync.RWMutex
	m map[string]struct{}
}

// New creates a new StringSet holding the given keys
func New(keys ...string) StringSet {
	s := &stringSet{
		m: make(map[string]struct{}, len(keys)),
	}
	for _, k := range keys {
		s.m[k] = struct{}{}
	}
	return s
}

// Add adds 'key' to the set
func (s *stringSet) Add(key string) {
	s.Lock()
	defer s.Unlock()

	s.m[key] = struct{}{}
}

// Contains checks if the set contains 'key'
func (s *stringSet) Contains(key string) bool {
	s.RLock()
	defer s.RUnlock()

	_, ok := s.m[key]
	return ok
}

// Remove removes 'key' from the set
func (s *stringSet) Remove(key string) {
	s.Lock()
	defer s.Unlock()

	delete(s.m, key)
}

// Len returns the number of elements in the set
func (s *stringSet) Len() int {
	s.RLock()
	defer s.RUnlock()

	return len(s.m)
}

// Clear clears the contents of the set
func (s *stringSet) Clear() {
	s.Lock()
	defer s.Unlock()

	s.m = make(map[string]struct{})
}

// ToSlice returns the elements of the set in ascending order
func (s *stringSet) ToSlice() []string {
	s.RLock()
	defer s.RUnlock()

	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
