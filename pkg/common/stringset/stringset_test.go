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
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testHost = "compute-1"
)

func TestStringSetNew(t *testing.T) {
	assert.Equal(t, 0, New().Len())

	s := New("b", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.ToSlice())
}

func TestStringSetAddContainsRemove(t *testing.T) {
	s := New()
	assert.False(t, s.Contains(testHost))

	s.Add(testHost)
	assert.True(t, s.Contains(testHost))

	s.Remove(testHost)
	assert.False(t, s.Contains(testHost))

	// removing a missing key is a no-op
	s.Remove(testHost)
	assert.Equal(t, 0, s.Len())
}

func TestStringSetClear(t *testing.T) {
	s := New("a", "b", "c")
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.ToSlice())
}
