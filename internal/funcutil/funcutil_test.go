// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package funcutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type item struct {
	id   int
	name string
}

func TestSortByIDIsStable(t *testing.T) {
	a := []item{{2, "b"}, {1, "a"}, {2, "c"}, {0, "z"}}
	SortByID(a, func(x item) int { return x.id })
	want := []item{{0, "z"}, {1, "a"}, {2, "b"}, {2, "c"}}
	if diff := cmp.Diff(want, a, cmp.AllowUnexported(item{})); diff != "" {
		t.Errorf("sorted mismatch (-want +got):\n%s", diff)
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[item]bool{{3, "c"}: true, {1, "a"}: true, {2, "b"}: false}
	got := Map(SortedKeys(m, func(x item) int { return x.id }), func(x item) string { return x.name })
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestDedupAndFilter(t *testing.T) {
	if diff := cmp.Diff([]int{3, 1, 2}, Dedup([]int{3, 1, 3, 2, 1})); diff != "" {
		t.Errorf("dedup mismatch (-want +got):\n%s", diff)
	}
	even := Filter([]int{1, 2, 3, 4}, func(x int) bool { return x%2 == 0 })
	if diff := cmp.Diff([]int{2, 4}, even); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}
	if !Exists(even, func(x int) bool { return x == 4 }) || Contains(even, 3) {
		t.Errorf("unexpected membership")
	}
	r := []int{1, 2, 3}
	Reverse(r)
	if diff := cmp.Diff([]int{3, 2, 1}, r); diff != "" {
		t.Errorf("reverse mismatch (-want +got):\n%s", diff)
	}
}

func TestSets(t *testing.T) {
	s := SparseOf([]item{{5, "e"}, {1, "a"}}, func(x item) int { return x.id })
	names := SparseElems(s, func(i int) (string, bool) { return string(rune('a' + i - 1)), i < 5 })
	if diff := cmp.Diff([]string{"a"}, names); diff != "" {
		t.Errorf("sparse elements mismatch (-want +got):\n%s", diff)
	}
	if SparseElems[string](nil, nil) != nil {
		t.Errorf("nil set should have no elements")
	}
}
