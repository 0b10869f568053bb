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

package graphutil_test

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/rvprasad/Indus-archive-sub007/internal/funcutil"
	"github.com/rvprasad/Indus-archive-sub007/internal/graphutil"
	"github.com/yourbasic/graph"
	"golang.org/x/exp/slices"
)

// trivialGraph is the call graph of a program where main calls f1 and g, the f* functions form three cycles through
// f1 and the g* functions form two cycles through g.
func trivialGraph() *graphutil.Digraph {
	labels := []string{"main", "f1", "f2", "f3", "f4", "f5", "g", "g1", "g2", "g3"}
	succs := [][]int{
		0: {1, 6},
		1: {2, 4, 3},
		2: {1},
		3: {2},
		4: {5},
		5: {1},
		6: {7, 8, 9},
		7: {1},
		8: {6},
		9: {8},
	}
	return graphutil.NewDigraph(labels, succs)
}

func TestFindAllElementaryCycles(t *testing.T) {
	g := trivialGraph()
	stats := graph.Check(g)
	t.Logf("Stats:\n\tsize: %d\n\tmulti: %d\n\tloops: %d\n\tisolated: %d",
		stats.Size, stats.Multi, stats.Loops, stats.Isolated)
	if stats.Size != 15 {
		t.Fatalf("expected 15 edges, got %d", stats.Size)
	}

	cycles := graphutil.FindAllElementaryCycles(g)
	expected := []string{"121", "1321", "1451", "686", "6986"}

	n := len(cycles)
	if n != 5 {
		t.Fatalf("Expected 5 elementary cycles, found %d", n)
	}
	results := make([]string, n)
	for i, cycle := range cycles {
		results[i] = strings.Join(funcutil.Map(cycle, strconv.Itoa), "")
	}
	sort.Strings(results)
	if !slices.Equal(results, expected) {
		for i, s := range results {
			t.Logf("Cycle %d: %s", i, s)
		}
		t.Fatalf("Cycles not as expected")
	}
}

func TestFindAllElementaryCyclesSelfLoop(t *testing.T) {
	g := graphutil.NewDigraph([]string{"a", "b"}, [][]int{{0, 1}, {}})
	cycles := graphutil.FindAllElementaryCycles(g)
	if len(cycles) != 1 || !slices.Equal(cycles[0], []int{0, 0}) {
		t.Fatalf("expected the single self loop [0 0], got %v", cycles)
	}
}

func TestFindAllElementaryCyclesAcyclic(t *testing.T) {
	g := graphutil.NewDigraph([]string{"a", "b", "c"}, [][]int{{1, 2}, {2}, {}})
	if cycles := graphutil.FindAllElementaryCycles(g); len(cycles) != 0 {
		t.Fatalf("expected no cycles in a DAG, got %v", cycles)
	}
}

func TestFindAllElementaryCyclesLongRing(t *testing.T) {
	const n = 10000
	labels := make([]string, n)
	succs := make([][]int, n)
	for i := range succs {
		labels[i] = strconv.Itoa(i)
		succs[i] = []int{(i + 1) % n}
	}
	cycles := graphutil.FindAllElementaryCycles(graphutil.NewDigraph(labels, succs))
	if len(cycles) != 1 {
		t.Fatalf("expected a single cycle, got %d", len(cycles))
	}
	if c := cycles[0]; len(c) != n+1 || c[0] != 0 || c[n-1] != n-1 || c[n] != 0 {
		t.Fatalf("expected the ring 0 -> ... -> %d -> 0", n-1)
	}
}

func TestFindAllElementaryCyclesComplete(t *testing.T) {
	// the complete digraph on 4 nodes has 6 cycles of length 2, 8 of length 3 and 6 of length 4
	succs := make([][]int, 4)
	for i := range succs {
		for j := 0; j < 4; j++ {
			if i != j {
				succs[i] = append(succs[i], j)
			}
		}
	}
	cycles := graphutil.FindAllElementaryCycles(graphutil.NewDigraph([]string{"a", "b", "c", "d"}, succs))
	byLength := map[int]int{}
	seen := map[string]bool{}
	for _, c := range cycles {
		key := strings.Join(funcutil.Map(c, strconv.Itoa), "")
		if seen[key] {
			t.Errorf("cycle %s found twice", key)
		}
		seen[key] = true
		byLength[len(c)-1]++
	}
	if byLength[2] != 6 || byLength[3] != 8 || byLength[4] != 6 {
		t.Errorf("unexpected cycle lengths %v", byLength)
	}
}
