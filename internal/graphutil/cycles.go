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

package graphutil

import (
	"github.com/yourbasic/graph"
)

// FindAllElementaryCycles finds all elementary cycles in the graph g.
// This uses Donald B. Johnson's algorithm presented in
// "Finding All The Elementary Circuits of a Directed Graph", 1975
//
// Each cycle is returned as the list of nodes on the cycle starting at its least node, with the least node repeated at
// the end. A self loop on v is the cycle [v v].
func FindAllElementaryCycles(g *Digraph) [][]int {
	s := &cycleState{
		blocked: map[int]bool{},
		blist:   map[int]map[int]bool{},
	}
	order := g.Order()
	start := 0
	for start < order {
		rest := make([]int, 0, order-start)
		for i := start; i < order; i++ {
			rest = append(rest, i)
		}
		fg := g.Subgraph(rest)
		least := -1
		var leastComponent []int
		for _, component := range graph.StrongComponents(fg) {
			if len(component) == 1 && !fg.HasEdgeFromTo(int64(component[0]), int64(component[0])) {
				continue
			}
			m := component[0]
			for _, x := range component[1:] {
				if x < m {
					m = x
				}
			}
			if least < 0 || m < least {
				least = m
				leastComponent = component
			}
		}
		if least < 0 {
			break
		}
		s.stack = s.stack[:0]
		s.blocked = map[int]bool{}
		s.blist = map[int]map[int]bool{}
		s.circuit(least, fg.Subgraph(leastComponent))
		start = least + 1
	}
	return s.cycles
}

type cycleState struct {
	blocked map[int]bool
	blist   map[int]map[int]bool
	stack   []int
	cycles  [][]int
}

// circuitFrame is the state of one node on the path explored by circuit
type circuitFrame struct {
	v     int
	succs []int
	next  int
	found bool
}

func (s *cycleState) unblock(u int) {
	work := []int{u}
	for len(work) > 0 {
		x := work[len(work)-1]
		work = work[:len(work)-1]
		s.blocked[x] = false
		for w := range s.blist[x] {
			delete(s.blist[x], w)
			if s.blocked[w] {
				work = append(work, w)
			}
		}
	}
}

// circuit records every elementary cycle through start in g. The path is kept on an explicit stack of frames so
// that long cycles do not grow the goroutine stack.
func (s *cycleState) circuit(start int, g *Digraph) {
	frames := []circuitFrame{s.enter(start, g)}
	for len(frames) > 0 {
		top := &frames[len(frames)-1]
		if top.next < len(top.succs) {
			w := top.succs[top.next]
			top.next++
			if w == start {
				cycle := make([]int, len(s.stack), len(s.stack)+1)
				copy(cycle, s.stack)
				s.cycles = append(s.cycles, append(cycle, w))
				top.found = true
			} else if !s.blocked[w] {
				frames = append(frames, s.enter(w, g))
			}
			continue
		}
		v, found := top.v, top.found
		frames = frames[:len(frames)-1]
		s.leave(v, found, g)
		if found && len(frames) > 0 {
			frames[len(frames)-1].found = true
		}
	}
}

func (s *cycleState) enter(v int, g *Digraph) circuitFrame {
	s.stack = append(s.stack, v)
	s.blocked[v] = true
	return circuitFrame{v: v, succs: g.Succs(v)}
}

func (s *cycleState) leave(v int, found bool, g *Digraph) {
	if found {
		s.unblock(v)
	} else {
		for _, w := range g.Succs(v) {
			if s.blist[w] == nil {
				s.blist[w] = map[int]bool{}
			}
			s.blist[w][v] = true
		}
	}
	s.stack = s.stack[:len(s.stack)-1]
}
