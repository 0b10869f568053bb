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

// Package cfg answers intra-procedural control flow reachability queries on the statements of methods.
package cfg

import (
	"sync"

	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"golang.org/x/tools/container/intsets"
)

// Reachability memoizes, for every statement of the methods it has been queried on, the set of the indices of the
// statements reachable from it through at least one control flow edge.
// Reachability is safe for concurrent use, but Reset must not be called concurrently with a query.
type Reachability struct {
	mu       sync.Mutex
	closures map[*program.Method][]*intsets.Sparse
}

// New returns an empty reachability cache
func New() *Reachability {
	return &Reachability{closures: map[*program.Method][]*intsets.Sparse{}}
}

// Reset drops all the memoized closures
func (r *Reachability) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closures = map[*program.Method][]*intsets.Sparse{}
}

func (r *Reachability) closure(s *program.Stmt) *intsets.Sparse {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := s.Method
	c, ok := r.closures[m]
	if !ok {
		c = make([]*intsets.Sparse, len(m.Stmts()))
		r.closures[m] = c
	}
	if c[s.Index] == nil {
		c[s.Index] = computeClosure(s)
	}
	return c[s.Index]
}

// computeClosure runs a breadth-first search from the successors of s
func computeClosure(s *program.Stmt) *intsets.Sparse {
	vis := &intsets.Sparse{}
	que := append([]*program.Stmt{}, s.Succs()...)
	for len(que) > 0 {
		cur := que[0]
		que = que[1:]
		if !vis.Insert(cur.Index) {
			continue
		}
		for _, next := range cur.Succs() {
			if !vis.Has(next.Index) {
				que = append(que, next)
			}
		}
	}
	return vis
}

// PathExists returns true if to can execute after from in the same invocation of their method: there is a control
// flow path of at least one edge from from to to. Statements of different methods are never related.
func (r *Reachability) PathExists(from, to *program.Stmt) bool {
	if from == nil || to == nil || from.Method != to.Method {
		return false
	}
	return r.closure(from).Has(to.Index)
}

// InLoop returns true if s is on a control flow cycle of its method
func (r *Reachability) InLoop(s *program.Stmt) bool {
	return r.PathExists(s, s)
}

// ReachableFrom returns the statements reachable from s through at least one edge, in the order of the method
func (r *Reachability) ReachableFrom(s *program.Stmt) []*program.Stmt {
	stmts := s.Method.Stmts()
	var res []*program.Stmt
	for _, i := range r.closure(s).AppendTo(nil) {
		res = append(res, stmts[i])
	}
	return res
}
