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

package callgraph

import (
	"errors"
	"fmt"

	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/internal/funcutil"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
)

// ErrInvalidCallInfo is returned when the maps of a CallInfo are not consistent
var ErrInvalidCallInfo = errors.New("invalid call info")

// A CallTriple is one end of a call edge. In the callers of a method, Method is the caller; in the callees of a
// method, Method is the callee. Stmt and Expr are always the call site in the caller.
type CallTriple struct {
	Method *program.Method
	Stmt   *program.Stmt
	Expr   *program.InvokeExpr
}

func (t CallTriple) String() string {
	return fmt.Sprintf("%s@%d", t.Method, t.Stmt.Index)
}

// An Edge is a call edge from the call site Stmt in Caller to Callee
type Edge struct {
	Caller *program.Method
	Stmt   *program.Stmt
	Callee *program.Method
}

func (e Edge) String() string {
	return fmt.Sprintf("%s#%d -> %s", e.Caller, e.Stmt.Index, e.Callee)
}

type edgeKey struct {
	caller program.MethodID
	stmt   program.StmtID
	callee program.MethodID
}

// CallInfo is the result of a call graph construction: the call edges indexed by caller and by callee, and the set
// of reachable methods.
// A CallInfo is built by a Builder and is not modified after the builder's Consolidate returns.
type CallInfo struct {
	prog           *program.Program
	callee2callers map[*program.Method][]CallTriple
	caller2callees map[*program.Method][]CallTriple
	edges          map[edgeKey]bool
	reachable      intsets.Sparse
}

// NewCallInfo returns a call info with no edge and no reachable method
func NewCallInfo(prog *program.Program) *CallInfo {
	return &CallInfo{
		prog:           prog,
		callee2callers: map[*program.Method][]CallTriple{},
		caller2callees: map[*program.Method][]CallTriple{},
		edges:          map[edgeKey]bool{},
	}
}

// Program returns the program the call info is about
func (ci *CallInfo) Program() *program.Program {
	return ci.prog
}

// AddReachable marks m as reachable and returns true if it was not reachable before
func (ci *CallInfo) AddReachable(m *program.Method) bool {
	return ci.reachable.Insert(int(m.ID))
}

// AddEdge adds the call edge from the call site stmt in caller to callee, marking both reachable. It returns true
// if the edge is new.
func (ci *CallInfo) AddEdge(caller *program.Method, stmt *program.Stmt, callee *program.Method) bool {
	key := edgeKey{caller: caller.ID, stmt: stmt.ID, callee: callee.ID}
	if ci.edges[key] {
		return false
	}
	ci.edges[key] = true
	expr := stmt.InvokeExpr()
	ci.caller2callees[caller] = append(ci.caller2callees[caller], CallTriple{Method: callee, Stmt: stmt, Expr: expr})
	ci.callee2callers[callee] = append(ci.callee2callers[callee], CallTriple{Method: caller, Stmt: stmt, Expr: expr})
	ci.AddReachable(caller)
	ci.AddReachable(callee)
	return true
}

// Seal sorts the triples so that every query on the call info is deterministic
func (ci *CallInfo) Seal() {
	for _, triples := range ci.caller2callees {
		sortTriples(triples)
	}
	for _, triples := range ci.callee2callers {
		sortTriples(triples)
	}
}

func sortTriples(triples []CallTriple) {
	slices.SortStableFunc(triples, func(a, b CallTriple) bool {
		if a.Stmt.ID != b.Stmt.ID {
			return a.Stmt.ID < b.Stmt.ID
		}
		return a.Method.ID < b.Method.ID
	})
}

// IsReachable returns true if m is reachable
func (ci *CallInfo) IsReachable(m *program.Method) bool {
	return m != nil && ci.reachable.Has(int(m.ID))
}

// Reachable returns the reachable methods, ordered by identifier
func (ci *CallInfo) Reachable() []*program.Method {
	return funcutil.SparseElems(&ci.reachable, func(i int) (*program.Method, bool) {
		return ci.prog.Method(program.MethodID(i)), true
	})
}

// NumReachable returns the number of reachable methods
func (ci *CallInfo) NumReachable() int {
	return ci.reachable.Len()
}

// NumEdges returns the number of call edges
func (ci *CallInfo) NumEdges() int {
	return len(ci.edges)
}

// CallersOf returns the call sites calling m, as triples whose Method is the caller
func (ci *CallInfo) CallersOf(m *program.Method) []CallTriple {
	return ci.callee2callers[m]
}

// CalleesOf returns the calls made by m, as triples whose Method is the callee
func (ci *CallInfo) CalleesOf(m *program.Method) []CallTriple {
	return ci.caller2callees[m]
}

// Edges returns all the call edges, ordered by caller, call site and callee
func (ci *CallInfo) Edges() []Edge {
	var edges []Edge
	for _, caller := range funcutil.SortedKeys(ci.caller2callees, methodID) {
		for _, t := range ci.caller2callees[caller] {
			edges = append(edges, Edge{Caller: caller, Stmt: t.Stmt, Callee: t.Method})
		}
	}
	slices.SortStableFunc(edges, func(a, b Edge) bool {
		if a.Caller.ID != b.Caller.ID {
			return a.Caller.ID < b.Caller.ID
		}
		if a.Stmt.ID != b.Stmt.ID {
			return a.Stmt.ID < b.Stmt.ID
		}
		return a.Callee.ID < b.Callee.ID
	})
	return edges
}

// Validate checks that every method appearing in an edge is reachable, and that the two maps of edges are inverse
// of each other. The errors returned wrap ErrInvalidCallInfo.
func (ci *CallInfo) Validate() error {
	for caller, triples := range ci.caller2callees {
		if !ci.IsReachable(caller) {
			return fmt.Errorf("caller %s is not reachable: %w", caller, ErrInvalidCallInfo)
		}
		for _, t := range triples {
			if !ci.IsReachable(t.Method) {
				return fmt.Errorf("callee %s is not reachable: %w", t.Method, ErrInvalidCallInfo)
			}
			if t.Stmt.Method != caller {
				return fmt.Errorf("call site %s is not in %s: %w", t.Stmt, caller, ErrInvalidCallInfo)
			}
			if !containsTriple(ci.callee2callers[t.Method], CallTriple{Method: caller, Stmt: t.Stmt, Expr: t.Expr}) {
				return fmt.Errorf("edge %s -> %s missing from the callers of %s: %w",
					caller, t.Method, t.Method, ErrInvalidCallInfo)
			}
		}
	}
	for callee, triples := range ci.callee2callers {
		if !ci.IsReachable(callee) {
			return fmt.Errorf("callee %s is not reachable: %w", callee, ErrInvalidCallInfo)
		}
		for _, t := range triples {
			if !ci.IsReachable(t.Method) {
				return fmt.Errorf("caller %s is not reachable: %w", t.Method, ErrInvalidCallInfo)
			}
			if !containsTriple(ci.caller2callees[t.Method], CallTriple{Method: callee, Stmt: t.Stmt, Expr: t.Expr}) {
				return fmt.Errorf("edge %s -> %s missing from the callees of %s: %w",
					t.Method, callee, t.Method, ErrInvalidCallInfo)
			}
		}
	}
	return nil
}

func containsTriple(triples []CallTriple, t CallTriple) bool {
	return funcutil.Contains(triples, t)
}

func methodID(m *program.Method) int {
	return int(m.ID)
}
