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
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/internal/funcutil"
	"github.com/rvprasad/Indus-archive-sub007/internal/graphutil"
	ybgraph "github.com/yourbasic/graph"
	"golang.org/x/tools/container/intsets"
	"gonum.org/v1/gonum/graph/path"
)

// Info answers queries on the call graph of a CallInfo. The graph has one node per reachable method, and an edge
// from a caller to each of its callees.
//
// Every derived result is computed on the first query and memoized until Reset. Queries are safe for concurrent use;
// Reset and CreateCallGraphInfo must not be called concurrently with queries. Queries on methods that are not
// reachable return empty results. Queries panic if no call graph has been created since the last Reset.
type Info struct {
	mu sync.Mutex
	graphInfo
}

// graphInfo is the call graph and its memoized results
type graphInfo struct {
	ci    *CallInfo
	built bool

	// nodes[i] is the method of node i; methods are ordered by identifier
	nodes []*program.Method
	index map[*program.Method]int
	graph *graphutil.Digraph
	heads []*program.Method

	forward  map[int]*intsets.Sparse
	backward map[int]*intsets.Sparse
	sccs     [][]*program.Method // top-down
	cyclic   *intsets.Sparse
	topo     []*program.Method // top-down
	cycles   [][]*program.Method
	digest   *uint64
}

// NewInfo returns the info of the call graph of ci
func NewInfo(ci *CallInfo) (*Info, error) {
	i := &Info{}
	if err := i.CreateCallGraphInfo(ci); err != nil {
		return nil, err
	}
	return i, nil
}

// Reset drops the call graph and every memoized result
func (i *Info) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.graphInfo = graphInfo{}
}

// CreateCallGraphInfo validates ci and builds its call graph, replacing the previous one
func (i *Info) CreateCallGraphInfo(ci *CallInfo) error {
	if err := ci.Validate(); err != nil {
		return err
	}
	nodes := ci.Reachable()
	index := make(map[*program.Method]int, len(nodes))
	labels := make([]string, len(nodes))
	for k, m := range nodes {
		index[m] = k
		labels[k] = m.Signature()
	}
	succs := make([][]int, len(nodes))
	for k, m := range nodes {
		for _, t := range ci.CalleesOf(m) {
			succs[k] = append(succs[k], index[t.Method])
		}
	}
	g := graphutil.NewDigraph(labels, succs)
	var heads []*program.Method
	for k, m := range nodes {
		if len(g.Preds(k)) == 0 {
			heads = append(heads, m)
		}
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.graphInfo = graphInfo{
		ci:       ci,
		built:    true,
		nodes:    nodes,
		index:    index,
		graph:    g,
		heads:    heads,
		forward:  map[int]*intsets.Sparse{},
		backward: map[int]*intsets.Sparse{},
	}
	return nil
}

func (i *Info) mustBeBuilt() {
	if !i.built {
		panic("call graph queried before CreateCallGraphInfo")
	}
}

func (i *Info) methodsOf(s *intsets.Sparse) []*program.Method {
	return funcutil.SparseElems(s, func(k int) (*program.Method, bool) { return i.nodes[k], true })
}

// CallInfo returns the call info the graph was created from
func (i *Info) CallInfo() *CallInfo {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.ci
}

// Graph returns the call graph, with node i being the i-th method returned by Reachable
func (i *Info) Graph() *graphutil.Digraph {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.graph
}

// Heads returns the reachable methods with no caller, ordered by identifier
func (i *Info) Heads() []*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.heads
}

// Reachable returns the reachable methods, ordered by identifier
func (i *Info) Reachable() []*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.nodes
}

// IsReachable returns true if m is reachable
func (i *Info) IsReachable(m *program.Method) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	_, ok := i.index[m]
	return ok
}

// Callers returns the call sites calling m, as triples whose Method is the caller
func (i *Info) Callers(m *program.Method) []CallTriple {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.ci.CallersOf(m)
}

// Callees returns the calls made by m, as triples whose Method is the callee
func (i *Info) Callees(m *program.Method) []CallTriple {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.ci.CalleesOf(m)
}

// CalleesAt returns the methods called by the call site at ctx, ordered by identifier. If expr is not nil, only the
// callees of that expression are returned.
func (i *Info) CalleesAt(expr *program.InvokeExpr, ctx program.Context) []*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.calleesAt(expr, ctx)
}

func (i *Info) calleesAt(expr *program.InvokeExpr, ctx program.Context) []*program.Method {
	var res []*program.Method
	for _, t := range i.ci.CalleesOf(ctx.Method) {
		if t.Stmt == ctx.Stmt && (expr == nil || t.Expr == expr) {
			res = append(res, t.Method)
		}
	}
	res = funcutil.Dedup(res)
	funcutil.SortByID(res, methodID)
	return res
}

// closure returns the nodes reachable from node k through at least one edge, forward or backward
func (i *Info) closure(k int, forward bool) *intsets.Sparse {
	memo := i.backward
	next := i.graph.Preds
	if forward {
		memo = i.forward
		next = i.graph.Succs
	}
	if s, ok := memo[k]; ok {
		return s
	}
	s := &intsets.Sparse{}
	que := append([]int{}, next(k)...)
	for len(que) > 0 {
		cur := que[0]
		que = que[1:]
		if !s.Insert(cur) {
			continue
		}
		for _, n := range next(cur) {
			if !s.Has(n) {
				que = append(que, n)
			}
		}
	}
	memo[k] = s
	return s
}

func (i *Info) closureOf(m *program.Method, forward bool) *intsets.Sparse {
	k, ok := i.index[m]
	if !ok {
		return &intsets.Sparse{}
	}
	return i.closure(k, forward)
}

// MethodsReachableFrom returns the methods reachable from m through at least one call edge, following callees when
// forward is true and callers otherwise. m is in the result only if it is on a cycle.
func (i *Info) MethodsReachableFrom(m *program.Method, forward bool) []*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.methodsOf(i.closureOf(m, forward))
}

// MethodsReachableFromStmt returns the methods that may be executed by the call at stmt in root: its callees and the
// methods they reach.
func (i *Info) MethodsReachableFromStmt(stmt *program.Stmt, root *program.Method) []*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.methodsOf(i.fromStmt(stmt, root))
}

func (i *Info) fromStmt(stmt *program.Stmt, root *program.Method) *intsets.Sparse {
	res := &intsets.Sparse{}
	for _, callee := range i.calleesAt(nil, program.Context{Method: root, Stmt: stmt}) {
		k := i.index[callee]
		res.Insert(k)
		res.UnionWith(i.closure(k, true))
	}
	return res
}

// IsCalleeReachableFromCaller returns true if callee may be executed during a call of caller
func (i *Info) IsCalleeReachableFromCaller(callee, caller *program.Method) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	k, ok := i.index[callee]
	return ok && i.closureOf(caller, true).Has(k)
}

// IsCalleeReachableFromCallSite returns true if callee may be executed during the call at stmt in caller
func (i *Info) IsCalleeReachableFromCallSite(callee *program.Method, stmt *program.Stmt,
	caller *program.Method) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	k, ok := i.index[callee]
	return ok && i.fromStmt(stmt, caller).Has(k)
}

// CommonMethodsReachableFrom returns the methods reachable from both m1 (in direction forward1) and m2 (in direction
// forward2)
func (i *Info) CommonMethodsReachableFrom(m1 *program.Method, forward1 bool,
	m2 *program.Method, forward2 bool) []*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	common := &intsets.Sparse{}
	common.Intersection(i.closureOf(m1, forward1), i.closureOf(m2, forward2))
	return i.methodsOf(common)
}

// ConnectivityCallersFor returns the common transitive callers of m1 and m2 that call a method that is not a common
// caller: the callers closest to the point where the call chains to m1 and m2 separate.
func (i *Info) ConnectivityCallersFor(m1, m2 *program.Method) []*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.connectivity(m1, m2, false)
}

// ConnectivityCalleesFor returns the common transitive callees of m1 and m2 that are called by a method that is not
// a common callee: the callees where the call chains from m1 and m2 join.
func (i *Info) ConnectivityCalleesFor(m1, m2 *program.Method) []*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return i.connectivity(m1, m2, true)
}

func (i *Info) connectivity(m1, m2 *program.Method, forward bool) []*program.Method {
	common := &intsets.Sparse{}
	common.Intersection(i.closureOf(m1, forward), i.closureOf(m2, forward))
	// boundary nodes have a neighbor, against the direction of the closure, outside of the common set
	neighbors := i.graph.Succs
	if forward {
		neighbors = i.graph.Preds
	}
	res := &intsets.Sparse{}
	for _, k := range common.AppendTo(nil) {
		for _, n := range neighbors(k) {
			if !common.Has(n) {
				res.Insert(k)
				break
			}
		}
	}
	return i.methodsOf(res)
}

// SCCs returns the strongly connected components of the call graph, computed with Kosaraju's algorithm. When topDown
// is true, a component appears before the components it calls; otherwise the order is reversed. The methods of each
// component are ordered by identifier.
func (i *Info) SCCs(topDown bool) [][]*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	i.computeSCCs()
	res := make([][]*program.Method, len(i.sccs))
	copy(res, i.sccs)
	if !topDown {
		funcutil.Reverse(res)
	}
	return res
}

func (i *Info) computeSCCs() {
	if i.sccs != nil {
		return
	}
	ids := make([]int, len(i.nodes))
	for k := range ids {
		ids[k] = k
	}
	components := graphutil.StronglyConnectedComponents(ids, i.graph.Succs, i.graph.Preds)
	i.cyclic = &intsets.Sparse{}
	i.sccs = make([][]*program.Method, 0, len(components))
	for _, c := range components {
		if len(c) > 1 || i.graph.HasEdgeFromTo(int64(c[0]), int64(c[0])) {
			for _, k := range c {
				i.cyclic.Insert(k)
			}
		}
		ms := funcutil.Map(c, func(k int) *program.Method { return i.nodes[k] })
		funcutil.SortByID(ms, methodID)
		i.sccs = append(i.sccs, ms)
	}
}

// InCycle returns true if m is in a non-trivial strongly connected component, or calls itself
func (i *Info) InCycle(m *program.Method) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	k, ok := i.index[m]
	if !ok {
		return false
	}
	i.computeSCCs()
	return i.cyclic.Has(k)
}

// MethodsInTopologicalOrder returns the reachable methods sorted by decreasing depth-first finish time, callers
// before callees when topDown is true, and in the reverse order otherwise. Methods on a cycle are ordered arbitrarily
// among themselves.
func (i *Info) MethodsInTopologicalOrder(topDown bool) []*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	if i.topo == nil {
		// start from the heads so that the order follows the calls from the entry points
		var roots []int
		for _, h := range i.heads {
			roots = append(roots, i.index[h])
		}
		for k := range i.nodes {
			roots = append(roots, k)
		}
		order := graphutil.FinishOrder(roots, i.graph.Succs)
		funcutil.Reverse(order)
		i.topo = funcutil.Map(order, func(k int) *program.Method { return i.nodes[k] })
	}
	res := make([]*program.Method, len(i.topo))
	copy(res, i.topo)
	if !topDown {
		funcutil.Reverse(res)
	}
	return res
}

// Cycles returns the elementary cycles of the call graph. Each cycle starts and ends with its method of least
// identifier.
func (i *Info) Cycles() [][]*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	if i.cycles == nil {
		i.cycles = [][]*program.Method{}
		for _, c := range graphutil.FindAllElementaryCycles(i.graph) {
			i.cycles = append(i.cycles, funcutil.Map(c, func(k int) *program.Method { return i.nodes[k] }))
		}
	}
	return i.cycles
}

// CallChain returns a shortest chain of calls from from to to, starting with from and ending with to. It returns
// nil if to is not reachable from from.
func (i *Info) CallChain(from, to *program.Method) []*program.Method {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	u, ok1 := i.index[from]
	v, ok2 := i.index[to]
	if !ok1 || !ok2 {
		return nil
	}
	shortest := path.DijkstraFrom(i.graph.Node(int64(u)), i.graph)
	nodes, _ := shortest.To(int64(v))
	if len(nodes) == 0 {
		return nil
	}
	res := make([]*program.Method, len(nodes))
	for k, n := range nodes {
		res[k] = i.nodes[n.ID()]
	}
	return res
}

// Stats returns the statistics of the call graph: its number of edges, self loops and isolated methods
func (i *Info) Stats() ybgraph.Stats {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	return ybgraph.Check(i.graph)
}

// Digest returns a fingerprint of the reachable methods and the call edges. Two call graphs of the same program have
// the same digest if and only if, with very high probability, they are equal.
func (i *Info) Digest() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.mustBeBuilt()
	if i.digest == nil {
		d := digest(i.ci)
		i.digest = &d
	}
	return *i.digest
}

func digest(ci *CallInfo) uint64 {
	h := xxhash.New()
	for _, m := range ci.Reachable() {
		fmt.Fprintf(h, "%s\n", m.Signature())
	}
	for _, e := range ci.Edges() {
		fmt.Fprintf(h, "%s#%d->%s\n", e.Caller.Signature(), e.Stmt.Index, e.Callee.Signature())
	}
	return h.Sum64()
}
