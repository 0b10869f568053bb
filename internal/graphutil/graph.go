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

// Package graphutil contains graph algorithms and adapters to work with existing graph libraries.
package graphutil

import (
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
)

// Digraph is a dense directed graph over the nodes 0..Order()-1. It implements the methods to satisfy yourbasic's
// graph.Iterator and Gonum's graph.Directed, with node IDs equal to the node indices.
type Digraph struct {
	// labels[i] is the label of node i, used when printing nodes
	labels []string

	// include marks the nodes that are part of the graph. A node outside of include has no edges, and Gonum queries
	// do not return it. All nodes are included unless the graph is a subgraph.
	include []bool

	// succs[i] is the sorted, duplicate-free list of successors of i
	succs [][]int

	// preds[i] is the sorted, duplicate-free list of predecessors of i
	preds [][]int
}

// NewDigraph returns the graph with len(labels) nodes and an edge i -> j for every j in succs[i]. Duplicate edges are
// collapsed. Edges pointing outside of the graph are dropped.
func NewDigraph(labels []string, succs [][]int) *Digraph {
	n := len(labels)
	g := &Digraph{
		labels:  labels,
		include: make([]bool, n),
		succs:   make([][]int, n),
		preds:   make([][]int, n),
	}
	for i := range g.include {
		g.include[i] = true
	}
	for i := 0; i < n && i < len(succs); i++ {
		for _, j := range succs[i] {
			if j >= 0 && j < n {
				g.succs[i] = append(g.succs[i], j)
				g.preds[j] = append(g.preds[j], i)
			}
		}
	}
	for i := 0; i < n; i++ {
		g.succs[i] = sortedUnique(g.succs[i])
		g.preds[i] = sortedUnique(g.preds[i])
	}
	return g
}

func sortedUnique(a []int) []int {
	slices.Sort(a)
	return slices.Compact(a)
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order and labels are the same as in g, meaning that node indices will stay consistent
// across subgraphs.
func (g *Digraph) Subgraph(include []int) *Digraph {
	n := g.Order()
	sub := &Digraph{
		labels:  g.labels,
		include: make([]bool, n),
		succs:   make([][]int, n),
		preds:   make([][]int, n),
	}
	for _, i := range include {
		if i >= 0 && i < n && g.include[i] {
			sub.include[i] = true
		}
	}
	for i := 0; i < n; i++ {
		if !sub.include[i] {
			continue
		}
		for _, j := range g.succs[i] {
			if sub.include[j] {
				sub.succs[i] = append(sub.succs[i], j)
				sub.preds[j] = append(sub.preds[j], i)
			}
		}
	}
	for i := 0; i < n; i++ {
		slices.Sort(sub.preds[i])
	}
	return sub
}

// Succs returns the successors of node v, in increasing order
func (g *Digraph) Succs(v int) []int {
	if v < 0 || v >= len(g.succs) {
		return nil
	}
	return g.succs[v]
}

// Preds returns the predecessors of node v, in increasing order
func (g *Digraph) Preds(v int) []int {
	if v < 0 || v >= len(g.preds) {
		return nil
	}
	return g.preds[v]
}

// Label returns the label of node v
func (g *Digraph) Label(v int) string {
	if v < 0 || v >= len(g.labels) {
		return ""
	}
	return g.labels[v]
}

// Order implements the order of the graph.Iterator interface for the Digraph
func (g *Digraph) Order() int {
	return len(g.labels)
}

// Visit implements the graph.Iterator interface for the Digraph
func (g *Digraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for _, w := range g.Succs(v) {
		if do(w, 1) {
			return true
		}
	}
	return false
}

// *************** Graph interface implementation **********************

func (g *Digraph) has(id int64) bool {
	return id >= 0 && id < int64(len(g.include)) && g.include[id]
}

// Node implements the Graph interface. It returns nil when id is not a node of g.
func (g *Digraph) Node(id int64) graph.Node {
	if !g.has(id) {
		return nil
	}
	return DNode{id: id, label: g.labels[id]}
}

// Nodes returns the set of nodes in the graph
func (g *Digraph) Nodes() graph.Nodes {
	var nodes []graph.Node
	for i, in := range g.include {
		if in {
			nodes = append(nodes, DNode{id: int64(i), label: g.labels[i]})
		}
	}
	return g.iter(nodes)
}

func (g *Digraph) iter(nodes []graph.Node) graph.Nodes {
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g *Digraph) nodesOf(ids []int) graph.Nodes {
	nodes := make([]graph.Node, 0, len(ids))
	for _, i := range ids {
		nodes = append(nodes, DNode{id: int64(i), label: g.labels[i]})
	}
	return g.iter(nodes)
}

// From returns the set of nodes reachable from the id in one step
func (g *Digraph) From(id int64) graph.Nodes {
	if !g.has(id) {
		return graph.Empty
	}
	return g.nodesOf(g.succs[id])
}

// To returns the set of nodes that reach id in one step
func (g *Digraph) To(id int64) graph.Nodes {
	if !g.has(id) {
		return graph.Empty
	}
	return g.nodesOf(g.preds[id])
}

// HasEdgeFromTo returns whether there is a directed edge from uid to vid
func (g *Digraph) HasEdgeFromTo(uid, vid int64) bool {
	if !g.has(uid) || !g.has(vid) {
		return false
	}
	_, found := slices.BinarySearch(g.succs[uid], int(vid))
	return found
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (g *Digraph) HasEdgeBetween(xid, yid int64) bool {
	return g.HasEdgeFromTo(xid, yid) || g.HasEdgeFromTo(yid, xid)
}

// Edge returns the edge from uid to vid (nil if none exists)
func (g *Digraph) Edge(uid, vid int64) graph.Edge {
	if !g.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return DEdge{from: DNode{id: uid, label: g.labels[uid]}, to: DNode{id: vid, label: g.labels[vid]}}
}

// *************** Nodes implementation **********************

// DNode is a Digraph node that implements the graph.Node interface
type DNode struct {
	id    int64
	label string
}

// ID returns the id of the node
func (n DNode) ID() int64 {
	return n.id
}

func (n DNode) String() string {
	return n.label
}

// *************** Edge implementation **********************

// DEdge implements the graph.Edge interface
type DEdge struct {
	from DNode
	to   DNode
}

// From returns the origin of the edge
func (e DEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e DEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e DEdge) ReversedEdge() graph.Edge {
	return DEdge{from: e.to, to: e.from}
}
