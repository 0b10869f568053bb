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

// FinishOrder returns the nodes in the order in which a depth-first search finishes them (post-order).
// The search is started from each of the nodes in nodes, in order, skipping the nodes already visited.
// Successors returns a slice containing the targets of directed edges out from the given node; nodes that are
// successors but not in nodes are visited too.
// The search uses an explicit stack, so deep graphs do not grow the call stack.
func FinishOrder[T comparable](nodes []T, successors func(T) []T) []T {
	type frame struct {
		node T
		succ []T
		next int
	}
	visited := make(map[T]bool, len(nodes))
	order := make([]T, 0, len(nodes))
	var stack []frame
	for _, root := range nodes {
		if visited[root] {
			continue
		}
		visited[root] = true
		stack = append(stack, frame{node: root, succ: successors(root)})
		for len(stack) > 0 {
			top := len(stack) - 1
			if stack[top].next < len(stack[top].succ) {
				w := stack[top].succ[stack[top].next]
				stack[top].next++
				if !visited[w] {
					visited[w] = true
					stack = append(stack, frame{node: w, succ: successors(w)})
				}
				continue
			}
			order = append(order, stack[top].node)
			stack = stack[:top]
		}
	}
	return order
}

// StronglyConnectedComponents is an implementation of Kosaraju's strongly connected component (SCC) algorithm
// for generic nodes T.
// A first depth-first pass follows successors and records finish times. The second pass takes the nodes in
// decreasing finish time and collects, following predecessors, every node not yet assigned; each such collection is
// one component.
// sccs is a slice of slices containing the nodes in each SCC. Within an SCC, nodes appear in the order they are
// collected, starting with the node that finished last.
// The order of SCCs is toposorted so that a component appears before all the components it reaches; i.e. if the
// graph is a tree then in order from the root towards the leaves. Reverse it for bottom-up algorithms.
func StronglyConnectedComponents[T comparable](nodes []T, successors func(T) []T, predecessors func(T) []T) [][]T {
	order := FinishOrder(nodes, successors)
	inGraph := make(map[T]bool, len(order))
	for _, v := range order {
		inGraph[v] = true
	}
	assigned := make(map[T]bool, len(order))
	sccs := make([][]T, 0)
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		if assigned[v] {
			continue
		}
		assigned[v] = true
		scc := make([]T, 0, 1)
		stack := []T{v}
		for len(stack) > 0 {
			x := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			scc = append(scc, x)
			for _, p := range predecessors(x) {
				if inGraph[p] && !assigned[p] {
					assigned[p] = true
					stack = append(stack, p)
				}
			}
		}
		sccs = append(sccs, scc)
	}
	return sccs
}
