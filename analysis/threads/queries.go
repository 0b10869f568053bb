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

package threads

import (
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/internal/funcutil"
)

// Threads returns all the threads, synthetic threads first
func (g *Graph) Threads() []*Thread {
	return g.threads
}

// ExecutionThreads returns the threads that may execute m, ordered by identifier
func (g *Graph) ExecutionThreads(m *program.Method) []*Thread {
	return g.byMethod[m]
}

// Closure returns the methods t may execute, ordered by identifier
func (g *Graph) Closure(t *Thread) []*program.Method {
	return funcutil.SparseElems(t.closure, func(id int) (*program.Method, bool) {
		return g.env.Program.Method(program.MethodID(id)), true
	})
}

// CreationSites returns the creation sites of the threads, synthetic sites first, then the thread starts in the
// order of the statements
func (g *Graph) CreationSites() []*CreationSite {
	return g.sites
}

// AllocationSites returns the allocations of thread objects recorded during the traversal
func (g *Graph) AllocationSites() []*AllocationSite {
	return g.allocs
}

// IsMulti returns true if site may start more than one thread
func (g *Graph) IsMulti(site *CreationSite) bool {
	return g.multi.Has(site.ID)
}

// IsMultiThread returns true if the site of t may start more than one thread
func (g *Graph) IsMultiThread(t *Thread) bool {
	return g.IsMulti(t.Site)
}

// SingleSites returns the creation sites that start at most one thread
func (g *Graph) SingleSites() []*CreationSite {
	return funcutil.Filter(g.sites, func(s *CreationSite) bool { return !g.IsMulti(s) })
}

// MultiSites returns the creation sites that may start more than one thread
func (g *Graph) MultiSites() []*CreationSite {
	return funcutil.Filter(g.sites, g.IsMulti)
}

// IsSingleThreaded returns true if m is executed by at least one thread, and only by threads started once
func (g *Graph) IsSingleThreaded(m *program.Method) bool {
	ts := g.byMethod[m]
	return len(ts) > 0 && !funcutil.Exists(ts, g.IsMultiThread)
}

// MustOccurInSameThread returns true if m1 and m2 are both executed by exactly one thread, the same one, and that
// thread is started once
func (g *Graph) MustOccurInSameThread(m1, m2 *program.Method) bool {
	t1, t2 := g.byMethod[m1], g.byMethod[m2]
	return len(t1) == 1 && len(t2) == 1 && t1[0] == t2[0] && !g.IsMultiThread(t1[0])
}

// MustOccurInDifferentThread returns true if no thread may execute both m1 and m2. This holds in particular when one
// of them is not executed at all.
func (g *Graph) MustOccurInDifferentThread(m1, m2 *program.Method) bool {
	for _, t := range g.byMethod[m1] {
		if funcutil.Contains(g.byMethod[m2], t) {
			return false
		}
	}
	return true
}
