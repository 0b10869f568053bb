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
	"fmt"

	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/internal/funcutil"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
)

// runnable is what a thread object runs: the runnable type, the entries of the thread and the call sites of the
// entries that are not followed
type runnable struct {
	typ     *program.Type
	entries []*program.Method
	skip    map[*program.Stmt]bool
}

// Consolidate builds the thread graph from the recorded thread starts, the call graph and the oracle. The call graph
// must have been created.
func (g *Graph) Consolidate() error {
	g.results = results{byMethod: map[*program.Method][]*Thread{}}
	g.addSyntheticThreads()
	if err := g.addStartedThreads(); err != nil {
		return err
	}
	for _, t := range g.threads {
		t.closure = g.closure(t)
		for _, id := range t.closure.AppendTo(nil) {
			m := g.env.Program.Method(program.MethodID(id))
			g.byMethod[m] = append(g.byMethod[m], t)
		}
	}
	g.computeMultiplicity()
	g.env.Logger.Infof("threads: %d threads, %d creation sites, %d multi", len(g.threads), len(g.sites),
		g.multi.Len())
	return nil
}

func (g *Graph) addSite(s *CreationSite) *CreationSite {
	s.ID = len(g.sites)
	g.sites = append(g.sites, s)
	return s
}

func (g *Graph) addThread(site *CreationSite, alloc *AllocationSite, r runnable) {
	g.threads = append(g.threads, &Thread{
		ID:       len(g.threads),
		Site:     site,
		Alloc:    alloc,
		Runnable: r.typ,
		Entries:  r.entries,
		skip:     r.skip,
	})
}

// addSyntheticThreads adds the program-entry thread, executing the heads of the call graph that are not class
// initializers and the reachable roots, and the class-initializer thread, executing the other heads
func (g *Graph) addSyntheticThreads() {
	var entries, clinits []*program.Method
	for _, h := range g.env.CallGraph.Heads() {
		if h.IsClassInitializer() {
			clinits = append(clinits, h)
		} else {
			entries = append(entries, h)
		}
	}
	var cyclic []*program.Method
	for _, r := range g.env.Roots {
		if !r.IsClassInitializer() && g.env.CallGraph.IsReachable(r) && !slices.Contains(entries, r) &&
			!slices.Contains(cyclic, r) {
			cyclic = append(cyclic, r)
		}
	}
	funcutil.SortByID(cyclic, func(m *program.Method) int { return int(m.ID) })
	entries = append(entries, cyclic...)
	if len(entries) > 0 {
		g.addThread(g.addSite(&CreationSite{Kind: EntrySite}), &AllocationSite{}, runnable{entries: entries})
	}
	if len(clinits) > 0 {
		g.addThread(g.addSite(&CreationSite{Kind: ClassInitSite}), &AllocationSite{}, runnable{entries: clinits})
	}
}

// addStartedThreads adds a thread for every object that may be started at a reachable thread start, and every
// runnable the object may run
func (g *Graph) addStartedThreads() error {
	starts := funcutil.Filter(g.starts, func(s *CreationSite) bool { return g.env.CallGraph.IsReachable(s.Method) })
	funcutil.SortByID(starts, func(s *CreationSite) int { return int(s.Stmt.ID) })
	seen := map[*program.Stmt]bool{}
	for _, start := range starts {
		if seen[start.Stmt] {
			continue
		}
		seen[start.Stmt] = true
		site := g.addSite(&CreationSite{Kind: StartSite, Method: start.Method, Stmt: start.Stmt, Expr: start.Expr})
		ctx := program.Context{Method: site.Method, Stmt: site.Stmt}
		for _, obj := range g.env.Oracle.Values(site.Expr.Receiver, ctx) {
			if !g.resolver.IsThreadType(obj.Type) {
				continue
			}
			rs, err := g.runnables(obj.Type)
			if err != nil {
				return fmt.Errorf("thread started at %s: %w", site, err)
			}
			alloc := g.allocByID[obj.Stmt.ID]
			if alloc == nil {
				alloc = &AllocationSite{Method: obj.Method, Stmt: obj.Stmt, Type: obj.Type}
			}
			for _, r := range rs {
				g.env.Logger.Debugf("threads: %s starts %s running %s", site, alloc, r.typ)
				g.addThread(site, alloc, r)
			}
		}
	}
	return nil
}

// runnables returns what threads of type t run. A type overriding the run entry runs itself. Otherwise the thread
// runs the run entry of the thread class, which delegates to the runnables its run entry calls. Only the objects
// implementing the runnable interface are runnables.
func (g *Graph) runnables(t *program.Type) ([]runnable, error) {
	threading := g.env.Threading
	run, err := g.resolver.RunEntry(t)
	if err != nil {
		return nil, err
	}
	base := g.env.Program.Lookup(threading.ThreadClass)
	if base == nil || base.DeclaredMethod(threading.RunMethod) != run {
		return []runnable{{typ: t, entries: []*program.Method{run}}}, nil
	}
	skip := map[*program.Stmt]bool{}
	var res []runnable
	seen := map[*program.Type]bool{}
	for _, s := range run.Stmts() {
		e := s.InvokeExpr()
		if e == nil || e.Receiver == nil || e.Ref.SubSignature() != threading.RunMethod {
			continue
		}
		skip[s] = true
		for _, obj := range g.env.Oracle.Values(e.Receiver, program.Context{Method: run, Stmt: s}) {
			if seen[obj.Type] || !g.env.Program.IsDescendantOf(obj.Type, threading.RunnableInterface) {
				continue
			}
			seen[obj.Type] = true
			entry := obj.Type.Dispatch(threading.RunMethod)
			if entry == nil {
				return nil, fmt.Errorf("runnable %s has no %s: %w", obj.Type, threading.RunMethod,
					callgraph.ErrMissingDispatch)
			}
			entries := funcutil.Dedup([]*program.Method{run, entry})
			res = append(res, runnable{typ: obj.Type, entries: entries, skip: skip})
		}
	}
	if len(res) == 0 {
		return []runnable{{typ: t, entries: []*program.Method{run}}}, nil
	}
	return res, nil
}

// closure returns the identifiers of the methods reachable from the entries of t in the call graph, not following
// the calls of run entries at thread starts nor the calls t skips
func (g *Graph) closure(t *Thread) *intsets.Sparse {
	res := &intsets.Sparse{}
	var que []*program.Method
	for _, e := range t.Entries {
		if res.Insert(int(e.ID)) {
			que = append(que, e)
		}
	}
	for len(que) > 0 {
		m := que[0]
		que = que[1:]
		for _, c := range g.env.CallGraph.Callees(m) {
			if t.skip[c.Stmt] || g.startsRun(c) {
				continue
			}
			if res.Insert(int(c.Method.ID)) {
				que = append(que, c.Method)
			}
		}
	}
	return res
}

// startsRun returns true if the callee of the call is the run entry a thread start implicitly calls
func (g *Graph) startsRun(c callgraph.CallTriple) bool {
	return g.resolver.IsThreadStart(c.Expr) && c.Method.SubSignature() == g.env.Threading.RunMethod
}

// computeMultiplicity classifies the creation sites. A start is initially multi if it is in a loop of its method or
// its method is in a cycle of the call graph. A single start then becomes multi when its method may be executed
// several times: by a thread started at a multi site, or by more than one thread. Sites only move from single to
// multi, so the fixed point is reached in at most as many passes as there are sites.
func (g *Graph) computeMultiplicity() {
	for _, s := range g.sites {
		if s.Kind == StartSite && (g.env.CFG.InLoop(s.Stmt) || g.env.CallGraph.InCycle(s.Method)) {
			g.multi.Insert(s.ID)
		}
	}
	shared, seen := &intsets.Sparse{}, &intsets.Sparse{}
	for _, t := range g.threads {
		both := &intsets.Sparse{}
		both.Intersection(seen, t.closure)
		shared.UnionWith(both)
		seen.UnionWith(t.closure)
	}
	for pass := 1; ; pass++ {
		executed := &intsets.Sparse{}
		executed.Copy(shared)
		for _, t := range g.threads {
			if g.multi.Has(t.Site.ID) {
				executed.UnionWith(t.closure)
			}
		}
		changed := false
		for _, s := range g.sites {
			if s.Kind == StartSite && !g.multi.Has(s.ID) && executed.Has(int(s.Method.ID)) {
				g.env.Logger.Debugf("threads: %s becomes multi", s)
				g.multi.Insert(s.ID)
				changed = true
			}
		}
		if g.OnPass != nil {
			g.OnPass(pass, len(g.sites)-g.multi.Len())
		}
		if !changed {
			return
		}
	}
}
