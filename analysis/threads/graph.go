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
	"github.com/rvprasad/Indus-archive-sub007/analysis/cfg"
	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
	"github.com/rvprasad/Indus-archive-sub007/analysis/pointsto"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/analysis/traversal"
	"golang.org/x/tools/container/intsets"
)

// SiteKind distinguishes the thread starts of the program from the synthetic creation sites
type SiteKind int

const (
	// StartSite is a call of the start method of a thread
	StartSite SiteKind = iota
	// EntrySite is the synthetic creation site of the program-entry thread
	EntrySite
	// ClassInitSite is the synthetic creation site of the class-initializer thread
	ClassInitSite
)

func (k SiteKind) String() string {
	switch k {
	case StartSite:
		return "start"
	case EntrySite:
		return "entry"
	case ClassInitSite:
		return "clinit"
	default:
		return "unknown"
	}
}

// A CreationSite is where threads are started. Method and Stmt are nil for synthetic sites.
type CreationSite struct {
	ID     int
	Kind   SiteKind
	Method *program.Method
	Stmt   *program.Stmt
	Expr   *program.InvokeExpr
}

func (s *CreationSite) String() string {
	if s.Stmt == nil {
		return "<" + s.Kind.String() + ">"
	}
	return fmt.Sprintf("%s#%d", s.Method, s.Stmt.Index)
}

// An AllocationSite is an allocation of a thread object. Method and Stmt are nil for synthetic sites.
type AllocationSite struct {
	Method *program.Method
	Stmt   *program.Stmt
	Type   *program.Type
}

func (a *AllocationSite) String() string {
	if a.Stmt == nil {
		return "<synthetic>"
	}
	return fmt.Sprintf("new %s@%s#%d", a.Type, a.Method, a.Stmt.Index)
}

// A Thread is started at Site on the object allocated at Alloc, and executes the run entry of Runnable. Runnable is
// nil for synthetic threads.
type Thread struct {
	ID       int
	Site     *CreationSite
	Alloc    *AllocationSite
	Runnable *program.Type

	// Entries are the methods the thread starts executing
	Entries []*program.Method

	// skip are the call sites in the entries that are not followed: calls of the run entry of a runnable that is
	// already an entry
	skip    map[*program.Stmt]bool
	closure *intsets.Sparse
}

func (t *Thread) String() string {
	if t.Runnable == nil {
		return fmt.Sprintf("thread %d %s", t.ID, t.Site)
	}
	return fmt.Sprintf("thread %d %s running %s", t.ID, t.Site, t.Runnable)
}

// Env is what the thread graph needs from the other analyses
type Env struct {
	Program   *program.Program
	Oracle    pointsto.Oracle
	CallGraph *callgraph.Info
	CFG       *cfg.Reachability
	Threading config.ThreadingSpec

	// Roots are the methods the call graph is built from. The program-entry thread also executes the roots that
	// are not heads because they lie on a call cycle.
	Roots []*program.Method

	Logger    *config.LogGroup
}

// Graph is the thread graph builder. It records the thread allocations and starts during the traversal, and builds
// the thread graph in Consolidate. Queries are only meaningful after Consolidate, and are safe for concurrent use.
type Graph struct {
	program.NoopOp
	env      Env
	resolver *callgraph.Resolver

	// OnPass, if not nil, is called after each pass of the multiplicity fixed point with the number of single
	// creation sites, which never increases
	OnPass func(pass int, singles int)

	allocs    []*AllocationSite
	allocByID map[program.StmtID]*AllocationSite
	starts    []*CreationSite

	results
}

// results is everything Consolidate computes
type results struct {
	sites    []*CreationSite
	threads  []*Thread
	multi    intsets.Sparse
	byMethod map[*program.Method][]*Thread
}

// New returns a thread graph builder with no recorded facts
func New(env Env) *Graph {
	if env.Logger == nil {
		env.Logger = config.NewLogGroup(config.NewDefault())
	}
	if env.CFG == nil {
		env.CFG = cfg.New()
	}
	g := &Graph{env: env}
	g.Reset()
	return g
}

// Reset drops the recorded facts and the thread graph
func (g *Graph) Reset() {
	g.resolver = callgraph.NewResolver(g.env.Program, g.env.Threading)
	g.allocs = nil
	g.allocByID = map[program.StmtID]*AllocationSite{}
	g.starts = nil
	g.results = results{byMethod: map[*program.Method][]*Thread{}}
}

// Hookup registers the graph for the calls and the allocations
func (g *Graph) Hookup(ctrl *traversal.Controller) {
	ctrl.Register(program.InvokeKind, g)
	ctrl.Register(program.NewKind, g)
}

// Unhook removes the registrations of the graph
func (g *Graph) Unhook(ctrl *traversal.Controller) {
	ctrl.Unregister(program.InvokeKind, g)
	ctrl.Unregister(program.NewKind, g)
}

// DoInvoke records the thread starts
func (g *Graph) DoInvoke(v *program.InvokeExpr, ctx program.Context) {
	if g.resolver.IsThreadStart(v) {
		g.starts = append(g.starts, &CreationSite{Kind: StartSite, Method: ctx.Method, Stmt: ctx.Stmt, Expr: v})
	}
}

// DoNew records the allocations of thread objects
func (g *Graph) DoNew(v *program.NewExpr, ctx program.Context) {
	if g.resolver.IsThreadType(v.Typ) {
		a := &AllocationSite{Method: ctx.Method, Stmt: ctx.Stmt, Type: v.Typ}
		g.allocs = append(g.allocs, a)
		g.allocByID[ctx.Stmt.ID] = a
	}
}
