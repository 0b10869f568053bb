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

// Package pointsto provides the interface of the points-to oracle the analyses consume, with two oracles that do not
// compute any fixed point: a table of facts and a type-based over-approximation.
package pointsto

import (
	"fmt"

	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/internal/funcutil"
	"golang.org/x/tools/container/intsets"
)

// SiteID identifies an allocation site among the Sites of a program
type SiteID int

// AllocSite is an abstract object: the allocation statement in its method, with the allocated type
type AllocSite struct {
	ID     SiteID
	Stmt   *program.Stmt
	Method *program.Method
	Type   *program.Type
}

func (a *AllocSite) String() string {
	return fmt.Sprintf("new %s@%s#%d", a.Type, a.Method, a.Stmt.Index)
}

// Oracle answers points-to queries: the abstract objects a value may denote at a program point
type Oracle interface {
	// Values returns the allocation sites v may denote in ctx
	Values(v program.Value, ctx program.Context) []*AllocSite

	// ValuesForThis returns the allocation sites the receiver of ctx.Method may denote
	ValuesForThis(ctx program.Context) []*AllocSite
}

// Sites indexes all the allocation sites of a program
type Sites struct {
	sites  []*AllocSite
	byStmt map[*program.Stmt]*AllocSite
}

// allocFinder records the type allocated by a statement
type allocFinder struct {
	program.NoopOp
	typ *program.Type
}

func (f *allocFinder) DoNew(v *program.NewExpr, _ program.Context) { f.typ = v.Type() }

func (f *allocFinder) DoNewArray(v *program.NewArrayExpr, _ program.Context) { f.typ = v.Type() }

// CollectSites returns the allocation sites of p, ordered as the statements of p
func CollectSites(p *program.Program) *Sites {
	s := &Sites{byStmt: map[*program.Stmt]*AllocSite{}}
	for _, stmt := range p.Stmts() {
		if stmt.Kind != program.AssignStmt {
			continue
		}
		f := &allocFinder{}
		stmt.RHS.Accept(f, program.Context{Method: stmt.Method, Stmt: stmt})
		if f.typ == nil {
			continue
		}
		site := &AllocSite{ID: SiteID(len(s.sites)), Stmt: stmt, Method: stmt.Method, Type: f.typ}
		s.sites = append(s.sites, site)
		s.byStmt[stmt] = site
	}
	return s
}

// All returns all the allocation sites, ordered by identifier
func (s *Sites) All() []*AllocSite { return s.sites }

// Len returns the number of allocation sites
func (s *Sites) Len() int { return len(s.sites) }

// Site returns the allocation site with identifier id
func (s *Sites) Site(id SiteID) *AllocSite { return s.sites[id] }

// ByStmt returns the allocation site of the statement, or nil if the statement does not allocate
func (s *Sites) ByStmt(stmt *program.Stmt) *AllocSite { return s.byStmt[stmt] }

// Set returns the identifiers of the sites as a sparse set
func Set(sites []*AllocSite) *intsets.Sparse {
	return funcutil.SparseOf(sites, func(a *AllocSite) int { return int(a.ID) })
}

// Intersects returns true if a and b have an allocation site in common
func Intersects(a, b []*AllocSite) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return Set(a).Intersects(Set(b))
}

// valueTarget finds what a value queried for its points-to set is: a local, or an allocation
type valueTarget struct {
	program.NoopOp
	local *program.Local
	alloc bool
}

func (t *valueTarget) DoLocal(v *program.Local, _ program.Context) { t.local = v }

func (t *valueTarget) DoNew(*program.NewExpr, program.Context) { t.alloc = true }

func (t *valueTarget) DoNewArray(*program.NewArrayExpr, program.Context) { t.alloc = true }

func targetOf(v program.Value, ctx program.Context) *valueTarget {
	t := &valueTarget{}
	v.Accept(t, ctx)
	return t
}
