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

// Package defuse relates the writes of fields and array elements to the reads that may observe them.
//
// A write (a def) and a read (a use) are related when they access the same field, or arrays of the same element
// type, on objects that may alias, and the def may execute before the use. Array accesses are not distinguished by
// index.
package defuse

import (
	"fmt"

	"github.com/rvprasad/Indus-archive-sub007/analysis/cfg"
	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
	"github.com/rvprasad/Indus-archive-sub007/analysis/pointsto"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/analysis/threads"
	"github.com/rvprasad/Indus-archive-sub007/analysis/traversal"
	"golang.org/x/exp/slices"
)

// Strategy decides whether a def and a use in different methods are reaching
type Strategy int

const (
	// Conservative relates every def to every aliased use in another method
	Conservative Strategy = iota
	// ThreadAware does not relate a def and a use executed by different threads, each started once
	ThreadAware
)

func (s Strategy) String() string {
	switch s {
	case Conservative:
		return config.DefUseConservative
	case ThreadAware:
		return config.DefUseThreadAware
	default:
		return "unknown"
	}
}

// ParseStrategy returns the strategy named s in a configuration
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case config.DefUseConservative:
		return Conservative, nil
	case config.DefUseThreadAware:
		return ThreadAware, nil
	default:
		return 0, fmt.Errorf("def-use strategy %q: %w", s, config.ErrUnknownMode)
	}
}

// Env is what the analyzer needs from the other analyses. Threads is only used by the ThreadAware strategy.
type Env struct {
	Oracle   pointsto.Oracle
	CFG      *cfg.Reachability
	Threads  *threads.Graph
	Strategy Strategy
	Logger   *config.LogGroup
}

// key is what an access reads or writes: a field, or the elements of the arrays of a type
type key struct {
	field *program.Field
	elem  *program.Type
}

// An access is a def or a use. base is nil for static fields.
type access struct {
	stmt *program.Stmt
	base *program.Local
}

func (a access) context() program.Context {
	return program.Context{Method: a.stmt.Method, Stmt: a.stmt}
}

// A Pair is a def and a use it may reach
type Pair struct {
	Def *program.Stmt
	Use *program.Stmt
}

func (p Pair) String() string {
	return fmt.Sprintf("%s -> %s", p.Def, p.Use)
}

// Analyzer is the aliased def-use analyzer. It records the accesses during the traversal and relates them in
// Consolidate. Queries are safe for concurrent use after Consolidate.
type Analyzer struct {
	env Env

	defs  map[key][]access
	uses  map[key][]access
	order []key

	use2defs map[*program.Stmt][]*program.Stmt
	def2uses map[*program.Stmt][]*program.Stmt
	pairs    []Pair
}

// New returns an analyzer with no recorded access
func New(env Env) *Analyzer {
	if env.Logger == nil {
		env.Logger = config.NewLogGroup(config.NewDefault())
	}
	if env.CFG == nil {
		env.CFG = cfg.New()
	}
	a := &Analyzer{env: env}
	a.Reset()
	return a
}

// Reset drops the recorded accesses and the def-use relation
func (a *Analyzer) Reset() {
	a.defs = map[key][]access{}
	a.uses = map[key][]access{}
	a.order = nil
	a.use2defs = map[*program.Stmt][]*program.Stmt{}
	a.def2uses = map[*program.Stmt][]*program.Stmt{}
	a.pairs = nil
}

// Hookup registers the analyzer for the assignments
func (a *Analyzer) Hookup(ctrl *traversal.Controller) {
	ctrl.RegisterStmt(program.AssignStmt, a)
}

// Unhook removes the registration of the analyzer
func (a *Analyzer) Unhook(ctrl *traversal.Controller) {
	ctrl.UnregisterStmt(program.AssignStmt, a)
}

// accessFinder finds the field or array element a value accesses
type accessFinder struct {
	program.NoopOp
	key  *key
	base *program.Local
}

func (f *accessFinder) DoFieldRef(v *program.FieldRef, _ program.Context) {
	f.key = &key{field: v.Field}
	f.base = v.Base
}

func (f *accessFinder) DoArrayRef(v *program.ArrayRef, _ program.Context) {
	f.key = &key{elem: v.Type()}
	f.base = v.Base
}

// ProcessStmt records the assignment as a def if it writes a field or an array element, and as a use if it reads one
func (a *Analyzer) ProcessStmt(s *program.Stmt, ctx program.Context) {
	if f := findAccess(s.LHS, ctx); f.key != nil {
		a.record(a.defs, *f.key, access{stmt: s, base: f.base})
	}
	if f := findAccess(s.RHS, ctx); f.key != nil {
		a.record(a.uses, *f.key, access{stmt: s, base: f.base})
	}
}

func findAccess(v program.Value, ctx program.Context) *accessFinder {
	f := &accessFinder{}
	if v != nil {
		v.Accept(f, ctx)
	}
	return f
}

func (a *Analyzer) record(bucket map[key][]access, k key, acc access) {
	if _, ok := a.defs[k]; !ok {
		if _, ok := a.uses[k]; !ok {
			a.order = append(a.order, k)
		}
	}
	bucket[k] = append(bucket[k], acc)
}

// Consolidate relates every recorded def to the recorded uses of the same key it may reach
func (a *Analyzer) Consolidate() error {
	if a.env.Strategy == ThreadAware && a.env.Threads == nil {
		return fmt.Errorf("%s def-use strategy needs a thread graph", ThreadAware)
	}
	a.use2defs = map[*program.Stmt][]*program.Stmt{}
	a.def2uses = map[*program.Stmt][]*program.Stmt{}
	a.pairs = nil
	for _, k := range a.order {
		for _, def := range a.defs[k] {
			for _, use := range a.uses[k] {
				if a.aliased(def, use) && a.reaching(def, use) {
					a.add(def.stmt, use.stmt)
				}
			}
		}
	}
	slices.SortFunc(a.pairs, func(p, q Pair) bool {
		if p.Def.ID != q.Def.ID {
			return p.Def.ID < q.Def.ID
		}
		return p.Use.ID < q.Use.ID
	})
	a.env.Logger.Infof("def-use: %d pairs over %d keys", len(a.pairs), len(a.order))
	return nil
}

func (a *Analyzer) add(def, use *program.Stmt) {
	for _, d := range a.use2defs[use] {
		if d == def {
			return
		}
	}
	a.use2defs[use] = append(a.use2defs[use], def)
	a.def2uses[def] = append(a.def2uses[def], use)
	a.pairs = append(a.pairs, Pair{Def: def, Use: use})
}

// aliased returns true if the def and the use may access the same object. Static fields always alias.
func (a *Analyzer) aliased(def, use access) bool {
	if def.base == nil || use.base == nil {
		return def.base == nil && use.base == nil
	}
	return pointsto.Intersects(a.env.Oracle.Values(def.base, def.context()),
		a.env.Oracle.Values(use.base, use.context()))
}

// reaching returns true if the def may execute before the use
func (a *Analyzer) reaching(def, use access) bool {
	m1, m2 := def.stmt.Method, use.stmt.Method
	if m1 == m2 {
		return a.env.CFG.PathExists(def.stmt, use.stmt)
	}
	if m1.IsClassInitializer() || m2.IsClassInitializer() {
		return true
	}
	if a.env.Strategy == Conservative {
		return true
	}
	g := a.env.Threads
	disjoint := g.IsSingleThreaded(m1) && g.IsSingleThreaded(m2) && g.MustOccurInDifferentThread(m1, m2)
	if disjoint {
		a.env.Logger.Debugf("def-use: %s and %s run in different threads", def.stmt, use.stmt)
	}
	return !disjoint
}

// DefsOf returns the defs that may reach the use stmt in m, ordered as they were related
func (a *Analyzer) DefsOf(stmt *program.Stmt, m *program.Method) []*program.Stmt {
	if stmt == nil || stmt.Method != m {
		return nil
	}
	return a.use2defs[stmt]
}

// UsesOf returns the uses the def stmt in m may reach
func (a *Analyzer) UsesOf(stmt *program.Stmt, m *program.Method) []*program.Stmt {
	if stmt == nil || stmt.Method != m {
		return nil
	}
	return a.def2uses[stmt]
}

// Pairs returns all the def-use pairs, ordered by def then use
func (a *Analyzer) Pairs() []Pair {
	return a.pairs
}
