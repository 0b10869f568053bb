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

// Package rta builds call graphs with the rapid type analysis: the class hierarchy analysis restricted to the
// receiver types that are instantiated by reachable methods.
package rta

import (
	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"golang.org/x/tools/container/intsets"
)

// Builder is the rapid type analysis call graph builder
type Builder struct {
	*callgraph.Base

	// OnStep, if not nil, is called after each method is visited with the number of visited methods, and the sizes
	// of the reachable and instantiated sets. Both sizes never decrease.
	OnStep func(iteration int, reachable int, instantiated int)

	// Instantiated are the types instantiated by the methods reachable in the last call graph
	Instantiated []*program.Type
}

var _ callgraph.Builder = (*Builder)(nil)

// New returns a builder for the program, the roots and the threading model of env
func New(env callgraph.Env) *Builder {
	return &Builder{Base: callgraph.NewBase(env)}
}

// Mode returns callgraph.RTA
func (b *Builder) Mode() callgraph.Mode {
	return callgraph.RTA
}

// Reset drops the recorded facts and the last result
func (b *Builder) Reset() {
	b.Base.Reset()
	b.Instantiated = nil
}

// pendingEdge is a call edge waiting for the instantiation of the type it dispatches on
type pendingEdge struct {
	caller *program.Method
	stmt   *program.Stmt
	callee *program.Method
}

// Consolidate computes the methods reachable from the roots and their call edges
func (b *Builder) Consolidate() error {
	ci := callgraph.NewCallInfo(b.Env.Program)
	w := callgraph.NewWorklist(ci, b.Env.Roots)
	var instantiated intsets.Sparse
	var order []*program.Type
	pending := map[program.TypeID][]pendingEdge{}
	iteration := 0
	for m, ok := w.Next(); ok; m, ok = w.Next() {
		iteration++
		b.Env.Logger.Tracef("rta: visiting %s", m)
		for _, clinit := range b.ClassInitializers(m) {
			w.Reach(clinit)
		}
		for _, site := range b.Sites[m] {
			direct, ds, err := b.Candidates(site)
			if err != nil {
				return err
			}
			if direct != nil {
				w.Edge(m, site.Stmt, direct)
			}
			for _, d := range ds {
				if instantiated.Has(int(d.Type.ID)) {
					w.Edge(m, site.Stmt, d.Method)
				} else {
					pending[d.Type.ID] = append(pending[d.Type.ID],
						pendingEdge{caller: m, stmt: site.Stmt, callee: d.Method})
				}
			}
		}
		for _, t := range b.Allocated[m] {
			if !instantiated.Insert(int(t.ID)) {
				continue
			}
			order = append(order, t)
			for _, e := range pending[t.ID] {
				w.Edge(e.caller, e.stmt, e.callee)
			}
			delete(pending, t.ID)
		}
		if b.OnStep != nil {
			b.OnStep(iteration, ci.NumReachable(), instantiated.Len())
		}
	}
	b.Env.Logger.Infof("rta: %d iterations, %d instantiated types", iteration, instantiated.Len())
	b.Instantiated = order
	return b.SetCallInfo(ci)
}
