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

// Package ofa builds call graphs with an object flow analysis: a dispatched call may invoke the override of the
// called method in the type of every object the points-to oracle reports for the receiver.
//
// The builder does not compute points-to facts. An object is only considered once the method allocating it is
// reachable, so that the call graph is included in the one of the rapid type analysis for any oracle.
package ofa

import (
	"fmt"

	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph"
	"github.com/rvprasad/Indus-archive-sub007/analysis/pointsto"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
)

// Builder is the object flow analysis call graph builder
type Builder struct {
	*callgraph.Base
}

var _ callgraph.Builder = (*Builder)(nil)

// New returns a builder for the program, the roots, the oracle and the threading model of env
func New(env callgraph.Env) *Builder {
	return &Builder{Base: callgraph.NewBase(env)}
}

// Mode returns callgraph.OFA
func (b *Builder) Mode() callgraph.Mode {
	return callgraph.OFA
}

// pendingEdge is a call edge waiting for the method allocating the receiver to be reachable
type pendingEdge struct {
	caller *program.Method
	stmt   *program.Stmt
	callee *program.Method
}

// Consolidate computes the methods reachable from the roots and their call edges. It fails if the builder has no
// oracle.
func (b *Builder) Consolidate() error {
	if b.Env.Oracle == nil {
		return fmt.Errorf("%s call graph needs a points-to oracle", callgraph.OFA)
	}
	ci := callgraph.NewCallInfo(b.Env.Program)
	w := callgraph.NewWorklist(ci, b.Env.Roots)
	pending := map[*program.Method][]pendingEdge{}
	visited := map[*program.Method]bool{}
	for m, ok := w.Next(); ok; m, ok = w.Next() {
		b.Env.Logger.Tracef("ofa: visiting %s", m)
		visited[m] = true
		for _, e := range pending[m] {
			w.Edge(e.caller, e.stmt, e.callee)
		}
		delete(pending, m)
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
			if len(ds) == 0 {
				continue
			}
			objs := b.receivers(site)
			for _, d := range ds {
				for _, obj := range objs {
					if obj.Type != d.Type {
						continue
					}
					if visited[obj.Method] {
						w.Edge(m, site.Stmt, d.Method)
					} else {
						pending[obj.Method] = append(pending[obj.Method],
							pendingEdge{caller: m, stmt: site.Stmt, callee: d.Method})
					}
				}
			}
		}
	}
	return b.SetCallInfo(ci)
}

// receivers returns the objects the oracle reports for the receiver of the call at site
func (b *Builder) receivers(site callgraph.CallSite) []*pointsto.AllocSite {
	if site.Expr.Receiver == nil {
		return nil
	}
	return b.Env.Oracle.Values(site.Expr.Receiver, program.Context{Method: site.Method, Stmt: site.Stmt})
}
