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

// Package cha builds call graphs with the class hierarchy analysis: a dispatched call may invoke the override of the
// called method in every concrete type under the static type of the receiver.
package cha

import (
	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph"
)

// Builder is the class hierarchy analysis call graph builder
type Builder struct {
	*callgraph.Base
}

var _ callgraph.Builder = (*Builder)(nil)

// New returns a builder for the program, the roots and the threading model of env
func New(env callgraph.Env) *Builder {
	return &Builder{Base: callgraph.NewBase(env)}
}

// Mode returns callgraph.CHA
func (b *Builder) Mode() callgraph.Mode {
	return callgraph.CHA
}

// Consolidate computes the methods reachable from the roots and their call edges
func (b *Builder) Consolidate() error {
	ci := callgraph.NewCallInfo(b.Env.Program)
	w := callgraph.NewWorklist(ci, b.Env.Roots)
	for m, ok := w.Next(); ok; m, ok = w.Next() {
		b.Env.Logger.Tracef("cha: visiting %s", m)
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
			for _, callee := range callgraph.Methods(ds) {
				w.Edge(m, site.Stmt, callee)
			}
		}
	}
	return b.SetCallInfo(ci)
}
