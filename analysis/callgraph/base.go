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

package callgraph

import (
	"errors"
	"fmt"

	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
	"github.com/rvprasad/Indus-archive-sub007/analysis/pointsto"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/analysis/traversal"
	"github.com/rvprasad/Indus-archive-sub007/internal/funcutil"
)

// ErrMissingDispatch is returned when a thread type has no run entry to dispatch to. The type hierarchy of the
// program is then inconsistent with the threading model of the configuration.
var ErrMissingDispatch = errors.New("missing dispatch target")

// Env is what a builder needs besides the facts it records: the program, the roots, and the threading model.
// Oracle is only used by the OFA builder.
type Env struct {
	Program   *program.Program
	Oracle    pointsto.Oracle
	Roots     []*program.Method
	Threading config.ThreadingSpec
	Logger    *config.LogGroup
}

// A CallSite is a call in a method
type CallSite struct {
	Method *program.Method
	Stmt   *program.Stmt
	Expr   *program.InvokeExpr
}

func (s CallSite) context() program.Context {
	return program.Context{Method: s.Method, Stmt: s.Stmt}
}

// Base records the facts all the builders use and implements the parts of the Builder interface that do not depend
// on the strategy. Builders embed it.
type Base struct {
	program.NoopOp
	Env      Env
	Resolver *Resolver

	// Sites are the calls of each method, in the order of the statements
	Sites map[*program.Method][]CallSite

	// Allocated are the types instantiated by each method
	Allocated map[*program.Method][]*program.Type

	// Referenced are the types whose class initializers must have run before each method can run
	Referenced map[*program.Method][]*program.Type

	callInfo *CallInfo
}

// NewBase returns a base with no recorded facts
func NewBase(env Env) *Base {
	if env.Logger == nil {
		env.Logger = config.NewLogGroup(config.NewDefault())
	}
	b := &Base{Env: env}
	b.Reset()
	return b
}

// Reset drops the recorded facts and the last result
func (b *Base) Reset() {
	b.Sites = map[*program.Method][]CallSite{}
	b.Allocated = map[*program.Method][]*program.Type{}
	b.Referenced = map[*program.Method][]*program.Type{}
	b.Resolver = NewResolver(b.Env.Program, b.Env.Threading)
	b.callInfo = nil
}

// Hookup registers the base for the calls, allocations and static field accesses
func (b *Base) Hookup(ctrl *traversal.Controller) {
	ctrl.Register(program.InvokeKind, b)
	ctrl.Register(program.NewKind, b)
	ctrl.Register(program.NewArrayKind, b)
	ctrl.Register(program.FieldRefKind, b)
}

// Unhook removes the registrations of the base
func (b *Base) Unhook(ctrl *traversal.Controller) {
	ctrl.Unregister(program.InvokeKind, b)
	ctrl.Unregister(program.NewKind, b)
	ctrl.Unregister(program.NewArrayKind, b)
	ctrl.Unregister(program.FieldRefKind, b)
}

// DoInvoke records the call site. Static calls reference the class of the called method.
func (b *Base) DoInvoke(v *program.InvokeExpr, ctx program.Context) {
	b.Sites[ctx.Method] = append(b.Sites[ctx.Method], CallSite{Method: ctx.Method, Stmt: ctx.Stmt, Expr: v})
	if v.Call == program.StaticCall {
		b.Referenced[ctx.Method] = append(b.Referenced[ctx.Method], v.Ref.Class)
	}
}

// DoNew records the instantiated type
func (b *Base) DoNew(v *program.NewExpr, ctx program.Context) {
	b.Allocated[ctx.Method] = append(b.Allocated[ctx.Method], v.Typ)
	b.Referenced[ctx.Method] = append(b.Referenced[ctx.Method], v.Typ)
}

// DoNewArray records the instantiated array type
func (b *Base) DoNewArray(v *program.NewArrayExpr, ctx program.Context) {
	b.Allocated[ctx.Method] = append(b.Allocated[ctx.Method], v.Type())
}

// DoFieldRef records the class of accessed static fields
func (b *Base) DoFieldRef(v *program.FieldRef, ctx program.Context) {
	if v.IsStatic() {
		b.Referenced[ctx.Method] = append(b.Referenced[ctx.Method], v.Field.Owner)
	}
}

// CallInfo returns the result of the last call to Consolidate, nil if there is none
func (b *Base) CallInfo() *CallInfo {
	return b.callInfo
}

// SetCallInfo seals and validates ci, and makes it the result of the builder
func (b *Base) SetCallInfo(ci *CallInfo) error {
	ci.Seal()
	if err := ci.Validate(); err != nil {
		return err
	}
	b.callInfo = ci
	b.Env.Logger.Infof("call graph: %d reachable methods, %d edges", ci.NumReachable(), ci.NumEdges())
	return nil
}

// ClassInitializers returns the class initializers that must run before m: those of the types m references and of
// their superclasses. The declaring class of static methods is referenced.
func (b *Base) ClassInitializers(m *program.Method) []*program.Method {
	var res []*program.Method
	referenced := b.Referenced[m]
	if m.IsStatic() {
		referenced = append([]*program.Type{m.Owner}, referenced...)
	}
	for _, t := range referenced {
		for cur := t; cur != nil; cur = cur.Super {
			if clinit := cur.DeclaredMethod(ClassInitializerSubSignature); clinit != nil {
				res = append(res, clinit)
			}
		}
	}
	return funcutil.Dedup(res)
}

// ClassInitializerSubSignature is the sub-signature of class initializers
const ClassInitializerSubSignature = program.ClassInitializerName + "()void"

// Worklist is the set of methods that have been found reachable and the queue of those that have not been visited.
type Worklist struct {
	ci    *CallInfo
	queue []*program.Method
}

// NewWorklist returns a work-list over ci, with the roots enqueued
func NewWorklist(ci *CallInfo, roots []*program.Method) *Worklist {
	w := &Worklist{ci: ci}
	for _, r := range roots {
		w.Reach(r)
	}
	return w
}

// Reach marks m as reachable, and enqueues it if it was not
func (w *Worklist) Reach(m *program.Method) {
	if w.ci.AddReachable(m) {
		w.queue = append(w.queue, m)
	}
}

// Edge adds the edge and enqueues the callee if it was not reachable
func (w *Worklist) Edge(caller *program.Method, stmt *program.Stmt, callee *program.Method) {
	w.Reach(callee)
	w.ci.AddEdge(caller, stmt, callee)
}

// Next pops the next method to visit. It returns false when the work-list is empty.
func (w *Worklist) Next() (*program.Method, bool) {
	if len(w.queue) == 0 {
		return nil, false
	}
	m := w.queue[0]
	w.queue = w.queue[1:]
	return m, true
}

// Direct returns the callee of a call that is not dispatched, nil if the method has no implementation
func (b *Base) Direct(site CallSite) (*program.Method, error) {
	m, err := b.Resolver.Declared(site.Expr.Ref)
	if err != nil {
		return nil, fmt.Errorf("call %s in %s: %w", site.Expr, site.Method, err)
	}
	return m, nil
}

// Candidates returns what a call may invoke regardless of the receiver types that are allocated. direct is the callee
// of a call that is not dispatched, nil otherwise. ds are the dispatches of a dispatched call and, for thread starts,
// the run entries the call implicitly calls.
func (b *Base) Candidates(site CallSite) (direct *program.Method, ds []Dispatch, err error) {
	expr := site.Expr
	isDirect, err := b.Resolver.IsDirect(expr)
	if err != nil {
		return nil, nil, fmt.Errorf("call %s in %s: %w", expr, site.Method, err)
	}
	if isDirect {
		if direct, err = b.Direct(site); err != nil {
			return nil, nil, err
		}
	} else if ds, err = b.Resolver.Dispatches(expr.Ref); err != nil {
		return nil, nil, fmt.Errorf("call %s in %s: %w", expr, site.Method, err)
	}
	if b.Resolver.IsThreadStart(expr) {
		starts, err := b.Resolver.StartDispatches(expr.Ref)
		if err != nil {
			return nil, nil, fmt.Errorf("thread start %s in %s: %w", expr, site.Method, err)
		}
		ds = append(append([]Dispatch{}, ds...), starts...)
	}
	b.Env.Logger.Debugf("%s#%d: direct %v, %d dispatches", site.Method, site.Stmt.Index, direct, len(ds))
	return direct, ds, nil
}
