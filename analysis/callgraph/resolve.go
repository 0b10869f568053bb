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
	"fmt"

	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/internal/funcutil"
)

// A Dispatch is the method a call resolves to when the receiver has dynamic type Type
type Dispatch struct {
	Type   *program.Type
	Method *program.Method
}

type refKey struct {
	class  program.TypeID
	subsig string
}

// Resolver resolves method references against the type hierarchy. Resolutions are memoized per static type and
// sub-signature.
type Resolver struct {
	prog      *program.Program
	threading config.ThreadingSpec
	declared  map[refKey]*program.Method
	dispatch  map[refKey][]Dispatch
	starts    map[refKey][]Dispatch
}

// NewResolver returns a resolver with empty caches
func NewResolver(prog *program.Program, threading config.ThreadingSpec) *Resolver {
	return &Resolver{
		prog:      prog,
		threading: threading,
		declared:  map[refKey]*program.Method{},
		dispatch:  map[refKey][]Dispatch{},
		starts:    map[refKey][]Dispatch{},
	}
}

func keyOf(ref program.MethodRef) refKey {
	return refKey{class: ref.Class.ID, subsig: ref.SubSignature()}
}

// Declared returns the method a reference names: the method declared by the nearest declaring class
func (r *Resolver) Declared(ref program.MethodRef) (*program.Method, error) {
	key := keyOf(ref)
	if m, ok := r.declared[key]; ok {
		return m, nil
	}
	decl, err := r.prog.DeclaringClass(ref.Class, ref.Name, ref.Params, ref.Return)
	if err != nil {
		return nil, err
	}
	m := decl.DeclaredMethod(key.subsig)
	r.declared[key] = m
	return m, nil
}

// IsDirect returns true if the call has a single callee that does not depend on the receiver: static calls, special
// calls, and calls of private methods and constructors.
func (r *Resolver) IsDirect(expr *program.InvokeExpr) (bool, error) {
	if !expr.IsDispatched() {
		return true, nil
	}
	m, err := r.Declared(expr.Ref)
	if err != nil {
		return false, err
	}
	return m.IsPrivate() || m.IsConstructor(), nil
}

// IsThreadType returns true if t descends from the thread class
func (r *Resolver) IsThreadType(t *program.Type) bool {
	return r.prog.IsDescendantOf(t, r.threading.ThreadClass)
}

// IsThreadStart returns true if the call starts a thread
func (r *Resolver) IsThreadStart(expr *program.InvokeExpr) bool {
	return expr.Receiver != nil && expr.Ref.SubSignature() == r.threading.StartMethod && r.IsThreadType(expr.Ref.Class)
}

// RunEntry returns the run entry of threads of type t
func (r *Resolver) RunEntry(t *program.Type) (*program.Method, error) {
	m := t.Dispatch(r.threading.RunMethod)
	if m == nil {
		return nil, fmt.Errorf("thread type %s has no %s: %w", t, r.threading.RunMethod, ErrMissingDispatch)
	}
	return m, nil
}

// DispatchOn returns the method called on a receiver of dynamic type t. Thread types that do not implement the method
// are an error wrapping ErrMissingDispatch; other types are skipped with a nil result.
func (r *Resolver) DispatchOn(t *program.Type, ref program.MethodRef) (*program.Method, error) {
	m := t.Dispatch(ref.SubSignature())
	if m == nil && r.IsThreadType(ref.Class) {
		return nil, fmt.Errorf("thread type %s has no %s: %w", t, ref.SubSignature(), ErrMissingDispatch)
	}
	return m, nil
}

// candidates returns the concrete types a receiver of static type t may have. Interfaces and abstract classes are
// never the dynamic type of an object.
func (r *Resolver) candidates(t *program.Type) []*program.Type {
	res := funcutil.Filter(r.prog.ProperSubtypesOf(t), (*program.Type).IsConcrete)
	if t.IsConcrete() {
		res = append([]*program.Type{t}, res...)
	}
	return res
}

// Dispatches returns, for every concrete type a receiver of static type ref.Class may have, the method a call of ref
// dispatches to.
func (r *Resolver) Dispatches(ref program.MethodRef) ([]Dispatch, error) {
	key := keyOf(ref)
	if ds, ok := r.dispatch[key]; ok {
		return ds, nil
	}
	if _, err := r.Declared(ref); err != nil {
		return nil, err
	}
	var ds []Dispatch
	for _, t := range r.candidates(ref.Class) {
		m, err := r.DispatchOn(t, ref)
		if err != nil {
			return nil, err
		}
		if m != nil {
			ds = append(ds, Dispatch{Type: t, Method: m})
		}
	}
	r.dispatch[key] = ds
	return ds, nil
}

// StartDispatches returns, for every concrete thread type a receiver of static type ref.Class may have, the run
// entry the start call ref implicitly calls.
func (r *Resolver) StartDispatches(ref program.MethodRef) ([]Dispatch, error) {
	key := keyOf(ref)
	if ds, ok := r.starts[key]; ok {
		return ds, nil
	}
	var ds []Dispatch
	for _, t := range r.candidates(ref.Class) {
		m, err := r.RunEntry(t)
		if err != nil {
			return nil, err
		}
		ds = append(ds, Dispatch{Type: t, Method: m})
	}
	r.starts[key] = ds
	return ds, nil
}

// Methods returns the methods of the dispatches, without duplicates, ordered by identifier
func Methods(ds []Dispatch) []*program.Method {
	ms := funcutil.Dedup(funcutil.Map(ds, func(d Dispatch) *program.Method { return d.Method }))
	funcutil.SortByID(ms, methodID)
	return ms
}
