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

package program

import (
	"fmt"
	"strings"
)

// Flags are the modifiers of a method
type Flags uint8

const (
	// Static methods have no receiver
	Static Flags = 1 << iota
	// Abstract methods have no body
	Abstract
	// Private methods are never dispatched virtually
	Private
)

const (
	// ConstructorName is the name of constructors
	ConstructorName = "<init>"
	// ClassInitializerName is the name of class initializers
	ClassInitializerName = "<clinit>"
)

// Method is a method declared by a type, with its locals and its statements
type Method struct {
	ID     MethodID
	Name   string
	Owner  *Type
	Params []*Type
	Return *Type
	Flags  Flags

	this         *Local
	params       []*Local
	locals       []*Local
	localsByName map[string]*Local
	stmts        []*Stmt
	labels       map[string]*Stmt
	prog         *Program
}

func subSignature(name string, params []*Type, ret *Type) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Name)
	}
	b.WriteByte(')')
	b.WriteString(ret.Name)
	return b.String()
}

// SubSignature returns the name, parameter types and return type of m, e.g. "run()void"
func (m *Method) SubSignature() string {
	return subSignature(m.Name, m.Params, m.Return)
}

// Signature returns the unique signature of m, e.g. "app.Worker.run()void"
func (m *Method) Signature() string {
	return m.Owner.Name + "." + m.SubSignature()
}

func (m *Method) String() string {
	return m.Signature()
}

// IsStatic returns true if m has no receiver
func (m *Method) IsStatic() bool { return m.Flags&Static != 0 }

// IsAbstract returns true if m has no body
func (m *Method) IsAbstract() bool { return m.Flags&Abstract != 0 || m.Owner.Kind == InterfaceType }

// IsPrivate returns true if m is private
func (m *Method) IsPrivate() bool { return m.Flags&Private != 0 }

// IsConstructor returns true if m is a constructor
func (m *Method) IsConstructor() bool { return m.Name == ConstructorName }

// IsClassInitializer returns true if m is a class initializer
func (m *Method) IsClassInitializer() bool { return m.Name == ClassInitializerName }

// HasBody returns true if m is concrete and has at least one statement
func (m *Method) HasBody() bool { return !m.IsAbstract() && len(m.stmts) > 0 }

// Program returns the program m belongs to
func (m *Method) Program() *Program { return m.prog }

// Stmts returns the statements of m in order
func (m *Method) Stmts() []*Stmt { return m.stmts }

// Locals returns the locals of m in declaration order, starting with this and the parameters
func (m *Method) Locals() []*Local { return m.locals }

// This returns the receiver of m, nil if m is static
func (m *Method) This() *Local { return m.this }

// Param returns the local bound to the i-th parameter
func (m *Method) Param(i int) *Local { return m.params[i] }

// Local returns the local named name, or nil
func (m *Method) Local(name string) *Local { return m.localsByName[name] }

// StmtByLabel returns the statement labelled l, or nil
func (m *Method) StmtByLabel(l string) *Stmt { return m.labels[l] }

// Ref returns the reference used to call m
func (m *Method) Ref() MethodRef {
	return MethodRef{Class: m.Owner, Name: m.Name, Params: m.Params, Return: m.Return}
}

// NewLocal declares a new local of m. NewLocal panics if m already has a local named name.
func (m *Method) NewLocal(name string, t *Type) *Local {
	if _, ok := m.localsByName[name]; ok {
		panic(fmt.Sprintf("%s already has a local %s", m, name))
	}
	l := &Local{Name: name, Typ: t, Method: m, Index: len(m.locals)}
	m.locals = append(m.locals, l)
	m.localsByName[name] = l
	return l
}

func (m *Method) add(s *Stmt) *Stmt {
	s.Method = m
	s.Index = len(m.stmts)
	m.stmts = append(m.stmts, s)
	m.prog.addStmt(s)
	return s
}

func (m *Method) assign(dst Value, src Value) *Stmt {
	return m.add(&Stmt{Kind: AssignStmt, LHS: dst, RHS: src})
}

// New appends "dst = new t" to m
func (m *Method) New(dst *Local, t *Type) *Stmt {
	return m.assign(dst, &NewExpr{Typ: t})
}

// NewArray appends "dst = new elem[size]" to m
func (m *Method) NewArray(dst *Local, elem *Type, size Value) *Stmt {
	return m.assign(dst, &NewArrayExpr{Elem: elem, Size: size, typ: m.prog.ArrayOf(elem)})
}

// Copy appends "dst = src" to m
func (m *Method) Copy(dst *Local, src Value) *Stmt {
	return m.assign(dst, src)
}

// Invoke appends a call whose result is discarded to m. recv is nil for static calls.
func (m *Method) Invoke(call CallKind, ref MethodRef, recv *Local, args ...Value) *Stmt {
	return m.add(&Stmt{Kind: InvokeStmt, RHS: &InvokeExpr{Call: call, Ref: ref, Receiver: recv, Args: args}})
}

// InvokeAssign appends "dst = call" to m
func (m *Method) InvokeAssign(dst *Local, call CallKind, ref MethodRef, recv *Local, args ...Value) *Stmt {
	return m.assign(dst, &InvokeExpr{Call: call, Ref: ref, Receiver: recv, Args: args})
}

// Load appends "dst = base.f" to m; base is nil for static fields
func (m *Method) Load(dst *Local, base *Local, f *Field) *Stmt {
	return m.assign(dst, &FieldRef{Base: base, Field: f})
}

// Store appends "base.f = src" to m; base is nil for static fields
func (m *Method) Store(base *Local, f *Field, src Value) *Stmt {
	return m.assign(&FieldRef{Base: base, Field: f}, src)
}

// ArrayLoad appends "dst = base[index]" to m
func (m *Method) ArrayLoad(dst *Local, base *Local, index Value) *Stmt {
	return m.assign(dst, &ArrayRef{Base: base, Index: index})
}

// ArrayStore appends "base[index] = src" to m
func (m *Method) ArrayStore(base *Local, index Value, src Value) *Stmt {
	return m.assign(&ArrayRef{Base: base, Index: index}, src)
}

// Goto appends a jump to target to m. The target may be nil and set later with SetTarget.
func (m *Method) Goto(target *Stmt) *Stmt {
	s := m.add(&Stmt{Kind: GotoStmt})
	s.SetTarget(target)
	return s
}

// If appends a conditional jump to target to m. The target may be nil and set later with SetTarget.
func (m *Method) If(cond Value, target *Stmt) *Stmt {
	s := m.add(&Stmt{Kind: IfStmt, RHS: cond})
	s.SetTarget(target)
	return s
}

// AddReturn appends a return to m; v is nil when nothing is returned
func (m *Method) AddReturn(v Value) *Stmt {
	return m.add(&Stmt{Kind: ReturnStmt, RHS: v})
}

// Nop appends a statement that does nothing to m
func (m *Method) Nop() *Stmt {
	return m.add(&Stmt{Kind: NopStmt})
}

// MethodRef is the reference to a method in a call: the static type the method is looked up in, with its name,
// parameter types and return type. The method may be declared by a supertype of Class.
type MethodRef struct {
	Class  *Type
	Name   string
	Params []*Type
	Return *Type
}

// SubSignature returns the sub-signature of the methods the reference may resolve to
func (r MethodRef) SubSignature() string {
	return subSignature(r.Name, r.Params, r.Return)
}

func (r MethodRef) String() string {
	return r.Class.Name + "." + r.SubSignature()
}
