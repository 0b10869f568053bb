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

// ValueKind is the kind of a value, used to register the value operations of the analyses
type ValueKind int

const (
	// LocalKind is the kind of *Local
	LocalKind ValueKind = iota
	// ConstantKind is the kind of *Constant
	ConstantKind
	// InvokeKind is the kind of *InvokeExpr
	InvokeKind
	// NewKind is the kind of *NewExpr
	NewKind
	// NewArrayKind is the kind of *NewArrayExpr
	NewArrayKind
	// FieldRefKind is the kind of *FieldRef
	FieldRefKind
	// ArrayRefKind is the kind of *ArrayRef
	ArrayRefKind

	// NumValueKinds is the number of kinds of values
	NumValueKinds
)

func (k ValueKind) String() string {
	switch k {
	case LocalKind:
		return "local"
	case ConstantKind:
		return "constant"
	case InvokeKind:
		return "invoke"
	case NewKind:
		return "new"
	case NewArrayKind:
		return "newarray"
	case FieldRefKind:
		return "fieldref"
	case ArrayRefKind:
		return "arrayref"
	default:
		return "unknown"
	}
}

// Context is a program point: a statement in its method. The statement is nil for method-level queries.
type Context struct {
	Method *Method
	Stmt   *Stmt
}

func (c Context) String() string {
	if c.Stmt == nil {
		return fmt.Sprintf("[%s]", c.Method)
	}
	return fmt.Sprintf("[%s#%d]", c.Method, c.Stmt.Index)
}

// A Value is an operand or an expression of a statement
type Value interface {
	// Kind returns the kind of the value
	Kind() ValueKind

	// Type returns the static type of the value
	Type() *Type

	// Accept calls the method of op corresponding to the kind of the value
	Accept(op ValueOp, ctx Context)

	String() string
}

// A ValueOp must implement methods for ALL possible kinds of values
type ValueOp interface {
	DoLocal(v *Local, ctx Context)
	DoConstant(v *Constant, ctx Context)
	DoInvoke(v *InvokeExpr, ctx Context)
	DoNew(v *NewExpr, ctx Context)
	DoNewArray(v *NewArrayExpr, ctx Context)
	DoFieldRef(v *FieldRef, ctx Context)
	DoArrayRef(v *ArrayRef, ctx Context)
}

// NoopOp implements ValueOp with methods that do nothing
type NoopOp struct{}

// DoLocal does nothing
func (NoopOp) DoLocal(*Local, Context) {}

// DoConstant does nothing
func (NoopOp) DoConstant(*Constant, Context) {}

// DoInvoke does nothing
func (NoopOp) DoInvoke(*InvokeExpr, Context) {}

// DoNew does nothing
func (NoopOp) DoNew(*NewExpr, Context) {}

// DoNewArray does nothing
func (NoopOp) DoNewArray(*NewArrayExpr, Context) {}

// DoFieldRef does nothing
func (NoopOp) DoFieldRef(*FieldRef, Context) {}

// DoArrayRef does nothing
func (NoopOp) DoArrayRef(*ArrayRef, Context) {}

// Local is a local variable of a method
type Local struct {
	Name   string
	Typ    *Type
	Method *Method
	Index  int
}

// Kind returns LocalKind
func (v *Local) Kind() ValueKind { return LocalKind }

// Type returns the declared type of the local
func (v *Local) Type() *Type { return v.Typ }

// Accept calls op.DoLocal
func (v *Local) Accept(op ValueOp, ctx Context) { op.DoLocal(v, ctx) }

func (v *Local) String() string { return v.Name }

// Constant is a literal
type Constant struct {
	Repr string
	Typ  *Type
}

// Const returns the constant of type t written repr
func Const(t *Type, repr string) *Constant {
	return &Constant{Repr: repr, Typ: t}
}

// Kind returns ConstantKind
func (v *Constant) Kind() ValueKind { return ConstantKind }

// Type returns the type of the constant
func (v *Constant) Type() *Type { return v.Typ }

// Accept calls op.DoConstant
func (v *Constant) Accept(op ValueOp, ctx Context) { op.DoConstant(v, ctx) }

func (v *Constant) String() string { return v.Repr }

// CallKind is the kind of dispatch of a call
type CallKind int

const (
	// StaticCall calls a static method
	StaticCall CallKind = iota
	// SpecialCall calls a constructor, a private method or a superclass method without dispatch
	SpecialCall
	// VirtualCall dispatches on the dynamic type of the receiver
	VirtualCall
	// InterfaceCall dispatches a method of an interface on the dynamic type of the receiver
	InterfaceCall
)

func (k CallKind) String() string {
	switch k {
	case StaticCall:
		return "static"
	case SpecialCall:
		return "special"
	case VirtualCall:
		return "virtual"
	case InterfaceCall:
		return "interface"
	default:
		return "unknown"
	}
}

// InvokeExpr is a method call
type InvokeExpr struct {
	Call     CallKind
	Ref      MethodRef
	Receiver *Local // nil for static calls
	Args     []Value
}

// Kind returns InvokeKind
func (v *InvokeExpr) Kind() ValueKind { return InvokeKind }

// Type returns the return type of the called method
func (v *InvokeExpr) Type() *Type { return v.Ref.Return }

// Accept calls op.DoInvoke
func (v *InvokeExpr) Accept(op ValueOp, ctx Context) { op.DoInvoke(v, ctx) }

// IsDispatched returns true for virtual and interface calls
func (v *InvokeExpr) IsDispatched() bool {
	return v.Call == VirtualCall || v.Call == InterfaceCall
}

func (v *InvokeExpr) String() string {
	args := make([]string, len(v.Args))
	for i, arg := range v.Args {
		args[i] = arg.String()
	}
	recv := v.Ref.Class.Name
	if v.Receiver != nil {
		recv = v.Receiver.Name
	}
	return fmt.Sprintf("%s %s.%s(%s)", v.Call, recv, v.Ref.Name, strings.Join(args, ", "))
}

// NewExpr allocates an object
type NewExpr struct {
	Typ *Type
}

// Kind returns NewKind
func (v *NewExpr) Kind() ValueKind { return NewKind }

// Type returns the type of the allocated object
func (v *NewExpr) Type() *Type { return v.Typ }

// Accept calls op.DoNew
func (v *NewExpr) Accept(op ValueOp, ctx Context) { op.DoNew(v, ctx) }

func (v *NewExpr) String() string { return "new " + v.Typ.Name }

// NewArrayExpr allocates an array
type NewArrayExpr struct {
	Elem *Type
	Size Value
	typ  *Type
}

// Kind returns NewArrayKind
func (v *NewArrayExpr) Kind() ValueKind { return NewArrayKind }

// Type returns the type of the allocated array
func (v *NewArrayExpr) Type() *Type { return v.typ }

// Accept calls op.DoNewArray
func (v *NewArrayExpr) Accept(op ValueOp, ctx Context) { op.DoNewArray(v, ctx) }

func (v *NewArrayExpr) String() string {
	size := ""
	if v.Size != nil {
		size = v.Size.String()
	}
	return fmt.Sprintf("new %s[%s]", v.Elem.Name, size)
}

// FieldRef is an access to a field, on the object Base or static when Base is nil
type FieldRef struct {
	Base  *Local
	Field *Field
}

// Kind returns FieldRefKind
func (v *FieldRef) Kind() ValueKind { return FieldRefKind }

// Type returns the type of the field
func (v *FieldRef) Type() *Type { return v.Field.Type }

// Accept calls op.DoFieldRef
func (v *FieldRef) Accept(op ValueOp, ctx Context) { op.DoFieldRef(v, ctx) }

// IsStatic returns true for accesses to static fields
func (v *FieldRef) IsStatic() bool { return v.Base == nil }

func (v *FieldRef) String() string {
	if v.Base == nil {
		return v.Field.String()
	}
	return v.Base.Name + "." + v.Field.Name
}

// ArrayRef is an access to an element of the array Base
type ArrayRef struct {
	Base  *Local
	Index Value
}

// Kind returns ArrayRefKind
func (v *ArrayRef) Kind() ValueKind { return ArrayRefKind }

// Type returns the element type of the array
func (v *ArrayRef) Type() *Type { return v.Base.Typ.Elem }

// Accept calls op.DoArrayRef
func (v *ArrayRef) Accept(op ValueOp, ctx Context) { op.DoArrayRef(v, ctx) }

func (v *ArrayRef) String() string {
	return fmt.Sprintf("%s[%s]", v.Base.Name, v.Index)
}

// componentCollector lists values after their components
type componentCollector struct {
	values []Value
}

func (c *componentCollector) collect(v Value) {
	v.Accept(c, Context{})
}

func (c *componentCollector) DoLocal(v *Local, _ Context) {
	c.values = append(c.values, v)
}

func (c *componentCollector) DoConstant(v *Constant, _ Context) {
	c.values = append(c.values, v)
}

func (c *componentCollector) DoInvoke(v *InvokeExpr, _ Context) {
	if v.Receiver != nil {
		c.collect(v.Receiver)
	}
	for _, arg := range v.Args {
		c.collect(arg)
	}
	c.values = append(c.values, v)
}

func (c *componentCollector) DoNew(v *NewExpr, _ Context) {
	c.values = append(c.values, v)
}

func (c *componentCollector) DoNewArray(v *NewArrayExpr, _ Context) {
	if v.Size != nil {
		c.collect(v.Size)
	}
	c.values = append(c.values, v)
}

func (c *componentCollector) DoFieldRef(v *FieldRef, _ Context) {
	if v.Base != nil {
		c.collect(v.Base)
	}
	c.values = append(c.values, v)
}

func (c *componentCollector) DoArrayRef(v *ArrayRef, _ Context) {
	c.collect(v.Base)
	c.collect(v.Index)
	c.values = append(c.values, v)
}
