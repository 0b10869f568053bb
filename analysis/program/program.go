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
	"errors"
	"fmt"
	"strings"

	"github.com/rvprasad/Indus-archive-sub007/internal/funcutil"
)

// ErrUndeclared is returned when no type in the hierarchy declares the method looked up
var ErrUndeclared = errors.New("undeclared method")

// TypeID identifies a type in its program
type TypeID int

// FieldID identifies a field in its program
type FieldID int

// MethodID identifies a method in its program
type MethodID int

// StmtID identifies a statement in its program
type StmtID int

// Hierarchy answers the type hierarchy queries of the analyses
type Hierarchy interface {
	// ProperSubtypesOf returns the transitive subtypes of t, without t, ordered by identifier
	ProperSubtypesOf(t *Type) []*Type

	// IsDescendantOf returns true if t or one of its transitive supertypes is named name
	IsDescendantOf(t *Type, name string) bool

	// DeclaringClass returns the nearest type, t or one of its supertypes, that declares the method with the name,
	// parameters and return type provided. It returns an error wrapping ErrUndeclared if there is none.
	DeclaringClass(t *Type, name string, params []*Type, ret *Type) (*Type, error)
}

// Program is the arena of all the types, fields, methods and statements of an analyzed program
type Program struct {
	types        []*Type
	typesByName  map[string]*Type
	fields       []*Field
	methods      []*Method
	methodsBySig map[string]*Method
	stmts        []*Stmt
	void         *Type
}

// NewProgram returns an empty program. The void type is always declared.
func NewProgram() *Program {
	p := &Program{
		typesByName:  map[string]*Type{},
		methodsBySig: map[string]*Method{},
	}
	p.void = p.Primitive("void")
	return p
}

func (p *Program) newType(name string, kind TypeKind) *Type {
	t := &Type{
		ID:              TypeID(len(p.types)),
		Name:            name,
		Kind:            kind,
		methodsBySubsig: map[string]*Method{},
		fieldsByName:    map[string]*Field{},
	}
	p.types = append(p.types, t)
	p.typesByName[name] = t
	return t
}

// AddClass declares a new class with its superclass (nil for a root class) and the interfaces it implements.
// AddClass panics if a type with the same name exists.
func (p *Program) AddClass(name string, super *Type, interfaces ...*Type) *Type {
	p.mustBeFresh(name)
	t := p.newType(name, ClassType)
	t.link(super, interfaces)
	return t
}

// AddInterface declares a new interface extending the interfaces provided.
// AddInterface panics if a type with the same name exists.
func (p *Program) AddInterface(name string, supers ...*Type) *Type {
	p.mustBeFresh(name)
	t := p.newType(name, InterfaceType)
	t.Abstract = true
	t.link(nil, supers)
	return t
}

func (p *Program) mustBeFresh(name string) {
	if _, ok := p.typesByName[name]; ok {
		panic(fmt.Sprintf("type %s is already declared", name))
	}
}

// Primitive returns the primitive type with the name provided, declaring it if needed
func (p *Program) Primitive(name string) *Type {
	if t, ok := p.typesByName[name]; ok && t.Kind == PrimitiveType {
		return t
	}
	return p.newType(name, PrimitiveType)
}

// ArrayOf returns the type of the arrays of elem, declaring it if needed
func (p *Program) ArrayOf(elem *Type) *Type {
	name := elem.Name + "[]"
	if t, ok := p.typesByName[name]; ok {
		return t
	}
	t := p.newType(name, ArrayType)
	t.Elem = elem
	return t
}

// Void returns the void type
func (p *Program) Void() *Type {
	return p.void
}

// Lookup returns the type of name name, or nil if there is none
func (p *Program) Lookup(name string) *Type {
	return p.typesByName[name]
}

// AddField declares a field of owner
func (p *Program) AddField(owner *Type, name string, typ *Type, static bool) *Field {
	f := &Field{ID: FieldID(len(p.fields)), Name: name, Type: typ, Owner: owner, Static: static}
	p.fields = append(p.fields, f)
	owner.fields = append(owner.fields, f)
	owner.fieldsByName[name] = f
	return f
}

// AddMethod declares a method of owner. Instance methods have an implicit this local. Parameters are bound to the
// locals p0, p1, ...
// AddMethod panics if owner already declares a method with the same sub-signature.
func (p *Program) AddMethod(owner *Type, name string, params []*Type, ret *Type, flags Flags) *Method {
	if ret == nil {
		ret = p.void
	}
	m := &Method{
		ID:           MethodID(len(p.methods)),
		Name:         name,
		Owner:        owner,
		Params:       params,
		Return:       ret,
		Flags:        flags,
		localsByName: map[string]*Local{},
		labels:       map[string]*Stmt{},
		prog:         p,
	}
	subsig := m.SubSignature()
	if _, ok := owner.methodsBySubsig[subsig]; ok {
		panic(fmt.Sprintf("%s already declares %s", owner.Name, subsig))
	}
	if !m.IsStatic() {
		m.this = m.NewLocal("this", owner)
	}
	for i, param := range params {
		m.params = append(m.params, m.NewLocal(fmt.Sprintf("p%d", i), param))
	}
	p.methods = append(p.methods, m)
	p.methodsBySig[m.Signature()] = m
	owner.methods = append(owner.methods, m)
	owner.methodsBySubsig[subsig] = m
	return m
}

func (p *Program) addStmt(s *Stmt) {
	s.ID = StmtID(len(p.stmts))
	p.stmts = append(p.stmts, s)
}

// Types returns all the types of the program, ordered by identifier
func (p *Program) Types() []*Type { return p.types }

// Fields returns all the fields of the program, ordered by identifier
func (p *Program) Fields() []*Field { return p.fields }

// Methods returns all the methods of the program, ordered by identifier
func (p *Program) Methods() []*Method { return p.methods }

// Stmts returns all the statements of the program, ordered by identifier
func (p *Program) Stmts() []*Stmt { return p.stmts }

// NumMethods returns the number of methods, one more than the largest method identifier
func (p *Program) NumMethods() int { return len(p.methods) }

// NumTypes returns the number of types, one more than the largest type identifier
func (p *Program) NumTypes() int { return len(p.types) }

// NumStmts returns the number of statements, one more than the largest statement identifier
func (p *Program) NumStmts() int { return len(p.stmts) }

// Method returns the method with identifier id
func (p *Program) Method(id MethodID) *Method { return p.methods[id] }

// Type returns the type with identifier id
func (p *Program) Type(id TypeID) *Type { return p.types[id] }

// Stmt returns the statement with identifier id
func (p *Program) Stmt(id StmtID) *Stmt { return p.stmts[id] }

// MethodBySignature returns the method with the signature provided, e.g. "app.Main.main()void", or nil
func (p *Program) MethodBySignature(sig string) *Method {
	return p.methodsBySig[sig]
}

// ProperSubtypesOf returns the transitive subtypes of t, without t, ordered by identifier
func (p *Program) ProperSubtypesOf(t *Type) []*Type {
	seen := map[*Type]bool{t: true}
	var res []*Type
	stack := append([]*Type{}, t.subtypes...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		res = append(res, cur)
		stack = append(stack, cur.subtypes...)
	}
	funcutil.SortByID(res, func(t *Type) int { return int(t.ID) })
	return res
}

// IsDescendantOf returns true if t or one of its transitive supertypes is named name
func (p *Program) IsDescendantOf(t *Type, name string) bool {
	found := false
	t.walkSupertypes(func(s *Type) bool {
		found = s.Name == name
		return found
	})
	return found
}

// DeclaringClass returns the nearest type, t or one of its supertypes, that declares the method with the name,
// parameters and return type provided. Superclasses are searched before interfaces.
func (p *Program) DeclaringClass(t *Type, name string, params []*Type, ret *Type) (*Type, error) {
	if ret == nil {
		ret = p.void
	}
	subsig := subSignature(name, params, ret)
	var decl *Type
	t.walkSupertypes(func(s *Type) bool {
		if _, ok := s.methodsBySubsig[subsig]; ok {
			decl = s
		}
		return decl != nil
	})
	if decl == nil {
		return nil, fmt.Errorf("%s.%s: %w", t.Name, subsig, ErrUndeclared)
	}
	return decl, nil
}

// ParseSignature splits a signature such as "a.b.C.m(int,D)void" into the name of its declaring type, the method name,
// the parameter type names and the return type name.
func ParseSignature(sig string) (owner string, name string, params []string, ret string, err error) {
	open := strings.Index(sig, "(")
	closing := strings.LastIndex(sig, ")")
	if open < 0 || closing < open {
		return "", "", nil, "", fmt.Errorf("malformed signature %q", sig)
	}
	dot := strings.LastIndex(sig[:open], ".")
	if dot <= 0 || dot == open-1 {
		return "", "", nil, "", fmt.Errorf("malformed signature %q: no declaring type", sig)
	}
	owner, name, ret = sig[:dot], sig[dot+1:open], sig[closing+1:]
	if ret == "" {
		return "", "", nil, "", fmt.Errorf("malformed signature %q: no return type", sig)
	}
	if inner := strings.TrimSpace(sig[open+1 : closing]); inner != "" {
		for _, param := range strings.Split(inner, ",") {
			params = append(params, strings.TrimSpace(param))
		}
	}
	return owner, name, params, ret, nil
}

var _ Hierarchy = (*Program)(nil)
