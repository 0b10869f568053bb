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

// TypeKind is the kind of a type
type TypeKind int

const (
	// ClassType is the kind of classes, abstract or not
	ClassType TypeKind = iota
	// InterfaceType is the kind of interfaces
	InterfaceType
	// ArrayType is the kind of array types
	ArrayType
	// PrimitiveType is the kind of primitive types, including void
	PrimitiveType
)

func (k TypeKind) String() string {
	switch k {
	case ClassType:
		return "class"
	case InterfaceType:
		return "interface"
	case ArrayType:
		return "array"
	case PrimitiveType:
		return "primitive"
	default:
		return "unknown"
	}
}

// Type is a type of the program
type Type struct {
	ID   TypeID
	Name string
	Kind TypeKind

	// Super is the superclass of classes, nil for root classes and all other kinds
	Super *Type

	// Interfaces are the interfaces implemented by a class, or extended by an interface
	Interfaces []*Type

	// Elem is the element type of array types
	Elem *Type

	// Abstract is true for abstract classes and interfaces
	Abstract bool

	methods         []*Method
	methodsBySubsig map[string]*Method
	fields          []*Field
	fieldsByName    map[string]*Field
	subtypes        []*Type // direct subtypes
}

func (t *Type) link(super *Type, interfaces []*Type) {
	t.Super = super
	t.Interfaces = interfaces
	if super != nil {
		super.subtypes = append(super.subtypes, t)
	}
	for _, i := range interfaces {
		i.subtypes = append(i.subtypes, t)
	}
}

func (t *Type) String() string {
	return t.Name
}

// IsConcrete returns true if t is a class that can be instantiated
func (t *Type) IsConcrete() bool {
	return t.Kind == ClassType && !t.Abstract
}

// IsReference returns true for classes, interfaces and arrays
func (t *Type) IsReference() bool {
	return t.Kind != PrimitiveType
}

// Methods returns the methods declared by t, in declaration order
func (t *Type) Methods() []*Method {
	return t.methods
}

// Fields returns the fields declared by t, in declaration order
func (t *Type) Fields() []*Field {
	return t.fields
}

// DeclaredMethod returns the method of sub-signature subsig declared in t, or nil
func (t *Type) DeclaredMethod(subsig string) *Method {
	return t.methodsBySubsig[subsig]
}

// Dispatch returns the method that is called when a method of sub-signature subsig is invoked on a receiver of
// dynamic type t: the nearest non-abstract method declared by t or one of its superclasses. It returns nil if there is
// none.
func (t *Type) Dispatch(subsig string) *Method {
	for cur := t; cur != nil; cur = cur.Super {
		if m := cur.methodsBySubsig[subsig]; m != nil && !m.IsAbstract() {
			return m
		}
	}
	return nil
}

// Field returns the field named name declared by t or its nearest superclass declaring it, or nil
func (t *Type) Field(name string) *Field {
	for cur := t; cur != nil; cur = cur.Super {
		if f := cur.fieldsByName[name]; f != nil {
			return f
		}
	}
	return nil
}

// IsSubtypeOf returns true if t is o or a transitive subtype of o. Array types are covariant in their element type.
func (t *Type) IsSubtypeOf(o *Type) bool {
	if t == o {
		return true
	}
	if t.Kind == ArrayType && o.Kind == ArrayType {
		return t.Elem.IsReference() && t.Elem.IsSubtypeOf(o.Elem)
	}
	found := false
	t.walkSupertypes(func(s *Type) bool {
		found = s == o
		return found
	})
	return found
}

// walkSupertypes calls f on t and then on its transitive supertypes, superclasses first, until f returns true.
func (t *Type) walkSupertypes(f func(*Type) bool) {
	seen := map[*Type]bool{}
	var interfaces []*Type
	for cur := t; cur != nil; cur = cur.Super {
		seen[cur] = true
		if f(cur) {
			return
		}
		interfaces = append(interfaces, cur.Interfaces...)
	}
	for len(interfaces) > 0 {
		cur := interfaces[0]
		interfaces = interfaces[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if f(cur) {
			return
		}
		interfaces = append(interfaces, cur.Interfaces...)
	}
}

// Field is a field declared by a type
type Field struct {
	ID     FieldID
	Name   string
	Type   *Type
	Owner  *Type
	Static bool
}

func (f *Field) String() string {
	return f.Owner.Name + "." + f.Name
}
