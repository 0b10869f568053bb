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
	"os"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// ErrUnknownName is returned when a description refers to a type, field, local, label or operation that does not
// exist
var ErrUnknownName = errors.New("unknown name")

// ErrMalformed is returned when an entry of a description is inconsistent
var ErrMalformed = errors.New("malformed description")

// primitiveNames are the names of the types that are declared when they are referred to
var primitiveNames = map[string]bool{
	"void": true, "boolean": true, "byte": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "null": true,
}

// A Description is a program decoded from yaml, with the points-to facts the description provides.
type Description struct {
	Program  *Program
	PointsTo []PointsToFact
}

// PointsToFact states that a local of a method may point to the objects allocated by the statements Allocs. The local
// is the receiver of the method when Local is this.
type PointsToFact struct {
	Method *Method
	Local  *Local
	Allocs []*Stmt
}

type descProgram struct {
	Classes  []descClass    `yaml:"classes"`
	PointsTo []descPointsTo `yaml:"points-to"`
}

type descClass struct {
	Name       string       `yaml:"name"`
	Interface  bool         `yaml:"interface"`
	Abstract   bool         `yaml:"abstract"`
	Super      string       `yaml:"super"`
	Interfaces []string     `yaml:"interfaces"`
	Fields     []descField  `yaml:"fields"`
	Methods    []descMethod `yaml:"methods"`
}

type descField struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Static bool   `yaml:"static"`
}

type descMethod struct {
	Name   string            `yaml:"name"`
	Params []string          `yaml:"params"`
	Return string            `yaml:"return"`
	Flags  []string          `yaml:"flags"`
	Locals map[string]string `yaml:"locals"`
	Body   []descStmt        `yaml:"body"`
}

type descStmt struct {
	Op     string   `yaml:"op"`
	Label  string   `yaml:"label"`
	Dst    string   `yaml:"dst"`
	Src    string   `yaml:"src"`
	Base   string   `yaml:"base"`
	Index  string   `yaml:"index"`
	Size   string   `yaml:"size"`
	Cond   string   `yaml:"cond"`
	Target string   `yaml:"target"`
	Type   string   `yaml:"type"`
	Elem   string   `yaml:"elem"`
	Field  string   `yaml:"field"`
	Method string   `yaml:"method"`
	Call   string   `yaml:"call"`
	Recv   string   `yaml:"recv"`
	Args   []string `yaml:"args"`
}

type descPointsTo struct {
	Method string     `yaml:"method"`
	Local  string     `yaml:"local"`
	Sites  []descSite `yaml:"sites"`
}

type descSite struct {
	Method string `yaml:"method"`
	Label  string `yaml:"label"`
}

// LoadFile decodes the program described in the yaml file filename
func LoadFile(filename string) (*Description, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read program description: %w", err)
	}
	d, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return d, nil
}

// Decode decodes a yaml program description. Types are declared first, then fields and method signatures, then
// method bodies, so that entries may refer to entries declared later in the file.
func Decode(b []byte) (*Description, error) {
	var desc descProgram
	if err := yaml.Unmarshal(b, &desc); err != nil {
		return nil, fmt.Errorf("could not unmarshal program description: %w", err)
	}
	d := &decoder{prog: NewProgram()}
	if err := d.declareTypes(desc.Classes); err != nil {
		return nil, err
	}
	if err := d.declareMembers(desc.Classes); err != nil {
		return nil, err
	}
	if err := d.buildBodies(desc.Classes); err != nil {
		return nil, err
	}
	facts, err := d.pointsTo(desc.PointsTo)
	if err != nil {
		return nil, err
	}
	return &Description{Program: d.prog, PointsTo: facts}, nil
}

type decoder struct {
	prog  *Program
	types []*Type // in the order of the classes of the description
}

func (d *decoder) resolveType(name string) (*Type, error) {
	if t := d.prog.Lookup(name); t != nil {
		return t, nil
	}
	if primitiveNames[name] {
		return d.prog.Primitive(name), nil
	}
	if elem, ok := strings.CutSuffix(name, "[]"); ok {
		e, err := d.resolveType(elem)
		if err != nil {
			return nil, err
		}
		return d.prog.ArrayOf(e), nil
	}
	return nil, fmt.Errorf("type %q: %w", name, ErrUnknownName)
}

func (d *decoder) resolveTypes(names []string) ([]*Type, error) {
	types := make([]*Type, len(names))
	for i, name := range names {
		t, err := d.resolveType(name)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

func (d *decoder) declareTypes(classes []descClass) error {
	for _, c := range classes {
		if c.Name == "" {
			return fmt.Errorf("class without name: %w", ErrMalformed)
		}
		if d.prog.Lookup(c.Name) != nil || primitiveNames[c.Name] {
			return fmt.Errorf("class %s declared twice: %w", c.Name, ErrMalformed)
		}
		kind := ClassType
		if c.Interface {
			kind = InterfaceType
		}
		t := d.prog.newType(c.Name, kind)
		t.Abstract = c.Abstract || c.Interface
		d.types = append(d.types, t)
	}
	for i, c := range classes {
		var super *Type
		if c.Super != "" {
			s, err := d.resolveType(c.Super)
			if err != nil {
				return fmt.Errorf("class %s: %w", c.Name, err)
			}
			if c.Interface || s.Kind != ClassType {
				return fmt.Errorf("class %s: super %s: %w", c.Name, s.Name, ErrMalformed)
			}
			super = s
		}
		interfaces, err := d.resolveTypes(c.Interfaces)
		if err != nil {
			return fmt.Errorf("class %s: %w", c.Name, err)
		}
		for _, it := range interfaces {
			if it.Kind != InterfaceType {
				return fmt.Errorf("class %s: %s is not an interface: %w", c.Name, it.Name, ErrMalformed)
			}
		}
		d.types[i].link(super, interfaces)
	}
	return nil
}

func parseFlags(flags []string) (Flags, error) {
	var res Flags
	for _, f := range flags {
		switch f {
		case "static":
			res |= Static
		case "abstract":
			res |= Abstract
		case "private":
			res |= Private
		default:
			return 0, fmt.Errorf("flag %q: %w", f, ErrUnknownName)
		}
	}
	return res, nil
}

func (d *decoder) declareMembers(classes []descClass) error {
	for i, c := range classes {
		t := d.types[i]
		for _, f := range c.Fields {
			ft, err := d.resolveType(f.Type)
			if err != nil {
				return fmt.Errorf("field %s.%s: %w", c.Name, f.Name, err)
			}
			d.prog.AddField(t, f.Name, ft, f.Static)
		}
		for _, dm := range c.Methods {
			params, err := d.resolveTypes(dm.Params)
			if err != nil {
				return fmt.Errorf("method %s.%s: %w", c.Name, dm.Name, err)
			}
			ret := d.prog.Void()
			if dm.Return != "" {
				if ret, err = d.resolveType(dm.Return); err != nil {
					return fmt.Errorf("method %s.%s: %w", c.Name, dm.Name, err)
				}
			}
			flags, err := parseFlags(dm.Flags)
			if err != nil {
				return fmt.Errorf("method %s.%s: %w", c.Name, dm.Name, err)
			}
			if t.DeclaredMethod(subSignature(dm.Name, params, ret)) != nil {
				return fmt.Errorf("method %s.%s declared twice: %w", c.Name, dm.Name, ErrMalformed)
			}
			d.prog.AddMethod(t, dm.Name, params, ret, flags)
		}
	}
	return nil
}

func (d *decoder) buildBodies(classes []descClass) error {
	for i, c := range classes {
		for j, dm := range c.Methods {
			m := d.types[i].Methods()[j]
			if err := d.buildBody(m, dm); err != nil {
				return fmt.Errorf("method %s: %w", m, err)
			}
		}
	}
	return nil
}

func (d *decoder) buildBody(m *Method, dm descMethod) error {
	names := maps.Keys(dm.Locals)
	slices.Sort(names)
	for _, name := range names {
		lt, err := d.resolveType(dm.Locals[name])
		if err != nil {
			return fmt.Errorf("local %s: %w", name, err)
		}
		if m.Local(name) != nil {
			return fmt.Errorf("local %s declared twice: %w", name, ErrMalformed)
		}
		m.NewLocal(name, lt)
	}
	if len(dm.Body) > 0 && m.IsAbstract() {
		return fmt.Errorf("abstract method with a body: %w", ErrMalformed)
	}
	// jumps are resolved once all the labels are known
	jumps := map[*Stmt]string{}
	for k, ds := range dm.Body {
		s, err := d.buildStmt(m, ds)
		if err != nil {
			return fmt.Errorf("statement %d (%s): %w", k, ds.Op, err)
		}
		if ds.Label != "" {
			if m.StmtByLabel(ds.Label) != nil {
				return fmt.Errorf("label %s used twice: %w", ds.Label, ErrMalformed)
			}
			s.SetLabel(ds.Label)
		}
		if s.Kind == GotoStmt || s.Kind == IfStmt {
			jumps[s] = ds.Target
		}
	}
	for s, label := range jumps {
		target := m.StmtByLabel(label)
		if target == nil {
			return fmt.Errorf("jump target %q: %w", label, ErrUnknownName)
		}
		s.SetTarget(target)
	}
	return nil
}

func (d *decoder) local(m *Method, name string) (*Local, error) {
	if name == "" {
		return nil, fmt.Errorf("missing local: %w", ErrMalformed)
	}
	l := m.Local(name)
	if l == nil {
		return nil, fmt.Errorf("local %q: %w", name, ErrUnknownName)
	}
	return l, nil
}

// operand returns the local named s, the null constant for "null", or the int constant n for "#n"
func (d *decoder) operand(m *Method, s string) (Value, error) {
	switch {
	case s == "null":
		return Const(d.prog.Primitive("null"), "null"), nil
	case strings.HasPrefix(s, "#"):
		return Const(d.prog.Primitive("int"), s[1:]), nil
	default:
		return d.local(m, s)
	}
}

func (d *decoder) field(name string) (*Field, error) {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return nil, fmt.Errorf("field %q should be qualified by its class: %w", name, ErrMalformed)
	}
	owner, err := d.resolveType(name[:dot])
	if err != nil {
		return nil, err
	}
	f := owner.Field(name[dot+1:])
	if f == nil {
		return nil, fmt.Errorf("field %q: %w", name, ErrUnknownName)
	}
	return f, nil
}

func (d *decoder) methodRef(sig string) (MethodRef, error) {
	owner, name, paramNames, retName, err := ParseSignature(sig)
	if err != nil {
		return MethodRef{}, fmt.Errorf("%v: %w", err, ErrMalformed)
	}
	class, err := d.resolveType(owner)
	if err != nil {
		return MethodRef{}, err
	}
	params, err := d.resolveTypes(paramNames)
	if err != nil {
		return MethodRef{}, err
	}
	ret, err := d.resolveType(retName)
	if err != nil {
		return MethodRef{}, err
	}
	if _, err := d.prog.DeclaringClass(class, name, params, ret); err != nil {
		return MethodRef{}, err
	}
	return MethodRef{Class: class, Name: name, Params: params, Return: ret}, nil
}

func parseCallKind(call string, hasRecv bool) (CallKind, error) {
	switch call {
	case "":
		if hasRecv {
			return VirtualCall, nil
		}
		return StaticCall, nil
	case "static":
		return StaticCall, nil
	case "special":
		return SpecialCall, nil
	case "virtual":
		return VirtualCall, nil
	case "interface":
		return InterfaceCall, nil
	default:
		return 0, fmt.Errorf("call kind %q: %w", call, ErrUnknownName)
	}
}

// fieldBase returns the base of an access to f, nil for static fields
func (d *decoder) fieldBase(m *Method, f *Field, base string) (*Local, error) {
	if f.Static != (base == "") {
		return nil, fmt.Errorf("access to %s with base %q: %w", f, base, ErrMalformed)
	}
	if f.Static {
		return nil, nil
	}
	return d.local(m, base)
}

func (d *decoder) arrayBase(m *Method, base string) (*Local, error) {
	l, err := d.local(m, base)
	if err != nil {
		return nil, err
	}
	if l.Typ.Kind != ArrayType {
		return nil, fmt.Errorf("local %s is not an array: %w", base, ErrMalformed)
	}
	return l, nil
}

//gocyclo:ignore
func (d *decoder) buildStmt(m *Method, ds descStmt) (*Stmt, error) {
	switch ds.Op {
	case "new":
		dst, err := d.local(m, ds.Dst)
		if err != nil {
			return nil, err
		}
		t, err := d.resolveType(ds.Type)
		if err != nil {
			return nil, err
		}
		if !t.IsConcrete() {
			return nil, fmt.Errorf("new of a non-concrete type %s: %w", t, ErrMalformed)
		}
		return m.New(dst, t), nil
	case "newarray":
		dst, err := d.local(m, ds.Dst)
		if err != nil {
			return nil, err
		}
		elem, err := d.resolveType(ds.Elem)
		if err != nil {
			return nil, err
		}
		var size Value
		if ds.Size != "" {
			if size, err = d.operand(m, ds.Size); err != nil {
				return nil, err
			}
		}
		return m.NewArray(dst, elem, size), nil
	case "copy":
		dst, err := d.local(m, ds.Dst)
		if err != nil {
			return nil, err
		}
		src, err := d.operand(m, ds.Src)
		if err != nil {
			return nil, err
		}
		return m.Copy(dst, src), nil
	case "invoke":
		ref, err := d.methodRef(ds.Method)
		if err != nil {
			return nil, err
		}
		call, err := parseCallKind(ds.Call, ds.Recv != "")
		if err != nil {
			return nil, err
		}
		if (call == StaticCall) != (ds.Recv == "") {
			return nil, fmt.Errorf("%s call with receiver %q: %w", call, ds.Recv, ErrMalformed)
		}
		var recv *Local
		if ds.Recv != "" {
			if recv, err = d.local(m, ds.Recv); err != nil {
				return nil, err
			}
		}
		if len(ds.Args) != len(ref.Params) {
			return nil, fmt.Errorf("%d arguments for %s: %w", len(ds.Args), ref, ErrMalformed)
		}
		args := make([]Value, len(ds.Args))
		for i, a := range ds.Args {
			if args[i], err = d.operand(m, a); err != nil {
				return nil, err
			}
		}
		if ds.Dst == "" {
			return m.Invoke(call, ref, recv, args...), nil
		}
		dst, err := d.local(m, ds.Dst)
		if err != nil {
			return nil, err
		}
		return m.InvokeAssign(dst, call, ref, recv, args...), nil
	case "load":
		dst, err := d.local(m, ds.Dst)
		if err != nil {
			return nil, err
		}
		f, err := d.field(ds.Field)
		if err != nil {
			return nil, err
		}
		base, err := d.fieldBase(m, f, ds.Base)
		if err != nil {
			return nil, err
		}
		return m.Load(dst, base, f), nil
	case "store":
		f, err := d.field(ds.Field)
		if err != nil {
			return nil, err
		}
		base, err := d.fieldBase(m, f, ds.Base)
		if err != nil {
			return nil, err
		}
		src, err := d.operand(m, ds.Src)
		if err != nil {
			return nil, err
		}
		return m.Store(base, f, src), nil
	case "aload":
		dst, err := d.local(m, ds.Dst)
		if err != nil {
			return nil, err
		}
		base, err := d.arrayBase(m, ds.Base)
		if err != nil {
			return nil, err
		}
		index, err := d.operand(m, ds.Index)
		if err != nil {
			return nil, err
		}
		return m.ArrayLoad(dst, base, index), nil
	case "astore":
		base, err := d.arrayBase(m, ds.Base)
		if err != nil {
			return nil, err
		}
		index, err := d.operand(m, ds.Index)
		if err != nil {
			return nil, err
		}
		src, err := d.operand(m, ds.Src)
		if err != nil {
			return nil, err
		}
		return m.ArrayStore(base, index, src), nil
	case "goto":
		return m.Goto(nil), nil
	case "if":
		cond, err := d.operand(m, ds.Cond)
		if err != nil {
			return nil, err
		}
		return m.If(cond, nil), nil
	case "return":
		if ds.Src == "" {
			return m.AddReturn(nil), nil
		}
		v, err := d.operand(m, ds.Src)
		if err != nil {
			return nil, err
		}
		return m.AddReturn(v), nil
	case "nop":
		return m.Nop(), nil
	default:
		return nil, fmt.Errorf("operation %q: %w", ds.Op, ErrUnknownName)
	}
}

func (d *decoder) pointsTo(facts []descPointsTo) ([]PointsToFact, error) {
	var res []PointsToFact
	for _, f := range facts {
		m := d.prog.MethodBySignature(f.Method)
		if m == nil {
			return nil, fmt.Errorf("points-to of method %q: %w", f.Method, ErrUnknownName)
		}
		var local *Local
		if f.Local == "this" {
			local = m.This()
			if local == nil {
				return nil, fmt.Errorf("points-to of this in static method %s: %w", m, ErrMalformed)
			}
		} else {
			l, err := d.local(m, f.Local)
			if err != nil {
				return nil, fmt.Errorf("points-to in %s: %w", m, err)
			}
			local = l
		}
		fact := PointsToFact{Method: m, Local: local}
		for _, site := range f.Sites {
			sm := d.prog.MethodBySignature(site.Method)
			if sm == nil {
				return nil, fmt.Errorf("allocation site in method %q: %w", site.Method, ErrUnknownName)
			}
			s := sm.StmtByLabel(site.Label)
			if s == nil || s.Kind != AssignStmt || (s.RHS.Kind() != NewKind && s.RHS.Kind() != NewArrayKind) {
				return nil, fmt.Errorf("allocation site %s in %s: %w", site.Label, sm, ErrUnknownName)
			}
			fact.Allocs = append(fact.Allocs, s)
		}
		res = append(res, fact)
	}
	return res, nil
}
