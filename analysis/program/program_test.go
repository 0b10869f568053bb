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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// shapes builds the hierarchy Shape <- Square <- Cube, Shape <- Circle, with Drawable implemented by Shape
func shapes() (*Program, map[string]*Type) {
	p := NewProgram()
	drawable := p.AddInterface("Drawable")
	shape := p.AddClass("Shape", nil, drawable)
	shape.Abstract = true
	square := p.AddClass("Square", shape)
	cube := p.AddClass("Cube", square)
	circle := p.AddClass("Circle", shape)
	p.AddMethod(drawable, "draw", nil, nil, Abstract)
	p.AddMethod(shape, "draw", nil, nil, Abstract)
	p.AddMethod(square, "draw", nil, nil, 0)
	p.AddMethod(circle, "draw", nil, nil, 0)
	p.AddMethod(shape, "area", nil, p.Primitive("int"), 0)
	return p, map[string]*Type{
		"Drawable": drawable, "Shape": shape, "Square": square, "Cube": cube, "Circle": circle,
	}
}

func names(types []*Type) []string {
	res := make([]string, len(types))
	for i, t := range types {
		res[i] = t.Name
	}
	return res
}

func TestProperSubtypesOf(t *testing.T) {
	p, ts := shapes()
	if diff := cmp.Diff([]string{"Square", "Cube", "Circle"}, names(p.ProperSubtypesOf(ts["Shape"]))); diff != "" {
		t.Errorf("subtypes of Shape mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Shape", "Square", "Cube", "Circle"},
		names(p.ProperSubtypesOf(ts["Drawable"]))); diff != "" {
		t.Errorf("subtypes of Drawable mismatch (-want +got):\n%s", diff)
	}
	if sub := p.ProperSubtypesOf(ts["Cube"]); len(sub) != 0 {
		t.Errorf("Cube should have no subtype, got %v", sub)
	}
}

func TestIsSubtypeOf(t *testing.T) {
	p, ts := shapes()
	for _, c := range []struct {
		sub, super string
		want       bool
	}{
		{"Cube", "Shape", true},
		{"Cube", "Drawable", true},
		{"Cube", "Cube", true},
		{"Circle", "Square", false},
		{"Shape", "Cube", false},
	} {
		if got := ts[c.sub].IsSubtypeOf(ts[c.super]); got != c.want {
			t.Errorf("%s.IsSubtypeOf(%s) = %v, want %v", c.sub, c.super, got, c.want)
		}
	}
	if !p.ArrayOf(ts["Cube"]).IsSubtypeOf(p.ArrayOf(ts["Shape"])) {
		t.Errorf("arrays should be covariant")
	}
	if !p.IsDescendantOf(ts["Cube"], "Drawable") || p.IsDescendantOf(ts["Shape"], "Square") {
		t.Errorf("unexpected IsDescendantOf")
	}
}

func TestDispatch(t *testing.T) {
	_, ts := shapes()
	if m := ts["Cube"].Dispatch("draw()void"); m == nil || m.Owner != ts["Square"] {
		t.Errorf("Cube.draw should dispatch to Square.draw, got %v", m)
	}
	if m := ts["Shape"].Dispatch("draw()void"); m != nil {
		t.Errorf("abstract Shape.draw should not be dispatched to, got %v", m)
	}
	if m := ts["Circle"].Dispatch("area()int"); m == nil || m.Owner != ts["Shape"] {
		t.Errorf("Circle.area should dispatch to Shape.area, got %v", m)
	}
	if m := ts["Circle"].Dispatch("perimeter()int"); m != nil {
		t.Errorf("expected no dispatch, got %v", m)
	}
}

func TestDeclaringClass(t *testing.T) {
	p, ts := shapes()
	decl, err := p.DeclaringClass(ts["Cube"], "area", nil, p.Primitive("int"))
	if err != nil || decl != ts["Shape"] {
		t.Errorf("area should be declared by Shape, got %v, %v", decl, err)
	}
	decl, err = p.DeclaringClass(ts["Cube"], "draw", nil, nil)
	if err != nil || decl != ts["Square"] {
		t.Errorf("draw should be found in Square first, got %v, %v", decl, err)
	}
	_, err = p.DeclaringClass(ts["Circle"], "area", []*Type{ts["Circle"]}, p.Primitive("int"))
	if !errors.Is(err, ErrUndeclared) {
		t.Errorf("expected ErrUndeclared, got %v", err)
	}
}

func TestSignatures(t *testing.T) {
	p, ts := shapes()
	m := p.AddMethod(ts["Square"], "<init>", []*Type{p.Primitive("int"), ts["Shape"]}, nil, 0)
	if got := m.SubSignature(); got != "<init>(int,Shape)void" {
		t.Errorf("unexpected sub-signature %q", got)
	}
	if got := m.Signature(); got != "Square.<init>(int,Shape)void" {
		t.Errorf("unexpected signature %q", got)
	}
	if !m.IsConstructor() || m.IsClassInitializer() || m.IsStatic() {
		t.Errorf("unexpected flags for %s", m)
	}
	if p.MethodBySignature("Square.<init>(int,Shape)void") != m {
		t.Errorf("method should be found by signature")
	}
	if m.This() == nil || m.Param(1).Typ != ts["Shape"] || m.Local("p0") != m.Param(0) {
		t.Errorf("unexpected locals %v", m.Locals())
	}
	owner, name, params, ret, err := ParseSignature("a.b.C.m(int, D[])void")
	if err != nil || owner != "a.b.C" || name != "m" || ret != "void" {
		t.Errorf("unexpected parse %q %q %v %q %v", owner, name, params, ret, err)
	}
	if diff := cmp.Diff([]string{"int", "D[]"}, params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	for _, bad := range []string{"m()void", "C.m(", "C.m()"} {
		if _, _, _, _, err := ParseSignature(bad); err == nil {
			t.Errorf("expected an error for %q", bad)
		}
	}
}

func TestStmtSuccsAndValues(t *testing.T) {
	p, ts := shapes()
	m := p.AddMethod(ts["Square"], "loop", nil, nil, 0)
	x := m.NewLocal("x", ts["Square"])
	arr := m.NewLocal("arr", p.ArrayOf(ts["Shape"]))
	f := p.AddField(ts["Shape"], "next", ts["Shape"], false)

	head := m.Nop()
	alloc := m.New(x, ts["Square"])
	store := m.Store(x, f, m.This())
	astore := m.ArrayStore(arr, Const(p.Primitive("int"), "0"), x)
	call := m.Invoke(VirtualCall, ts["Square"].DeclaredMethod("draw()void").Ref(), x)
	loop := m.If(x, head)
	ret := m.AddReturn(nil)

	succs := func(s *Stmt) []int {
		var res []int
		for _, n := range s.Succs() {
			res = append(res, n.Index)
		}
		return res
	}
	if diff := cmp.Diff([]int{0, 6}, succs(loop)); diff != "" {
		t.Errorf("if successors mismatch (-want +got):\n%s", diff)
	}
	if len(ret.Succs()) != 0 {
		t.Errorf("return should have no successor")
	}
	if diff := cmp.Diff([]int{2}, succs(alloc)); diff != "" {
		t.Errorf("fall through successors mismatch (-want +got):\n%s", diff)
	}

	kinds := func(s *Stmt) []ValueKind {
		var res []ValueKind
		for _, v := range s.Values() {
			res = append(res, v.Kind())
		}
		return res
	}
	if diff := cmp.Diff([]ValueKind{LocalKind, LocalKind, FieldRefKind}, kinds(store)); diff != "" {
		t.Errorf("store values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ValueKind{LocalKind, LocalKind, ConstantKind, ArrayRefKind}, kinds(astore)); diff != "" {
		t.Errorf("array store values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ValueKind{LocalKind, InvokeKind}, kinds(call)); diff != "" {
		t.Errorf("call values mismatch (-want +got):\n%s", diff)
	}
	if !store.Defines(store.LHS) || store.Defines(store.RHS) || call.InvokeExpr() == nil || alloc.InvokeExpr() != nil {
		t.Errorf("unexpected Defines or InvokeExpr")
	}
	if astore.LHS.Type() != ts["Shape"] {
		t.Errorf("array element type should be Shape, got %v", astore.LHS.Type())
	}
	if got := call.Text(); got != "virtual x.draw()" {
		t.Errorf("unexpected text %q", got)
	}
}

type kindCounter struct {
	NoopOp
	fieldRefs int
	news      int
}

func (k *kindCounter) DoFieldRef(*FieldRef, Context) { k.fieldRefs++ }

func (k *kindCounter) DoNew(*NewExpr, Context) { k.news++ }

func TestValueOp(t *testing.T) {
	p, ts := shapes()
	m := p.AddMethod(ts["Square"], "init", nil, nil, Static)
	x := m.NewLocal("x", ts["Square"])
	f := p.AddField(ts["Shape"], "count", p.Primitive("int"), true)
	m.New(x, ts["Square"])
	m.Store(nil, f, Const(p.Primitive("int"), "1"))
	m.Load(m.NewLocal("y", p.Primitive("int")), nil, f)
	k := &kindCounter{}
	for _, s := range m.Stmts() {
		for _, v := range s.Values() {
			v.Accept(k, Context{Method: m, Stmt: s})
		}
	}
	if k.fieldRefs != 2 || k.news != 1 {
		t.Errorf("expected 2 field refs and 1 allocation, got %d and %d", k.fieldRefs, k.news)
	}
}
