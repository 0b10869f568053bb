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
	"embed"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

//go:embed testdata
var testfsys embed.FS

func TestDecodeWorkers(t *testing.T) {
	b, err := testfsys.ReadFile("testdata/workers.yaml")
	if err != nil {
		t.Fatal(err)
	}
	d, err := Decode(b)
	if err != nil {
		t.Fatalf("could not decode: %v", err)
	}
	p := d.Program
	worker := p.Lookup("app.Worker")
	if worker == nil || !p.IsDescendantOf(worker, "java.lang.Runnable") {
		t.Fatalf("app.Worker should be a Runnable")
	}
	main := p.MethodBySignature("app.Main.main(java.lang.String[])void")
	if main == nil || !main.IsStatic() || !main.HasBody() {
		t.Fatalf("main should be a static method with a body, got %v", main)
	}
	var kinds []StmtKind
	for _, s := range main.Stmts() {
		kinds = append(kinds, s.Kind)
	}
	want := []StmtKind{AssignStmt, InvokeStmt, NopStmt, InvokeStmt, IfStmt, AssignStmt, ReturnStmt}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("statement kinds mismatch (-want +got):\n%s", diff)
	}
	loop := main.Stmts()[4]
	if loop.Target() != main.StmtByLabel("head") {
		t.Errorf("if should jump to head, got %v", loop.Target())
	}
	start := main.Stmts()[3].InvokeExpr()
	if start == nil || start.Call != VirtualCall || start.Ref.Class != worker {
		t.Errorf("unexpected start call %v", start)
	}
	if decl, err := p.DeclaringClass(worker, "start", nil, nil); err != nil || decl.Name != "java.lang.Thread" {
		t.Errorf("start should be declared by java.lang.Thread, got %v, %v", decl, err)
	}
	helperCall := main.Stmts()[5].InvokeExpr()
	if helperCall == nil || helperCall.Call != StaticCall || len(helperCall.Args) != 1 {
		t.Errorf("unexpected helper call %v", helperCall)
	}
	if m := p.MethodBySignature("java.lang.Runnable.run()void"); m == nil || !m.IsAbstract() {
		t.Errorf("interface methods should be abstract")
	}
	run := p.MethodBySignature("app.Worker.run()void")
	if run.Stmts()[0].RHS.Kind() != FieldRefKind || !run.Stmts()[0].RHS.(*FieldRef).IsStatic() {
		t.Errorf("first statement of run should load a static field")
	}
	if run.Stmts()[3].LHS.Kind() != ArrayRefKind {
		t.Errorf("fourth statement of run should store into an array")
	}
	if len(d.PointsTo) != 2 {
		t.Fatalf("expected 2 points-to facts, got %d", len(d.PointsTo))
	}
	if d.PointsTo[1].Local != run.This() || d.PointsTo[1].Allocs[0] != main.StmtByLabel("s1") {
		t.Errorf("unexpected points-to fact %+v", d.PointsTo[1])
	}
}

func TestLoadFile(t *testing.T) {
	d, err := LoadFile(filepath.Join("testdata", "workers.yaml"))
	if err != nil {
		t.Fatalf("could not load: %v", err)
	}
	if d.Program.Lookup("java.lang.String[]") == nil {
		t.Errorf("the array type of the parameter of main should be declared")
	}
	if d.Program.NumMethods() != 7 {
		t.Errorf("expected 7 methods, got %d", d.Program.NumMethods())
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, c := range []struct {
		name string
		yaml string
		want error
	}{
		{"unknown super", "classes: [{name: A, super: B}]", ErrUnknownName},
		{"duplicate class", "classes: [{name: A}, {name: A}]", ErrMalformed},
		{"unknown op", "classes: [{name: A, methods: [{name: m, body: [{op: jump}]}]}]", ErrUnknownName},
		{"unknown parameter type", "classes: [{name: A, methods: [{name: m, params: [\"B[]\"]}]}]",
			ErrUnknownName},
		{"unknown local", "classes: [{name: A, methods: [{name: m, body: [{op: new, dst: x, type: A}]}]}]",
			ErrUnknownName},
		{"unknown label", "classes: [{name: A, methods: [{name: m, body: [{op: goto, target: L}]}]}]",
			ErrUnknownName},
		{"undeclared method",
			"classes: [{name: A, methods: [{name: m, flags: [static], body: [{op: invoke, method: \"A.n()void\"}]}]}]",
			ErrUndeclared},
		{"static call with receiver",
			"classes: [{name: A, methods: [{name: m, body: [{op: invoke, call: static, method: \"A.m()void\", recv: this}]}]}]",
			ErrMalformed},
		{"instance field without base",
			"classes: [{name: A, fields: [{name: f, type: int}], methods: [{name: m, locals: {x: int}, body: [{op: load, dst: x, field: A.f}]}]}]",
			ErrMalformed},
		{"unknown flag", "classes: [{name: A, methods: [{name: m, flags: [final]}]}]", ErrUnknownName},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode([]byte(c.yaml))
			if !errors.Is(err, c.want) {
				t.Errorf("expected %v, got %v", c.want, err)
			}
		})
	}
}
