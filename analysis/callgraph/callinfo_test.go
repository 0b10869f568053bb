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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
)

// chain builds the static methods a, b, c of class C where a calls b twice and b calls c
func chain() (*program.Program, map[string]*program.Method) {
	p := program.NewProgram()
	cls := p.AddClass("C", nil)
	ms := map[string]*program.Method{}
	for _, name := range []string{"a", "b", "c"} {
		ms[name] = p.AddMethod(cls, name, nil, nil, program.Static)
	}
	ms["a"].Invoke(program.StaticCall, ms["b"].Ref(), nil)
	ms["a"].Invoke(program.StaticCall, ms["b"].Ref(), nil)
	ms["a"].AddReturn(nil)
	ms["b"].Invoke(program.StaticCall, ms["c"].Ref(), nil)
	ms["b"].AddReturn(nil)
	ms["c"].AddReturn(nil)
	return p, ms
}

func names(ms []*program.Method) []string {
	res := make([]string, len(ms))
	for i, m := range ms {
		res[i] = m.Name
	}
	return res
}

func TestCallInfoEdges(t *testing.T) {
	p, ms := chain()
	ci := NewCallInfo(p)
	a, b, c := ms["a"], ms["b"], ms["c"]
	if !ci.AddEdge(a, a.Stmts()[1], b) || !ci.AddEdge(a, a.Stmts()[0], b) || !ci.AddEdge(b, b.Stmts()[0], c) {
		t.Fatalf("new edges should be added")
	}
	if ci.AddEdge(b, b.Stmts()[0], c) {
		t.Errorf("duplicate edge should not be added")
	}
	ci.Seal()
	if err := ci.Validate(); err != nil {
		t.Fatalf("valid call info: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, names(ci.Reachable())); diff != "" {
		t.Errorf("reachable mismatch (-want +got):\n%s", diff)
	}
	if ci.NumEdges() != 3 {
		t.Errorf("expected 3 edges, got %d", ci.NumEdges())
	}
	callers := ci.CallersOf(b)
	if len(callers) != 2 || callers[0].Stmt.Index != 0 || callers[1].Stmt.Index != 1 {
		t.Errorf("callers of b should be sorted by statement, got %v", callers)
	}
	// the maps are inverses of each other
	for _, m := range ci.Reachable() {
		for _, callee := range ci.CalleesOf(m) {
			want := CallTriple{Method: m, Stmt: callee.Stmt, Expr: callee.Expr}
			if !containsTriple(ci.CallersOf(callee.Method), want) {
				t.Errorf("%v is not a caller of %s", want, callee.Method)
			}
		}
	}
	if len(ci.CallersOf(a)) != 0 || len(ci.CalleesOf(c)) != 0 {
		t.Errorf("a has no caller and c no callee")
	}
}

func TestCallInfoValidate(t *testing.T) {
	p, ms := chain()
	a, b := ms["a"], ms["b"]

	foreign := NewCallInfo(p)
	foreign.AddEdge(a, b.Stmts()[0], b)
	if err := foreign.Validate(); !errors.Is(err, ErrInvalidCallInfo) {
		t.Errorf("statement outside of its caller should be invalid, got %v", err)
	}

	asymmetric := NewCallInfo(p)
	asymmetric.AddEdge(a, a.Stmts()[0], b)
	asymmetric.callee2callers[b] = nil
	if err := asymmetric.Validate(); !errors.Is(err, ErrInvalidCallInfo) {
		t.Errorf("asymmetric maps should be invalid, got %v", err)
	}

	unreachable := NewCallInfo(p)
	unreachable.AddEdge(a, a.Stmts()[0], b)
	unreachable.reachable.Remove(int(b.ID))
	if err := unreachable.Validate(); !errors.Is(err, ErrInvalidCallInfo) {
		t.Errorf("unreachable callee should be invalid, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{CHA, RTA, OFA} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("vta"); err == nil {
		t.Errorf("vta is not a mode")
	}
}
