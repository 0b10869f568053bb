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

package pointsto

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
)

type fixture struct {
	prog           *program.Program
	animal, cat    *program.Type
	dog            *program.Type
	main, speak    *program.Method
	a, c           *program.Local
	newCat, newDog *program.Stmt
}

func animals() fixture {
	p := program.NewProgram()
	animal := p.AddClass("Animal", nil)
	animal.Abstract = true
	cat := p.AddClass("Cat", animal)
	dog := p.AddClass("Dog", animal)
	speak := p.AddMethod(animal, "speak", nil, nil, 0)
	main := p.AddMethod(p.AddClass("Main", nil), "main", nil, nil, program.Static)
	a := main.NewLocal("a", animal)
	c := main.NewLocal("c", cat)
	newCat := main.New(c, cat)
	newDog := main.New(a, dog)
	main.Copy(a, c)
	main.Invoke(program.VirtualCall, speak.Ref(), a)
	main.AddReturn(nil)
	return fixture{p, animal, cat, dog, main, speak, a, c, newCat, newDog}
}

func ids(sites []*AllocSite) []SiteID {
	var res []SiteID
	for _, s := range sites {
		res = append(res, s.ID)
	}
	return res
}

func TestCollectSites(t *testing.T) {
	f := animals()
	sites := CollectSites(f.prog)
	if sites.Len() != 2 {
		t.Fatalf("expected 2 sites, got %d", sites.Len())
	}
	if s := sites.ByStmt(f.newDog); s == nil || s.Type != f.dog || s.Method != f.main {
		t.Errorf("unexpected site for %s: %v", f.newDog, s)
	}
	if sites.ByStmt(f.main.Stmts()[2]) != nil {
		t.Errorf("copy should not be an allocation site")
	}
}

func TestTypeBased(t *testing.T) {
	f := animals()
	sites := CollectSites(f.prog)
	o := NewTypeBased(sites)
	ctx := program.Context{Method: f.main, Stmt: f.main.Stmts()[3]}
	if diff := cmp.Diff([]SiteID{0, 1}, ids(o.Values(f.a, ctx))); diff != "" {
		t.Errorf("values of a mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]SiteID{0}, ids(o.Values(f.c, ctx))); diff != "" {
		t.Errorf("values of c mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]SiteID{1}, ids(o.Values(f.newDog.RHS, program.Context{Method: f.main, Stmt: f.newDog}))); diff != "" {
		t.Errorf("values of the allocation mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]SiteID{0, 1}, ids(o.ValuesForThis(program.Context{Method: f.speak}))); diff != "" {
		t.Errorf("values of this mismatch (-want +got):\n%s", diff)
	}
	if o.ValuesForThis(program.Context{Method: f.main}) != nil {
		t.Errorf("static methods have no receiver")
	}
}

func TestTable(t *testing.T) {
	f := animals()
	sites := CollectSites(f.prog)
	table, err := FromFacts(sites, []program.PointsToFact{
		{Method: f.main, Local: f.a, Allocs: []*program.Stmt{f.newCat, f.newCat}},
		{Method: f.speak, Local: f.speak.This(), Allocs: []*program.Stmt{f.newCat}},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := program.Context{Method: f.main}
	if diff := cmp.Diff([]SiteID{0}, ids(table.Values(f.a, ctx))); diff != "" {
		t.Errorf("values of a mismatch (-want +got):\n%s", diff)
	}
	if len(table.Values(f.c, ctx)) != 0 {
		t.Errorf("c has no fact")
	}
	if diff := cmp.Diff([]SiteID{0}, ids(table.ValuesForThis(program.Context{Method: f.speak}))); diff != "" {
		t.Errorf("values of this mismatch (-want +got):\n%s", diff)
	}
	if _, err := FromFacts(sites, []program.PointsToFact{{Local: f.a, Allocs: f.main.Stmts()[2:3]}}); err == nil {
		t.Errorf("expected an error for a non-allocating statement")
	}
}

func TestIntersects(t *testing.T) {
	f := animals()
	all := CollectSites(f.prog).All()
	if !Intersects(all, all[1:]) || Intersects(all[:1], all[1:]) || Intersects(nil, all) {
		t.Errorf("unexpected intersections")
	}
	if Set(all).Len() != 2 {
		t.Errorf("expected a set of 2 sites")
	}
}
