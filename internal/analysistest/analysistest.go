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

// Package analysistest loads the programs described in testdata for the tests of the analyses, and extracts the
// results they expect from the labels of their statements.
package analysistest

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph"
	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
	"github.com/rvprasad/Indus-archive-sub007/analysis/pointsto"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/analysis/traversal"
)

//go:embed testdata
var testdata embed.FS

// LoadTest loads the program described in testdata/<name>.yaml, with the configuration in
// testdata/<name>.config.yaml if there is one, and the default configuration otherwise.
func LoadTest(t *testing.T, name string) (*program.Description, *config.Config) {
	t.Helper()
	b, err := testdata.ReadFile("testdata/" + name + ".yaml")
	if err != nil {
		t.Fatalf("no test program %s: %v", name, err)
	}
	desc, err := program.Decode(b)
	if err != nil {
		t.Fatalf("error decoding test program %s: %v", name, err)
	}
	cfg := config.NewDefault()
	if cb, err := testdata.ReadFile("testdata/" + name + ".config.yaml"); err == nil {
		if cfg, err = config.LoadBytes(cb); err != nil {
			t.Fatalf("error loading config of %s: %v", name, err)
		}
	}
	return desc, cfg
}

// Oracle returns the points-to oracle of the description: a table of its facts if it has any, the type-based oracle
// otherwise
func Oracle(t *testing.T, desc *program.Description) pointsto.Oracle {
	t.Helper()
	oracle, err := pointsto.ForDescription(desc)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return oracle
}

// Env returns the environment of the call graph builders for the test program, with the roots and the threading model
// of cfg
func Env(t *testing.T, desc *program.Description, cfg *config.Config) callgraph.Env {
	t.Helper()
	return callgraph.Env{
		Program:   desc.Program,
		Oracle:    Oracle(t, desc),
		Roots:     callgraph.FindRoots(desc.Program, cfg),
		Threading: cfg.Threading,
		Logger:    config.NewLogGroup(cfg),
	}
}

// Bodies returns the methods of p that have a body
func Bodies(p *program.Program) []*program.Method {
	var res []*program.Method
	for _, m := range p.Methods() {
		if m.HasBody() {
			res = append(res, m)
		}
	}
	return res
}

// Build traverses the methods of p with a body for b, and consolidates b
func Build(b callgraph.Builder, p *program.Program) error {
	ctrl := traversal.NewController()
	b.Hookup(ctrl)
	ctrl.Process(Bodies(p))
	b.Unhook(ctrl)
	return b.Consolidate()
}

// Method returns the method with signature sig, failing the test if there is none
func Method(t *testing.T, p *program.Program, sig string) *program.Method {
	t.Helper()
	m := p.MethodBySignature(sig)
	if m == nil {
		t.Fatalf("no method %s in the test program", sig)
	}
	return m
}

// Stmt returns the statement labelled label in the method with signature sig, failing the test if there is none
func Stmt(t *testing.T, p *program.Program, sig string, label string) *program.Stmt {
	t.Helper()
	s := Method(t, p, sig).StmtByLabel(label)
	if s == nil {
		t.Fatalf("no statement %s in %s", label, sig)
	}
	return s
}

// Names returns the signatures of the methods
func Names(ms []*program.Method) []string {
	res := make([]string, len(ms))
	for i, m := range ms {
		res[i] = m.Signature()
	}
	return res
}

// DefRegex matches labels of the form "@Def(id1, id2)"
var DefRegex = regexp.MustCompile(`^@Def\(((?:\s*\w\s*,?)+)\)$`)

// UseRegex matches labels of the form "@Use(id1, id2)"
var UseRegex = regexp.MustCompile(`^@Use\(((?:\s*\w\s*,?)+)\)$`)

// SPos is the position of a statement in a test program
type SPos struct {
	Method string
	Index  int
}

func (p SPos) String() string {
	return fmt.Sprintf("%s#%d", p.Method, p.Index)
}

// PosOf returns the position of s
func PosOf(s *program.Stmt) SPos {
	return SPos{Method: s.Method.Signature(), Index: s.Index}
}

// GetExpectedDefUses looks for the statements labelled @Def(id) and @Use(id) and returns the expected def-use relation,
// in the form of a map from use positions to all the def positions that reach that use.
func GetExpectedDefUses(p *program.Program) map[SPos]map[SPos]bool {
	defIds := map[string][]SPos{}
	for _, s := range p.Stmts() {
		if a := DefRegex.FindStringSubmatch(s.Label); len(a) > 1 {
			for _, ident := range strings.Split(a[1], ",") {
				id := strings.TrimSpace(ident)
				defIds[id] = append(defIds[id], PosOf(s))
			}
		}
	}
	use2defs := map[SPos]map[SPos]bool{}
	for _, s := range p.Stmts() {
		a := UseRegex.FindStringSubmatch(s.Label)
		if len(a) <= 1 {
			continue
		}
		for _, ident := range strings.Split(a[1], ",") {
			for _, def := range defIds[strings.TrimSpace(ident)] {
				if _, ok := use2defs[PosOf(s)]; !ok {
					use2defs[PosOf(s)] = map[SPos]bool{}
				}
				use2defs[PosOf(s)][def] = true
			}
		}
	}
	return use2defs
}
