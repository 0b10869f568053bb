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
package analysis

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
	"github.com/rvprasad/Indus-archive-sub007/analysis/defuse"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/internal/analysistest"
	"golang.org/x/exp/slices"
)

func newTestEngine(t *testing.T, name string, edit func(*config.Config)) *Engine {
	t.Helper()
	desc, cfg := analysistest.LoadTest(t, name)
	if edit != nil {
		edit(cfg)
	}
	e, err := NewEngine(cfg, desc.Program, analysistest.Oracle(t, desc))
	if err != nil {
		t.Fatalf("could not create engine: %v", err)
	}
	if err := e.Run(); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	return e
}

func stmtName(s *program.Stmt) string {
	if s.Label != "" {
		return s.Label
	}
	return analysistest.PosOf(s).String()
}

func pairNames(pairs []defuse.Pair) []string {
	res := make([]string, len(pairs))
	for i, p := range pairs {
		res[i] = stmtName(p.Def) + " -> " + stmtName(p.Use)
	}
	slices.Sort(res)
	return res
}

func TestTwoThreadsInALoop(t *testing.T) {
	e := newTestEngine(t, "threads", nil)

	closures := map[string][]*program.Method{}
	for _, th := range e.Threads.Threads() {
		if th.Site.Stmt == nil {
			continue
		}
		switch th.Site.Stmt.Label {
		case "startA", "startB":
			if !e.Threads.IsMulti(th.Site) {
				t.Errorf("%s should be multi", th.Site)
			}
			closures[th.Site.Stmt.Label] = e.Threads.Closure(th)
		case "startTh":
			if e.Threads.IsMulti(th.Site) {
				t.Errorf("%s should be single", th.Site)
			}
		}
	}
	if len(closures) != 2 {
		t.Fatalf("expected the threads of startA and startB, got %v", closures)
	}
	for _, m := range closures["startA"] {
		for _, n := range closures["startB"] {
			if m == n && m.Signature() != "app.Util.log()void" {
				t.Errorf("%s runs in the threads of both startA and startB", m)
			}
		}
	}
	for _, scc := range e.CallGraph.SCCs(true) {
		if len(scc) > 1 || e.CallGraph.InCycle(scc[0]) {
			t.Errorf("unexpected cycle %v", analysistest.Names(scc))
		}
	}
}

func TestDefUseStrategies(t *testing.T) {
	for _, c := range []struct {
		strategy string
		want     []string
	}{
		{
			strategy: config.DefUseThreadAware,
			want:     []string{"def-flag -> use-flag-b"},
		},
		{
			strategy: config.DefUseConservative,
			want: []string{
				"def-flag -> use-flag",
				"def-flag -> use-flag-b",
				"java.lang.Thread.<init>(java.lang.Runnable)void#0 -> java.lang.Thread.run()void#0",
			},
		},
	} {
		t.Run(c.strategy, func(t *testing.T) {
			e := newTestEngine(t, "threads", func(cfg *config.Config) { cfg.DefUseStrategy = c.strategy })
			if diff := cmp.Diff(c.want, pairNames(e.DefUse.Pairs())); diff != "" {
				t.Errorf("def-use pairs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunIsIdempotent(t *testing.T) {
	e := newTestEngine(t, "threads", nil)
	digest := e.CallGraph.Digest()
	pairs := pairNames(e.DefUse.Pairs())
	threads := len(e.Threads.Threads())
	if err := e.Run(); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if e.CallGraph.Digest() != digest {
		t.Errorf("the call graph changed between two runs")
	}
	if diff := cmp.Diff(pairs, pairNames(e.DefUse.Pairs())); diff != "" {
		t.Errorf("def-use pairs changed between two runs (-first +second):\n%s", diff)
	}
	if n := len(e.Threads.Threads()); n != threads {
		t.Errorf("expected %d threads after the second run, got %d", threads, n)
	}
}

func TestMetrics(t *testing.T) {
	e := newTestEngine(t, "threads", nil)
	for name, want := range map[string]float64{
		"indus_threads": 4,
		`indus_creation_sites{multiplicity="multi"}`:  2,
		`indus_creation_sites{multiplicity="single"}`: 2,
		"indus_defuse_pairs":   1,
		"indus_rta_iterations": 0,
	} {
		if got := e.MetricValue(name); got != want {
			t.Errorf("%s: expected %v, got %v", name, want, got)
		}
	}
	if got := e.MetricValue("indus_reachable_methods"); got != float64(len(e.CallGraph.Reachable())) {
		t.Errorf("indus_reachable_methods: got %v for %d reachable methods", got, len(e.CallGraph.Reachable()))
	}
	var buf bytes.Buffer
	e.WriteMetrics(&buf)
	for _, line := range []string{"indus_defuse_pairs 1", `indus_phase_duration_seconds_count{phase="callgraph"} 1`} {
		if !strings.Contains(buf.String(), line) {
			t.Errorf("metrics do not contain %q:\n%s", line, buf.String())
		}
	}
}

func TestRTAIterations(t *testing.T) {
	e := newTestEngine(t, "dispatch", func(cfg *config.Config) { cfg.CallGraph = config.CallGraphRTA })
	if got := e.MetricValue("indus_rta_iterations"); got != float64(len(e.CallGraph.Reachable())) {
		t.Errorf("expected one iteration per reachable method, got %v for %d methods", got,
			len(e.CallGraph.Reachable()))
	}
}

func TestUnknownMode(t *testing.T) {
	desc, cfg := analysistest.LoadTest(t, "dispatch")
	cfg.CallGraph = "vta"
	if _, err := NewEngine(cfg, desc.Program, analysistest.Oracle(t, desc)); !errors.Is(err, config.ErrUnknownMode) {
		t.Errorf("expected an unknown mode error, got %v", err)
	}
}

func TestDefUseScenario(t *testing.T) {
	e := newTestEngine(t, "defuse", func(cfg *config.Config) { cfg.CallGraph = config.CallGraphOFA })
	got := map[analysistest.SPos]map[analysistest.SPos]bool{}
	for _, p := range e.DefUse.Pairs() {
		use := analysistest.PosOf(p.Use)
		if got[use] == nil {
			got[use] = map[analysistest.SPos]bool{}
		}
		got[use][analysistest.PosOf(p.Def)] = true
	}
	if diff := cmp.Diff(analysistest.GetExpectedDefUses(e.Program), got); diff != "" {
		t.Errorf("def-use relation mismatch (-want +got):\n%s", diff)
	}
}

func TestProgramStatistics(t *testing.T) {
	desc, _ := analysistest.LoadTest(t, "dispatch")
	stats := ProgramStatistics(desc.Program)
	if stats.NumberOfNonemptyMethods > stats.NumberOfMethods {
		t.Errorf("more methods with a body than methods: %+v", stats)
	}
	if stats.NumberOfCallSites == 0 || stats.NumberOfCallSites > stats.NumberOfStmts {
		t.Errorf("unexpected number of call sites: %+v", stats)
	}
}
