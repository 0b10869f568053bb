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

package ofa

import (
	"testing"

	"github.com/rvprasad/Indus-archive-sub007/internal/analysistest"
)

func TestNoOracle(t *testing.T) {
	desc, cfg := analysistest.LoadTest(t, "dispatch")
	env := analysistest.Env(t, desc, cfg)
	env.Oracle = nil
	if err := analysistest.Build(New(env), desc.Program); err == nil {
		t.Errorf("ofa without an oracle should fail")
	}
}

// TestUnreachableAllocation checks that objects allocated by unreachable methods do not create edges, even when the
// oracle reports them
func TestUnreachableAllocation(t *testing.T) {
	desc, cfg := analysistest.LoadTest(t, "dispatch-typebased")
	b := New(analysistest.Env(t, desc, cfg))
	if err := analysistest.Build(b, desc.Program); err != nil {
		t.Fatalf("ofa failed: %v", err)
	}
	ci := b.CallInfo()
	for sig, want := range map[string]bool{
		"app.Square.draw()void":   true,
		"app.Circle.draw()void":   true,
		"app.Triangle.draw()void": false,
		"app.Main.unused()void":   false,
	} {
		if got := ci.IsReachable(analysistest.Method(t, desc.Program, sig)); got != want {
			t.Errorf("%s reachable = %v, want %v", sig, got, want)
		}
	}
}

// TestLateAllocation checks that a call on an object allocated by a method visited later gets its edge
func TestLateAllocation(t *testing.T) {
	desc, cfg := analysistest.LoadTest(t, "late")
	b := New(analysistest.Env(t, desc, cfg))
	if err := analysistest.Build(b, desc.Program); err != nil {
		t.Fatalf("ofa failed: %v", err)
	}
	if !b.CallInfo().IsReachable(analysistest.Method(t, desc.Program, "app.Job.run()void")) {
		t.Errorf("Job.run should be reachable once make is visited")
	}
}
