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

package rta

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rvprasad/Indus-archive-sub007/internal/analysistest"
)

func TestMonotoneSteps(t *testing.T) {
	for _, name := range []string{"dispatch", "threads"} {
		desc, cfg := analysistest.LoadTest(t, name)
		b := New(analysistest.Env(t, desc, cfg))
		lastReachable, lastInstantiated, steps := 0, 0, 0
		b.OnStep = func(iteration, reachable, instantiated int) {
			steps++
			if iteration != steps {
				t.Errorf("%s: iteration %d reported as %d", name, steps, iteration)
			}
			if reachable < lastReachable || instantiated < lastInstantiated {
				t.Errorf("%s: sizes decreased from (%d, %d) to (%d, %d)", name,
					lastReachable, lastInstantiated, reachable, instantiated)
			}
			lastReachable, lastInstantiated = reachable, instantiated
		}
		if err := analysistest.Build(b, desc.Program); err != nil {
			t.Fatalf("%s: rta failed: %v", name, err)
		}
		if steps != b.CallInfo().NumReachable() {
			t.Errorf("%s: every reachable method should be visited once, got %d steps for %d methods", name,
				steps, b.CallInfo().NumReachable())
		}
		if lastInstantiated != len(b.Instantiated) {
			t.Errorf("%s: %d instantiated types reported, %d recorded", name, lastInstantiated, len(b.Instantiated))
		}
	}
}

func TestInstantiated(t *testing.T) {
	desc, cfg := analysistest.LoadTest(t, "dispatch")
	b := New(analysistest.Env(t, desc, cfg))
	if err := analysistest.Build(b, desc.Program); err != nil {
		t.Fatalf("rta failed: %v", err)
	}
	var got []string
	for _, typ := range b.Instantiated {
		got = append(got, typ.Name)
	}
	if diff := cmp.Diff([]string{"app.Square", "app.Circle"}, got); diff != "" {
		t.Errorf("instantiated types mismatch (-want +got):\n%s", diff)
	}
	b.Reset()
	if b.Instantiated != nil {
		t.Errorf("Reset should drop the instantiated types")
	}
}

// TestPendingEdge checks that a call visited before the allocation of its receiver type gets its edge when the type
// is instantiated later
func TestPendingEdge(t *testing.T) {
	desc, cfg := analysistest.LoadTest(t, "late")
	b := New(analysistest.Env(t, desc, cfg))
	if err := analysistest.Build(b, desc.Program); err != nil {
		t.Fatalf("rta failed: %v", err)
	}
	run := analysistest.Method(t, desc.Program, "app.Job.run()void")
	if !b.CallInfo().IsReachable(run) {
		t.Errorf("Job.run should be reachable once make allocates a Job")
	}
	callers := b.CallInfo().CallersOf(run)
	if len(callers) != 1 || callers[0].Method.Name != "main" {
		t.Errorf("Job.run should be called by main only, got %v", callers)
	}
}
