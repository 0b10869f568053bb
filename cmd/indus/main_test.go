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
package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
)

const testdata = "../../internal/analysistest/testdata/"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"indus"}, args...))
	return out.String(), err
}

func TestCommands(t *testing.T) {
	common := []string{
		"--program=" + testdata + "threads.yaml",
		"--config=" + testdata + "threads.config.yaml",
		"--color=false",
	}
	for _, c := range []struct {
		command string
		extra   []string
		want    []string
	}{
		{"callgraph", nil, []string{"call graph ofa:", "app.Main.main()void"}},
		{"threads", nil, []string{"4 threads, 2 single and 2 multi creation sites", "[multi]"}},
		{"defuse", nil, []string{"def-use (thread-aware): 1 pairs"}},
		{"defuse", []string{"--strategy=conservative"}, []string{"def-use (conservative): 3 pairs"}},
		{"cycles", nil, []string{"elementary cycles: 0"}},
		{"path", []string{"--from=app.Main.main()void", "--to=app.Util.log()void"},
			[]string{"app.Main.main()void -> app.WorkerA.run()void -> app.Util.log()void"}},
		{"callgraph", []string{"--metrics"}, []string{"indus_reachable_methods"}},
	} {
		t.Run(c.command, func(t *testing.T) {
			out, err := run(t, append(append([]string{c.command}, common...), c.extra...)...)
			if err != nil {
				t.Fatalf("%s failed: %v\n%s", c.command, err, out)
			}
			for _, want := range c.want {
				if !strings.Contains(out, want) {
					t.Errorf("output of %s does not contain %q:\n%s", c.command, want, out)
				}
			}
		})
	}
}

func TestUnknownMode(t *testing.T) {
	_, err := run(t, "callgraph", "--program="+testdata+"dispatch.yaml", "--mode=vta", "--color=false")
	if !errors.Is(err, config.ErrUnknownMode) {
		t.Errorf("expected an unknown mode error, got %v", err)
	}
}

func TestMissingProgram(t *testing.T) {
	if _, err := run(t, "threads", "--program="+testdata+"missing.yaml"); err == nil {
		t.Errorf("expected an error for a missing program")
	}
	if _, err := run(t, "threads", "--color=false"); !errors.Is(err, errNoProgram) {
		t.Errorf("expected the no program error, got %v", err)
	}
}

func TestProgramOfConfig(t *testing.T) {
	out, err := run(t, "threads", "--config="+testdata+"threads.config.yaml", "--color=false")
	if err != nil {
		t.Fatalf("threads failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "4 threads, 2 single and 2 multi creation sites") {
		t.Errorf("the program of the config should be analyzed, got:\n%s", out)
	}
}
