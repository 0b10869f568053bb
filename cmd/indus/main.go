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
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const usage = `Indus: call graph, thread and def-use analyses of object-oriented programs
Examples:
  Print the call graph: indus callgraph --program=prog.yaml --mode=rta
  Print the def-use pairs: indus defuse --config=config.yaml --program=prog.yaml`

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "indus",
		Usage:     usage,
		Version:   version,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			{
				Name:   "callgraph",
				Usage:  "Print the reachable methods and the call edges",
				Flags:  commonFlags,
				Action: withEngine(printCallGraph),
			},
			{
				Name:   "threads",
				Usage:  "Print the threads, their creation sites and their multiplicity",
				Flags:  commonFlags,
				Action: withEngine(printThreads),
			},
			{
				Name:   "defuse",
				Usage:  "Print the aliased def-use pairs",
				Flags:  mergeFlags(commonFlags, defUseFlags),
				Action: withEngine(printDefUse),
			},
			{
				Name:   "cycles",
				Usage:  "Print the strongly connected components and the elementary cycles of the call graph",
				Flags:  commonFlags,
				Action: withEngine(printCycles),
			},
			{
				Name:   "path",
				Usage:  "Print a shortest call chain between two methods",
				Flags:  mergeFlags(commonFlags, pathFlags),
				Action: withEngine(printPath),
			},
		},
	}
}
