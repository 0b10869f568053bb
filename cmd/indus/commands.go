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

	"github.com/rvprasad/Indus-archive-sub007/analysis"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/internal/formatutil"
	"github.com/urfave/cli/v2"
)

func printCallGraph(c *cli.Context, e *analysis.Engine) error {
	w := c.App.Writer
	info := e.CallGraph
	stats := info.Stats()
	fmt.Fprintf(w, "%s %s: %d reachable methods, %d call edges, %d self loops, digest %016x\n",
		formatutil.Bold("call graph"), e.Builder.Mode(), len(info.Reachable()), stats.Size, stats.Loops,
		info.Digest())
	for _, m := range info.MethodsInTopologicalOrder(true) {
		fmt.Fprintf(w, "%s\n", formatutil.Green(formatutil.SanitizeRepr(m)))
		for _, t := range info.Callees(m) {
			fmt.Fprintf(w, "  #%d -> %s\n", t.Stmt.Index, formatutil.SanitizeRepr(t.Method))
		}
	}
	return nil
}

func printThreads(c *cli.Context, e *analysis.Engine) error {
	w := c.App.Writer
	g := e.Threads
	fmt.Fprintf(w, "%s: %d threads, %d single and %d multi creation sites\n", formatutil.Bold("threads"),
		len(g.Threads()), len(g.SingleSites()), len(g.MultiSites()))
	for _, t := range g.Threads() {
		multiplicity := formatutil.Green("single")
		if g.IsMultiThread(t) {
			multiplicity = formatutil.Yellow("multi")
		}
		fmt.Fprintf(w, "%s [%s]\n", formatutil.SanitizeRepr(t), multiplicity)
		for _, m := range g.Closure(t) {
			fmt.Fprintf(w, "  %s\n", formatutil.SanitizeRepr(m))
		}
	}
	return nil
}

func printDefUse(c *cli.Context, e *analysis.Engine) error {
	w := c.App.Writer
	pairs := e.DefUse.Pairs()
	fmt.Fprintf(w, "%s (%s): %d pairs\n", formatutil.Bold("def-use"), e.Config.DefUseStrategy, len(pairs))
	for _, p := range pairs {
		fmt.Fprintf(w, "%s -> %s\n", formatutil.Red(formatutil.SanitizeRepr(p.Def)),
			formatutil.Cyan(formatutil.SanitizeRepr(p.Use)))
	}
	return nil
}

func printCycles(c *cli.Context, e *analysis.Engine) error {
	w := c.App.Writer
	info := e.CallGraph
	for _, scc := range info.SCCs(true) {
		if len(scc) == 1 && !info.InCycle(scc[0]) {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", formatutil.Bold("component"), methodList(scc))
	}
	cycles := info.Cycles()
	fmt.Fprintf(w, "%s: %d\n", formatutil.Bold("elementary cycles"), len(cycles))
	for _, cycle := range cycles {
		fmt.Fprintf(w, "  %s\n", methodList(cycle))
	}
	return nil
}

func printPath(c *cli.Context, e *analysis.Engine) error {
	from := e.Program.MethodBySignature(c.String(pathFrom))
	to := e.Program.MethodBySignature(c.String(pathTo))
	if from == nil || to == nil {
		return fmt.Errorf("no method %s or %s in the program: %w", c.String(pathFrom), c.String(pathTo),
			program.ErrUnknownName)
	}
	chain := e.CallGraph.CallChain(from, to)
	if chain == nil {
		fmt.Fprintf(c.App.Writer, "%s is not reachable from %s\n", to, from)
		return nil
	}
	fmt.Fprintln(c.App.Writer, methodList(chain))
	return nil
}

func methodList(ms []*program.Method) string {
	s := ""
	for i, m := range ms {
		if i > 0 {
			s += " -> "
		}
		s += formatutil.SanitizeRepr(m)
	}
	return s
}
