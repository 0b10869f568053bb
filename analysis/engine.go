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
// Package analysis runs the call graph construction, the thread graph and the def-use analysis over a program.
package analysis

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph"
	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph/rta"
	"github.com/rvprasad/Indus-archive-sub007/analysis/cfg"
	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
	"github.com/rvprasad/Indus-archive-sub007/analysis/defuse"
	"github.com/rvprasad/Indus-archive-sub007/analysis/pointsto"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/analysis/threads"
	"github.com/rvprasad/Indus-archive-sub007/analysis/traversal"
)

// Engine holds one run of the analyses over a program. Two engines never share state.
//
// After Run returns without error, the results are read-only and can be queried concurrently. Reset must not be
// called while results are being read. When Run returns an error, the engine should be discarded.
type Engine struct {
	Config  *config.Config
	Logger  *config.LogGroup
	Metrics *metrics.Set
	Program *program.Program
	Oracle  pointsto.Oracle

	Builder   callgraph.Builder
	CallGraph *callgraph.Info
	CFG       *cfg.Reachability
	Threads   *threads.Graph
	DefUse    *defuse.Analyzer

	roots    []*program.Method
	ctrl     *traversal.Controller
	rtaSteps int
}

// NewEngine returns an engine for prog with the points-to oracle provided. The call graph mode, the def-use strategy,
// the roots and the threading model are read from conf.
func NewEngine(conf *config.Config, prog *program.Program, oracle pointsto.Oracle) (*Engine, error) {
	mode, err := callgraph.ParseMode(conf.CallGraph)
	if err != nil {
		return nil, err
	}
	strategy, err := defuse.ParseStrategy(conf.DefUseStrategy)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		Config:    conf,
		Logger:    config.NewLogGroup(conf),
		Metrics:   metrics.NewSet(),
		Program:   prog,
		Oracle:    oracle,
		CallGraph: &callgraph.Info{},
		CFG:       cfg.New(),
		ctrl:      traversal.NewController(),
	}
	e.roots = callgraph.FindRoots(prog, conf)
	if len(e.roots) == 0 {
		e.Logger.Warnf("no method of the program matches the roots of the configuration")
	}
	e.Builder = NewBuilder(mode, callgraph.Env{
		Program:   prog,
		Oracle:    oracle,
		Roots:     e.roots,
		Threading: conf.Threading,
		Logger:    e.Logger,
	})
	if b, ok := e.Builder.(*rta.Builder); ok {
		b.OnStep = func(int, int, int) { e.rtaSteps++ }
	}
	e.Threads = threads.New(threads.Env{
		Program:   prog,
		Oracle:    oracle,
		CallGraph: e.CallGraph,
		CFG:       e.CFG,
		Threading: conf.Threading,
		Roots:     e.roots,
		Logger:    e.Logger,
	})
	e.DefUse = defuse.New(defuse.Env{
		Oracle:   oracle,
		CFG:      e.CFG,
		Threads:  e.Threads,
		Strategy: strategy,
		Logger:   e.Logger,
	})
	return e, nil
}

// Roots returns the methods the call graph is built from
func (e *Engine) Roots() []*program.Method {
	return e.roots
}

// Reset drops the results of every analysis of the engine
func (e *Engine) Reset() {
	e.Builder.Reset()
	e.CallGraph.Reset()
	e.CFG.Reset()
	e.Threads.Reset()
	e.DefUse.Reset()
	e.rtaSteps = 0
}

// Run resets the engine and runs the analyses. The call graph builder visits every method with a body, then the
// thread graph and the def-use analyzer visit the reachable methods.
func (e *Engine) Run() error {
	e.Reset()

	start := time.Now()
	e.Logger.Infof("Building the call graph (%s) from %d roots", e.Builder.Mode(), len(e.roots))
	e.pass(bodies(e.Program), e.Builder)
	if err := e.Builder.Consolidate(); err != nil {
		return fmt.Errorf("call graph construction failed: %w", err)
	}
	if err := e.CallGraph.CreateCallGraphInfo(e.Builder.CallInfo()); err != nil {
		return fmt.Errorf("invalid call graph: %w", err)
	}
	e.phaseDuration("callgraph").UpdateDuration(start)

	start = time.Now()
	e.pass(e.CallGraph.Reachable(), e.Threads, e.DefUse)
	if err := e.Threads.Consolidate(); err != nil {
		return fmt.Errorf("thread graph construction failed: %w", err)
	}
	e.phaseDuration("threads").UpdateDuration(start)

	start = time.Now()
	if err := e.DefUse.Consolidate(); err != nil {
		return fmt.Errorf("def-use analysis failed: %w", err)
	}
	e.phaseDuration("defuse").UpdateDuration(start)

	e.setGauges()
	return nil
}

// hookable is a component that registers with the traversal controller
type hookable interface {
	Hookup(ctrl *traversal.Controller)
	Unhook(ctrl *traversal.Controller)
}

func (e *Engine) pass(methods []*program.Method, components ...hookable) {
	for _, c := range components {
		c.Hookup(e.ctrl)
	}
	e.ctrl.Process(methods)
	for _, c := range components {
		c.Unhook(e.ctrl)
	}
}

func (e *Engine) phaseDuration(phase string) *metrics.Histogram {
	return e.Metrics.GetOrCreateHistogram(fmt.Sprintf("indus_phase_duration_seconds{phase=%q}", phase))
}

func (e *Engine) gauge(name string) *metrics.Gauge {
	return e.Metrics.GetOrCreateGauge(name, nil)
}

func (e *Engine) setGauges() {
	ci := e.Builder.CallInfo()
	e.gauge("indus_reachable_methods").Set(float64(ci.NumReachable()))
	e.gauge("indus_call_edges").Set(float64(ci.NumEdges()))
	e.gauge("indus_rta_iterations").Set(float64(e.rtaSteps))
	e.gauge(`indus_creation_sites{multiplicity="single"}`).Set(float64(len(e.Threads.SingleSites())))
	e.gauge(`indus_creation_sites{multiplicity="multi"}`).Set(float64(len(e.Threads.MultiSites())))
	e.gauge("indus_threads").Set(float64(len(e.Threads.Threads())))
	e.gauge("indus_defuse_pairs").Set(float64(len(e.DefUse.Pairs())))

	stats := ProgramStatistics(e.Program)
	e.gauge("indus_program_methods").Set(float64(stats.NumberOfMethods))
	e.gauge("indus_program_stmts").Set(float64(stats.NumberOfStmts))
	e.gauge("indus_program_call_sites").Set(float64(stats.NumberOfCallSites))
}

// MetricValue returns the value of the gauge name of the last run
func (e *Engine) MetricValue(name string) float64 {
	return e.gauge(name).Get()
}

// WriteMetrics writes the metrics of the last run to w in the Prometheus text format
func (e *Engine) WriteMetrics(w io.Writer) {
	e.Metrics.WritePrometheus(w)
}
