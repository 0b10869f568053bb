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
	"errors"
	"fmt"

	"github.com/rvprasad/Indus-archive-sub007/analysis"
	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
	"github.com/rvprasad/Indus-archive-sub007/analysis/pointsto"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/internal/formatutil"
	"github.com/urfave/cli/v2"
)

// errNoProgram is returned when neither the command line nor the config names the program to analyze
var errNoProgram = errors.New("no program to analyze, set --program or the program of the config")

// loadConfig loads the config file from configPath, or returns the default config if configPath is empty. The options
// set on the command line override the ones of the file.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.NewDefault()
	if configPath := c.String(globalConfig); configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}
	if mode := c.String(globalMode); mode != "" {
		cfg.CallGraph = mode
	}
	if strategy := c.String(defUseStrategy); strategy != "" {
		cfg.DefUseStrategy = strategy
	}
	if c.Bool(globalVerbose) {
		cfg.LogLevel = int(config.DebugLevel)
	}
	return cfg, nil
}

// loadEngine loads the program and runs the analyses on it
func loadEngine(c *cli.Context) (*analysis.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	programFile := c.String(globalProgram)
	if programFile == "" {
		programFile = cfg.ProgramFile()
	}
	if programFile == "" {
		return nil, errNoProgram
	}
	desc, err := program.LoadFile(programFile)
	if err != nil {
		return nil, err
	}
	oracle, err := pointsto.ForDescription(desc)
	if err != nil {
		return nil, err
	}
	e, err := analysis.NewEngine(cfg, desc.Program, oracle)
	if err != nil {
		return nil, err
	}
	if err := e.Run(); err != nil {
		return nil, err
	}
	return e, nil
}

// withEngine returns the action that prints the results of the analyses with f, followed by the metrics of the run
// if they are requested
func withEngine(f func(c *cli.Context, e *analysis.Engine) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if !c.Bool(globalColor) {
			formatutil.SetColor(false)
		}
		e, err := loadEngine(c)
		if err != nil {
			return err
		}
		if err := f(c, e); err != nil {
			return err
		}
		if c.Bool(globalMetrics) || e.Config.ReportMetrics {
			fmt.Fprintln(c.App.Writer, formatutil.Faint("# metrics"))
			e.WriteMetrics(c.App.Writer)
		}
		return nil
	}
}
