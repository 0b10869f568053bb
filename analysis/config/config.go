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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownMode is returned when the configuration names a call graph mode or a def-use strategy that does not exist
var ErrUnknownMode = errors.New("unknown mode")

// Config contains the roots of the analysis, the options and the description of the threading model of the analyzed
// program.
// If some field is not defined in the config file, it will be given its default value.
// private fields are not populated from a file, but computed after initialization
type Config struct {
	Options `yaml:"options" toml:"options"`

	sourceFile string

	// Program is the path of the yaml description of the program to analyze, relative to the config file
	Program string `yaml:"program" toml:"program"`

	// Roots identifies the methods from which the call graph is built. Defaults to every static method named main.
	Roots []CodeIdentifier `yaml:"roots" toml:"roots"`

	// Threading describes how threads are created and started in the analyzed program
	Threading ThreadingSpec `yaml:"threading" toml:"threading"`
}

// ThreadingSpec names the types and methods that model threads in the analyzed program
type ThreadingSpec struct {
	// ThreadClass is the name of the base class of all threads
	ThreadClass string `yaml:"thread-class" toml:"thread-class"`

	// RunnableInterface is the name of the interface of the objects a thread delegates its run entry to
	RunnableInterface string `yaml:"runnable-interface" toml:"runnable-interface"`

	// StartMethod is the sub-signature of the method that starts a thread
	StartMethod string `yaml:"start-method" toml:"start-method"`

	// RunMethod is the sub-signature of the run entry of threads
	RunMethod string `yaml:"run-method" toml:"run-method"`
}

// Options holds the global options of the analyses
type Options struct {
	// CallGraph is the call graph construction strategy: one of cha, rta or ofa
	CallGraph string `yaml:"callgraph" toml:"callgraph"`

	// DefUseStrategy decides whether inter-procedural def-use pairs are reaching: conservative or thread-aware
	DefUseStrategy string `yaml:"defuse-strategy" toml:"defuse-strategy"`

	// LogLevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level" toml:"log-level"`

	// ReportMetrics makes the tools print the metrics of the analysis in the Prometheus text format
	ReportMetrics bool `yaml:"report-metrics" toml:"report-metrics"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return (&Config{
		sourceFile: "",
		Roots:      nil,
		Threading:  ThreadingSpec{},
		Options: Options{
			CallGraph:      CallGraphRTA,
			DefUseStrategy: DefUseConservative,
			LogLevel:       int(InfoLevel),
			ReportMetrics:  false,
		},
	}).normalize()
}

// Load reads a configuration from a file. The file is read as yaml, and as toml if it is not valid yaml.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg, err := LoadBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	cfg.sourceFile = filename
	return cfg, nil
}

// LoadBytes reads a configuration from the content of a yaml or toml file
func LoadBytes(b []byte) (*Config, error) {
	cfg := &Config{}
	errYaml := yaml.Unmarshal(b, cfg)
	if errYaml != nil {
		cfg = &Config{}
		errToml := toml.Unmarshal(b, cfg)
		if errToml != nil {
			return nil, fmt.Errorf("could not unmarshal config file, not as yaml: %w, not as toml: %v",
				errYaml, errToml)
		}
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize sets the default value of every field that has not been specified and compiles the root identifiers
func (c *Config) normalize() *Config {
	if c.CallGraph == "" {
		c.CallGraph = CallGraphRTA
	}
	if c.DefUseStrategy == "" {
		c.DefUseStrategy = DefUseConservative
	}
	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if c.LogLevel == 0 {
		c.LogLevel = int(InfoLevel)
	}
	if len(c.Roots) == 0 {
		c.Roots = []CodeIdentifier{{Method: DefaultRootMethod}}
	}
	for i, root := range c.Roots {
		c.Roots[i] = compileRegexes(root)
	}
	if c.Threading.ThreadClass == "" {
		c.Threading.ThreadClass = DefaultThreadClass
	}
	if c.Threading.RunnableInterface == "" {
		c.Threading.RunnableInterface = DefaultRunnableInterface
	}
	if c.Threading.StartMethod == "" {
		c.Threading.StartMethod = DefaultStartMethod
	}
	if c.Threading.RunMethod == "" {
		c.Threading.RunMethod = DefaultRunMethod
	}
	return c
}

// Validate returns an error wrapping ErrUnknownMode if the call graph mode or the def-use strategy is not known
func (c Config) Validate() error {
	switch c.CallGraph {
	case CallGraphCHA, CallGraphRTA, CallGraphOFA:
	default:
		return fmt.Errorf("callgraph %q: %w", c.CallGraph, ErrUnknownMode)
	}
	switch c.DefUseStrategy {
	case DefUseConservative, DefUseThreadAware:
	default:
		return fmt.Errorf("defuse-strategy %q: %w", c.DefUseStrategy, ErrUnknownMode)
	}
	return nil
}

// RelPath returns filename path relative to the config source file. Absolute paths are returned unchanged.
func (c Config) RelPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(filepath.Dir(c.sourceFile), filename)
}

// ProgramFile returns the path of the program named by the config, empty if the config does not name one
func (c Config) ProgramFile() string {
	if c.Program == "" {
		return ""
	}
	return c.RelPath(c.Program)
}

// IsRoot returns true if the method identified by its class, name and sub-signature matches one of the roots
func (c Config) IsRoot(class, name, subsig string) bool {
	for _, root := range c.Roots {
		if root.MatchMethod(class, name, subsig) {
			return true
		}
	}
	return false
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}
