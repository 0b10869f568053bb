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
	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

const (
	globalConfig  = "config"
	globalProgram = "program"
	globalMode    = "mode"
	globalVerbose = "verbose"
	globalMetrics = "metrics"
	globalColor   = "color"

	defUseStrategy = "strategy"

	pathFrom = "from"
	pathTo   = "to"
)

var (
	commonFlags = []cli.Flag{
		&cli.StringFlag{
			Name:  globalConfig,
			Usage: "Path to the yaml or toml configuration of the analyses. The default configuration is used when empty.",
		},
		&cli.StringFlag{
			Name:  globalProgram,
			Usage: "Path to the yaml description of the program to analyze. Overrides the program of the configuration.",
		},
		&cli.StringFlag{
			Name:  globalMode,
			Usage: "Call graph construction strategy: cha, rta or ofa. Overrides the configuration.",
		},
		&cli.BoolFlag{
			Name:    globalVerbose,
			Aliases: []string{"v"},
			Usage:   "Log the details of the analyses on standard error",
		},
		&cli.BoolFlag{
			Name:  globalMetrics,
			Usage: "Print the metrics of the analyses in the Prometheus text format",
		},
		&cli.BoolFlag{
			Name:  globalColor,
			Value: true,
			Usage: "Color the output when it is a terminal",
		},
	}

	defUseFlags = []cli.Flag{
		&cli.StringFlag{
			Name:  defUseStrategy,
			Usage: "Def-use strategy: conservative or thread-aware. Overrides the configuration.",
		},
	}

	pathFlags = []cli.Flag{
		&cli.StringFlag{
			Name:     pathFrom,
			Usage:    "Signature of the first method of the chain, e.g. app.Main.main()void",
			Required: true,
		},
		&cli.StringFlag{
			Name:     pathTo,
			Usage:    "Signature of the last method of the chain",
			Required: true,
		},
	}
)

func mergeFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}
