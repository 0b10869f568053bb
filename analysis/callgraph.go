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
	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph"
	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph/cha"
	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph/ofa"
	"github.com/rvprasad/Indus-archive-sub007/analysis/callgraph/rta"
)

// NewBuilder returns the call graph builder of the mode for the environment provided.
func NewBuilder(mode callgraph.Mode, env callgraph.Env) callgraph.Builder {
	switch mode {
	case callgraph.CHA:
		// Every override of the called method under the static receiver type is a callee.
		// See "Optimization of Object-Oriented Programs Using Static Class Hierarchy Analysis",
		// J. Dean, D. Grove, and C. Chambers, ECOOP'95.
		return cha.New(env)
	case callgraph.OFA:
		// The receivers are the objects the points-to oracle reports, restricted to the ones allocated by reachable
		// methods.
		return ofa.New(env)
	default:
		// See "Fast Static Analysis of C++ Virtual Function Calls", D. Bacon and P. Sweeney, OOPSLA'96.
		return rta.New(env)
	}
}
