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

package callgraph

import (
	"fmt"

	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
	"github.com/rvprasad/Indus-archive-sub007/analysis/traversal"
)

// Mode is the strategy used to build the call graph
type Mode int

const (
	// CHA is the class hierarchy analysis: every override of the called method in the hierarchy under the static
	// receiver type is a callee
	CHA Mode = iota
	// RTA is the rapid type analysis: CHA restricted to the receiver types instantiated in reachable methods
	RTA
	// OFA resolves the calls on the objects the points-to oracle reports for each receiver
	OFA
)

func (m Mode) String() string {
	switch m {
	case CHA:
		return config.CallGraphCHA
	case RTA:
		return config.CallGraphRTA
	case OFA:
		return config.CallGraphOFA
	default:
		return "unknown"
	}
}

// ParseMode returns the mode named s in a configuration
func ParseMode(s string) (Mode, error) {
	switch s {
	case config.CallGraphCHA:
		return CHA, nil
	case config.CallGraphRTA:
		return RTA, nil
	case config.CallGraphOFA:
		return OFA, nil
	default:
		return 0, fmt.Errorf("callgraph %q: %w", s, config.ErrUnknownMode)
	}
}

// A Builder builds a CallInfo from the facts it records while the traversal visits the program.
//
// The life cycle of a builder is Reset, Hookup, the traversal of the methods, Unhook and Consolidate. CallInfo
// returns the result of the last Consolidate.
type Builder interface {
	// Reset drops everything the builder has recorded or computed
	Reset()

	// Hookup registers the builder with the traversal controller
	Hookup(ctrl *traversal.Controller)

	// Unhook removes the registrations of the builder from the traversal controller
	Unhook(ctrl *traversal.Controller)

	// Consolidate computes the reachable methods and the call edges from the roots. Calling Consolidate again without
	// Reset gives the same result.
	Consolidate() error

	// CallInfo returns the result of the last call to Consolidate
	CallInfo() *CallInfo

	// Mode returns the strategy of the builder
	Mode() Mode
}
