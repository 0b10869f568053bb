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
	"github.com/rvprasad/Indus-archive-sub007/analysis/config"
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
)

// FindRoots returns the static methods with a body that the configuration designates as roots, ordered by identifier
func FindRoots(p *program.Program, cfg *config.Config) []*program.Method {
	var roots []*program.Method
	for _, m := range p.Methods() {
		if m.IsStatic() && m.HasBody() && cfg.IsRoot(m.Owner.Name, m.Name, m.SubSignature()) {
			roots = append(roots, m)
		}
	}
	return roots
}
