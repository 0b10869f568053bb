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
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
)

// Statistics are general statistics about a program
type Statistics struct {
	NumberOfTypes           uint
	NumberOfMethods         uint
	NumberOfNonemptyMethods uint
	NumberOfStmts           uint
	NumberOfCallSites       uint
}

// ProgramStatistics returns the Statistics of the methods of p.
func ProgramStatistics(p *program.Program) Statistics {
	result := Statistics{NumberOfTypes: uint(p.NumTypes())}

	for _, m := range p.Methods() {
		result.NumberOfMethods++

		if m.HasBody() {
			result.NumberOfNonemptyMethods++
			for _, s := range m.Stmts() {
				result.NumberOfStmts++
				if s.InvokeExpr() != nil {
					result.NumberOfCallSites++
				}
			}
		}
	}

	return result
}

// bodies returns the methods of p that have a body
func bodies(p *program.Program) []*program.Method {
	var res []*program.Method
	for _, m := range p.Methods() {
		if m.HasBody() {
			res = append(res, m)
		}
	}
	return res
}
