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

package program

import (
	"fmt"
)

// StmtKind is the kind of a statement
type StmtKind int

const (
	// AssignStmt writes the value of its RHS to its LHS
	AssignStmt StmtKind = iota
	// InvokeStmt calls a method and discards the result
	InvokeStmt
	// ReturnStmt returns from the method, with an optional RHS
	ReturnStmt
	// GotoStmt jumps to its target
	GotoStmt
	// IfStmt jumps to its target or falls through depending on its RHS
	IfStmt
	// NopStmt does nothing
	NopStmt
)

func (k StmtKind) String() string {
	switch k {
	case AssignStmt:
		return "assign"
	case InvokeStmt:
		return "invoke"
	case ReturnStmt:
		return "return"
	case GotoStmt:
		return "goto"
	case IfStmt:
		return "if"
	case NopStmt:
		return "nop"
	default:
		return "unknown"
	}
}

// Stmt is a statement of a method
type Stmt struct {
	ID     StmtID
	Kind   StmtKind
	Method *Method

	// Index is the position of the statement in its method
	Index int

	// LHS is the value written by assignments, nil for all other kinds
	LHS Value

	// RHS is the value read by assignments, the call of invoke statements, the condition of if statements and the
	// returned value of return statements
	RHS Value

	// Label is empty unless the statement has been labelled
	Label string

	target *Stmt
}

// SetTarget sets the jump target of goto and if statements. SetTarget panics if target is in another method.
func (s *Stmt) SetTarget(target *Stmt) {
	if target != nil && target.Method != s.Method {
		panic(fmt.Sprintf("jump from %s to a statement of %s", s.Method, target.Method))
	}
	s.target = target
}

// Target returns the jump target of goto and if statements
func (s *Stmt) Target() *Stmt {
	return s.target
}

// SetLabel labels the statement. Labels are unique per method; SetLabel panics otherwise.
func (s *Stmt) SetLabel(label string) *Stmt {
	if other, ok := s.Method.labels[label]; ok && other != s {
		panic(fmt.Sprintf("label %s already used in %s", label, s.Method))
	}
	s.Label = label
	s.Method.labels[label] = s
	return s
}

// Succs returns the control flow successors of s: the jump target of goto statements, the target and the next
// statement of if statements, nothing for returns and the next statement otherwise.
func (s *Stmt) Succs() []*Stmt {
	var next *Stmt
	if s.Index+1 < len(s.Method.stmts) {
		next = s.Method.stmts[s.Index+1]
	}
	var res []*Stmt
	switch s.Kind {
	case ReturnStmt:
		return nil
	case GotoStmt:
		if s.target != nil {
			res = append(res, s.target)
		}
		return res
	case IfStmt:
		if s.target != nil {
			res = append(res, s.target)
		}
	}
	if next != nil && next != s.target {
		res = append(res, next)
	}
	return res
}

// InvokeExpr returns the call in s, or nil
func (s *Stmt) InvokeExpr() *InvokeExpr {
	if e, ok := s.RHS.(*InvokeExpr); ok && (s.Kind == InvokeStmt || s.Kind == AssignStmt) {
		return e
	}
	return nil
}

// Defines returns true if v is the value written by s
func (s *Stmt) Defines(v Value) bool {
	return s.LHS != nil && s.LHS == v
}

// Values returns the values in s in evaluation order: the values read by the RHS, then the components of the LHS and
// the LHS itself. Compound values come after their components.
func (s *Stmt) Values() []Value {
	c := &componentCollector{}
	if s.RHS != nil {
		c.collect(s.RHS)
	}
	if s.LHS != nil {
		c.collect(s.LHS)
	}
	return c.values
}

// Text returns the statement as it would be written in the source
func (s *Stmt) Text() string {
	switch s.Kind {
	case AssignStmt:
		return fmt.Sprintf("%s = %s", s.LHS, s.RHS)
	case InvokeStmt:
		return s.RHS.String()
	case ReturnStmt:
		if s.RHS == nil {
			return "return"
		}
		return "return " + s.RHS.String()
	case GotoStmt:
		return "goto " + s.targetName()
	case IfStmt:
		return fmt.Sprintf("if %s goto %s", s.RHS, s.targetName())
	default:
		return "nop"
	}
}

func (s *Stmt) targetName() string {
	if s.target == nil {
		return "?"
	}
	if s.target.Label != "" {
		return s.target.Label
	}
	return fmt.Sprintf("%d", s.target.Index)
}

func (s *Stmt) String() string {
	return fmt.Sprintf("%s#%d: %s", s.Method, s.Index, s.Text())
}
