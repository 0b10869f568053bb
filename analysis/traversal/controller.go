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

// Package traversal walks the methods of a program and calls back the processors registered by the analyses, per
// method, per kind of statement and per kind of value.
package traversal

import (
	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
)

// A MethodProcessor is called once per method, before the statements of the method
type MethodProcessor interface {
	ProcessMethod(m *program.Method)
}

// A StmtProcessor is called on the statements of the kinds it is registered for
type StmtProcessor interface {
	ProcessStmt(s *program.Stmt, ctx program.Context)
}

// Controller dispatches the statements and values of methods to the registered processors. Callbacks are sequential,
// in the order of the methods, then statements, then values in evaluation order.
type Controller struct {
	methodProcs []MethodProcessor
	stmtProcs   map[program.StmtKind][]StmtProcessor
	valueOps    [program.NumValueKinds][]program.ValueOp
	visited     int
}

// NewController returns a controller with no processor registered
func NewController() *Controller {
	return &Controller{stmtProcs: map[program.StmtKind][]StmtProcessor{}}
}

// RegisterMethod registers p to be called on every method
func (c *Controller) RegisterMethod(p MethodProcessor) {
	c.methodProcs = appendUnique(c.methodProcs, p)
}

// UnregisterMethod removes p from the method processors
func (c *Controller) UnregisterMethod(p MethodProcessor) {
	c.methodProcs = remove(c.methodProcs, p)
}

// RegisterStmt registers p to be called on every statement of kind kind
func (c *Controller) RegisterStmt(kind program.StmtKind, p StmtProcessor) {
	c.stmtProcs[kind] = appendUnique(c.stmtProcs[kind], p)
}

// UnregisterStmt removes p from the processors of statements of kind kind
func (c *Controller) UnregisterStmt(kind program.StmtKind, p StmtProcessor) {
	c.stmtProcs[kind] = remove(c.stmtProcs[kind], p)
}

// Register registers op to be called on every value of kind kind
func (c *Controller) Register(kind program.ValueKind, op program.ValueOp) {
	c.valueOps[kind] = appendUnique(c.valueOps[kind], op)
}

// Unregister removes op from the operations on values of kind kind
func (c *Controller) Unregister(kind program.ValueKind, op program.ValueOp) {
	c.valueOps[kind] = remove(c.valueOps[kind], op)
}

// Process visits every statement of every method exactly once
func (c *Controller) Process(methods []*program.Method) {
	for _, m := range methods {
		for _, p := range c.methodProcs {
			p.ProcessMethod(m)
		}
		for _, s := range m.Stmts() {
			c.visited++
			ctx := program.Context{Method: m, Stmt: s}
			for _, p := range c.stmtProcs[s.Kind] {
				p.ProcessStmt(s, ctx)
			}
			for _, v := range s.Values() {
				for _, op := range c.valueOps[v.Kind()] {
					v.Accept(op, ctx)
				}
			}
		}
	}
}

// Visited returns the number of statements visited since the controller was created
func (c *Controller) Visited() int {
	return c.visited
}

func appendUnique[T comparable](a []T, x T) []T {
	for _, y := range a {
		if y == x {
			return a
		}
	}
	return append(a, x)
}

func remove[T comparable](a []T, x T) []T {
	var res []T
	for _, y := range a {
		if y != x {
			res = append(res, y)
		}
	}
	return res
}
