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

package pointsto

import (
	"fmt"

	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
	"github.com/rvprasad/Indus-archive-sub007/internal/funcutil"
)

// Table is an oracle answering from explicit facts bound to the locals of methods. The facts are flow-insensitive:
// a local denotes the same sites at every statement of its method.
type Table struct {
	sites  *Sites
	locals map[*program.Local][]*AllocSite
}

// NewTable returns an empty table over the sites provided
func NewTable(sites *Sites) *Table {
	return &Table{sites: sites, locals: map[*program.Local][]*AllocSite{}}
}

// FromFacts returns a table with the facts of a program description
func FromFacts(sites *Sites, facts []program.PointsToFact) (*Table, error) {
	t := NewTable(sites)
	for _, fact := range facts {
		for _, stmt := range fact.Allocs {
			site := sites.ByStmt(stmt)
			if site == nil {
				return nil, fmt.Errorf("statement %s does not allocate", stmt)
			}
			t.Bind(fact.Local, site)
		}
	}
	return t, nil
}

// ForDescription returns the oracle of a program description: a table of its facts if it has any, the type-based
// oracle otherwise
func ForDescription(desc *program.Description) (Oracle, error) {
	sites := CollectSites(desc.Program)
	if len(desc.PointsTo) == 0 {
		return NewTypeBased(sites), nil
	}
	table, err := FromFacts(sites, desc.PointsTo)
	if err != nil {
		return nil, fmt.Errorf("invalid points-to facts: %w", err)
	}
	return table, nil
}

// Bind adds the sites to the points-to set of the local
func (t *Table) Bind(l *program.Local, sites ...*AllocSite) {
	cur := append(t.locals[l], sites...)
	funcutil.SortByID(cur, func(a *AllocSite) int { return int(a.ID) })
	t.locals[l] = funcutil.Dedup(cur)
}

// Values returns the sites bound to v if v is a local, and the site allocated at ctx if v is an allocation
func (t *Table) Values(v program.Value, ctx program.Context) []*AllocSite {
	target := targetOf(v, ctx)
	switch {
	case target.local != nil:
		return t.locals[target.local]
	case target.alloc && ctx.Stmt != nil:
		if site := t.sites.ByStmt(ctx.Stmt); site != nil {
			return []*AllocSite{site}
		}
	}
	return nil
}

// ValuesForThis returns the sites bound to the receiver of ctx.Method
func (t *Table) ValuesForThis(ctx program.Context) []*AllocSite {
	this := ctx.Method.This()
	if this == nil {
		return nil
	}
	return t.locals[this]
}

var _ Oracle = (*Table)(nil)
