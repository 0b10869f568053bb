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
	"sync"

	"github.com/rvprasad/Indus-archive-sub007/analysis/program"
)

// TypeBased is an oracle in which a value of static type T may denote every allocation site of the program whose
// type is a subtype of T.
type TypeBased struct {
	sites *Sites
	mu    sync.Mutex
	cache map[*program.Type][]*AllocSite
}

// NewTypeBased returns a type-based oracle over the sites provided
func NewTypeBased(sites *Sites) *TypeBased {
	return &TypeBased{sites: sites, cache: map[*program.Type][]*AllocSite{}}
}

func (o *TypeBased) sitesOf(t *program.Type) []*AllocSite {
	if t == nil || !t.IsReference() {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if res, ok := o.cache[t]; ok {
		return res
	}
	var res []*AllocSite
	for _, site := range o.sites.All() {
		if site.Type.IsSubtypeOf(t) {
			res = append(res, site)
		}
	}
	o.cache[t] = res
	return res
}

// Values returns the sites whose type is a subtype of the static type of v, and the site allocated at ctx if v is
// an allocation
func (o *TypeBased) Values(v program.Value, ctx program.Context) []*AllocSite {
	target := targetOf(v, ctx)
	switch {
	case target.local != nil:
		return o.sitesOf(target.local.Typ)
	case target.alloc && ctx.Stmt != nil:
		if site := o.sites.ByStmt(ctx.Stmt); site != nil {
			return []*AllocSite{site}
		}
	}
	return nil
}

// ValuesForThis returns the sites whose type is a subtype of the declaring type of ctx.Method
func (o *TypeBased) ValuesForThis(ctx program.Context) []*AllocSite {
	if ctx.Method.IsStatic() {
		return nil
	}
	return o.sitesOf(ctx.Method.Owner)
}

var _ Oracle = (*TypeBased)(nil)
