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

package funcutil

import "golang.org/x/tools/container/intsets"

// SparseOf returns a new sparse set containing id(x) for every x in a.
func SparseOf[T any](a []T, id func(T) int) *intsets.Sparse {
	s := &intsets.Sparse{}
	for _, x := range a {
		s.Insert(id(x))
	}
	return s
}

// SparseElems returns the elements of s mapped through f, in increasing order of the set elements.
// Elements for which f returns false are skipped.
func SparseElems[T any](s *intsets.Sparse, f func(int) (T, bool)) []T {
	if s == nil {
		return nil
	}
	var res []T
	for _, i := range s.AppendTo(nil) {
		if x, ok := f(i); ok {
			res = append(res, x)
		}
	}
	return res
}
