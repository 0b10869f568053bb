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

// Package funcutil contains small generic helpers over slices, map-represented sets and sparse integer sets.
package funcutil

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Map returns a new slice b such for any i <= len(a), b[i] = f(a[i])
func Map[T any, S any](a []T, f func(T) S) []S {
	b := make([]S, 0, len(a))
	for _, x := range a {
		b = append(b, f(x))
	}
	return b
}

// Filter returns the elements x of a such that f(x), in the order they appear in a.
func Filter[T any](a []T, f func(T) bool) []T {
	var b []T
	for _, x := range a {
		if f(x) {
			b = append(b, x)
		}
	}
	return b
}

// Exists returns true when there exists some x in slice a such that f(x), otherwise false.
func Exists[T any](a []T, f func(T) bool) bool {
	for _, x := range a {
		if f(x) {
			return true
		}
	}
	return false
}

// Contains returns true when there is some y in slice a such that x == y
func Contains[T comparable](a []T, x T) bool {
	return slices.Contains(a, x)
}

// Reverse reverses the slice in place
func Reverse[T any](a []T) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}

// SortedKeys returns the keys of m, ordered by the integer key returned by id.
func SortedKeys[K comparable, V any](m map[K]V, id func(K) int) []K {
	keys := maps.Keys(m)
	SortByID(keys, id)
	return keys
}

// SortByID sorts a in place by increasing id(x). The sort is stable.
func SortByID[T any](a []T, id func(T) int) {
	slices.SortStableFunc(a, func(x, y T) bool { return id(x) < id(y) })
}

// Dedup returns a with the repeated elements removed, keeping the first occurrence of each.
func Dedup[T comparable](a []T) []T {
	seen := make(map[T]bool, len(a))
	var b []T
	for _, x := range a {
		if !seen[x] {
			seen[x] = true
			b = append(b, x)
		}
	}
	return b
}
