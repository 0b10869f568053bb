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

// Package threads computes the thread graph of a program: the threads the program may create, the methods each
// thread may execute, and whether each thread creation site may start more than one thread.
//
// A thread is identified by the call that starts it (its creation site), the allocation site of the thread object
// and the runnable type whose run entry the thread executes. Two synthetic threads complete the graph: the
// program-entry thread executes the entry points of the call graph, and the class-initializer thread executes the
// class initializers. Both are started once, at synthetic creation sites without statement.
//
// The methods executed by a thread are its closure: the methods reachable in the call graph from its entries, without
// following the implicit calls of the run entries at the thread starts, since those run in other threads.
package threads
