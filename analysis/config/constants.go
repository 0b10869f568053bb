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

package config

const (
	// CallGraphCHA selects the class hierarchy analysis call graph
	CallGraphCHA = "cha"
	// CallGraphRTA selects the rapid type analysis call graph
	CallGraphRTA = "rta"
	// CallGraphOFA selects the call graph built from the points-to (object flow) results
	CallGraphOFA = "ofa"

	// DefUseConservative treats every inter-procedural def-use pair as reaching
	DefUseConservative = "conservative"
	// DefUseThreadAware rejects inter-procedural pairs proven to run in different single threads
	DefUseThreadAware = "thread-aware"

	// DefaultThreadClass is the name of the thread base class
	DefaultThreadClass = "java.lang.Thread"
	// DefaultRunnableInterface is the name of the interface of objects a thread may delegate its run entry to
	DefaultRunnableInterface = "java.lang.Runnable"
	// DefaultStartMethod is the sub-signature of the thread start operation
	DefaultStartMethod = "start()void"
	// DefaultRunMethod is the sub-signature of the thread run entry
	DefaultRunMethod = "run()void"
	// DefaultRootMethod is the regex matched against method names to find the roots when none are configured
	DefaultRootMethod = "^main$"
)
