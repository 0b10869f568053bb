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

/*
Package config provides a simple way to manage configuration files.

Use [Load](filename) to load a configuration from a specific filename, or [LoadBytes] to load a configuration from
memory.

A config file should be in yaml or toml format. The top-level fields can be any of the fields defined in the Config
struct type. The other fields  are defined by the types of the fields of [Config] and nested struct types.
For example, a valid config file is as follows:

	options:
	  log-level: 4
	  callgraph: rta
	  defuse-strategy: thread-aware

	roots:
	  - class: "^Main$"
	    method: "^main$"

	threading:
	  thread-class: java.lang.Thread
	  start-method: start()void

# Identifying code elements

The config uses [CodeIdentifier] to identify methods. For example, the roots of the call graph are CodeIdentifiers
which identify specific methods in specific classes.
An important feature of the code identifiers is that the string specifications are seen as regexes if they can be
compiled to regexes, otherwise they are strings.

# Defaults

Every option that is not set is given its default value by [NewDefault]: the rapid type analysis call graph, the
conservative def-use strategy, Info logging and the Java threading model (java.lang.Thread, java.lang.Runnable,
start()void and run()void).
*/
package config
