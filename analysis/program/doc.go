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

// Package program provides the representation of the object-oriented programs the analyses run on: types with their
// hierarchy, methods, statements and the values statements read and write.
//
// A [Program] is an arena: every type, field, method and statement it owns gets a dense integer identifier that
// indexes vectors and sparse sets in the analyses. Programs are built either through the builder methods of
// [Program] and [Method] or by decoding a yaml description with [Decode].
//
// Values are visited through a [ValueOp], which has one method per kind of value. Embed [NoopOp] to implement only
// the methods of the kinds of interest.
package program
