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

import (
	"fmt"
	"regexp"
)

// A CodeIdentifier identifies methods of the analyzed program. Each non-empty field must match the corresponding
// part of the method; empty fields match anything.
type CodeIdentifier struct {
	// Class is matched against the name of the declaring class
	Class string `yaml:"class" toml:"class"`

	// Method is matched against the name of the method
	Method string `yaml:"method" toml:"method"`

	// SubSignature is matched against the name, parameter types and return type, e.g. "main(java.lang.String[])void"
	SubSignature string `yaml:"sub-signature" toml:"sub-signature"`

	// This will not be part of the yaml config
	computedRegexs *codeIdentifierRegex
}

type codeIdentifierRegex struct {
	classRegex  *regexp.Regexp
	methodRegex *regexp.Regexp
	subsigRegex *regexp.Regexp
}

// compileRegexes compiles the strings in the code identifier into regexes. It compiles all identifiers into regexes
// or none, in which case the fields are compared as plain strings.
func compileRegexes(cid CodeIdentifier) CodeIdentifier {
	classRegex, err := regexp.Compile(cid.Class)
	if err != nil {
		return cid
	}
	methodRegex, err := regexp.Compile(cid.Method)
	if err != nil {
		return cid
	}
	subsigRegex, err := regexp.Compile(cid.SubSignature)
	if err != nil {
		return cid
	}
	cid.computedRegexs = &codeIdentifierRegex{
		classRegex:  classRegex,
		methodRegex: methodRegex,
		subsigRegex: subsigRegex,
	}
	return cid
}

// MatchMethod returns true if the method with the class, name and sub-signature provided is identified by cid.
func (cid CodeIdentifier) MatchMethod(class, name, subsig string) bool {
	if cid.computedRegexs != nil {
		return (cid.Class == "" || cid.computedRegexs.classRegex.MatchString(class)) &&
			(cid.Method == "" || cid.computedRegexs.methodRegex.MatchString(name)) &&
			(cid.SubSignature == "" || cid.computedRegexs.subsigRegex.MatchString(subsig))
	}
	return (cid.Class == "" || cid.Class == class) &&
		(cid.Method == "" || cid.Method == name) &&
		(cid.SubSignature == "" || cid.SubSignature == subsig)
}

func (cid CodeIdentifier) String() string {
	return fmt.Sprintf("{class:%q method:%q sub-signature:%q}", cid.Class, cid.Method, cid.SubSignature)
}
