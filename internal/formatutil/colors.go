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

// Package formatutil manipulates string colors and other formatting operations for the command line tools.
package formatutil

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

var (
	Bold   = Color("\033[1m%s\033[0m")
	Faint  = Color("\033[2m%s\033[0m")
	Red    = Color("\033[1;31m%s\033[0m")
	Green  = Color("\033[1;32m%s\033[0m")
	Yellow = Color("\033[1;33m%s\033[0m")
	Cyan   = Color("\033[1;36m%s\033[0m")
)

// colorEnabled is true when standard output is a terminal. It can be overridden with SetColor.
var colorEnabled = term.IsTerminal(int(os.Stdout.Fd()))

// SetColor forces colors on or off, regardless of whether standard output is a terminal.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

// Color returns a function that formats its arguments with the escape sequence colorString when colors are enabled,
// and formats them plainly otherwise.
func Color(colorString string) func(...any) string {
	return func(args ...any) string {
		s := fmt.Sprint(args...)
		if colorEnabled {
			return fmt.Sprintf(colorString, s)
		}
		return s
	}
}

// Sanitize removes escape sequences from s by quoting it
func Sanitize(s string) string {
	r := fmt.Sprintf("%q", s)
	if len(r) >= 2 {
		return r[1 : len(r)-1]
	}
	return r
}

// SanitizeRepr is Sanitize applied to the string representation of an object
func SanitizeRepr(s fmt.Stringer) string {
	return Sanitize(s.String())
}
