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
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogLevel is the verbosity of a LogGroup
type LogLevel int

const (
	// ErrLevel=1 - the minimum level of logging.
	ErrLevel LogLevel = iota + 1

	// WarnLevel=2 - the level for logging warnings, and errors
	WarnLevel

	// InfoLevel=3 - the level for logging high-level information, results
	InfoLevel

	// DebugLevel=4 - the level for debugging information. The tool will run properly on large programs with
	// that level of debug information.
	DebugLevel

	// TraceLevel=5 - the level for tracing. The tool will not run properly on large programs with that level
	// of information, but this is useful on smaller testing programs.
	TraceLevel
)

func (l LogLevel) logrusLevel() logrus.Level {
	switch {
	case l <= ErrLevel:
		return logrus.ErrorLevel
	case l == WarnLevel:
		return logrus.WarnLevel
	case l == InfoLevel:
		return logrus.InfoLevel
	case l == DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// A LogGroup is the logger of one analysis. Each group owns its logrus logger, so that two analyses never share
// their output or their level.
type LogGroup struct {
	level  LogLevel
	logger *logrus.Logger
}

// NewLogGroup returns a log group that is configured to the logging settings stored inside the config
func NewLogGroup(config *Config) *LogGroup {
	level := LogLevel(config.LogLevel)
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logger.SetLevel(level.logrusLevel())
	return &LogGroup{level: level, logger: logger}
}

// SetAllOutput sets the output writer of the group to the writer provided
func (l *LogGroup) SetAllOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// Level returns the level of the group
func (l *LogGroup) Level() LogLevel {
	return l.level
}

// LogsDebug returns true if debug messages are printed. Callers use it to skip building expensive messages.
func (l *LogGroup) LogsDebug() bool {
	return l.level >= DebugLevel
}

// WithField returns a logrus entry that carries the key and the value in every message
func (l *LogGroup) WithField(key string, value any) *logrus.Entry {
	return l.logger.WithField(key, value)
}

// Tracef prints to the logger at trace level. Arguments are handled in the manner of Printf
func (l *LogGroup) Tracef(format string, v ...any) {
	if l.level >= TraceLevel {
		l.logger.Tracef(format, v...)
	}
}

// Debugf prints to the logger at debug level. Arguments are handled in the manner of Printf
func (l *LogGroup) Debugf(format string, v ...any) {
	if l.level >= DebugLevel {
		l.logger.Debugf(format, v...)
	}
}

// Infof prints to the logger at info level. Arguments are handled in the manner of Printf
func (l *LogGroup) Infof(format string, v ...any) {
	if l.level >= InfoLevel {
		l.logger.Infof(format, v...)
	}
}

// Warnf prints to the logger at warning level. Arguments are handled in the manner of Printf
func (l *LogGroup) Warnf(format string, v ...any) {
	if l.level >= WarnLevel {
		l.logger.Warnf(format, v...)
	}
}

// Errorf prints to the logger at error level. Arguments are handled in the manner of Printf
func (l *LogGroup) Errorf(format string, v ...any) {
	if l.level >= ErrLevel {
		l.logger.Errorf(format, v...)
	}
}
