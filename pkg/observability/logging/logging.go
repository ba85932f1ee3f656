/*
 * Copyright 2024 The Trestle Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logging provides logging functionality to trestle
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-stack/stack"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Pairs represents the key=value pairs that describe a log event
type Pairs map[string]interface{}

// Logger is a container for the underlying log provider
type Logger struct {
	logger log.Logger
	closer io.Closer
	level  string

	onceMutex      *sync.Mutex
	onceRanEntries map[string]bool
}

// Options is the subset of configuration needed to construct a Logger, kept
// separate from pkg/config so the two packages do not import each other
type Options struct {
	// LogFile provides the filepath to the instance's logfile; empty logs to console
	LogFile string
	// LogLevel provides the most verbose level of messages to log
	LogLevel string
	// InstanceID distinguishes log files when multiple instances share a host
	InstanceID int
}

func noopLogger() *Logger {
	return &Logger{
		onceRanEntries: make(map[string]bool),
		onceMutex:      &sync.Mutex{},
	}
}

// NoopLogger returns a Logger that discards all events
func NoopLogger() *Logger {
	l := noopLogger()
	l.logger = log.NewNopLogger()
	return l
}

// ConsoleLogger returns a Logger that prints log events to the console
func ConsoleLogger(logLevel string) *Logger {
	l := noopLogger()
	l.logger = wrapLevels(baseLogger(os.Stdout), logLevel)
	l.level = strings.ToLower(logLevel)
	return l
}

// New returns a Logger for the provided options. When a log file is
// configured, output rolls over via lumberjack, and files are distinguished
// from other instances on the same host by the instance id.
func New(opts *Options) *Logger {
	l := noopLogger()
	var wr io.Writer

	if opts.LogFile == "" {
		wr = os.Stdout
	} else {
		logFile := opts.LogFile
		if opts.InstanceID > 0 {
			logFile = strings.Replace(logFile, ".log",
				"."+strconv.Itoa(opts.InstanceID)+".log", 1)
		}
		wr = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    256,  // megabytes
			MaxBackups: 80,   // 256 megs @ 80 backups is 20GB of Logs
			MaxAge:     7,    // days
			Compress:   true, // Compress Rolled Backups
		}
	}

	l.level = strings.ToLower(opts.LogLevel)
	l.logger = wrapLevels(baseLogger(wr), l.level)
	if c, ok := wr.(io.Closer); ok && c != nil {
		l.closer = c
	}
	return l
}

func baseLogger(wr io.Writer) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(wr))
	return log.With(logger,
		"time", log.DefaultTimestampUTC,
		"app", "trestle",
		"caller", log.Valuer(func() interface{} {
			return pkgCaller{stack.Caller(6)}
		}),
	)
}

func wrapLevels(logger log.Logger, logLevel string) log.Logger {
	switch strings.ToLower(logLevel) {
	case "debug", "trace":
		return level.NewFilter(logger, level.AllowDebug())
	case "warn":
		return level.NewFilter(logger, level.AllowWarn())
	case "error":
		return level.NewFilter(logger, level.AllowError())
	case "none":
		return level.NewFilter(logger, level.AllowNone())
	default:
		return level.NewFilter(logger, level.AllowInfo())
	}
}

func mapToArray(event string, detail Pairs) []interface{} {
	a := make([]interface{}, (len(detail)*2)+2)
	var i int

	// Ensure the log level is the first Pair in the output order (after prefixes)
	if level, ok := detail["level"]; ok {
		a[0] = "level"
		a[1] = level
		delete(detail, "level")
		i += 2
	}

	// Ensure the event description is the second Pair in the output order (after prefixes)
	a[i] = "event"
	a[i+1] = event
	i += 2

	for k, v := range detail {
		a[i] = k
		a[i+1] = v
		i += 2
	}
	return a
}

// Info sends an "INFO" event to the Logger
func (l *Logger) Info(event string, detail Pairs) {
	level.Info(l.logger).Log(mapToArray(event, detail)...)
}

// Warn sends a "WARN" event to the Logger
func (l *Logger) Warn(event string, detail Pairs) {
	level.Warn(l.logger).Log(mapToArray(event, detail)...)
}

// WarnOnce sends a "WARN" event to the Logger only once per key.
// Returns true if this invocation was the first, and thus logged
func (l *Logger) WarnOnce(key string, event string, detail Pairs) bool {
	l.onceMutex.Lock()
	defer l.onceMutex.Unlock()
	key = "warn." + key
	if _, ok := l.onceRanEntries[key]; !ok {
		l.onceRanEntries[key] = true
		l.Warn(event, detail)
		return true
	}
	return false
}

// Error sends an "ERROR" event to the Logger
func (l *Logger) Error(event string, detail Pairs) {
	level.Error(l.logger).Log(mapToArray(event, detail)...)
}

// ErrorOnce sends an "ERROR" event to the Logger only once per key.
// Returns true if this invocation was the first, and thus logged
func (l *Logger) ErrorOnce(key string, event string, detail Pairs) bool {
	l.onceMutex.Lock()
	defer l.onceMutex.Unlock()
	key = "error." + key
	if _, ok := l.onceRanEntries[key]; !ok {
		l.onceRanEntries[key] = true
		l.Error(event, detail)
		return true
	}
	return false
}

// Debug sends a "DEBUG" event to the Logger
func (l *Logger) Debug(event string, detail Pairs) {
	level.Debug(l.logger).Log(mapToArray(event, detail)...)
}

// Fatal sends a "FATAL" event to the Logger and exits the program with the
// provided exit code; a negative code logs without exiting, for tests
func (l *Logger) Fatal(code int, event string, detail Pairs) {
	// go-kit/log/level does not support Fatal, so implemented separately here
	if detail == nil {
		detail = Pairs{}
	}
	detail["level"] = "fatal"
	l.logger.Log(mapToArray(event, detail)...)
	if code >= 0 {
		os.Exit(code)
	}
}

// Level returns the configured Log Level
func (l *Logger) Level() string {
	return l.level
}

// Close closes any opened file handles that were used for logging
func (l *Logger) Close() {
	if l.closer != nil {
		l.closer.Close()
	}
}

// pkgCaller wraps a stack.Call to make the default string output include the
// package path
type pkgCaller struct {
	c stack.Call
}

// String returns a path from the call stack that is relative to the root of the project
func (pc pkgCaller) String() string {
	return strings.TrimPrefix(fmt.Sprintf("%+v", pc.c), "github.com/trickstercache/trestle/pkg/")
}
