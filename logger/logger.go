// Copyright (c) 2020-2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package logger is the leveled process logger of lorasim. Lines are written through zap and, once a
// simulation clock is installed, carry the simulated time next to the wall clock.
package logger

import (
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the log-level for the simulator process.
type Level int8

const (
	MicroLevel   Level = 7
	TraceLevel   Level = 6
	DebugLevel   Level = 5
	InfoLevel    Level = 4
	NoteLevel    Level = 3
	WarnLevel    Level = 2
	ErrorLevel   Level = 1
	PanicLevel   Level = 0
	FatalLevel   Level = -1
	OffLevel     Level = -2
	DefaultLevel       = InfoLevel
)

// SimClock reports the current simulated time in ms.
type SimClock func() float64

var (
	mutex        sync.RWMutex
	zaplogger    *zap.Logger
	currentLevel = DefaultLevel
	simClock     SimClock
)

func init() {
	zaplogger = newZapLogger([]string{"stderr"})
}

func newZapLogger(outputs []string) *zap.Logger {
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:  "message",
		LevelKey:    "level",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Encoding:         "console",
		EncoderConfig:    encoderCfg,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return l
}

// zapLevel maps a Level to the zap level that writes it. Everything more verbose than info is debug for zap.
func zapLevel(level Level) zapcore.Level {
	switch {
	case level >= DebugLevel:
		return zapcore.DebugLevel
	case level >= NoteLevel:
		return zapcore.InfoLevel
	case level == WarnLevel:
		return zapcore.WarnLevel
	case level == ErrorLevel:
		return zapcore.ErrorLevel
	case level == PanicLevel:
		return zapcore.PanicLevel
	default:
		return zapcore.FatalLevel
	}
}

// SetLevel sets the log level
func SetLevel(lv Level) {
	mutex.Lock()
	currentLevel = lv
	mutex.Unlock()
}

// GetLevel get the current log level
func GetLevel() Level {
	mutex.RLock()
	defer mutex.RUnlock()
	return currentLevel
}

// SetSimClock makes every log line carry the simulated time. A nil clock removes it.
func SetSimClock(clock SimClock) {
	mutex.Lock()
	simClock = clock
	mutex.Unlock()
}

func format(template string, args []interface{}) string {
	switch {
	case len(args) == 0:
		return template
	case template != "":
		return fmt.Sprintf(template, args...)
	default:
		return fmt.Sprint(args...)
	}
}

// Logf writes a formatted line at level. Nothing is written above the current level.
func Logf(level Level, template string, args ...interface{}) {
	mutex.RLock()
	lv, clock := currentLevel, simClock
	mutex.RUnlock()
	if level > lv {
		return
	}

	prefix := time.Now().Format("2006-01-02 15:04:05.000") + " - "
	if clock != nil {
		prefix += fmt.Sprintf("[%12.3fms] ", clock())
	}
	zaplogger.Log(zapLevel(level), prefix+format(template, args))
}

func Tracef(format string, args ...interface{}) {
	Logf(TraceLevel, format, args...)
}

func Debugf(format string, args ...interface{}) {
	Logf(DebugLevel, format, args...)
}

func Infof(format string, args ...interface{}) {
	Logf(InfoLevel, format, args...)
}

func Notef(format string, args ...interface{}) {
	Logf(NoteLevel, format, args...)
}

func Warnf(format string, args ...interface{}) {
	Logf(WarnLevel, format, args...)
}

func Errorf(format string, args ...interface{}) {
	Logf(ErrorLevel, format, args...)
}

// Panicf reports a broken invariant. zap panics after writing; when logging is off the panic is raised here.
func Panicf(template string, args ...interface{}) {
	Logf(PanicLevel, template, args...)
	if GetLevel() < PanicLevel {
		panic(format(template, args))
	}
}

func PanicIfError(err error, args ...interface{}) {
	if err == nil {
		return
	}
	if len(args) == 0 {
		Panicf("%v", err)
		return
	}
	Panicf("", args...)
}

type assertLogger struct{}

func (assertLogger) Errorf(format string, args ...interface{}) {
	Panicf(format, args...)
}

func AssertEqual(expected, actual interface{}, msgAndArgs ...interface{}) bool {
	return assert.Equal(assertLogger{}, expected, actual, msgAndArgs...)
}

func AssertNil(object interface{}, msgAndArgs ...interface{}) bool {
	return assert.Nil(assertLogger{}, object, msgAndArgs...)
}

func AssertNotNil(object interface{}, msgAndArgs ...interface{}) bool {
	return assert.NotNil(assertLogger{}, object, msgAndArgs...)
}

func AssertTrue(value bool, msgAndArgs ...interface{}) bool {
	return assert.True(assertLogger{}, value, msgAndArgs...)
}

func AssertTruef(value bool, msg string, args ...interface{}) bool {
	return assert.Truef(assertLogger{}, value, msg, args...)
}

func AssertFalsef(value bool, msg string, args ...interface{}) bool {
	return assert.Falsef(assertLogger{}, value, msg, args...)
}
