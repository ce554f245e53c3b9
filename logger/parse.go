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

package logger

import (
	"github.com/pkg/errors"
	"github.com/simonlingoogle/go-simplelogger"
)

type levelName struct {
	level   Level
	name    string
	aliases []string
}

// levelNames lists the accepted spellings of each level; the first name is the canonical one.
var levelNames = []levelName{
	{MicroLevel, "micro", nil},
	{TraceLevel, "trace", []string{"T"}},
	{DebugLevel, "debug", []string{"D"}},
	{InfoLevel, "info", []string{"I", "default", "def"}},
	{NoteLevel, "note", []string{"N"}},
	{WarnLevel, "warn", []string{"warning", "W"}},
	{ErrorLevel, "error", []string{"err", "crit", "critical", "E", "C"}},
	{OffLevel, "off", []string{"none"}},
}

func ParseLevelString(level string) (Level, error) {
	for _, ln := range levelNames {
		if level == ln.name {
			return ln.level, nil
		}
		for _, alias := range ln.aliases {
			if level == alias {
				return ln.level, nil
			}
		}
	}
	return DefaultLevel, errors.Errorf("invalid log level string: %s", level)
}

func GetLevelString(level Level) string {
	for _, ln := range levelNames {
		if ln.level == level {
			return ln.name
		}
	}
	return "unknown"
}

// SimpleloggerLevel returns the go-simplelogger level closest to level, for the packages that log through it.
func SimpleloggerLevel(level Level) simplelogger.Level {
	switch {
	case level >= DebugLevel:
		return simplelogger.DebugLevel
	case level >= NoteLevel:
		return simplelogger.InfoLevel
	case level == WarnLevel:
		return simplelogger.WarnLevel
	case level >= PanicLevel:
		return simplelogger.ErrorLevel
	default:
		return simplelogger.PanicLevel
	}
}
