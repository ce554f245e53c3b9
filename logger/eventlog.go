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
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventLog writes per-run protocol events (receptions, collisions, state changes) to a dedicated file.
// A nil *EventLog discards everything, so callers need not check whether event logging is enabled.
type EventLog struct {
	fileName string
	file     *os.File
	zl       *zap.Logger
	clock    SimClock
}

func getEventLogFileName(outputDir string, runId string) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s.log", runId))
}

// NewEventLog creates the event log file for the run identified by runId.
func NewEventLog(outputDir string, runId string, clock SimClock) (*EventLog, error) {
	if err := os.MkdirAll(outputDir, 0775); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", outputDir)
	}
	el := &EventLog{
		fileName: getEventLogFileName(outputDir, runId),
		clock:    clock,
	}
	f, err := os.OpenFile(el.fileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0664)
	if err != nil {
		return nil, errors.Wrapf(err, "create event log %s", el.fileName)
	}
	el.file = f

	encCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "",
		TimeKey:        "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), zapcore.DebugLevel)
	el.zl = zap.New(core)
	Debugf("event log '%s' created", el.fileName)
	return el, nil
}

func (el *EventLog) FileName() string {
	if el == nil {
		return ""
	}
	return el.fileName
}

// Event records that receiver observed event about the nodes in related, at the current simulated time.
// A negative receiver is the gateway.
func (el *EventLog) Event(receiver int, event string, related ...int) {
	if el == nil {
		return
	}
	t := 0.0
	if el.clock != nil {
		t = el.clock()
	}
	el.EventAt(t, receiver, event, related...)
}

// EventAt records an event that took effect at simulated time t.
func (el *EventLog) EventAt(t float64, receiver int, event string, related ...int) {
	if el == nil {
		return
	}
	rx := "GW"
	if receiver >= 0 {
		rx = fmt.Sprintf("%d", receiver)
	}
	el.zl.Info(event, zap.String("rx", rx), zap.Ints("ids", related), zap.Float64("t", t))
}

func (el *EventLog) Close() error {
	if el == nil || el.file == nil {
		return nil
	}
	_ = el.zl.Sync()
	err := el.file.Close()
	el.file = nil
	return err
}
