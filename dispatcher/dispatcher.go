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

package dispatcher

import (
	"context"

	"github.com/canl-lora/lorasim/logger"
	. "github.com/canl-lora/lorasim/types"
)

// Unit is a cooperative execution unit driven by the Dispatcher.
type Unit interface {
	Id() NodeId
	// Step runs the unit at virtual time now until its next suspension point and returns the wait,
	// in ms, before it must be resumed again.
	Step(now float64) float64
}

// StopCondition is evaluated after every resumption; returning true ends the run.
type StopCondition func() bool

type Dispatcher struct {
	CurTime  float64
	queue    *wakeupQueue
	units    map[NodeId]Unit
	stopCond StopCondition
	stopped  bool

	Counters struct {
		Resumptions   uint64
		MaxQueueLen   int
		StopCondition bool
	}
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		queue: newWakeupQueue(),
		units: make(map[NodeId]Unit),
	}
}

// Register queues the first step of u at the current virtual time.
func (d *Dispatcher) Register(u Unit) {
	id := u.Id()
	_, exists := d.units[id]
	logger.AssertFalsef(exists, "unit %d registered twice", id)

	d.units[id] = u
	d.queue.add(id, d.CurTime)
	if d.queue.len() > d.Counters.MaxQueueLen {
		d.Counters.MaxQueueLen = d.queue.len()
	}
}

func (d *Dispatcher) Now() float64 {
	return d.CurTime
}

func (d *Dispatcher) SetStopCondition(cond StopCondition) {
	d.stopCond = cond
}

// Stop ends the run after the current resumption.
func (d *Dispatcher) Stop() {
	d.stopped = true
}

func (d *Dispatcher) IsStopped() bool {
	return d.stopped
}

// Pending returns the number of units waiting to be resumed.
func (d *Dispatcher) Pending() int {
	return d.queue.len()
}

// Run resumes units one at a time, earliest due first, until the stop condition holds, Stop is called,
// no unit is pending or ctx is done. It returns the final virtual time.
func (d *Dispatcher) Run(ctx context.Context) (float64, error) {
	for !d.stopped {
		select {
		case <-ctx.Done():
			return d.CurTime, ctx.Err()
		default:
		}

		if !d.processNextEvent() {
			break
		}
	}

	logger.Debugf("dispatcher stopped at %.3fms after %d resumptions (max queue %d)", d.CurTime,
		d.Counters.Resumptions, d.Counters.MaxQueueLen)
	return d.CurTime, nil
}

func (d *Dispatcher) processNextEvent() bool {
	w := d.queue.peek()
	if w == nil {
		return false
	}

	logger.AssertTrue(w.at >= d.CurTime)
	d.CurTime = w.at
	u := d.units[w.unit]

	wait := u.Step(d.CurTime)
	d.Counters.Resumptions++
	logger.AssertTruef(wait >= 0, "unit %d requested a negative wait %f at %f", w.unit, wait, d.CurTime)
	d.queue.rearm(w.unit, d.CurTime+wait)

	if d.stopCond != nil && d.stopCond() {
		d.Counters.StopCondition = true
		d.stopped = true
	}
	return true
}
