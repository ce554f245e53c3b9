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
	"testing"

	. "github.com/canl-lora/lorasim/types"
	"github.com/stretchr/testify/assert"
)

type trace struct {
	resumed []NodeId
	times   []float64
}

type fixedUnit struct {
	id    NodeId
	waits []float64
	tr    *trace
}

func (u *fixedUnit) Id() NodeId {
	return u.id
}

func (u *fixedUnit) Step(now float64) float64 {
	u.tr.resumed = append(u.tr.resumed, u.id)
	u.tr.times = append(u.tr.times, now)
	if len(u.waits) == 0 {
		return Ever
	}
	w := u.waits[0]
	u.waits = u.waits[1:]
	return w
}

func TestDispatcher_FifoTies(t *testing.T) {
	tr := &trace{}
	d := NewDispatcher()
	d.Register(&fixedUnit{id: 2, waits: []float64{10, 5}, tr: tr})
	d.Register(&fixedUnit{id: 0, waits: []float64{10, 5}, tr: tr})
	d.Register(&fixedUnit{id: 1, waits: []float64{10, 5}, tr: tr})
	d.SetStopCondition(func() bool { return len(tr.resumed) == 9 })

	end, err := d.Run(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 15.0, end)
	assert.Equal(t, []NodeId{2, 0, 1, 2, 0, 1, 2, 0, 1}, tr.resumed)
	assert.Equal(t, []float64{0, 0, 0, 10, 10, 10, 15, 15, 15}, tr.times)
}

func TestDispatcher_ResubmissionOrder(t *testing.T) {
	tr := &trace{}
	d := NewDispatcher()
	// unit 1 reaches t=10 with a zero wait after unit 2 was queued for t=10, so it runs after unit 2.
	d.Register(&fixedUnit{id: 1, waits: []float64{10, 0}, tr: tr})
	d.Register(&fixedUnit{id: 2, waits: []float64{10}, tr: tr})
	d.SetStopCondition(func() bool { return len(tr.resumed) == 5 })

	_, err := d.Run(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, []NodeId{1, 2, 1, 2, 1}, tr.resumed)
}

func TestDispatcher_StopCondition(t *testing.T) {
	tr := &trace{}
	d := NewDispatcher()
	d.Register(&fixedUnit{id: 0, waits: []float64{1, 1, 1, 1, 1, 1}, tr: tr})
	d.SetStopCondition(func() bool { return d.Now() >= 3 })

	end, err := d.Run(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 3.0, end)
	assert.True(t, d.Counters.StopCondition)
	assert.Equal(t, uint64(4), d.Counters.Resumptions)
	assert.Equal(t, 1, d.Pending())
}

func TestDispatcher_Cancel(t *testing.T) {
	tr := &trace{}
	d := NewDispatcher()
	d.Register(&fixedUnit{id: 0, waits: []float64{1, 1}, tr: tr})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Run(ctx)
	assert.Equal(t, context.Canceled, err)
	assert.Empty(t, tr.resumed)
}

func TestDispatcher_DoubleRegister(t *testing.T) {
	tr := &trace{}
	d := NewDispatcher()
	d.Register(&fixedUnit{id: 3, tr: tr})
	assert.Panics(t, func() {
		d.Register(&fixedUnit{id: 3, tr: tr})
	})
}

func TestDispatcher_NegativeWait(t *testing.T) {
	tr := &trace{}
	d := NewDispatcher()
	d.Register(&fixedUnit{id: 0, waits: []float64{-1}, tr: tr})
	assert.Panics(t, func() {
		_, _ = d.Run(context.Background())
	})
}
