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

package radiomodel

import (
	"testing"

	"github.com/canl-lora/lorasim/prng"
	. "github.com/canl-lora/lorasim/types"
	"github.com/stretchr/testify/assert"
)

type testListener struct {
	id        NodeId
	listening bool
	heard     []HeardFrame
}

func (l *testListener) Id() NodeId {
	return l.id
}

func (l *testListener) IsListening() bool {
	return l.listening
}

func (l *testListener) Hear(h HeardFrame) {
	l.heard = append(l.heard, h)
}

func deterministicParams() *RadioParams {
	p := DefaultRadioParams()
	p.NormalGammaED = false
	p.Canl = true
	return p
}

func newTestChannel(p *RadioParams, positions []Position) (*Channel, []*Frame) {
	dm := NewDistanceMatrix(positions, Position{})
	prop := NewPropagation(p, dm, prng.NewSource(1))
	c := NewChannel(prop, nil)
	frames := make([]*Frame, len(positions))
	for i := range positions {
		frames[i] = NewFrame(i, prop)
	}
	return c, frames
}

func TestFrame_Preset(t *testing.T) {
	_, frames := newTestChannel(deterministicParams(), []Position{{X: 100}})
	f := frames[0]
	assert.Equal(t, 12, f.SF)
	assert.Equal(t, 125.0, f.BW)
	assert.Equal(t, 1, f.CR)
	assert.Equal(t, int64(860000000), f.Freq)
	assert.Equal(t, 104, f.PL)

	f.SetType(RtsFrame)
	assert.Equal(t, 5, f.PL)
	assert.Equal(t, Airtime(BandSubGHz, 12, 1, 5, 125, true), f.Airtime)
	f.SetType(DataFrame)
	assert.Equal(t, 104, f.PL)
	assert.Equal(t, f.AirtimeOf(104), f.Airtime)
	assert.Equal(t, 104, f.Payload())
	assert.Equal(t, 3*f.SymTime, f.CriticalSection())
}

func TestPropagation_Deterministic(t *testing.T) {
	p := DefaultRadioParams()
	p.GaussianNoise = true
	p.RayleighFading = true
	positions := []Position{{X: 100}, {X: 0, Y: 250}, {X: -300, Y: 20}}

	_, a := newTestChannel(p, positions)
	_, b := newTestChannel(p, positions)
	for i := range a {
		assert.Equal(t, a[i].Rx, b[i].Rx)
		assert.Equal(t, a[i].Rssi, b[i].Rssi)
		for _, v := range a[i].Rx {
			assert.True(t, v <= a[i].TxPower && v >= minRxPowerDbm)
		}
	}
}

func TestChannel_TransmitTwicePanics(t *testing.T) {
	c, frames := newTestChannel(deterministicParams(), []Position{{X: 100}, {X: 200}})
	c.Transmit(frames[0], 0)
	assert.True(t, c.IsOnAir(0))
	assert.True(t, c.Busy(0))
	assert.Panics(t, func() {
		c.Transmit(frames[0], 1)
	})

	c.Complete(frames[0])
	assert.False(t, c.IsOnAir(0))
	assert.False(t, c.Busy(0))
	c.Complete(frames[0])
	assert.Empty(t, c.OnAirIds())
}

func TestChannel_CaptureAtGateway(t *testing.T) {
	c, frames := newTestChannel(deterministicParams(), []Position{{X: 100}, {X: 200}})
	c.Transmit(frames[0], 0)
	c.Transmit(frames[1], 1)

	assert.False(t, frames[0].Collided)
	assert.True(t, frames[1].Collided)
	assert.Equal(t, []NodeId{0, 1}, c.OnAirIds())
	assert.Equal(t, []PowerCapture{{InEars: 2, Captured: true, Local: GatewayId}}, c.Captures())
	assert.Len(t, c.ChannelLog(), 2)
	assert.Equal(t, 1.0, c.ChannelLog()[1].Start)
}

func TestChannel_PlainOverlap(t *testing.T) {
	p := deterministicParams()
	p.FullCollision = false
	c, frames := newTestChannel(p, []Position{{X: 100}, {X: 200}})
	c.Transmit(frames[0], 0)
	c.Transmit(frames[1], 1)
	assert.True(t, frames[0].Collided)
	assert.True(t, frames[1].Collided)
	assert.Empty(t, c.Captures())
}

func TestChannel_LostBelowSensitivity(t *testing.T) {
	c, frames := newTestChannel(deterministicParams(), []Position{{X: 100000}})
	c.Transmit(frames[0], 0)
	assert.True(t, frames[0].Lost)
	assert.False(t, c.IsOnAir(0))
	assert.True(t, c.Busy(0))
	assert.Len(t, c.ChannelLog(), 1)
}

func TestChannel_SimplifiedListeners(t *testing.T) {
	c, frames := newTestChannel(deterministicParams(), []Position{{X: 100}, {X: 200}, {X: 300}})
	listening := &testListener{id: 1, listening: true}
	idle := &testListener{id: 2}
	sender := &testListener{id: 0, listening: true}
	c.AddListener(sender)
	c.AddListener(listening)
	c.AddListener(idle)
	assert.Panics(t, func() {
		c.AddListener(&testListener{id: 1})
	})

	c.Transmit(frames[0], 5)
	assert.Empty(t, sender.heard)
	assert.Empty(t, idle.heard)
	if assert.Len(t, listening.heard, 1) {
		h := listening.heard[0]
		assert.Equal(t, NodeId(0), h.Id)
		assert.Equal(t, 5.0, h.Start)
		assert.Equal(t, frames[0].Airtime, h.Toa)
		assert.False(t, h.IsRts)
		assert.Equal(t, 104, h.PayloadInHeader)
	}
}

func TestChannel_FullDistanceListeners(t *testing.T) {
	p := deterministicParams()
	p.FullDistances = true
	c, frames := newTestChannel(p, []Position{{X: 100}, {X: 300}, {X: 100000}})
	near := &testListener{id: 1, listening: true}
	far := &testListener{id: 2, listening: true}
	c.AddListener(near)
	c.AddListener(far)

	c.Transmit(frames[0], 0)
	assert.Len(t, near.heard, 1)
	assert.Empty(t, far.heard)

	late := &testListener{id: 1, listening: true}
	c.StartListening(late, 50)
	if assert.Len(t, late.heard, 1) {
		assert.Equal(t, 0.0, late.heard[0].Start)
		assert.Empty(t, late.heard[0].CapturedBy)
	}
}

func TestChannel_CadBusy(t *testing.T) {
	p := deterministicParams()
	p.CadProb = 100
	c, frames := newTestChannel(p, []Position{{X: 100}, {X: 200}})
	c.Transmit(frames[0], 0)

	assert.True(t, c.CadBusy(1, []NodeId{0}))
	assert.False(t, c.CadBusy(1, nil))

	p.CadProb = 0
	assert.False(t, c.CadBusy(1, []NodeId{0}))
}
