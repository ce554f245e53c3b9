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

package simulation

import (
	"testing"

	"github.com/canl-lora/lorasim/radiomodel"
	. "github.com/canl-lora/lorasim/types"
	"github.com/stretchr/testify/assert"
)

// newCanlSimulation runs two CANL devices next to the gateway, so that every frame is received.
func newCanlSimulation(t *testing.T, update func(cfg *Config)) *Simulation {
	cfg := newTestConfig(t, ProtocolCanl, 2)
	if update != nil {
		update(cfg)
	}
	topo := &Topology{
		MaxDist: 100,
		Nodes:   []radiomodel.Position{{X: 10}, {X: 0, Y: 20}},
	}
	s, err := NewSimulation(cfg, topo)
	assert.Nil(t, err)
	return s
}

func TestCanl_CadBusyExhaustsRetries(t *testing.T) {
	s := newCanlSimulation(t, func(cfg *Config) {
		cfg.CanlCheckBusy = true
		cfg.CadProb = 100
		cfg.NRetry = 5
	})
	n0, n1 := s.Node(0), s.Node(1)
	s.Channel().Transmit(n1.Frame, 0)
	assert.True(t, s.Channel().IsOnAir(1))

	n0.state = StateWantTransmit
	now := 0.0
	navCycles := 0
	for i := 0; i < 100 && n0.Counters.Aborted == 0; i++ {
		now += n0.Step(now)
		if n0.State() == StateNav {
			navCycles++
			assert.Equal(t, 5-navCycles+1, n0.retryLeft)
		}
	}

	assert.Equal(t, 5, navCycles)
	assert.Equal(t, 1, n0.Counters.Aborted)
	assert.Equal(t, 5, n0.Counters.NumCad)
	assert.Equal(t, 0, n0.Counters.Sent)
	assert.Equal(t, 0, n0.nav)
	assert.Equal(t, 5, n0.retryLeft)
}

func TestCanl_Listen1HearsRts(t *testing.T) {
	s := newCanlSimulation(t, func(cfg *Config) {
		cfg.CanlL1Min = 8
		cfg.CanlL1Max = 8
		cfg.CanlP = 50
	})
	node := s.Node(0)
	f := node.Frame
	node.state = StateWantTransmit

	w1, suspend := node.handle(0)
	assert.True(t, suspend)
	assert.Equal(t, StateListen1, node.State())
	assert.InDelta(t, 8*f.PreambleTime, w1, 1e-9)
	assert.Equal(t, RtsFrame, f.Type)

	waitPhy := f.WaitPhyInterrupt()
	start := w1 - waitPhy
	assert.Greater(t, start, 0.0)
	node.Hear(radiomodel.HeardFrame{Id: 1, Start: start, Toa: waitPhy / 2, IsRts: true, PayloadInRts: 20})

	wait, suspend := node.handle(w1)
	assert.True(t, suspend)
	assert.Equal(t, StateNav, node.State())
	assert.Equal(t, 1, node.nav)
	assert.InDelta(t, 1324.912, wait, 1e-6)
	assert.Equal(t, 0, node.Counters.RtsSent)

	_, suspend = node.handle(w1 + wait)
	assert.False(t, suspend)
	assert.Equal(t, StateWantTransmit, node.State())
	assert.Equal(t, DataFrame, f.Type)
	assert.Equal(t, s.Config().NRetry-1, node.retryLeft)
}

func TestCanl_RtsSuppressedForShortData(t *testing.T) {
	for _, minPayload := range []int{0, 200} {
		s := newCanlSimulation(t, func(cfg *Config) {
			cfg.CanlRtsMinPayloadSize = minPayload
		})
		node := s.Node(0)
		node.state = StateWantTransmit

		w1, _ := node.handle(0)
		wait, suspend := node.handle(w1)
		assert.Equal(t, StateSendRts, node.State())

		if node.Frame.DataPayloadSize > minPayload {
			assert.True(t, suspend)
			assert.Equal(t, 1, node.Counters.RtsSent)
			assert.True(t, s.Channel().IsOnAir(0))
			assert.InDelta(t, node.Frame.RtsAirtime(), wait, 1e-9)
		} else {
			assert.False(t, suspend)
			assert.Equal(t, 0, node.Counters.RtsSent)
			assert.False(t, s.Channel().IsOnAir(0))

			_, suspend = node.handle(w1)
			assert.False(t, suspend)
			assert.Equal(t, StateSendData, node.State())
		}
	}
}

func TestCanl_Listen2Selection(t *testing.T) {
	s := newCanlSimulation(t, func(cfg *Config) {
		cfg.CanlP = 50
	})
	node := s.Node(0)
	cfg := s.Config()

	node.state = StateSendRts
	node.myP = 50
	wait, suspend := node.handle(0)
	assert.True(t, suspend)
	assert.Equal(t, StateListen2, node.State())
	assert.InDelta(t, float64(cfg.CanlL2)*node.Frame.PreambleTime, wait, 1e-9)

	node = s.Node(1)
	node.state = StateSendRts
	node.myP = 51
	_, suspend = node.handle(0)
	assert.False(t, suspend)
	assert.Equal(t, StateSendData, node.State())

	s = newCanlSimulation(t, nil)
	node = s.Node(0)
	node.state = StateSendRts
	_, suspend = node.handle(0)
	assert.False(t, suspend)
	assert.Equal(t, StateSendData, node.State(), "canlP = 0 never listens twice")
}

func TestCanl_Listen1Slots(t *testing.T) {
	for _, softer := range []bool{false, true} {
		s := newCanlSimulation(t, func(cfg *Config) {
			cfg.CanlL1Min = 2
			cfg.CanlL1Max = 12
			cfg.CanlFairFactor = 3
			cfg.CanlSofterFair = softer
		})
		node := s.Node(0)
		nRetry := s.Config().NRetry

		expected := map[int]int{0: 12, 1: 9, 2: 6, 5: 2}
		if softer {
			expected = map[int]int{0: 12, 1: 12, 2: 9, 5: 2}
		}
		for used, slots := range expected {
			node.retryLeft = nRetry - used
			assert.Equal(t, slots, node.listen1Slots(), "softer=%v used=%d", softer, used)
		}
	}
}
