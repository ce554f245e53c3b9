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
	"fmt"

	"github.com/canl-lora/lorasim/radiomodel"
	. "github.com/canl-lora/lorasim/types"
)

// NodeCounters are the per-device protocol statistics of a run.
type NodeCounters struct {
	Sent              int
	Success           int
	Collided          int
	Lost              int
	Aborted           int
	Dropped           int
	TotalRetry        int
	RtsSent           int
	NumCad            int
	ListenTime        float64 // ms
	Latency           float64 // ms, summed over sent packets
	SuccessLatency    float64 // ms, summed over delivered packets
	MinSuccessLatency float64
	PayloadGen        int
	PayloadSent       int
	PayloadSuccess    int
}

// Node is one end device. It implements dispatcher.Unit: every Step runs the state handlers until one of them
// suspends the device.
type Node struct {
	S        *Simulation
	Frame    *radiomodel.Frame
	Counters NodeCounters

	id           NodeId
	state        NodeState
	transmitting bool // a frame of the current state is on air
	window       *radiomodel.ListenWindow
	listenStart  float64
	cadAtStart   []NodeId

	nextGen      float64
	cycle        int
	genTimes     []float64
	retryLeft    int
	backoffExp   int
	nav          int
	cad          bool
	myP          int
	wantTransmit float64
}

func newNode(s *Simulation, id NodeId) *Node {
	f := radiomodel.NewFrame(id, s.prop)
	node := &Node{
		S:          s,
		Frame:      f,
		id:         id,
		state:      StateScheduleTx,
		window:     radiomodel.NewFrameListenWindow(f),
		nextGen:    -1,
		genTimes:   []float64{0},
		retryLeft:  s.cfg.NRetry,
		backoffExp: s.cfg.WbusyBE,
	}
	node.Counters.MinSuccessLatency = s.cfg.AvgSendTime * 1000
	return node
}

func (node *Node) String() string {
	return fmt.Sprintf("Node<%d>", node.id)
}

func (node *Node) Id() NodeId {
	return node.id
}

func (node *Node) State() NodeState {
	return node.state
}

// GenTimes returns the generation instants, led by a 0.
func (node *Node) GenTimes() []float64 {
	return node.genTimes
}

func (node *Node) IsListening() bool {
	return node.state.IsListening()
}

// Hear records a frame perceived during the current listen window.
func (node *Node) Hear(h radiomodel.HeardFrame) {
	node.window.Add(h)
}

func (node *Node) Step(now float64) float64 {
	for {
		if wait, suspend := node.handle(now); suspend {
			return wait
		}
	}
}

// handle runs the handler of the current state. suspend is false when the device moved on at the same instant.
func (node *Node) handle(now float64) (wait float64, suspend bool) {
	proto := node.S.cfg.Protocol
	switch node.state {
	case StateScheduleTx:
		return node.scheduleTx(now)
	case StateWantTransmit:
		switch proto {
		case ProtocolCanl:
			return node.canlWantTransmit(now)
		case ProtocolIdeal:
			return node.idealWantTransmit(now)
		default:
			return node.alohaWantTransmit(now)
		}
	case StateCad:
		if proto == ProtocolCanl {
			return node.canlCad(now)
		}
		return node.alohaCad(now)
	case StateListen1, StateListen2:
		return node.canlListen(now)
	case StateNav:
		return node.canlNavExpired(now)
	case StateSendRts:
		return node.canlSendRts(now)
	case StateBackoff:
		return node.alohaAttempt(now)
	case StateSendData, StateIdealSend:
		return node.sendData(now)
	}
	panic(fmt.Sprintf("%s: unexpected state %s", node, node.state))
}

func (node *Node) setRadio(state RadioStates, now float64) {
	node.S.energy.SetRadioState(node.id, state, now)
}

// scheduleTx generates the next packet and sleeps until its generation time.
func (node *Node) scheduleTx(now float64) (float64, bool) {
	node.generate(now)
	node.state = StateWantTransmit
	return node.nextGen - now, true
}

// stampWantTransmit marks the first transmission attempt of the current packet.
func (node *Node) stampWantTransmit(now float64) {
	node.wantTransmit = now
	st := &node.S.stats
	st.NTransmit++
	if st.NTransmit > 1 {
		st.InterTransmitTime += now - st.LastTransmitTime
	}
	st.LastTransmitTime = now
}

func (node *Node) startCad(now float64) float64 {
	node.Counters.NumCad++
	node.cadAtStart = node.S.channel.OnAirIds()
	node.state = StateCad
	node.setRadio(RadioCad, now)
	return node.Frame.SymTime * float64(node.S.params.CadSymbols())
}

func (node *Node) abort() {
	node.Counters.Aborted++
	node.resetRetry()
	node.nav = 0
	node.state = StateScheduleTx
}

func (node *Node) resetRetry() {
	node.retryLeft = node.S.cfg.NRetry
	node.backoffExp = node.S.cfg.WbusyBE
}

// sendData starts the DATA transmission, or completes it when it is already on air.
func (node *Node) sendData(now float64) (float64, bool) {
	f := node.Frame
	if !node.transmitting {
		f.SetType(DataFrame)
		node.Counters.Sent++
		node.Counters.PayloadSent += f.Payload()
		node.S.stats.Sent++
		if node.state == StateSendData {
			node.Counters.TotalRetry += node.S.cfg.NRetry - node.retryLeft
		}
		node.Counters.Latency += now - node.wantTransmit
		node.transmit(now)
		return f.Airtime, true
	}

	node.complete(now)
	st := &node.S.stats
	if f.Lost {
		st.Lost++
		node.Counters.Lost++
	}
	if f.Collided {
		st.Collided++
		node.Counters.Collided++
	}
	if !f.Lost && !f.Collided {
		st.Received++
		latency := now - node.wantTransmit
		node.Counters.Success++
		node.Counters.SuccessLatency += latency
		if latency < node.Counters.MinSuccessLatency {
			node.Counters.MinSuccessLatency = latency
		}
		node.Counters.PayloadSuccess += f.Payload()
	}
	f.ResetOutcome()
	node.S.prop.Refresh(f)
	node.resetRetry()
	node.cad = false
	node.nav = 0
	node.state = StateScheduleTx
	return 0, false
}

func (node *Node) transmit(now float64) {
	node.S.channel.Transmit(node.Frame, now)
	node.transmitting = true
	node.setRadio(RadioTx, now)
}

func (node *Node) complete(now float64) {
	node.S.channel.Complete(node.Frame)
	node.transmitting = false
	node.setRadio(RadioIdle, now)
}
