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
	"github.com/canl-lora/lorasim/radiomodel"
	. "github.com/canl-lora/lorasim/types"
)

// CANL: SCHEDULE_TX -> WANT_TRANSMIT -> [CAD] -> LISTEN1 -> NAV | SEND_RTS -> [LISTEN2] -> SEND_DATA.

func (node *Node) canlWantTransmit(now float64) (float64, bool) {
	cfg := node.S.cfg
	if node.retryLeft == 0 {
		node.abort()
		return 0, false
	}

	if node.nav != 0 {
		// restart a complete procedure after a deferral
		node.nav = 0
	} else {
		node.stampWantTransmit(now)
	}

	if cfg.CanlP != 0 {
		node.myP = node.S.src.IntRange(0, 100)
	}

	if cfg.CanlCheckBusy {
		return node.startCad(now), true
	}
	return node.enterListen1(now)
}

func (node *Node) canlCad(now float64) (float64, bool) {
	cfg := node.S.cfg
	busy := node.S.channel.CadBusy(node.id, node.cadAtStart)
	node.cadAtStart = nil
	node.setRadio(RadioIdle, now)
	if !busy {
		return node.enterListen1(now)
	}

	node.cad = true
	node.nav++
	node.state = StateNav
	backoff := node.S.src.IntRange(cfg.CanlBackoffMin, cfg.CanlBackoffMax)
	return float64(backoff) * node.Frame.PreambleTime, true
}

// listen1Slots returns the upper bound of the LISTEN1 draw, in preamble durations. Each deferral of the packet
// shortens the window by the fairness factor.
func (node *Node) listen1Slots() int {
	cfg := node.S.cfg
	used := cfg.NRetry - node.retryLeft
	if cfg.CanlSofterFair {
		if node.retryLeft < cfg.NRetry {
			return max(cfg.CanlL1Min, cfg.CanlL1Max-cfg.CanlFairFactor*(used-1))
		}
		return max(cfg.CanlL1Min, cfg.CanlL1Max)
	}
	return max(cfg.CanlL1Min, cfg.CanlL1Max-cfg.CanlFairFactor*used)
}

func (node *Node) enterListen1(now float64) (float64, bool) {
	node.state = StateListen1
	node.Frame.SetType(RtsFrame)
	node.openWindow(now, "lis1_start")

	slots := node.S.src.IntRange(node.S.cfg.CanlL1Min, node.listen1Slots())
	return float64(slots) * node.Frame.PreambleTime, true
}

func (node *Node) openWindow(now float64, event string) {
	node.listenStart = now
	node.window.Open(now)
	node.S.evlog.Event(node.id, event)
	node.setRadio(RadioRx, now)
	node.S.channel.StartListening(node, now)
}

// canlListen ends a listen window, possibly after one extension, and acts on what was heard.
func (node *Node) canlListen(now float64) (float64, bool) {
	cfg := node.S.cfg
	if !node.window.Decided() {
		if ext := node.window.Close(now); ext != 0 {
			return ext, true
		}
	}

	o := node.window.Outcome()
	node.window.Reset()
	node.setRadio(RadioIdle, now)
	stopEvent := "lis1_stop"
	if node.state == StateListen2 {
		stopEvent = "lis2_stop"
	}
	node.S.evlog.EventAt(node.listenStart+o.ListenedTime, node.id, stopEvent)
	node.Counters.ListenTime += o.ListenedTime

	if o.Kind != radiomodel.ListenNothing {
		np := navParams{
			maxPayload:       cfg.MaxPayloadSize,
			headerInterrupts: cfg.InterruptsOnHeaderValid,
		}
		if cfg.CanlP != 0 {
			// canlL2 as a plain ms margin here, unlike the LISTEN2 window which counts preamble durations
			np.listen2Extra = float64(cfg.CanlL2)
		}
		wait := navDuration(o, node.listenStart, now, node.Frame, np)
		node.nav++
		node.state = StateNav
		return wait, o.Kind != radiomodel.ListenData || wait > 0
	}

	if node.state == StateListen2 {
		node.state = StateSendData
		return 0, false
	}

	node.state = StateSendRts
	if node.Frame.DataPayloadSize > cfg.CanlRtsMinPayloadSize {
		node.Counters.RtsSent++
		node.transmit(now)
		return node.Frame.Airtime, true
	}
	return 0, false
}

// canlSendRts completes an RTS on air, then chooses between a second listen phase and the DATA.
func (node *Node) canlSendRts(now float64) (float64, bool) {
	cfg := node.S.cfg
	f := node.Frame
	if node.transmitting {
		node.complete(now)
		st := &node.S.stats
		if f.Lost {
			st.RtsLost++
		}
		if f.Collided {
			st.RtsCollided++
		}
		if !f.Lost && !f.Collided {
			st.RtsReceived++
		}
		f.ResetOutcome()
	}

	if cfg.CanlP == 0 || node.myP > cfg.CanlP {
		node.state = StateSendData
		return 0, false
	}

	node.state = StateListen2
	node.openWindow(now, "lis2_start")
	return float64(cfg.CanlL2) * f.PreambleTime, true
}

// canlNavExpired retries the packet once the deferral is over.
func (node *Node) canlNavExpired(now float64) (float64, bool) {
	node.state = StateWantTransmit
	node.Frame.SetType(DataFrame)
	node.retryLeft--
	return 0, false
}
