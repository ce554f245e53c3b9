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
	. "github.com/canl-lora/lorasim/types"
)

// ALOHA: after generation, sense the channel with CAD while retries are left, backing off when it is busy,
// then send.

func (node *Node) alohaWantTransmit(now float64) (float64, bool) {
	node.stampWantTransmit(now)
	return node.alohaAttempt(now)
}

func (node *Node) alohaAttempt(now float64) (float64, bool) {
	if node.retryLeft == 0 {
		node.abort()
		return 0, false
	}
	if node.S.cfg.WithCadAndBackoff {
		return node.startCad(now), true
	}
	node.state = StateSendData
	return 0, false
}

func (node *Node) alohaCad(now float64) (float64, bool) {
	cfg := node.S.cfg
	busy := node.S.channel.CadBusy(node.id, node.cadAtStart)
	node.cadAtStart = nil
	node.setRadio(RadioIdle, now)
	if !busy {
		node.state = StateSendData
		return 0, false
	}

	backoff := float64(node.S.src.IntRange(cfg.WbusyMin, 1<<node.backoffExp)) * node.Frame.PreambleTime
	if cfg.WbusyExpBackoff && node.backoffExp < cfg.WbusyMaxBE {
		node.backoffExp++
	}
	node.retryLeft--
	if cfg.WbusyAddMaxToa {
		backoff += node.Frame.AirtimeOf(cfg.MaxPayloadSize)
	}
	node.state = StateBackoff
	return backoff, true
}
