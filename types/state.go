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

package types

import (
	"github.com/simonlingoogle/go-simplelogger"
)

// NodeState is the protocol state of a device.
type NodeState byte

const (
	StateScheduleTx   NodeState = 0
	StateWantTransmit NodeState = 1
	StateListen1      NodeState = 10
	StateNav          NodeState = 11
	StateSendRts      NodeState = 12
	StateListen2      NodeState = 13
	StateSendData     NodeState = 14
	StateCad          NodeState = 15
	StateIdealSend    NodeState = 16
	StateBackoff      NodeState = 17
)

func (s NodeState) String() string {
	switch s {
	case StateScheduleTx:
		return "SCHEDULE_TX"
	case StateWantTransmit:
		return "WANT_TRANSMIT"
	case StateListen1:
		return "LISTEN1"
	case StateNav:
		return "NAV"
	case StateSendRts:
		return "SEND_RTS"
	case StateListen2:
		return "LISTEN2"
	case StateSendData:
		return "SEND_DATA"
	case StateCad:
		return "CAD"
	case StateIdealSend:
		return "IDEAL_SEND_DATA"
	case StateBackoff:
		return "BACKOFF"
	default:
		simplelogger.Panicf("invalid NodeState: %d", int(s))
		return "invalid"
	}
}

// IsListening returns true in the two CANL listening states.
func (s NodeState) IsListening() bool {
	return s == StateListen1 || s == StateListen2
}

// RadioStates is the coarse radio activity used for energy accounting.
type RadioStates byte

const (
	RadioIdle RadioStates = 0
	RadioCad  RadioStates = 1
	RadioRx   RadioStates = 2
	RadioTx   RadioStates = 3
)

func (s RadioStates) String() string {
	switch s {
	case RadioIdle:
		return "Idl"
	case RadioCad:
		return "Cad"
	case RadioRx:
		return "Rx_"
	case RadioTx:
		return "Tx_"
	default:
		simplelogger.Panicf("invalid RadioState: %v", s)
		return "invalid"
	}
}
