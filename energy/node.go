// Copyright (c) 2022, The OTNS Authors.
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

package energy

import (
	"github.com/canl-lora/lorasim/logger"
	. "github.com/canl-lora/lorasim/types"
)

// NodeEnergy tracks the time one device spends in each radio state.
type NodeEnergy struct {
	nodeId  int
	radio   RadioStatus
	cadCost float64 // J per CAD
}

func (node *NodeEnergy) ComputeRadioState(timestamp float64) {
	delta := timestamp - node.radio.Timestamp
	logger.AssertTruef(delta >= 0, "node %d: radio time went backwards (%f)", node.nodeId, delta)
	switch node.radio.State {
	case RadioIdle:
		node.radio.SpentIdle += delta
	case RadioCad:
		node.radio.SpentCad += delta
	case RadioRx:
		node.radio.SpentRx += delta
	case RadioTx:
		node.radio.SpentTx += delta
	default:
		logger.Panicf("unknown radio state: %v", node.radio.State)
	}
	node.radio.Timestamp = timestamp
}

func (node *NodeEnergy) SetRadioState(state RadioStates, timestamp float64) {
	//Mandatory: account for the time spent in the previous state first.
	node.ComputeRadioState(timestamp)
	if state == RadioCad && node.radio.State != RadioCad {
		node.radio.NumCad++
	}
	node.radio.State = state
}

func (node *NodeEnergy) Status() RadioStatus {
	return node.radio
}

// CadEnergy returns the energy spent in CAD so far, in J.
func (node *NodeEnergy) CadEnergy() float64 {
	return node.cadCost * float64(node.radio.NumCad)
}

func (node *NodeEnergy) TxEnergy() float64 {
	return TxEnergyJ(node.radio.SpentTx)
}

func (node *NodeEnergy) RxEnergy() float64 {
	return RxEnergyJ(node.radio.SpentRx)
}

func (node *NodeEnergy) TotalEnergy() float64 {
	return node.CadEnergy() + node.TxEnergy() + node.RxEnergy()
}

func newNode(nodeID int, timestamp float64, cadCost float64) *NodeEnergy {
	node := &NodeEnergy{
		nodeId:  nodeID,
		cadCost: cadCost,
		radio: RadioStatus{
			State:     RadioIdle,
			Timestamp: timestamp,
		},
	}
	return node
}
