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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/canl-lora/lorasim/logger"
	. "github.com/canl-lora/lorasim/types"
	"github.com/pkg/errors"
)

type NetworkConsumption struct {
	Timestamp     float64
	EnergyConsCad float64
	EnergyConsTx  float64
	EnergyConsRx  float64
}

type EnergyAnalyser struct {
	nodes          map[NodeId]*NodeEnergy
	networkHistory []NetworkConsumption
	title          string
}

// AddNode starts the accounting of a device, idle at timestamp. cadCost is the energy of one of its CADs, in J.
func (e *EnergyAnalyser) AddNode(nodeID NodeId, timestamp float64, cadCost float64) {
	if _, ok := e.nodes[nodeID]; ok {
		return
	}
	e.nodes[nodeID] = newNode(nodeID, timestamp, cadCost)
}

func (e *EnergyAnalyser) GetNode(nodeID NodeId) *NodeEnergy {
	return e.nodes[nodeID]
}

func (e *EnergyAnalyser) SetRadioState(nodeID NodeId, state RadioStates, timestamp float64) {
	node := e.nodes[nodeID]
	logger.AssertNotNil(node, "no energy accounting for node %d", nodeID)
	node.SetRadioState(state, timestamp)
}

func (e *EnergyAnalyser) GetNetworkEnergyHistory() []NetworkConsumption {
	return e.networkHistory
}

// StoreNetworkEnergy brings every node up to timestamp and appends the mean consumption per node to the history.
func (e *EnergyAnalyser) StoreNetworkEnergy(timestamp float64) {
	snapshot := NetworkConsumption{
		Timestamp: timestamp,
	}
	if len(e.nodes) == 0 {
		e.networkHistory = append(e.networkHistory, snapshot)
		return
	}

	netSize := float64(len(e.nodes))
	for _, node := range e.nodes {
		node.ComputeRadioState(timestamp)
		snapshot.EnergyConsCad += node.CadEnergy() / netSize
		snapshot.EnergyConsTx += node.TxEnergy() / netSize
		snapshot.EnergyConsRx += node.RxEnergy() / netSize
	}
	e.networkHistory = append(e.networkHistory, snapshot)
}

func (e *EnergyAnalyser) sortedNodeIds() []NodeId {
	ids := make([]NodeId, 0, len(e.nodes))
	for id := range e.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SaveEnergyDataToFile writes <dir>/<name>_nodes.txt and <dir>/<name>.txt, tab separated.
func (e *EnergyAnalyser) SaveEnergyDataToFile(dir string, name string, timestamp float64) error {
	if name == "" {
		if e.title == "" {
			name = "energy"
		} else {
			name = e.title
		}
	}
	if err := os.MkdirAll(dir, 0775); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	path := filepath.Join(dir, name)
	fileNodes, err := os.Create(path + "_nodes.txt")
	if err != nil {
		return errors.Wrap(err, "create energy file")
	}
	defer fileNodes.Close()

	fileNetwork, err := os.Create(path + ".txt")
	if err != nil {
		return errors.Wrap(err, "create energy file")
	}
	defer fileNetwork.Close()

	e.writeEnergyByNodes(fileNodes, timestamp)
	e.writeNetworkEnergy(fileNetwork, timestamp)
	logger.Debugf("energy data saved to %s", path)
	return nil
}

func (e *EnergyAnalyser) writeEnergyByNodes(w io.Writer, timestamp float64) {
	fmt.Fprintf(w, "Duration of the simulated network (in milliseconds): %.3f\n", timestamp)
	fmt.Fprintf(w, "ID\tIdle (ms)\tCAD (ms)\tReceiving (ms)\tTransmitting (ms)\tCADs\tCAD (J)\tReceiving (J)\tTransmitting (J)\n")

	for _, id := range e.sortedNodeIds() {
		node := e.nodes[id]
		node.ComputeRadioState(timestamp)
		fmt.Fprintf(w, "%d\t%f\t%f\t%f\t%f\t%d\t%g\t%g\t%g\n",
			id,
			node.radio.SpentIdle,
			node.radio.SpentCad,
			node.radio.SpentRx,
			node.radio.SpentTx,
			node.radio.NumCad,
			node.CadEnergy(),
			node.RxEnergy(),
			node.TxEnergy(),
		)
	}
}

func (e *EnergyAnalyser) writeNetworkEnergy(w io.Writer, timestamp float64) {
	fmt.Fprintf(w, "Duration of the simulated network (in milliseconds): %.3f\n", timestamp)
	fmt.Fprintf(w, "Time (ms)\tCAD (J)\tTransmitting (J)\tReceiving (J)\n")
	for _, snapshot := range e.networkHistory {
		fmt.Fprintf(w, "%.3f\t%g\t%g\t%g\n",
			snapshot.Timestamp,
			snapshot.EnergyConsCad,
			snapshot.EnergyConsTx,
			snapshot.EnergyConsRx,
		)
	}
}

func (e *EnergyAnalyser) SetTitle(title string) {
	e.title = title
}

func NewEnergyAnalyser() *EnergyAnalyser {
	ea := &EnergyAnalyser{
		nodes:          make(map[NodeId]*NodeEnergy),
		networkHistory: make([]NetworkConsumption, 0, 16),
	}
	return ea
}
