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
	"context"
	"fmt"
	"path/filepath"

	"github.com/canl-lora/lorasim/dispatcher"
	"github.com/canl-lora/lorasim/energy"
	"github.com/canl-lora/lorasim/logger"
	"github.com/canl-lora/lorasim/prng"
	"github.com/canl-lora/lorasim/radiomodel"
	. "github.com/canl-lora/lorasim/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Stats are the network-wide counters of a run.
type Stats struct {
	Scheduled   int
	Sent        int
	Received    int
	Collided    int
	Lost        int
	RtsReceived int
	RtsCollided int
	RtsLost     int

	NTransmit         int
	InterTransmitTime float64
	LastTransmitTime  float64

	// shared schedule of the ideal FIFO
	IdealLatestStart float64
	IdealLatestTime  float64
}

type Simulation struct {
	cfg     *Config
	topo    *Topology
	runId   string
	seed    prng.RandomSeed
	src     *prng.Source
	params  *radiomodel.RadioParams
	prop    *radiomodel.Propagation
	channel *radiomodel.Channel
	evlog   *logger.EventLog
	d       *dispatcher.Dispatcher
	energy  *energy.EnergyAnalyser
	nodes   []*Node
	stats   Stats
	endTime float64
	started bool
	results *Results
}

// NewSimulation prepares a run of cfg on topo. A nil topo is generated from the run's random source. The
// configuration is copied, so later changes to cfg do not affect the run.
func NewSimulation(cfg *Config, topo *Topology) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	runCfg := *cfg

	s := &Simulation{
		cfg:    &runCfg,
		runId:  uuid.New().String(),
		params: runCfg.RadioParams(),
		d:      dispatcher.NewDispatcher(),
		energy: energy.NewEnergyAnalyser(),
	}
	if runCfg.Seed != 0 {
		s.seed = prng.RandomSeed(runCfg.Seed)
	} else {
		s.seed = prng.NewRunSeed()
	}
	s.src = prng.NewSource(s.seed)

	nrNodes := runCfg.EffectiveNrNodes()
	var err error
	if topo == nil {
		if topo, err = BuildTopology(nrNodes, s.params, s.src, 0); err != nil {
			return nil, err
		}
	}
	if topo, err = topo.Head(nrNodes); err != nil {
		return nil, err
	}
	if runCfg.TopoScale != 1 {
		topo = topo.Scaled(runCfg.TopoScale)
	}
	s.topo = topo

	if runCfg.LogEvents {
		if s.evlog, err = logger.NewEventLog(runCfg.OutputDir, s.runId, s.d.Now); err != nil {
			return nil, err
		}
	}

	s.prop = radiomodel.NewPropagation(s.params, topo.DistanceMatrix(), s.src)
	s.channel = radiomodel.NewChannel(s.prop, s.evlog)
	s.energy.SetTitle(s.runId + "_energy")

	cadSymbols := s.params.CadSymbols()
	for id := 0; id < nrNodes; id++ {
		node := newNode(s, id)
		f := node.Frame
		s.energy.AddNode(id, 0, energy.CadEnergyJ(f.SF, f.BW, f.SymTime, cadSymbols, 1))
		s.channel.AddListener(node)
		s.nodes = append(s.nodes, node)
		s.d.Register(node)
	}

	target := runCfg.TargetScheduled()
	s.d.SetStopCondition(func() bool {
		return s.stats.Scheduled > target
	})

	logger.Infof("simulation %s: %d nodes, protocol %s, experiment %s, seed %d", s.runId, nrNodes,
		runCfg.Protocol, runCfg.Experiment, s.seed)
	return s, nil
}

// Run executes the simulation until the scheduled-packet target is exceeded or ctx is done. A violated
// invariant aborts the run with an error.
func (s *Simulation) Run(ctx context.Context) (res *Results, err error) {
	if s.started {
		return nil, errors.Errorf("simulation %s has already run", s.runId)
	}
	s.started = true

	logger.SetSimClock(s.d.Now)
	defer logger.SetSimClock(nil)
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, errors.Errorf("panic: %v", r)
		}
		if cerr := s.evlog.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close event log")
		}
	}()

	end, err := s.d.Run(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "simulation %s interrupted at %.3fms", s.runId, end)
	}
	s.endTime = end
	s.energy.StoreNetworkEnergy(end)
	s.results = s.computeResults()
	logger.Infof("simulation %s done at %.3fms: %d scheduled, %d sent, %d received", s.runId, end,
		s.stats.Scheduled, s.stats.Sent, s.stats.Received)
	return s.results, nil
}

// SaveOutputs writes the results JSON and the energy tables of a completed run to the output directory.
func (s *Simulation) SaveOutputs() (string, error) {
	if s.results == nil {
		return "", errors.Errorf("simulation %s has not run", s.runId)
	}
	path := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("%s.json", s.runId))
	if err := s.results.SaveFile(path); err != nil {
		return "", err
	}
	if err := s.energy.SaveEnergyDataToFile(s.cfg.OutputDir, "", s.endTime); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Simulation) RunId() string {
	return s.runId
}

func (s *Simulation) Seed() prng.RandomSeed {
	return s.seed
}

func (s *Simulation) Config() *Config {
	return s.cfg
}

func (s *Simulation) Topology() *Topology {
	return s.topo
}

func (s *Simulation) Nodes() []*Node {
	return s.nodes
}

func (s *Simulation) Node(id NodeId) *Node {
	if id < 0 || id >= len(s.nodes) {
		return nil
	}
	return s.nodes[id]
}

func (s *Simulation) Channel() *radiomodel.Channel {
	return s.channel
}

func (s *Simulation) Dispatcher() *dispatcher.Dispatcher {
	return s.d
}

func (s *Simulation) Energy() *energy.EnergyAnalyser {
	return s.energy
}

func (s *Simulation) Stats() Stats {
	return s.stats
}

func (s *Simulation) Results() *Results {
	return s.results
}

// EventLogFile returns the event log path, or "" when events are not logged.
func (s *Simulation) EventLogFile() string {
	return s.evlog.FileName()
}

// TotalCounters sums the counters of all devices.
func (s *Simulation) TotalCounters() NodeCounters {
	counters := make([]NodeCounters, len(s.nodes))
	for i, n := range s.nodes {
		counters[i] = n.Counters
	}
	return mergeNodeCounters(counters...)
}
