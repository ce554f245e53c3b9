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
	"os"
	"path/filepath"
	"testing"

	"github.com/canl-lora/lorasim/radiomodel"
	. "github.com/canl-lora/lorasim/types"
	"github.com/stretchr/testify/assert"
)

func runTestSimulation(t *testing.T, cfg *Config) (*Simulation, *Results) {
	s := newTestSimulation(t, cfg)
	res, err := s.Run(context.Background())
	assert.Nil(t, err)
	assert.NotNil(t, res)
	return s, res
}

func TestSimulation_Reproducible(t *testing.T) {
	for _, proto := range []Protocol{ProtocolAloha, ProtocolCanl, ProtocolIdeal} {
		_, r1 := runTestSimulation(t, newTestConfig(t, proto, 3))
		_, r2 := runTestSimulation(t, newTestConfig(t, proto, 3))
		assert.Equal(t, r1.Nodes, r2.Nodes, proto.String())
		assert.Equal(t, r1.Total, r2.Total, proto.String())
		assert.NotEqual(t, r1.Settings.RunId, r2.Settings.RunId)
	}
}

func TestSimulation_ReproducibleTwoDeviceCanl(t *testing.T) {
	newCfg := func() *Config {
		cfg := newTestConfig(t, ProtocolCanl, 2)
		cfg.Distrib = DistribExponential
		cfg.TargetSchedPerNode = 500
		return cfg
	}
	s1, r1 := runTestSimulation(t, newCfg())
	s2, r2 := runTestSimulation(t, newCfg())

	assert.Greater(t, s1.Stats().Scheduled, 1000)
	assert.Equal(t, s1.Stats(), s2.Stats())
	assert.Equal(t, r1.Total.NrReceived, r2.Total.NrReceived)
	assert.Equal(t, r1.Total.NrCollisions, r2.Total.NrCollisions)
	assert.Equal(t, r1.Nodes, r2.Nodes)
	assert.Equal(t, r1.Total, r2.Total)
}

func TestSimulation_StopsAfterTarget(t *testing.T) {
	cfg := newTestConfig(t, ProtocolCanl, 2)
	s, res := runTestSimulation(t, cfg)
	st := s.Stats()
	assert.Greater(t, st.Scheduled, cfg.TargetScheduled())
	assert.Equal(t, st.Scheduled, res.Total.NrScheduled)
	assert.Equal(t, st.Sent, res.Total.NrSent)
	assert.LessOrEqual(t, st.Received, st.Sent)
	assert.Len(t, res.Nodes, 2)

	total := s.TotalCounters()
	assert.Equal(t, st.Sent, total.Sent)
	assert.Equal(t, st.Received, total.Success)
	assert.Equal(t, res.Total.NumberOfCad, total.NumCad)
}

func TestSimulation_IdealHasNoCollisions(t *testing.T) {
	cfg := newTestConfig(t, ProtocolIdeal, 5)
	cfg.AvgSendTime = 5000
	_, res := runTestSimulation(t, cfg)
	assert.Equal(t, 0, res.Total.NrCollisions)
	for _, nr := range res.Nodes {
		assert.Equal(t, 0, nr.CollidedPackets)
		assert.Equal(t, 0, nr.NumberOfCad)
	}
	assert.InDelta(t, 0.0, res.Total.ChannelOverlapRatio, 1e-6)
}

func TestSimulation_Experiment6(t *testing.T) {
	cfg := newTestConfig(t, ProtocolAloha, 50)
	cfg.Experiment = Experiment6
	s, res := runTestSimulation(t, cfg)
	assert.Len(t, s.Nodes(), 9)
	assert.Len(t, res.Nodes, 9)
}

func TestSimulation_RunTwice(t *testing.T) {
	s, _ := runTestSimulation(t, newTestConfig(t, ProtocolAloha, 2))
	_, err := s.Run(context.Background())
	assert.NotNil(t, err)
}

func TestSimulation_Cancelled(t *testing.T) {
	s := newTestSimulation(t, newTestConfig(t, ProtocolAloha, 2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Run(ctx)
	assert.NotNil(t, err)
	assert.Nil(t, res)
	_, err = s.SaveOutputs()
	assert.NotNil(t, err)
}

func TestSimulation_TopologyTooSmall(t *testing.T) {
	topo := &Topology{Nodes: make([]radiomodel.Position, 1)}
	_, err := NewSimulation(newTestConfig(t, ProtocolAloha, 2), topo)
	assert.NotNil(t, err)
}

func TestSimulation_SaveOutputs(t *testing.T) {
	cfg := newTestConfig(t, ProtocolCanl, 2)
	cfg.LogEvents = true
	cfg.KeepChanLog = true
	s, res := runTestSimulation(t, cfg)
	assert.NotEmpty(t, res.Total.ChanLog)

	path, err := s.SaveOutputs()
	assert.Nil(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, s.RunId()+".json"), path)
	assert.FileExists(t, path)
	assert.FileExists(t, s.EventLogFile())
	assert.NotEmpty(t, res.FileTime)

	data, err := os.ReadFile(path)
	assert.Nil(t, err)
	assert.Contains(t, string(data), `"TOTAL"`)
	assert.Contains(t, string(data), `"chanlog"`)
	assert.Contains(t, string(data), s.RunId())
}
