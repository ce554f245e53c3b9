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
	"os"
	"path/filepath"
	"testing"

	. "github.com/canl-lora/lorasim/types"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProtocolAloha, cfg.Protocol)
	assert.Equal(t, Experiment4, cfg.Experiment)
	assert.Equal(t, DefaultRetries, cfg.NRetry)
	assert.NotNil(t, cfg.Validate(), "nrNodes and avgSendTime are required")

	cfg.NrNodes = 10
	cfg.AvgSendTime = 60000
	assert.Nil(t, cfg.Validate())
	assert.Equal(t, 10*DefaultTargetSchedPerNode, cfg.TargetScheduled())
}

func TestConfig_EffectiveNrNodes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NrNodes = 50
	assert.Equal(t, 50, cfg.EffectiveNrNodes())
	cfg.Experiment = Experiment6
	assert.Equal(t, 9, cfg.EffectiveNrNodes())
	cfg.Experiment = Experiment7
	assert.Equal(t, 5, cfg.EffectiveNrNodes())
}

func TestConfig_ValidateErrors(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.NrNodes = 3
		cfg.AvgSendTime = 1000
		return cfg
	}

	cases := map[string]func(cfg *Config){
		"retries":      func(cfg *Config) { cfg.NRetry = 0 },
		"cadProb":      func(cfg *Config) { cfg.CadProb = 101 },
		"canlP":        func(cfg *Config) { cfg.CanlP = -1 },
		"canlL1":       func(cfg *Config) { cfg.CanlL1Min = cfg.CanlL1Max + 1 },
		"maxBE":        func(cfg *Config) { cfg.WbusyMaxBE = 31 },
		"packetLength": func(cfg *Config) { cfg.PacketLength = 256 },
		"topoScale":    func(cfg *Config) { cfg.TopoScale = 0 },
		"eventLog":     func(cfg *Config) { cfg.LogEvents, cfg.OutputDir = true, "" },
		"24GHz": func(cfg *Config) {
			cfg.Lora24GHz = true
			cfg.Experiment = ExperimentSF7BW500CAD4
		},
		"canlHeader": func(cfg *Config) {
			cfg.Protocol = ProtocolCanl
			cfg.VariablePayloadSize = true
			cfg.DistMaxPayloadSize = 255
		},
	}
	for name, mod := range cases {
		cfg := valid()
		mod(cfg)
		assert.NotNil(t, cfg.Validate(), name)
	}
}

func TestConfig_Set(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NrNodes = 3
	cfg.AvgSendTime = 1000

	assert.Nil(t, cfg.Set("protocol", "canl"))
	assert.Equal(t, ProtocolCanl, cfg.Protocol)
	assert.Nil(t, cfg.Set("nrNodes", "25"))
	assert.Equal(t, 25, cfg.NrNodes)
	assert.Nil(t, cfg.Set("distrib", "perio"))
	assert.Equal(t, DistribPeriodic, cfg.Distrib)

	assert.NotNil(t, cfg.Set("noSuchOption", "1"))
	assert.NotNil(t, cfg.Set("nRetry", "0"))
	assert.Equal(t, DefaultRetries, cfg.NRetry)
	assert.NotNil(t, cfg.Set("protocol", "csma"))
	assert.Equal(t, ProtocolCanl, cfg.Protocol)

	fresh := DefaultConfig()
	assert.Nil(t, fresh.Set("nrNodes", "4"))
	assert.NotNil(t, fresh.Validate(), "avgSendTime is still unset")
	assert.Nil(t, fresh.Set("avgSendTime", "5000"))
	assert.Nil(t, fresh.Validate())
	assert.NotNil(t, fresh.Set("nrNodes", "-1"))
}

func TestConfig_Keys(t *testing.T) {
	keys := DefaultConfig().Keys()
	assert.Contains(t, keys, "nrNodes")
	assert.Contains(t, keys, "canlL1Max")
	assert.Contains(t, keys, "withCadAndBackoff")
	assert.IsIncreasing(t, keys)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("nrNodes: 5\navgSendTime: 60000\ndistrib: perio\nexperiment: 4\nprotocol: canl\ncanlP: 50\n"))
	assert.Nil(t, err)
	assert.Equal(t, 5, cfg.NrNodes)
	assert.Equal(t, ProtocolCanl, cfg.Protocol)
	assert.Equal(t, DistribPeriodic, cfg.Distrib)
	assert.Equal(t, 50, cfg.CanlP)
	assert.Equal(t, DefaultRetries, cfg.NRetry)

	_, err = ParseConfig([]byte("avgSendTime: 60000\ndistrib: expo\nexperiment: 4\n"))
	assert.NotNil(t, err, "nrNodes is required")

	_, err = ParseConfig([]byte("nrNodes: 5\navgSendTime: 60000\ndistrib: expo\nexperiment: 4\nbogus: 1\n"))
	assert.NotNil(t, err, "unknown keys are rejected")

	_, err = ParseConfig([]byte("nrNodes: 5\navgSendTime: 60000\ndistrib: expo\nexperiment: 3\n"))
	assert.NotNil(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	assert.Nil(t, os.WriteFile(path, []byte("nrNodes: 2\navgSendTime: 1000\ndistrib: unif\nexperiment: 0\n"), 0644))
	cfg, err := LoadConfig(path)
	assert.Nil(t, err)
	assert.Equal(t, Experiment0, cfg.Experiment)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}
