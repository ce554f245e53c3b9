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
	"bytes"
	"reflect"
	"sort"
	"strings"

	"github.com/canl-lora/lorasim/radiomodel"
	. "github.com/canl-lora/lorasim/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputDir          = "results"
	DefaultTargetSchedPerNode = 1000
	DefaultRetries            = 40
)

// Config holds every option of a simulation run. Durations are in ms, powers in dB(m).
type Config struct {
	NrNodes     int          `yaml:"nrNodes"`
	AvgSendTime float64      `yaml:"avgSendTime"`
	Distrib     Distribution `yaml:"distrib"`
	Experiment  Experiment   `yaml:"experiment"`
	Protocol    Protocol     `yaml:"protocol"`

	NRetry                int     `yaml:"nRetry"`
	CadProb               float64 `yaml:"cadProb"`
	VarCadProb            bool    `yaml:"varCadProb"`
	FullDistances         bool    `yaml:"fullDistances"`
	Lora24GHz             bool    `yaml:"lora24GHz"`
	FullCollision         bool    `yaml:"fullCollision"`
	GaussianNoise         bool    `yaml:"gaussianNoise"`
	PowerCaptureThreshold float64 `yaml:"powerCaptureThreshold"`
	GammaED               float64 `yaml:"gammaED"`
	GammaGW               float64 `yaml:"gammaGW"`
	NormalGammaED         bool    `yaml:"normalGammaED"`
	SigmaGammaED          float64 `yaml:"sigmaGammaED"`
	RayleighFading        bool    `yaml:"rayleighFading"`
	RayleighMeanDb        float64 `yaml:"rayleighMeanDb"`

	PacketLength           int     `yaml:"packetLength"`
	VariablePayloadSize    bool    `yaml:"variablePayloadSize"`
	NormalPayloadSize      bool    `yaml:"normalPayloadSize"`
	DistMinPayloadSize     int     `yaml:"distMinPayloadSize"`
	DistMaxPayloadSize     int     `yaml:"distMaxPayloadSize"`
	NormalMeanPayloadSize  float64 `yaml:"normalMeanPayloadSize"`
	NormalSigmaPayloadSize float64 `yaml:"normalSigmaPayloadSize"`
	MaxPayloadSize         int     `yaml:"maxPayloadSize"`

	TargetSchedPerNode      int  `yaml:"targetSchedPerNode"`
	ShuffleStart            bool `yaml:"shuffleStart"`
	InterruptsOnHeaderValid bool `yaml:"interruptsOnHeaderValid"`
	ExplicitHeader          bool `yaml:"explicitHeader"`

	WithCadAndBackoff bool `yaml:"withCadAndBackoff"`
	WbusyMin          int  `yaml:"wbusyMin"`
	WbusyBE           int  `yaml:"wbusyBE"`
	WbusyMaxBE        int  `yaml:"wbusyMaxBE"`
	WbusyExpBackoff   bool `yaml:"wbusyExpBackoff"`
	WbusyAddMaxToa    bool `yaml:"wbusyAddMaxToa"`

	CanlP                 int  `yaml:"canlP"`
	CanlL1Min             int  `yaml:"canlL1Min"`
	CanlL1Max             int  `yaml:"canlL1Max"`
	CanlL2                int  `yaml:"canlL2"`
	CanlBackoffMin        int  `yaml:"canlBackoffMin"`
	CanlBackoffMax        int  `yaml:"canlBackoffMax"`
	CanlCheckBusy         bool `yaml:"canlCheckBusy"`
	CanlRtsMinPayloadSize int  `yaml:"canlRtsMinPayloadSize"`
	CanlFairFactor        int  `yaml:"canlFairFactor"`
	CanlSofterFair        bool `yaml:"canlSofterFair"`
	CanlRtsHdrSize        int  `yaml:"canlRtsHdrSize"`
	CanlDataHdrSize       int  `yaml:"canlDataHdrSize"`
	RtsExplicitHeader     bool `yaml:"rtsExplicitHeader"`

	TopoScale   float64 `yaml:"topoScale"`
	Seed        int64   `yaml:"seed"`
	LogEvents   bool    `yaml:"logEvents"`
	KeepChanLog bool    `yaml:"keepChanLog"`
	OutputDir   string  `yaml:"outputDir"`
}

// DefaultConfig returns the documented defaults. The required options nrNodes and avgSendTime are left unset.
func DefaultConfig() *Config {
	rp := radiomodel.DefaultRadioParams()
	return &Config{
		Distrib:    DistribExponential,
		Experiment: Experiment4,
		Protocol:   ProtocolAloha,

		NRetry:                DefaultRetries,
		CadProb:               rp.CadProb,
		FullCollision:         rp.FullCollision,
		PowerCaptureThreshold: rp.PowerCaptureThresholdDb,
		GammaED:               rp.GammaED,
		GammaGW:               rp.GammaGW,
		NormalGammaED:         rp.NormalGammaED,
		SigmaGammaED:          rp.SigmaGammaED,
		RayleighMeanDb:        rp.RayleighMeanDb,

		PacketLength:           rp.Payload.Fixed,
		DistMinPayloadSize:     rp.Payload.Min,
		DistMaxPayloadSize:     rp.Payload.Max,
		NormalMeanPayloadSize:  rp.Payload.Mean,
		NormalSigmaPayloadSize: rp.Payload.Sigma,
		MaxPayloadSize:         rp.MaxPayloadSize,

		TargetSchedPerNode: DefaultTargetSchedPerNode,
		ExplicitHeader:     rp.ExplicitHeader,

		WithCadAndBackoff: true,
		WbusyMin:          1,
		WbusyBE:           3,
		WbusyMaxBE:        6,
		WbusyExpBackoff:   true,

		CanlL1Min:         7,
		CanlL1Max:         12,
		CanlL2:            6,
		CanlBackoffMax:    32,
		CanlRtsHdrSize:    rp.RtsHdrSize,
		CanlDataHdrSize:   rp.DataHdrSize,
		RtsExplicitHeader: rp.RtsExplicitHeader,

		TopoScale: 1,
		OutputDir: DefaultOutputDir,
	}
}

// EffectiveNrNodes returns the number of devices actually simulated. Experiments 6 and 7 use a fixed population.
func (cfg *Config) EffectiveNrNodes() int {
	switch cfg.Experiment {
	case Experiment6:
		return 9
	case Experiment7:
		return 5
	}
	return cfg.NrNodes
}

// TargetScheduled returns the number of generations after which the run stops.
func (cfg *Config) TargetScheduled() int {
	return cfg.TargetSchedPerNode * cfg.EffectiveNrNodes()
}

func (cfg *Config) Band() Band {
	if cfg.Lora24GHz {
		return Band2400MHz
	}
	return BandSubGHz
}

// Validate checks that the required options are set, then ranges and cross-field rules.
func (cfg *Config) Validate() error {
	switch {
	case cfg.NrNodes <= 0:
		return errors.Errorf("nrNodes must be positive, got %d", cfg.NrNodes)
	case cfg.AvgSendTime <= 0:
		return errors.Errorf("avgSendTime must be positive, got %v", cfg.AvgSendTime)
	}
	return cfg.validateOptions()
}

// validateOptions is Validate without the required options, which may still be unset while a
// configuration is edited option by option.
func (cfg *Config) validateOptions() error {
	switch {
	case cfg.NrNodes < 0:
		return errors.Errorf("nrNodes must not be negative, got %d", cfg.NrNodes)
	case cfg.AvgSendTime < 0:
		return errors.Errorf("avgSendTime must not be negative, got %v", cfg.AvgSendTime)
	case cfg.NRetry < 1:
		return errors.Errorf("nRetry must be at least 1, got %d", cfg.NRetry)
	case cfg.CadProb < 0 || cfg.CadProb > 100:
		return errors.Errorf("cadProb must be within [0,100], got %v", cfg.CadProb)
	case cfg.CanlP < 0 || cfg.CanlP > 100:
		return errors.Errorf("canlP must be within [0,100], got %d", cfg.CanlP)
	case cfg.CanlL1Min < 0 || cfg.CanlL1Min > cfg.CanlL1Max:
		return errors.Errorf("canlL1Min (%d) must be within [0,canlL1Max=%d]", cfg.CanlL1Min, cfg.CanlL1Max)
	case cfg.CanlL2 < 0:
		return errors.Errorf("canlL2 must not be negative, got %d", cfg.CanlL2)
	case cfg.CanlBackoffMin < 0 || cfg.CanlBackoffMin > cfg.CanlBackoffMax:
		return errors.Errorf("canlBackoffMin (%d) must be within [0,canlBackoffMax=%d]", cfg.CanlBackoffMin, cfg.CanlBackoffMax)
	case cfg.CanlFairFactor < 0:
		return errors.Errorf("canlFairFactor must not be negative, got %d", cfg.CanlFairFactor)
	case cfg.CanlRtsHdrSize < 0 || cfg.CanlDataHdrSize < 0:
		return errors.Errorf("CANL header sizes must not be negative")
	case cfg.WbusyMin < 0 || cfg.WbusyBE < 0 || cfg.WbusyBE > cfg.WbusyMaxBE || cfg.WbusyMaxBE > 30:
		return errors.Errorf("invalid ALOHA backoff: wbusyMin=%d wbusyBE=%d wbusyMaxBE=%d", cfg.WbusyMin, cfg.WbusyBE, cfg.WbusyMaxBE)
	case cfg.WbusyMin > 1<<cfg.WbusyBE:
		return errors.Errorf("wbusyMin (%d) exceeds 2^wbusyBE (%d)", cfg.WbusyMin, 1<<cfg.WbusyBE)
	case cfg.PacketLength < 0 || cfg.PacketLength > 255:
		return errors.Errorf("packetLength must be within [0,255], got %d", cfg.PacketLength)
	case cfg.MaxPayloadSize <= 0 || cfg.MaxPayloadSize > 255:
		return errors.Errorf("maxPayloadSize must be within [1,255], got %d", cfg.MaxPayloadSize)
	case cfg.DistMinPayloadSize < 0 || cfg.DistMinPayloadSize > cfg.DistMaxPayloadSize:
		return errors.Errorf("distMinPayloadSize (%d) must be within [0,distMaxPayloadSize=%d]", cfg.DistMinPayloadSize, cfg.DistMaxPayloadSize)
	case cfg.NormalSigmaPayloadSize < 0 || cfg.SigmaGammaED < 0:
		return errors.Errorf("standard deviations must not be negative")
	case cfg.GammaED <= 0 || cfg.GammaGW <= 0:
		return errors.Errorf("path loss exponents must be positive")
	case cfg.TargetSchedPerNode <= 0:
		return errors.Errorf("targetSchedPerNode must be positive, got %d", cfg.TargetSchedPerNode)
	case cfg.TopoScale <= 0:
		return errors.Errorf("topoScale must be positive, got %v", cfg.TopoScale)
	case cfg.LogEvents && cfg.OutputDir == "":
		return errors.Errorf("logEvents requires an outputDir")
	}

	if _, err := ParseExperiment(cfg.Experiment.String()); err != nil {
		return err
	}
	if cfg.Lora24GHz && cfg.Experiment == ExperimentSF7BW500CAD4 {
		return errors.Errorf("experiment %s is not available at 2.4GHz", cfg.Experiment)
	}
	if cfg.Protocol == ProtocolCanl && cfg.VariablePayloadSize && cfg.DistMaxPayloadSize+cfg.CanlDataHdrSize > 255 {
		return errors.Errorf("distMaxPayloadSize plus the CANL data header exceeds 255 bytes")
	}
	return nil
}

// RadioParams converts the configuration into the shared radio settings of the run.
func (cfg *Config) RadioParams() *radiomodel.RadioParams {
	return &radiomodel.RadioParams{
		Band:                    cfg.Band(),
		Experiment:              cfg.Experiment,
		FullDistances:           cfg.FullDistances,
		FullCollision:           cfg.FullCollision,
		GaussianNoise:           cfg.GaussianNoise,
		RayleighFading:          cfg.RayleighFading,
		RayleighMeanDb:          cfg.RayleighMeanDb,
		PowerCaptureThresholdDb: cfg.PowerCaptureThreshold,
		GammaED:                 cfg.GammaED,
		GammaGW:                 cfg.GammaGW,
		NormalGammaED:           cfg.NormalGammaED,
		SigmaGammaED:            cfg.SigmaGammaED,
		CadProb:                 cfg.CadProb,
		VarCadProb:              cfg.VarCadProb,
		ExplicitHeader:          cfg.ExplicitHeader,
		RtsExplicitHeader:       cfg.RtsExplicitHeader,
		Canl:                    cfg.Protocol == ProtocolCanl,
		RtsHdrSize:              cfg.CanlRtsHdrSize,
		DataHdrSize:             cfg.CanlDataHdrSize,
		MaxPayloadSize:          cfg.MaxPayloadSize,
		InterruptsOnHeaderValid: cfg.InterruptsOnHeaderValid,
		Payload: radiomodel.PayloadParams{
			Fixed:    cfg.PacketLength,
			Variable: cfg.VariablePayloadSize,
			Normal:   cfg.NormalPayloadSize,
			Min:      cfg.DistMinPayloadSize,
			Max:      cfg.DistMaxPayloadSize,
			Mean:     cfg.NormalMeanPayloadSize,
			Sigma:    cfg.NormalSigmaPayloadSize,
		},
	}
}

// Keys returns the YAML keys of all options, sorted.
func (cfg *Config) Keys() []string {
	t := reflect.TypeOf(*cfg)
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("yaml"); tag != "" {
			keys = append(keys, strings.Split(tag, ",")[0])
		}
	}
	sort.Strings(keys)
	return keys
}

// Set updates a single option from its textual value, e.g. Set("protocol", "canl"). The configuration is left
// unchanged when the key is unknown or an option is out of range. Required options may stay unset.
func (cfg *Config) Set(key string, value string) error {
	updated := *cfg
	dec := yaml.NewDecoder(bytes.NewBufferString(key + ": " + value + "\n"))
	dec.KnownFields(true)
	if err := dec.Decode(&updated); err != nil {
		return errors.Wrapf(err, "cannot set %s", key)
	}
	if err := updated.validateOptions(); err != nil {
		return err
	}
	*cfg = updated
	return nil
}

// YAML returns the configuration as a YAML document.
func (cfg *Config) YAML() string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err.Error()
	}
	return string(data)
}
