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

package radiomodel

import (
	. "github.com/canl-lora/lorasim/types"
)

// DbValue is a power (dBm) or gain (dB).
type DbValue = float64

// propagation constants of the log-distance model
const (
	txPowerSubGHzDbm  DbValue = 14
	txPower2400MHzDbm DbValue = 10
	refDistance       float64 = 40.0 // d0, m
	refPathLossDb     DbValue = 83   // path loss at d0
	deviceGainDb      DbValue = 0
	gatewayGainDb     DbValue = 1.5
	noiseMeanDb       DbValue = 3
	noiseSigmaDb      DbValue = 3
	minRxPowerDbm     DbValue = -1000
	selfDistance      float64 = 0.01
)

// distance-derived CAD success model
const (
	cadGamma       = 2.08 * 1.1
	cadRefDistance = 40.0
	cadRefLossDb   = 127.41 * 1.1
	cadGainDb      = 0.0
	cadSlope       = 26.236634985744626
	cadIntercept   = 3930.0719485605073
)

const (
	// exp4SF is the spreading factor of the LoRaWAN-like presets.
	exp4SF = 12
	// criticalPreambleSymbols is the number of preamble symbols a receiver needs to lock onto a frame.
	criticalPreambleSymbols = 3
	// rxExtensionEpsilon pads listen extensions against floating point error.
	rxExtensionEpsilon = 1e-5
	// nonCanlWaitPhyMarginMs is added to a 5-byte frame airtime to get the PHY wait outside CANL.
	nonCanlWaitPhyMarginMs = 131
	nonCanlRtsPayload      = 5
)

// PayloadParams is the data payload size distribution.
type PayloadParams struct {
	Fixed    int
	Variable bool
	Normal   bool
	Min      int
	Max      int
	Mean     float64
	Sigma    float64
}

// RadioParams stores the PHY, propagation and collision settings shared by all devices of a run.
type RadioParams struct {
	Band                    Band
	Experiment              Experiment
	FullDistances           bool    // evaluate reception per listening device instead of copying the gateway outcome
	FullCollision           bool    // capture and timing evaluation instead of plain overlap
	GaussianNoise           bool    // additive noise on every link
	RayleighFading          bool    // Rayleigh fading on every link
	RayleighMeanDb          DbValue // mean of the Rayleigh term
	PowerCaptureThresholdDb DbValue // base capture threshold
	GammaED                 float64 // path loss exponent of device-device links
	GammaGW                 float64 // path loss exponent of device-gateway links
	NormalGammaED           bool    // draw device-device exponents from N(GammaED, SigmaGammaED)
	SigmaGammaED            float64
	CadProb                 float64 // fixed CAD success probability in %
	VarCadProb              bool    // derive the CAD success probability from distance
	ExplicitHeader          bool    // PHY header mode of DATA frames
	RtsExplicitHeader       bool    // PHY header mode of RTS frames
	Canl                    bool    // CANL headers, RTS framing and neighbour reception records
	RtsHdrSize              int
	DataHdrSize             int
	MaxPayloadSize          int
	InterruptsOnHeaderValid bool
	Payload                 PayloadParams
}

// DefaultRadioParams returns the radio settings of the reference simulator.
func DefaultRadioParams() *RadioParams {
	return &RadioParams{
		Band:                    BandSubGHz,
		Experiment:              Experiment4,
		FullDistances:           false,
		FullCollision:           true,
		RayleighMeanDb:          1,
		PowerCaptureThresholdDb: 6,
		GammaED:                 3,
		GammaGW:                 2.95,
		NormalGammaED:           true,
		SigmaGammaED:            0.25,
		CadProb:                 50,
		ExplicitHeader:          true,
		RtsExplicitHeader:       true,
		RtsHdrSize:              4,
		DataHdrSize:             4,
		MaxPayloadSize:          150,
		Payload: PayloadParams{
			Fixed: 104,
			Min:   40,
			Max:   100,
			Mean:  60,
			Sigma: 15,
		},
	}
}

func (p *RadioParams) TxPowerDbm() DbValue {
	if p.Band == Band2400MHz {
		return txPower2400MHzDbm
	}
	return txPowerSubGHzDbm
}

// CadSymbols returns the CAD duration in symbols.
func (p *RadioParams) CadSymbols() int {
	if p.Band == Band2400MHz || p.Experiment == Experiment4 || p.Experiment == ExperimentSF7BW500CAD4 {
		return 4
	}
	return 3
}

// Bandwidths returns the legal bandwidths (kHz) of the band, lowest first.
func (p *RadioParams) Bandwidths() []float64 {
	if p.Band == Band2400MHz {
		return []float64{203.125, 406.25, 812.5, 1625}
	}
	return []float64{125, 250, 500}
}

func (p *RadioParams) minSpreadingFactor() int {
	if p.Band == Band2400MHz {
		return 5
	}
	return 6
}

func (p *RadioParams) baseFrequencyHz() int64 {
	if p.Band == Band2400MHz {
		return 2403000000
	}
	return 860000000
}

func (p *RadioParams) channelFrequenciesHz() []int64 {
	if p.Band == Band2400MHz {
		return []int64{2403000000, 2425000000, 2479000000}
	}
	return []int64{860000000, 864000000, 868000000}
}

// PresetPhy returns the (sf, bw, cr) forced by the experiment, or ok == false when devices draw their own.
func (p *RadioParams) PresetPhy() (sf int, bw float64, cr int, ok bool) {
	lowestBw := p.Bandwidths()[0]
	switch p.Experiment {
	case Experiment0, Experiment1:
		return 12, lowestBw, 4, true
	case Experiment2:
		if p.Band == Band2400MHz {
			return 5, 1625, 1, true
		}
		return 6, 500, 1, true
	case Experiment4, Experiment6, Experiment7:
		return exp4SF, lowestBw, 1, true
	case ExperimentSF7BW500CAD4:
		return 7, 500, 1, true
	}
	return 0, 0, 0, false
}
