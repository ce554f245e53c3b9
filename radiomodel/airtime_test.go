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
	"math"
	"testing"

	. "github.com/canl-lora/lorasim/types"
	"github.com/stretchr/testify/assert"
)

func TestAirtime_KnownValue(t *testing.T) {
	// SF7, BW125, CR4/5, 20 bytes, explicit header: 12.25 preamble + 43 payload symbols of 1.024 ms
	toa := Airtime(BandSubGHz, 7, 1, 20, 125, true)
	assert.InDelta(t, 56.576, toa, 1e-9)
	assert.InDelta(t, 12.544, PreambleTime(BandSubGHz, 7, 125), 1e-9)
	assert.InDelta(t, 1.024, SymbolTime(7, 125), 1e-12)
}

func TestAirtime_NonDecreasingInPayload(t *testing.T) {
	for _, band := range []Band{BandSubGHz, Band2400MHz} {
		p := DefaultRadioParams()
		p.Band = band
		minSf := p.minSpreadingFactor()
		for sf := minSf; sf <= 12; sf++ {
			for _, bw := range p.Bandwidths() {
				for cr := 1; cr <= 4; cr++ {
					for _, explicit := range []bool{true, false} {
						prev := 0.0
						for pl := 0; pl <= 255; pl++ {
							toa := Airtime(band, sf, cr, pl, bw, explicit)
							assert.True(t, toa >= prev, "band %v sf %d bw %v cr %d pl %d", band, sf, bw, cr, pl)
							prev = toa
						}
					}
				}
			}
		}
	}
}

func TestAirtime_ExplicitHeader(t *testing.T) {
	for sf := 7; sf <= 12; sf++ {
		for pl := 0; pl <= 150; pl++ {
			assert.True(t, Airtime(BandSubGHz, sf, 1, pl, 125, true) >= Airtime(BandSubGHz, sf, 1, pl, 125, false))
		}
	}
	assert.True(t, Airtime(BandSubGHz, 7, 1, 20, 125, true) > Airtime(BandSubGHz, 7, 1, 20, 125, false))
	// SF6 has no header mode choice
	assert.Equal(t, Airtime(BandSubGHz, 6, 1, 20, 500, true), Airtime(BandSubGHz, 6, 1, 20, 500, false))
}

func TestAirtime_LowDataRateOptimization(t *testing.T) {
	// DE halves the bits per symbol for SF11/12 at 125 kHz only
	deOn := Airtime(BandSubGHz, 12, 1, 50, 125, true) / SymbolTime(12, 125)
	deOff := Airtime(BandSubGHz, 12, 1, 50, 250, true) / SymbolTime(12, 250)
	assert.True(t, deOn > deOff)
}

func TestSensitivity(t *testing.T) {
	p := DefaultRadioParams()
	p.Experiment = ExperimentRandom
	assert.Equal(t, -126.5, p.Sensitivity(7, 125, ReceiverGateway))
	assert.Equal(t, -132.25, p.Sensitivity(12, 500, ReceiverDevice))
	assert.Equal(t, -134.5, p.MinSensitivity())

	p.Experiment = Experiment4
	assert.Equal(t, -138.0, p.Sensitivity(12, 125, ReceiverGateway))
	assert.Equal(t, -133.25, p.Sensitivity(12, 125, ReceiverDevice))
	assert.Equal(t, 4, p.CadSymbols())

	p.Experiment = ExperimentSF7BW500CAD4
	assert.Equal(t, -127.0, p.Sensitivity(7, 500, ReceiverGateway))
	assert.Equal(t, -120.75, p.Sensitivity(7, 500, ReceiverDevice))

	p.Experiment = Experiment0
	p.Band = Band2400MHz
	assert.Equal(t, -130.0, p.Sensitivity(12, 203.125, ReceiverGateway))
	assert.Equal(t, -130.0, p.MinSensitivity())
	assert.Equal(t, 4, p.CadSymbols())

	assert.Panics(t, func() {
		p.Sensitivity(12, 125, ReceiverGateway)
	})
}

func TestMaxRangeAndCadProbability(t *testing.T) {
	d := MaxRange(14, -133.25, 2.95)
	assert.InDelta(t, refDistance*math.Exp((14+133.25-refPathLossDb)/29.5), d, 1e-9)
	assert.True(t, MaxRange(14, -138, 2.95) > d)

	near := CadSuccessProbability(14, 50)
	far := CadSuccessProbability(14, 2000)
	assert.True(t, near > far)
	assert.True(t, near <= 100)
}
