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
	"github.com/canl-lora/lorasim/logger"
	. "github.com/canl-lora/lorasim/types"
)

// ReceiverRole selects the sensitivity of the receiving side.
type ReceiverRole int

const (
	ReceiverGateway ReceiverRole = iota
	ReceiverDevice
)

// sub-GHz sensitivities (dBm), rows SF6..SF12, columns BW125/250/500.
// SF7 and up from Bor et al., "Do LoRa low-power wide-area networks scale?", MSWiM 2016.
var sensitivitySubGHz = [7][3]DbValue{
	{-118.0, -115.0, -111.0},
	{-126.5, -124.25, -120.75},
	{-127.25, -126.75, -124.0},
	{-131.25, -128.25, -127.5},
	{-132.75, -130.25, -128.75},
	{-134.5, -132.75, -128.75},
	{-133.25, -132.25, -132.25},
}

// 2.4 GHz sensitivities (dBm) from the SX128x datasheet, rows SF5..SF12, columns BW203/406/812/1625.
var sensitivity2400MHz = [8][4]DbValue{
	{-109.0, -107.0, -105.0, -99.0},
	{-111.0, -110.0, -118.0, -103.0},
	{-115.0, -113.0, -112.0, -106.0},
	{-118.0, -116.0, -115.0, -109.0},
	{-121.0, -119.0, -117.0, -111.0},
	{-124.0, -122.0, -120.0, -114.0},
	{-127.0, -125.0, -123.0, -117.0},
	{-130.0, -128.0, -126.0, -120.0},
}

var (
	bandwidthsSubGHz  = []float64{125, 250, 500}
	bandwidths2400MHz = []float64{203.125, 406.25, 812.5, 1625}
)

func bandwidthIndex(bws []float64, bw float64) int {
	for i, b := range bws {
		if b == bw {
			return i
		}
	}
	return -1
}

func tableSensitivity(band Band, sf int, bw float64) DbValue {
	if band == Band2400MHz {
		col := bandwidthIndex(bandwidths2400MHz, bw)
		if sf < 5 || sf > 12 || col < 0 {
			logger.Panicf("no 2.4GHz sensitivity for SF%d BW%v", sf, bw)
		}
		return sensitivity2400MHz[sf-5][col]
	}
	col := bandwidthIndex(bandwidthsSubGHz, bw)
	if sf < 6 || sf > 12 || col < 0 {
		logger.Panicf("no sub-GHz sensitivity for SF%d BW%v", sf, bw)
	}
	return sensitivitySubGHz[sf-6][col]
}

// Sensitivity returns the reception threshold (dBm) of a frame with the given sf/bw at a receiver.
func (p *RadioParams) Sensitivity(sf int, bw float64, role ReceiverRole) DbValue {
	switch p.Experiment {
	case Experiment4:
		if role == ReceiverDevice {
			return -133.25
		}
		return -138
	case ExperimentSF7BW500CAD4:
		if role == ReceiverDevice {
			return tableSensitivity(BandSubGHz, sf, bw)
		}
		return -127
	}
	return tableSensitivity(p.Band, sf, bw)
}

// MinSensitivity returns the gateway sensitivity that bounds the radius of a topology built for this preset.
// Devices drawing their own PHY use the most sensitive table entry.
func (p *RadioParams) MinSensitivity() DbValue {
	if sf, bw, _, ok := p.PresetPhy(); ok {
		if p.Experiment == ExperimentSF7BW500CAD4 {
			return tableSensitivity(BandSubGHz, sf, bw)
		}
		return tableSensitivity(p.Band, sf, bw)
	}

	lowest := DbValue(0)
	if p.Band == Band2400MHz {
		for _, row := range sensitivity2400MHz {
			for _, v := range row {
				if v < lowest {
					lowest = v
				}
			}
		}
		return lowest
	}
	for _, row := range sensitivitySubGHz {
		for _, v := range row {
			if v < lowest {
				lowest = v
			}
		}
	}
	return lowest
}
