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

	"github.com/canl-lora/lorasim/prng"
)

// fadingModel draws the per-transmission impairments of a link: Gaussian noise and Rayleigh fading, both in dB.
type fadingModel struct {
	params *RadioParams
	src    *prng.Source
}

func newFadingModel(params *RadioParams, src *prng.Source) *fadingModel {
	return &fadingModel{
		params: params,
		src:    src,
	}
}

func (fm *fadingModel) noiseDb() DbValue {
	v := fm.src.Normal(noiseMeanDb, noiseSigmaDb)
	return math.Max(0, math.Min(2*noiseMeanDb, v))
}

// rayleighDb is mean-corrected, so its expected value is zero.
func (fm *fadingModel) rayleighDb() DbValue {
	mean := fm.params.RayleighMeanDb
	return fm.src.Rayleigh(math.Sqrt(2/math.Pi)*mean) - mean
}

// draw returns the impairment toward the gateway and toward each of n devices.
func (fm *fadingModel) draw(n int) (gw DbValue, devices []DbValue) {
	devices = make([]DbValue, n)
	if fm.params.GaussianNoise {
		gw = fm.noiseDb()
		for i := range devices {
			devices[i] = fm.noiseDb()
		}
	}
	if fm.params.RayleighFading {
		gw += fm.rayleighDb()
		for i := range devices {
			devices[i] += fm.rayleighDb()
		}
	}
	return
}
