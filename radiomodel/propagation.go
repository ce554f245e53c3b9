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
	"github.com/canl-lora/lorasim/prng"
)

// Propagation computes received powers from the distance matrix, path loss exponents and random impairments.
type Propagation struct {
	params *RadioParams
	dm     *DistanceMatrix
	src    *prng.Source
	fading *fadingModel
}

func NewPropagation(params *RadioParams, dm *DistanceMatrix, src *prng.Source) *Propagation {
	return &Propagation{
		params: params,
		dm:     dm,
		src:    src,
		fading: newFadingModel(params, src),
	}
}

func (prop *Propagation) Params() *RadioParams {
	return prop.params
}

func (prop *Propagation) Distances() *DistanceMatrix {
	return prop.dm
}

// Refresh draws new received powers of f at the gateway and at every device.
// An RTS and the DATA that follows it share one draw, so this runs once per completed exchange.
func (prop *Propagation) Refresh(f *Frame) {
	gwImp, devImp := prop.fading.draw(prop.dm.Size())
	for j := range f.Rx {
		f.Rx[j] = computeDeviceRxPower(f.TxPower, prop.dm.Between(f.Id, j), f.gammas[j], devImp[j])
	}
	f.Rssi = computeGatewayRssi(f.TxPower, f.distToGW, prop.params.GammaGW, gwImp)
}
