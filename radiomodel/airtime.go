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

	. "github.com/canl-lora/lorasim/types"
)

// SymbolTime returns the LoRa symbol duration in ms for bandwidth bw in kHz.
func SymbolTime(sf int, bw float64) float64 {
	return math.Pow(2, float64(sf)) / bw
}

// PreambleTime returns the preamble duration in ms.
func PreambleTime(band Band, sf int, bw float64) float64 {
	tsym := SymbolTime(sf, bw)
	if band == Band2400MHz {
		if sf < 7 {
			return (12 + 6.25) * tsym
		}
		return (12 + 4.25) * tsym
	}
	return (8 + 4.25) * tsym
}

// Airtime computes the time-on-air in ms of a frame with pl payload bytes, following the Semtech LoRa design guide.
func Airtime(band Band, sf int, cr int, pl int, bw float64, explicit bool) float64 {
	de := 0.0
	h := 0.0
	if !explicit {
		h = 1
	}
	tsym := SymbolTime(sf, bw)
	fsf := float64(sf)
	fpl := float64(pl)
	fcr := float64(cr)

	if band == Band2400MHz {
		h = 1
		if sf > 10 {
			de = 1
		}
		bits := 8*fpl + 16 - 4*fsf + 20*h
		if sf >= 7 {
			bits += 8
		}
		payloadSymb := 8 + math.Ceil(math.Max(bits, 0)/(4*(fsf-2*de)))*(fcr+4)
		return PreambleTime(band, sf, bw) + payloadSymb*tsym
	}

	if bw == 125 && (sf == 11 || sf == 12) {
		de = 1
	}
	if sf == 6 {
		h = 0
	}
	payloadSymb := 8 + math.Max(math.Ceil((8*fpl-4*fsf+28+16-20*h)/(4*(fsf-2*de)))*(fcr+4), 0)
	return PreambleTime(band, sf, bw) + payloadSymb*tsym
}
