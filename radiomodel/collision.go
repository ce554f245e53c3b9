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

// PowerCapture records one power-domain evaluation between two overlapping frames.
type PowerCapture struct {
	InEars   int    // number of signals the receiver perceived at once
	Captured bool   // one frame survived by capture
	Local    NodeId // receiving device, or GatewayId
}

// FrequencyCollision reports whether the carriers of a and b are close enough to interfere, given the widest
// bandwidth of the two. It is symmetric.
func FrequencyCollision(a, b *Frame) bool {
	diffKHz := math.Abs(float64(a.Freq-b.Freq)) / 1000
	switch {
	case a.BW == 500 || b.BW == 500:
		return diffKHz <= 120
	case a.BW == 250 || b.BW == 250:
		return diffKHz <= 60
	default:
		return diffKHz <= 30
	}
}

func SFCollision(a, b *Frame) bool {
	return a.SF == b.SF
}

// CaptureThreshold returns the power margin (dB) needed for capture when inEars signals are perceived.
func CaptureThreshold(baseDb DbValue, inEars int) DbValue {
	if inEars > 2 {
		return baseDb + 2*DbValue(inEars-2)
	}
	return baseDb
}

// PowerCollision resolves two overlapping signals r1 and r2 (dBm) in the power domain and returns which of them are
// casualties. Both are lost when they are closer than threshold; otherwise only the weaker one is.
func PowerCollision(r1, r2 DbValue, threshold DbValue) (firstLost, secondLost bool) {
	if math.Abs(r1-r2) < threshold {
		return true, true
	}
	if r1-r2 < threshold {
		return true, false
	}
	return false, true
}

// TimingCollision reports whether p1 loses against p2 in time: p1's critical section, counted from now when p1 is
// arriving or else from its own start, ends before p2 is over.
func TimingCollision(p1, p2 *Frame, now float64, occurringNow bool) bool {
	start := p1.AddTime
	if occurringNow {
		start = now
	}
	p1CriticalEnd := start + p1.CriticalSection()
	p2End := p2.AddTime + p2.Airtime
	return p1CriticalEnd < p2End
}
