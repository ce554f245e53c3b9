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
	"testing"

	"github.com/canl-lora/lorasim/radiomodel"
	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.5, ratio(1, 2))
	assert.Equal(t, Undefined, ratio(1, 0))
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, mean)
	assert.Equal(t, 2.0, std)

	mean, std = meanStd(nil)
	assert.Equal(t, Undefined, mean)
	assert.Equal(t, Undefined, std)

	assert.Equal(t, 3.0, definedMean([]float64{2, Undefined, 4}))
	assert.Equal(t, Undefined, definedMean([]float64{Undefined}))
	assert.Equal(t, []float64{1, 3}, diffs([]float64{0, 1, 4}))
}

func TestBusyDuration(t *testing.T) {
	assert.Equal(t, 0.0, busyDuration(nil))
	log := []radiomodel.ChannelLogEntry{
		{Start: 0, Airtime: 10},
		{Start: 5, Airtime: 10},  // overlaps, extends to 15
		{Start: 6, Airtime: 2},   // inside
		{Start: 20, Airtime: 5},  // gap
		{Start: 24, Airtime: 10}, // overlaps, extends to 34
	}
	assert.Equal(t, 29.0, busyDuration(log))
}

func TestNodeCounters(t *testing.T) {
	n1 := NodeCounters{Sent: 3, Success: 2, ListenTime: 10, MinSuccessLatency: 50}
	n2 := NodeCounters{Sent: 4, Collided: 1, ListenTime: 5, MinSuccessLatency: 20}

	total := mergeNodeCounters(n1, n2)
	assert.Equal(t, 7, total.Sent)
	assert.Equal(t, 2, total.Success)
	assert.Equal(t, 1, total.Collided)
	assert.Equal(t, 15.0, total.ListenTime)
	assert.Equal(t, 20.0, total.MinSuccessLatency)
	assert.Equal(t, 3, n1.Sent)

	assert.Equal(t, NodeCounters{}, mergeNodeCounters())
}
