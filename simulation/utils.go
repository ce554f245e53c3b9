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
	"math"
)

func ratio(num, den float64) float64 {
	if den == 0 {
		return Undefined
	}
	return num / den
}

// meanStd returns the mean and the population standard deviation of values.
func meanStd(values []float64) (mean float64, std float64) {
	if len(values) == 0 {
		return Undefined, Undefined
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		std += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(std / float64(len(values)))
}

// definedMean averages the values that are not Undefined.
func definedMean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if v != Undefined {
			sum += v
			n++
		}
	}
	return ratio(sum, float64(n))
}

func diffs(times []float64) []float64 {
	res := make([]float64, 0, len(times))
	for i := 1; i < len(times); i++ {
		res = append(res, times[i]-times[i-1])
	}
	return res
}

// Add accumulates the counters of o into nc. MinSuccessLatency keeps the smaller value.
func (nc *NodeCounters) Add(o NodeCounters) {
	nc.Sent += o.Sent
	nc.Success += o.Success
	nc.Collided += o.Collided
	nc.Lost += o.Lost
	nc.Aborted += o.Aborted
	nc.Dropped += o.Dropped
	nc.TotalRetry += o.TotalRetry
	nc.RtsSent += o.RtsSent
	nc.NumCad += o.NumCad
	nc.ListenTime += o.ListenTime
	nc.Latency += o.Latency
	nc.SuccessLatency += o.SuccessLatency
	nc.MinSuccessLatency = math.Min(nc.MinSuccessLatency, o.MinSuccessLatency)
	nc.PayloadGen += o.PayloadGen
	nc.PayloadSent += o.PayloadSent
	nc.PayloadSuccess += o.PayloadSuccess
}

func mergeNodeCounters(counters ...NodeCounters) NodeCounters {
	if len(counters) == 0 {
		return NodeCounters{}
	}
	res := counters[0]
	for _, c := range counters[1:] {
		res.Add(c)
	}
	return res
}
