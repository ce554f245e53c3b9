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

	. "github.com/canl-lora/lorasim/types"
)

// generate draws generation times until the next one lies in the future. Every generation beyond the first of a
// call replaces a packet that never left the device, which counts as dropped.
func (node *Node) generate(now float64) {
	cfg := node.S.cfg
	src := node.S.src
	period := cfg.AvgSendTime
	generated := false

	for now > node.nextGen {
		if generated {
			node.Counters.Dropped++
		}

		var delay float64
		switch {
		case cfg.Experiment == Experiment6:
			delay = float64(node.cycle)*period - now + float64(node.id)*100
		case cfg.Experiment == Experiment7:
			delay = float64(node.cycle)*period - now + float64(node.id)*500
		case cfg.Distrib == DistribPeriodic:
			delay = period
		case cfg.Distrib == DistribUniform:
			delay = src.Uniform(math.Max(2000, period-5000), period+5000)
		default:
			delay = src.Exponential(period)
		}

		if cfg.ShuffleStart && node.nextGen == -1 {
			node.nextGen += src.Uniform(0, period)
		}
		node.nextGen += delay
		node.genTimes = append(node.genTimes, node.nextGen)
		generated = true

		f := node.Frame
		f.SetDataPayloadSize(node.S.prop)
		f.SetType(DataFrame)
		node.cycle++
		f.Cycle = node.cycle
		node.S.stats.Scheduled++
		node.Counters.PayloadGen += f.Payload()
	}
}
