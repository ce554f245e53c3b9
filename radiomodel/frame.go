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
	"fmt"

	. "github.com/canl-lora/lorasim/types"
)

// Frame is the single radio frame of a device, reconfigured for every generation and for RTS/DATA sub-transmissions.
type Frame struct {
	Id              NodeId
	SF              int
	BW              float64 // kHz
	CR              int
	Freq            int64 // Hz
	Type            FrameType
	PL              int // current PHY payload length in bytes
	DataPayloadSize int
	Airtime         float64 // ms, for the current PL
	SymTime         float64
	PreambleTime    float64
	TxPower         DbValue
	Rx              []DbValue // received power at every device, by id
	Rssi            DbValue   // received power at the gateway
	Collided        bool
	Lost            bool
	AddTime         float64
	Cycle           int

	params   *RadioParams
	distToGW float64
	gammas   []float64
}

// NewFrame creates the frame of device id and draws its PHY settings and initial propagation.
func NewFrame(id NodeId, prop *Propagation) *Frame {
	p := prop.params
	src := prop.src
	f := &Frame{
		Id:       id,
		TxPower:  p.TxPowerDbm(),
		params:   p,
		distToGW: prop.dm.ToGateway(id),
	}

	bws := p.Bandwidths()
	f.SF = src.IntRange(p.minSpreadingFactor(), 12)
	f.BW = bws[src.Pick(len(bws))]
	f.CR = src.IntRange(1, 4)
	if sf, bw, cr, ok := p.PresetPhy(); ok {
		f.SF, f.BW, f.CR = sf, bw, cr
	}
	f.SymTime = SymbolTime(f.SF, f.BW)
	f.PreambleTime = PreambleTime(p.Band, f.SF, f.BW)

	n := prop.dm.Size()
	f.gammas = make([]float64, n)
	for i := range f.gammas {
		if p.NormalGammaED {
			f.gammas[i] = src.Normal(p.GammaED, p.SigmaGammaED)
		} else {
			f.gammas[i] = p.GammaED
		}
	}

	// lower bound plus a number of 61 Hz steps; presets then pin the channel
	f.Freq = p.baseFrequencyHz() + int64(src.IntRange(0, 2622950))
	if p.Experiment == Experiment1 {
		chans := p.channelFrequenciesHz()
		f.Freq = chans[src.Pick(len(chans))]
	} else {
		f.Freq = p.baseFrequencyHz()
	}

	f.Type = DataFrame
	f.DataPayloadSize = p.Payload.Fixed
	f.PL = f.DataPayloadSize
	f.Airtime = Airtime(p.Band, f.SF, f.CR, f.PL, f.BW, true)
	f.Rx = make([]DbValue, n)
	prop.Refresh(f)
	return f
}

func (f *Frame) String() string {
	return fmt.Sprintf("Frame{id=%d,%s,SF%d,BW%v,CR%d,pl=%d,toa=%.3f}", f.Id, f.Type, f.SF, f.BW, f.CR, f.PL, f.Airtime)
}

// DistanceToGateway returns the device-gateway distance in meters.
func (f *Frame) DistanceToGateway() float64 {
	return f.distToGW
}

// AirtimeOf returns the time-on-air of a DATA frame with pl payload bytes on this frame's PHY.
func (f *Frame) AirtimeOf(pl int) float64 {
	return Airtime(f.params.Band, f.SF, f.CR, pl, f.BW, f.params.ExplicitHeader)
}

// RtsPayload returns the PHY payload length of an RTS.
func (f *Frame) RtsPayload() int {
	if f.params.Canl {
		return f.params.RtsHdrSize + 1
	}
	return nonCanlRtsPayload
}

// RtsAirtime returns the time-on-air of an RTS on this frame's PHY.
func (f *Frame) RtsAirtime() float64 {
	if f.params.Canl {
		return Airtime(f.params.Band, f.SF, f.CR, f.RtsPayload(), f.BW, f.params.RtsExplicitHeader)
	}
	return f.AirtimeOf(nonCanlRtsPayload)
}

// WaitPhyInterrupt returns how long a listener stays on a frame to learn its type or length.
func (f *Frame) WaitPhyInterrupt() float64 {
	if !f.params.Canl {
		return f.AirtimeOf(nonCanlRtsPayload) + nonCanlWaitPhyMarginMs
	}
	if f.params.InterruptsOnHeaderValid {
		return f.AirtimeOf(0)
	}
	return f.RtsAirtime() + f.SymTime*float64(f.params.CadSymbols())
}

// CriticalSection returns the preamble time a receiver needs to lock onto this frame.
func (f *Frame) CriticalSection() float64 {
	return f.SymTime * criticalPreambleSymbols
}

// Payload returns the application payload of the current data, without the CANL header.
func (f *Frame) Payload() int {
	if f.params.Canl && f.params.Payload.Variable {
		return f.DataPayloadSize - f.params.DataHdrSize
	}
	return f.DataPayloadSize
}

// SetDataPayloadSize draws the data payload size of a new generation.
func (f *Frame) SetDataPayloadSize(prop *Propagation) {
	pp := f.params.Payload
	if !pp.Variable {
		return
	}
	src := prop.src
	if pp.Normal {
		v := int(src.Normal(pp.Mean, pp.Sigma))
		if v < pp.Min {
			v = pp.Min
		} else if v > pp.Max {
			v = pp.Max
		}
		f.DataPayloadSize = v
	} else {
		f.DataPayloadSize = src.IntRange(pp.Min, pp.Max)
	}
	if f.params.Canl {
		f.DataPayloadSize += f.params.DataHdrSize
	}
}

// SetType switches the frame between RTS and DATA framing and updates the airtime.
func (f *Frame) SetType(t FrameType) {
	f.Type = t
	if t == RtsFrame {
		f.PL = f.RtsPayload()
		f.Airtime = f.RtsAirtime()
		return
	}
	f.PL = f.DataPayloadSize
	f.Airtime = f.AirtimeOf(f.PL)
}

// ResetOutcome clears the per-transmission outcome flags.
func (f *Frame) ResetOutcome() {
	f.Collided = false
	f.Lost = false
}
