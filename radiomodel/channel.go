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
	"github.com/canl-lora/lorasim/prng"
	. "github.com/canl-lora/lorasim/types"
)

// ChannelLogEntry is one physical transmission, kept for channel occupation statistics.
type ChannelLogEntry struct {
	Start   float64 `json:"start"`
	Airtime float64 `json:"airtime"`
	Node    NodeId  `json:"node"`
	Cycle   int     `json:"cycle"`
}

// Channel tracks the frames on air and decides, for every new frame, what the gateway and the listening devices
// receive.
type Channel struct {
	params *RadioParams
	prop   *Propagation
	src    *prng.Source
	evlog  *logger.EventLog

	onAir     map[NodeId]*Frame
	order     []*Frame // on-air frames by arrival
	listeners []Listener
	busyRts   map[NodeId]bool
	busyData  map[NodeId]bool
	captures  []PowerCapture
	chanLog   []ChannelLogEntry
}

func NewChannel(prop *Propagation, evlog *logger.EventLog) *Channel {
	return &Channel{
		params:   prop.params,
		prop:     prop,
		src:      prop.src,
		evlog:    evlog,
		onAir:    make(map[NodeId]*Frame),
		busyRts:  make(map[NodeId]bool),
		busyData: make(map[NodeId]bool),
	}
}

// AddListener registers a device that may record frames while listening. Devices are visited in registration order.
func (c *Channel) AddListener(l Listener) {
	for _, existing := range c.listeners {
		logger.AssertFalsef(existing.Id() == l.Id(), "listener %d added twice", l.Id())
	}
	c.listeners = append(c.listeners, l)
}

func (c *Channel) IsOnAir(id NodeId) bool {
	_, ok := c.onAir[id]
	return ok
}

// OnAirIds returns the ids of the frames on air, by arrival.
func (c *Channel) OnAirIds() []NodeId {
	ids := make([]NodeId, 0, len(c.order))
	for _, f := range c.order {
		ids = append(ids, f.Id)
	}
	return ids
}

// Busy reports whether device id is currently transmitting an RTS or a DATA.
func (c *Channel) Busy(id NodeId) bool {
	return c.busyRts[id] || c.busyData[id]
}

func (c *Channel) Captures() []PowerCapture {
	return c.captures
}

func (c *Channel) ChannelLog() []ChannelLogEntry {
	return c.chanLog
}

func (c *Channel) heardAtGateway(f *Frame) bool {
	return f.Rssi > c.params.Sensitivity(f.SF, f.BW, ReceiverGateway)
}

// HeardBy reports whether device id perceives f above its sensitivity.
func (c *Channel) HeardBy(f *Frame, id NodeId) bool {
	return f.Rx[id] >= c.params.Sensitivity(f.SF, f.BW, ReceiverDevice)
}

// Transmit starts the transmission of f at now. A frame below the gateway sensitivity is lost; it still goes on air
// for the neighbours when reception is evaluated per device.
func (c *Channel) Transmit(f *Frame, now float64) {
	if c.IsOnAir(f.Id) {
		logger.Panicf("frame of node %d is already on air", f.Id)
	}

	if f.Rssi < c.params.Sensitivity(f.SF, f.BW, ReceiverGateway) {
		f.Lost = true
		if c.params.FullDistances {
			c.checkCollision(f, now)
			c.add(f, now)
		}
	} else {
		f.Lost = false
		c.checkCollision(f, now)
		c.add(f, now)
	}
	c.evlog.Event(f.Id, "TX_start")

	if f.Type == RtsFrame {
		c.busyRts[f.Id] = true
	} else {
		c.busyData[f.Id] = true
	}
	c.chanLog = append(c.chanLog, ChannelLogEntry{
		Start:   now,
		Airtime: f.Airtime,
		Node:    f.Id,
		Cycle:   f.Cycle,
	})
}

func (c *Channel) add(f *Frame, now float64) {
	f.AddTime = now
	c.onAir[f.Id] = f
	c.order = append(c.order, f)
}

// Complete ends the transmission of f. The outcome flags stay set for the caller to read.
func (c *Channel) Complete(f *Frame) {
	c.busyRts[f.Id] = false
	c.busyData[f.Id] = false
	c.evlog.Event(f.Id, "TX_stop")

	if _, ok := c.onAir[f.Id]; !ok {
		return
	}
	delete(c.onAir, f.Id)
	for i, o := range c.order {
		if o == f {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Channel) powerCollision(p1, p2 *Frame, inEars int, local NodeId) (p1Lost, p2Lost bool) {
	r1, r2 := p1.Rssi, p2.Rssi
	if local != GatewayId {
		r1, r2 = p1.Rx[local], p2.Rx[local]
	}
	p1Lost, p2Lost = PowerCollision(r1, r2, CaptureThreshold(c.params.PowerCaptureThresholdDb, inEars))
	c.captures = append(c.captures, PowerCapture{
		InEars:   inEars,
		Captured: !(p1Lost && p2Lost),
		Local:    local,
	})
	return
}

func (c *Channel) newHeardFrame(f *Frame, start float64, capturing, capturedBy []NodeId) HeardFrame {
	inRts := f.DataPayloadSize
	if f.DataPayloadSize == c.params.RtsHdrSize+1 {
		inRts = c.src.IntRange(0, c.params.MaxPayloadSize)
	}
	return HeardFrame{
		Id:              f.Id,
		Start:           start,
		Toa:             f.Airtime,
		IsRts:           f.Type == RtsFrame,
		PayloadInRts:    inRts,
		PayloadInHeader: f.DataPayloadSize,
		Capturing:       capturing,
		CapturedBy:      capturedBy,
	}
}

// checkCollision evaluates the new frame against the frames on air, at the gateway and at the listening devices.
// It must run before the frame joins the on-air set. It returns true when the gateway cannot decode the new frame.
func (c *Channel) checkCollision(packet *Frame, now float64) bool {
	col := false

	if !packet.Lost && len(c.order) > 0 {
		inEars := 1
		for _, o := range c.order {
			if c.heardAtGateway(o) {
				inEars++
			}
		}
		for _, o := range c.order {
			if o.Id == packet.Id || !c.heardAtGateway(o) {
				continue
			}
			if !FrequencyCollision(packet, o) || !SFCollision(packet, o) {
				continue
			}
			if c.params.FullCollision {
				packetLost, otherLost := c.powerCollision(packet, o, inEars, GatewayId)
				if packetLost && TimingCollision(packet, o, now, true) {
					col = true
					packet.Collided = true
					c.evlog.Event(GatewayId, "col", packet.Id, packet.Id)
				}
				if otherLost {
					o.Collided = true
					c.evlog.Event(GatewayId, "col", packet.Id, o.Id)
				}
			} else {
				packet.Collided = true
				o.Collided = true
				col = true
				c.evlog.Event(GatewayId, "col", packet.Id, packet.Id)
				c.evlog.Event(GatewayId, "col", packet.Id, o.Id)
			}
		}
	}

	if !c.params.FullDistances && col {
		return col
	}
	if !col {
		c.evlog.Event(GatewayId, "rx", packet.Id)
	}
	if !c.params.Canl {
		return col
	}

	if !c.params.FullDistances {
		// gateway reception stands for reception everywhere
		for _, l := range c.listeners {
			if l.Id() == packet.Id || !l.IsListening() {
				continue
			}
			l.Hear(c.newHeardFrame(packet, now, c.OnAirIds(), c.OnAirIds()))
			c.evlog.Event(l.Id(), "rx", packet.Id)
		}
		return col
	}

	for _, l := range c.listeners {
		id := l.Id()
		if id == packet.Id || !l.IsListening() || !c.HeardBy(packet, id) {
			continue
		}
		inEars := 1
		for _, o := range c.order {
			if c.HeardBy(o, id) {
				inEars++
			}
		}

		locallyCollided := false
		capturing := []NodeId{}
		capturedBy := []NodeId{}
		for _, o := range c.order {
			if !c.HeardBy(o, id) || !FrequencyCollision(packet, o) || !SFCollision(packet, o) {
				continue
			}
			if c.params.FullCollision {
				packetLost, otherLost := c.powerCollision(packet, o, inEars, id)
				if packetLost && TimingCollision(packet, o, now, true) {
					locallyCollided = true
					capturedBy = append(capturedBy, o.Id)
					c.evlog.Event(id, "col", packet.Id, packet.Id)
				}
				if otherLost {
					capturing = append(capturing, o.Id)
					c.evlog.Event(id, "col", packet.Id, o.Id)
				}
			} else {
				capturedBy = append(capturedBy, o.Id)
				capturing = append(capturing, o.Id)
				locallyCollided = true
				c.evlog.Event(id, "col", packet.Id, o.Id)
			}
		}

		l.Hear(c.newHeardFrame(packet, now, capturing, capturedBy))
		if !locallyCollided {
			c.evlog.Event(id, "rx", packet.Id)
		}
	}
	return col
}

// StartListening records, for listener l opening a window at now, the frames already on air that it hears. Each is
// evaluated against the earlier frames only, from its own start time.
func (c *Channel) StartListening(l Listener, now float64) {
	id := l.Id()
	inEars := 0
	for _, o := range c.order {
		if c.HeardBy(o, id) {
			inEars++
		}
	}

	for pid, p := range c.order {
		if !c.HeardBy(p, id) {
			continue
		}
		locallyCollided := false
		capturing := []NodeId{}
		capturedBy := []NodeId{}
		for _, o := range c.order[:pid] {
			if !c.HeardBy(o, id) || !FrequencyCollision(p, o) || !SFCollision(p, o) {
				continue
			}
			if c.params.FullCollision {
				pLost, otherLost := c.powerCollision(p, o, inEars, id)
				if pLost && TimingCollision(p, o, now, false) {
					locallyCollided = true
					capturedBy = append(capturedBy, o.Id)
					c.evlog.Event(id, "col", p.Id, p.Id)
				}
				if otherLost {
					capturing = append(capturing, o.Id)
					c.evlog.Event(id, "col", p.Id, o.Id)
				}
			} else {
				capturedBy = append(capturedBy, o.Id)
				capturing = append(capturing, o.Id)
				locallyCollided = true
				c.evlog.Event(id, "col", p.Id, o.Id)
			}
		}
		l.Hear(c.newHeardFrame(p, p.AddTime, capturing, capturedBy))
		if !locallyCollided {
			c.evlog.Event(id, "rx", p.Id)
		}
	}
}

// CadBusy decides the outcome of a CAD by device id that started while atStart were on air. Only transmitters on air
// for the whole CAD can be detected, each with one draw.
func (c *Channel) CadBusy(id NodeId, atStart []NodeId) bool {
	dm := c.prop.dm
	for _, f := range c.order {
		if !containsId(atStart, f.Id) {
			continue
		}
		if c.params.VarCadProb {
			d := dm.ToGateway(id)
			if c.params.FullDistances {
				d = dm.Between(id, f.Id)
			}
			if c.src.Float64()*100 <= CadSuccessProbability(c.params.TxPowerDbm(), d) {
				c.evlog.Event(id, "CAD+")
				return true
			}
		} else if c.src.Float64()*100 <= c.params.CadProb && c.params.CadProb != 0 {
			c.evlog.Event(id, "CAD+")
			return true
		}
	}
	c.evlog.Event(id, "CAD-")
	return false
}
