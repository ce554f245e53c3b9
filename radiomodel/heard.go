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
	. "github.com/canl-lora/lorasim/types"
)

// HeardFrame is what one listening device observed of one transmission during its listen window.
type HeardFrame struct {
	Id    NodeId
	Start float64
	Toa   float64
	IsRts bool
	// PayloadInRts is the data length announced by an RTS; a DATA of RTS size is read as a random length.
	PayloadInRts int
	// PayloadInHeader is the data length carried in an explicit PHY header.
	PayloadInHeader int
	Capturing       []NodeId // earlier frames this one overpowered at the listener
	CapturedBy      []NodeId // earlier frames that overpowered this one at the listener
}

func containsId(ids []NodeId, id NodeId) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Listener is a device that can record frames during a listen window.
type Listener interface {
	Id() NodeId
	IsListening() bool
	Hear(h HeardFrame)
}
