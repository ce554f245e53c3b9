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

	"github.com/canl-lora/lorasim/radiomodel"
)

type navParams struct {
	maxPayload       int
	headerInterrupts bool
	listen2Extra     float64 // ms added to an RTS reservation when a second listen phase may follow it
}

// navDuration returns how long a device defers after a listen window that started at listenStart and is
// evaluated at now. The window may have been evaluated after its effective end; that overtime is deducted.
func navDuration(o radiomodel.ListenOutcome, listenStart, now float64, f *radiomodel.Frame, np navParams) float64 {
	end := listenStart + o.ListenedTime
	overtime := now - end

	switch o.Kind {
	case radiomodel.ListenData:
		base := f.AirtimeOf(np.maxPayload) - f.WaitPhyInterrupt()
		if np.headerInterrupts {
			base = f.AirtimeOf(o.NextPayloadByte) - f.WaitPhyInterrupt()
		}
		if end+base <= now {
			return 0
		}
		return base - overtime
	case radiomodel.ListenRts:
		base := f.AirtimeOf(o.NextPayloadByte) + np.listen2Extra
		if overtime > 0 {
			return math.Max(0, base-overtime)
		}
		return math.Max(0, base)
	case radiomodel.ListenPreamble:
		base := f.AirtimeOf(np.maxPayload) - f.CriticalSection()
		if overtime > 0 {
			return math.Max(0, base-overtime)
		}
		return math.Max(0, base)
	}
	return 0
}
