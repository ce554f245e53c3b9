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
)

// ListenOutcomeKind is what a device inferred from a listen window.
type ListenOutcomeKind int

const (
	ListenNothing ListenOutcomeKind = iota
	ListenData
	ListenRts
	ListenPreamble
)

func (k ListenOutcomeKind) String() string {
	switch k {
	case ListenData:
		return "data"
	case ListenRts:
		return "rts"
	case ListenPreamble:
		return "preamble"
	default:
		return "nothing"
	}
}

// ListenOutcome is the decision material of a closed listen window.
type ListenOutcome struct {
	Kind            ListenOutcomeKind
	NextPayloadByte int     // announced data length, when known
	ListenedTime    float64 // effective listen duration, from the window start
}

func (o ListenOutcome) String() string {
	return fmt.Sprintf("%s(npb=%d,listened=%.3f)", o.Kind, o.NextPayloadByte, o.ListenedTime)
}

// ListenWindow is the listening state of one device between the opening of a window and its decision.
type ListenWindow struct {
	Start            float64
	preambleTime     float64
	symTime          float64
	waitPhy          float64
	headerInterrupts bool

	frames        []HeardFrame
	opportunities int

	heardPreamble   bool
	knowData        bool
	knowRts         bool
	nextPayloadByte int
	listened        float64
}

// NewListenWindow creates the listen window of a device with the given PHY timings.
func NewListenWindow(preambleTime, symTime, waitPhy float64, headerInterrupts bool) *ListenWindow {
	w := &ListenWindow{
		preambleTime:     preambleTime,
		symTime:          symTime,
		waitPhy:          waitPhy,
		headerInterrupts: headerInterrupts,
	}
	w.Reset()
	return w
}

// NewFrameListenWindow creates a listen window matching the PHY of f.
func NewFrameListenWindow(f *Frame) *ListenWindow {
	return NewListenWindow(f.PreambleTime, f.SymTime, f.WaitPhyInterrupt(), f.params.InterruptsOnHeaderValid)
}

// Reset clears everything learnt in the previous window.
func (w *ListenWindow) Reset() {
	w.frames = nil
	w.opportunities = 1
	w.heardPreamble = false
	w.knowData = false
	w.knowRts = false
	w.nextPayloadByte = 0
	w.listened = -1
}

// Open starts a new window at now. Records of a previous window must have been cleared by Reset.
func (w *ListenWindow) Open(now float64) {
	w.Start = now
}

func (w *ListenWindow) Add(h HeardFrame) {
	w.frames = append(w.frames, h)
}

func (w *ListenWindow) Frames() []HeardFrame {
	return w.frames
}

func (w *ListenWindow) WaitPhy() float64 {
	return w.waitPhy
}

// Decided reports whether Close has settled the listened time.
func (w *ListenWindow) Decided() bool {
	return w.listened != -1
}

func (w *ListenWindow) learnData(h *HeardFrame) {
	w.knowData = true
	if w.headerInterrupts {
		w.nextPayloadByte = h.PayloadInHeader
	}
}

func (w *ListenWindow) extend(sinceStart float64, now float64) float64 {
	if w.opportunities > 0 {
		w.opportunities--
		return w.waitPhy - sinceStart + rxExtensionEpsilon
	}
	w.listened = now - w.Start
	return 0
}

// Close analyses the frames heard so far at the end of the window. It returns a non-zero extension when the device
// needs to keep receiving to learn the type of a frame; the caller waits that long and calls Close again.
func (w *ListenWindow) Close(now float64) float64 {
	ext := 0.0
	heardSomething := false
	minPreamble := w.symTime * criticalPreambleSymbols

	for i := range w.frames {
		h := &w.frames[i]
		if len(h.CapturedBy) != 0 {
			continue
		}
		sinceStart := now - h.Start
		if !(sinceStart > minPreamble && w.Start < h.Start+w.preambleTime-minPreamble) {
			continue
		}

		var capturer *HeardFrame
		for j := i + 1; j < len(w.frames); j++ {
			if containsId(w.frames[j].Capturing, h.Id) {
				capturer = &w.frames[j]
				break
			}
		}

		if capturer != nil {
			if !(h.Start+w.preambleTime-minPreamble < capturer.Start) {
				// captured before its preamble could be heard
				continue
			}
			w.heardPreamble = true
			heardSomething = true
			heardFor := capturer.Start - h.Start
			if heardFor > w.waitPhy {
				w.learnData(h)
				w.listened = h.Start - w.Start + w.waitPhy
			} else if sinceStart < w.waitPhy {
				ext = w.extend(sinceStart, now)
			} else {
				w.listened = h.Start - w.Start + w.waitPhy
			}
			break
		}

		w.heardPreamble = true
		heardSomething = true
		if sinceStart > h.Toa {
			if h.Toa >= w.waitPhy {
				w.learnData(h)
			} else if h.IsRts {
				w.knowRts = true
				w.nextPayloadByte = h.PayloadInRts
			} else {
				w.learnData(h)
			}
			w.listened = h.Start - w.Start + w.waitPhy
		} else if sinceStart > w.waitPhy {
			w.learnData(h)
			w.listened = h.Start - w.Start + w.waitPhy
		} else {
			ext = w.extend(sinceStart, now)
		}
		break
	}

	if !heardSomething {
		w.listened = now - w.Start
	}
	return ext
}

// Outcome returns what the closed window revealed. Data takes precedence over an RTS, which takes precedence over a
// bare preamble.
func (w *ListenWindow) Outcome() ListenOutcome {
	o := ListenOutcome{
		Kind:            ListenNothing,
		NextPayloadByte: w.nextPayloadByte,
		ListenedTime:    w.listened,
	}
	switch {
	case w.knowData:
		o.Kind = ListenData
	case w.knowRts:
		o.Kind = ListenRts
	case w.heardPreamble:
		o.Kind = ListenPreamble
	}
	return o
}
