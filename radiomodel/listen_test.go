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
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testPreamble = 12.544
	testSym      = 1.024
	testWaitPhy  = 30.0
)

func newTestWindow(start float64) *ListenWindow {
	w := NewListenWindow(testPreamble, testSym, testWaitPhy, false)
	w.Open(start)
	return w
}

func TestListenWindow_Nothing(t *testing.T) {
	w := newTestWindow(10)
	assert.False(t, w.Decided())
	assert.Equal(t, 0.0, w.Close(40))
	assert.True(t, w.Decided())
	o := w.Outcome()
	assert.Equal(t, ListenNothing, o.Kind)
	assert.Equal(t, 30.0, o.ListenedTime)
}

func TestListenWindow_Rts(t *testing.T) {
	w := newTestWindow(0)
	w.Add(HeardFrame{Id: 3, Start: 1, Toa: 20, IsRts: true, PayloadInRts: 50})
	assert.Equal(t, 0.0, w.Close(40))
	o := w.Outcome()
	assert.Equal(t, ListenRts, o.Kind)
	assert.Equal(t, 50, o.NextPayloadByte)
	assert.Equal(t, 31.0, o.ListenedTime)
}

func TestListenWindow_DataAfterExtension(t *testing.T) {
	w := newTestWindow(0)
	w.Add(HeardFrame{Id: 3, Start: 5, Toa: 200, PayloadInHeader: 80})

	ext := w.Close(20)
	assert.InDelta(t, 15+rxExtensionEpsilon, ext, 1e-12)
	assert.False(t, w.Decided())

	assert.Equal(t, 0.0, w.Close(20+ext))
	o := w.Outcome()
	assert.Equal(t, ListenData, o.Kind)
	assert.Equal(t, 0, o.NextPayloadByte)
	assert.Equal(t, 35.0, o.ListenedTime)
}

func TestListenWindow_HeaderInterrupt(t *testing.T) {
	w := NewListenWindow(testPreamble, testSym, testWaitPhy, true)
	w.Open(0)
	w.Add(HeardFrame{Id: 3, Start: 5, Toa: 200, PayloadInHeader: 80})
	w.Close(50)
	o := w.Outcome()
	assert.Equal(t, ListenData, o.Kind)
	assert.Equal(t, 80, o.NextPayloadByte)
}

func TestListenWindow_SingleExtension(t *testing.T) {
	w := newTestWindow(0)
	w.Add(HeardFrame{Id: 3, Start: 5, Toa: 200})
	assert.True(t, w.Close(20) > 0)
	assert.Equal(t, 0.0, w.Close(25))
	o := w.Outcome()
	assert.Equal(t, ListenPreamble, o.Kind)
	assert.Equal(t, 25.0, o.ListenedTime)
}

func TestListenWindow_MissedPreamble(t *testing.T) {
	w := newTestWindow(0)
	w.Add(HeardFrame{Id: 3, Start: -20, Toa: 200})
	w.Close(40)
	o := w.Outcome()
	assert.Equal(t, ListenNothing, o.Kind)
	assert.Equal(t, 40.0, o.ListenedTime)
}

func TestListenWindow_CapturedBeforePreamble(t *testing.T) {
	w := newTestWindow(0)
	w.Add(HeardFrame{Id: 1, Start: 1, Toa: 200})
	w.Add(HeardFrame{Id: 2, Start: 2, Toa: 100, Capturing: []int{1}})
	w.Close(50)
	o := w.Outcome()
	assert.Equal(t, ListenData, o.Kind)
	assert.Equal(t, 32.0, o.ListenedTime)
}

func TestListenWindow_CapturedLate(t *testing.T) {
	w := newTestWindow(0)
	w.Add(HeardFrame{Id: 1, Start: 1, Toa: 200})
	w.Add(HeardFrame{Id: 2, Start: 40, Toa: 100, Capturing: []int{1}})
	w.Close(60)
	o := w.Outcome()
	assert.Equal(t, ListenData, o.Kind)
	assert.Equal(t, 31.0, o.ListenedTime)
}

func TestListenWindow_Reset(t *testing.T) {
	w := newTestWindow(0)
	w.Add(HeardFrame{Id: 3, Start: 1, Toa: 20, IsRts: true, PayloadInRts: 50})
	w.Close(40)
	w.Reset()
	assert.Empty(t, w.Frames())
	assert.False(t, w.Decided())
	assert.Equal(t, ListenNothing, w.Outcome().Kind)
}
