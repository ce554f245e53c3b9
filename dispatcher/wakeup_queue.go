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

package dispatcher

import (
	"container/heap"

	"github.com/canl-lora/lorasim/logger"
	. "github.com/canl-lora/lorasim/types"
)

// wakeup is the single pending resumption of a unit.
type wakeup struct {
	unit NodeId
	at   float64 // virtual due time, in ms
	seq  uint64  // submission order, breaks ties at equal due times

	index int
}

// wakeupHeap implements heap.Interface ordered by (at, seq).
type wakeupHeap []*wakeup

func (h wakeupHeap) Len() int { return len(h) }

func (h wakeupHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h wakeupHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *wakeupHeap) Push(x interface{}) {
	w := x.(*wakeup)
	w.index = len(*h)
	*h = append(*h, w)
}

func (h *wakeupHeap) Pop() interface{} {
	old := *h
	n := len(old)
	w := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	w.index = -1
	return w
}

// wakeupQueue keeps one wakeup per registered unit.
type wakeupQueue struct {
	h       wakeupHeap
	byUnit  map[NodeId]*wakeup
	nextSeq uint64
}

func newWakeupQueue() *wakeupQueue {
	return &wakeupQueue{
		byUnit: map[NodeId]*wakeup{},
	}
}

func (q *wakeupQueue) add(id NodeId, at float64) {
	_, exists := q.byUnit[id]
	logger.AssertFalsef(exists, "unit %d queued twice", id)

	w := &wakeup{unit: id, at: at, seq: q.nextSeq}
	q.nextSeq++
	q.byUnit[id] = w
	heap.Push(&q.h, w)
}

// rearm moves the wakeup of id to at. Every call counts as a new submission for tie-breaking.
func (q *wakeupQueue) rearm(id NodeId, at float64) {
	w := q.byUnit[id]
	logger.AssertNotNil(w)

	w.at = at
	w.seq = q.nextSeq
	q.nextSeq++
	heap.Fix(&q.h, w.index)
}

func (q *wakeupQueue) peek() *wakeup {
	if len(q.h) == 0 {
		return nil
	}
	return q.h[0]
}

func (q *wakeupQueue) len() int {
	return len(q.h)
}
