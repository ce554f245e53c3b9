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
// Package progctx manages the lifetime of the lorasim process: cancellation, helper goroutines and
// cleanup functions that run on exit.
package progctx

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/simonlingoogle/go-simplelogger"
)

// ProgCtx is the context of the program during its lifetime. A running simulation observes it between
// events, so cancelling it stops the run at the next event boundary.
type ProgCtx struct {
	context.Context
	wg           sync.WaitGroup
	cancel       context.CancelCauseFunc
	lock         sync.Mutex
	routines     map[string]int
	deferred     []func()
	cancelReason interface{}
}

// WaitCount returns the number of goroutines to wait for.
func (ctx *ProgCtx) WaitCount() int {
	ctx.lock.Lock()
	defer ctx.lock.Unlock()

	total := 0
	for _, c := range ctx.routines {
		total += c
	}
	return total
}

// Cancel cancels the program context with a reason, which is an error or any printable value.
// Only the first call has an effect.
func (ctx *ProgCtx) Cancel(reason interface{}) {
	ctx.lock.Lock()
	if ctx.Err() != nil {
		ctx.lock.Unlock()
		return
	}
	ctx.cancelReason = reason
	ctx.cancel(reasonToError(reason))
	deferred := ctx.deferred
	ctx.deferred = nil
	ctx.lock.Unlock()

	if e, ok := reason.(error); ok {
		simplelogger.Warnf("program exit: %v", e)
	} else {
		simplelogger.Infof("program exit: %v", reason)
	}

	for _, f := range deferred {
		f()
	}
}

// Reason returns the value given to the first Cancel call, or nil.
func (ctx *ProgCtx) Reason() interface{} {
	ctx.lock.Lock()
	defer ctx.lock.Unlock()
	return ctx.cancelReason
}

// Cause returns the cancellation cause. It is context.Canceled when Cancel was called without an error.
func (ctx *ProgCtx) Cause() error {
	return context.Cause(ctx.Context)
}

func reasonToError(reason interface{}) error {
	switch r := reason.(type) {
	case nil:
		return context.Canceled
	case error:
		return r
	default:
		return errors.Wrap(context.Canceled, fmt.Sprint(r))
	}
}

// WaitAdd adds a new goroutine to wait for.
func (ctx *ProgCtx) WaitAdd(name string, delta int) {
	ctx.lock.Lock()
	ctx.routines[name] += delta
	ctx.lock.Unlock()

	ctx.wg.Add(delta)
}

// WaitDone notifies that a goroutine has finished.
func (ctx *ProgCtx) WaitDone(name string) {
	ctx.lock.Lock()
	defer ctx.lock.Unlock()

	if ctx.routines[name] <= 0 {
		simplelogger.Panicf("routine %s is not running, should not call WaitDone", name)
	}

	ctx.routines[name] -= 1
	ctx.wg.Done()
}

// Go runs f in a goroutine that Wait waits for.
func (ctx *ProgCtx) Go(name string, f func()) {
	ctx.WaitAdd(name, 1)
	go func() {
		defer ctx.WaitDone(name)
		f()
	}()
}

// Wait waits for all goroutines to finish.
func (ctx *ProgCtx) Wait() {
	ctx.lock.Lock()
	simplelogger.Debugf("program context waiting routines: %v", ctx.routines)
	ctx.lock.Unlock()

	ctx.wg.Wait()
}

// Defer registers a function to be called by the first Cancel.
func (ctx *ProgCtx) Defer(f func()) {
	ctx.lock.Lock()
	defer ctx.lock.Unlock()
	if ctx.Err() != nil {
		panic(errors.Errorf("can not Defer after context is done"))
	}

	ctx.deferred = append(ctx.deferred, f)
}

// New creates a new ProgCtx from the parent context.
func New(parent context.Context) *ProgCtx {
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancelCause(parent)

	return &ProgCtx{
		Context:  ctx,
		cancel:   cancel,
		routines: map[string]int{},
	}
}
