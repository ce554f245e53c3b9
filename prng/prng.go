// Copyright (c) 2024, The OTNS Authors.
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

package prng

import (
	"math"
	"math/rand"
	"time"
)

type RandomSeed int64

var runSeedGenerator *rand.Rand

// Init initializes the prng package, either with a fixed PRNG seed (rootSeed != 0) or a 'random' time-based PRNG
// seed (if rootSeed == 0). The seed that was used is returned so that a run can be reproduced.
func Init(rootSeed int64) int64 {
	if rootSeed == 0 {
		rootSeed = time.Now().UnixNano()
	}
	runSeedGenerator = rand.New(rand.NewSource(rootSeed))
	return rootSeed
}

// NewRunSeed generates a seed for a new simulation run from the root seed.
func NewRunSeed() RandomSeed {
	if runSeedGenerator == nil {
		Init(0)
	}
	return RandomSeed(runSeedGenerator.Int63())
}

// Source is the single random source of one simulation run. All draws of the run, from topology placement
// to fading and CAD outcomes, go through it so that a seed fully determines the run.
type Source struct {
	seed RandomSeed
	rnd  *rand.Rand
}

func NewSource(seed RandomSeed) *Source {
	return &Source{
		seed: seed,
		rnd:  rand.New(rand.NewSource(int64(seed))),
	}
}

func (s *Source) Seed() RandomSeed {
	return s.seed
}

// Float64 returns a uniform value in [0, 1).
func (s *Source) Float64() float64 {
	return s.rnd.Float64()
}

// IntRange returns a uniform integer in [lo, hi], both ends included.
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rnd.Intn(hi-lo+1)
}

// Uniform returns a uniform value in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rnd.Float64()
}

// Exponential returns an exponentially distributed value with the given mean.
func (s *Source) Exponential(mean float64) float64 {
	return s.rnd.ExpFloat64() * mean
}

func (s *Source) Normal(mean, sigma float64) float64 {
	return mean + sigma*s.rnd.NormFloat64()
}

// Rayleigh returns a Rayleigh distributed value with the given scale (mode).
func (s *Source) Rayleigh(scale float64) float64 {
	u := s.rnd.Float64()
	return scale * math.Sqrt(-2*math.Log(1-u))
}

// Pick returns a uniform index in [0, n).
func (s *Source) Pick(n int) int {
	return s.rnd.Intn(n)
}
