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
	"math"

	"github.com/canl-lora/lorasim/logger"
	. "github.com/canl-lora/lorasim/types"
)

// Position is a point in meters.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Position) DistanceTo(o Position) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// DistanceMatrix holds the immutable pairwise device distances and the device-gateway distances of a topology.
type DistanceMatrix struct {
	dev [][]float64
	gw  []float64
}

// NewDistanceMatrix builds the matrix for devices at positions, with node id == index.
func NewDistanceMatrix(positions []Position, gateway Position) *DistanceMatrix {
	n := len(positions)
	dm := &DistanceMatrix{
		dev: make([][]float64, n),
		gw:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		dm.dev[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				dm.dev[i][j] = selfDistance
			} else {
				dm.dev[i][j] = positions[i].DistanceTo(positions[j])
			}
		}
		dm.gw[i] = positions[i].DistanceTo(gateway)
	}
	return dm
}

func (dm *DistanceMatrix) Size() int {
	return len(dm.gw)
}

func (dm *DistanceMatrix) Between(a, b NodeId) float64 {
	logger.AssertTruef(a >= 0 && a < len(dm.gw) && b >= 0 && b < len(dm.gw), "invalid node pair %d,%d", a, b)
	return dm.dev[a][b]
}

func (dm *DistanceMatrix) ToGateway(id NodeId) float64 {
	return dm.gw[id]
}
