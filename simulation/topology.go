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

	"github.com/canl-lora/lorasim/logger"
	"github.com/canl-lora/lorasim/prng"
	"github.com/canl-lora/lorasim/radiomodel"
	"github.com/pkg/errors"
)

const (
	gatewayMargin        = 10.0  // gateway offset from the disc edge, m
	minInterDistanceBase = 200.0 // divided by the number of nodes
	maxPlacementRounds   = 100
)

// Topology is the placement of the devices around the single gateway. Node i has id i.
type Topology struct {
	Gateway radiomodel.Position   `yaml:"gateway"`
	MaxDist float64               `yaml:"maxDist"`
	Nodes   []radiomodel.Position `yaml:"nodes"`
}

// TopologyRadius returns the gateway range of the preset PHY of params.
func TopologyRadius(params *radiomodel.RadioParams) float64 {
	return radiomodel.MaxRange(params.TxPowerDbm(), params.MinSensitivity(), params.GammaGW)
}

// BuildTopology places n devices uniformly on the disc of radius maxDist around the gateway. A maxDist of 0 uses
// the range of the preset PHY of params.
func BuildTopology(n int, params *radiomodel.RadioParams, src *prng.Source, maxDist float64) (*Topology, error) {
	if n <= 0 {
		return nil, errors.Errorf("cannot build a topology of %d nodes", n)
	}
	if maxDist <= 0 {
		maxDist = TopologyRadius(params)
	}

	topo := &Topology{
		Gateway: radiomodel.Position{X: maxDist + gatewayMargin, Y: maxDist + gatewayMargin},
		MaxDist: maxDist,
		Nodes:   make([]radiomodel.Position, 0, n),
	}
	minInterDist := minInterDistanceBase / float64(n)

	for len(topo.Nodes) < n {
		placed := false
		for round := 0; round < maxPlacementRounds && !placed; round++ {
			a := 0.99*src.Float64() + 0.01
			b := 0.99*src.Float64() + 0.01
			if b < a {
				a, b = b, a
			}
			p := radiomodel.Position{
				X: b*maxDist*math.Cos(2*math.Pi*a/b) + topo.Gateway.X,
				Y: b*maxDist*math.Sin(2*math.Pi*a/b) + topo.Gateway.Y,
			}
			placed = true
			for _, o := range topo.Nodes {
				if p.DistanceTo(o) < minInterDist {
					placed = false
					break
				}
			}
			if placed {
				topo.Nodes = append(topo.Nodes, p)
			}
		}
		if !placed {
			return nil, errors.Errorf("could not place node %d of %d after %d rounds", len(topo.Nodes), n,
				maxPlacementRounds)
		}
	}

	logger.Debugf("topology of %d nodes built, radius %.1fm", n, maxDist)
	return topo, nil
}

// Size returns the number of devices.
func (t *Topology) Size() int {
	return len(t.Nodes)
}

// Scaled returns a copy with every coordinate and the radius multiplied by f.
func (t *Topology) Scaled(f float64) *Topology {
	res := &Topology{
		Gateway: radiomodel.Position{X: t.Gateway.X * f, Y: t.Gateway.Y * f},
		MaxDist: t.MaxDist * f,
		Nodes:   make([]radiomodel.Position, len(t.Nodes)),
	}
	for i, p := range t.Nodes {
		res.Nodes[i] = radiomodel.Position{X: p.X * f, Y: p.Y * f}
	}
	return res
}

// Head returns a topology made of the first n devices.
func (t *Topology) Head(n int) (*Topology, error) {
	if n > len(t.Nodes) {
		return nil, errors.Errorf("topology has %d nodes, %d required", len(t.Nodes), n)
	}
	res := *t
	res.Nodes = append([]radiomodel.Position(nil), t.Nodes[:n]...)
	return &res, nil
}

// DistanceMatrix returns the distances of the topology.
func (t *Topology) DistanceMatrix() *radiomodel.DistanceMatrix {
	return radiomodel.NewDistanceMatrix(t.Nodes, t.Gateway)
}
