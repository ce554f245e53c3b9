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

package types

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/simonlingoogle/go-simplelogger"
)

type NodeId = int

const (
	InvalidNodeId NodeId = -1
	// GatewayId is used where a receiver id is expected and the receiver is the gateway.
	GatewayId NodeId = -1
)

// Ever is a virtual time that is never reached.
const Ever float64 = 1e300

type Protocol int

const (
	ProtocolAloha Protocol = iota
	ProtocolCanl
	ProtocolIdeal
)

func (p Protocol) String() string {
	switch p {
	case ProtocolAloha:
		return "aloha"
	case ProtocolCanl:
		return "canl"
	case ProtocolIdeal:
		return "ideal"
	default:
		simplelogger.Panicf("invalid protocol: %d", int(p))
		return "invalid"
	}
}

func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(s) {
	case "aloha", "cad", "noca":
		return ProtocolAloha, nil
	case "canl", "canl22":
		return ProtocolCanl, nil
	case "ideal", "ideal_fifo", "fifo":
		return ProtocolIdeal, nil
	default:
		return ProtocolAloha, errors.Errorf("invalid protocol: %s", s)
	}
}

// Band selects the LoRa physical layer flavour.
type Band int

const (
	BandSubGHz Band = iota
	Band2400MHz
)

func (b Band) String() string {
	if b == Band2400MHz {
		return "2.4GHz"
	}
	return "subGHz"
}

// Distribution is the inter-generation time distribution of a device.
type Distribution int

const (
	DistribExponential Distribution = 1
	DistribUniform     Distribution = 2
	DistribPeriodic    Distribution = 3
)

func (d Distribution) String() string {
	switch d {
	case DistribExponential:
		return "expo"
	case DistribUniform:
		return "unif"
	case DistribPeriodic:
		return "perio"
	default:
		simplelogger.Panicf("invalid distribution: %d", int(d))
		return "invalid"
	}
}

func ParseDistribution(s string) (Distribution, error) {
	switch strings.ToLower(s) {
	case "expo", "exponential":
		return DistribExponential, nil
	case "unif", "uniform":
		return DistribUniform, nil
	case "perio", "periodic":
		return DistribPeriodic, nil
	default:
		return DistribPeriodic, errors.Errorf("invalid distribution: %s", s)
	}
}

// Experiment selects a PHY preset (and a few traffic quirks) for all devices.
type Experiment int

const (
	Experiment0 Experiment = 0
	Experiment1 Experiment = 1
	Experiment2 Experiment = 2
	Experiment4 Experiment = 4
	Experiment6 Experiment = 6
	Experiment7 Experiment = 7
	// ExperimentSF7BW500CAD4 is SF7/BW500 with a 4-symbol CAD and a -127dBm gateway.
	ExperimentSF7BW500CAD4 Experiment = 100
	// ExperimentRandom draws SF, BW and CR per device.
	ExperimentRandom Experiment = 101
)

func (e Experiment) String() string {
	switch e {
	case ExperimentSF7BW500CAD4:
		return "SF7BW500CAD4"
	case ExperimentRandom:
		return "random"
	default:
		return strconv.Itoa(int(e))
	}
}

func ParseExperiment(s string) (Experiment, error) {
	switch s {
	case "0", "1", "2", "4", "6", "7":
		n, _ := strconv.Atoi(s)
		return Experiment(n), nil
	case "SF7BW500CAD4":
		return ExperimentSF7BW500CAD4, nil
	case "random":
		return ExperimentRandom, nil
	default:
		return ExperimentRandom, errors.Errorf("unsupported experiment: %s", s)
	}
}

// HasFixedPhy returns true when all devices share the preset SF12 configuration.
func (e Experiment) HasFixedPhy() bool {
	switch e {
	case Experiment0, Experiment1, Experiment4, Experiment6, Experiment7:
		return true
	}
	return false
}

type FrameType int

const (
	DataFrame FrameType = 1
	RtsFrame  FrameType = 2
)

func (t FrameType) String() string {
	if t == RtsFrame {
		return "RTS"
	}
	return "DATA"
}

type DeviceClass int

const (
	EndDevice   DeviceClass = 1
	RelayDevice DeviceClass = 2
)

func (c DeviceClass) String() string {
	if c == RelayDevice {
		return "relayDevice"
	}
	return "endDevice"
}
