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
	"gopkg.in/yaml.v3"
)

func (p Protocol) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

func (p *Protocol) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseProtocol(value.Value)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (d Distribution) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Distribution) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseDistribution(value.Value)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (e Experiment) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

// UnmarshalYAML accepts both the numeric form (4) and the string form ("4", "SF7BW500CAD4").
func (e *Experiment) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseExperiment(value.Value)
	if err != nil {
		return err
	}
	*e = v
	return nil
}
