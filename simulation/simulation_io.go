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
	"os"
	"path/filepath"

	"github.com/canl-lora/lorasim/logger"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadTopology reads a YAML topology file.
func LoadTopology(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read topology %s", path)
	}
	topo := &Topology{}
	if err = yaml.Unmarshal(data, topo); err != nil {
		return nil, errors.Wrapf(err, "parse topology %s", path)
	}
	if len(topo.Nodes) == 0 {
		return nil, errors.Errorf("topology %s has no nodes", path)
	}
	logger.Debugf("loaded topology %s with %d nodes", path, len(topo.Nodes))
	return topo, nil
}

// SaveTopology writes topo as YAML to path, creating the parent directory if needed.
func SaveTopology(topo *Topology, path string) error {
	data, err := yaml.Marshal(topo)
	if err != nil {
		return errors.Wrap(err, "encode topology")
	}
	if err = ensureParentDir(path); err != nil {
		return err
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write topology %s", path)
	}
	logger.Debugf("saved topology of %d nodes to %s", len(topo.Nodes), path)
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0775); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}
	return nil
}
