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
package lorasim_main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canl-lora/lorasim/progctx"
	"github.com/canl-lora/lorasim/simulation"
	"github.com/canl-lora/lorasim/types"
)

func execute(t *testing.T, argv ...string) (string, error) {
	ctx := progctx.New(context.Background())
	defer ctx.Cancel(nil)

	root := NewRootCommand(ctx, nil)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(argv)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dir string, body string) string {
	path := filepath.Join(dir, "run.yaml")
	assert.Nil(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestApplyOverrides(t *testing.T) {
	cfg := simulation.DefaultConfig()
	assert.Nil(t, applyOverrides(cfg, []string{"nrNodes=7", "protocol = canl"}))
	assert.Equal(t, 7, cfg.NrNodes)
	assert.Equal(t, types.ProtocolCanl, cfg.Protocol)

	assert.NotNil(t, applyOverrides(cfg, []string{"nrNodes"}))
	assert.NotNil(t, applyOverrides(cfg, []string{"bogus=1"}))
	assert.Equal(t, 7, cfg.NrNodes)
}

func TestSetLogLevel(t *testing.T) {
	assert.Nil(t, setLogLevel("error"))
	assert.NotNil(t, setLogLevel("loud"))
}

func TestTopoCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "topo", "t.yaml")
	stdout, err := execute(t, "topo", "--nodes", "12", "--radius", "500", "--seed", "3", "--out", out, "--log", "error")
	assert.Nil(t, err)
	assert.Contains(t, stdout, "topology of 12 nodes, radius 500.0m, seed 3")

	topo, err := simulation.LoadTopology(out)
	assert.Nil(t, err)
	assert.Equal(t, 12, topo.Size())
	assert.Equal(t, 500.0, topo.MaxDist)

	_, err = execute(t, "topo", "--nodes", "12")
	assert.NotNil(t, err, "--out is required")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, "nrNodes: 3\navgSendTime: 10000\ndistrib: expo\nexperiment: 4\ntargetSchedPerNode: 10\n")
	outDir := filepath.Join(dir, "results")

	stdout, err := execute(t, "run", "--config", cfgFile, "--seed", "5", "--set", "protocol=canl", "--out", outDir,
		"--log", "error")
	assert.Nil(t, err)
	assert.Contains(t, stdout, "(seed 5): 3 nodes, canl")
	assert.Contains(t, stdout, "results: "+outDir)

	entries, err := os.ReadDir(outDir)
	assert.Nil(t, err)
	assert.NotEmpty(t, entries)
}

func TestRunCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeConfig(t, dir, "nrNodes: 3\navgSendTime: 10000\ndistrib: expo\nexperiment: 4\n")

	_, err := execute(t, "run")
	assert.NotNil(t, err, "--config is required")

	_, err = execute(t, "run", "--config", filepath.Join(dir, "missing.yaml"))
	assert.NotNil(t, err)

	_, err = execute(t, "run", "--config", cfgFile, "--set", "nRetry=0")
	assert.NotNil(t, err)

	_, err = execute(t, "run", "--config", cfgFile, "--topology", filepath.Join(dir, "missing.yaml"))
	assert.NotNil(t, err)
}
