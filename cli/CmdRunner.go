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
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/canl-lora/lorasim/logger"
	"github.com/canl-lora/lorasim/prng"
	"github.com/canl-lora/lorasim/progctx"
	"github.com/canl-lora/lorasim/simulation"
)

const (
	Prompt = "> "
)

type CommandContext struct {
	*Command
	rt     *CmdRunner
	err    error
	output io.Writer
}

func (cc *CommandContext) outputStr(msg string) {
	_, _ = fmt.Fprint(cc.output, msg)
}

func (cc *CommandContext) outputf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cc.output, format, args...)
}

func (cc *CommandContext) errorf(format string, args ...interface{}) {
	cc.error(errors.Errorf(format, args...))
}

func (cc *CommandContext) error(err error) {
	if err != nil {
		if cc.err != nil { // if previous error, print it now and keep the last.
			cc.outputf("Error: %s\n", cc.err)
		}
		cc.err = err
	}
}

// Err returns the last error that occurred during command execution.
func (cc *CommandContext) Err() error {
	return cc.err
}

// outputAsYaml prints a JSON-tagged value as block YAML, keeping the JSON key names and order.
func (cc *CommandContext) outputAsYaml(v interface{}) {
	data, err := json.Marshal(v)
	logger.PanicIfError(err)

	var node yaml.Node
	err = yaml.Unmarshal(data, &node)
	logger.PanicIfError(err)
	resetYamlStyle(&node)

	data, err = yaml.Marshal(&node)
	logger.PanicIfError(err)
	cc.outputStr(string(data))
}

func resetYamlStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetYamlStyle(c)
	}
}

// CmdRunner executes console commands. It holds the configuration and topology of the next run and the last
// completed simulation.
type CmdRunner struct {
	ctx  *progctx.ProgCtx
	cfg  *simulation.Config
	topo *simulation.Topology
	sim  *simulation.Simulation
	help Help
}

func NewCmdRunner(ctx *progctx.ProgCtx, cfg *simulation.Config, topo *simulation.Topology) *CmdRunner {
	return &CmdRunner{
		ctx:  ctx,
		cfg:  cfg,
		topo: topo,
		help: newHelp(),
	}
}

// HandleCommand parses and executes one console line, writing its output and the final "Done" or "Error: ..."
// to output. It returns an error once the program context is done.
func (rt *CmdRunner) HandleCommand(cmdline string, output io.Writer) error {
	if rt.ctx.Err() == nil {
		cmd := Command{}
		if err := ParseBytes([]byte(cmdline), &cmd); err != nil {
			if _, err := fmt.Fprintf(output, "Error: %v\n", err); err != nil {
				return err
			}
		} else {
			rt.execute(&cmd, output)
		}
	}
	return rt.ctx.Err()
}

func (rt *CmdRunner) GetPrompt() string {
	return Prompt
}

// Config returns the configuration of the next run.
func (rt *CmdRunner) Config() *simulation.Config {
	return rt.cfg
}

// Simulation returns the last simulation started from the console, or nil.
func (rt *CmdRunner) Simulation() *simulation.Simulation {
	return rt.sim
}

func (rt *CmdRunner) execute(cmd *Command, output io.Writer) {
	cc := &CommandContext{
		Command: cmd,
		rt:      rt,
		output:  output,
	}

	defer func() {
		if cc.Err() != nil {
			cc.outputf("Error: %v\n", cc.Err())
		} else {
			cc.outputf("Done\n")
		}
	}()

	defer func() {
		rerr := recover()

		if rerr != nil {
			if err, ok := rerr.(error); ok {
				cc.err = errors.Wrapf(err, "panic: %v", err)
			} else {
				cc.err = errors.Errorf("panic: %v", rerr)
			}
		}
	}()

	if cmd.Run != nil {
		rt.executeRun(cc)
	} else if cmd.Show != nil {
		rt.executeShow(cc, cmd.Show)
	} else if cmd.Set != nil {
		rt.executeSet(cc, cmd.Set)
	} else if cmd.Seed != nil {
		rt.executeSeed(cc, cmd.Seed)
	} else if cmd.Topo != nil {
		rt.executeTopo(cc, cmd.Topo)
	} else if cmd.Save != nil {
		rt.executeSave(cc, cmd.Save)
	} else if cmd.Energy != nil {
		rt.executeEnergy(cc, cmd.Energy)
	} else if cmd.Counters != nil {
		rt.executeCounters(cc)
	} else if cmd.LogLevel != nil {
		rt.executeLogLevel(cc, cmd.LogLevel)
	} else if cmd.Help != nil {
		rt.executeHelp(cc, cmd.Help)
	} else if cmd.Exit != nil {
		rt.executeExit(cc)
	} else {
		logger.Panicf("unimplemented command: %#v", cmd)
	}
}

// completedRun returns the last simulation if it produced results.
func (rt *CmdRunner) completedRun(cc *CommandContext) *simulation.Simulation {
	if rt.sim == nil || rt.sim.Results() == nil {
		cc.errorf("no results available, use 'run' first")
		return nil
	}
	return rt.sim
}

func (rt *CmdRunner) executeRun(cc *CommandContext) {
	sim, err := simulation.NewSimulation(rt.cfg, rt.topo)
	if err != nil {
		cc.error(err)
		return
	}
	rt.sim = sim

	res, err := sim.Run(rt.ctx)
	if err != nil {
		cc.error(err)
		return
	}
	cc.outputf("run %s: %d nodes, %d scheduled, DER %.4f, PDR %.4f\n", sim.RunId(), len(res.Nodes),
		res.Total.NrScheduled, res.Total.DER, res.Total.PDR)
}

func (rt *CmdRunner) executeShow(cc *CommandContext, cmd *ShowCmd) {
	if cmd.Config != nil {
		cc.outputStr(rt.cfg.YAML())
		return
	}

	sim := rt.completedRun(cc)
	if sim == nil {
		return
	}
	res := sim.Results()
	if cmd.Results.Node == nil {
		cc.outputAsYaml(res.Total)
		return
	}
	nr := res.Node(cmd.Results.Node.Id)
	if nr == nil {
		cc.errorf("node %d not found", cmd.Results.Node.Id)
		return
	}
	cc.outputAsYaml(nr)
}

func (rt *CmdRunner) executeSet(cc *CommandContext, cmd *SetCmd) {
	cc.error(rt.cfg.Set(cmd.Key, cmd.Value))
}

func (rt *CmdRunner) executeSeed(cc *CommandContext, cmd *SeedCmd) {
	if cmd.Seed == nil {
		cc.outputf("%d\n", rt.cfg.Seed)
		return
	}
	seed, err := strconv.ParseInt(*cmd.Seed, 10, 64)
	if err != nil {
		cc.errorf("invalid seed: %s", *cmd.Seed)
		return
	}
	rt.cfg.Seed = seed
}

func (rt *CmdRunner) executeTopo(cc *CommandContext, cmd *TopoCmd) {
	switch {
	case cmd.New != nil:
		radius := 0.0
		if cmd.New.Radius != nil {
			radius = *cmd.New.Radius
		}
		seed := prng.RandomSeed(rt.cfg.Seed)
		if seed == 0 {
			seed = prng.NewRunSeed()
		}
		topo, err := simulation.BuildTopology(rt.cfg.EffectiveNrNodes(), rt.cfg.RadioParams(), prng.NewSource(seed),
			radius)
		if err != nil {
			cc.error(err)
			return
		}
		rt.topo = topo
		cc.outputf("topology of %d nodes, radius %.1fm\n", topo.Size(), topo.MaxDist)
	case cmd.Load != nil:
		topo, err := simulation.LoadTopology(cmd.Load.Path)
		if err != nil {
			cc.error(err)
			return
		}
		rt.topo = topo
		cc.outputf("topology of %d nodes\n", topo.Size())
	case cmd.Save != nil:
		topo := rt.topo
		if topo == nil && rt.sim != nil {
			topo = rt.sim.Topology()
		}
		if topo == nil {
			cc.errorf("no topology, use 'topo new' or 'run' first")
			return
		}
		cc.error(simulation.SaveTopology(topo, cmd.Save.Path))
	}
}

func (rt *CmdRunner) executeSave(cc *CommandContext, cmd *SaveCmd) {
	sim := rt.completedRun(cc)
	if sim == nil {
		return
	}
	if cmd.Path == nil {
		path, err := sim.SaveOutputs()
		if err != nil {
			cc.error(err)
			return
		}
		cc.outputf("%s\n", path)
		return
	}
	cc.error(sim.Results().SaveFile(*cmd.Path))
}

func (rt *CmdRunner) executeEnergy(cc *CommandContext, cmd *EnergyCmd) {
	if cmd.Save == nil {
		cc.outputf("energy <command>\n")
		cc.outputf("\tsave [output name]\n")
		return
	}
	sim := rt.completedRun(cc)
	if sim == nil {
		return
	}
	cc.error(sim.Energy().SaveEnergyDataToFile(sim.Config().OutputDir, cmd.Name, sim.Dispatcher().Now()))
}

func (rt *CmdRunner) executeCounters(cc *CommandContext) {
	sim := rt.completedRun(cc)
	if sim == nil {
		return
	}
	outputFields(cc, sim.TotalCounters())
	outputFields(cc, sim.Dispatcher().Counters)
}

func outputFields(cc *CommandContext, v interface{}) {
	val := reflect.ValueOf(v)
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		cc.outputf("%-40s %v\n", typ.Field(i).Name, val.Field(i).Interface())
	}
}

func (rt *CmdRunner) executeLogLevel(cc *CommandContext, cmd *LogLevelCmd) {
	if cmd.Level == "" {
		cc.outputf("%v\n", logger.GetLevelString(logger.GetLevel()))
		return
	}
	level, err := logger.ParseLevelString(cmd.Level)
	if err != nil {
		cc.error(err)
		return
	}
	logger.SetLevel(level)
}

func (rt *CmdRunner) executeHelp(cc *CommandContext, cmd *HelpCmd) {
	if len(cmd.HelpTopic) > 0 {
		cc.outputStr(rt.help.outputCommandHelp(cmd.HelpTopic))
	} else {
		cc.outputStr(rt.help.outputGeneralHelp())
	}
}

func (rt *CmdRunner) executeExit(cc *CommandContext) {
	rt.ctx.Cancel("exit")
}
