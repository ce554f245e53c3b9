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
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/simonlingoogle/go-simplelogger"
	"github.com/spf13/cobra"

	"github.com/canl-lora/lorasim/cli"
	"github.com/canl-lora/lorasim/cli/runcli"
	"github.com/canl-lora/lorasim/logger"
	"github.com/canl-lora/lorasim/prng"
	"github.com/canl-lora/lorasim/progctx"
	"github.com/canl-lora/lorasim/simulation"
)

type MainArgs struct {
	ConfigFile   string
	TopologyFile string
	Seed         int64
	Set          []string
	OutputDir    string
	LogLevel     string

	Nodes  int
	Radius float64
	Out    string

	HistoryFile string
}

// Main runs the lorasim command line with the given arguments. It returns once the command is done and every
// helper goroutine of ctx has stopped.
func Main(ctx *progctx.ProgCtx, argv []string, cliOptions *runcli.CliOptions) error {
	handleSignals(ctx)
	defer ctx.Wait()
	defer ctx.Cancel(nil)

	root := NewRootCommand(ctx, cliOptions)
	root.SetArgs(argv)
	return root.Execute()
}

// NewRootCommand builds the command tree: run, topo and console.
func NewRootCommand(ctx *progctx.ProgCtx, cliOptions *runcli.CliOptions) *cobra.Command {
	args := &MainArgs{}

	root := &cobra.Command{
		Use:           "lorasim",
		Short:         "LoRa channel access simulator",
		Long:          "lorasim simulates a dense single-gateway LoRa network running ALOHA, an ideal FIFO or CANL.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setLogLevel(args.LogLevel)
		},
	}
	root.PersistentFlags().StringVar(&args.LogLevel, "log", "warn", "set logging level: trace, debug, info, warn, error, off")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation and write its results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(ctx, cmd, args)
		},
	}
	runCmd.Flags().StringVar(&args.ConfigFile, "config", "", "path to the run configuration YAML")
	runCmd.Flags().StringVar(&args.TopologyFile, "topology", "", "path to a topology YAML, generated when empty")
	runCmd.Flags().Int64Var(&args.Seed, "seed", 0, "seed of the run, overrides the configuration")
	runCmd.Flags().StringArrayVar(&args.Set, "set", nil, "override one option, as key=value")
	runCmd.Flags().StringVar(&args.OutputDir, "out", "", "output directory, overrides the configuration")
	_ = runCmd.MarkFlagRequired("config")

	topoCmd := &cobra.Command{
		Use:   "topo",
		Short: "Generate a topology file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generateTopology(cmd, args)
		},
	}
	topoCmd.Flags().IntVar(&args.Nodes, "nodes", 0, "number of nodes")
	topoCmd.Flags().Float64Var(&args.Radius, "radius", 0, "disc radius in m, derived from the gateway sensitivity when 0")
	topoCmd.Flags().Int64Var(&args.Seed, "seed", 0, "placement seed, time based when 0")
	topoCmd.Flags().StringVar(&args.ConfigFile, "config", "", "configuration whose radio settings give the radius")
	topoCmd.Flags().StringVar(&args.Out, "out", "", "output topology YAML")
	_ = topoCmd.MarkFlagRequired("nodes")
	_ = topoCmd.MarkFlagRequired("out")

	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "Start the interactive console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(ctx, args, cliOptions)
		},
	}
	consoleCmd.Flags().StringVar(&args.ConfigFile, "config", "", "initial run configuration YAML")
	consoleCmd.Flags().StringVar(&args.TopologyFile, "topology", "", "initial topology YAML")
	consoleCmd.Flags().StringVar(&args.HistoryFile, "history", "", "console history file")

	root.AddCommand(runCmd, topoCmd, consoleCmd)
	return root
}

func setLogLevel(level string) error {
	lv, err := logger.ParseLevelString(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lv)
	simplelogger.SetLevel(logger.SimpleloggerLevel(lv))
	return nil
}

func loadConfig(path string) (*simulation.Config, error) {
	if path == "" {
		return simulation.DefaultConfig(), nil
	}
	return simulation.LoadConfig(path)
}

func loadTopology(path string) (*simulation.Topology, error) {
	if path == "" {
		return nil, nil
	}
	return simulation.LoadTopology(path)
}

// applyOverrides applies the key=value options in order.
func applyOverrides(cfg *simulation.Config, overrides []string) error {
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return errors.Errorf("invalid option %q, expected key=value", kv)
		}
		if err := cfg.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

func runSimulation(ctx *progctx.ProgCtx, cmd *cobra.Command, args *MainArgs) error {
	cfg, err := loadConfig(args.ConfigFile)
	if err != nil {
		return err
	}
	if err = applyOverrides(cfg, args.Set); err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = args.Seed
	}
	if args.OutputDir != "" {
		cfg.OutputDir = args.OutputDir
	}
	topo, err := loadTopology(args.TopologyFile)
	if err != nil {
		return err
	}

	sim, err := simulation.NewSimulation(cfg, topo)
	if err != nil {
		return err
	}
	res, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	path, err := sim.SaveOutputs()
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), sim, res, path)
	return nil
}

func printSummary(w io.Writer, sim *simulation.Simulation, res *simulation.Results, path string) {
	tot := res.Total
	_, _ = fmt.Fprintf(w, "run %s (seed %d): %d nodes, %s, %s\n", sim.RunId(), sim.Seed(), len(res.Nodes),
		sim.Config().Protocol, tot.EndSimulationTime)
	_, _ = fmt.Fprintf(w, "  scheduled %d, sent %d, received %d, collided %d, lost %d\n", tot.NrScheduled,
		tot.NrSent, tot.NrReceived, tot.NrCollisions, tot.NrLost)
	_, _ = fmt.Fprintf(w, "  DER %.4f, PDR %.4f, mean latency %.1fms, energy/node %.4fJ\n", tot.DER, tot.PDR,
		tot.MeanLatency, tot.TotalEnergyJ)
	_, _ = fmt.Fprintf(w, "results: %s\n", path)
}

func generateTopology(cmd *cobra.Command, args *MainArgs) error {
	cfg, err := loadConfig(args.ConfigFile)
	if err != nil {
		return err
	}
	seed := prng.RandomSeed(args.Seed)
	if seed == 0 {
		seed = prng.NewRunSeed()
	}
	topo, err := simulation.BuildTopology(args.Nodes, cfg.RadioParams(), prng.NewSource(seed), args.Radius)
	if err != nil {
		return err
	}
	if err = simulation.SaveTopology(topo, args.Out); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "topology of %d nodes, radius %.1fm, seed %d: %s\n", topo.Size(),
		topo.MaxDist, seed, args.Out)
	return nil
}

func runConsole(ctx *progctx.ProgCtx, args *MainArgs, cliOptions *runcli.CliOptions) error {
	cfg, err := loadConfig(args.ConfigFile)
	if err != nil {
		return err
	}
	topo, err := loadTopology(args.TopologyFile)
	if err != nil {
		return err
	}
	if cliOptions == nil {
		cliOptions = runcli.DefaultCliOptions()
	}
	if args.HistoryFile != "" {
		cliOptions.HistoryFile = args.HistoryFile
	}

	rt := cli.NewCmdRunner(ctx, cfg, topo)
	return runcli.RunCli(rt, cliOptions)
}

func handleSignals(ctx *progctx.ProgCtx) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)

	ctx.Go("handleSignals", func() {
		defer simplelogger.Debugf("handleSignals exit.")
		defer signal.Stop(c)

		for {
			select {
			case sig := <-c:
				simplelogger.Infof("signal received: %v", sig)
				ctx.Cancel(errors.Errorf("signal %v", sig))
			case <-ctx.Done():
				return
			}
		}
	})
}
