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
	"github.com/alecthomas/participle"
)

// noinspection GoStructTag
type Command struct {
	Counters *CountersCmd `  @@` //nolint
	Energy   *EnergyCmd   `| @@` //nolint
	Exit     *ExitCmd     `| @@` //nolint
	Help     *HelpCmd     `| @@` //nolint
	LogLevel *LogLevelCmd `| @@` //nolint
	Run      *RunCmd      `| @@` //nolint
	Save     *SaveCmd     `| @@` //nolint
	Seed     *SeedCmd     `| @@` //nolint
	Set      *SetCmd      `| @@` //nolint
	Show     *ShowCmd     `| @@` //nolint
	Topo     *TopoCmd     `| @@` //nolint
}

// noinspection GoStructTag
type RunCmd struct {
	Cmd struct{} `"run"` //nolint
}

// noinspection GoStructTag
type ShowCmd struct {
	Cmd     struct{}     `"show"` //nolint
	Config  *ConfigFlag  `( @@`   //nolint
	Results *ResultsFlag `| @@ )` //nolint
}

// noinspection GoStructTag
type ConfigFlag struct {
	Dummy struct{} `"config"` //nolint
}

// noinspection GoStructTag
type ResultsFlag struct {
	Dummy struct{}      `"results"` //nolint
	Node  *NodeSelector `[ @@ ]`    //nolint
}

// noinspection GoStructTag
type NodeSelector struct {
	Id int `"node" @Int` //nolint
}

// noinspection GoStructTag
type SetCmd struct {
	Cmd   struct{} `"set"`                                  //nolint
	Key   string   `@Ident`                                 //nolint
	Value string   `@( "-"? (Int|Float) | Ident | String )` //nolint
}

// noinspection GoStructTag
type SeedCmd struct {
	Cmd  struct{} `"seed"`          //nolint
	Seed *string  `[ @("-"? Int) ]` //nolint
}

// noinspection GoStructTag
type TopoCmd struct {
	Cmd  struct{}     `"topo"` //nolint
	New  *TopoNewCmd  `( @@`   //nolint
	Load *TopoLoadCmd `| @@`   //nolint
	Save *TopoSaveCmd `| @@ )` //nolint
}

// noinspection GoStructTag
type TopoNewCmd struct {
	Cmd    struct{} `"new"`                      //nolint
	Radius *float64 `[ "radius" (@Int|@Float) ]` //nolint
}

// noinspection GoStructTag
type TopoLoadCmd struct {
	Cmd  struct{} `"load"`  //nolint
	Path string   `@String` //nolint
}

// noinspection GoStructTag
type TopoSaveCmd struct {
	Cmd  struct{} `"save"`  //nolint
	Path string   `@String` //nolint
}

// noinspection GoStructTag
type SaveCmd struct {
	Cmd  struct{} `"save"`      //nolint
	Path *string  `[ @String ]` //nolint
}

// noinspection GoStructTag
type EnergyCmd struct {
	Cmd  struct{}  `"energy"` //nolint
	Save *SaveFlag `( @@ )?`  //nolint
	Name string    `@String?` //nolint
}

// noinspection GoStructTag
type SaveFlag struct {
	Dummy struct{} `"save"` //nolint
}

// noinspection GoStructTag
type CountersCmd struct {
	Cmd struct{} `"counters"` //nolint
}

// noinspection GoStructTag
type LogLevelCmd struct {
	Cmd   struct{} `"log"`                                                                                 //nolint
	Level string   `[@( "micro"|"trace"|"debug"|"info"|"note"|"warn"|"error"|"off"|"D"|"I"|"N"|"W"|"E" )]` //nolint
}

// noinspection GoStructTag
type HelpCmd struct {
	Cmd       struct{} `"help"`       //nolint
	HelpTopic string   `[ (@Ident) ]` //nolint
}

// noinspection GoStructTag
type ExitCmd struct {
	Cmd struct{} `"exit"` //nolint
}

var (
	commandParser = participle.MustBuild(&Command{})
)

func ParseBytes(b []byte, cmd *Command) error {
	err := commandParser.ParseBytes(b, cmd)
	return err
}
