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
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/canl-lora/lorasim/logger"
	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"
)

type Help struct {
	termWidth     uint
	maxCmdWidth   uint
	commands      map[string]string
	commandsShort map[string]string
}

var (
	cmdHeaderPattern = regexp.MustCompile("^### .+")
)

// Embed the console help file as a static resource.
//
//go:embed README.md
var cliHelpFile string

func newHelp() Help {
	h := Help{
		termWidth:     80,
		maxCmdWidth:   10,
		commands:      make(map[string]string),
		commandsShort: make(map[string]string),
	}
	h.parseHelpFile()
	h.update()
	return h
}

// update takes the width of the user's terminal into account, if stdout is one.
func (help *Help) update() {
	fdTerm := int(os.Stdout.Fd())
	if term.IsTerminal(fdTerm) {
		width, _, err := term.GetSize(fdTerm)
		if err != nil {
			logger.Debugf("could not get terminal size: %v", err)
			return
		}
		help.termWidth = uint(width)
	}
}

func (help *Help) outputGeneralHelp() string {
	cmds := make([]string, 0, len(help.commandsShort))
	for k := range help.commandsShort {
		cmds = append(cmds, k)
	}
	sort.Strings(cmds)

	cmdHelp := ""
	for _, c := range cmds {
		cmdHelp += fmt.Sprintf("%-15s %s\n", c, help.commandsShort[c])
	}
	return cmdHelp + wordwrap.WrapString("\nFor detailed help per command, use: 'help <command>'\n", help.termWidth)
}

func (help *Help) outputCommandHelp(command string) string {
	help.update()
	explanation, ok := help.commands[command]
	if !ok {
		explanation = command + "\n(Non-existent command.)"
	}

	s := ""
	w := help.termWidth - help.maxCmdWidth - 1
	for i, line := range strings.Split(wordwrap.WrapString(explanation, w), "\n") {
		if i == 0 {
			s += line + "\n"
		} else if len(line) > 0 {
			s += "  " + line + "\n"
		}
	}
	return s
}

// parseHelpFile splits the embedded README into one entry per '###' command section. The first sentence of a
// section is its short help.
func (help *Help) parseHelpFile() {
	indentString := "    "
	activeCmd := ""
	indent := 0
	for _, line := range strings.Split(cliHelpFile, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case line == "```bash":
			line = "Example:"
			indent = 2
		case line == "```shell":
			line = "Definition:"
			indent = 2
		case line == "```":
			indent = 0
			continue
		case cmdHeaderPattern.MatchString(line):
			activeCmd = strings.TrimSpace(line[strings.Index(line, " ")+1:])
			help.commands[activeCmd] = activeCmd + "\n"
			help.commandsShort[activeCmd] = ""
			indent = 0
			continue
		case strings.HasPrefix(line, "#"):
			activeCmd = ""
			continue
		}

		if len(activeCmd) == 0 {
			continue
		}
		if indent > 0 && line != "Example:" && line != "Definition:" {
			help.commands[activeCmd] += indentString[0:indent] + line + "\n"
			continue
		}
		help.commands[activeCmd] += markdownUnquote(line) + "\n"
		if len(help.commandsShort[activeCmd]) == 0 {
			firstSentence := line
			if idx := strings.Index(line, "."); idx > 0 {
				firstSentence = line[:idx+1]
			}
			help.commandsShort[activeCmd] = markdownUnquote(firstSentence)
		}
	}
}

func markdownUnquote(md string) string {
	return strings.ReplaceAll(md, "`", "")
}
