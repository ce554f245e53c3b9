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
// Package runcli runs the interactive console loop on top of readline.
package runcli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

type CliHandler interface {
	HandleCommand(cmd string, output io.Writer) error
	GetPrompt() string
}

type CliOptions struct {
	EchoInput   bool
	HistoryFile string
	Stdin       *os.File
	Stdout      *os.File
}

func DefaultCliOptions() *CliOptions {
	return &CliOptions{
		EchoInput:   false,
		HistoryFile: "",
		Stdin:       nil,
		Stdout:      nil,
	}
}

// keepTerminalState saves the state of f if it is a terminal and returns the function restoring it.
func keepTerminalState(f *os.File) (func(), error) {
	fd := int(f.Fd())
	if !readline.IsTerminal(fd) {
		return func() {}, nil
	}
	state, err := readline.GetState(fd)
	if err != nil {
		return nil, err
	}
	return func() {
		_ = readline.Restore(fd, state)
	}, nil
}

// RunCli reads lines until EOF, an interrupt on an empty line, or a handler error. A handler error caused by a
// cancelled context, as after 'exit', ends the loop without error.
func RunCli(handler CliHandler, options *CliOptions) error {
	if options == nil {
		options = DefaultCliOptions()
	}
	stdin := options.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := options.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	for _, f := range []*os.File{stdin, stdout} {
		restore, err := keepTerminalState(f)
		if err != nil {
			return err
		}
		defer restore()
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:          handler.GetPrompt(),
		HistoryFile:     options.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           stdin,
		Stdout:          stdout,

		HistorySearchFold: true,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			switch r {
			// block CtrlZ feature
			case readline.CharCtrlZ:
				return r, false
			}
			return r, true
		},
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Close()
	}()

	for {
		l.SetPrompt(handler.GetPrompt())
		line, err := l.Readline()

		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		if options.EchoInput {
			if _, err := stdout.WriteString(line + "\n"); err != nil {
				return err
			}
		}

		cmd := strings.TrimSpace(line)
		if len(cmd) == 0 {
			continue
		}

		if err = handler.HandleCommand(cmd, l.Stdout()); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		_ = stdout.Sync()
	}
}
