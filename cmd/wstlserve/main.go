// Copyright 2025 The wstlserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the Whistle function completion server and its CLI [DBG] tools.

wstlserve offers the names of Whistle builtin functions as completions whenever
the character left of the cursor is "$". The function names are read once at
startup from a plain text file next to the executable.

# Usage

Run the language server over stdio, as jupyter-lsp and most editors launch it:

	wstlserve --stdio

Serve over TCP or WebSocket instead:

	wstlserve --tcp 127.0.0.1:8085
	wstlserve --ws 127.0.0.1:8085

Use another function file, relative to the executable or absolute:

	wstlserve --functions builtins.txt --dir data

# Subcommands

	ipc           MessagePack completion server on stdin/stdout
	cli           interactive completion loop for debugging
	install-spec  register the server in jupyter_notebook_config.json
	version       show version info

# Configuration

Settings are read from config.toml in the user config directory, created with
defaults when missing. Flags override the file.

	[functions]
	file = "function.txt"
	dir = "."

	[lsp]
	transport = "stdio"
	address = "127.0.0.1:8085"

	[cli]
	show_filtered = true

# Logging

Logs go to stderr since stdout carries protocol traffic. -d turns on debug
logs with timestamps.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow; the commands live in app.go.
func main() {
	sigHandler()
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
