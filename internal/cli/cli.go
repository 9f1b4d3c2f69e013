// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for refchat.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdServe
	CmdModels
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Provider string
	Model    string
	Quiet    bool

	// Command-specific
	Query      string
	Port       int
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `refchat - chat with an AI assistant about your reference documents

Refchat keeps a running conversation about whatever document text you
have selected, sending the full transcript to OpenAI or OpenRouter on
every turn.

Usage:
  refchat                    Start TUI (default)
  refchat ask "question"     Ask a single question
  refchat serve              Run the local HTTP API
  refchat models             List available providers and models
  refchat config [show|path] Configuration
  refchat version            Show version information

Flags:
  --provider NAME            Provider to use (openai, openrouter)
  --model ID                 Model identifier (e.g. gpt-4o-mini)
  --port N                   Port for serve (default from config)
  -q, --quiet                Suppress non-essential output

Environment:
  OPENAI_API_KEY             API key for OpenAI
  OPENROUTER_API_KEY         API key for OpenRouter
  REFCHAT_SELECTION_FILE     File whose contents are folded into each question

Examples:
  refchat ask "Summarize the selected section"
  refchat --provider openrouter --model anthropic/claude-3.5-sonnet
  refchat serve --port 8790
`

// Parse parses os.Args and returns the command to run with its arguments.
func Parse() (Command, *Args, error) {
	return parseArgs(os.Args[1:])
}

// parseArgs is the testable core of Parse.
func parseArgs(argv []string) (Command, *Args, error) {
	args := &Args{Port: -1}
	cmd := CmdTUI

	positional := make([]string, 0, len(argv))
	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch {
		case arg == "--provider" || arg == "-p":
			if i+1 >= len(argv) {
				return cmd, args, fmt.Errorf("flag %s requires a value", arg)
			}
			args.Provider = argv[i+1]
			i++
		case strings.HasPrefix(arg, "--provider="):
			args.Provider = strings.TrimPrefix(arg, "--provider=")
		case arg == "--model" || arg == "-m":
			if i+1 >= len(argv) {
				return cmd, args, fmt.Errorf("flag %s requires a value", arg)
			}
			args.Model = argv[i+1]
			i++
		case strings.HasPrefix(arg, "--model="):
			args.Model = strings.TrimPrefix(arg, "--model=")
		case arg == "--port":
			if i+1 >= len(argv) {
				return cmd, args, fmt.Errorf("flag %s requires a value", arg)
			}
			n, err := strconv.Atoi(argv[i+1])
			if err != nil {
				return cmd, args, fmt.Errorf("invalid port %q", argv[i+1])
			}
			args.Port = n
			i++
		case strings.HasPrefix(arg, "--port="):
			val := strings.TrimPrefix(arg, "--port=")
			n, err := strconv.Atoi(val)
			if err != nil {
				return cmd, args, fmt.Errorf("invalid port %q", val)
			}
			args.Port = n
		case arg == "--quiet" || arg == "-q":
			args.Quiet = true
		case arg == "--help" || arg == "-h":
			return CmdHelp, args, nil
		case arg == "--version":
			return CmdVersion, args, nil
		default:
			positional = append(positional, arg)
		}
		i++
	}

	if len(positional) == 0 {
		return cmd, args, nil
	}

	switch positional[0] {
	case "ask":
		cmd = CmdAsk
		args.Query = strings.Join(positional[1:], " ")
	case "serve":
		cmd = CmdServe
	case "models":
		cmd = CmdModels
	case "config":
		cmd = CmdConfig
		if len(positional) > 1 {
			args.Subcommand = positional[1]
		}
	case "version":
		cmd = CmdVersion
	case "help":
		cmd = CmdHelp
	default:
		// Unknown word: treat it as an implicit ask query.
		cmd = CmdAsk
		args.Query = strings.Join(positional, " ")
	}
	args.Raw = positional
	return cmd, args, nil
}

// PrintUsage writes the top-level usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("refchat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
