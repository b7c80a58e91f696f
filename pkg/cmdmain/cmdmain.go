/*
Copyright 2026 The Minos Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cmdmain contains the shared implementation for fs_operations
// and other minos command-line tools that multiplex several modes
// behind a single binary. Its one structural quirk, inherited from the
// tools it serves, is the context argument: every mode acts on the
// same object (the filesystem image), which is named once, ahead of
// the mode, rather than repeated per mode:
//
//	fs_operations <image path> <mode> [modeopts] [modeargs]
//
// A tool opts in by setting ContextArg; Main then extracts the leading
// positional argument before mode selection and modes read it back
// with Context.
package cmdmain

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Version is stamped into -version output.
var Version = "0.1"

var (
	FlagVersion = flag.Bool("version", false, "show version")
	FlagHelp    = flag.Bool("help", false, "print usage")
)

// ContextArg, when non-empty, names the leading positional argument
// every mode of the tool operates on (for fs_operations, "image
// path"). Main refuses to pick a mode without it.
var ContextArg string

var contextValue string

// Context returns the context argument Main extracted, e.g. the image
// path. It is only meaningful from within a mode's RunCommand.
func Context() string { return contextValue }

var ErrUsage = UsageError("invalid command")

type UsageError string

func (ue UsageError) Error() string {
	return "Usage error: " + string(ue)
}

// CommandRunner is the type that a command mode should implement.
type CommandRunner interface {
	Usage()
	RunCommand(args []string) error
}

type exampler interface {
	Examples() []string
}

type describer interface {
	Describe() string
}

// mode ties a registered CommandRunner to its flag set.
type mode struct {
	name     string
	cmd      CommandRunner
	flags    *flag.FlagSet
	wantHelp bool
}

var modes = make(map[string]*mode)

var (
	// Indirections for replacement by tests
	Stderr io.Writer = os.Stderr
	Stdout io.Writer = os.Stdout
	Stdin  io.Reader = os.Stdin

	Exit = realExit
)

func realExit(code int) {
	os.Exit(code)
}

// RegisterMode adds a mode to the list of modes for the main command.
// It is meant to be called in init() for each mode.
func RegisterMode(name string, makeCmd func(Flags *flag.FlagSet) CommandRunner) {
	if _, dup := modes[name]; dup {
		log.Fatalf("duplicate mode %q registered", name)
	}
	m := &mode{
		name:  name,
		flags: flag.NewFlagSet(name+" options", flag.ContinueOnError),
	}
	m.flags.Usage = func() {}
	m.flags.BoolVar(&m.wantHelp, "help", false, "Help for this mode.")
	m.cmd = makeCmd(m.flags)
	modes[name] = m
}

func sortedModes() []*mode {
	all := make([]*mode, 0, len(modes))
	for _, m := range modes {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].name < all[j].name })
	return all
}

func hasFlags(flags *flag.FlagSet) bool {
	any := false
	flags.VisitAll(func(*flag.Flag) {
		any = true
	})
	return any
}

// Errorf prints to Stderr.
func Errorf(format string, args ...interface{}) {
	fmt.Fprintf(Stderr, format, args...)
}

func argSyntax() string {
	if ContextArg == "" {
		return "<mode>"
	}
	return "<" + ContextArg + "> <mode>"
}

func usage(msg string) {
	cmdName := filepath.Base(os.Args[0])
	if msg != "" {
		Errorf("Error: %v\n", msg)
	}
	Errorf("\nUsage: %s [globalopts] %s [modeopts] [modeargs]\n\nModes:\n\n",
		cmdName, argSyntax())
	for _, m := range sortedModes() {
		if des, ok := m.cmd.(describer); ok {
			Errorf("  %s: %s\n", m.name, des.Describe())
		}
	}
	Errorf("\nExamples:\n")
	for _, m := range sortedModes() {
		if ex, ok := m.cmd.(exampler); ok {
			for _, example := range ex.Examples() {
				Errorf("  %s %s %s %s\n", cmdName, exampleContext(), m.name, example)
			}
		}
	}
	Errorf("\nFor mode-specific help:\n\n  %s %s -help\n\nGlobal options:\n",
		cmdName, argSyntax())
	flag.PrintDefaults()
	Exit(1)
}

func exampleContext() string {
	if ContextArg == "" {
		return ""
	}
	return "<" + ContextArg + ">"
}

func (m *mode) printHelp() {
	if des, ok := m.cmd.(describer); ok {
		Errorf("%s\n", des.Describe())
	}
	Errorf("\n")
	m.cmd.Usage()
	m.flags.SetOutput(Stderr)
	if hasFlags(m.flags) {
		m.flags.PrintDefaults()
	}
	if ex, ok := m.cmd.(exampler); ok {
		Errorf("\nExamples:\n")
		for _, example := range ex.Examples() {
			Errorf("  %s %s %s %s\n", os.Args[0], exampleContext(), m.name, example)
		}
	}
}

// Main is the core of a command with modes, such as fs_operations.
func Main() {
	flag.CommandLine.SetOutput(Stderr)
	flag.Parse()

	args := flag.Args()
	if *FlagVersion {
		fmt.Fprintf(Stderr, "%s version: %s\n", os.Args[0], Version)
		return
	}
	if *FlagHelp {
		usage("")
	}
	if ContextArg != "" {
		if len(args) == 0 {
			usage("No " + ContextArg + " given.")
		}
		contextValue = args[0]
		args = args[1:]
	}
	if len(args) == 0 {
		usage("No mode given.")
	}

	m, ok := modes[args[0]]
	if !ok {
		usage(fmt.Sprintf("Unknown mode %q", args[0]))
	}

	m.flags.SetOutput(Stderr)
	err := m.flags.Parse(args[1:])
	if err != nil {
		err = ErrUsage
	} else {
		if m.wantHelp {
			m.printHelp()
			return
		}
		err = m.cmd.RunCommand(m.flags.Args())
	}
	if ue, isUsage := err.(UsageError); isUsage {
		Errorf("%s\n", ue)
		m.cmd.Usage()
		Errorf("\nGlobal options:\n")
		flag.PrintDefaults()

		if hasFlags(m.flags) {
			Errorf("\nMode-specific options for mode %q:\n", m.name)
			m.flags.PrintDefaults()
		}
		Exit(1)
	}
	if err != nil {
		Errorf("Error: %v\n", err)
		Exit(2)
	}
}
