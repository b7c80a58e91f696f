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

package main

import (
	"flag"
	"fmt"
	"strings"

	"minos.org/pkg/cmdmain"
	"minos.org/pkg/fat12"
)

type chmodCmd struct{}

func init() {
	cmdmain.RegisterMode("chmod", func(flags *flag.FlagSet) cmdmain.CommandRunner {
		return new(chmodCmd)
	})
}

func (c *chmodCmd) Describe() string {
	return "Set or clear the owner read/write bits of an entry."
}

func (c *chmodCmd) Usage() {
	fmt.Fprintf(cmdmain.Stderr, "Usage: fs_operations <image> chmod <name> <+|-><rw subset>\n")
}

func (c *chmodCmd) Examples() []string {
	return []string{`notes +rw`, `notes -w`}
}

func validMode(spec string) bool {
	if len(spec) < 2 || (spec[0] != '+' && spec[0] != '-') {
		return false
	}
	return strings.Trim(spec[1:], "rw") == ""
}

func (c *chmodCmd) RunCommand(args []string) error {
	if len(args) != 2 {
		return cmdmain.ErrUsage
	}
	name, spec := args[0], args[1]
	if !validMode(spec) {
		return cmdmain.UsageError(fmt.Sprintf("bad permission spec %q", spec))
	}
	return runSave(func(fs *fat12.FileSystem) error {
		if err := fs.Chmod(name, spec); err != nil {
			return err
		}
		e, _ := fs.Lookup(name)
		fmt.Fprintf(cmdmain.Stdout, "Permissions changed: %s to %04o\n", name, e.Perm)
		return nil
	})
}
