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

	"minos.org/pkg/cmdmain"
	"minos.org/pkg/fat12"
)

type rmdirCmd struct{}

func init() {
	cmdmain.RegisterMode("rmdir", func(flags *flag.FlagSet) cmdmain.CommandRunner {
		return new(rmdirCmd)
	})
}

func (c *rmdirCmd) Describe() string {
	return "Remove a directory entry. Entries beneath it are kept."
}

func (c *rmdirCmd) Usage() {
	fmt.Fprintf(cmdmain.Stderr, "Usage: fs_operations <image> rmdir <dirname>\n")
}

func (c *rmdirCmd) RunCommand(args []string) error {
	if len(args) != 1 {
		return cmdmain.ErrUsage
	}
	name := args[0]
	return runSave(func(fs *fat12.FileSystem) error {
		if err := fs.Rmdir(name); err != nil {
			return err
		}
		fmt.Fprintf(cmdmain.Stdout, "Directory removed: %s\n", name)
		return nil
	})
}
