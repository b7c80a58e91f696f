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

type delCmd struct{}

func init() {
	cmdmain.RegisterMode("del", func(flags *flag.FlagSet) cmdmain.CommandRunner {
		return new(delCmd)
	})
}

func (c *delCmd) Describe() string {
	return "Delete a file and free its block chain."
}

func (c *delCmd) Usage() {
	fmt.Fprintf(cmdmain.Stderr, "Usage: fs_operations <image> del <name>\n")
}

func (c *delCmd) RunCommand(args []string) error {
	if len(args) != 1 {
		return cmdmain.ErrUsage
	}
	name := args[0]
	return runSave(func(fs *fat12.FileSystem) error {
		if err := fs.Delete(name); err != nil {
			return err
		}
		fmt.Fprintf(cmdmain.Stdout, "File deleted: %s\n", name)
		return nil
	})
}
