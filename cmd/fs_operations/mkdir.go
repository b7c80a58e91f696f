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

type mkdirCmd struct{}

func init() {
	cmdmain.RegisterMode("mkdir", func(flags *flag.FlagSet) cmdmain.CommandRunner {
		return new(mkdirCmd)
	})
}

func (c *mkdirCmd) Describe() string {
	return "Create a directory, including missing parents."
}

func (c *mkdirCmd) Usage() {
	fmt.Fprintf(cmdmain.Stderr, "Usage: fs_operations <image> mkdir <path>\n")
}

func (c *mkdirCmd) RunCommand(args []string) error {
	if len(args) != 1 {
		return cmdmain.ErrUsage
	}
	path := args[0]
	return runSave(func(fs *fat12.FileSystem) error {
		created, err := fs.Mkdir(path)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmdmain.Stdout, "Directory created: %s\n", path)
		} else {
			fmt.Fprintf(cmdmain.Stdout, "Directory already exists: %s\n", path)
		}
		return nil
	})
}
