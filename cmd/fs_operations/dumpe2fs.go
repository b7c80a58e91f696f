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

type dumpCmd struct{}

func init() {
	cmdmain.RegisterMode("dumpe2fs", func(flags *flag.FlagSet) cmdmain.CommandRunner {
		return new(dumpCmd)
	})
}

func (c *dumpCmd) Describe() string {
	return "Dump the superblock and all directory metadata."
}

func (c *dumpCmd) Usage() {
	fmt.Fprintf(cmdmain.Stderr, "Usage: fs_operations <image> dumpe2fs\n")
}

func (c *dumpCmd) RunCommand(args []string) error {
	if len(args) != 0 {
		return cmdmain.ErrUsage
	}
	return run(func(fs *fat12.FileSystem) error {
		return fs.Dump(cmdmain.Stdout)
	})
}
