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

type dirCmd struct{}

func init() {
	cmdmain.RegisterMode("dir", func(flags *flag.FlagSet) cmdmain.CommandRunner {
		return new(dirCmd)
	})
}

func (c *dirCmd) Describe() string {
	return "List a directory of the image."
}

func (c *dirCmd) Usage() {
	fmt.Fprintf(cmdmain.Stderr, "Usage: fs_operations <image> dir [path]\n")
}

func (c *dirCmd) Examples() []string {
	return []string{`\`, `a\b`}
}

func (c *dirCmd) RunCommand(args []string) error {
	path := fat12.Sep
	switch len(args) {
	case 0:
	case 1:
		path = args[0]
	default:
		return cmdmain.ErrUsage
	}
	return run(func(fs *fat12.FileSystem) error {
		return fs.List(cmdmain.Stdout, path)
	})
}
