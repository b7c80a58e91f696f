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

	"github.com/pkg/errors"
)

type readCmd struct{}

func init() {
	cmdmain.RegisterMode("read", func(flags *flag.FlagSet) cmdmain.CommandRunner {
		return new(readCmd)
	})
}

func (c *readCmd) Describe() string {
	return "Copy a file out of the image to a host path."
}

func (c *readCmd) Usage() {
	fmt.Fprintf(cmdmain.Stderr, "Usage: fs_operations <image> read <name> <destination path> [password]\n")
}

func (c *readCmd) RunCommand(args []string) error {
	var password string
	havePassword := false
	switch len(args) {
	case 2:
	case 3:
		password = args[2]
		havePassword = true
	default:
		return cmdmain.ErrUsage
	}
	name, destination := args[0], args[1]
	return run(func(fs *fat12.FileSystem) error {
		err := fs.ReadFile(name, destination, password)
		if errors.Is(err, fat12.ErrBadPassword) && !havePassword {
			if pw, ok := promptPassword(); ok {
				err = fs.ReadFile(name, destination, pw)
			}
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmdmain.Stdout, "File read successfully: %s\n", name)
		return nil
	})
}
