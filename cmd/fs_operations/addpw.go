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

type addpwCmd struct{}

func init() {
	cmdmain.RegisterMode("addpw", func(flags *flag.FlagSet) cmdmain.CommandRunner {
		return new(addpwCmd)
	})
}

func (c *addpwCmd) Describe() string {
	return "Password-protect an entry."
}

func (c *addpwCmd) Usage() {
	fmt.Fprintf(cmdmain.Stderr, "Usage: fs_operations <image> addpw <name> [password]\n")
	fmt.Fprintf(cmdmain.Stderr, "With no password argument, the password is read from the terminal.\n")
}

func (c *addpwCmd) RunCommand(args []string) error {
	var password string
	switch len(args) {
	case 1:
		pw, ok := promptPassword()
		if !ok {
			return cmdmain.UsageError("missing password")
		}
		password = pw
	case 2:
		password = args[1]
	default:
		return cmdmain.ErrUsage
	}
	name := args[0]
	return runSave(func(fs *fat12.FileSystem) error {
		if err := fs.AddPassword(name, password); err != nil {
			return err
		}
		fmt.Fprintf(cmdmain.Stdout, "Password added to file: %s\n", name)
		return nil
	})
}
