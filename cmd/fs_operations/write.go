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

type writeCmd struct{}

func init() {
	cmdmain.RegisterMode("write", func(flags *flag.FlagSet) cmdmain.CommandRunner {
		return new(writeCmd)
	})
}

func (c *writeCmd) Describe() string {
	return "Copy a host file into the image, optionally password-protected."
}

func (c *writeCmd) Usage() {
	fmt.Fprintf(cmdmain.Stderr, "Usage: fs_operations <image> write <name> <source path> [password]\n")
}

func (c *writeCmd) Examples() []string {
	return []string{`notes /tmp/notes.txt`, `secret /tmp/secret.txt password123`}
}

func (c *writeCmd) RunCommand(args []string) error {
	var password string
	switch len(args) {
	case 2:
	case 3:
		password = args[2]
	default:
		return cmdmain.ErrUsage
	}
	name, source := args[0], args[1]
	return runSave(func(fs *fat12.FileSystem) error {
		if err := fs.WriteFile(name, source, password); err != nil {
			return err
		}
		fmt.Fprintf(cmdmain.Stdout, "File written: %s\n", name)
		return nil
	})
}
