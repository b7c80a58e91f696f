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

// The fs_operations command manipulates a filesystem image created by
// create_fs.
//
// Usage:
//
//	fs_operations <image path> <mode> [args...]
//
// Modes: dir, mkdir, rmdir, write, read, del, chmod, addpw, dumpe2fs.
package main

import (
	"fmt"
	"log"
	"os"

	"minos.org/pkg/cmdmain"
	"minos.org/pkg/fat12"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

func init() {
	// So we can simply use log.Printf and log.Fatalf.
	log.SetOutput(cmdmain.Stderr)
	// Every mode acts on the image named ahead of the mode.
	cmdmain.ContextArg = "image path"
}

func main() {
	cmdmain.Main()
}

func loadImage() (*fat12.FileSystem, error) {
	return fat12.Load(cmdmain.Context())
}

// run loads the image and applies op. Expected per-operation failures
// (not found, bad password, ...) are reported on stdout and do not
// fail the process; anything else aborts.
func run(op func(*fat12.FileSystem) error) error {
	fs, err := loadImage()
	if err != nil {
		return err
	}
	return report(op(fs))
}

// runSave is run for mutating modes: the image is rewritten afterwards.
func runSave(op func(*fat12.FileSystem) error) error {
	fs, err := loadImage()
	if err != nil {
		return err
	}
	if err := report(op(fs)); err != nil {
		return err
	}
	return fs.Save(cmdmain.Context())
}

func report(err error) error {
	if err == nil || !fat12.IsUserError(err) {
		return err
	}
	fmt.Fprintln(cmdmain.Stdout, err)
	return nil
}

// promptPassword reads a password from the controlling terminal, if
// there is one.
func promptPassword() (string, bool) {
	f, ok := cmdmain.Stdin.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return "", false
	}
	fmt.Fprint(cmdmain.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(cmdmain.Stderr)
	if err != nil {
		return "", false
	}
	return string(pw), true
}
