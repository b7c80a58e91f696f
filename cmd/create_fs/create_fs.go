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

// The create_fs command creates a fresh filesystem image.
//
// Usage:
//
//	create_fs <block size (0.5 or 1)> <image path>
//
// The block size is in KB; 0.5 selects 512-byte blocks and 1 selects
// 1024-byte blocks. The image holds a 4 MiB data region plus its
// superblock, allocation table and directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"minos.org/pkg/fat12"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <block size (0.5 or 1)> <image path>\n",
		filepath.Base(os.Args[0]))
	os.Exit(1)
}

func main() {
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
	}

	var blockSize uint32
	switch flag.Arg(0) {
	case "0.5":
		blockSize = fat12.BlockSize512
	case "1":
		blockSize = fat12.BlockSize1024
	default:
		fmt.Fprintln(os.Stderr, "Supported block sizes are 0.5 KB and 1 KB")
		os.Exit(1)
	}

	path := flag.Arg(1)
	if err := fat12.Create(path, blockSize); err != nil {
		log.Fatalf("create_fs: %v", err)
	}
	fmt.Printf("File system created: %s with block size %d bytes\n", path, blockSize)
}
