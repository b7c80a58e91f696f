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

package fat12

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// Dump writes the superblock fields and the metadata of every
// populated directory slot to w, dumpe2fs style.
func (fs *FileSystem) Dump(w io.Writer) error {
	fmt.Fprintf(w, "Block size: %d\n", fs.Super.BlockSize)
	fmt.Fprintf(w, "Total blocks: %d\n", fs.Super.TotalBlocks)
	fmt.Fprintf(w, "Free blocks: %d (%s free)\n", fs.Super.FreeBlocks,
		humanize.IBytes(uint64(fs.Super.FreeBlocks)*uint64(fs.Super.BlockSize)))

	nameCol := len("NAME")
	for i := range fs.Entries {
		if e := &fs.Entries[i]; !e.free() {
			if n := runewidth.StringWidth(e.Name); n > nameCol {
				nameCol = n
			}
		}
	}

	fmt.Fprintf(w, "%s TYPE SIZE       PERM CTIME       MTIME       FIRST PW\n",
		runewidth.FillRight("NAME", nameCol))
	for i := range fs.Entries {
		e := &fs.Entries[i]
		if e.free() {
			continue
		}
		kind := "file"
		if e.IsDir() {
			kind = "dir"
		}
		pw := "-"
		if e.Protected {
			pw = "yes"
		}
		fmt.Fprintf(w, "%s %-4s %-10s %04o %-11d %-11d %-5d %s\n",
			runewidth.FillRight(e.Name, nameCol), kind, humanize.IBytes(uint64(e.Size)),
			e.Perm, e.Ctime, e.Mtime, e.FirstBlock, pw)
	}
	return nil
}
