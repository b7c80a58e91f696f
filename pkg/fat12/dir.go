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
	"strings"

	"github.com/pkg/errors"
)

// Sep is the path separator within stored names. The root directory
// is spelled Sep or the empty string.
const Sep = `\`

// List writes the names under path to w, one per line. At the root it
// lists entries whose name has no separator; elsewhere it lists every
// entry under the path prefix, with the prefix and separator stripped.
func (fs *FileSystem) List(w io.Writer, path string) error {
	fmt.Fprintf(w, "Listing directory: %s\n", path)
	if path == "" || path == Sep {
		for i := range fs.Entries {
			e := &fs.Entries[i]
			if !e.free() && !strings.Contains(e.Name, Sep) {
				fmt.Fprintln(w, e.Name)
			}
		}
		return nil
	}
	prefix := path + Sep
	for i := range fs.Entries {
		e := &fs.Entries[i]
		if !e.free() && strings.HasPrefix(e.Name, prefix) {
			fmt.Fprintln(w, e.Name[len(prefix):])
		}
	}
	return nil
}

// Mkdir creates the directory named by path, creating missing
// intermediate directories along the way. Prefixes that already exist
// are left alone; created reports whether any slot was populated.
func (fs *FileSystem) Mkdir(path string) (created bool, err error) {
	if err := validName(path); err != nil {
		return false, err
	}
	full := ""
	for _, tok := range strings.Split(path, Sep) {
		if tok == "" {
			continue
		}
		if full != "" {
			full += Sep
		}
		full += tok
		if fs.findEntry(full) >= 0 {
			continue
		}
		if j := strings.LastIndex(full, Sep); j >= 0 {
			if parent := full[:j]; fs.findEntry(parent) < 0 {
				return created, errors.Wrapf(ErrParentMissing, "%q", parent)
			}
		}
		slot := fs.freeSlot()
		if slot < 0 {
			return created, ErrNoEntries
		}
		now := fs.now()
		fs.Entries[slot] = DirEntry{
			Name:  full,
			Perm:  0755,
			Ctime: now,
			Mtime: now,
		}
		created = true
	}
	return created, nil
}

// Rmdir removes the exact-match directory entry. It does not recurse
// and does not check that the directory is empty: entries beneath the
// removed name keep their slots.
func (fs *FileSystem) Rmdir(name string) error {
	i := fs.findEntry(name)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	fs.Entries[i] = DirEntry{}
	return nil
}
