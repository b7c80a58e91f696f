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
	"io"

	"github.com/pkg/errors"
	"go4.org/wkfs"
)

// WriteFile copies the host file at sourcePath into the image under
// name. The data goes into a fresh block chain; a non-empty password
// marks the entry protected, with the password stored verbatim,
// truncated or zero-padded to PasswordLen bytes. On any failure the
// partially written chain is released.
func (fs *FileSystem) WriteFile(name, sourcePath, password string) error {
	if err := validName(name); err != nil {
		return err
	}
	src, err := wkfs.Open(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "opening source %s", sourcePath)
	}
	defer src.Close()
	fi, err := wkfs.Stat(sourcePath)
	if err != nil {
		return errors.Wrapf(err, "opening source %s", sourcePath)
	}
	size := uint32(fi.Size())

	first, ok := fs.allocBlock()
	if !ok {
		return errors.Wrapf(ErrNoSpace, "writing %q", name)
	}
	slot := fs.freeSlot()
	if slot < 0 {
		fs.freeChain(first)
		return errors.Wrapf(ErrNoEntries, "writing %q", name)
	}

	bs := fs.Super.BlockSize
	remaining := size
	cur := first
	for remaining > 0 {
		n := remaining
		if n > bs {
			n = bs
		}
		if _, err := io.ReadFull(src, fs.block(cur)[:n]); err != nil {
			fs.freeChain(first)
			return errors.Wrapf(err, "reading source %s", sourcePath)
		}
		remaining -= n
		if remaining > 0 {
			next, ok := fs.allocBlock()
			if !ok {
				fs.freeChain(first)
				return errors.Wrapf(ErrNoSpace, "writing %q", name)
			}
			fs.FAT[cur] = uint16(next)
			cur = next
		}
	}

	now := fs.now()
	fs.Entries[slot] = DirEntry{
		Name:       name,
		Size:       size,
		Perm:       0644,
		Ctime:      now,
		Mtime:      now,
		FirstBlock: first,
		Protected:  password != "",
		Password:   packPassword(password),
	}
	return nil
}

// ReadFile copies the named file out of the image to the host path
// destination. A protected entry requires the matching password; the
// owner read bit must be set. Both checks happen before the
// destination is opened.
func (fs *FileSystem) ReadFile(name, destination, password string) error {
	i := fs.findEntry(name)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	e := &fs.Entries[i]
	if e.Protected && packPassword(password) != e.Password {
		return errors.Wrapf(ErrBadPassword, "reading %q", name)
	}
	if e.Perm&0400 == 0 {
		return errors.Wrapf(ErrPermission, "reading %q", name)
	}

	dst, err := wkfs.Create(destination)
	if err != nil {
		return errors.Wrapf(err, "opening destination %s", destination)
	}

	bs := fs.Super.BlockSize
	remaining := e.Size
	idx := e.FirstBlock
	for remaining > 0 {
		if idx < reservedBlocks || idx >= fs.Super.TotalBlocks {
			dst.Close()
			return errors.Errorf("fat12: corrupt chain in %q at block %d", name, idx)
		}
		n := remaining
		if n > bs {
			n = bs
		}
		if _, err := dst.Write(fs.block(idx)[:n]); err != nil {
			dst.Close()
			return errors.Wrapf(err, "writing destination %s", destination)
		}
		remaining -= n
		idx = uint32(fs.FAT[idx])
	}
	return errors.Wrapf(dst.Close(), "writing destination %s", destination)
}

// Delete removes the exact-match entry and releases its block chain.
func (fs *FileSystem) Delete(name string) error {
	i := fs.findEntry(name)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	e := &fs.Entries[i]
	if e.FirstBlock >= reservedBlocks {
		fs.freeChain(e.FirstBlock)
	}
	fs.Entries[i] = DirEntry{}
	return nil
}

// Chmod applies spec to the entry's owner read and write bits. spec
// is "+" or "-" followed by a non-empty subset of "rw".
func (fs *FileSystem) Chmod(name, spec string) error {
	if len(spec) < 2 || (spec[0] != '+' && spec[0] != '-') {
		return errors.Wrapf(ErrBadMode, "%q", spec)
	}
	var bits uint32
	for _, c := range spec[1:] {
		switch c {
		case 'r':
			bits |= 0400
		case 'w':
			bits |= 0200
		default:
			return errors.Wrapf(ErrBadMode, "%q", spec)
		}
	}
	i := fs.findEntry(name)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	if spec[0] == '+' {
		fs.Entries[i].Perm |= bits
	} else {
		fs.Entries[i].Perm &^= bits
	}
	return nil
}

// AddPassword marks the entry protected and stores the password.
func (fs *FileSystem) AddPassword(name, password string) error {
	i := fs.findEntry(name)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	fs.Entries[i].Protected = true
	fs.Entries[i].Password = packPassword(password)
	return nil
}
