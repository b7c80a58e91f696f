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
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

// On-disk layout: superblock, FAT, directory, data region, in that
// order. All integers little-endian, times signed 64-bit seconds.
const (
	superblockSize = 12
	nameFieldLen   = MaxFilename + 1 // NUL-terminated
	dirEntrySize   = nameFieldLen + 4 + 4 + 8 + 8 + 4 + 4 + PasswordLen
)

func imageSize(sb SuperBlock) int {
	total := int(sb.TotalBlocks)
	return superblockSize + (total+1)*2 + total*dirEntrySize + total*int(sb.BlockSize)
}

// Create writes a fresh image with the given block size to path.
func Create(path string, blockSize uint32) error {
	fs, err := New(blockSize)
	if err != nil {
		return err
	}
	return fs.Save(path)
}

// Load reads and decodes the whole image at path.
func Load(path string) (*FileSystem, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading image %s", path)
	}
	return decodeImage(buf)
}

// Save encodes the whole image and rewrites path. The bytes go to a
// temporary file first so a failed save never truncates the image.
func (fs *FileSystem) Save(path string) error {
	buf := fs.encodeImage()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0644); err != nil {
		return errors.Wrapf(err, "saving image %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "saving image %s", path)
	}
	return nil
}

func (fs *FileSystem) encodeImage() []byte {
	le := binary.LittleEndian
	buf := make([]byte, imageSize(fs.Super))

	le.PutUint32(buf[0:], fs.Super.BlockSize)
	le.PutUint32(buf[4:], fs.Super.TotalBlocks)
	le.PutUint32(buf[8:], fs.Super.FreeBlocks)

	off := superblockSize
	for i, v := range fs.FAT {
		le.PutUint16(buf[off+2*i:], v)
	}
	off += 2 * len(fs.FAT)

	for i := range fs.Entries {
		fs.Entries[i].encode(buf[off:])
		off += dirEntrySize
	}

	copy(buf[off:], fs.Data)
	return buf
}

func decodeImage(buf []byte) (*FileSystem, error) {
	le := binary.LittleEndian
	if len(buf) < superblockSize {
		return nil, errors.New("fat12: image truncated")
	}
	sb := SuperBlock{
		BlockSize:   le.Uint32(buf[0:]),
		TotalBlocks: le.Uint32(buf[4:]),
		FreeBlocks:  le.Uint32(buf[8:]),
	}
	if sb.BlockSize != BlockSize512 && sb.BlockSize != BlockSize1024 {
		return nil, errors.Errorf("fat12: bad block size %d in superblock", sb.BlockSize)
	}
	if sb.TotalBlocks != uint32(DataRegionSize)/sb.BlockSize {
		return nil, errors.Errorf("fat12: bad block count %d in superblock", sb.TotalBlocks)
	}
	if len(buf) != imageSize(sb) {
		return nil, errors.Errorf("fat12: image is %d bytes, want %d", len(buf), imageSize(sb))
	}

	total := int(sb.TotalBlocks)
	fs := &FileSystem{
		Super:   sb,
		FAT:     make([]uint16, total+1),
		Entries: make([]DirEntry, total),
		Data:    make([]byte, total*int(sb.BlockSize)),
	}

	off := superblockSize
	for i := range fs.FAT {
		fs.FAT[i] = le.Uint16(buf[off+2*i:])
	}
	off += 2 * len(fs.FAT)

	for i := range fs.Entries {
		fs.Entries[i] = decodeDirEntry(buf[off:])
		off += dirEntrySize
	}

	copy(fs.Data, buf[off:])
	return fs, nil
}

func (e *DirEntry) encode(b []byte) {
	le := binary.LittleEndian
	for i := 0; i < nameFieldLen; i++ {
		b[i] = 0
	}
	copy(b[:MaxFilename], e.Name)
	le.PutUint32(b[nameFieldLen:], e.Size)
	le.PutUint32(b[nameFieldLen+4:], e.Perm)
	le.PutUint64(b[nameFieldLen+8:], uint64(e.Ctime))
	le.PutUint64(b[nameFieldLen+16:], uint64(e.Mtime))
	le.PutUint32(b[nameFieldLen+24:], e.FirstBlock)
	var prot uint32
	if e.Protected {
		prot = 1
	}
	le.PutUint32(b[nameFieldLen+28:], prot)
	copy(b[nameFieldLen+32:nameFieldLen+32+PasswordLen], e.Password[:])
}

func decodeDirEntry(b []byte) DirEntry {
	le := binary.LittleEndian
	var e DirEntry
	name := b[:nameFieldLen]
	for i, c := range name {
		if c == 0 {
			name = name[:i]
			break
		}
	}
	e.Name = string(name)
	e.Size = le.Uint32(b[nameFieldLen:])
	e.Perm = le.Uint32(b[nameFieldLen+4:])
	e.Ctime = int64(le.Uint64(b[nameFieldLen+8:]))
	e.Mtime = int64(le.Uint64(b[nameFieldLen+16:]))
	e.FirstBlock = le.Uint32(b[nameFieldLen+24:])
	e.Protected = le.Uint32(b[nameFieldLen+28:]) != 0
	copy(e.Password[:], b[nameFieldLen+32:nameFieldLen+32+PasswordLen])
	return e
}
