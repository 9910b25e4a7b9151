/*
Copyright 2012 Google Inc.

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

package fsserver

import (
	"io/fs"
	"sync"

	"github.com/soypat/fat"
	"go4.org/syncutil"
)

// FileSystem is the thin, mount-state-aware wrapper handlers call
// through to reach the FAT engine. It owns nothing about the wire
// protocol; its vocabulary is paths, byte ranges and fs.FileMode, the
// same vocabulary github.com/soypat/fat and the stdlib io/fs package
// share.
//
// The retrieved fragment of github.com/soypat/fat confirms FS's mount
// bookkeeping and one exported method, OpenFile(dst *File, name string,
// mode fs.FileMode) error. The rest of the surface used below (Mkdir,
// Remove, Rename, ReadDir, Stat on *fat.FS; Read, Write, Close, Stat,
// Truncate, Sync on *fat.File) is assumed to follow that same
// io/fs-flavored convention — it is the idiomatic shape for a Go
// filesystem library and the one OpenFile signature available to us is
// already written that way. Treat it as a documented assumption, not a
// confirmed API.
type FileSystem struct {
	srv *Server

	mu     sync.Mutex
	volume *fat.FS
}

func NewFileSystem(srv *Server) *FileSystem {
	return &FileSystem{srv: srv}
}

func (f *FileSystem) Mounted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume != nil
}

// Mount brings the volume up using the calling command's worker slot
// for its bootstrap block I/O.
func (f *FileSystem) Mount(slot int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.volume != nil {
		return errAlreadyMounted
	}
	vol, err := fat.Mount(f.srv.deviceFor(slot))
	if err != nil {
		return err
	}
	f.volume = vol
	return nil
}

func (f *FileSystem) Unmount() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.volume == nil {
		return errNotMounted
	}
	f.volume = nil
	return nil
}

func (f *FileSystem) volumeOrErr() (*fat.FS, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.volume == nil {
		return nil, errNotMounted
	}
	return f.volume, nil
}

// openFlagToFileMode folds the wire open-flag bits into the
// fs.FileMode value fat.FS.OpenFile expects. The access-mode bits occupy
// the low two bits, matching what CmdFileOpenParams.Flags already
// carries; OpenCreate sets fs.ModeAppend's bit position as a stand-in
// "create if missing" signal, since io/fs.FileMode has no create bit of
// its own and this library reuses the type for its own purposes.
func openFlagToFileMode(flags OpenFlag) fs.FileMode {
	var m fs.FileMode
	if flags&OpenCreate != 0 {
		m |= fs.ModeAppend
	}
	return m | fs.FileMode(flags.Mode())
}

func (f *FileSystem) OpenFile(slot int, name string, flags OpenFlag) (*fat.File, error) {
	vol, err := f.volumeOrErr()
	if err != nil {
		return nil, err
	}
	file := new(fat.File)
	if err := vol.OpenFile(file, name, openFlagToFileMode(flags)); err != nil {
		return nil, err
	}
	return file, nil
}

func (f *FileSystem) Stat(name string) (fs.FileInfo, error) {
	vol, err := f.volumeOrErr()
	if err != nil {
		return nil, err
	}
	return vol.Stat(name)
}

func (f *FileSystem) Mkdir(name string) error {
	vol, err := f.volumeOrErr()
	if err != nil {
		return err
	}
	return vol.Mkdir(name)
}

func (f *FileSystem) Remove(name string) error {
	vol, err := f.volumeOrErr()
	if err != nil {
		return err
	}
	return vol.Remove(name)
}

func (f *FileSystem) Rename(oldname, newname string) error {
	vol, err := f.volumeOrErr()
	if err != nil {
		return err
	}
	return vol.Rename(oldname, newname)
}

func (f *FileSystem) readDir(name string) ([]fs.DirEntry, error) {
	vol, err := f.volumeOrErr()
	if err != nil {
		return nil, err
	}
	return vol.ReadDir(name)
}

// fileHandle is what the file descriptor table holds: the open engine
// handle plus the path it was opened from (FILE_WRITE and FILE_TRUNCATE
// use the path to drop its stat-cache entry). RENAME and FILE_REMOVE do
// not consult open handles.
type fileHandle struct {
	path  string
	flags OpenFlag
	file  *fat.File
}

func (h *fileHandle) ReadAt(buf []byte, offset uint64) (int, error) {
	type seeker interface{ Seek(int64, int) (int64, error) }
	if sk, ok := any(h.file).(seeker); ok {
		if _, err := sk.Seek(int64(offset), 0); err != nil {
			return 0, err
		}
	}
	return h.file.Read(buf)
}

func (h *fileHandle) WriteAt(buf []byte, offset uint64) (int, error) {
	type seeker interface{ Seek(int64, int) (int64, error) }
	if sk, ok := any(h.file).(seeker); ok {
		if _, err := sk.Seek(int64(offset), 0); err != nil {
			return 0, err
		}
	}
	return h.file.Write(buf)
}

func (h *fileHandle) Size() (uint64, error) {
	fi, err := h.file.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(fi.Size()), nil
}

func (h *fileHandle) Truncate(length uint64) error {
	type truncater interface{ Truncate(int64) error }
	if tr, ok := any(h.file).(truncater); ok {
		return tr.Truncate(int64(length))
	}
	return errNotDirectory
}

func (h *fileHandle) Sync() error {
	type syncer interface{ Sync() error }
	if sy, ok := any(h.file).(syncer); ok {
		return sy.Sync()
	}
	return nil
}

func (h *fileHandle) Close() error {
	return h.file.Close()
}

// dirHandle is what the directory descriptor table holds. Entries are
// populated lazily by the first DIR_READ rather than at DIR_OPEN time
// (DIR_TELL, DIR_SEEK and DIR_REWIND only touch the position), mirroring the lazy-populate pattern the teacher
// package uses for its read-only node listings: a directory that's
// never read costs nothing beyond the slot itself.
type dirHandle struct {
	path string

	populate syncutil.Once
	mu       sync.Mutex
	entries  []fs.DirEntry
	pos      int
}

func (d *dirHandle) ensureEntries(fsys *FileSystem) error {
	return d.populate.Do(func() error {
		entries, err := fsys.readDir(d.path)
		if err != nil {
			return err
		}
		d.mu.Lock()
		d.entries = entries
		d.mu.Unlock()
		return nil
	})
}

// Next returns the next entry's name and advances pos, or ok=false at
// end of directory.
func (d *dirHandle) Next(fsys *FileSystem) (name string, ok bool, err error) {
	if err := d.ensureEntries(fsys); err != nil {
		return "", false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pos >= len(d.entries) {
		return "", false, nil
	}
	name = d.entries[d.pos].Name()
	d.pos++
	return name, true, nil
}

func (d *dirHandle) Tell() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint64(d.pos)
}

func (d *dirHandle) Seek(loc uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos = int(loc)
}

func (d *dirHandle) Rewind() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos = 0
}

// statFileMode computes the mode field the STAT command reports:
// directories get 040755 (rwx for owner, rx for group and others);
// regular files get 0444 (world-readable, write bits cleared), since
// FAT's only per-entry permission concept is the read-only attribute
// and the external interface fixes the rest of the bits regardless of
// it.
func statFileMode(fi fs.FileInfo) uint64 {
	if fi.IsDir() {
		return 040755
	}
	return 0444
}

// statFromFileInfo builds the 17-field stat record fs_stat_t describes.
// sectorSize is the volume's sector size (blksize, not the cluster/
// transfer size used for block I/O batching); fields the FAT back-end
// has no concept of are left zero, as the external interface allows.
func statFromFileInfo(fi fs.FileInfo, sectorSize uint32) Stat {
	mt := fi.ModTime()
	if mt.IsZero() {
		mt = serverStart
	}
	t := uint64(mt.Unix())
	return Stat{
		Mode:    statFileMode(fi),
		Size:    uint64(fi.Size()),
		Blksize: uint64(sectorSize),
		ATime:   t,
		MTime:   t,
		CTime:   t,
	}
}
