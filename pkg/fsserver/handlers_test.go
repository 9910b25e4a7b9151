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
	"errors"
	"testing"
)

// newTestServer builds a Server with no mounted volume, for handler
// tests that only exercise descriptor-table bookkeeping and client
// buffer validation, never the FAT engine itself.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, _ := NewMemoryServer(Config{WorkerCount: 2, QueueCapacity: 4, DataRegion: make([]byte, 4096)}, 64*1024, 512, 512)
	return srv
}

func TestHandleFileReadBadDescriptor(t *testing.T) {
	srv := newTestServer(t)
	_, err := handleFileRead(srv, 0, Command{Type: CmdFileRead, Params: CmdFileReadParams{FD: 7}})
	if !errors.Is(err, errBadDescriptor) {
		t.Fatalf("err = %v, want errBadDescriptor", err)
	}
}

func TestHandleFileReadRejectsWriteOnlyHandle(t *testing.T) {
	srv := newTestServer(t)
	fd, ok := srv.files.Allocate(&fileHandle{path: "/a", flags: OpenWriteOnly})
	if !ok {
		t.Fatalf("Allocate failed")
	}
	_, err := handleFileRead(srv, 0, Command{Type: CmdFileRead, Params: CmdFileReadParams{
		FD: fd, Buf: BufferRef{Offset: 0, Size: 16},
	}})
	if !errors.Is(err, errInvalidBuffer) {
		t.Fatalf("err = %v, want errInvalidBuffer (write-only handle)", err)
	}
}

func TestHandleFileWriteRejectsReadOnlyHandle(t *testing.T) {
	srv := newTestServer(t)
	fd, ok := srv.files.Allocate(&fileHandle{path: "/a", flags: OpenReadOnly})
	if !ok {
		t.Fatalf("Allocate failed")
	}
	_, err := handleFileWrite(srv, 0, Command{Type: CmdFileWrite, Params: CmdFileWriteParams{
		FD: fd, Buf: BufferRef{Offset: 0, Size: 16},
	}})
	if !errors.Is(err, errInvalidBuffer) {
		t.Fatalf("err = %v, want errInvalidBuffer (read-only handle)", err)
	}
}

func TestHandleFileSizeBadDescriptor(t *testing.T) {
	srv := newTestServer(t)
	_, err := handleFileSize(srv, 0, Command{Type: CmdFileSize, Params: CmdFileSizeParams{FD: 3}})
	if !errors.Is(err, errBadDescriptor) {
		t.Fatalf("err = %v, want errBadDescriptor", err)
	}
}

func TestHandleFileCloseBadDescriptor(t *testing.T) {
	srv := newTestServer(t)
	_, err := handleFileClose(srv, 0, Command{Type: CmdFileClose, Params: CmdFileCloseParams{FD: 99}})
	if !errors.Is(err, errBadDescriptor) {
		t.Fatalf("err = %v, want errBadDescriptor", err)
	}
}

func TestHandleFileOpenRejectsOversizedPath(t *testing.T) {
	srv := newTestServer(t)
	_, err := handleFileOpen(srv, 0, Command{Type: CmdFileOpen, Params: CmdFileOpenParams{
		Path: BufferRef{Offset: 0, Size: FSMaxPathLength + 1},
	}})
	if !errors.Is(err, errInvalidPath) {
		t.Fatalf("err = %v, want errInvalidPath (path too long)", err)
	}
}

func TestHandleFileOpenRejectsEmptyPath(t *testing.T) {
	srv := newTestServer(t)
	_, err := handleFileOpen(srv, 0, Command{Type: CmdFileOpen, Params: CmdFileOpenParams{
		Path: BufferRef{Offset: 0, Size: 0},
	}})
	if !errors.Is(err, errInvalidPath) {
		t.Fatalf("err = %v, want errInvalidPath (empty path)", err)
	}
}

func TestHandleFileOpenRejectsOutOfBoundsBuffer(t *testing.T) {
	srv := newTestServer(t)
	_, err := handleFileOpen(srv, 0, Command{Type: CmdFileOpen, Params: CmdFileOpenParams{
		Path: BufferRef{Offset: uint64(len(srv.cfg.DataRegion)), Size: 8},
	}})
	if !errors.Is(err, errInvalidBuffer) {
		t.Fatalf("err = %v, want errInvalidBuffer (offset past end of region)", err)
	}
}

func TestHandleDirSeekTellRewindRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	fd, ok := srv.dirs.Allocate(&dirHandle{path: "/sub"})
	if !ok {
		t.Fatalf("Allocate failed")
	}

	if _, err := handleDirSeek(srv, 0, Command{Type: CmdDirSeek, Params: CmdDirSeekParams{FD: fd, Loc: 5}}); err != nil {
		t.Fatalf("handleDirSeek: %v", err)
	}
	res, err := handleDirTell(srv, 0, Command{Type: CmdDirTell, Params: CmdDirTellParams{FD: fd}})
	if err != nil {
		t.Fatalf("handleDirTell: %v", err)
	}
	if got := res.(ResultDirTell).Location; got != 5 {
		t.Fatalf("Location = %d, want 5", got)
	}

	if _, err := handleDirRewind(srv, 0, Command{Type: CmdDirRewind, Params: CmdDirRewindParams{FD: fd}}); err != nil {
		t.Fatalf("handleDirRewind: %v", err)
	}
	res, _ = handleDirTell(srv, 0, Command{Type: CmdDirTell, Params: CmdDirTellParams{FD: fd}})
	if got := res.(ResultDirTell).Location; got != 0 {
		t.Fatalf("Location after rewind = %d, want 0", got)
	}
}

func TestHandleDirSeekBadDescriptor(t *testing.T) {
	srv := newTestServer(t)
	_, err := handleDirSeek(srv, 0, Command{Type: CmdDirSeek, Params: CmdDirSeekParams{FD: 12, Loc: 1}})
	if !errors.Is(err, errBadDescriptor) {
		t.Fatalf("err = %v, want errBadDescriptor", err)
	}
}

func TestHandleDirCloseReleasesSlotForReuse(t *testing.T) {
	srv := newTestServer(t)
	fd, _ := srv.dirs.Allocate(&dirHandle{path: "/x"})

	if _, err := handleDirClose(srv, 0, Command{Type: CmdDirClose, Params: CmdDirCloseParams{FD: fd}}); err != nil {
		t.Fatalf("handleDirClose: %v", err)
	}
	if _, err := handleDirClose(srv, 0, Command{Type: CmdDirClose, Params: CmdDirCloseParams{FD: fd}}); !errors.Is(err, errBadDescriptor) {
		t.Fatalf("closing an already-closed fd should fail with errBadDescriptor, got %v", err)
	}
	if _, ok := srv.dirs.Allocate(&dirHandle{path: "/y"}); !ok {
		t.Fatalf("slot should be reusable after Close")
	}
}

func TestParamsOfWrongTypeReturnsInvalidBuffer(t *testing.T) {
	srv := newTestServer(t)
	// CmdFileRead's params supplied as the wrong struct type entirely.
	_, err := handleFileRead(srv, 0, Command{Type: CmdFileRead, Params: CmdFileWriteParams{FD: 1}})
	if !errors.Is(err, errInvalidBuffer) {
		t.Fatalf("err = %v, want errInvalidBuffer (wrong params type)", err)
	}
}

func TestStatBufferRefOutOfBounds(t *testing.T) {
	srv := newTestServer(t)
	// Pre-seed the cache under the exact path bytes the zeroed data
	// region will yield, so handleStat never needs to reach the
	// (unmounted) FAT volume — isolating the out-of-bounds output buffer
	// as the only possible source of the error.
	srv.cacheStore(string(srv.cfg.DataRegion[0:2]), Stat{Size: 123})

	_, err := handleStat(srv, 0, Command{Type: CmdStat, Params: CmdStatParams{
		Path: BufferRef{Offset: 0, Size: 2},
		Out:  BufferRef{Offset: uint64(len(srv.cfg.DataRegion)) + 1, Size: StatWireSize},
	}})
	if !errors.Is(err, errInvalidBuffer) {
		t.Fatalf("err = %v, want errInvalidBuffer (out-of-bounds output buffer)", err)
	}
}
