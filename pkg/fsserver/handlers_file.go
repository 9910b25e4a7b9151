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

import "fmt"

func paramsOf[T any](cmd Command) (T, error) {
	var zero T
	p, ok := cmd.Params.(T)
	if !ok {
		return zero, fmt.Errorf("%w: wrong params type for %s", errInvalidBuffer, cmd.Type)
	}
	return p, nil
}

func handleFileOpen(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdFileOpenParams](cmd)
	if err != nil {
		return nil, err
	}
	path, err := s.readPath(p.Path)
	if err != nil {
		return nil, err
	}

	file, err := s.fs.OpenFile(slot, path, p.Flags)
	if err != nil {
		return nil, err
	}
	if p.Flags&OpenCreate != 0 {
		s.cacheInvalidate(path)
	}

	fd, ok := s.files.Allocate(&fileHandle{path: path, flags: p.Flags, file: file})
	if !ok {
		file.Close()
		return nil, errTooManyOpenFile
	}
	s.stats.recordCommand(CmdFileOpen)
	return ResultFileOpen{FD: fd}, nil
}

func handleFileClose(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdFileCloseParams](cmd)
	if err != nil {
		return nil, err
	}
	h, ok := s.files.BeginCleanup(p.FD)
	if !ok {
		if s.files.Occupied(p.FD) {
			return nil, errOutstandingOperation
		}
		return nil, errBadDescriptor
	}
	err = h.file.Close()
	s.files.FinishCleanup(p.FD, err == nil)
	return nil, err
}

func handleFileRead(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdFileReadParams](cmd)
	if err != nil {
		return nil, err
	}
	h, ok := s.files.Get(p.FD)
	if !ok {
		return nil, errBadDescriptor
	}
	if h.flags.Mode() == OpenWriteOnly {
		return nil, fmt.Errorf("%w: fd %d opened write-only", errInvalidBuffer, p.FD)
	}
	dst, err := s.bounds(p.Buf)
	if err != nil {
		return nil, err
	}

	n, err := h.ReadAt(dst, p.Offset)
	if err != nil && n == 0 {
		return nil, err
	}
	s.stats.recordCommand(CmdFileRead)
	return ResultFileReadWrite{Count: uint64(n)}, nil
}

func handleFileWrite(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdFileWriteParams](cmd)
	if err != nil {
		return nil, err
	}
	h, ok := s.files.Get(p.FD)
	if !ok {
		return nil, errBadDescriptor
	}
	if h.flags.Mode() == OpenReadOnly {
		return nil, fmt.Errorf("%w: fd %d opened read-only", errInvalidBuffer, p.FD)
	}
	src, err := s.readBuf(p.Buf)
	if err != nil {
		return nil, err
	}

	n, err := h.WriteAt(src, p.Offset)
	if err != nil {
		return nil, err
	}
	s.cacheInvalidate(h.path)
	s.stats.recordCommand(CmdFileWrite)
	return ResultFileReadWrite{Count: uint64(n)}, nil
}

func handleFileSize(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdFileSizeParams](cmd)
	if err != nil {
		return nil, err
	}
	h, ok := s.files.Get(p.FD)
	if !ok {
		return nil, errBadDescriptor
	}
	size, err := h.Size()
	if err != nil {
		return nil, err
	}
	return ResultFileSize{Size: size}, nil
}

func handleFileTruncate(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdFileTruncateParams](cmd)
	if err != nil {
		return nil, err
	}
	h, ok := s.files.Get(p.FD)
	if !ok {
		return nil, errBadDescriptor
	}
	if err := h.Truncate(p.Length); err != nil {
		return nil, err
	}
	s.cacheInvalidate(h.path)
	return nil, nil
}

func handleFileSync(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdFileSyncParams](cmd)
	if err != nil {
		return nil, err
	}
	h, ok := s.files.Get(p.FD)
	if !ok {
		return nil, errBadDescriptor
	}
	return nil, h.Sync()
}

func handleFileRemove(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdFileRemoveParams](cmd)
	if err != nil {
		return nil, err
	}
	path, err := s.readPath(p.Path)
	if err != nil {
		return nil, err
	}
	if fi, statErr := s.fs.Stat(path); statErr == nil && fi.IsDir() {
		return nil, errIsDirectory
	}
	if err := s.fs.Remove(path); err != nil {
		return nil, err
	}
	s.cacheInvalidate(path)
	return nil, nil
}

func handleRename(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdRenameParams](cmd)
	if err != nil {
		return nil, err
	}
	oldPath, err := s.readPath(p.OldPath)
	if err != nil {
		return nil, err
	}
	newPath, err := s.readPath(p.NewPath)
	if err != nil {
		return nil, err
	}
	if err := s.fs.Rename(oldPath, newPath); err != nil {
		return nil, err
	}
	s.cacheInvalidate(oldPath)
	s.cacheInvalidate(newPath)
	return nil, nil
}

func handleStat(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdStatParams](cmd)
	if err != nil {
		return nil, err
	}
	path, err := s.readPath(p.Path)
	if err != nil {
		return nil, err
	}

	st, hit := s.cacheLookup(path)
	if !hit {
		fi, err := s.fs.Stat(path)
		if err != nil {
			return nil, err
		}
		st = statFromFileInfo(fi, s.sectorSize())
		s.cacheStore(path, st)
	}

	if err := s.writeBuf(p.Out, encodeStat(st)); err != nil {
		return nil, err
	}
	return nil, nil
}

// sectorSize reports the volume's sector size, the unit STAT's blksize
// field names (distinct from TransferSize, the cluster/transfer-unit
// size the disk I/O adapter batches requests in).
func (s *Server) sectorSize() uint32 {
	if s.cfg.Transport == nil {
		return 0
	}
	return s.cfg.Transport.SectorSize()
}
