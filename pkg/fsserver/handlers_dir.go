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

func handleDirCreate(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdDirCreateParams](cmd)
	if err != nil {
		return nil, err
	}
	path, err := s.readPath(p.Path)
	if err != nil {
		return nil, err
	}
	if err := s.fs.Mkdir(path); err != nil {
		return nil, err
	}
	s.cacheInvalidate(path)
	return nil, nil
}

func handleDirRemove(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdDirRemoveParams](cmd)
	if err != nil {
		return nil, err
	}
	path, err := s.readPath(p.Path)
	if err != nil {
		return nil, err
	}
	fi, err := s.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, errNotDirectory
	}
	entries, err := s.fs.readDir(path)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return nil, errNotEmpty
	}
	if err := s.fs.Remove(path); err != nil {
		return nil, err
	}
	s.cacheInvalidate(path)
	return nil, nil
}

func handleDirOpen(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdDirOpenParams](cmd)
	if err != nil {
		return nil, err
	}
	path, err := s.readPath(p.Path)
	if err != nil {
		return nil, err
	}
	fi, err := s.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, errNotDirectory
	}

	fd, ok := s.dirs.Allocate(&dirHandle{path: path})
	if !ok {
		return nil, errTooManyOpenDir
	}
	return ResultDirOpen{FD: fd}, nil
}

func handleDirClose(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdDirCloseParams](cmd)
	if err != nil {
		return nil, err
	}
	if !s.dirs.Release(p.FD) {
		return nil, errBadDescriptor
	}
	return nil, nil
}

func handleDirRead(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdDirReadParams](cmd)
	if err != nil {
		return nil, err
	}
	h, ok := s.dirs.Get(p.FD)
	if !ok {
		return nil, errBadDescriptor
	}

	name, ok, err := h.Next(s.fs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errEndOfDirectory
	}
	if uint64(len(name)) > p.Buf.Size {
		return nil, fmt.Errorf("%w: entry name of %d bytes exceeds buffer of %d bytes", errInvalidBuffer, len(name), p.Buf.Size)
	}
	if err := s.writeBuf(p.Buf, []byte(name)); err != nil {
		return nil, err
	}
	return ResultDirRead{NameLen: uint64(len(name))}, nil
}

func handleDirSeek(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdDirSeekParams](cmd)
	if err != nil {
		return nil, err
	}
	h, ok := s.dirs.Get(p.FD)
	if !ok {
		return nil, errBadDescriptor
	}
	h.Seek(p.Loc)
	return nil, nil
}

func handleDirTell(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdDirTellParams](cmd)
	if err != nil {
		return nil, err
	}
	h, ok := s.dirs.Get(p.FD)
	if !ok {
		return nil, errBadDescriptor
	}
	return ResultDirTell{Location: h.Tell()}, nil
}

func handleDirRewind(s *Server, slot int, cmd Command) (any, error) {
	p, err := paramsOf[CmdDirRewindParams](cmd)
	if err != nil {
		return nil, err
	}
	h, ok := s.dirs.Get(p.FD)
	if !ok {
		return nil, errBadDescriptor
	}
	h.Rewind()
	return nil, nil
}
