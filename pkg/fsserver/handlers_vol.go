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
	"fmt"

	"golang.org/x/sync/errgroup"
)

func handleMount(s *Server, slot int, cmd Command) (any, error) {
	if _, ok := cmd.Params.(CmdMountParams); !ok {
		return nil, fmt.Errorf("%w: MOUNT params", errInvalidBuffer)
	}
	if err := s.fs.Mount(slot); err != nil {
		return nil, err
	}
	s.stats.recordCommand(CmdMount)
	return nil, nil
}

// handleUnmount closes every still-open file and directory descriptor
// before tearing down the volume, fanning the closes out concurrently
// with errgroup since none of them touch shared FAT metadata that
// needs serializing beyond what fileHandle/dirHandle.Close already
// does on its own handle.
func handleUnmount(s *Server, slot int, cmd Command) (any, error) {
	if _, ok := cmd.Params.(CmdUnmountParams); !ok {
		return nil, fmt.Errorf("%w: UNMOUNT params", errInvalidBuffer)
	}

	var g errgroup.Group
	for _, idx := range s.files.InUseIndices() {
		idx := idx
		g.Go(func() error {
			h, ok := s.files.BeginCleanup(idx)
			if !ok {
				return nil
			}
			err := h.file.Close()
			s.files.FinishCleanup(idx, err == nil)
			return err
		})
	}
	for _, idx := range s.dirs.InUseIndices() {
		idx := idx
		g.Go(func() error {
			_, ok := s.dirs.BeginCleanup(idx)
			if !ok {
				return nil
			}
			s.dirs.FinishCleanup(idx, true)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logf("unmount: error closing descriptors during fan-out: %v", err)
	}

	if err := s.fs.Unmount(); err != nil {
		return nil, err
	}
	return nil, nil
}
