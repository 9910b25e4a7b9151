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

// bounds validates that ref names a range fully inside the shared data
// region, returning that sub-slice. Every handler that touches
// client-supplied offsets goes through this rather than slicing
// DataRegion directly, since a BufferRef is untrusted client input.
func (s *Server) bounds(ref BufferRef) ([]byte, error) {
	region := s.cfg.DataRegion
	if ref.Offset > uint64(len(region)) || ref.Size > uint64(len(region))-ref.Offset {
		return nil, fmt.Errorf("%w: buffer ref {offset:%d size:%d} outside %d-byte data region", errInvalidBuffer, ref.Offset, ref.Size, len(region))
	}
	return region[ref.Offset : ref.Offset+ref.Size], nil
}

// readPath copies a client-supplied path out of the shared data region.
// It is copied (not aliased) so that later client writes into the same
// region can't change the path out from under a handler still using it.
func (s *Server) readPath(ref BufferRef) (string, error) {
	if ref.Size == 0 {
		return "", fmt.Errorf("%w: empty path", errInvalidPath)
	}
	if ref.Size > FSMaxPathLength {
		return "", fmt.Errorf("%w: path length %d exceeds %d", errInvalidPath, ref.Size, FSMaxPathLength)
	}
	b, err := s.bounds(ref)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readBuf returns the (aliased) bytes of a client-supplied source
// buffer, e.g. FILE_WRITE's payload.
func (s *Server) readBuf(ref BufferRef) ([]byte, error) {
	return s.bounds(ref)
}

// writeBuf copies data into a client-supplied destination buffer, e.g.
// DIR_READ's or STAT's output range. Returns an error if data doesn't
// fit. FILE_READ does not go through here: it reads straight into the
// range bounds returns.
func (s *Server) writeBuf(ref BufferRef, data []byte) error {
	dst, err := s.bounds(ref)
	if err != nil {
		return err
	}
	if uint64(len(data)) > ref.Size {
		return fmt.Errorf("%w: result of %d bytes exceeds buffer of %d bytes", errInvalidBuffer, len(data), ref.Size)
	}
	copy(dst, data)
	return nil
}
