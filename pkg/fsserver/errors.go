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
	"io/fs"
)

// Sentinel errors for conditions the FAT engine itself never raises but
// the server's own bookkeeping (mount state, descriptor tables) does.
// Handlers translate these, and anything fs.ErrNotExist/ErrExist/
// ErrInvalid-flavored that bubbles up from the FAT engine, into a wire
// Status at the one seam (toStatus) that knows about both worlds; every
// Go-facing method below this seam keeps returning plain errors.
var (
	errNotMounted           = errors.New("fsserver: volume not mounted")
	errAlreadyMounted       = errors.New("fsserver: volume already mounted")
	errBadDescriptor        = errors.New("fsserver: bad descriptor")
	errOutstandingOperation = errors.New("fsserver: descriptor has an outstanding close")
	errTooManyOpenFile      = errors.New("fsserver: too many open files")
	errTooManyOpenDir       = errors.New("fsserver: too many open directories")
	errNotEmpty             = errors.New("fsserver: directory not empty")
	errIsDirectory          = errors.New("fsserver: is a directory")
	errNotDirectory         = errors.New("fsserver: not a directory")
	errInvalidBuffer        = errors.New("fsserver: invalid buffer reference")
	errInvalidPath          = errors.New("fsserver: invalid path")
	errEndOfDirectory       = errors.New("fsserver: end of directory")
)

// toStatus maps an error from either the server's own bookkeeping or
// the underlying FAT engine to the wire Status a Completion carries.
// nil maps to StatusSuccess. Every case here is grounded in a status
// the external interface actually defines; errors with no matching
// wire concept (directory-not-empty, file-already-exists — this
// protocol has no ENOTEMPTY or EEXIST code) fall through to the
// generic StatusError rather than borrowing an unrelated code.
func toStatus(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, errEndOfDirectory):
		return StatusEndOfDirectory
	case errors.Is(err, errOutstandingOperation):
		return StatusOutstandingOperations
	case errors.Is(err, errBadDescriptor):
		return StatusInvalidFD
	case errors.Is(err, errTooManyOpenFile), errors.Is(err, errTooManyOpenDir):
		return StatusTooManyOpenFiles
	case errors.Is(err, errInvalidBuffer):
		return StatusInvalidBuffer
	case errors.Is(err, errInvalidPath):
		return StatusInvalidPath
	case errors.Is(err, errNotMounted), errors.Is(err, errAlreadyMounted):
		return StatusServerDenied
	case errors.Is(err, errIsDirectory), errors.Is(err, errNotDirectory):
		return StatusInvalidPath
	case errors.Is(err, errNotEmpty):
		return StatusError
	case errors.Is(err, fs.ErrNotExist):
		return StatusInvalidPath
	case errors.Is(err, fs.ErrExist):
		return StatusError
	case errors.Is(err, fs.ErrInvalid):
		return StatusInvalidName
	case errors.Is(err, fs.ErrPermission):
		return StatusServerDenied
	default:
		return StatusError
	}
}
