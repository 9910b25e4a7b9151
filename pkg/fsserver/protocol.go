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

// CommandType identifies the operation a Command carries. Values and
// ordering follow the wire enum in the external interface description,
// not the (differently ordered) component table.
type CommandType uint8

const (
	CmdMount CommandType = iota
	CmdUnmount
	CmdFileOpen
	CmdFileClose
	CmdStat
	CmdFileRead
	CmdFileWrite
	CmdFileSize
	CmdRename
	CmdFileRemove
	CmdFileTruncate
	CmdDirCreate
	CmdDirRemove
	CmdDirOpen
	CmdDirClose
	CmdFileSync
	CmdDirRead
	CmdDirSeek
	CmdDirTell
	CmdDirRewind

	numCommandTypes
)

func (c CommandType) String() string {
	switch c {
	case CmdMount:
		return "MOUNT"
	case CmdUnmount:
		return "UNMOUNT"
	case CmdFileOpen:
		return "FILE_OPEN"
	case CmdFileClose:
		return "FILE_CLOSE"
	case CmdStat:
		return "STAT"
	case CmdFileRead:
		return "FILE_READ"
	case CmdFileWrite:
		return "FILE_WRITE"
	case CmdFileSize:
		return "FILE_SIZE"
	case CmdRename:
		return "RENAME"
	case CmdFileRemove:
		return "FILE_REMOVE"
	case CmdFileTruncate:
		return "FILE_TRUNCATE"
	case CmdDirCreate:
		return "DIR_CREATE"
	case CmdDirRemove:
		return "DIR_REMOVE"
	case CmdDirOpen:
		return "DIR_OPEN"
	case CmdDirClose:
		return "DIR_CLOSE"
	case CmdFileSync:
		return "FILE_SYNC"
	case CmdDirRead:
		return "DIR_READ"
	case CmdDirSeek:
		return "DIR_SEEK"
	case CmdDirTell:
		return "DIR_TELL"
	case CmdDirRewind:
		return "DIR_REWIND"
	default:
		return fmt.Sprintf("CommandType(%d)", uint8(c))
	}
}

// Status is the wire result code a Completion carries back to the
// client. Values and ordering match the external interface's status
// enumeration exactly (completion.status), so a numeric status crossing
// the wire needs no translation table on either side.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusError
	StatusInvalidBuffer
	StatusInvalidPath
	StatusInvalidFD
	StatusAllocationError
	StatusOutstandingOperations
	StatusInvalidName
	StatusTooManyOpenFiles
	StatusServerDenied
	StatusInvalidWrite
	StatusInvalidRead
	StatusDirectoryFull
	StatusInvalidCommand
	StatusEndOfDirectory
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusError:
		return "ERROR"
	case StatusInvalidBuffer:
		return "INVALID_BUFFER"
	case StatusInvalidPath:
		return "INVALID_PATH"
	case StatusInvalidFD:
		return "INVALID_FD"
	case StatusAllocationError:
		return "ALLOCATION_ERROR"
	case StatusOutstandingOperations:
		return "OUTSTANDING_OPERATIONS"
	case StatusInvalidName:
		return "INVALID_NAME"
	case StatusTooManyOpenFiles:
		return "TOO_MANY_OPEN_FILES"
	case StatusServerDenied:
		return "SERVER_DENIED"
	case StatusInvalidWrite:
		return "INVALID_WRITE"
	case StatusInvalidRead:
		return "INVALID_READ"
	case StatusDirectoryFull:
		return "DIRECTORY_FULL"
	case StatusInvalidCommand:
		return "INVALID_COMMAND"
	case StatusEndOfDirectory:
		return "END_OF_DIRECTORY"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// OpenFlag carries the FILE_OPEN mode bits. The low two bits select an
// access mode; OpenCreate is an independent bit.
type OpenFlag uint32

const (
	OpenReadOnly  OpenFlag = 0
	OpenWriteOnly OpenFlag = 1
	OpenReadWrite OpenFlag = 2
	modeMask      OpenFlag = 0x3
	OpenCreate    OpenFlag = 1 << 2
)

// Mode returns the access-mode component of the flag, discarding OpenCreate.
func (f OpenFlag) Mode() OpenFlag { return f & modeMask }

// BufferRef names a byte range within the shared data region that a
// command reads from or a completion writes into.
type BufferRef struct {
	Offset uint64
	Size   uint64
}

// Command is one request slot's worth of client input: a client-chosen
// correlation id, the operation, and its typed parameters. Params is one
// of the Cmd*Params types below; handlers type-assert it after dispatch.
//
// The wire form this mirrors is a fixed 64-byte record (8-byte id, 8-byte
// type, 48 bytes of params); we keep that budget as a documented
// contract (MaxParamsSize) but represent Params as a concrete Go type
// in-process rather than packed bytes, since there is no cross-language
// client in this repo to marshal for.
type Command struct {
	ID     uint64
	Type   CommandType
	Params any
}

// MaxParamsSize is the wire budget every Cmd*Params type must fit inside.
const MaxParamsSize = 48

type CmdMountParams struct{}

type CmdUnmountParams struct{}

type CmdFileOpenParams struct {
	Path  BufferRef
	Flags OpenFlag
}

type CmdFileCloseParams struct {
	FD int
}

type CmdStatParams struct {
	Path BufferRef
	Out  BufferRef
}

type CmdFileReadParams struct {
	FD     int
	Offset uint64
	Buf    BufferRef
}

type CmdFileWriteParams struct {
	FD     int
	Offset uint64
	Buf    BufferRef
}

type CmdFileSizeParams struct {
	FD int
}

type CmdRenameParams struct {
	OldPath BufferRef
	NewPath BufferRef
}

type CmdFileRemoveParams struct {
	Path BufferRef
}

type CmdFileTruncateParams struct {
	FD     int
	Length uint64
}

type CmdDirCreateParams struct {
	Path BufferRef
}

type CmdDirRemoveParams struct {
	Path BufferRef
}

type CmdDirOpenParams struct {
	Path BufferRef
}

type CmdDirCloseParams struct {
	FD int
}

type CmdFileSyncParams struct {
	FD int
}

type CmdDirReadParams struct {
	FD  int
	Buf BufferRef
}

type CmdDirSeekParams struct {
	FD  int
	Loc uint64
}

type CmdDirTellParams struct {
	FD int
}

type CmdDirRewindParams struct {
	FD int
}

// Completion is the worker's reply: the echoed id, a status, and a
// result payload specific to the command type (nil for commands that
// carry no result beyond status, e.g. FILE_CLOSE).
type Completion struct {
	ID     uint64
	Status Status
	Result any
}

type ResultFileOpen struct{ FD int }
type ResultFileReadWrite struct{ Count uint64 }
type ResultFileSize struct{ Size uint64 }
type ResultDirOpen struct{ FD int }

// ResultDirRead carries the length of the entry name DIR_READ copied
// into the client's buffer. End of directory is not a field here: it is
// the distinct StatusEndOfDirectory completion status, with no result
// payload (matching fs_cmpl_data_dir_read_t, which has no EOF flag of
// its own).
type ResultDirRead struct {
	NameLen uint64
}
type ResultDirTell struct{ Location uint64 }

// Stat mirrors fs_stat_t's 17-field record that the STAT command writes
// into the client's data region. Fields the FAT back-end has no concept
// of (Dev, Ino, Nlink, UID, GID, Rdev, Blocks, Used, and the nsec
// fractional fields) are always zero, as the external interface allows.
type Stat struct {
	Dev       uint64
	Ino       uint64
	Mode      uint64
	Nlink     uint64
	UID       uint64
	GID       uint64
	Rdev      uint64
	Size      uint64
	Blksize   uint64
	Blocks    uint64
	ATime     uint64
	MTime     uint64
	CTime     uint64
	ATimeNsec uint64
	MTimeNsec uint64
	CTimeNsec uint64
	Used      uint64
}
