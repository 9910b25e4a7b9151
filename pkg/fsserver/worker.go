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

// handlerFunc is one entry of the command handler table (component C4):
// it receives the worker slot running it (so it can reach the bounce
// region and block on disk I/O through that slot) and the command, and
// returns a result value paired with the error that toStatus (errors.go)
// translates into the wire Status.
type handlerFunc func(s *Server, slot int, cmd Command) (any, error)

var handlerTable = [numCommandTypes]handlerFunc{
	CmdMount:        handleMount,
	CmdUnmount:      handleUnmount,
	CmdFileOpen:     handleFileOpen,
	CmdFileClose:    handleFileClose,
	CmdStat:         handleStat,
	CmdFileRead:     handleFileRead,
	CmdFileWrite:    handleFileWrite,
	CmdFileSize:     handleFileSize,
	CmdRename:       handleRename,
	CmdFileRemove:   handleFileRemove,
	CmdFileTruncate: handleFileTruncate,
	CmdDirCreate:    handleDirCreate,
	CmdDirRemove:    handleDirRemove,
	CmdDirOpen:      handleDirOpen,
	CmdDirClose:     handleDirClose,
	CmdFileSync:     handleFileSync,
	CmdDirRead:      handleDirRead,
	CmdDirSeek:      handleDirSeek,
	CmdDirTell:      handleDirTell,
	CmdDirRewind:    handleDirRewind,
}

// runWorker is the body of one "coroutine": a goroutine bounded by
// Server.sem that runs exactly one command to completion (including
// however many rounds of block-on-disk-I/O that takes) and hands its
// result to the dispatcher over harvest. It never touches the protocol
// queues directly, preserving their single-producer/single-consumer
// contract.
//
// The slot (its mailbox and bounce-region partition) and the semaphore
// unit are both released the instant the handler returns: nothing more
// will arrive on the mailbox once the handler has stopped waiting for
// it, so the slot is safely reusable before its Completion has actually
// reached the client. Only delivering that Completion waits on the
// dispatcher.
//
// dispatchCommands guarantees cmd.Type < numCommandTypes before a
// worker is ever spawned, so handlerTable[cmd.Type] is always a valid,
// non-nil entry here.
func (s *Server) runWorker(slot int, cmd Command) {
	result, err := handlerTable[cmd.Type](s, slot, cmd)

	s.releaseSlot(slot)
	s.sem.Release(1)

	s.harvest <- workerResult{
		slot:       slot,
		completion: Completion{ID: cmd.ID, Status: toStatus(err), Result: result},
	}
	// Wake the dispatcher so it harvests this result (and dispatches any
	// command that was waiting for the slot just released).
	s.notify.Notify(ChannelBlock)
}
