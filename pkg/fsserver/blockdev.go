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

// BlockOp names the operation a BlockRequest asks the transport to run.
type BlockOp int

const (
	BlockRead BlockOp = iota
	BlockWrite
	BlockFlush
	BlockErase
)

// BlockRequest is the disk I/O adapter's unit of work against the
// opaque block-device transport: move Count transport units starting at
// Unit, to or from the bounce-region bytes at DataOffset. ID is the
// requesting worker slot's index, echoed back on the BlockResponse so
// the dispatcher knows which slot to wake.
type BlockRequest struct {
	Op         BlockOp
	Unit       uint64
	Count      uint32
	DataOffset uint64
	ID         uint64
}

// BlockResponse is the transport's reply to a BlockRequest.
type BlockResponse struct {
	ID           uint64
	Status       Status
	SuccessCount uint32
}

// BlockTransport is the disk I/O adapter's view of the storage
// provider: an asynchronous, possibly reordering request/response
// channel plus the fixed geometry the adapter must align requests to.
// A real deployment backs this with a shared-memory device queue and a
// separate driver process; tests back it with MemTransport.
type BlockTransport interface {
	// ReadyChan returns a channel that closes once the provider has
	// completed handshake and will accept requests. Run blocks on it
	// before entering the dispatch loop, so geometry (SectorSize,
	// TransferSize) is never consulted before it's valid.
	ReadyChan() <-chan struct{}

	SectorSize() uint32
	TransferSize() uint32

	// PushRequest enqueues req. It returns false if the transport's
	// request queue is full; the caller must retry later rather than
	// block, mirroring the protocol queues' non-blocking push.
	PushRequest(req BlockRequest) bool

	// PopResponse dequeues the oldest available response, if any.
	PopResponse() (BlockResponse, bool)
}
