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
	"runtime"
)

// diskIODevice is the per-command adapter between the FAT engine's
// sector-addressed ReadBlocks/WriteBlocks/EraseSectors calls and the
// asynchronous, transfer-unit-addressed BlockTransport. One value is
// constructed per in-flight command (cheap: three fields), closing over
// that command's worker slot so the blocking wait for a disk response
// only ever parks the one goroutine handling that command, never the
// dispatcher and never another worker's FAT call.
//
// This is the component the spec calls the disk I/O adapter: it owns
// the sector <-> transfer-unit alignment math (align.go) and the
// read-modify-write needed whenever a FAT-requested range doesn't start
// and end on a transfer-unit boundary.
type diskIODevice struct {
	srv       *Server
	transport BlockTransport
	slot      int
}

func (s *Server) deviceFor(slot int) *diskIODevice {
	return &diskIODevice{srv: s, transport: s.cfg.Transport, slot: slot}
}

// ReadBlocks fills dst (a whole number of sectors) starting at sector
// startBlock. It satisfies the same three-method shape the retrieved
// github.com/soypat/fat fragment requires of a BlockDevice.
func (d *diskIODevice) ReadBlocks(dst []byte, startBlock int64) error {
	return d.transfer(BlockRead, dst, uint64(startBlock))
}

// WriteBlocks writes data (a whole number of sectors) starting at
// sector startBlock.
func (d *diskIODevice) WriteBlocks(data []byte, startBlock int64) error {
	return d.transfer(BlockWrite, data, uint64(startBlock))
}

// EraseSectors hints that numBlocks sectors from startBlock are no
// longer live. The memory transport treats this as a no-op; a real
// flash-backed transport would use it to avoid an unnecessary
// read-modify-write on the next write to the same span.
func (d *diskIODevice) EraseSectors(startBlock, numBlocks int64) error {
	geo := d.geometry()
	aligned := alignRequest(geo, uint64(startBlock), 0, uint64(numBlocks)*uint64(geo.sectorSize))
	return d.doTransfer(BlockErase, geo, aligned, nil)
}

func (d *diskIODevice) geometry() transferGeometry {
	return transferGeometry{sectorSize: d.transport.SectorSize(), transferSize: d.transport.TransferSize()}
}

func (d *diskIODevice) transfer(op BlockOp, buf []byte, startSector uint64) error {
	geo := d.geometry()
	length := uint64(len(buf))
	if length == 0 {
		return nil
	}
	aligned := alignRequest(geo, startSector, 0, length)

	region := d.srv.workerBounce(d.slot)
	span := aligned.count * uint64(geo.transferSize)
	if span > uint64(len(region)) {
		return fmt.Errorf("fsserver: request of %d bytes exceeds worker bounce partition of %d bytes", span, len(region))
	}
	region = region[:span]

	if op == BlockWrite {
		if aligned.headMisalign != 0 || aligned.tailMisalign != 0 {
			// Partial-sector write: the unwritten margins of the first
			// and last transfer units must be preserved, so read the
			// whole aligned span before splicing buf into the middle.
			if err := d.doTransfer(BlockRead, geo, aligned, region); err != nil {
				return err
			}
		}
		copy(region[aligned.headMisalign:aligned.headMisalign+length], buf)
		return d.doTransfer(BlockWrite, geo, aligned, region)
	}

	if err := d.doTransfer(BlockRead, geo, aligned, region); err != nil {
		return err
	}
	copy(buf, region[aligned.headMisalign:aligned.headMisalign+length])
	return nil
}

// doTransfer pushes one BlockRequest for the aligned span and blocks
// this goroutine (only this goroutine) until the dispatcher wakes its
// slot with the transport's response.
func (d *diskIODevice) doTransfer(op BlockOp, geo transferGeometry, aligned alignedRequest, region []byte) error {
	req := BlockRequest{
		Op:         op,
		Unit:       aligned.unit,
		Count:      uint32(aligned.count),
		DataOffset: d.srv.boundOffset(d.slot),
		ID:         uint64(d.slot),
	}

	d.srv.stats.recordBlockOp(op)
	for !d.transport.PushRequest(req) {
		// Transport request queue is momentarily full; yield this
		// goroutine's turn and retry, mirroring the protocol queues'
		// own non-blocking-push-then-retry backpressure.
		runtime.Gosched()
	}
	d.srv.notify.Notify(ChannelBlock)

	status := d.srv.blockOn(d.slot)
	if status != StatusSuccess {
		return fmt.Errorf("fsserver: block transport reported %s for %s at unit %d", status, opName(op), aligned.unit)
	}
	return nil
}

func opName(op BlockOp) string {
	switch op {
	case BlockRead:
		return "read"
	case BlockWrite:
		return "write"
	case BlockFlush:
		return "flush"
	case BlockErase:
		return "erase"
	default:
		return "unknown"
	}
}
