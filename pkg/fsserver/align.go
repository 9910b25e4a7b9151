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

// transferGeometry describes the block transport's fixed transfer unit:
// sectorSize is what the FAT layer addresses in, transferSize is what
// the transport actually moves per unit (transferSize is a multiple of
// sectorSize; transferSize == sectorSize is the common case).
type transferGeometry struct {
	sectorSize   uint32
	transferSize uint32
}

// sectorsPerTransfer is "spt" in the alignment arithmetic below.
func (g transferGeometry) sectorsPerTransfer() uint64 {
	return uint64(g.transferSize / g.sectorSize)
}

// alignedRequest is the transport-unit request a FAT-level byte range
// maps to: the first transfer unit touched, how many transfer units it
// spans, and the misaligned byte margins at each end that a
// read-modify-write must trim before copying into the caller's buffer.
type alignedRequest struct {
	unit         uint64 // first transfer unit index
	count        uint64 // number of transfer units spanned
	headMisalign uint64 // bytes to skip at the start of the first unit
	tailMisalign uint64 // bytes to drop at the end of the last unit
}

// alignRequest computes the transport-unit request covering the byte
// range [sector*sectorSize+offsetInSector, ...+length) under the given
// geometry. offsetInSector must be < sectorSize.
//
// sddf_sector = sector - (sector mod spt)              -- first unit, in sectors
// sddf_count  = ceil((sector+sectors spanned) / spt) - sddf_sector/spt
// head_misalign = (sector - sddf_sector) * sectorSize + offsetInSector
// tail_misalign = sddf_count*transferSize - head_misalign - length
//
// In the common transferSize == sectorSize case (spt == 1) this
// degrades to head_misalign == offsetInSector, tail_misalign == the
// remainder of the last sector, with no unit spanning more than it
// needs to.
func alignRequest(g transferGeometry, sector uint64, offsetInSector uint64, length uint64) alignedRequest {
	spt := g.sectorsPerTransfer()
	if spt == 0 {
		spt = 1
	}

	sectorsSpanned := (offsetInSector + length + uint64(g.sectorSize) - 1) / uint64(g.sectorSize)
	if sectorsSpanned == 0 {
		sectorsSpanned = 1
	}
	lastSector := sector + sectorsSpanned - 1

	firstUnit := sector / spt
	lastUnit := lastSector / spt
	count := lastUnit - firstUnit + 1

	headMisalign := (sector-firstUnit*spt)*uint64(g.sectorSize) + offsetInSector
	totalBytes := count * uint64(g.transferSize)
	tailMisalign := totalBytes - headMisalign - length

	return alignedRequest{
		unit:         firstUnit,
		count:        count,
		headMisalign: headMisalign,
		tailMisalign: tailMisalign,
	}
}
