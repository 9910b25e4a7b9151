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

import "testing"

func TestAlignRequestUnitSectorEqualsTransfer(t *testing.T) {
	// transferSize == sectorSize: every sector is its own transfer unit,
	// so head/tail misalignment is just the in-sector offset and the
	// leftover at the end of the last sector touched.
	geo := transferGeometry{sectorSize: 512, transferSize: 512}

	got := alignRequest(geo, 10, 100, 50)
	want := alignedRequest{unit: 10, count: 1, headMisalign: 100, tailMisalign: 512 - 100 - 50}
	if got != want {
		t.Fatalf("alignRequest() = %+v, want %+v", got, want)
	}
}

func TestAlignRequestSpansSectorBoundary(t *testing.T) {
	geo := transferGeometry{sectorSize: 512, transferSize: 512}

	// offset 400, length 200 overruns the first sector by 88 bytes.
	got := alignRequest(geo, 0, 400, 200)
	if got.unit != 0 || got.count != 2 {
		t.Fatalf("alignRequest() = %+v, want unit 0 spanning 2 units", got)
	}
	if got.headMisalign != 400 {
		t.Fatalf("headMisalign = %d, want 400", got.headMisalign)
	}
	wantTail := 2*512 - 400 - 200
	if got.tailMisalign != uint64(wantTail) {
		t.Fatalf("tailMisalign = %d, want %d", got.tailMisalign, wantTail)
	}
}

func TestAlignRequestMultiSectorTransferUnit(t *testing.T) {
	// 4 sectors per transfer unit: a request for sector 5 (not aligned
	// to the 4-sector transfer boundary) must fall back to the transfer
	// unit starting at sector 4.
	geo := transferGeometry{sectorSize: 512, transferSize: 2048}

	got := alignRequest(geo, 5, 0, 512)
	if got.unit != 1 {
		t.Fatalf("unit = %d, want 1 (sector 5 falls in the second transfer unit)", got.unit)
	}
	if got.count != 1 {
		t.Fatalf("count = %d, want 1", got.count)
	}
	wantHead := uint64(512) // sector 5 is one sector into unit 1 (sectors 4-7)
	if got.headMisalign != wantHead {
		t.Fatalf("headMisalign = %d, want %d", got.headMisalign, wantHead)
	}
	wantTail := uint64(2048) - wantHead - 512
	if got.tailMisalign != wantTail {
		t.Fatalf("tailMisalign = %d, want %d", got.tailMisalign, wantTail)
	}
}

func TestAlignRequestExactlyFillsUnit(t *testing.T) {
	geo := transferGeometry{sectorSize: 512, transferSize: 512}

	got := alignRequest(geo, 3, 0, 512)
	if got.headMisalign != 0 || got.tailMisalign != 0 {
		t.Fatalf("exact single-sector request should have zero misalignment, got %+v", got)
	}
	if got.unit != 3 || got.count != 1 {
		t.Fatalf("unexpected unit/count: %+v", got)
	}
}

func TestAlignRequestSpansMultipleFullUnits(t *testing.T) {
	geo := transferGeometry{sectorSize: 512, transferSize: 1024} // 2 sectors/unit

	// Sectors 2..7 (6 sectors = 3072 bytes), aligned at sector 2 (unit 1).
	got := alignRequest(geo, 2, 0, 6*512)
	if got.unit != 1 {
		t.Fatalf("unit = %d, want 1", got.unit)
	}
	if got.count != 3 {
		t.Fatalf("count = %d, want 3", got.count)
	}
	if got.headMisalign != 0 || got.tailMisalign != 0 {
		t.Fatalf("aligned multi-unit span should have zero misalignment, got %+v", got)
	}
}
