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

func TestSlotTableAllocateExhaustion(t *testing.T) {
	tbl := newSlotTable[int](2)

	a, ok := tbl.Allocate(10)
	if !ok || a != 0 {
		t.Fatalf("first Allocate = (%d, %v), want (0, true)", a, ok)
	}
	b, ok := tbl.Allocate(20)
	if !ok || b != 1 {
		t.Fatalf("second Allocate = (%d, %v), want (1, true)", b, ok)
	}
	if _, ok := tbl.Allocate(30); ok {
		t.Fatalf("Allocate on a full table should fail")
	}
}

func TestSlotTableReuseAfterRelease(t *testing.T) {
	tbl := newSlotTable[string](1)

	i, ok := tbl.Allocate("a")
	if !ok {
		t.Fatalf("Allocate failed on empty table")
	}
	if !tbl.Release(i) {
		t.Fatalf("Release of an INUSE slot should succeed")
	}
	if tbl.Release(i) {
		t.Fatalf("Release of an already-FREE slot should fail")
	}
	if _, ok := tbl.Allocate("b"); !ok {
		t.Fatalf("Allocate should reuse a freed slot")
	}
}

func TestSlotTableCleanupLifecycle(t *testing.T) {
	tbl := newSlotTable[int](1)
	i, _ := tbl.Allocate(42)

	if _, ok := tbl.Get(i); !ok {
		t.Fatalf("Get should find an INUSE slot")
	}
	if tbl.Occupied(i) {
		t.Fatalf("Occupied should be false for an INUSE (not yet cleaning-up) slot")
	}

	v, ok := tbl.BeginCleanup(i)
	if !ok || v != 42 {
		t.Fatalf("BeginCleanup = (%d, %v), want (42, true)", v, ok)
	}
	// A slot mid-cleanup is neither a valid target for reuse nor a
	// second close: both BeginCleanup and Get must reject it, and
	// Occupied must be the only way left to tell it apart from a slot
	// that was never allocated at all.
	if _, ok := tbl.BeginCleanup(i); ok {
		t.Fatalf("BeginCleanup should reject a slot already in CLEANUP")
	}
	if _, ok := tbl.Get(i); ok {
		t.Fatalf("Get should reject a slot in CLEANUP")
	}
	if !tbl.Occupied(i) {
		t.Fatalf("Occupied should be true for a slot mid-cleanup")
	}

	tbl.FinishCleanup(i, false)
	if tbl.Occupied(i) {
		t.Fatalf("Occupied should be false once cleanup reverted the slot to INUSE")
	}
	if _, ok := tbl.Get(i); !ok {
		t.Fatalf("a failed cleanup should revert the slot to INUSE")
	}

	tbl.BeginCleanup(i)
	tbl.FinishCleanup(i, true)
	if _, ok := tbl.Allocate(7); !ok {
		t.Fatalf("a successful cleanup should free the slot for reuse")
	}
}

func TestSlotTableOccupiedOnNeverAllocatedSlot(t *testing.T) {
	tbl := newSlotTable[int](2)
	if tbl.Occupied(0) {
		t.Fatalf("Occupied should be false for a FREE slot that was never allocated")
	}
	if tbl.Occupied(5) {
		t.Fatalf("Occupied should be false for an out-of-range index")
	}
}

func TestSlotTableInUseIndices(t *testing.T) {
	tbl := newSlotTable[int](4)
	a, _ := tbl.Allocate(1)
	b, _ := tbl.Allocate(2)
	tbl.Release(a)

	got := tbl.InUseIndices()
	if len(got) != 1 || got[0] != b {
		t.Fatalf("InUseIndices() = %v, want [%d]", got, b)
	}
}
