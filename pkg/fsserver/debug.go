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

import "sync/atomic"

// atomicInt64 is a renamed copy of the counter the teacher package uses
// for its TrackStats-gated FUSE operation counters: a thin wrapper so
// call sites read as plain increments/loads instead of bare
// sync/atomic calls.
type atomicInt64 struct {
	n atomic.Int64
}

func (v *atomicInt64) Incr() { v.n.Add(1) }
func (v *atomicInt64) Get() int64 { return v.n.Load() }

// Stats holds counters for a few command types plus block I/O and
// stat-cache counters. It is always allocated, but the increments are
// only live when Config.TrackStats is set (checked once per command
// rather than per counter, so the untracked path costs one branch).
type Stats struct {
	enabled atomic.Bool

	mounts      atomicInt64
	fileOpens   atomicInt64
	fileReads   atomicInt64
	fileWrites  atomicInt64
	dirReads    atomicInt64
	blockReads  atomicInt64
	blockWrites atomicInt64
	cacheHits   atomicInt64
	cacheMisses atomicInt64
}

func newStats() *Stats { return &Stats{} }

func (s *Stats) SetEnabled(v bool) { s.enabled.Store(v) }
func (s *Stats) Enabled() bool     { return s.enabled.Load() }

func (s *Stats) recordCommand(t CommandType) {
	if !s.Enabled() {
		return
	}
	switch t {
	case CmdMount:
		s.mounts.Incr()
	case CmdFileOpen:
		s.fileOpens.Incr()
	case CmdFileRead:
		s.fileReads.Incr()
	case CmdFileWrite:
		s.fileWrites.Incr()
	case CmdDirRead:
		s.dirReads.Incr()
	}
}

func (s *Stats) recordBlockOp(op BlockOp) {
	if !s.Enabled() {
		return
	}
	switch op {
	case BlockRead:
		s.blockReads.Incr()
	case BlockWrite:
		s.blockWrites.Incr()
	}
}

func (s *Stats) recordCacheHit(hit bool) {
	if !s.Enabled() {
		return
	}
	if hit {
		s.cacheHits.Incr()
	} else {
		s.cacheMisses.Incr()
	}
}

// Snapshot is a point-in-time copy of every counter, for a diagnostics
// endpoint or test assertion to read without racing further updates.
type Snapshot struct {
	Mounts, FileOpens, FileReads, FileWrites, DirReads int64
	BlockReads, BlockWrites                             int64
	CacheHits, CacheMisses                               int64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Mounts:      s.mounts.Get(),
		FileOpens:   s.fileOpens.Get(),
		FileReads:   s.fileReads.Get(),
		FileWrites:  s.fileWrites.Get(),
		DirReads:    s.dirReads.Get(),
		BlockReads:  s.blockReads.Get(),
		BlockWrites: s.blockWrites.Get(),
		CacheHits:   s.cacheHits.Get(),
		CacheMisses: s.cacheMisses.Get(),
	}
}
