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

// Package fsserver implements the core of an asynchronous file-system
// server mediating between one client and one block-backed storage
// provider: a dispatcher goroutine and a pool of worker goroutines that
// translate a shared-memory file-system protocol into calls against a
// FAT-backed volume, whose own block I/O is redirected through the
// dispatcher to a block-device transport.
package fsserver

import "time"

// Fixed-table sizes. One volume is assumed (see spec Non-goals); there is
// no volume slotTable: FileSystem's own mounted/unmounted state stands in
// for it, while files and directories each get a slotTable.
const (
	MaxVolumes   = 1
	MaxOpenFiles = 256
	MaxOpenDirs  = 64

	// WorkerCount bounds the number of requests the dispatcher will have
	// in flight at once; it sizes both the request-slot array and the
	// bounce-region partitioning.
	WorkerCount = 16

	// QueueCapacity is the SPSC ring capacity for both protocol queues.
	// The spec requires capacity >= 511.
	QueueCapacity = 512

	// FSMaxPathLength bounds a path copied out of the shared data region
	// into a worker-local string.
	FSMaxPathLength = 255

	// MaxClusterSize is the largest FAT cluster size in bytes a bounce
	// region must be able to hold for a single transfer.
	MaxClusterSize = 32 * 1024

	// BlkRegionSize is the total size of the shared bounce area; each of
	// the WorkerCount workers owns a MaxClusterSize-sized partition of it.
	BlkRegionSize = WorkerCount * MaxClusterSize

	// MaxSectorSize is the largest sector size the adapter will accept
	// from the transport.
	MaxSectorSize = 4096
)

// serverStart is used as a fallback modification/creation time for
// synthetic nodes (matches pkg/fs/debug.go's serverStart use for stat
// nodes that have no real backing timestamp).
var serverStart = time.Now()
