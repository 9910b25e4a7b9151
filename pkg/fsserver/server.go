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
	"log"
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/semaphore"
)

// Config carries the tunables the original expressed as compile-time
// constants in fatfs_config.h; here they're Server construction
// parameters so a test can run a small server (few workers, a tiny
// queue) without touching the production defaults.
type Config struct {
	WorkerCount   int
	QueueCapacity int
	MaxOpenFiles  int
	MaxOpenDirs   int
	DataRegion    []byte // shared region FILE_OPEN/STAT/etc. paths and buffers live in
	Transport     BlockTransport

	// TrackStats gates the atomic operation counters Stats exposes.
	// Off by default; set from the FATFS_TRACK_STATS environment
	// variable by cmd/fatfs-server.
	TrackStats bool

	Logger *log.Logger
}

func (c *Config) setDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = WorkerCount
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = QueueCapacity
	}
	if c.MaxOpenFiles <= 0 {
		c.MaxOpenFiles = MaxOpenFiles
	}
	if c.MaxOpenDirs <= 0 {
		c.MaxOpenDirs = MaxOpenDirs
	}
	if c.Logger == nil {
		c.Logger = log.New(os.Stderr, "fatfs-server: ", log.LstdFlags)
	}
}

// requestSlot is one worker's request record. In the original this also
// held the command, its result and the coroutine's saved stack; here a
// worker is a goroutine carrying that state on its own Go stack, so the
// slot only needs the one piece of cross-goroutine state a goroutine
// can't carry for itself: the mailbox the dispatcher wakes it through
// after a disk request completes. It stands in for the original's
// set_arg/get_arg/block/wake quartet.
type requestSlot struct {
	mailbox chan uint64
}

func newRequestSlot() *requestSlot {
	return &requestSlot{mailbox: make(chan uint64, 1)}
}

// Server owns every piece of mutable state the dispatcher and its
// workers share: the protocol queues, the descriptor tables, the
// bounce region, the block transport, and the mounted volume. Grouping
// it into one value (rather than scattering package-level globals, as
// the original's single translation unit effectively did with static
// state) is what makes running more than one server instance in the
// same test binary possible.
type Server struct {
	cfg Config

	Commands    *CommandQueue
	Completions *CompletionQueue

	notify *notifier
	sem    *semaphore.Weighted

	bounce []byte // block I/O bounce region, partitioned one MaxClusterSize chunk per worker

	// files and dirs are real slotTables (several concurrent handles
	// possible). The Data Model's third descriptor table, the volume
	// table, collapses into FileSystem's own mount bool: MaxVolumes is
	// fixed at 1, so a full FREE/INUSE/CLEANUP slotTable would just
	// reimplement that same bool with extra steps.
	files *slotTable[*fileHandle]
	dirs  *slotTable[*dirHandle]

	slots []*requestSlot

	slotMu   sync.Mutex
	freeList []int

	// harvest is where a finished worker goroutine hands its Completion
	// to the dispatcher, which is the CompletionQueue's sole producer.
	// Capacity WorkerCount: every worker can be mid-send at once without
	// blocking on the dispatcher.
	harvest chan workerResult
	pending []workerResult // completions waiting for CompletionQueue room

	statCache *lru.Cache[string, Stat]

	stats *Stats

	fs *FileSystem
}

type workerResult struct {
	slot       int
	completion Completion
}

// NewServer builds a Server ready to Run. SectorSize/TransferSize may
// be queried immediately, but Run itself waits on the transport's
// ReadyChan before dispatching any command, so a transport whose
// handshake completes asynchronously is safe to pass in before that
// handshake finishes; a MEMORY device's ReadyChan is pre-closed so this
// is never a concern for NewMemoryServer.
func NewServer(cfg Config) *Server {
	cfg.setDefaults()

	s := &Server{
		cfg:         cfg,
		Commands:    NewCommandQueue(cfg.QueueCapacity),
		Completions: NewCompletionQueue(cfg.QueueCapacity),
		notify:      newNotifier(),
		sem:         semaphore.NewWeighted(int64(cfg.WorkerCount)),
		bounce:      make([]byte, cfg.WorkerCount*MaxClusterSize),
		files:       newSlotTable[*fileHandle](cfg.MaxOpenFiles),
		dirs:        newSlotTable[*dirHandle](cfg.MaxOpenDirs),
		slots:       make([]*requestSlot, cfg.WorkerCount),
		harvest:     make(chan workerResult, cfg.WorkerCount),
		stats:       newStats(),
	}
	s.stats.SetEnabled(cfg.TrackStats)
	for i := range s.slots {
		s.slots[i] = newRequestSlot()
		s.freeList = append(s.freeList, i)
	}

	if cache, err := lru.New[string, Stat](1024); err == nil {
		s.statCache = cache
	}

	s.fs = NewFileSystem(s)

	return s
}

// NewMemoryServer builds a Server backed by an in-process MemTransport
// over a diskSizeBytes-byte memory disk, for tests and for running the
// server without a real block-device sibling component. The bounce
// region is allocated once here and shared verbatim between the
// transport (which DMAs into/out of it) and the Server (whose workers
// read/write their partition of it directly).
func NewMemoryServer(cfg Config, diskSizeBytes int, sectorSize, transferSize uint32) (*Server, *MemTransport) {
	workers := cfg.WorkerCount
	if workers <= 0 {
		workers = WorkerCount
	}
	region := make([]byte, workers*MaxClusterSize)
	mt := NewMemTransport(diskSizeBytes, region, sectorSize, transferSize)
	cfg.Transport = mt

	s := NewServer(cfg)
	s.bounce = region
	mt.SetNotifier(func() { s.notify.Notify(ChannelBlock) })
	return s, mt
}

// NewMemoryServerFromDisk is NewMemoryServer over a pre-populated disk
// image (e.g. read from a file by cmd/fatfs-server) rather than a fresh
// zeroed one.
func NewMemoryServerFromDisk(cfg Config, disk []byte, sectorSize, transferSize uint32) (*Server, *MemTransport) {
	workers := cfg.WorkerCount
	if workers <= 0 {
		workers = WorkerCount
	}
	region := make([]byte, workers*MaxClusterSize)
	mt := NewMemTransportWithDisk(disk, region, sectorSize, transferSize)
	cfg.Transport = mt

	s := NewServer(cfg)
	s.bounce = region
	mt.SetNotifier(func() { s.notify.Notify(ChannelBlock) })
	return s, mt
}

// Stats exposes the server's operation counters; Stats().SetEnabled
// toggles whether they actually increment.
func (s *Server) Stats() *Stats { return s.stats }

func (s *Server) logf(format string, args ...any) {
	s.cfg.Logger.Printf(format, args...)
}

// acquireSlot takes a free request slot off the free list and returns
// its index. It never blocks: the caller must already hold a sem unit,
// and a successful sem.TryAcquire guarantees the free list is non-empty.
func (s *Server) acquireSlot() int {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()
	n := len(s.freeList)
	idx := s.freeList[n-1]
	s.freeList = s.freeList[:n-1]
	return idx
}

func (s *Server) releaseSlot(idx int) {
	s.slotMu.Lock()
	s.freeList = append(s.freeList, idx)
	s.slotMu.Unlock()
}

// workerBounce returns the MaxClusterSize-sized partition of the shared
// bounce region owned by worker slot.
func (s *Server) workerBounce(slot int) []byte {
	base := slot * MaxClusterSize
	return s.bounce[base : base+MaxClusterSize]
}

func (s *Server) boundOffset(slot int) uint64 {
	return uint64(slot) * uint64(MaxClusterSize)
}

// blockOn parks the calling goroutine until the dispatcher wakes slot
// with a block-transport response status.
func (s *Server) blockOn(slot int) Status {
	return Status(<-s.slots[slot].mailbox)
}

// wakeBlock is called by the dispatcher after draining a BlockResponse;
// it never blocks, since a slot can have at most one outstanding block
// request and the mailbox is 1-buffered.
func (s *Server) wakeBlock(slot int, status Status) {
	select {
	case s.slots[slot].mailbox <- uint64(status):
	default:
	}
}
