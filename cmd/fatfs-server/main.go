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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sddf/fatfs-server/pkg/fsserver"
)

var (
	diskPath       = flag.String("disk", "", "path to a raw FAT volume image (required)")
	sectorSize     = flag.Uint("sector-size", 512, "block transport sector size in bytes")
	transferSize   = flag.Uint("transfer-size", 512, "block transport transfer unit size in bytes")
	workerCount    = flag.Int("workers", fsserver.WorkerCount, "maximum number of commands processed concurrently")
	queueCapacity  = flag.Int("queue-capacity", fsserver.QueueCapacity, "protocol queue capacity")
	dataRegionSize = flag.Int("data-region-size", 1<<20, "size in bytes of the shared client data region")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: fatfs-server -disk IMAGE [flags]\n\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if *diskPath == "" {
		usage()
	}

	disk, err := os.ReadFile(*diskPath)
	if err != nil {
		log.Fatalf("fatfs-server: reading disk image %q: %v", *diskPath, err)
	}

	trackStats := os.Getenv("FATFS_TRACK_STATS") == "1"

	cfg := fsserver.Config{
		WorkerCount:   *workerCount,
		QueueCapacity: *queueCapacity,
		DataRegion:    make([]byte, *dataRegionSize),
		TrackStats:    trackStats,
		Logger:        log.New(os.Stderr, "fatfs-server: ", log.LstdFlags),
	}

	srv, _ := fsserver.NewMemoryServerFromDisk(cfg, disk, uint32(*sectorSize), uint32(*transferSize))
	srv.Stats().SetEnabled(trackStats)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("fatfs-server: received %s, shutting down", sig)
		cancel()
	}()

	log.Printf("fatfs-server: serving %s (%d bytes) with %d workers, queue capacity %d",
		*diskPath, len(disk), *workerCount, *queueCapacity)

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("fatfs-server: dispatcher exited: %v", err)
	}
}
