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

import "context"

// Run is the event dispatcher (component C5): the sole consumer of
// CommandQueue and sole producer of CompletionQueue. It never runs a
// handler itself; it only decides when a worker goroutine may start one
// and when a finished one's result is safe to publish. It returns when
// ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Transport != nil {
		select {
		case <-s.cfg.Transport.ReadyChan():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	for {
		s.pumpOnce(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.notify.Wait(ctx); err != nil {
			return err
		}
	}
}

// pumpOnce runs one full round of the dispatcher's work: publish
// whatever completions it safely can, drain block-transport responses,
// and start as many new commands as there are free worker slots. It
// never blocks.
func (s *Server) pumpOnce(ctx context.Context) {
	s.flushPending()
	s.drainHarvest()
	s.drainBlockResponses()
	s.dispatchCommands(ctx)
}

// flushPending retries completions the CompletionQueue didn't have room
// for on a previous round, oldest first.
func (s *Server) flushPending() {
	for len(s.pending) > 0 {
		if !s.Completions.Push(s.pending[0].completion) {
			return
		}
		s.pending = s.pending[1:]
		s.notify.Notify(ChannelClient)
	}
}

// drainHarvest collects every worker result posted since the last
// round and publishes each to CompletionQueue, or to the pending
// backlog if the queue is momentarily full.
func (s *Server) drainHarvest() {
	for {
		select {
		case res := <-s.harvest:
			if len(s.pending) == 0 && s.Completions.Push(res.completion) {
				s.notify.Notify(ChannelClient)
			} else {
				s.pending = append(s.pending, res)
			}
		default:
			return
		}
	}
}

// drainBlockResponses wakes every worker slot whose pending disk
// request has completed. Responses may arrive in an order different
// from the requests that produced them; BlockResponse.ID (the worker
// slot index) is what routes each one back to the right goroutine.
func (s *Server) drainBlockResponses() {
	if s.cfg.Transport == nil {
		return
	}
	for {
		resp, ok := s.cfg.Transport.PopResponse()
		if !ok {
			return
		}
		status := resp.Status
		if status == StatusSuccess && resp.SuccessCount == 0 {
			status = StatusError
		}
		s.wakeBlock(int(resp.ID), status)
	}
}

// dispatchCommands starts a worker for every queued command it has a
// free slot for, stopping the moment either resource runs out; the
// remaining commands stay queued for the next wakeup.
func (s *Server) dispatchCommands(ctx context.Context) {
	for {
		if !s.sem.TryAcquire(1) {
			return
		}
		cmd, ok := s.Commands.Peek()
		if !ok {
			s.sem.Release(1)
			return
		}
		s.Commands.Advance()
		if cmd.Type >= numCommandTypes {
			// Malformed command type: no handler table entry exists for
			// it, and the external interface defines no way to report a
			// completion for a command the server can't even identify.
			// Drop it silently rather than index out of range.
			s.sem.Release(1)
			continue
		}
		slot := s.acquireSlot()
		go s.runWorker(slot, cmd)
	}
}
