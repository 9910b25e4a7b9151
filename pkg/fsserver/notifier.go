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

// channelID names one of the two event channels the dispatcher selects
// over: the client submitting commands/draining completions, and the
// block-device transport completing I/O.
type channelID int

const (
	ChannelClient channelID = iota
	ChannelBlock
)

func (c channelID) String() string {
	if c == ChannelClient {
		return "client"
	}
	return "block"
}

// notifier gives each channel one-shot, level-triggered wakeup: Notify
// is a non-blocking send that leaves the channel "already signalled" if
// a previous signal hasn't been consumed yet, matching the spec's
// notify()/wait() pair. It replaces the bare futex-style wait the
// original's single OS thread used; here the dispatcher runs in its own
// goroutine and Wait blocks it between polls instead of spinning.
type notifier struct {
	client chan struct{}
	block  chan struct{}
}

func newNotifier() *notifier {
	return &notifier{
		client: make(chan struct{}, 1),
		block:  make(chan struct{}, 1),
	}
}

func (n *notifier) Notify(id channelID) {
	ch := n.channel(id)
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (n *notifier) channel(id channelID) chan struct{} {
	if id == ChannelClient {
		return n.client
	}
	return n.block
}

// Wait blocks until at least one channel has been signalled, returning
// one such channel. If both are ready, the selection between them is
// unspecified (Go's select chooses pseudo-randomly among ready cases);
// the dispatcher drains both queues fully on every wakeup regardless of
// which channel woke it, so this is never observable at the protocol
// level.
func (n *notifier) Wait(ctx context.Context) (channelID, error) {
	select {
	case <-n.client:
		return ChannelClient, nil
	case <-n.block:
		return ChannelBlock, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
