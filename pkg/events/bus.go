// Copyright 2026 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package events

import (
	"context"
	"sync"

	"github.com/mattn/go-pubsub"

	"github.com/ewoutp/playback-remote/model"
)

// Bus distributes press events to all interested parties.
// Delivery is asynchronous.
type Bus struct {
	presses *pubsub.PubSub

	mutex       sync.Mutex
	lastID      int
	subscribers map[int]func(model.PressEvent)
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	b := &Bus{
		presses:     pubsub.New(),
		subscribers: make(map[int]func(model.PressEvent)),
	}
	b.presses.Sub(b.deliver)
	return b
}

// Publish a press event.
func (b *Bus) Publish(e model.PressEvent) {
	eventsPublishedTotal.WithLabelValues(string(e.Command), string(e.Outcome)).Inc()
	b.presses.Pub(e)
}

// Subscribe registers a callback for press events.
// Call the returned function to stop receiving events.
func (b *Bus) Subscribe(cb func(model.PressEvent)) context.CancelFunc {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.lastID++
	id := b.lastID
	b.subscribers[id] = cb
	return func() {
		b.mutex.Lock()
		defer b.mutex.Unlock()
		delete(b.subscribers, id)
	}
}

// deliver passes the given event to all current subscribers.
func (b *Bus) deliver(e model.PressEvent) {
	b.mutex.Lock()
	callbacks := make([]func(model.PressEvent), 0, len(b.subscribers))
	for _, cb := range b.subscribers {
		callbacks = append(callbacks, cb)
	}
	b.mutex.Unlock()
	for _, cb := range callbacks {
		cb(e)
	}
}
