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
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ewoutp/playback-remote/model"
	"github.com/ewoutp/playback-remote/pkg/bridge"
	"github.com/ewoutp/playback-remote/pkg/poller"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	var mutex sync.Mutex
	var received []model.PressEvent
	cancel := bus.Subscribe(func(e model.PressEvent) {
		mutex.Lock()
		defer mutex.Unlock()
		received = append(received, e)
	})
	defer cancel()

	bus.Publish(model.PressEvent{Command: model.CommandPlay, Pin: 12, Outcome: model.OutcomeSent})

	deadline := time.Now().Add(time.Second)
	for {
		mutex.Lock()
		n := len(received)
		mutex.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected 1 event, got %d", n)
		}
		time.Sleep(time.Millisecond)
	}
	mutex.Lock()
	defer mutex.Unlock()
	if received[0].Command != model.CommandPlay || received[0].Pin != 12 {
		t.Errorf("Unexpected event %+v", received[0])
	}
}

func TestMQTTTopic(t *testing.T) {
	p := NewMQTTPublisher(MQTTConfig{TopicPrefix: "remote/livingroom/"}, zerolog.Nop(), NewBus())
	if x := p.topic(model.CommandPrevious); x != "remote/livingroom/previous" {
		t.Errorf("Unexpected topic '%s'", x)
	}
}

func TestEncodeEvent(t *testing.T) {
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	raw, err := encodeEvent(model.PressEvent{
		Command:   model.CommandPause,
		Pin:       14,
		PressedAt: at,
		Outcome:   model.OutcomeDisconnected,
	})
	if err != nil {
		t.Fatalf("encodeEvent failed: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if m["command"] != "pause" || m["outcome"] != "disconnected" || m["pin"] != float64(14) {
		t.Errorf("Unexpected payload %s", string(raw))
	}
}

func TestBusCancelOnlyStopsOwnSubscription(t *testing.T) {
	bus := NewBus()
	var mutex sync.Mutex
	counts := make(map[string]int)
	record := func(name string) func(model.PressEvent) {
		return func(model.PressEvent) {
			mutex.Lock()
			defer mutex.Unlock()
			counts[name]++
		}
	}
	cancelA := bus.Subscribe(record("a"))
	cancelB := bus.Subscribe(record("b"))
	defer cancelB()
	cancelA()

	bus.Publish(model.PressEvent{Command: model.CommandNext, Pin: 27, Outcome: model.OutcomeSent})

	deadline := time.Now().Add(time.Second)
	for {
		mutex.Lock()
		b := counts["b"]
		mutex.Unlock()
		if b == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected 1 event for remaining subscriber, got %d", b)
		}
		time.Sleep(time.Millisecond)
	}
	mutex.Lock()
	defer mutex.Unlock()
	if a := counts["a"]; a != 0 {
		t.Errorf("Expected no events for canceled subscriber, got %d", a)
	}
}

type countingSender struct {
	mutex sync.Mutex
	sends int
}

func (s *countingSender) Send(ctx context.Context, cmd model.Command) model.Outcome {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sends++
	return model.OutcomeSent
}

func (s *countingSender) count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sends
}

func TestUnreachableBrokerKeepsPollerRunning(t *testing.T) {
	bus := NewBus()
	br := bridge.NewVirtualBridge()
	snd := &countingSender{}
	p, err := poller.New(poller.Config{
		Buttons:      model.DefaultButtons(),
		Debounce:     time.Millisecond * 10,
		Mode:         model.DebounceShared,
		PollInterval: time.Millisecond,
		ActiveLow:    true,
	}, poller.Dependencies{
		Log:       zerolog.Nop(),
		Bridge:    br,
		Sender:    snd,
		Publisher: bus,
	})
	if err != nil {
		t.Fatalf("poller.New failed: %v", err)
	}
	publisher := NewMQTTPublisher(MQTTConfig{
		BrokerAddress: "127.0.0.1:1",
		ClientID:      "test",
		TopicPrefix:   "remote",
	}, zerolog.Nop(), bus)

	br.Press(12)
	runFor := time.Millisecond * 500
	ctx, cancel := context.WithTimeout(context.Background(), runFor)
	defer cancel()
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.Run(ctx) })
	g.Go(func() error { return publisher.Run(ctx) })
	if err := g.Wait(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < runFor {
		t.Errorf("Expected to run for %s, stopped after %s", runFor, elapsed)
	}
	if x := snd.count(); x < 2 {
		t.Errorf("Expected held button to keep sending, got %d sends", x)
	}
}
