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

package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewoutp/playback-remote/model"
	"github.com/ewoutp/playback-remote/pkg/bridge"
	"github.com/ewoutp/playback-remote/pkg/network"
	"github.com/ewoutp/playback-remote/pkg/sender"
)

const (
	testDebounce     = time.Millisecond * 300
	testPollInterval = time.Millisecond * 10
)

type fakeClock struct {
	start  time.Time
	now    time.Time
	sleeps []time.Duration
	// hook is called after every sleep; returning false stops the poller
	hook func(d time.Duration) bool
}

func newFakeClock() *fakeClock {
	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	return &fakeClock{start: start, now: start}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	if c.hook != nil {
		return c.hook(d)
	}
	return true
}

func (c *fakeClock) count(d time.Duration) int {
	n := 0
	for _, x := range c.sleeps {
		if x == d {
			n++
		}
	}
	return n
}

type sendRecord struct {
	Command model.Command
	At      time.Time
}

type recordingSender struct {
	clock   *fakeClock
	outcome model.Outcome
	onSend  func(cmd model.Command)
	sends   []sendRecord
}

func (s *recordingSender) Send(ctx context.Context, cmd model.Command) model.Outcome {
	s.sends = append(s.sends, sendRecord{Command: cmd, At: s.clock.Now()})
	if s.onSend != nil {
		s.onSend(cmd)
	}
	return s.outcome
}

func (s *recordingSender) commands() []model.Command {
	var result []model.Command
	for _, x := range s.sends {
		result = append(result, x.Command)
	}
	return result
}

func (s *recordingSender) countOf(cmd model.Command) int {
	n := 0
	for _, x := range s.sends {
		if x.Command == cmd {
			n++
		}
	}
	return n
}

type recordingPublisher struct {
	mutex  sync.Mutex
	events []model.PressEvent
}

func (p *recordingPublisher) Publish(e model.PressEvent) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.events = append(p.events, e)
}

func testPollerConfig(mode model.DebounceMode) Config {
	return Config{
		Buttons:      model.DefaultButtons(),
		Debounce:     testDebounce,
		Mode:         mode,
		PollInterval: testPollInterval,
		ActiveLow:    true,
	}
}

func newTestPoller(t *testing.T, cfg Config, br bridge.API, snd sender.Sender, pub Publisher, clock *fakeClock) *Poller {
	p, err := New(cfg, Dependencies{
		Log:       zerolog.Nop(),
		Bridge:    br,
		Sender:    snd,
		Publisher: pub,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.now = clock.Now
	p.sleep = clock.Sleep
	return p
}

func stopAfter(clock *fakeClock, d time.Duration, n int) func(time.Duration) bool {
	return func(time.Duration) bool {
		return clock.count(d) < n
	}
}

func TestSinglePressSendsOnce(t *testing.T) {
	br := bridge.NewVirtualBridge()
	clock := newFakeClock()
	snd := &recordingSender{clock: clock, outcome: model.OutcomeSent}
	pub := &recordingPublisher{}
	p := newTestPoller(t, testPollerConfig(model.DebounceShared), br, snd, pub, clock)

	br.Press(12)
	clock.hook = func(d time.Duration) bool {
		if d == testDebounce {
			br.Release(12)
		}
		return clock.count(testPollInterval) < 5
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if cmds := snd.commands(); len(cmds) != 1 || cmds[0] != model.CommandPlay {
		t.Fatalf("Expected a single play, got %v", cmds)
	}
	if clock.count(testDebounce) != 1 {
		t.Errorf("Expected 1 debounce delay, got %d", clock.count(testDebounce))
	}
	if len(pub.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(pub.events))
	}
	e := pub.events[0]
	if e.Command != model.CommandPlay || e.Pin != 12 || e.Outcome != model.OutcomeSent || !e.PressedAt.Equal(clock.start) {
		t.Errorf("Unexpected event %+v", e)
	}
}

func TestHeldPressSendsOncePerDebounce(t *testing.T) {
	br := bridge.NewVirtualBridge()
	clock := newFakeClock()
	snd := &recordingSender{clock: clock, outcome: model.OutcomeSent}
	p := newTestPoller(t, testPollerConfig(model.DebounceShared), br, snd, nil, clock)

	br.Press(27)
	clock.hook = stopAfter(clock, testDebounce, 5)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n := snd.countOf(model.CommandNext); n != 5 {
		t.Fatalf("Expected 5 sends, got %d", n)
	}
	for i := 1; i < len(snd.sends); i++ {
		if gap := snd.sends[i].At.Sub(snd.sends[i-1].At); gap < testDebounce {
			t.Errorf("Send %d follows previous after %s, expected >= %s", i, gap, testDebounce)
		}
	}
}

func TestSharedDebounceStallsOtherButtons(t *testing.T) {
	br := bridge.NewVirtualBridge()
	clock := newFakeClock()
	snd := &recordingSender{clock: clock, outcome: model.OutcomeSent}
	p := newTestPoller(t, testPollerConfig(model.DebounceShared), br, snd, nil, clock)

	for _, b := range model.DefaultButtons() {
		br.Press(b.Pin)
	}
	clock.hook = func(d time.Duration) bool {
		if d == testDebounce && clock.count(testDebounce) == 4 {
			for _, b := range model.DefaultButtons() {
				br.Release(b.Pin)
			}
		}
		return clock.count(testPollInterval) < 2
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	expected := model.AllCommands()
	if len(snd.sends) != len(expected) {
		t.Fatalf("Expected %d sends, got %v", len(expected), snd.commands())
	}
	for i, x := range snd.sends {
		if x.Command != expected[i] {
			t.Errorf("Send %d: expected %s, got %s", i, expected[i], x.Command)
		}
		if want := clock.start.Add(time.Duration(i) * testDebounce); !x.At.Equal(want) {
			t.Errorf("Send %d: expected at %s, got %s", i, want, x.At)
		}
	}
}

func TestReleaseDuringSendDoesNotSuppress(t *testing.T) {
	br := bridge.NewVirtualBridge()
	clock := newFakeClock()
	snd := &recordingSender{clock: clock, outcome: model.OutcomeSent}
	snd.onSend = func(cmd model.Command) {
		br.Release(14)
	}
	pub := &recordingPublisher{}
	p := newTestPoller(t, testPollerConfig(model.DebounceShared), br, snd, pub, clock)

	br.Press(14)
	clock.hook = stopAfter(clock, testPollInterval, 3)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if cmds := snd.commands(); len(cmds) != 1 || cmds[0] != model.CommandPause {
		t.Fatalf("Expected a single pause, got %v", cmds)
	}
	if len(pub.events) != 1 {
		t.Errorf("Expected 1 event, got %d", len(pub.events))
	}
}

func TestIndependentDebounce(t *testing.T) {
	br := bridge.NewVirtualBridge()
	clock := newFakeClock()
	snd := &recordingSender{clock: clock, outcome: model.OutcomeSent}
	p := newTestPoller(t, testPollerConfig(model.DebounceIndependent), br, snd, nil, clock)

	br.Press(12)
	br.Press(27)
	clock.hook = func(d time.Duration) bool {
		if len(clock.sleeps) == 1 {
			br.Release(27)
		}
		return clock.now.Sub(clock.start) < time.Millisecond*950
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n := snd.countOf(model.CommandPlay); n != 4 {
		t.Errorf("Expected 4 plays, got %d", n)
	}
	if n := snd.countOf(model.CommandNext); n != 1 {
		t.Errorf("Expected 1 next, got %d", n)
	}
	if len(snd.sends) < 2 || !snd.sends[1].At.Equal(clock.start) {
		t.Errorf("Expected next to be sent without waiting for play's debounce, got %v", snd.sends)
	}
	if clock.count(testDebounce) != 0 {
		t.Errorf("Expected no debounce sleeps, got %d", clock.count(testDebounce))
	}
}

func TestReadErrorIsNotAPress(t *testing.T) {
	br := bridge.NewVirtualBridge()
	clock := newFakeClock()
	snd := &recordingSender{clock: clock, outcome: model.OutcomeSent}
	p := newTestPoller(t, testPollerConfig(model.DebounceShared), br, snd, nil, clock)

	br.Press(26)
	br.SetReadError(26, errors.New("bus error"))
	clock.hook = stopAfter(clock, testPollInterval, 3)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(snd.sends) != 0 {
		t.Errorf("Expected no sends, got %v", snd.commands())
	}
}

func TestActiveHighButtons(t *testing.T) {
	br := bridge.NewVirtualBridge()
	clock := newFakeClock()
	snd := &recordingSender{clock: clock, outcome: model.OutcomeSent}
	cfg := testPollerConfig(model.DebounceShared)
	cfg.ActiveLow = false
	p := newTestPoller(t, cfg, br, snd, nil, clock)

	br.SetLevel(26, true)
	clock.hook = func(d time.Duration) bool {
		if d == testDebounce {
			br.SetLevel(26, false)
		}
		return clock.count(testPollInterval) < 3
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if cmds := snd.commands(); len(cmds) != 1 || cmds[0] != model.CommandPrevious {
		t.Fatalf("Expected a single previous, got %v", cmds)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	br := bridge.NewVirtualBridge()
	clock := newFakeClock()
	snd := &recordingSender{clock: clock, outcome: model.OutcomeSent}
	p := newTestPoller(t, testPollerConfig(model.DebounceShared), br, snd, nil, clock)
	p.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	case <-time.After(time.Second * 5):
		t.Fatal("Run did not stop")
	}
}

func TestPressSendsGetToServer(t *testing.T) {
	var mutex sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutex.Lock()
		paths = append(paths, r.URL.Path)
		mutex.Unlock()
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	tests := []struct {
		name       string
		associated bool
		requests   int
		outcome    model.Outcome
	}{
		{"associated", true, 1, model.OutcomeSent},
		{"disconnected", false, 0, model.OutcomeDisconnected},
	}
	for _, test := range tests {
		mutex.Lock()
		paths = nil
		mutex.Unlock()

		br := bridge.NewVirtualBridge()
		clock := newFakeClock()
		snd := sender.New(sender.Config{ServerURL: srv.URL, RequestTimeout: time.Second * 5}, sender.Dependencies{
			Log:     zerolog.Nop(),
			Station: network.NewVirtualStation(test.associated),
		})
		pub := &recordingPublisher{}
		p := newTestPoller(t, testPollerConfig(model.DebounceShared), br, snd, pub, clock)

		br.Press(12)
		clock.hook = func(d time.Duration) bool {
			if d == testDebounce {
				br.Release(12)
			}
			return clock.count(testPollInterval) < 3
		}
		if err := p.Run(context.Background()); err != nil {
			t.Fatalf("%s: Run failed: %v", test.name, err)
		}
		mutex.Lock()
		got := append([]string{}, paths...)
		mutex.Unlock()
		if len(got) != test.requests {
			t.Errorf("%s: expected %d requests, got %v", test.name, test.requests, got)
		} else if test.requests == 1 && got[0] != "/play" {
			t.Errorf("%s: expected /play, got %s", test.name, got[0])
		}
		if len(pub.events) != 1 || pub.events[0].Outcome != test.outcome {
			t.Errorf("%s: expected 1 event with outcome %s, got %+v", test.name, test.outcome, pub.events)
		}
	}
}
