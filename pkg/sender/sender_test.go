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

package sender

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewoutp/playback-remote/model"
	"github.com/ewoutp/playback-remote/pkg/network"
)

type playbackServer struct {
	mutex    sync.Mutex
	requests []string
	status   int
}

func (s *playbackServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	status := s.status
	s.mutex.Unlock()
	w.WriteHeader(status)
	w.Write([]byte("handled " + r.URL.Path))
}

func (s *playbackServer) Requests() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]string{}, s.requests...)
}

func newTestSender(serverURL string, station network.Station, logs *bytes.Buffer) Sender {
	return New(Config{
		ServerURL:      serverURL,
		RequestTimeout: time.Second * 5,
	}, Dependencies{
		Log:     zerolog.New(logs),
		Station: station,
	})
}

func TestSendAllCommands(t *testing.T) {
	ps := &playbackServer{status: http.StatusOK}
	srv := httptest.NewServer(ps)
	defer srv.Close()

	var logs bytes.Buffer
	s := newTestSender(srv.URL, network.NewVirtualStation(true), &logs)
	for _, cmd := range model.AllCommands() {
		if outcome := s.Send(context.Background(), cmd); outcome != model.OutcomeSent {
			t.Errorf("%s: expected sent, got %s", cmd, outcome)
		}
	}
	expected := []string{"GET /play", "GET /pause", "GET /next", "GET /previous"}
	requests := ps.Requests()
	if len(requests) != len(expected) {
		t.Fatalf("Expected %d requests, got %v", len(expected), requests)
	}
	for i, r := range requests {
		if r != expected[i] {
			t.Errorf("Request %d: expected '%s', got '%s'", i, expected[i], r)
		}
	}
	if !strings.Contains(logs.String(), "Response: handled /play") {
		t.Errorf("Expected response body in logs, got %s", logs.String())
	}
}

func TestSendErrorStatusLogsBody(t *testing.T) {
	ps := &playbackServer{status: http.StatusBadRequest}
	srv := httptest.NewServer(ps)
	defer srv.Close()

	var logs bytes.Buffer
	s := newTestSender(srv.URL+"/", network.NewVirtualStation(true), &logs)
	if outcome := s.Send(context.Background(), model.CommandNext); outcome != model.OutcomeSent {
		t.Errorf("Expected sent, got %s", outcome)
	}
	if !strings.Contains(logs.String(), "Response: handled /next") {
		t.Errorf("Expected response body in logs, got %s", logs.String())
	}
}

func TestSendDisconnected(t *testing.T) {
	ps := &playbackServer{status: http.StatusOK}
	srv := httptest.NewServer(ps)
	defer srv.Close()

	var logs bytes.Buffer
	s := newTestSender(srv.URL, network.NewVirtualStation(false), &logs)
	if outcome := s.Send(context.Background(), model.CommandPlay); outcome != model.OutcomeDisconnected {
		t.Errorf("Expected disconnected, got %s", outcome)
	}
	if len(ps.Requests()) != 0 {
		t.Errorf("Expected no requests, got %v", ps.Requests())
	}
	if !strings.Contains(logs.String(), "Wi-Fi disconnected") {
		t.Errorf("Expected disconnection message, got %s", logs.String())
	}
}

func TestSendTransportFailure(t *testing.T) {
	srv := httptest.NewServer(&playbackServer{status: http.StatusOK})
	url := srv.URL
	srv.Close()

	var logs bytes.Buffer
	s := newTestSender(url, network.NewVirtualStation(true), &logs)
	if outcome := s.Send(context.Background(), model.CommandPause); outcome != model.OutcomeFailed {
		t.Errorf("Expected failed, got %s", outcome)
	}
	if !strings.Contains(logs.String(), "Error sending command") {
		t.Errorf("Expected generic error message, got %s", logs.String())
	}
}

func TestCommandURL(t *testing.T) {
	tests := []struct {
		serverURL string
		cmd       model.Command
		expected  string
	}{
		{"http://localhost:5000", model.CommandPlay, "http://localhost:5000/play"},
		{"http://localhost:5000/", model.CommandPrevious, "http://localhost:5000/previous"},
		{"http://10.0.0.2:5000/remote", model.CommandNext, "http://10.0.0.2:5000/remote/next"},
	}
	for _, test := range tests {
		cfg := Config{ServerURL: test.serverURL}
		if x := cfg.commandURL(test.cmd); x != test.expected {
			t.Errorf("Expected '%s', got '%s'", test.expected, x)
		}
	}
}
