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
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ewoutp/playback-remote/model"
	"github.com/ewoutp/playback-remote/pkg/network"
)

const (
	// Maximum number of response bytes that are logged
	maxLoggedBody = 4096
)

// Sender sends playback commands to the server.
type Sender interface {
	// Send the given command to the server and return what became of it.
	Send(ctx context.Context, cmd model.Command) model.Outcome
}

// Config of the sender.
type Config struct {
	// Base URL of the playback server
	ServerURL string
	// Maximum duration of a single request (0 = client default)
	RequestTimeout time.Duration
}

// Dependencies of the sender.
type Dependencies struct {
	Log     zerolog.Logger
	Station network.Station
}

type httpSender struct {
	Config
	Dependencies
}

// New creates a sender that issues plain HTTP GET requests.
func New(cfg Config, deps Dependencies) Sender {
	return &httpSender{
		Config:       cfg,
		Dependencies: deps,
	}
}

// Send the given command to the server.
// A command is only sent when the station is associated.
// A fresh client is created for every command and torn down afterwards.
func (s *httpSender) Send(ctx context.Context, cmd model.Command) model.Outcome {
	log := s.Log.With().Str("command", string(cmd)).Logger()
	associated, err := s.Station.Associated(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Association check failed")
	}
	if !associated {
		log.Warn().Msg("Wi-Fi disconnected")
		return s.record(cmd, model.OutcomeDisconnected)
	}

	client := cleanhttp.DefaultClient()
	client.Timeout = s.RequestTimeout
	defer closeClient(client)

	url := s.commandURL(cmd)
	start := time.Now()
	status, body, err := get(ctx, client, url)
	sendDuration.WithLabelValues(string(cmd)).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("Error sending command")
		return s.record(cmd, model.OutcomeFailed)
	}
	log.Info().Int("status", status).Msgf("Response: %s", body)
	return s.record(cmd, model.OutcomeSent)
}

// commandURL returns the full URL used to send the given command.
func (c Config) commandURL(cmd model.Command) string {
	return strings.TrimSuffix(c.ServerURL, "/") + cmd.Path()
}

func (s *httpSender) record(cmd model.Command, outcome model.Outcome) model.Outcome {
	sendsTotal.WithLabelValues(string(cmd), string(outcome)).Inc()
	return outcome
}

// get performs a single GET request and returns the status code and body.
func get(ctx context.Context, client *http.Client, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", errors.Wrap(err, "NewRequest failed")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, "", errors.Wrap(err, "GET failed")
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	if err != nil {
		return 0, "", errors.Wrap(err, "Reading response failed")
	}
	return resp.StatusCode, strings.TrimSpace(string(raw)), nil
}

// closeClient releases all connections held by the client.
func closeClient(client *http.Client) {
	if t, ok := client.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
}
