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

package network

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	// DefaultPollInterval is the time between two association checks.
	DefaultPollInterval = time.Millisecond * 500
	// DefaultAttemptTimeout bounds a single association attempt.
	DefaultAttemptTimeout = time.Second * 30
	// DefaultMaxAttempts is the number of association attempts before giving up.
	DefaultMaxAttempts = 5
)

// BootstrapConfig configures Connect.
type BootstrapConfig struct {
	// Name of the network to join
	SSID string
	// Pre-shared key of the network
	Passphrase string
	// Time between two association checks
	PollInterval time.Duration
	// Maximum duration of a single attempt (0 = wait forever)
	AttemptTimeout time.Duration
	// Maximum number of attempts (0 = unlimited)
	MaxAttempts int
	// Receives a progress dot for every association check (nil = discard)
	Progress io.Writer
	// Delay policy between attempts (nil = exponential)
	BackOff backoff.BackOff
}

// Connect joins the configured network and blocks until the station is
// associated. Every attempt is bounded by AttemptTimeout; failed attempts
// are retried according to the backoff policy until MaxAttempts is reached.
func Connect(ctx context.Context, station Station, cfg BootstrapConfig, log zerolog.Logger) error {
	log = log.With().Str("ssid", cfg.SSID).Logger()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Progress == nil {
		cfg.Progress = io.Discard
	}
	b := cfg.BackOff
	if b == nil {
		exp := backoff.NewExponentialBackOff()
		exp.MaxInterval = time.Minute
		exp.MaxElapsedTime = 0
		b = exp
	}
	if cfg.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(cfg.MaxAttempts-1))
	}

	attempt := 0
	op := func() error {
		attempt++
		associationAttemptsTotal.Inc()
		log.Info().Int("attempt", attempt).Msg("Joining Wi-Fi")
		if err := joinAndWait(ctx, station, cfg); err != nil {
			associationFailuresTotal.Inc()
			return err
		}
		return nil
	}
	notify := func(err error, delay time.Duration) {
		fmt.Fprintln(cfg.Progress)
		log.Warn().Err(err).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("Wi-Fi association failed")
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		associatedGauge.Set(0)
		if ctx.Err() != nil {
			return maskAny(ctx.Err())
		}
		return errors.Wrapf(err, "Wi-Fi association failed after %d attempts", attempt)
	}
	fmt.Fprintln(cfg.Progress)
	associatedGauge.Set(1)
	log.Info().Msg("Connected to Wi-Fi")
	return nil
}

// joinAndWait performs a single association attempt.
func joinAndWait(ctx context.Context, station Station, cfg BootstrapConfig) error {
	if cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.AttemptTimeout)
		defer cancel()
	}
	if err := station.Join(ctx, cfg.SSID, cfg.Passphrase); err != nil {
		return errors.Wrap(err, "Join failed")
	}
	var lastErr error
	timer := time.NewTimer(cfg.PollInterval)
	defer timer.Stop()
	for {
		associated, err := station.Associated(ctx)
		if err != nil {
			lastErr = err
		} else if associated {
			return nil
		}
		fmt.Fprint(cfg.Progress, ".")
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return errors.Wrapf(lastErr, "Not associated within %s", cfg.AttemptTimeout)
			}
			return errors.Wrapf(ctx.Err(), "Not associated within %s", cfg.AttemptTimeout)
		case <-timer.C:
			timer.Reset(cfg.PollInterval)
		}
	}
}
