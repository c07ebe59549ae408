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
	"fmt"
	"strings"
	"time"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ewoutp/playback-remote/model"
)

const (
	mqttPublishTimeout = time.Millisecond * 200
	mqttConnectTimeout = time.Second * 5

	mqttConnectRetryInterval = time.Second * 10
	mqttQos            = 0
)

// MQTTConfig configures the MQTT publisher.
type MQTTConfig struct {
	// Address (host:port) of the broker
	BrokerAddress string
	// Client ID used to connect
	ClientID string
	// Events are published on <TopicPrefix>/<command>
	TopicPrefix string
}

// MQTTPublisher forwards press events to an MQTT broker.
type MQTTPublisher struct {
	MQTTConfig
	log zerolog.Logger
	bus *Bus
}

// NewMQTTPublisher creates a publisher that forwards all events of the
// given bus.
func NewMQTTPublisher(cfg MQTTConfig, log zerolog.Logger, bus *Bus) *MQTTPublisher {
	return &MQTTPublisher{
		MQTTConfig: cfg,
		log:        log.With().Str("component", "mqtt").Logger(),
		bus:        bus,
	}
}

// Run the publisher until the given context is canceled.
// An unreachable broker is retried in the background and never ends Run.
func (p *MQTTPublisher) Run(ctx context.Context) error {
	log := p.log.With().Str("broker", p.BrokerAddress).Logger()
	opts := mqttapi.NewClientOptions().
		AddBroker("tcp://" + p.BrokerAddress).
		SetClientID(p.ClientID)
	opts.SetKeepAlive(2 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetConnectTimeout(mqttConnectTimeout)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(mqttConnectRetryInterval)
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(false)
	opts.SetOnConnectHandler(func(mqttapi.Client) {
		log.Info().Msg("Connected to MQTT broker")
	})
	opts.SetConnectionLostHandler(func(_ mqttapi.Client, err error) {
		log.Warn().Err(err).Msg("Lost connection to MQTT broker")
	})

	client := mqttapi.NewClient(opts)
	token := client.Connect()
	go func() {
		// Only completes on success or when disconnecting
		token.Wait()
		if err := token.Error(); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("failed to connect to MQTT broker")
		}
	}()
	defer client.Disconnect(250)

	cancel := p.bus.Subscribe(func(e model.PressEvent) {
		p.publish(client, e)
	})
	defer cancel()

	<-ctx.Done()
	return nil
}

// publish a single event.
func (p *MQTTPublisher) publish(client mqttapi.Client, e model.PressEvent) {
	topic := p.topic(e.Command)
	payload, err := encodeEvent(e)
	if err != nil {
		p.log.Error().Err(err).Msg("failed to encode press event")
		return
	}
	if !client.IsConnectionOpen() {
		mqttPublishFailuresTotal.Inc()
		p.log.Debug().Str("topic", topic).Msg("Not connected to MQTT broker, dropping event")
		return
	}
	token := client.Publish(topic, mqttQos, false, payload)
	if !token.WaitTimeout(mqttPublishTimeout) || token.Error() != nil {
		mqttPublishFailuresTotal.Inc()
		p.log.Error().Err(token.Error()).
			Str("topic", topic).
			Msg("failed to deliver MQTT event in time")
	}
}

// topic returns the topic used for events of the given command.
func (p *MQTTPublisher) topic(cmd model.Command) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(p.TopicPrefix, "/"), cmd)
}

func encodeEvent(e model.PressEvent) ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, "Marshal failed")
	}
	return raw, nil
}
