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

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	terminate "github.com/pulcy/go-terminate"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/ewoutp/playback-remote/model"
	"github.com/ewoutp/playback-remote/pkg/bridge"
	"github.com/ewoutp/playback-remote/pkg/environment"
	"github.com/ewoutp/playback-remote/pkg/events"
	"github.com/ewoutp/playback-remote/pkg/logging"
	"github.com/ewoutp/playback-remote/pkg/network"
	"github.com/ewoutp/playback-remote/pkg/poller"
	"github.com/ewoutp/playback-remote/pkg/sender"
	"github.com/ewoutp/playback-remote/pkg/server"
	"github.com/ewoutp/playback-remote/pkg/status"
)

const (
	projectName       = "Playback Remote"
	defaultServerPort = 7131
	defaultServerURL  = "http://localhost:5000"

	envServerURL  = "PLAYBACK_REMOTE_SERVER"
	envSSID       = "PLAYBACK_REMOTE_SSID"
	envPassphrase = "PLAYBACK_REMOTE_PASSPHRASE"
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
)

func main() {
	var levelFlag string
	var logFile string
	var bridgeType string
	var stationType string
	var serverHost string
	var serverPort int
	var mqttBroker string
	var mqttTopic string
	var wifiInterface string
	var bootstrapCfg network.BootstrapConfig
	bridgeCfg := bridge.NoLEDs()
	cfg := model.Config{}
	pins := make(map[model.Command]*int)
	defaults := model.DefaultButtons()

	pflag.StringVarP(&levelFlag, "level", "l", "info", "Set log level")
	pflag.StringVar(&logFile, "log-file", "", "Append logs to this file")
	pflag.StringVarP(&bridgeType, "bridge", "b", "auto", "Type of bridge to use (auto|periph|sysfs|virtual)")
	pflag.StringVar(&cfg.ServerURL, "server", envOr(envServerURL, defaultServerURL), "Base URL of the playback server")
	for _, b := range defaults {
		pins[b.Command] = pflag.Int(string(b.Command)+"-pin", b.Pin, fmt.Sprintf("GPIO number of the %s button", b.Command))
	}
	pflag.BoolVar(&cfg.ActiveLow, "active-low", true, "Buttons pull the pin low when pressed (internal pull-up)")
	pflag.DurationVar(&cfg.Debounce, "debounce", model.DefaultDebounce, "Delay after a detected press")
	debounceMode := pflag.String("debounce-mode", string(model.DebounceShared), "Debounce mode (shared|independent)")
	pflag.DurationVar(&cfg.PollInterval, "poll-interval", model.DefaultPollInterval, "Idle time between two passes over all buttons")
	pflag.DurationVar(&cfg.RequestTimeout, "request-timeout", model.DefaultRequestTimeout, "Maximum duration of a command request (0 = no limit)")
	pflag.StringVar(&stationType, "station", "nmcli", "How to join the wireless network (nmcli|managed|virtual)")
	pflag.StringVar(&wifiInterface, "wifi-interface", "wlan0", "Wireless network interface")
	pflag.StringVar(&bootstrapCfg.SSID, "ssid", os.Getenv(envSSID), "SSID of the wireless network")
	pflag.StringVar(&bootstrapCfg.Passphrase, "passphrase", os.Getenv(envPassphrase), "Passphrase of the wireless network")
	pflag.DurationVar(&bootstrapCfg.PollInterval, "wifi-poll-interval", network.DefaultPollInterval, "Time between two association checks")
	pflag.DurationVar(&bootstrapCfg.AttemptTimeout, "wifi-timeout", network.DefaultAttemptTimeout, "Maximum duration of an association attempt (0 = wait forever)")
	pflag.IntVar(&bootstrapCfg.MaxAttempts, "wifi-attempts", network.DefaultMaxAttempts, "Number of association attempts (0 = unlimited)")
	pflag.IntVar(&bridgeCfg.GreenLEDPin, "green-led-pin", bridgeCfg.GreenLEDPin, "GPIO number of the green status led (-1 = none)")
	pflag.IntVar(&bridgeCfg.RedLEDPin, "red-led-pin", bridgeCfg.RedLEDPin, "GPIO number of the red status led (-1 = none)")
	pflag.BoolVar(&bridgeCfg.LEDActiveLow, "led-active-low", bridgeCfg.LEDActiveLow, "Status leds light up when the pin is low")
	pflag.StringVar(&serverHost, "host", "0.0.0.0", "Host address the HTTP server will listen on")
	pflag.IntVar(&serverPort, "port", defaultServerPort, "Port the HTTP server will listen on (0 = disabled)")
	pflag.StringVar(&mqttBroker, "mqtt-broker", "", "Address (host:port) of an MQTT broker to publish press events to")
	pflag.StringVar(&mqttTopic, "mqtt-topic", "playback-remote", "Topic prefix of published press events")
	pflag.Parse()

	logger, logCloser, err := logging.New(logging.Config{Level: levelFlag, File: logFile})
	if err != nil {
		Exitf("Failed to initialize logging: %v\n", err)
	}
	defer logCloser.Close()

	cfg.DebounceMode = model.DebounceMode(*debounceMode)
	for _, b := range defaults {
		cfg.Buttons = append(cfg.Buttons, model.Button{Command: b.Command, Pin: *pins[b.Command]})
	}
	if err := cfg.Validate(); err != nil {
		Exitf("Invalid configuration: %v\n", err)
	}

	if bridgeType == "auto" {
		bridgeType = environment.AutoDetectBridgeType(logger)
	}
	br, err := newBridge(bridgeType, bridgeCfg)
	if err != nil {
		Exitf("Failed to initialize %s bridge: %v\n", bridgeType, err)
	}
	defer br.Close()

	station, err := newStation(stationType, wifiInterface, bootstrapCfg.SSID)
	if err != nil {
		Exitf("Failed to initialize station: %v\n", err)
	}

	// Prepare to shutdown in a controlled manor
	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	fmt.Printf("Starting %s (version %s build %s)\n", projectName, projectVersion, projectBuild)
	startedAt := time.Now()

	// Join the network
	indicator := status.NewIndicator(br, logger.With().Str("component", "indicator").Logger())
	indicator.Connecting()
	bootstrapCfg.Progress = os.Stderr
	if err := network.Connect(ctx, station, bootstrapCfg, logger.With().Str("component", "network").Logger()); err != nil {
		Exitf("Failed to join wireless network: %v\n", err)
	}
	indicator.Connected()

	// Wire the services
	bus := events.NewBus()
	tracker := status.NewTracker(station)
	cancelTracker := bus.Subscribe(tracker.Record)
	defer cancelTracker()
	cancelIndicator := bus.Subscribe(indicator.Record)
	defer cancelIndicator()

	snd := sender.New(sender.Config{
		ServerURL:      cfg.ServerURL,
		RequestTimeout: cfg.RequestTimeout,
	}, sender.Dependencies{
		Log:     logger.With().Str("component", "sender").Logger(),
		Station: station,
	})
	p, err := poller.New(poller.Config{
		Buttons:      cfg.Buttons,
		Debounce:     cfg.Debounce,
		Mode:         cfg.DebounceMode,
		PollInterval: cfg.PollInterval,
		ActiveLow:    cfg.ActiveLow,
	}, poller.Dependencies{
		Log:       logger.With().Str("component", "poller").Logger(),
		Bridge:    br,
		Sender:    snd,
		Publisher: bus,
	})
	if err != nil {
		Exitf("Failed to initialize poller: %v\n", err)
	}
	httpServer := server.New(server.Config{
		Host: serverHost,
		Port: serverPort,
	}, logger, tracker)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.Run(ctx) })
	g.Go(func() error { return httpServer.Run(ctx) })
	if mqttBroker != "" {
		publisher := events.NewMQTTPublisher(events.MQTTConfig{
			BrokerAddress: mqttBroker,
			ClientID:      clientID(),
			TopicPrefix:   mqttTopic,
		}, logger, bus)
		g.Go(func() error { return publisher.Run(ctx) })
	}
	if err := g.Wait(); err != nil {
		Exitf("Remote run failed: %v\n", err)
	}
	logger.Info().Str("started", startedAt.Format(time.RFC3339)).Msg("Remote stopped")
}

// newBridge creates the bridge of the given type.
func newBridge(bridgeType string, cfg bridge.Config) (bridge.API, error) {
	switch bridgeType {
	case environment.BridgePeriph:
		return bridge.NewPeriphBridge(cfg)
	case environment.BridgeSysfs:
		return bridge.NewSysfsBridge(cfg)
	case environment.BridgeVirtual:
		return bridge.NewVirtualBridge(), nil
	default:
		return nil, errors.Errorf("Unknown bridge type '%s' (periph|sysfs|virtual)", bridgeType)
	}
}

// newStation creates the station of the given type.
func newStation(stationType, iface, ssid string) (network.Station, error) {
	switch stationType {
	case "nmcli":
		if ssid == "" {
			return nil, errors.Errorf("SSID missing; use --ssid or %s", envSSID)
		}
		return network.NewNMCLIStation(iface), nil
	case "managed":
		return network.NewManagedStation(iface), nil
	case "virtual":
		return network.NewVirtualStation(true), nil
	default:
		return nil, errors.Errorf("Unknown station type '%s' (nmcli|managed|virtual)", stationType)
	}
}

// clientID returns the MQTT client ID of this remote.
func clientID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return "playback-remote-" + host
}

// envOr returns the value of the given environment variable,
// or the given default when it is not set.
func envOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
