package monitor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vportnov/heart-monitor/internal/config"
	"github.com/vportnov/heart-monitor/internal/hardware"
	"github.com/vportnov/heart-monitor/internal/hardware/sim"
	"github.com/vportnov/heart-monitor/internal/logger"
	"github.com/vportnov/heart-monitor/internal/telemetry"
)

// Options controls the heart-monitor process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// BrokerURL provides an optional broker address override.
	BrokerURL string
	// Devices overrides the hardware set; when nil, simulated devices are
	// wired so the daemon runs without physical hardware attached.
	Devices *Devices
}

// Simulated sensor walk bounds: a resting pulse around 80 that can wander
// past the alarm threshold.
const (
	simWalkStart = 80
	simWalkLow   = 40
	simWalkHigh  = 230
	simWalkStep  = 25
)

// Run wires configuration, telemetry and devices together and executes the
// monitor loop until the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "heart-monitor")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Command line argument overrides the configured broker.
	if opts.BrokerURL != "" {
		cfg.MQTT.BrokerURL = opts.BrokerURL
	}

	hub := telemetry.NewHub(&cfg.MQTT)
	if err := hub.Connect(ctx); err != nil {
		return fmt.Errorf("connect telemetry hub: %w", err)
	}

	defer hub.Disconnect()

	devices := opts.Devices
	if devices == nil {
		devices = simulatedDevices(ctx, &cfg.Pins)
	}

	logger.InfoKV(ctx, "Starting monitor",
		"broker_url", cfg.MQTT.BrokerURL,
		"account_id", cfg.MQTT.AccountID)

	return New(*devices, hub, cfg.Monitor.Threshold, cfg.Monitor.PollInterval).Run(ctx)
}

// simulatedDevices builds the in-memory hardware set. The reset button is
// wired to SIGHUP so an operator can acknowledge a simulated alarm:
//
//	kill -HUP <pid>
func simulatedDevices(ctx context.Context, pins *config.Pins) *Devices {
	button := sim.NewButton()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-ctx.Done():
				signal.Stop(hup)
				return
			case <-hup:
				logger.Info(ctx, "SIGHUP received, pressing reset button")
				button.Press()
			}
		}
	}()

	return &Devices{
		Sensor: sim.NewWanderer(simWalkStart, simWalkLow, simWalkHigh, simWalkStep),
		Lamp:   sim.NewSwitch("lamp", hardware.Pin(pins.AlarmLamp)),
		Buzzer: sim.NewSwitch("buzzer", hardware.Pin(pins.Buzzer)),
		Reset:  button,
	}
}
