package watch

import (
	"context"
	"fmt"

	"github.com/vportnov/heart-monitor/internal/config"
	"github.com/vportnov/heart-monitor/internal/logger"
	"github.com/vportnov/heart-monitor/internal/service/monitor"
	"github.com/vportnov/heart-monitor/internal/telemetry"
)

// Options controls the heart-watch process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// BrokerURL provides an optional broker address override.
	BrokerURL string
}

// Run subscribes to the monitor's topics and logs everything it publishes
// until the context is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "heart-watch")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Command line argument overrides the configured broker.
	if opts.BrokerURL != "" {
		cfg.MQTT.BrokerURL = opts.BrokerURL
	}

	hub := telemetry.NewHub(&cfg.MQTT, telemetry.WithHandler(logReading(ctx)))
	if err := hub.Connect(ctx); err != nil {
		return fmt.Errorf("connect telemetry hub: %w", err)
	}

	defer hub.Disconnect()

	for _, topic := range []string{monitor.TopicHeartbeat, monitor.TopicAlarm} {
		if err := hub.Subscribe(ctx, topic); err != nil {
			return fmt.Errorf("subscribe: %w", err)
		}
	}

	logger.InfoKV(ctx, "Watching monitor topics",
		"broker_url", cfg.MQTT.BrokerURL,
		"account_id", cfg.MQTT.AccountID)

	<-ctx.Done()
	logger.Info(ctx, "Context canceled, exiting")

	return nil
}

// logReading returns the hub handler: alarm readings log at warn level,
// everything else at info.
func logReading(ctx context.Context) telemetry.MessageHandler {
	return func(topic string, payload []byte) {
		if topic == monitor.TopicAlarm {
			logger.WarnKV(ctx, "Alarm reading", "topic", topic, "payload", string(payload))
			return
		}

		logger.InfoKV(ctx, "Reading", "topic", topic, "payload", string(payload))
	}
}
