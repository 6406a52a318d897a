package telemetry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/vportnov/heart-monitor/internal/config"
	"github.com/vportnov/heart-monitor/internal/logger"
)

// Publisher is the outbound contract the monitor loop consumes.
type Publisher interface {
	Publish(ctx context.Context, topic, payload string) error
}

// MessageHandler receives subscribed messages with the account prefix
// already stripped from the topic.
type MessageHandler func(topic string, payload []byte)

const (
	// qosAtMostOnce is the delivery guarantee for all hub traffic.
	// Readings are periodic, so a lost sample is replaced by the next one.
	qosAtMostOnce = 0

	// clientIDLength is the length of generated client identifiers.
	clientIDLength = 20

	// disconnectQuiesce is how long Disconnect waits for in-flight work.
	disconnectQuiesce = 250 * time.Millisecond

	// clientIDCharset is the alphabet for generated client identifiers.
	clientIDCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	// ErrNoHandler is returned when Subscribe is called on a hub that was
	// built without a message handler.
	ErrNoHandler = errors.New("subscribe requires a message handler")
	// errConnectTimeout is returned when the broker handshake does not
	// finish within the configured timeout.
	errConnectTimeout = errors.New("broker connect timed out")
	// errPublishTimeout is returned when a publish is not acknowledged
	// within the configured timeout.
	errPublishTimeout = errors.New("publish timed out")
)

// Hub is the device's connection to the telemetry broker. All topics are
// namespaced under the configured account ID, so several devices can share
// one public broker.
type Hub struct {
	// client is the underlying MQTT connection.
	client mqtt.Client
	// accountID prefixes every published and subscribed topic.
	accountID string
	// handler receives subscribed messages, nil for publish-only hubs.
	handler MessageHandler
	// connectTimeout bounds the initial broker handshake.
	connectTimeout time.Duration
	// publishTimeout bounds each publish acknowledgement wait.
	publishTimeout time.Duration
}

// Option configures hub behaviour.
type Option func(*Hub)

// WithHandler enables the subscribe path by attaching a message handler.
func WithHandler(handler MessageHandler) Option {
	return func(h *Hub) {
		h.handler = handler
	}
}

// NewHub builds a hub from the MQTT settings. Construction performs no IO;
// call Connect to dial the broker.
func NewHub(cfg *config.MQTT, opts ...Option) *Hub {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = randomClientID(clientIDLength)
	}

	clientOptions := mqtt.NewClientOptions()
	clientOptions.AddBroker(cfg.BrokerURL)
	clientOptions.SetClientID(clientID)

	if cfg.Username != "" {
		clientOptions.SetUsername(cfg.Username)
	}

	if cfg.Password != "" {
		clientOptions.SetPassword(cfg.Password)
	}

	clientOptions.SetAutoReconnect(true)
	clientOptions.SetCleanSession(true)
	clientOptions.SetConnectTimeout(cfg.ConnectTimeout)

	hub := &Hub{
		client:         mqtt.NewClient(clientOptions),
		accountID:      cfg.AccountID,
		connectTimeout: cfg.ConnectTimeout,
		publishTimeout: cfg.PublishTimeout,
	}

	for _, opt := range opts {
		opt(hub)
	}

	return hub
}

// Connect dials the broker and blocks until the handshake finishes or the
// connect timeout expires.
func (h *Hub) Connect(ctx context.Context) error {
	logger.InfoKV(ctx, "Connecting to MQTT broker", "account_id", h.accountID)

	token := h.client.Connect()
	if !token.WaitTimeout(h.connectTimeout) {
		return errConnectTimeout
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to broker: %w", err)
	}

	return nil
}

// Publish sends a payload under "<account_id>/<topic>" at QoS 0, not retained.
func (h *Hub) Publish(ctx context.Context, topic, payload string) error {
	fullTopic := h.prefixed(topic)

	logger.DebugKV(ctx, "Publishing value", "topic", fullTopic, "payload", payload)

	token := h.client.Publish(fullTopic, qosAtMostOnce, false, payload)
	if !token.WaitTimeout(h.publishTimeout) {
		return fmt.Errorf("publish to topic %s: %w", fullTopic, errPublishTimeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to topic %s: %w", fullTopic, err)
	}

	return nil
}

// Subscribe listens on "<account_id>/<topic>" and delivers messages to the
// hub's handler with the account segment stripped back off the topic.
func (h *Hub) Subscribe(ctx context.Context, topic string) error {
	if h.handler == nil {
		return ErrNoHandler
	}

	fullTopic := h.prefixed(topic)

	logger.InfoKV(ctx, "Subscribing to topic", "topic", fullTopic)

	token := h.client.Subscribe(fullTopic, qosAtMostOnce, func(_ mqtt.Client, msg mqtt.Message) {
		h.handler(stripAccountPrefix(msg.Topic()), msg.Payload())
	})
	if !token.WaitTimeout(h.connectTimeout) {
		return fmt.Errorf("subscribe to topic %s: %w", fullTopic, errConnectTimeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to topic %s: %w", fullTopic, err)
	}

	return nil
}

// Disconnect releases the broker connection, allowing a short quiesce for
// in-flight messages.
func (h *Hub) Disconnect() {
	h.client.Disconnect(uint(disconnectQuiesce.Milliseconds()))
}

// IsConnected reports whether the hub currently holds a broker connection.
func (h *Hub) IsConnected() bool {
	return h.client.IsConnected()
}

// prefixed namespaces a topic under the account ID.
func (h *Hub) prefixed(topic string) string {
	return h.accountID + "/" + topic
}

// stripAccountPrefix removes the leading account segment from a wire topic.
func stripAccountPrefix(topic string) string {
	if i := strings.IndexByte(topic, '/'); i >= 0 {
		return topic[i+1:]
	}

	return topic
}

// randomClientID generates an n-character alphanumeric broker identity for
// devices that do not configure one.
func randomClientID(n int) string {
	var b strings.Builder

	b.Grow(n)

	for i := 0; i < n; i++ {
		b.WriteByte(clientIDCharset[rand.Intn(len(clientIDCharset))])
	}

	return b.String()
}
