package mqtt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kestrelworks/otaboot/internal/infrastructure/config"
)

// newDisconnectedClient builds a Client that has never connected.
// Validation paths and connection-state checks can be exercised without a broker.
func newDisconnectedClient() *Client {
	return &Client{
		cfg:           config.MQTTConfig{QoS: 1},
		clientID:      "test-device",
		subscriptions: make(map[string]subscription),
	}
}

func TestPublish_EmptyTopic(t *testing.T) {
	c := newDisconnectedClient()
	err := c.Publish("", []byte("payload"), 1, false)
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish() error = %v, want ErrInvalidTopic", err)
	}
}

func TestPublish_InvalidQoS(t *testing.T) {
	c := newDisconnectedClient()
	err := c.Publish("otaboot/update/test-device/progress", []byte("payload"), 3, false)
	if !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Publish() error = %v, want ErrInvalidQoS", err)
	}
}

func TestPublish_PayloadTooLarge(t *testing.T) {
	c := newDisconnectedClient()
	big := make([]byte, maxPayloadSize+1)
	err := c.Publish("otaboot/update/test-device/progress", big, 1, false)
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
	}
}

func TestPublish_NotConnected(t *testing.T) {
	c := newDisconnectedClient()
	err := c.Publish("otaboot/update/test-device/progress", []byte("payload"), 1, false)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := newDisconnectedClient()

	if err := c.Subscribe("", 1, func(string, []byte) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe(empty topic) error = %v, want ErrInvalidTopic", err)
	}

	if err := c.Subscribe("otaboot/update/+/notify", 5, func(string, []byte) error { return nil }); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Subscribe(bad qos) error = %v, want ErrInvalidQoS", err)
	}

	if err := c.Subscribe("otaboot/update/+/notify", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe(nil handler) error = %v, want ErrSubscribeFailed", err)
	}

	if err := c.Subscribe("otaboot/update/+/notify", 1, func(string, []byte) error { return nil }); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe(disconnected) error = %v, want ErrNotConnected", err)
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	c := newDisconnectedClient()
	err := c.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestHealthCheck_CancelledContext(t *testing.T) {
	c := newDisconnectedClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.HealthCheck(ctx)
	if err == nil || !strings.Contains(err.Error(), "context") {
		t.Errorf("HealthCheck() error = %v, want context cancellation", err)
	}
}

func TestSubscriptionTracking(t *testing.T) {
	c := newDisconnectedClient()

	if c.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", c.SubscriptionCount())
	}
	if c.HasSubscription("otaboot/update/test-device/#") {
		t.Error("HasSubscription() = true for untracked topic")
	}
}

func TestBuildClientOptions_PlaintextScheme(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "broker.local", Port: 1883},
	}
	opts := buildClientOptions(cfg, "test-device", nil)

	servers := opts.Servers
	if len(servers) != 1 {
		t.Fatalf("expected 1 broker URL, got %d", len(servers))
	}
	if servers[0].Scheme != "tcp" {
		t.Errorf("broker scheme = %q, want tcp", servers[0].Scheme)
	}
}

func TestBuildOnlinePayload_ContainsDeviceID(t *testing.T) {
	payload := buildOnlinePayload("device-42")
	if !strings.Contains(payload, `"device_id":"device-42"`) {
		t.Errorf("online payload missing device id: %s", payload)
	}
	if !strings.Contains(payload, `"status":"online"`) {
		t.Errorf("online payload missing status: %s", payload)
	}
}

func TestBuildOfflinePayload_GracefulReason(t *testing.T) {
	payload := buildOfflinePayload("device-42")
	if !strings.Contains(payload, `"reason":"graceful_shutdown"`) {
		t.Errorf("offline payload missing graceful reason: %s", payload)
	}
}
