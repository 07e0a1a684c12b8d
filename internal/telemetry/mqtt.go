// Package telemetry publishes fused motion samples over MQTT for
// diagnostics (plotting sensor behavior, tuning mount matrices). It is off
// unless a broker is configured and never sits in the emission path: publish
// failures are dropped.
package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Originalimoc/compatctl/internal/imu"
)

const defaultTopic = "compatctl/motion"

// Publisher sends motion samples to an MQTT broker.
type Publisher struct {
	log    *slog.Logger
	client mqtt.Client
	topic  string
}

// Connect dials the broker (e.g. "tcp://localhost:1883"). An empty topic
// selects the default.
func Connect(logger *slog.Logger, broker, topic string) (*Publisher, error) {
	if topic == "" {
		topic = defaultTopic
	}
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("compatctl")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	logger.Info("telemetry connected", "broker", broker, "topic", topic)
	return &Publisher{log: logger, client: client, topic: topic}, nil
}

// Publish sends one sample, fire-and-forget.
func (p *Publisher) Publish(s imu.MotionSample) {
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	p.client.Publish(p.topic, 0, false, b)
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
