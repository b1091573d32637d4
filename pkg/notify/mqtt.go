package notify

import (
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Broker timeouts.
const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 1000 // ms
)

// ErrTimeout is returned when the broker does not answer in time.
var ErrTimeout = errors.New("notify: broker timeout")

// MQTTPublisher publishes to a real MQTT broker.
type MQTTPublisher struct {
	client paho.Client
	topic  string
}

// NewMQTTPublisher connects to broker (e.g. "tcp://localhost:1883").
func NewMQTTPublisher(broker, clientID, topic string) (*MQTTPublisher, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: %w", broker, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}

	return &MQTTPublisher{client: client, topic: topic}, nil
}

// Publish sends event to the configured topic.
func (p *MQTTPublisher) Publish(event Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	token := p.client.Publish(p.topic, qosFor(event.Type), false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: %w", event.Type, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// IsConnected reports whether the client currently holds a connection.
func (p *MQTTPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(disconnectQuiesce)
	return nil
}
