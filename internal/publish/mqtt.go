// Package publish pushes fix snapshots to an MQTT broker as retained JSON,
// so dashboards and loggers pick up the latest position on subscribe.
package publish

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type MQTT struct {
	client mqtt.Client
	topic  string
}

func NewMQTT(broker, clientID, topic string) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	return &MQTT{client: client, topic: topic}, nil
}

// Publish sends one snapshot, retained at QoS 0. Losing an update is fine;
// the next tick replaces it.
func (m *MQTT) Publish(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("mqtt marshal: %w", err)
	}
	token := m.client.Publish(m.topic, 0, true, payload)
	token.Wait()
	return token.Error()
}

func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
