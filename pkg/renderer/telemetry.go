package renderer

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Telemetry publishes per-pass RenderStats as JSON to an MQTT broker, so a
// render farm controller can watch many concurrent hosts without scraping
// each one's stdout (spec.md §2's render-telemetry extension to the
// teacher's plain Printf progress reporting). Optional: a Progressive runs
// identically whether or not a Telemetry sink is attached.
type Telemetry struct {
	client mqtt.Client
	topic  string
}

// telemetryRecord is the JSON payload published per pass.
type telemetryRecord struct {
	Host       string  `json:"host"`
	PassNumber int     `json:"pass_number"`
	Samples    float64 `json:"avg_samples"`
	MinSamples int     `json:"min_samples"`
	MaxSamples int     `json:"max_samples_used"`
	Timestamp  int64   `json:"timestamp_unix"`
}

// NewTelemetry connects to brokerURL (e.g. "tcp://localhost:1883") and
// returns a Telemetry publishing to topic. The connection is best-effort:
// a broker that refuses the connection yields an error the caller can log
// and proceed without telemetry, since losing the publish sink must never
// abort a render.
func NewTelemetry(brokerURL, topic, clientID string) (*Telemetry, error) {
	opts := mqtt.NewClientOptions().AddBroker(brokerURL).SetClientID(clientID).SetConnectTimeout(5 * time.Second)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("telemetry: connecting to %s: %w", brokerURL, token.Error())
	}
	return &Telemetry{client: client, topic: topic}, nil
}

// PublishPass publishes one pass's stats, logging (via the caller) rather
// than failing the render if the publish itself errors.
func (t *Telemetry) PublishPass(host string, passNumber int, stats RenderStats) error {
	if t == nil {
		return nil
	}
	payload, err := json.Marshal(telemetryRecord{
		Host: host, PassNumber: passNumber, Samples: stats.AverageSamples,
		MinSamples: stats.MinSamples, MaxSamples: stats.MaxSamplesUsed, Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("telemetry: marshaling pass stats: %w", err)
	}
	token := t.client.Publish(t.topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (t *Telemetry) Close() {
	if t == nil || t.client == nil {
		return
	}
	t.client.Disconnect(250)
}
