// Package mqtt publishes acquisition outcomes as telemetry messages.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-sensors/core/units"

	"github.com/nkanderson/quick-aqi/internal/config"
	"github.com/nkanderson/quick-aqi/internal/monitor"
)

// Telemetry is the wire payload for one successful acquisition cycle.
type Telemetry struct {
	StationID      string    `json:"station_id"`
	Timestamp      time.Time `json:"timestamp"`
	PM25           uint16    `json:"pm2_5_ugm3"`
	AQI            uint16    `json:"aqi"`
	Severity       string    `json:"severity"`
	Sequence       int       `json:"sequence"`
	Concentrations []Band    `json:"concentrations"`
}

// Band is one particle-size concentration band.
type Band struct {
	UpperBoundNm int64   `json:"upper_bound_nm"`
	Amount       float64 `json:"ugm3"`
}

// Client wraps a paho MQTT connection with connection-state tracking and a
// stop signal, so Connect can be abandoned cleanly on shutdown.
type Client struct {
	client    mqtt.Client
	cfg       config.Config
	logger    *slog.Logger
	mu        sync.Mutex
	connected bool
	sequence  int

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewClient(cfg config.Config, logger *slog.Logger) (*Client, error) {
	c := &Client{
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)

	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	// Callbacks keep internal state accurate.
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		c.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	c.client = mqtt.NewClient(opts)
	return c, nil
}

// Connect establishes the broker connection, waiting for the initial
// attempt while respecting ctx and Disconnect.
func (c *Client) Connect(ctx context.Context) error {
	select {
	case <-c.stopCh:
		return fmt.Errorf("client stopped")
	default:
	}

	if c.IsConnected() {
		return nil
	}

	token := c.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			return fmt.Errorf("client stopped")
		default:
		}
	}
}

// PublishOutcome sends one successful cycle's values to the station topic.
// It implements monitor.Publisher.
func (c *Client) PublishOutcome(o monitor.Outcome) error {
	if !c.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	topic := fmt.Sprintf("air/%s/reading", c.cfg.StationID)

	bands := make([]Band, 0, 3)
	for _, conc := range o.Reading.Concentrations() {
		bands = append(bands, Band{
			UpperBoundNm: int64(conc.UpperBoundSize / units.Nanometer),
			Amount:       float64(conc.Amount) / float64(units.MicrogramPerCubicMeter),
		})
	}

	c.mu.Lock()
	c.sequence++
	seq := c.sequence
	c.mu.Unlock()

	data, err := json.Marshal(Telemetry{
		StationID:      c.cfg.StationID,
		Timestamp:      time.Now(),
		PM25:           o.Reading.PM25Env,
		AQI:            o.AQI,
		Severity:       o.Severity.String(),
		Sequence:       seq,
		Concentrations: bands,
	})
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	token := c.client.Publish(topic, 1, false, data)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("publish telemetry: %w", token.Error())
	}

	c.logger.Debug("published telemetry", "topic", topic, "aqi", o.AQI, "sequence", seq)
	return nil
}

// IsConnected returns whether the client is connected.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()
	return connected && c.client.IsConnected()
}

// Disconnect stops the client and closes the connection. Idempotent; after
// Disconnect, Connect returns "client stopped".
func (c *Client) Disconnect() {
	c.stopOnce.Do(func() { close(c.stopCh) })

	if c.client != nil {
		// Quiesce in-flight work; safe even when already disconnected.
		c.client.Disconnect(250)
	}

	c.setConnected(false)
	c.logger.Info("mqtt disconnected")
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
