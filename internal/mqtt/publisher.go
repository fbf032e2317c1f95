// Package mqtt publishes generated records to a broker, one JSON message
// per record, so downstream consumers can ingest a run as if it were live.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"amc_simulator/internal/config"
	"amc_simulator/internal/logger"
	"amc_simulator/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrTimeout is returned when the broker does not acknowledge in time.
var ErrTimeout = errors.New("mqtt operation timed out")

// Publisher sends records of a run to <topic>/<run id>.
type Publisher struct {
	client  mqtt.Client
	topic   string
	qos     byte
	timeout time.Duration
	log     *logger.Logger
}

// Connect dials the broker described by cfg.
func Connect(cfg config.MQTTConfig, log *logger.Logger) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Infow("mqtt_connected", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("mqtt_connection_lost", "err", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.ConnectTimeout) {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, err)
	}
	return NewPublisher(client, cfg.Topic, cfg.QoS, cfg.ConnectTimeout, log), nil
}

// NewPublisher wraps an already connected client.
func NewPublisher(client mqtt.Client, topic string, qos byte, timeout time.Duration, log *logger.Logger) *Publisher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Publisher{client: client, topic: topic, qos: qos, timeout: timeout, log: log}
}

// Topic returns the topic a run is published under.
func (p *Publisher) Topic(runID string) string {
	return p.topic + "/" + runID
}

// PublishRun publishes recs in order and reports how many were acknowledged.
// It stops at the first failure or when ctx is done.
func (p *Publisher) PublishRun(ctx context.Context, runID string, recs []models.SensorRecord) (int, error) {
	topic := p.Topic(runID)
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			return i, fmt.Errorf("marshal record %d: %w", rec.No, err)
		}
		token := p.client.Publish(topic, p.qos, false, payload)
		if !token.WaitTimeout(p.timeout) {
			return i, fmt.Errorf("publish record %d: %w", rec.No, ErrTimeout)
		}
		if err := token.Error(); err != nil {
			return i, fmt.Errorf("publish record %d: %w", rec.No, err)
		}
	}
	p.log.Debugw("mqtt_run_published", "topic", topic, "records", len(recs))
	return len(recs), nil
}

// Close disconnects, waiting briefly for in-flight messages.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
