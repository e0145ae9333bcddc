package telemetry

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/petprotect/hub/internal/config"
	"github.com/petprotect/hub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// PahoChannel is the production Channel backed by an MQTT broker over
// mutual TLS.
type PahoChannel struct {
	client       paho.Client
	controlTopic string
	cfg          config.MQTTConfig
}

// NewPahoChannel connects to the broker and subscribes to the weight topic.
// The subscription is re-established on every (re)connect so a broker
// restart does not silently stop the weight feed.
func NewPahoChannel(cfg config.MQTTConfig, onWeight WeightHandler) (*PahoChannel, error) {
	tlsConfig, err := newTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetTLSConfig(tlsConfig).
		SetKeepAlive(cfg.KeepAlive).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	opts.SetOnConnectHandler(func(client paho.Client) {
		nuts.L.Infof("[Telemetry] Connected to MQTT broker %s", cfg.BrokerURL)
		token := client.Subscribe(cfg.WeightTopic, 0, func(_ paho.Client, msg paho.Message) {
			var weight WeightMessage
			if err := json.Unmarshal(msg.Payload(), &weight); err != nil {
				nuts.L.Warnf("[Telemetry] Discarding malformed weight payload: %v", err)
				return
			}
			onWeight(weight)
		})
		go func() {
			token.Wait()
			if err := token.Error(); err != nil {
				nuts.L.Errorf("[Telemetry] Failed to subscribe to %s: %v", cfg.WeightTopic, err)
				return
			}
			nuts.L.Infof("[Telemetry] Subscribed to %s", cfg.WeightTopic)
		}()
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		nuts.L.Warnf("[Telemetry] MQTT connection lost: %v", err)
	})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.ConnectTimeout) {
		return nil, errors.NewTransportError("mqtt connection timeout", nil)
	}
	if err := token.Error(); err != nil {
		return nil, errors.NewTransportError("failed to connect to mqtt broker", err)
	}

	return &PahoChannel{
		client:       client,
		controlTopic: cfg.ControlTopic,
		cfg:          cfg,
	}, nil
}

func newTLSConfig(cfg config.MQTTConfig) (*tls.Config, error) {
	ca, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("error reading CA certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("no valid certificates in %s", cfg.CAFile)
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("error loading device certificate: %w", err)
	}

	return &tls.Config{
		RootCAs:      pool,
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// Publish sends a command to the feeder control topic. QoS 1: a feed command
// lost in transit means a missed meal.
func (c *PahoChannel) Publish(ctx context.Context, command string) error {
	token := c.client.Publish(c.controlTopic, 1, false, command)

	timeout := c.cfg.PublishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if !token.WaitTimeout(timeout) {
		return errors.NewTransportError("mqtt publish timeout", nil)
	}
	if err := token.Error(); err != nil {
		return errors.NewTransportError("mqtt publish failed", err)
	}

	nuts.L.Debugf("[Telemetry] Published %q to %s", command, c.controlTopic)
	return nil
}

// Close disconnects from the broker, allowing in-flight work to drain.
func (c *PahoChannel) Close() {
	c.client.Disconnect(1000)
}
