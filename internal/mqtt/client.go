package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/logger"
)

const (
	// defaultOperationTimeout bounds publish and subscribe round trips.
	defaultOperationTimeout = 5 * time.Second
	// disconnectQuiesce is the grace period for pending operations on Close.
	disconnectQuiesce = 250 // milliseconds, as the paho API expects
)

// MessageHandler is the callback signature for received messages.
// Handlers run on paho's delivery goroutines and must not block for long.
type MessageHandler func(topic string, payload []byte)

// subscription holds the details needed to re-subscribe after a reconnect.
type subscription struct {
	topic   string
	handler MessageHandler
}

// Client wraps the paho MQTT client with connection management and
// subscription tracking. All methods are safe for concurrent use.
type Client struct {
	// client is the underlying paho connection.
	client pahomqtt.Client
	// cfg holds the broker parameters the client was built from.
	cfg config.BrokerConfig
	// timeout bounds connect, publish and subscribe operations.
	timeout time.Duration

	// logCtx carries the logger used from paho callbacks, which have no
	// caller context of their own.
	logCtx context.Context

	// subscriptions tracks active subscriptions for restoration on reconnect.
	subscriptions map[string]subscription
	subMu         sync.RWMutex
}

// Connect establishes a connection to the configured broker. Subscriptions
// registered later are restored automatically whenever the connection drops
// and comes back.
func Connect(ctx context.Context, cfg config.BrokerConfig, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}

	c := &Client{
		cfg:           cfg,
		timeout:       timeout,
		logCtx:        ctx,
		subscriptions: make(map[string]subscription),
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout).
		SetOrderMatters(true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetOnConnectHandler(func(pahomqtt.Client) {
		c.restoreSubscriptions()
	})

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger.WarnKV(c.logCtx, "Broker connection lost", "error", err)
	})

	c.client = pahomqtt.NewClient(opts)

	token := c.client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("%w: timeout after %s", ErrConnectionFailed, timeout)
	}

	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	logger.InfoKV(ctx, "Connected to broker", "url", cfg.URL, "client_id", cfg.ClientID)

	return c, nil
}

// Subscribe registers a handler for messages on the provided topic using the
// configured QoS. The subscription survives reconnects.
func (c *Client) Subscribe(topic string, handler MessageHandler) error {
	if topic == "" {
		return ErrInvalidTopic
	}

	if handler == nil {
		return fmt.Errorf("%w: handler must be provided", ErrSubscribeFailed)
	}

	if !c.client.IsConnected() {
		return ErrNotConnected
	}

	c.subMu.Lock()
	c.subscriptions[topic] = subscription{topic: topic, handler: handler}
	c.subMu.Unlock()

	token := c.client.Subscribe(topic, c.cfg.QoS, c.wrapHandler(handler))
	if !token.WaitTimeout(c.timeout) {
		c.dropSubscription(topic)

		return fmt.Errorf("%w: timeout after %s", ErrSubscribeFailed, c.timeout)
	}

	if err := token.Error(); err != nil {
		c.dropSubscription(topic)

		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	return nil
}

// Publish sends a payload to the provided topic using the configured QoS.
// Retained messages let late subscribers receive the current board state.
func (c *Client) Publish(topic string, payload []byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}

	if !c.client.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, c.cfg.QoS, retained, payload)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("%w: timeout after %s", ErrPublishFailed, c.timeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// IsConnected reports whether the broker connection is currently up.
func (c *Client) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// Close disconnects from the broker after a short quiesce period.
func (c *Client) Close() {
	if c.client == nil {
		return
	}

	c.client.Disconnect(disconnectQuiesce)
}

// dropSubscription removes a topic from the restore set after a failure.
func (c *Client) dropSubscription(topic string) {
	c.subMu.Lock()
	delete(c.subscriptions, topic)
	c.subMu.Unlock()
}

// restoreSubscriptions re-subscribes to all tracked topics. Runs on every
// (re)connect; failures are logged and retried on the next reconnect.
func (c *Client) restoreSubscriptions() {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for _, sub := range c.subscriptions {
		token := c.client.Subscribe(sub.topic, c.cfg.QoS, c.wrapHandler(sub.handler))
		if token.WaitTimeout(c.timeout) && token.Error() != nil {
			logger.WarnKV(c.logCtx, "Failed to restore subscription",
				"topic", sub.topic, "error", token.Error())
		}
	}
}

// wrapHandler adapts a MessageHandler to the paho signature and contains
// panics so a bad payload cannot kill the delivery goroutine.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorKV(c.logCtx, "Message handler panic recovered",
					"topic", msg.Topic(), "panic", r)
			}
		}()

		handler(msg.Topic(), msg.Payload())
	}
}
