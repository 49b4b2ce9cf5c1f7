package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/MKhiriev/go-service-sdk/internal/appstate"
	"github.com/MKhiriev/go-service-sdk/internal/config"
	"github.com/MKhiriev/go-service-sdk/internal/logger"
)

// QueueType selects how copies of one service share a subscription.
type QueueType int

const (
	// SharedQueue delivers each message to one instance of the service.
	SharedQueue QueueType = iota
	// FanOutQueue delivers each message to every instance.
	FanOutQueue
)

const (
	publishAttempts   = 3
	publishRetryDelay = 100 * time.Millisecond
)

type subscription struct {
	subject string
	queue   QueueType
	group   string
	handler MessageHandler
}

// PubSubClient is the NATS client of a service.
type PubSubClient struct {
	settings config.PubSubSettings
	appName  string

	mu      sync.RWMutex
	conn    *nats.Conn
	subs    []subscription
	ctx     context.Context
	ready   chan struct{}
	start   sync.Once
	wg      sync.WaitGroup
	connect func(url string, opts ...nats.Option) (*nats.Conn, error)

	logger *logger.Logger
}

var (
	_ Publisher  = (*PubSubClient)(nil)
	_ Subscriber = (*PubSubClient)(nil)
)

// NewPubSubClient returns an idle client. appName names the connection and
// the shared queue groups.
func NewPubSubClient(settings config.PubSubSettings, appName string, logger *logger.Logger) *PubSubClient {
	return &PubSubClient{
		settings: settings,
		appName:  appName,
		ctx:      context.Background(),
		ready:    make(chan struct{}),
		connect:  nats.Connect,
		logger:   logger,
	}
}

// BrokerURL turns a "host:port" address into a nats:// URL.
func BrokerURL(hostPort string) string {
	if hostPort == "" || strings.Contains(hostPort, "://") {
		return hostPort
	}
	return "nats://" + hostPort
}

// Start launches the connection loop.
func (c *PubSubClient) Start(state *appstate.AppStates, logger *logger.Logger) {
	c.start.Do(func() {
		c.mu.Lock()
		c.ctx = state.Context()
		c.logger = logger
		c.mu.Unlock()

		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.connectLoop(state)
		}()
	})
}

// Wait blocks until the connection loop has exited.
func (c *PubSubClient) Wait() {
	c.wg.Wait()
}

func (c *PubSubClient) connectLoop(state *appstate.AppStates) {
	url := BrokerURL(c.settings.PubSubHostPort())
	if url == "" {
		c.logger.Err(ErrNoPubSubAddress).Msg("pub/sub connection abandoned")
		return
	}

	interval := c.settings.PubSubRetryInterval()
	if interval <= 0 {
		interval = config.DefaultRetryInterval
	}

	for attempt := 1; ; attempt++ {
		conn, err := c.connect(url, c.options(interval)...)
		if err == nil {
			if err = c.attach(conn); err == nil {
				c.logger.Info().Str("url", url).Int("attempt", attempt).Msg("pub/sub connected")
				return
			}
			conn.Close()
		}

		c.logger.Warn().Err(err).Str("url", url).Int("attempt", attempt).Dur("retry_in", interval).Msg("pub/sub connection failed")

		timer := time.NewTimer(interval)
		select {
		case <-state.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (c *PubSubClient) options(reconnectWait time.Duration) []nats.Option {
	return []nats.Option{
		nats.Name(c.appName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				c.logger.Warn().Err(err).Msg("pub/sub disconnected")
			}
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			c.logger.Info().Str("url", conn.ConnectedUrl()).Msg("pub/sub reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			ev := c.logger.Err(err)
			if sub != nil {
				ev = ev.Str("subject", sub.Subject)
			}
			ev.Msg("pub/sub async error")
		}),
	}
}

// attach publishes conn and applies every pending subscription.
func (c *PubSubClient) attach(conn *nats.Conn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.subs {
		if err := c.subscribeLocked(conn, s); err != nil {
			return err
		}
	}

	c.conn = conn
	close(c.ready)
	return nil
}

// Connected reports whether the broker connection is up.
func (c *PubSubClient) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && c.conn.IsConnected()
}

// WaitConnected blocks until the first connection is established or ctx
// is done.
func (c *PubSubClient) WaitConnected(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers handler for subject. A shared queue is named after
// the service.
func (c *PubSubClient) Subscribe(subject string, queue QueueType, handler MessageHandler) error {
	return c.SubscribeWithSuffix(subject, queue, "", handler)
}

// SubscribeWithSuffix registers handler for subject in the shared queue
// <service name><suffix>, letting one service hold several independent
// queues on the same subject.
func (c *PubSubClient) SubscribeWithSuffix(subject string, queue QueueType, suffix string, handler MessageHandler) error {
	if subject == "" {
		return ErrEmptySubject
	}

	s := subscription{subject: subject, queue: queue, group: c.appName + suffix, handler: handler}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.subs = append(c.subs, s)
	if c.conn == nil {
		return nil
	}
	return c.subscribeLocked(c.conn, s)
}

func (c *PubSubClient) subscribeLocked(conn *nats.Conn, s subscription) error {
	cb := func(m *nats.Msg) {
		c.dispatch(s, m)
	}

	var err error
	if s.queue == SharedQueue {
		_, err = conn.QueueSubscribe(s.subject, s.group, cb)
	} else {
		_, err = conn.Subscribe(s.subject, cb)
	}
	if err != nil {
		return fmt.Errorf("error subscribing to %s: %w", s.subject, err)
	}
	return nil
}

func (c *PubSubClient) dispatch(s subscription, m *nats.Msg) {
	c.mu.RLock()
	ctx := c.ctx
	c.mu.RUnlock()

	msg := Message{Subject: m.Subject, Data: m.Data, Headers: m.Header}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Str("subject", m.Subject).Interface("panic", r).Msg("pub/sub handler panicked")
		}
	}()

	if err := s.handler(ctx, msg); err != nil {
		c.logger.Err(err).Str("subject", m.Subject).Str("queue", s.group).Msg("pub/sub handler failed")
	}
}

// Publish sends payload to subject, retrying transient failures.
func (c *PubSubClient) Publish(ctx context.Context, subject string, payload []byte) error {
	if subject == "" {
		return ErrEmptySubject
	}

	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = c.publishOnce(subject, payload)
		if err == nil || errors.Is(err, nats.ErrBadSubject) || errors.Is(err, nats.ErrMaxPayload) {
			return err
		}
		if attempt == publishAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(publishRetryDelay * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("publish to %s failed after %d attempts: %w", subject, publishAttempts, err)
}

func (c *PubSubClient) publishOnce(subject string, payload []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}
	return conn.Publish(subject, payload)
}

// Close drains subscriptions and closes the connection.
func (c *PubSubClient) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	if err := conn.Drain(); err != nil {
		conn.Close()
		return fmt.Errorf("error draining pub/sub connection: %w", err)
	}
	return nil
}
