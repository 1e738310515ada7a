package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

const exchangeKind = "topic"

var (
	errURLRequired      = errors.New("amqp url is required")
	errExchangeRequired = errors.New("amqp exchange is required")
	errClosed           = errors.New("amqp publisher is closed")
	errNacked           = errors.New("broker did not confirm publish")
)

// Message is a single outbound delivery.
type Message struct {
	Exchange   string
	RoutingKey string
	Body       []byte
	MessageID  string
	Type       string
	Timestamp  time.Time
	Headers    map[string]string
}

// Publisher owns one connection and confirm-mode channel bound to a durable topic exchange.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	confirms chan amqp.Confirmation
	exchange string
	logg     *logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewPublisher dials the broker and declares the configured exchange.
func NewPublisher(ctx context.Context, cfg config.AMQPConfig, logg *logger.Logger) (*Publisher, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errURLRequired
	}
	exchange := strings.TrimSpace(cfg.Exchange)
	if exchange == "" {
		return nil, errExchangeRequired
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting to amqp broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening amqp channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}

	if err := channel.Confirm(false); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enabling publisher confirms: %w", err)
	}

	p := &Publisher{
		conn:     conn,
		channel:  channel,
		confirms: channel.NotifyPublish(make(chan amqp.Confirmation, 1)),
		exchange: exchange,
		logg:     logg,
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "exchange", exchange), "amqp publisher initialized")
	}
	return p, nil
}

// Exchange returns the declared exchange name.
func (p *Publisher) Exchange() string {
	return p.exchange
}

// Publish sends the message and waits for the broker confirm or ctx expiry.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.channel == nil {
		return errClosed
	}

	exchange := msg.Exchange
	if exchange == "" {
		exchange = p.exchange
	}
	if err := p.channel.Publish(exchange, msg.RoutingKey, false, false, toPublishing(msg)); err != nil {
		return fmt.Errorf("publishing %s: %w", msg.RoutingKey, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case confirm, ok := <-p.confirms:
		if !ok {
			return errClosed
		}
		if !confirm.Ack {
			return errNacked
		}
		return nil
	}
}

// Ping reports whether the underlying connection is still open.
func (p *Publisher) Ping(context.Context) error {
	if p == nil || p.conn == nil || p.conn.IsClosed() {
		return errClosed
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func toPublishing(msg Message) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.MessageID,
		Type:         msg.Type,
		Timestamp:    ts,
		Headers:      headers,
		Body:         msg.Body,
	}
}
