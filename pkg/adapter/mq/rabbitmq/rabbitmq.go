// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rabbitmq publishes the committed rental changes as JSON
// messages on a RabbitMQ topic exchange. The routing key of each
// message is its event kind, like rental.created, so consumers (e.g.,
// a mailer) may bind their queues to a subset of the events.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the name of the topic exchange which is used when
// no exchange name is configured.
const DefaultExchange = "crweb.rentals"

const publishTimeout = 5 * time.Second

// Publisher realizes the rentalsuc.Notifier interface. It is safe for
// concurrent use. A closed channel is reopened on the next publication.
type Publisher struct {
	url      string
	exchange string

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// New connects to the `url` broker, retrying up to `attempts` times
// with an exponential backoff, and declares the durable `exchange`
// topic exchange.
func New(ctx context.Context, url, exchange string, attempts int) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if attempts < 1 {
		attempts = 1
	}
	p := &Publisher{url: url, exchange: exchange}
	delay := time.Second
	for i := 1; ; i++ {
		err := p.connect()
		if err == nil {
			log.Info(
				ctx, "connected to rabbitmq",
				slog.String("exchange", exchange), slog.Int("attempt", i),
			)
			return p, nil
		}
		if i == attempts {
			return nil, fmt.Errorf("connecting after %d attempts: %w", i, err)
		}
		log.Warn(
			ctx, "connecting to rabbitmq failed",
			log.Err("err", err), slog.Duration("retry-in", delay),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*3/2, 30*time.Second)
	}
}

// connect must be called while p.mu is held or before p is shared.
func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("opening channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		p.exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declaring %q exchange: %w", p.exchange, err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, errors.New("publisher is closed")
	}
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
	if err := p.connect(); err != nil {
		return nil, fmt.Errorf("reconnecting: %w", err)
	}
	return p.ch, nil
}

// RentalEvent publishes the `ev` event as a persistent message.
func (p *Publisher) RentalEvent(ctx context.Context, ev *model.RentalEvent) error {
	msg, err := Message(ev)
	if err != nil {
		return err
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	err = ch.PublishWithContext(
		ctx, p.exchange, ev.Kind.String(),
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("publishing %s event: %w", ev.Kind, err)
	}
	return nil
}

// Message encodes the `ev` event as a persistent JSON message.
func Message(ev *model.RentalEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encoding %s event: %w", ev.Kind, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId: fmt.Sprintf(
			"%s/%s/%d", ev.Rental.ID, ev.Kind, ev.At.UnixNano(),
		),
		Timestamp: ev.At,
		Type:      ev.Kind.String(),
		Body:      body,
	}, nil
}

// Close closes the channel and connection. It is idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
