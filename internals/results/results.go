// Package results applies match result events to the ledger.
package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/kridavyuha/cricket-pools/internals/ledger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "match_results"

var (
	ErrInvalidEvent = errors.New("invalid match result event")
	ErrUnknownMatch = errors.New("unknown match")
)

type Updater interface {
	GetMatchByID(id int) (*ledger.Match, bool)
	UpdateMatchResults(ctx context.Context, m ledger.Match) error
}

type Consumer struct {
	updater Updater
}

func NewConsumer(u Updater) *Consumer {
	return &Consumer{updater: u}
}

// Decode parses one event body. Only the id is checked here; the rest is
// checked against the cached match by Apply.
func Decode(body []byte) (ledger.Match, error) {
	var m ledger.Match
	if err := json.Unmarshal(body, &m); err != nil {
		return m, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if m.ID <= 0 {
		return m, fmt.Errorf("%w: missing match id", ErrInvalidEvent)
	}
	return m, nil
}

// Apply lays the event's status and result over the cached match. An event
// naming a different tournament or different teams is rejected.
func Apply(cached, event ledger.Match) (ledger.Match, error) {
	if event.ID != cached.ID {
		return cached, fmt.Errorf("%w: event for match %d applied to match %d", ErrInvalidEvent, event.ID, cached.ID)
	}
	if event.TournamentID != 0 && event.TournamentID != cached.TournamentID {
		return cached, fmt.Errorf("%w: match %d belongs to tournament %d, not %d", ErrInvalidEvent, cached.ID, cached.TournamentID, event.TournamentID)
	}
	if (event.Team1.ID != 0 && event.Team1.ID != cached.Team1.ID) || (event.Team2.ID != 0 && event.Team2.ID != cached.Team2.ID) {
		return cached, fmt.Errorf("%w: teams do not match match %d", ErrInvalidEvent, cached.ID)
	}

	merged := cached
	merged.Status = event.Status
	merged.Result = nil
	if event.Result != nil {
		r := *event.Result
		merged.Result = &r
	}
	if err := Validate(merged); err != nil {
		return cached, err
	}
	return merged, nil
}

func Validate(m ledger.Match) error {
	if m.ID <= 0 {
		return fmt.Errorf("%w: missing match id", ErrInvalidEvent)
	}
	switch m.Status {
	case ledger.MatchUpcoming, ledger.MatchLive:
	case ledger.MatchCompleted:
		if m.Result == nil {
			return fmt.Errorf("%w: completed match %d has no result", ErrInvalidEvent, m.ID)
		}
		if m.Team1.ID == 0 || m.Team2.ID == 0 {
			return fmt.Errorf("%w: completed match %d has no teams", ErrInvalidEvent, m.ID)
		}
		w := m.Result.Winner
		if w != ledger.DrawWinner && w != m.Team1.ID && w != m.Team2.ID {
			return fmt.Errorf("%w: winner %d did not play match %d", ErrInvalidEvent, w, m.ID)
		}
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidEvent, m.Status)
	}
	return nil
}

func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	event, err := Decode(body)
	if err != nil {
		return err
	}
	cached, ok := c.updater.GetMatchByID(event.ID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMatch, event.ID)
	}
	m, err := Apply(*cached, event)
	if err != nil {
		return err
	}
	return c.updater.UpdateMatchResults(ctx, m)
}

// Run handles deliveries until ctx is done or the channel closes.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Printf("[results] delivery channel closed")
				return
			}
			log.Printf(" [x] %s", d.Body)
			if err := c.Handle(ctx, d.Body); err != nil {
				log.Printf("[results] dropping event: %v", err)
			}
		}
	}
}

// Subscribe binds an exclusive queue to the fanout exchange and starts
// consuming from it.
func Subscribe(ch *amqp.Channel, exchange string) (<-chan amqp.Delivery, error) {
	err := ch.ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare an exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,   // queue name
		"",       // routing key
		exchange, // exchange
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to bind a queue: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name, // queue
		"",     // consumer
		true,   // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register a consumer: %w", err)
	}
	return msgs, nil
}
