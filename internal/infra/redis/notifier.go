package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/event"
)

// Notification is the JSON message published for every game event.
type Notification struct {
	Event   string          `json:"event"`
	GameID  string          `json:"gameId"`
	Seq     uint64          `json:"seq"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

// Notifier forwards game events from the in-process bus to Redis pub/sub. Each
// event goes to the game's own channel and to the shared events channel.
type Notifier struct {
	client *redis.Client
	keys   Keys
	now    func() time.Time
}

func NewNotifier(client *redis.Client, keys Keys) *Notifier {
	return &Notifier{client: client, keys: keys, now: time.Now}
}

// Register subscribes the notifier to every game event on bus.
func (n *Notifier) Register(bus *event.Bus) {
	bus.Subscribe(domain.EventNameGameStarted, n.Handle)
	bus.Subscribe(domain.EventNameQuestionResolved, n.Handle)
	bus.Subscribe(domain.EventNameGameFinished, n.Handle)
}

// Handle publishes one event.
func (n *Notifier) Handle(ctx context.Context, e event.Event) error {
	gameID, seq, err := gameOf(e)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Name(), err)
	}
	msg, err := json.Marshal(Notification{
		Event:   e.Name(),
		GameID:  gameID,
		Seq:     seq,
		At:      n.now().UTC(),
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, channel := range []string{n.keys.GameEvents(gameID), n.keys.Events()} {
		g.Go(func() error {
			if err := n.client.Publish(ctx, channel, msg).Err(); err != nil {
				return fmt.Errorf("publish to %s: %w", channel, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func gameOf(e event.Event) (id string, seq uint64, err error) {
	switch e := e.(type) {
	case domain.EventGameStarted:
		return e.GameID, e.Seq, nil
	case domain.EventQuestionResolved:
		return e.GameID, e.Seq, nil
	case domain.EventGameFinished:
		return e.GameID, e.Seq, nil
	default:
		return "", 0, fmt.Errorf("notifier: unsupported event %s", e.Name())
	}
}
