package messaging

import (
	"fmt"

	"github.com/pixil98/go-spellbook/internal/spell"
)

// PlayerSubject carries text output for a player's terminal.
func PlayerSubject(player spell.PlayerId) string {
	return fmt.Sprintf("player-%s", player)
}

// SyncSubject carries encoded slot and cooldown pushes for a player's mirrors.
func SyncSubject(player spell.PlayerId) string {
	return fmt.Sprintf("spells-%s", player)
}

type Publisher interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher routes per-player traffic to the player's subjects.
type NatsPublisher struct {
	publisher Publisher
}

func NewNatsPublisher(p Publisher) *NatsPublisher {
	return &NatsPublisher{publisher: p}
}

// SendToPlayer publishes a sync payload. It never waits for the player to receive it.
func (p *NatsPublisher) SendToPlayer(player spell.PlayerId, data []byte) error {
	return p.publisher.Publish(SyncSubject(player), data)
}

// Message publishes text to the player's terminal.
func (p *NatsPublisher) Message(player spell.PlayerId, text string) error {
	return p.publisher.Publish(PlayerSubject(player), []byte(text))
}
