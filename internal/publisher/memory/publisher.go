// Package memory provides an in-process publisher used when no Pub/Sub
// project is configured, and as a test double.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Message is one published record.
type Message struct {
	Topic   string
	Payload any
}

// Publisher records messages in memory.
type Publisher struct {
	mu       sync.Mutex
	messages []Message
	n        int
}

func New() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(_ context.Context, topic string, payload any) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	p.messages = append(p.messages, Message{Topic: topic, Payload: payload})
	return fmt.Sprintf("memory-%d", p.n), nil
}

// Messages returns a copy of everything published so far.
func (p *Publisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}
