package adapter

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONPublisher publishes values of T encoded as JSON on one subject.
type JSONPublisher[T any] struct {
	publisher Publisher
	subject   string
}

func NewJSONPublisher[T any](publisher Publisher, subject string) *JSONPublisher[T] {
	return &JSONPublisher[T]{publisher: publisher, subject: subject}
}

func (p *JSONPublisher[T]) Publish(ctx context.Context, v T) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s message: %w", p.subject, err)
	}
	return p.publisher.Publish(ctx, p.subject, payload)
}

// JSONHandler decodes the message body into T before calling handle.
func JSONHandler[T any](handle func(ctx context.Context, v T) error) MessageHandler {
	return func(ctx context.Context, msg Message) error {
		var v T
		if err := json.Unmarshal(msg.Data, &v); err != nil {
			return fmt.Errorf("error decoding %s message: %w", msg.Subject, err)
		}
		return handle(ctx, v)
	}
}
