// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter holds the clients a service uses to talk to external
// infrastructure: the pub/sub broker and the Seq log server.
//
// Both clients are owned by the service context. They connect in the
// background and keep retrying until the service shuts down, so callers
// never block on infrastructure at startup.
package adapter

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// Publisher sends a payload to a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte) error
}

// Subscriber registers handlers for subjects. Registrations made before the
// broker is reachable are applied once it is.
type Subscriber interface {
	Subscribe(subject string, queue QueueType, handler MessageHandler) error
	SubscribeWithSuffix(subject string, queue QueueType, suffix string, handler MessageHandler) error
}

// MessageHandler processes one delivered message. A returned error is
// logged; the broker does not redeliver.
type MessageHandler func(ctx context.Context, msg Message) error

// Message is a delivered pub/sub message.
type Message struct {
	Subject string
	Data    []byte
	Headers map[string][]string
}
