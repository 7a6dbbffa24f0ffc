package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Message wraps an AMQP delivery with its decoded job.
type Message struct {
	Job         *Job
	DeliveryTag uint64
	Channel     *amqp.Channel
}

// Ack acknowledges the message.
func (m *Message) Ack() error {
	if m.Channel == nil {
		return fmt.Errorf("no channel available for ack")
	}
	return m.Channel.Ack(m.DeliveryTag, false)
}

// Nack negatively acknowledges the message. With requeue false the
// message dead-letters to the DLQ.
func (m *Message) Nack(requeue bool) error {
	if m.Channel == nil {
		return fmt.Errorf("no channel available for nack")
	}
	return m.Channel.Nack(m.DeliveryTag, false, requeue)
}

// GetJob returns the decoded job.
func (m *Message) GetJob() *Job {
	return m.Job
}
