package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/civic-sense/civicsense-be/models"
)

const issueEventsQueue = "issue_events"

// Event is the message published for issue lifecycle changes
type Event struct {
	Type         string    `json:"type"`
	IssueID      string    `json:"issue_id"`
	DistrictCode string    `json:"district_code"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher writes issue events to RabbitMQ. Publication is
// best-effort: a nil Publisher is a no-op and publish failures are
// logged, never surfaced to the request.
type Publisher struct {
	ch *amqp.Channel
}

// Connect dials RabbitMQ and declares the durable issue-events queue.
// The returned connection is owned by the caller.
func Connect(uri string) (*amqp.Connection, *Publisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(issueEventsQueue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return conn, &Publisher{ch: ch}, nil
}

// Publish emits a lifecycle event for an issue.
func (p *Publisher) Publish(eventType string, issue *models.Issue) {
	if p == nil || issue == nil {
		return
	}

	body, err := json.Marshal(Event{
		Type:         eventType,
		IssueID:      issue.ID.Hex(),
		DistrictCode: issue.DistrictCode,
		Status:       string(issue.Status),
		Priority:     string(issue.Priority),
		Timestamp:    time.Now(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, "", issueEventsQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
	})
	if err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
