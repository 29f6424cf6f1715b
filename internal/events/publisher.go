package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const (
	// StreamEmployees holds every event this service emits
	StreamEmployees = "EMPLOYEE_EVENTS"

	EmployeeCreated          = "employee.created"
	EmployeeUpdated          = "employee.updated"
	EmployeeDeleted          = "employee.deleted"
	EmployeePerformanceReset = "employee.performance_reset"
	PerformanceLockChanged   = "settings.performance_lock_changed"
)

var streamSubjects = []string{"employee.>", "settings.>"}

// Event is the envelope of every published message. The subject is Type.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	ProvinceID string                 `json:"provinceId,omitempty"`
	EmployeeID string                 `json:"employeeId,omitempty"`
	ActorID    string                 `json:"actorId"`
	ActorRole  string                 `json:"actorRole"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// NewEvent stamps a fresh id and timestamp
func NewEvent(eventType, actorID, actorRole string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		ActorRole: actorRole,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher emits domain events. Publishing never fails the caller; errors
// are logged by the implementation.
type Publisher interface {
	Publish(ctx context.Context, event Event)
	IsConnected() bool
	Close()
}

// NatsPublisher publishes events to a JetStream stream
type NatsPublisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the events stream. An empty url
// yields a no-op publisher.
func NewPublisher(url, name string, logger *logrus.Logger) (Publisher, error) {
	if url == "" {
		logger.Info("NATS_URL not set, domain events are disabled")
		return NoopPublisher{}, nil
	}

	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open JetStream context: %w", err)
	}

	p := &NatsPublisher{
		conn:   conn,
		js:     js,
		logger: logger.WithField("component", "events.publisher"),
	}

	if err := p.ensureStream(); err != nil {
		p.logger.WithError(err).Warnf("Failed to ensure %s stream", StreamEmployees)
	}

	return p, nil
}

func (p *NatsPublisher) ensureStream() error {
	_, err := p.js.StreamInfo(StreamEmployees)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}

	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:      StreamEmployees,
		Subjects:  streamSubjects,
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	})
	return err
}

func (p *NatsPublisher) Publish(ctx context.Context, event Event) {
	log := p.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("Failed to marshal event")
		return
	}

	msg := nats.NewMsg(event.Type)
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, event.ID)

	if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		log.WithError(err).Warn("Failed to publish event")
		return
	}
	log.Debug("Event published")
}

// IsConnected returns true if connected to NATS
func (p *NatsPublisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains the connection
func (p *NatsPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// NoopPublisher discards events
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}

func (NoopPublisher) IsConnected() bool { return false }

func (NoopPublisher) Close() {}
