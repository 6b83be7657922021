package events

import (
	"encoding/json"

	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/server/connection"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EventEnvelope wraps an event with its name for client consumption
type EventEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload is sent back to the client whose command failed
type ErrorPayload struct {
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

const (
	ErrorName = "ERROR"
	ViewName  = "TABLE_VIEW"
)

// Encode builds the wire form of a named payload
func Encode(name string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s payload", name)
	}
	data, err := json.Marshal(EventEnvelope{Name: name, Payload: raw})
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s envelope", name)
	}
	return data, nil
}

// Dispatcher handles routing events to clients
type Dispatcher struct {
	connMgr *connection.Manager
	log     logrus.FieldLogger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(connMgr *connection.Manager, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		connMgr: connMgr,
		log:     log,
	}
}

// HandleEvent processes domain events and sends them to clients. It runs
// under the table's lock and must not block.
func (d *Dispatcher) HandleEvent(event events.Event) {
	envelopeData, err := Encode(event.Name(), event)
	if err != nil {
		d.log.WithError(err).Error("failed to encode event")
		return
	}

	switch e := event.(type) {
	case events.HoleCardsDealt:
		// Only send to specific player
		d.connMgr.SendToPlayer(e.PlayerID, envelopeData)

	case events.TimeUpdated:
		// too chatty to log
		d.connMgr.SendToTable(e.TableID, envelopeData)

	default:
		tableID, err := events.TableOf(event)
		if err != nil {
			d.log.WithError(err).WithField("event", event.Name()).Warn("dropping event")
			return
		}
		d.log.WithFields(logrus.Fields{"event": event.Name(), "table_id": tableID}).Debug("dispatching event")
		d.connMgr.SendToTable(tableID, envelopeData)
	}
}

// SendError reports a failed command to the client that sent it
func (d *Dispatcher) SendError(clientID string, cmdErr error) {
	payload := ErrorPayload{Message: cmdErr.Error()}
	if reason, ok := domain.ReasonOf(cmdErr); ok {
		payload.Reason = string(reason)
	}

	data, err := Encode(ErrorName, payload)
	if err != nil {
		d.log.WithError(err).Error("failed to encode error")
		return
	}
	d.connMgr.SendToClient(clientID, data)
}
