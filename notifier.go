package lobbyqueue

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Notifier is the delivery surface the engine talks to. Implementations wrap
// whatever chat platform actually carries the messages; every method is
// allowed to fail per call and the engine treats each failure as contained.
type Notifier interface {
	// SendToDestination posts content to an opaque destination and returns a
	// message handle usable for later cleanup.
	SendToDestination(destination, content string) (string, error)

	// DeleteFromDestination removes a previously sent message.
	DeleteFromDestination(destination, messageID string) error

	// RequestConfirmation asks the participant to confirm or decline an
	// opening session. The answer arrives later through
	// QueueEngine.RecordResponse, or never.
	RequestConfirmation(p Participant, communityID, sizeClass string) error

	// NotifyRemoval tells the participant directly why they were removed.
	// Best effort only.
	NotifyRemoval(p Participant, sizeClass string, reason RemovalReason) error
}

type nopNotifier struct{}

// NewNopNotifier returns a Notifier that swallows everything. It is the
// engine's default so tests and embedders without a transport stay silent.
func NewNopNotifier() Notifier {
	return &nopNotifier{}
}

func (n *nopNotifier) SendToDestination(destination, content string) (string, error) {
	return uuid.NewString(), nil
}

func (n *nopNotifier) DeleteFromDestination(destination, messageID string) error {
	return nil
}

func (n *nopNotifier) RequestConfirmation(p Participant, communityID, sizeClass string) error {
	return nil
}

func (n *nopNotifier) NotifyRemoval(p Participant, sizeClass string, reason RemovalReason) error {
	return nil
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier that writes every delivery to the
// structured log. The daemon uses it when no chat transport is configured.
func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) SendToDestination(destination, content string) (string, error) {
	messageID := uuid.NewString()
	log.WithFields(log.Fields{
		"destination": destination,
		"message_id":  messageID,
	}).Info(content)
	return messageID, nil
}

func (n *logNotifier) DeleteFromDestination(destination, messageID string) error {
	log.WithFields(log.Fields{
		"destination": destination,
		"message_id":  messageID,
	}).Debug("message deleted")
	return nil
}

func (n *logNotifier) RequestConfirmation(p Participant, communityID, sizeClass string) error {
	log.WithFields(log.Fields{
		"participant": p.ID,
		"community":   communityID,
		"size_class":  sizeClass,
	}).Info("confirmation requested")
	return nil
}

func (n *logNotifier) NotifyRemoval(p Participant, sizeClass string, reason RemovalReason) error {
	log.WithFields(log.Fields{
		"participant": p.ID,
		"size_class":  sizeClass,
		"reason":      reason,
	}).Info("removal notice")
	return nil
}
