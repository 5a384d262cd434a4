package lobbyqueue

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/weedbox/timebank"
)

type trackedMessage struct {
	destination string
	messageID   string
	sentAt      time.Time
	tb          *timebank.TimeBank
}

// MessageTracker keeps the last few queue announcements per
// (destination, size class) and deletes older ones, but never before they
// have been visible for the grace delay.
type MessageTracker struct {
	mu       sync.Mutex
	notifier Notifier
	keep     int
	delay    time.Duration
	messages map[string][]*trackedMessage
	pending  []*trackedMessage
}

func NewMessageTracker(notifier Notifier, keep int, delay time.Duration) *MessageTracker {
	return &MessageTracker{
		notifier: notifier,
		keep:     keep,
		delay:    delay,
		messages: make(map[string][]*trackedMessage),
	}
}

// Track registers a newly sent message and schedules cleanup of messages
// pushed beyond the keep limit.
func (t *MessageTracker) Track(destination, sizeClass, messageID string) {
	if destination == "" || messageID == "" {
		return
	}

	key := fmt.Sprintf("%s-%s", destination, sizeClass)

	t.mu.Lock()
	t.messages[key] = append(t.messages[key], &trackedMessage{
		destination: destination,
		messageID:   messageID,
		sentAt:      time.Now(),
	})

	if len(t.messages[key]) <= t.keep {
		t.mu.Unlock()
		return
	}

	expired := t.messages[key][:len(t.messages[key])-t.keep]
	t.messages[key] = t.messages[key][len(t.messages[key])-t.keep:]
	t.mu.Unlock()

	for _, msg := range expired {
		age := time.Since(msg.sentAt)
		if age >= t.delay {
			t.delete(msg)
			continue
		}

		msg.tb = timebank.NewTimeBank()
		m := msg
		_ = msg.tb.NewTask(t.delay-age, func(isCancelled bool) {
			if isCancelled {
				return
			}
			t.delete(m)
		})

		t.mu.Lock()
		t.pending = append(t.pending, msg)
		t.mu.Unlock()
	}
}

// Close cancels every scheduled deletion.
func (t *MessageTracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, msg := range t.pending {
		msg.tb.Cancel()
	}
	t.pending = nil
	t.messages = make(map[string][]*trackedMessage)
}

func (t *MessageTracker) delete(msg *trackedMessage) {
	if err := t.notifier.DeleteFromDestination(msg.destination, msg.messageID); err != nil {
		log.WithFields(log.Fields{
			"destination": msg.destination,
			"message_id":  msg.messageID,
		}).WithError(err).Warn("failed to delete tracked message")
	}
}
