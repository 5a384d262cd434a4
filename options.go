package lobbyqueue

type QueueEngineCallbacks struct {
	OnQueueUpdated       func(communityID, sizeClass string, pool *Pool)
	OnRoundOpened        func(round *ConfirmationRound)
	OnRoundResolved      func(round *ConfirmationRound, sessionStarted bool)
	OnParticipantEvicted func(eviction Eviction)
}

func NewQueueEngineCallbacks() *QueueEngineCallbacks {
	return &QueueEngineCallbacks{
		OnQueueUpdated:       func(string, string, *Pool) {},
		OnRoundOpened:        func(*ConfirmationRound) {},
		OnRoundResolved:      func(*ConfirmationRound, bool) {},
		OnParticipantEvicted: func(Eviction) {},
	}
}

type QueueEngineOptions struct {
	ConfirmTimeout      int // Seconds a confirmation round stays open
	TrackedMessageKeep  int // Announcements retained per destination and pool
	TrackedMessageDelay int // Seconds an announcement stays visible before cleanup
}

func NewQueueEngineOptions() *QueueEngineOptions {
	return &QueueEngineOptions{
		ConfirmTimeout:      120,
		TrackedMessageKeep:  3,
		TrackedMessageDelay: 20,
	}
}
