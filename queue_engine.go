package lobbyqueue

import (
	"fmt"
	"sync"
	"time"

	"github.com/gamelobby/lobbyqueue/timewindow"
)

type QueueEngineOpt func(*queueEngine)

// Eviction describes one availability-driven removal performed by a sweep.
type Eviction struct {
	CommunityID string
	SizeClass   string
	Participant *Participant
	Destination string
	Remaining   int
	Required    int
}

type QueueEngine interface {
	// Events
	OnQueueUpdated(fn func(communityID, sizeClass string, pool *Pool))
	OnRoundOpened(fn func(round *ConfirmationRound))
	OnRoundResolved(fn func(round *ConfirmationRound, sessionStarted bool))
	OnParticipantEvicted(fn func(eviction Eviction))

	// Queue actions
	Join(communityID, sizeClass string, p *Participant) error
	Leave(communityID, sizeClass, participantID string) ([]string, error)
	Queues(communityID string) CommunityQueues
	ActiveRound(communityID, sizeClass string) (ConfirmationRound, bool)

	// Round actions
	RecordResponse(communityID, sizeClass, participantID string, confirmed bool) error

	// Maintenance
	SweepExpired(now time.Time) []Eviction
	FillSynthetic(communityID, sizeClass string, seed *Participant) error
	SetDebugMode(enabled bool)
	DebugMode() bool
	Close()
}

type queueEngine struct {
	lock      sync.Mutex
	options   *QueueEngineOptions
	store     *Store
	notifier  Notifier
	tracker   *MessageTracker
	debugMode bool

	onQueueUpdated       func(communityID, sizeClass string, pool *Pool)
	onRoundOpened        func(round *ConfirmationRound)
	onRoundResolved      func(round *ConfirmationRound, sessionStarted bool)
	onParticipantEvicted func(eviction Eviction)
}

func NewQueueEngine(options *QueueEngineOptions, opts ...QueueEngineOpt) QueueEngine {
	callbacks := NewQueueEngineCallbacks()
	qe := &queueEngine{
		options:              options,
		store:                NewStore(),
		notifier:             NewNopNotifier(),
		onQueueUpdated:       callbacks.OnQueueUpdated,
		onRoundOpened:        callbacks.OnRoundOpened,
		onRoundResolved:      callbacks.OnRoundResolved,
		onParticipantEvicted: callbacks.OnParticipantEvicted,
	}

	for _, opt := range opts {
		opt(qe)
	}

	qe.tracker = NewMessageTracker(qe.notifier, options.TrackedMessageKeep,
		time.Duration(options.TrackedMessageDelay)*time.Second)

	return qe
}

func WithNotifier(n Notifier) QueueEngineOpt {
	return func(qe *queueEngine) {
		qe.notifier = n
	}
}

func (qe *queueEngine) OnQueueUpdated(fn func(communityID, sizeClass string, pool *Pool)) {
	qe.onQueueUpdated = fn
}

func (qe *queueEngine) OnRoundOpened(fn func(round *ConfirmationRound)) {
	qe.onRoundOpened = fn
}

func (qe *queueEngine) OnRoundResolved(fn func(round *ConfirmationRound, sessionStarted bool)) {
	qe.onRoundResolved = fn
}

func (qe *queueEngine) OnParticipantEvicted(fn func(eviction Eviction)) {
	qe.onParticipantEvicted = fn
}

/*
Join adds a participant to one pool. The availability window, if present, must
not already be expired. Reaching the pool's required size opens a confirmation
round unless one is already pending for the key; in that case the newcomer
waits as overflow for the next round.
*/
func (qe *queueEngine) Join(communityID, sizeClass string, p *Participant) error {
	if _, err := RequiredSize(sizeClass); err != nil {
		return err
	}
	if p.Window != nil && timewindow.IsExpired(p.Window.End, time.Now()) {
		return ErrWindowExpired
	}
	if p.JoinedAt == 0 {
		p.JoinedAt = time.Now().Unix()
	}

	qe.lock.Lock()
	if err := qe.store.Join(communityID, sizeClass, p); err != nil {
		qe.lock.Unlock()
		return err
	}
	pool, _ := qe.store.Pool(communityID, sizeClass)
	current := len(pool.Members)
	round := qe.tryOpenRoundLocked(communityID, sizeClass, pool, p.Destination)
	qe.lock.Unlock()

	qe.announce(p.Destination, sizeClass,
		JoinAnnouncement(p.DisplayName, sizeClass, current, pool.RequiredSize))
	qe.onQueueUpdated(communityID, sizeClass, pool)

	if round != nil {
		qe.dispatchConfirmations(round)
	}
	return nil
}

/*
Leave removes a participant from one pool, or every pool of the community when
sizeClass is SizeClass_All. Absence is reported as ErrNotQueued without any
state change; repeating the call repeats the signal.
*/
func (qe *queueEngine) Leave(communityID, sizeClass, participantID string) ([]string, error) {
	if sizeClass != SizeClass_All {
		if _, err := RequiredSize(sizeClass); err != nil {
			return nil, err
		}
	}

	qe.lock.Lock()
	queues := qe.store.GetOrCreateQueues(communityID)
	left := make([]string, 0)
	departures := make([]departure, 0)
	for _, class := range SizeClasses {
		if sizeClass != SizeClass_All && class != sizeClass {
			continue
		}
		pool := queues[class]
		idx := pool.FindMemberIdx(participantID)
		if idx == UnsetValue {
			continue
		}
		p := pool.Members[idx]
		destination := firstDestination(p.Destination, otherMemberDestination(pool, participantID))
		pool.RemoveMember(participantID)
		left = append(left, class)
		departures = append(departures, departure{
			sizeClass:   class,
			player:      p.DisplayName,
			destination: destination,
			pool:        pool,
			current:     len(pool.Members),
		})
	}
	qe.lock.Unlock()

	if len(left) == 0 {
		return nil, ErrNotQueued
	}

	for _, d := range departures {
		qe.announce(d.destination, d.sizeClass,
			LeaveAnnouncement(d.player, d.sizeClass, d.current, d.pool.RequiredSize))
		qe.onQueueUpdated(communityID, d.sizeClass, d.pool)
	}
	return left, nil
}

// Queues returns a point-in-time copy of a community's pools for display.
func (qe *queueEngine) Queues(communityID string) CommunityQueues {
	qe.lock.Lock()
	defer qe.lock.Unlock()

	queues := qe.store.GetOrCreateQueues(communityID)
	snapshot := make(CommunityQueues, len(queues))
	for sizeClass, pool := range queues {
		members := make([]*Participant, len(pool.Members))
		copy(members, pool.Members)
		snapshot[sizeClass] = &Pool{RequiredSize: pool.RequiredSize, Members: members}
	}
	return snapshot
}

// ActiveRound returns a copy of the in-flight round for the key, if any.
func (qe *queueEngine) ActiveRound(communityID, sizeClass string) (ConfirmationRound, bool) {
	qe.lock.Lock()
	defer qe.lock.Unlock()

	round, ok := qe.store.Round(communityID, sizeClass)
	if !ok {
		return ConfirmationRound{}, false
	}

	clone := *round
	clone.rg = nil
	clone.Members = make([]*RoundMember, len(round.Members))
	for i, member := range round.Members {
		m := *member
		clone.Members[i] = &m
	}
	return clone, true
}

/*
RecordResponse feeds one participant's confirm/decline answer into the active
round. Responses that cannot be matched to a round, or that arrive after the
round resolved, are rejected with ErrMissingRoundContext; a repeated answer
from the same participant is a silent no-op. Declining removes the participant
from the live pool immediately. Confirming removes them from every other pool
of the community, since a participant can only be mid-session for one size
class at a time.
*/
func (qe *queueEngine) RecordResponse(communityID, sizeClass, participantID string, confirmed bool) error {
	qe.lock.Lock()
	round, exists := qe.store.Round(communityID, sizeClass)
	if !exists || round.resolved {
		qe.lock.Unlock()
		return ErrMissingRoundContext
	}
	idx := round.FindMemberIdx(participantID)
	if idx == UnsetValue {
		qe.lock.Unlock()
		return ErrMissingRoundContext
	}
	member := round.Members[idx]
	if member.Responded {
		qe.lock.Unlock()
		return nil
	}
	member.Responded = true
	member.Confirmed = confirmed

	var pool *Pool
	var departures []departure
	if confirmed {
		departures = qe.removeFromOtherPoolsLocked(communityID, sizeClass, round, member.Participant)
	} else {
		pool, _ = qe.store.Pool(communityID, sizeClass)
		pool.RemoveMember(participantID)
	}

	// Ready never blocks and completion callbacks run on their own goroutine,
	// so it stays under the lock to serialize with the timeout path's Stop.
	round.rg.Ready(int64(idx))
	qe.lock.Unlock()

	for _, d := range departures {
		qe.announce(d.destination, d.sizeClass,
			LeaveAnnouncement(d.player, d.sizeClass, d.current, d.pool.RequiredSize))
		qe.onQueueUpdated(communityID, d.sizeClass, d.pool)
	}
	if pool != nil {
		qe.onQueueUpdated(communityID, sizeClass, pool)
	}
	return nil
}

/*
SweepExpired evicts every member whose availability window has elapsed, across
all communities and pools. Expired members are collected first and removed
afterwards, so removal never races the scan. Members without a window never
expire. In-flight confirmation rounds are untouched: a mid-round member can
lose their pool seat here, but the round still resolves on its own snapshot.
*/
func (qe *queueEngine) SweepExpired(now time.Time) []Eviction {
	qe.lock.Lock()
	evictions := make([]Eviction, 0)
	for communityID, queues := range qe.store.communities {
		for _, sizeClass := range SizeClasses {
			pool := queues[sizeClass]

			expired := make([]*Participant, 0)
			for _, member := range pool.Members {
				if member.Window != nil && timewindow.IsExpired(member.Window.End, now) {
					expired = append(expired, member)
				}
			}

			for _, p := range expired {
				pool.RemoveMember(p.ID)
				destination := firstDestination(
					p.Destination,
					qe.communityRoundDestinationLocked(communityID),
				)
				evictions = append(evictions, Eviction{
					CommunityID: communityID,
					SizeClass:   sizeClass,
					Participant: p,
					Destination: destination,
					Remaining:   len(pool.Members),
					Required:    pool.RequiredSize,
				})
			}
		}
	}
	qe.lock.Unlock()

	for _, eviction := range evictions {
		qe.announce(eviction.Destination, eviction.SizeClass,
			ExpiredAnnouncement(eviction.Participant.DisplayName, eviction.SizeClass,
				eviction.Remaining, eviction.Required))
		qe.onParticipantEvicted(eviction)
	}
	return evictions
}

/*
FillSynthetic resets a pool to the seed participant plus enough synthetic
always-confirming members to fill it, then runs the regular confirmation
path. Debug mode must be enabled; nothing else about the coordinator changes.
*/
func (qe *queueEngine) FillSynthetic(communityID, sizeClass string, seed *Participant) error {
	required, err := RequiredSize(sizeClass)
	if err != nil {
		return err
	}
	if !qe.DebugMode() {
		return ErrDebugModeDisabled
	}
	if seed.JoinedAt == 0 {
		seed.JoinedAt = time.Now().Unix()
	}

	qe.lock.Lock()
	pool, _ := qe.store.Pool(communityID, sizeClass)
	pool.Members = pool.Members[:0]
	pool.Members = append(pool.Members, seed)
	for i := 1; i < required; i++ {
		pool.Members = append(pool.Members, &Participant{
			ID:          fmt.Sprintf("synthetic-%d", i),
			DisplayName: fmt.Sprintf("SyntheticPlayer%d", i),
			JoinedAt:    seed.JoinedAt,
			Destination: seed.Destination,
			Synthetic:   true,
		})
	}
	round := qe.tryOpenRoundLocked(communityID, sizeClass, pool, seed.Destination)
	qe.lock.Unlock()

	qe.announce(seed.Destination, sizeClass,
		JoinAnnouncement(seed.DisplayName, sizeClass, required, required))
	qe.onQueueUpdated(communityID, sizeClass, pool)

	if round != nil {
		qe.dispatchConfirmations(round)
	}
	return nil
}

func (qe *queueEngine) SetDebugMode(enabled bool) {
	qe.lock.Lock()
	defer qe.lock.Unlock()
	qe.debugMode = enabled
}

func (qe *queueEngine) DebugMode() bool {
	qe.lock.Lock()
	defer qe.lock.Unlock()
	return qe.debugMode
}

// Close stops pending round timers and message cleanup tasks.
func (qe *queueEngine) Close() {
	qe.lock.Lock()
	for _, round := range qe.store.ActiveRounds() {
		round.resolved = true
		round.rg.Stop()
	}
	qe.lock.Unlock()

	qe.tracker.Close()
}
