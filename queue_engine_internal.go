package lobbyqueue

import (
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/weedbox/syncsaga"
)

type departure struct {
	sizeClass   string
	player      string
	destination string
	pool        *Pool
	current     int
}

/*
tryOpenRoundLocked opens a confirmation round for the key when the pool has
reached its required size and no round is already pending. The round captures
a snapshot of the first RequiredSize members; later joins and pool mutations
do not affect it. Caller holds the engine lock. The ready group is armed
before the round is published, so a response arriving the moment the lock is
released is already counted.
*/
func (qe *queueEngine) tryOpenRoundLocked(communityID, sizeClass string, pool *Pool, preferredDestination string) *ConfirmationRound {
	snapshot := pool.SnapshotFull()
	if snapshot == nil {
		return nil
	}
	if _, exists := qe.store.Round(communityID, sizeClass); exists {
		return nil
	}

	members := make([]*RoundMember, len(snapshot))
	destinations := make([]string, 0, len(snapshot)+1)
	destinations = append(destinations, preferredDestination)
	for i, p := range snapshot {
		members[i] = &RoundMember{Participant: p}
		destinations = append(destinations, p.Destination)
	}

	round := &ConfirmationRound{
		ID:          uuid.New().String(),
		CommunityID: communityID,
		SizeClass:   sizeClass,
		Members:     members,
		Destination: firstDestination(destinations...),
		CreatedAt:   time.Now().Unix(),
	}

	rg := syncsaga.NewReadyGroup()
	rg.SetTimeoutInterval(qe.options.ConfirmTimeout)
	roundID := round.ID
	rg.OnTimeout(func(rg *syncsaga.ReadyGroup) {
		qe.resolveRound(communityID, sizeClass, roundID)
	})
	rg.OnCompleted(func(rg *syncsaga.ReadyGroup) {
		qe.resolveRound(communityID, sizeClass, roundID)
	})
	for i := range members {
		rg.Add(int64(i), false)
	}
	rg.Start()
	round.rg = rg

	qe.store.SetRound(round)
	return round
}

/*
dispatchConfirmations announces the round and asks every member to confirm.
A member that cannot be reached counts as an immediate decline rather than
stalling the round until timeout. Synthetic members confirm themselves. Must
be called without the engine lock held; the auto-responses below re-enter
RecordResponse.
*/
func (qe *queueEngine) dispatchConfirmations(round *ConfirmationRound) {
	qe.onRoundOpened(round)

	qe.announce(round.Destination, round.SizeClass,
		RoundOpenAnnouncement(round.SizeClass, memberNames(round.Members)))

	autoConfirm := make([]string, 0)
	autoDecline := make([]string, 0)
	for _, member := range round.Members {
		p := member.Participant
		if p.Synthetic {
			autoConfirm = append(autoConfirm, p.ID)
			continue
		}
		if err := qe.notifier.RequestConfirmation(*p, round.CommunityID, round.SizeClass); err != nil {
			log.WithFields(log.Fields{
				"community":   round.CommunityID,
				"size_class":  round.SizeClass,
				"participant": p.ID,
			}).WithError(err).Warn("confirmation request undeliverable, counting as decline")
			autoDecline = append(autoDecline, p.ID)
		}
	}

	for _, id := range autoDecline {
		_ = qe.RecordResponse(round.CommunityID, round.SizeClass, id, false)
	}
	for _, id := range autoConfirm {
		_ = qe.RecordResponse(round.CommunityID, round.SizeClass, id, true)
	}
}

/*
resolveRound finishes a round exactly once, whether the trigger was the last
answer arriving or the timeout firing. The resolved flag decides the race:
whichever caller flips it does the work, the other returns. Every snapshot
member leaves the pool on resolution. A session starts only when all of them
confirmed; a partial set of confirmations cancels the session and the
confirmed members are not requeued.
*/
func (qe *queueEngine) resolveRound(communityID, sizeClass, roundID string) {
	qe.lock.Lock()
	round, exists := qe.store.Round(communityID, sizeClass)
	if !exists || round.ID != roundID || round.resolved {
		qe.lock.Unlock()
		return
	}
	round.resolved = true

	confirmed, declined, silent := round.Partition()
	pool, _ := qe.store.Pool(communityID, sizeClass)
	for _, member := range round.Members {
		pool.RemoveMember(member.Participant.ID)
	}
	started := len(confirmed) == pool.RequiredSize

	qe.store.DeleteRound(communityID, sizeClass)

	// Stop stays under the lock so it cannot interleave with a Ready racing
	// in through RecordResponse.
	round.rg.Stop()

	var next *ConfirmationRound
	if len(pool.Members) >= pool.RequiredSize {
		next = qe.tryOpenRoundLocked(communityID, sizeClass, pool, round.Destination)
	}
	qe.lock.Unlock()

	for _, member := range silent {
		if member.Participant.Synthetic {
			continue
		}
		if err := qe.notifier.NotifyRemoval(*member.Participant, sizeClass, RemovalReason_NoResponse); err != nil {
			log.WithFields(log.Fields{
				"community":   communityID,
				"participant": member.Participant.ID,
			}).WithError(err).Warn("removal notice undeliverable")
		}
	}

	if started {
		qe.announce(round.Destination, sizeClass,
			SessionReadyAnnouncement(sizeClass, memberNames(confirmed)))
	} else {
		qe.announce(round.Destination, sizeClass,
			SessionCancelledAnnouncement(sizeClass, len(confirmed), len(declined), len(silent)))
	}

	log.WithFields(log.Fields{
		"community":  communityID,
		"size_class": sizeClass,
		"round":      roundID,
		"confirmed":  len(confirmed),
		"declined":   len(declined),
		"silent":     len(silent),
		"started":    started,
	}).Info("confirmation round resolved")

	qe.onQueueUpdated(communityID, sizeClass, pool)
	qe.onRoundResolved(round, started)

	if next != nil {
		qe.dispatchConfirmations(next)
	}
}

/*
removeFromOtherPoolsLocked pulls a freshly confirmed participant out of every
other pool of the community. The departure destination falls back from the
round's destination to the participant's own, then to any other member of the
pool being left. Caller holds the engine lock.
*/
func (qe *queueEngine) removeFromOtherPoolsLocked(communityID, sizeClass string, round *ConfirmationRound, p *Participant) []departure {
	queues := qe.store.GetOrCreateQueues(communityID)
	departures := make([]departure, 0)
	for _, class := range SizeClasses {
		if class == sizeClass {
			continue
		}
		pool := queues[class]
		if !pool.HasMember(p.ID) {
			continue
		}
		destination := firstDestination(round.Destination, p.Destination,
			otherMemberDestination(pool, p.ID))
		pool.RemoveMember(p.ID)
		departures = append(departures, departure{
			sizeClass:   class,
			player:      p.DisplayName,
			destination: destination,
			pool:        pool,
			current:     len(pool.Members),
		})
	}
	return departures
}

// communityRoundDestinationLocked borrows a destination from any round in
// flight for the community. Caller holds the engine lock.
func (qe *queueEngine) communityRoundDestinationLocked(communityID string) string {
	for key, round := range qe.store.rounds {
		if strings.HasPrefix(key, communityID+"-") && round.Destination != "" {
			return round.Destination
		}
	}
	return ""
}

// announce delivers a queue announcement and hands the message to the tracker
// so stale announcements get cleaned up later.
func (qe *queueEngine) announce(destination, sizeClass, content string) {
	if destination == "" {
		return
	}
	messageID, err := qe.notifier.SendToDestination(destination, content)
	if err != nil {
		log.WithFields(log.Fields{
			"destination": destination,
			"size_class":  sizeClass,
		}).WithError(err).Warn("announcement undeliverable")
		return
	}
	qe.tracker.Track(destination, sizeClass, messageID)
}

func firstDestination(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func otherMemberDestination(pool *Pool, excludeID string) string {
	for _, member := range pool.Members {
		if member.ID != excludeID && member.Destination != "" {
			return member.Destination
		}
	}
	return ""
}

func memberNames(members []*RoundMember) []string {
	names := make([]string, 0, len(members))
	for _, member := range members {
		names = append(names, member.Participant.DisplayName)
	}
	return names
}
