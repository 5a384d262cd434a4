package lobbyqueue

import (
	"github.com/weedbox/syncsaga"
)

// RoundMember is a snapshot entry of a confirmation round. The snapshot is a
// copy: pool mutations during the round never reorder it, and lookups are
// always id-based.
type RoundMember struct {
	Participant *Participant `json:"participant"`
	Responded   bool         `json:"responded"`
	Confirmed   bool         `json:"confirmed"`
}

// ConfirmationRound is the bounded-time readiness check run once a pool
// fills. At most one round exists per (community, size class) key.
type ConfirmationRound struct {
	ID          string         `json:"id"`
	CommunityID string         `json:"community_id"`
	SizeClass   string         `json:"size_class"`
	Members     []*RoundMember `json:"members"`
	Destination string         `json:"destination,omitempty"`
	CreatedAt   int64          `json:"created_at"` // Seconds

	// resolved guards the race between the timeout callback and the
	// all-responded path; whichever flips it first performs the transition.
	resolved bool
	rg       *syncsaga.ReadyGroup
}

func (r *ConfirmationRound) FindMemberIdx(participantID string) int {
	for idx, member := range r.Members {
		if member.Participant.ID == participantID {
			return idx
		}
	}
	return UnsetValue
}

func (r *ConfirmationRound) AllResponded() bool {
	for _, member := range r.Members {
		if !member.Responded {
			return false
		}
	}
	return true
}

// Partition splits the snapshot into confirmed, declined and non-responding
// members.
func (r *ConfirmationRound) Partition() (confirmed, declined, silent []*RoundMember) {
	for _, member := range r.Members {
		switch {
		case member.Responded && member.Confirmed:
			confirmed = append(confirmed, member)
		case member.Responded:
			declined = append(declined, member)
		default:
			silent = append(silent, member)
		}
	}
	return confirmed, declined, silent
}

// MemberIDs returns the snapshot's participant ids.
func (r *ConfirmationRound) MemberIDs() []string {
	ids := make([]string, 0, len(r.Members))
	for _, member := range r.Members {
		ids = append(ids, member.Participant.ID)
	}
	return ids
}
