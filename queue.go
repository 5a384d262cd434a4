package lobbyqueue

import (
	"github.com/thoas/go-funk"

	"github.com/gamelobby/lobbyqueue/timewindow"
)

// Participant is a waiting member of one or more pools.
type Participant struct {
	ID          string            `json:"id"`
	DisplayName string            `json:"display_name"`
	JoinedAt    int64             `json:"joined_at"` // Seconds
	Window      *timewindow.Range `json:"window,omitempty"`
	Destination string            `json:"destination,omitempty"` // opaque notification target
	Synthetic   bool              `json:"synthetic,omitempty"`   // manufactured by debug fill, auto-confirms
}

// Pool is the waiting list for sessions of exactly RequiredSize participants.
// Members keep arrival order; order is display-only, session start is driven
// entirely by confirmation.
type Pool struct {
	RequiredSize int            `json:"required_size"`
	Members      []*Participant `json:"members"`
}

func (p *Pool) FindMemberIdx(participantID string) int {
	for idx, member := range p.Members {
		if member.ID == participantID {
			return idx
		}
	}
	return UnsetValue
}

func (p *Pool) HasMember(participantID string) bool {
	return p.FindMemberIdx(participantID) != UnsetValue
}

// RemoveMember deletes the participant if present and reports whether a
// removal happened.
func (p *Pool) RemoveMember(participantID string) bool {
	idx := p.FindMemberIdx(participantID)
	if idx == UnsetValue {
		return false
	}
	p.Members = append(p.Members[:idx], p.Members[idx+1:]...)
	return true
}

// SnapshotFull returns copies of the first RequiredSize member handles when
// the pool is at or above its required size. The pool itself is not mutated.
func (p *Pool) SnapshotFull() []*Participant {
	if len(p.Members) < p.RequiredSize {
		return nil
	}
	snapshot := make([]*Participant, p.RequiredSize)
	copy(snapshot, p.Members[:p.RequiredSize])
	return snapshot
}

// MemberIDs returns the pool's member ids in arrival order.
func (p *Pool) MemberIDs() []string {
	return funk.Map(p.Members, func(m *Participant) string {
		return m.ID
	}).([]string)
}

// CommunityQueues is one community's full set of pools, keyed by size class.
type CommunityQueues map[string]*Pool

// NewCommunityQueues initializes an empty pool for every supported size class.
func NewCommunityQueues() CommunityQueues {
	queues := make(CommunityQueues, len(SizeClasses))
	for _, sizeClass := range SizeClasses {
		queues[sizeClass] = &Pool{
			RequiredSize: requiredSizes[sizeClass],
			Members:      make([]*Participant, 0),
		}
	}
	return queues
}
