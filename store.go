package lobbyqueue

import "fmt"

// Store owns all mutable queue state: one CommunityQueues per community and
// the active confirmation round per (community, size class) key. It is a
// plain data holder; the engine serializes access to it.
type Store struct {
	communities map[string]CommunityQueues
	rounds      map[string]*ConfirmationRound
}

func NewStore() *Store {
	return &Store{
		communities: make(map[string]CommunityQueues),
		rounds:      make(map[string]*ConfirmationRound),
	}
}

func roundKey(communityID, sizeClass string) string {
	return fmt.Sprintf("%s-%s", communityID, sizeClass)
}

// GetOrCreateQueues lazily initializes a community's pools on first access.
// Communities live for the process lifetime.
func (s *Store) GetOrCreateQueues(communityID string) CommunityQueues {
	queues, ok := s.communities[communityID]
	if !ok {
		queues = NewCommunityQueues()
		s.communities[communityID] = queues
	}
	return queues
}

// Pool resolves a single pool, creating the community if needed.
func (s *Store) Pool(communityID, sizeClass string) (*Pool, error) {
	if _, err := RequiredSize(sizeClass); err != nil {
		return nil, err
	}
	return s.GetOrCreateQueues(communityID)[sizeClass], nil
}

// CommunityIDs returns every community seen so far.
func (s *Store) CommunityIDs() []string {
	ids := make([]string, 0, len(s.communities))
	for id := range s.communities {
		ids = append(ids, id)
	}
	return ids
}

// Join appends the participant to the pool, preserving arrival order.
func (s *Store) Join(communityID, sizeClass string, p *Participant) error {
	pool, err := s.Pool(communityID, sizeClass)
	if err != nil {
		return err
	}
	if pool.HasMember(p.ID) {
		return ErrAlreadyQueued
	}
	pool.Members = append(pool.Members, p)
	return nil
}

// Leave removes the participant from one pool, or from every pool when
// sizeClass is SizeClass_All. It returns the size classes actually left.
func (s *Store) Leave(communityID, sizeClass, participantID string) ([]string, error) {
	if sizeClass != SizeClass_All {
		if _, err := RequiredSize(sizeClass); err != nil {
			return nil, err
		}
	}

	queues := s.GetOrCreateQueues(communityID)
	left := make([]string, 0)
	for _, class := range SizeClasses {
		if sizeClass != SizeClass_All && class != sizeClass {
			continue
		}
		if queues[class].RemoveMember(participantID) {
			left = append(left, class)
		}
	}

	if len(left) == 0 {
		return nil, ErrNotQueued
	}
	return left, nil
}

// Remove is an idempotent single-pool removal; absent participants are a
// no-op.
func (s *Store) Remove(communityID, sizeClass, participantID string) {
	pool, err := s.Pool(communityID, sizeClass)
	if err != nil {
		return
	}
	pool.RemoveMember(participantID)
}

// Round returns the active confirmation round for the key, if any.
func (s *Store) Round(communityID, sizeClass string) (*ConfirmationRound, bool) {
	round, ok := s.rounds[roundKey(communityID, sizeClass)]
	return round, ok
}

func (s *Store) SetRound(round *ConfirmationRound) {
	s.rounds[roundKey(round.CommunityID, round.SizeClass)] = round
}

func (s *Store) DeleteRound(communityID, sizeClass string) {
	delete(s.rounds, roundKey(communityID, sizeClass))
}

// ActiveRounds returns every in-flight round.
func (s *Store) ActiveRounds() []*ConfirmationRound {
	rounds := make([]*ConfirmationRound, 0, len(s.rounds))
	for _, round := range s.rounds {
		rounds = append(rounds, round)
	}
	return rounds
}
