package lobbyqueue

import (
	"time"
)

// Manager bundles a queue engine with its sweeper and exposes the actions a
// frontend needs, so callers never touch the engine and sweeper lifecycles
// separately.
type Manager interface {
	Engine() QueueEngine
	Start() error
	Close()

	// Queue Actions
	Join(communityID, sizeClass string, p *Participant) error
	Leave(communityID, sizeClass, participantID string) ([]string, error)
	Queues(communityID string) CommunityQueues
	ActiveRound(communityID, sizeClass string) (ConfirmationRound, bool)

	// Round Actions
	RecordResponse(communityID, sizeClass, participantID string, confirmed bool) error

	// Maintenance Actions
	SweepExpired(now time.Time) []Eviction
	FillSynthetic(communityID, sizeClass string, seed *Participant) error
	SetDebugMode(enabled bool)
	DebugMode() bool
}

type manager struct {
	engine  QueueEngine
	sweeper Sweeper
}

func NewManager(options *QueueEngineOptions, sweepIntervalSeconds int, opts ...QueueEngineOpt) Manager {
	engine := NewQueueEngine(options, opts...)
	return &manager{
		engine:  engine,
		sweeper: NewSweeper(engine, sweepIntervalSeconds),
	}
}

func (m *manager) Engine() QueueEngine {
	return m.engine
}

func (m *manager) Start() error {
	return m.sweeper.Start()
}

func (m *manager) Close() {
	m.sweeper.Stop()
	m.engine.Close()
}

func (m *manager) Join(communityID, sizeClass string, p *Participant) error {
	return m.engine.Join(communityID, sizeClass, p)
}

func (m *manager) Leave(communityID, sizeClass, participantID string) ([]string, error) {
	return m.engine.Leave(communityID, sizeClass, participantID)
}

func (m *manager) Queues(communityID string) CommunityQueues {
	return m.engine.Queues(communityID)
}

func (m *manager) ActiveRound(communityID, sizeClass string) (ConfirmationRound, bool) {
	return m.engine.ActiveRound(communityID, sizeClass)
}

func (m *manager) RecordResponse(communityID, sizeClass, participantID string, confirmed bool) error {
	return m.engine.RecordResponse(communityID, sizeClass, participantID, confirmed)
}

func (m *manager) SweepExpired(now time.Time) []Eviction {
	return m.engine.SweepExpired(now)
}

func (m *manager) FillSynthetic(communityID, sizeClass string, seed *Participant) error {
	return m.engine.FillSynthetic(communityID, sizeClass, seed)
}

func (m *manager) SetDebugMode(enabled bool) {
	m.engine.SetDebugMode(enabled)
}

func (m *manager) DebugMode() bool {
	return m.engine.DebugMode()
}
