package lobbyqueue

import "errors"

var (
	ErrUnknownSizeClass    = errors.New("lobbyqueue: unknown size class")
	ErrAlreadyQueued       = errors.New("lobbyqueue: participant already queued in this pool")
	ErrNotQueued           = errors.New("lobbyqueue: participant not queued")
	ErrWindowExpired       = errors.New("lobbyqueue: availability window already expired")
	ErrMissingRoundContext = errors.New("lobbyqueue: no active confirmation round matches this response")
	ErrDebugModeDisabled   = errors.New("lobbyqueue: debug mode is not active")
)
