package lobbyqueue

const (
	// General
	UnsetValue = -1

	// SizeClass
	SizeClass_5P  = "5p"
	SizeClass_6P  = "6p"
	SizeClass_7P  = "7p"
	SizeClass_8P  = "8p"
	SizeClass_9P  = "9p"
	SizeClass_10P = "10p"

	// SizeClass_All is accepted by leave operations in place of a size class.
	SizeClass_All = "all"
)

// SizeClasses lists every supported pool, smallest first.
var SizeClasses = []string{
	SizeClass_5P,
	SizeClass_6P,
	SizeClass_7P,
	SizeClass_8P,
	SizeClass_9P,
	SizeClass_10P,
}

var requiredSizes = map[string]int{
	SizeClass_5P:  5,
	SizeClass_6P:  6,
	SizeClass_7P:  7,
	SizeClass_8P:  8,
	SizeClass_9P:  9,
	SizeClass_10P: 10,
}

// RequiredSize returns the member count a pool of the given size class needs
// before a confirmation round opens.
func RequiredSize(sizeClass string) (int, error) {
	size, ok := requiredSizes[sizeClass]
	if !ok {
		return UnsetValue, ErrUnknownSizeClass
	}
	return size, nil
}

type RemovalReason string

const (
	RemovalReason_Declined      RemovalReason = "declined"
	RemovalReason_NoResponse    RemovalReason = "no_response"
	RemovalReason_WindowExpired RemovalReason = "window_expired"
	RemovalReason_Left          RemovalReason = "left"
	RemovalReason_SessionReady  RemovalReason = "session_ready"
	RemovalReason_OtherSession  RemovalReason = "confirmed_other_session"
)
