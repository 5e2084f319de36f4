package models

// SessionState is a state of the auth session machine.
type SessionState int

const (
	StateUnknown SessionState = iota
	StateChecking
	StateAuthenticated
	StateUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session is a point-in-time copy of the auth session. User is non-nil only
// in StateAuthenticated, and only while a verified token is stored.
type Session struct {
	State      SessionState
	User       *User
	Token      string
	IsLoading  bool
	Generation uint64
}

// IsAuthenticated reports whether a verified user is present.
func (s Session) IsAuthenticated() bool {
	return s.User != nil
}

// AuthResponse is the body of a successful credential exchange.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// OneTapState tracks the one-tap prompt within the current process session.
type OneTapState int

const (
	OneTapNotAttempted OneTapState = iota
	OneTapDisplayed
	OneTapDismissed
)
