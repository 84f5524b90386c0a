package analyzer

// State is the analyzer lifecycle state.
type State int

const (
	// StateInactive holds no device; the stored reading is zero.
	StateInactive State = iota
	// StateRequesting marks device acquisition in flight.
	StateRequesting
	// StateActive marks a running frame loop.
	StateActive
	// StateDenied marks refused device access; only a fresh Start
	// re-attempts acquisition.
	StateDenied
	// StateError marks an acquisition or runtime fault; only a fresh
	// Start re-attempts acquisition.
	StateError
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateRequesting:
		return "requesting"
	case StateActive:
		return "active"
	case StateDenied:
		return "denied"
	case StateError:
		return "error"
	}
	return "unknown"
}
