package rebundler

// State is the lifecycle position of the most recent rebuild.
type State int

const (
	// Idle means no rebuild has run yet.
	Idle State = iota
	// Invalidating means stale entries are being pruned.
	Invalidating
	// Bundling means the bundler is running and dep events are being staged.
	Bundling
	// Committed means the last build completed and its staged entries are live.
	Committed
	// Abandoned means the last build ended without completing; the cache is unchanged.
	Abandoned
)

// String returns the upper-case name of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Invalidating:
		return "INVALIDATING"
	case Bundling:
		return "BUNDLING"
	case Committed:
		return "COMMITTED"
	case Abandoned:
		return "ABANDONED"
	default:
		return "UNKNOWN"
	}
}
