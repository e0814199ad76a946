package server

// State is a phase of the process lifecycle.
//
//	Starting -> Listening -> ShuttingDown -> Stopped
//	Starting -> Stopped            (bind failure)
//	Listening -> Crashed           (uncaught fault)
type State int

const (
	StateStarting State = iota
	StateListening
	StateShuttingDown
	StateStopped
	StateCrashed
)

var stateNames = [...]string{
	StateStarting:     "starting",
	StateListening:    "listening",
	StateShuttingDown: "shutting_down",
	StateStopped:      "stopped",
	StateCrashed:      "crashed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateStopped || s == StateCrashed
}
