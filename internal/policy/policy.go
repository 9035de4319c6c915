package policy

import "fmt"

// Action is the enforcement behavior selected for a score.
type Action int

const (
	ActionAllow Action = iota
	ActionWarn
	ActionModerate
	ActionBlock
)

func (a Action) String() string {
	switch a {
	case ActionBlock:
		return "block"
	case ActionModerate:
		return "moderate"
	case ActionWarn:
		return "warn"
	case ActionAllow:
		return "allow"
	default:
		return "allow"
	}
}

// ParseAction maps a configured action name to its Action. Unknown names
// fall back to the given default so a typo in config degrades predictably.
func ParseAction(name string, fallback Action) Action {
	switch name {
	case "block":
		return ActionBlock
	case "moderate":
		return ActionModerate
	case "warn":
		return ActionWarn
	case "allow":
		return ActionAllow
	default:
		return fallback
	}
}

// Status is the local three-way bucket derived from the normalized score.
type Status int

const (
	StatusSafe Status = iota
	StatusSuspicious
	StatusBlocked
)

func (s Status) String() string {
	switch s {
	case StatusBlocked:
		return "blocked"
	case StatusSuspicious:
		return "suspicious"
	case StatusSafe:
		return "safe"
	default:
		return "safe"
	}
}

// Decision is the outcome of evaluating a normalized score against the
// configured thresholds.
type Decision struct {
	Status Status
	Action Action
}

// Thresholds carries the two configured cut-offs and the actions mapped to
// the blocked and suspicious buckets.
type Thresholds struct {
	Spam             float64
	Suspicious       float64
	BlockedAction    Action
	SuspiciousAction Action
}

// Decide maps a normalized score to a status and action. Comparisons are
// inclusive at both thresholds; the blocked branch is checked first, so if
// the thresholds are configured inverted the spam threshold dominates.
func Decide(score float64, t Thresholds) Decision {
	if score >= t.Spam {
		return Decision{Status: StatusBlocked, Action: t.BlockedAction}
	}
	if score >= t.Suspicious {
		return Decision{Status: StatusSuspicious, Action: t.SuspiciousAction}
	}
	return Decision{Status: StatusSafe, Action: ActionAllow}
}

// Platform spam service verdicts for registrations.
const (
	RegistrationClean    = 1
	RegistrationModerate = 2
	RegistrationReview   = 3
	RegistrationBlock    = 4
)

// MergeRegistration composes an action with the platform's own registration
// verdict. Most restrictive wins: the platform's native detector can only be
// strengthened, never weakened.
func MergeRegistration(action Action, parent int) int {
	switch action {
	case ActionBlock:
		return RegistrationBlock
	case ActionModerate:
		if parent == RegistrationBlock {
			return RegistrationBlock
		}
		return RegistrationModerate
	case ActionWarn:
		if parent == RegistrationBlock {
			return RegistrationBlock
		}
		if parent == RegistrationModerate {
			return RegistrationModerate
		}
		return RegistrationReview
	case ActionAllow:
		return parent
	default:
		panic(fmt.Sprintf("unknown action %d", action))
	}
}
