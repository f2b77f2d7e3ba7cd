package lifecycle

// State is the manager's position in the acquisition and renewal
// state machine.
type State int

const (
	// StateNoCert means no bundle exists for the domain yet.
	StateNoCert State = iota

	// StateAcquiring means the first order is in flight.
	StateAcquiring

	// StateValid means the stored bundle has enough validity left.
	StateValid

	// StateRenewalDue means the bundle expires inside the renewal
	// threshold and a renewal will be attempted.
	StateRenewalDue

	// StateRenewing means a renewal order is in flight.
	StateRenewing
)

func (s State) String() string {
	switch s {
	case StateNoCert:
		return "no_cert"
	case StateAcquiring:
		return "acquiring"
	case StateValid:
		return "valid"
	case StateRenewalDue:
		return "renewal_due"
	case StateRenewing:
		return "renewing"
	default:
		return "unknown"
	}
}
