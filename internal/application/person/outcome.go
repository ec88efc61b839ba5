package person

// State is a step of the person creation saga
type State int

const (
	StateReceived State = iota
	StateParsed
	StateValidated
	StatePersisted
	StatePublished
	StateCompleted
	StateParseFailed
	StateValidationFailed
	StatePersistFailed
	StatePublishFailed
	StateCompensationSucceeded
	StateCompensationFailed
)

var stateNames = map[State]string{
	StateReceived:              "received",
	StateParsed:                "parsed",
	StateValidated:             "validated",
	StatePersisted:             "persisted",
	StatePublished:             "published",
	StateCompleted:             "completed",
	StateParseFailed:           "parse_failed",
	StateValidationFailed:      "validation_failed",
	StatePersistFailed:         "persist_failed",
	StatePublishFailed:         "publish_failed",
	StateCompensationSucceeded: "compensation_succeeded",
	StateCompensationFailed:    "compensation_failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether the saga stops in s
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateParseFailed, StateValidationFailed, StatePersistFailed,
		StateCompensationSucceeded, StateCompensationFailed:
		return true
	default:
		return false
	}
}

// Outcome is the terminal result of a creation attempt. The set of
// implementations is closed: Completed, ParseFailed, ValidationFailed,
// PersistFailed and PublishFailed.
type Outcome interface {
	// State returns the terminal state of the saga
	State() State
	outcome()
}

// Completed means the record was stored and its creation event published.
type Completed struct {
	ID string
}

// ParseFailed means the body was not valid JSON. No collaborator was called.
type ParseFailed struct {
	Err *ParseError
}

// ValidationFailed means the body did not match the person schema.
// No collaborator was called.
type ValidationFailed struct {
	Err *ValidationError
}

// PersistFailed means the record store write failed. No event was published.
type PersistFailed struct {
	Err *PersistenceError
}

// PublishFailed means the record was stored but the event was not published.
// Compensation is nil when the compensating delete succeeded.
type PublishFailed struct {
	Err          *PublishError
	Compensation *CompensationError
}

// Compensated reports whether the stored record was deleted again
func (o PublishFailed) Compensated() bool {
	return o.Compensation == nil
}

func (Completed) State() State        { return StateCompleted }
func (ParseFailed) State() State      { return StateParseFailed }
func (ValidationFailed) State() State { return StateValidationFailed }
func (PersistFailed) State() State    { return StatePersistFailed }

func (o PublishFailed) State() State {
	if o.Compensated() {
		return StateCompensationSucceeded
	}
	return StateCompensationFailed
}

func (Completed) outcome()        {}
func (ParseFailed) outcome()      {}
func (ValidationFailed) outcome() {}
func (PersistFailed) outcome()    {}
func (PublishFailed) outcome()    {}
