package types

// LifecycleSignal identifies an asynchronous engine-level failure.
type LifecycleSignal string

const (
	// SignalBlocked means another process holds an incompatible lock that
	// prevents the store from opening.
	SignalBlocked LifecycleSignal = "blocked"

	// SignalClosed means the engine connection was torn down unexpectedly,
	// not by an explicit close.
	SignalClosed LifecycleSignal = "closed"
)

// LifecycleEvent is a notification from the storage engine that the
// connection entered a blocked or closed state outside the caller's control.
type LifecycleEvent struct {
	Signal LifecycleSignal
	Err    error
}

// DBEventType is the type tag on cross-process database notifications.
const DBEventType = "DB_EVENT"

// DBEventRestarted is the payload event emitted after every successful
// restart so dependents can refresh cached reads.
const DBEventRestarted = "restarted"

// DBEvent is the fire-and-forget message broadcast to the rest of the
// process after lifecycle changes.
type DBEvent struct {
	Type    string         `json:"type"`
	Payload DBEventPayload `json:"payload"`
}

// DBEventPayload names the lifecycle change being announced.
type DBEventPayload struct {
	Event string `json:"event"`
}

// RestartedEvent builds the notification sent after a successful restart.
func RestartedEvent() DBEvent {
	return DBEvent{
		Type:    DBEventType,
		Payload: DBEventPayload{Event: DBEventRestarted},
	}
}
