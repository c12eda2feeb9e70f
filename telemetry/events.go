// Package telemetry provides yearly population statistics, bookmarks and CSV output.
package telemetry

import "github.com/pthm-cable/biosim/components"

// EventType identifies a population event counted by the Collector.
type EventType uint8

const (
	EventBirth EventType = iota
	EventNaturalDeath
	EventKill // counted against the victim's species
	EventMigration
	numEventTypes
)

// String returns the event name used in logs.
func (t EventType) String() string {
	switch t {
	case EventBirth:
		return "birth"
	case EventNaturalDeath:
		return "natural_death"
	case EventKill:
		return "kill"
	case EventMigration:
		return "migration"
	}
	return "unknown"
}

// deathEvent maps a cause of death to the event it is counted as.
func deathEvent(cause components.DeathCause) EventType {
	if cause == components.DeathPredation {
		return EventKill
	}
	return EventNaturalDeath
}
