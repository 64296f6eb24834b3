package infrastructure

import (
	"fmt"

	"cyanbot/events"
)

// LedgerStream is the JetStream stream that carries ledger events
const LedgerStream = "ledger_events"

var subjectsByType = map[events.EventType]string{
	events.EventTypeBalanceChange:  "ledger.balance_changed",
	events.EventTypeAccountCreated: "ledger.account_created",
	events.EventTypeGamePlayed:     "ledger.game_played",
	events.EventTypeCodeRedeemed:   "ledger.code_redeemed",
}

// EventSubjectMapper maps ledger events to NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts an event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("ledger.unknown.%s", event.Type())
}

// GetAllSubjects returns every subject the ledger publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(subjectsByType))
	for _, eventType := range events.AllEventTypes() {
		subjects = append(subjects, subjectsByType[eventType])
	}
	return subjects
}
