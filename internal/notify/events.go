package notify

import (
	"encoding/json"
	"time"

	"github.com/dkarpov/bookstore/pkg/messaging"
	"github.com/google/uuid"
)

// InventoryChangedEvent is published to the message broker after a
// committed inventory mutation. It carries a catalog summary rather than
// the mutation itself: observers are fired with no payload and read state
// back through the query interface.
type InventoryChangedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	TitleCount int       `json:"title_count"`
	TotalUnits int64     `json:"total_units"`
	OccurredAt time.Time `json:"occurred_at"`

	subject string
}

func (e InventoryChangedEvent) Subject() string {
	if e.subject != "" {
		return e.subject
	}
	return messaging.InventorySubject
}

func (e InventoryChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
