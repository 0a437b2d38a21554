package notify

import (
	"time"

	"github.com/google/uuid"
)

// Kind names the event a message reports.
type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
	KindAdminNewOrder     Kind = "admin_new_order"
	KindGarageAssignment  Kind = "garage_assignment"
	KindStatusUpdate      Kind = "status_update"
)

// Message is a rendered notification ready for a transport.
type Message struct {
	ID            string        `json:"id"`
	Kind          Kind          `json:"kind"`
	RecipientKind RecipientKind `json:"recipientKind"`
	To            string        `json:"to"`
	Name          string        `json:"name,omitempty"`
	Subject       string        `json:"subject"`
	Body          string        `json:"body"`
	OrderNumber   string        `json:"orderNumber"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func newMessage(kind Kind, to Recipient, orderNumber string, now time.Time) (Message, bool) {
	addr, ok := to.Address()
	if !ok {
		return Message{}, false
	}
	return Message{
		ID:            uuid.NewString(),
		Kind:          kind,
		RecipientKind: to.Kind(),
		To:            addr,
		Name:          to.DisplayName(),
		OrderNumber:   orderNumber,
		CreatedAt:     now.UTC(),
	}, true
}
