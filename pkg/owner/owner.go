// Package owner identifies who a wishlist or cart belongs to: an authenticated
// customer or, failing that, an anonymous storefront session.
package owner

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Kind int

const (
	KindNone Kind = iota
	KindCustomer
	KindSession
)

func (k Kind) String() string {
	switch k {
	case KindCustomer:
		return "customer"
	case KindSession:
		return "session"
	default:
		return "none"
	}
}

// Key is either Customer(id) or Session(id). The zero value owns nothing.
type Key struct {
	kind       Kind
	customerID uuid.UUID
	sessionID  string
}

func Customer(id uuid.UUID) Key {
	if id == uuid.Nil {
		return Key{}
	}
	return Key{kind: KindCustomer, customerID: id}
}

func Session(id string) Key {
	id = strings.TrimSpace(id)
	if id == "" {
		return Key{}
	}
	return Key{kind: KindSession, sessionID: id}
}

// Resolve picks the customer when one is known and falls back to the session.
func Resolve(customerID *uuid.UUID, sessionID string) Key {
	if customerID != nil && *customerID != uuid.Nil {
		return Customer(*customerID)
	}
	return Session(sessionID)
}

func (k Key) Kind() Kind { return k.kind }

func (k Key) Valid() bool { return k.kind != KindNone }

func (k Key) CustomerID() (uuid.UUID, bool) {
	return k.customerID, k.kind == KindCustomer
}

func (k Key) SessionID() (string, bool) {
	return k.sessionID, k.kind == KindSession
}

// ID renders the owner identifier for logs and cache keys.
func (k Key) ID() string {
	switch k.kind {
	case KindCustomer:
		return k.customerID.String()
	case KindSession:
		return k.sessionID
	default:
		return ""
	}
}

func (k Key) String() string {
	return k.kind.String() + ":" + k.ID()
}

// Columns returns the values to persist in customer_id and session_id.
func (k Key) Columns() (*uuid.UUID, *string) {
	switch k.kind {
	case KindCustomer:
		id := k.customerID
		return &id, nil
	case KindSession:
		id := k.sessionID
		return nil, &id
	default:
		return nil, nil
	}
}

// Scope restricts a query on a table with customer_id and session_id columns to
// rows owned by k. Session rows claimed by a customer are not visible to the session.
func (k Key) Scope(db *gorm.DB) *gorm.DB {
	switch k.kind {
	case KindCustomer:
		return db.Where("customer_id = ?", k.customerID)
	case KindSession:
		return db.Where("customer_id IS NULL AND session_id = ?", k.sessionID)
	default:
		return db.Where("1 = 0")
	}
}
