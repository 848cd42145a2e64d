package owner

import (
	"testing"

	"github.com/google/uuid"
)

func TestResolvePrefersCustomer(t *testing.T) {
	id := uuid.New()
	key := Resolve(&id, "sess-1")

	got, ok := key.CustomerID()
	if !ok || got != id {
		t.Fatalf("expected customer owner, got %s", key)
	}
	if _, ok := key.SessionID(); ok {
		t.Fatalf("customer key must not expose a session id")
	}
}

func TestResolveFallsBackToSession(t *testing.T) {
	key := Resolve(nil, " sess-1 ")
	sid, ok := key.SessionID()
	if !ok || sid != "sess-1" {
		t.Fatalf("expected trimmed session owner, got %s", key)
	}

	nilID := uuid.Nil
	if Resolve(&nilID, "sess-2").Kind() != KindSession {
		t.Fatalf("nil customer id should fall back to session")
	}
}

func TestZeroKeyIsInvalid(t *testing.T) {
	if (Key{}).Valid() {
		t.Fatal("zero key should be invalid")
	}
	if Session("  ").Valid() {
		t.Fatal("blank session should be invalid")
	}
	if Customer(uuid.Nil).Valid() {
		t.Fatal("nil customer should be invalid")
	}
	c, s := (Key{}).Columns()
	if c != nil || s != nil {
		t.Fatal("zero key has no columns")
	}
}

func TestColumns(t *testing.T) {
	id := uuid.New()
	c, s := Customer(id).Columns()
	if c == nil || *c != id || s != nil {
		t.Fatalf("unexpected customer columns %v %v", c, s)
	}
	c, s = Session("abc").Columns()
	if c != nil || s == nil || *s != "abc" {
		t.Fatalf("unexpected session columns %v %v", c, s)
	}
	if Session("abc").String() != "session:abc" {
		t.Fatalf("unexpected string %q", Session("abc").String())
	}
}
