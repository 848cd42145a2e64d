package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-wishlist/pkg/config"
	"github.com/google/uuid"
)

func TestMintAndParseCustomerToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "storefront"}
	customerID := uuid.New()

	token, err := MintCustomerToken(cfg, time.Now(), 30*time.Minute, customerID)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseCustomerToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.CustomerID != customerID {
		t.Fatalf("customer id mismatch: %s", claims.CustomerID)
	}
	if claims.Subject != customerID.String() {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
}

func TestParseCustomerTokenRejectsExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "storefront"}
	token, err := MintCustomerToken(cfg, time.Now().Add(-2*time.Hour), time.Hour, uuid.New())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseCustomerToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseCustomerTokenRejectsWrongIssuerAndSecret(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "storefront"}
	token, err := MintCustomerToken(cfg, time.Now(), time.Hour, uuid.New())
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseCustomerToken(config.JWTConfig{Secret: "secret", Issuer: "other"}, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
	if _, err := ParseCustomerToken(config.JWTConfig{Secret: "nope", Issuer: "storefront"}, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
	if _, err := ParseCustomerToken(cfg, strings.TrimSuffix(token, token[len(token)-2:])); err == nil {
		t.Fatal("expected truncated token to fail")
	}
}

func TestMintCustomerTokenValidatesInput(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "storefront"}
	if _, err := MintCustomerToken(cfg, time.Now(), time.Hour, uuid.Nil); err == nil {
		t.Fatal("expected nil customer id to fail")
	}
	if _, err := MintCustomerToken(config.JWTConfig{Issuer: "storefront"}, time.Now(), time.Hour, uuid.New()); err == nil {
		t.Fatal("expected missing secret to fail")
	}
	if _, err := MintCustomerToken(cfg, time.Now(), 0, uuid.New()); err == nil {
		t.Fatal("expected zero ttl to fail")
	}
}
