// Package dbtest opens in-memory sqlite databases carrying the service schema.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-wishlist/pkg/db"
)

// schema mirrors the goose migrations in sqlite syntax.
var schema = []string{
	`CREATE TABLE wishlists (
		id TEXT PRIMARY KEY,
		customer_id TEXT,
		session_id TEXT,
		title TEXT NOT NULL,
		code TEXT NOT NULL,
		is_default BOOLEAN NOT NULL DEFAULT 0,
		is_type BOOLEAN NOT NULL DEFAULT 0,
		source_wishlist_id TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX wishlists_code_key ON wishlists (code)`,
	`CREATE UNIQUE INDEX wishlists_customer_default_key ON wishlists (customer_id) WHERE is_default AND customer_id IS NOT NULL`,
	`CREATE UNIQUE INDEX wishlists_session_default_key ON wishlists (session_id) WHERE is_default AND customer_id IS NULL`,
	`CREATE UNIQUE INDEX wishlists_type_source_key ON wishlists (source_wishlist_id) WHERE is_type`,
	`CREATE TABLE wishlist_items (
		id TEXT PRIMARY KEY,
		wishlist_id TEXT NOT NULL REFERENCES wishlists (id) ON DELETE CASCADE,
		product_sale_element_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		position INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX wishlist_items_wishlist_pse_key ON wishlist_items (wishlist_id, product_sale_element_id)`,
	`CREATE TABLE carts (
		id TEXT PRIMARY KEY,
		customer_id TEXT,
		session_id TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX carts_customer_active_key ON carts (customer_id) WHERE status = 'active' AND customer_id IS NOT NULL`,
	`CREATE UNIQUE INDEX carts_session_active_key ON carts (session_id) WHERE status = 'active' AND customer_id IS NULL`,
	`CREATE TABLE cart_items (
		id TEXT PRIMARY KEY,
		cart_id TEXT NOT NULL REFERENCES carts (id) ON DELETE CASCADE,
		product_sale_element_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		position INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX cart_items_cart_pse_key ON cart_items (cart_id, product_sale_element_id)`,
	`CREATE TABLE outbox_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at DATETIME NOT NULL,
		published_at DATETIME,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT
	)`,
	`CREATE TABLE outbox_dlq (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		payload_json BLOB NOT NULL,
		error_reason TEXT NOT NULL,
		error_message TEXT,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		failed_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	)`,
}

// Open returns a private in-memory database for t with the schema applied.
// The pool is capped at one connection, so code under test must not query
// outside an open transaction while it holds one.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)), db.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v\n%s", err, stmt)
		}
	}
	return conn
}

// Client wraps Open in a db.Client.
func Client(t testing.TB) *db.Client {
	t.Helper()
	return db.Wrap(Open(t))
}
