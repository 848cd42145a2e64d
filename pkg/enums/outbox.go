package enums

import "fmt"

// OutboxAggregateType names the entity an outbox event is about.
type OutboxAggregateType string

const (
	AggregateWishlist OutboxAggregateType = "wishlist"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateWishlist,
}

// IsValid reports whether the value is a known aggregate type.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType names what happened to the aggregate.
type OutboxEventType string

const (
	EventWishlistCreated         OutboxEventType = "wishlist_created"
	EventWishlistDeleted         OutboxEventType = "wishlist_deleted"
	EventWishlistConvertedToCart OutboxEventType = "wishlist_converted_to_cart"
)

var validOutboxEventTypes = []OutboxEventType{
	EventWishlistCreated,
	EventWishlistDeleted,
	EventWishlistConvertedToCart,
}

// IsValid reports whether the value is a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
